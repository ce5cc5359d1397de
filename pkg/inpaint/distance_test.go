package inpaint

import "testing"

func TestDistanceIdenticalPatchIsZero(t *testing.T) {
	pix, mask := solidImage(9, 9, 10, 20, 30)
	mi, err := NewMaskedImage(9, 9, pix, mask)
	if err != nil {
		t.Fatalf("NewMaskedImage: %v", err)
	}
	d := Distance(mi, 4, 4, mi, 4, 4, 2)
	if d != 0 {
		t.Fatalf("Distance of a patch against itself = %d, want 0", d)
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	pixA := make([]uint8, 9*9*3)
	pixB := make([]uint8, 9*9*3)
	for i := range pixA {
		pixA[i] = uint8((i * 7) % 256)
		pixB[i] = uint8((i * 13) % 256)
	}
	a, err := NewMaskedImage(9, 9, pixA, make([]uint8, 81))
	if err != nil {
		t.Fatalf("NewMaskedImage a: %v", err)
	}
	b, err := NewMaskedImage(9, 9, pixB, make([]uint8, 81))
	if err != nil {
		t.Fatalf("NewMaskedImage b: %v", err)
	}
	d1 := Distance(a, 4, 4, b, 3, 5, 2)
	d2 := Distance(b, 3, 5, a, 4, 4, 2)
	if d1 != d2 {
		t.Fatalf("Distance not symmetric: %d vs %d", d1, d2)
	}
}

func TestDistanceMaskedOffsetIsPenalized(t *testing.T) {
	pix, mask := solidImage(9, 9, 50, 60, 70)
	clean, err := NewMaskedImage(9, 9, pix, mask)
	if err != nil {
		t.Fatalf("NewMaskedImage: %v", err)
	}
	maskedMask := append([]uint8(nil), mask...)
	maskedMask[4*9+4] = 1
	dirty, err := NewMaskedImage(9, 9, pix, maskedMask)
	if err != nil {
		t.Fatalf("NewMaskedImage: %v", err)
	}
	dClean := Distance(clean, 4, 4, clean, 4, 4, 1)
	dDirty := Distance(dirty, 4, 4, clean, 4, 4, 1)
	if dDirty <= dClean {
		t.Fatalf("masked source patch should be penalized: dirty=%d clean=%d", dDirty, dClean)
	}
}

func TestDistanceClampedToRange(t *testing.T) {
	pixA := make([]uint8, 9*9*3)
	pixB := make([]uint8, 9*9*3)
	for i := 0; i < len(pixA); i += 3 {
		pixA[i], pixA[i+1], pixA[i+2] = 0, 0, 0
		pixB[i], pixB[i+1], pixB[i+2] = 255, 255, 255
	}
	a, _ := NewMaskedImage(9, 9, pixA, make([]uint8, 81))
	b, _ := NewMaskedImage(9, 9, pixB, make([]uint8, 81))
	d := Distance(a, 4, 4, b, 4, 4, 3)
	if d < 0 || d > kDistanceScale {
		t.Fatalf("Distance out of range: %d", d)
	}
}

func TestDistanceOutOfBoundsOffsetTreatedAsMaxPenalty(t *testing.T) {
	pix, mask := solidImage(5, 5, 1, 2, 3)
	mi, err := NewMaskedImage(5, 5, pix, mask)
	if err != nil {
		t.Fatalf("NewMaskedImage: %v", err)
	}
	// patch radius 2 around the corner (0,0) walks off both edges.
	d := Distance(mi, 0, 0, mi, 0, 0, 2)
	if d <= 0 {
		t.Fatalf("expected a corner patch against itself to still accrue boundary penalty, got %d", d)
	}
}
