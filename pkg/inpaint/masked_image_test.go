package inpaint

import "testing"

func solidImage(w, h int, r, g, b uint8) ([]uint8, []uint8) {
	pix := make([]uint8, w*h*3)
	mask := make([]uint8, w*h)
	for i := 0; i < w*h; i++ {
		pix[i*3+0], pix[i*3+1], pix[i*3+2] = r, g, b
	}
	return pix, mask
}

func TestNewMaskedImageRejectsBadShapes(t *testing.T) {
	if _, err := NewMaskedImage(0, 4, nil, nil); err == nil {
		t.Fatalf("expected error for zero width")
	}
	pix, mask := solidImage(4, 4, 1, 2, 3)
	if _, err := NewMaskedImage(4, 4, pix[:len(pix)-3], mask); err == nil {
		t.Fatalf("expected error for short pixel buffer")
	}
	if _, err := NewMaskedImage(4, 4, pix, mask[:len(mask)-1]); err == nil {
		t.Fatalf("expected error for short mask buffer")
	}
	if _, err := NewMaskedImage(4, 4, pix, mask); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMaskedImagePixelAndMaskRoundTrip(t *testing.T) {
	pix, mask := solidImage(3, 3, 10, 20, 30)
	mi, err := NewMaskedImage(3, 3, pix, mask)
	if err != nil {
		t.Fatalf("NewMaskedImage: %v", err)
	}
	r, g, b := mi.Pixel(1, 1)
	if r != 10 || g != 20 || b != 30 {
		t.Fatalf("Pixel(1,1) = %d,%d,%d, want 10,20,30", r, g, b)
	}
	if mi.IsMasked(1, 1) {
		t.Fatalf("expected unmasked pixel")
	}
	mi.SetMask(1, 1, 1)
	if !mi.IsMasked(1, 1) {
		t.Fatalf("SetMask did not take effect")
	}
	mi.SetPixel(0, 0, 5, 6, 7)
	r, g, b = mi.Pixel(0, 0)
	if r != 5 || g != 6 || b != 7 {
		t.Fatalf("SetPixel did not take effect, got %d,%d,%d", r, g, b)
	}
}

func TestMaskedImageCloneIsIndependent(t *testing.T) {
	pix, mask := solidImage(3, 3, 1, 1, 1)
	mi, _ := NewMaskedImage(3, 3, pix, mask)
	clone := mi.Clone()
	clone.SetPixel(0, 0, 9, 9, 9)
	clone.SetMask(0, 0, 1)
	r, g, b := mi.Pixel(0, 0)
	if r != 1 || g != 1 || b != 1 {
		t.Fatalf("mutating clone affected original pixel data")
	}
	if mi.IsMasked(0, 0) {
		t.Fatalf("mutating clone affected original mask")
	}
}

func TestClearMaskUnmasksEverything(t *testing.T) {
	mi := NewBlankMaskedImage(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if !mi.IsMasked(y, x) {
				t.Fatalf("blank image should start fully masked")
			}
		}
	}
	mi.ClearMask()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if mi.IsMasked(y, x) {
				t.Fatalf("ClearMask left (%d,%d) masked", y, x)
			}
		}
	}
}

func TestContainsMaskDetectsNearbyMask(t *testing.T) {
	mi := NewBlankMaskedImage(5, 5)
	mi.ClearMask()
	if mi.ContainsMask(2, 2, 1) {
		t.Fatalf("expected no mask in fully-cleared image")
	}
	mi.SetMask(2, 3, 1)
	if !mi.ContainsMask(2, 2, 1) {
		t.Fatalf("expected ContainsMask to see the masked neighbor")
	}
	if mi.ContainsMask(0, 0, 1) {
		t.Fatalf("mask at (2,3) should not reach patch around (0,0)")
	}
}

func TestComputeGradientsBoundaryIsZero(t *testing.T) {
	pix := make([]uint8, 5*5*3)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			i := (y*5 + x) * 3
			pix[i] = uint8(x * 40)
		}
	}
	mi, err := NewMaskedImage(5, 5, pix, make([]uint8, 25))
	if err != nil {
		t.Fatalf("NewMaskedImage: %v", err)
	}
	gx, gy := mi.Gradient(0, 0)
	if gx != [3]uint8{0, 0, 0} || gy != [3]uint8{0, 0, 0} {
		t.Fatalf("expected zero gradient on boundary row/col, got gx=%v gy=%v", gx, gy)
	}
	gx, _ = mi.Gradient(2, 2)
	want := uint8(128 + (3*40-1*40)/2) // neighbors at x=3 and x=1
	if gx[0] != want {
		t.Fatalf("interior gx[0] = %d, want %d", gx[0], want)
	}
}

func TestComputeGradientsSkippedForTinyImages(t *testing.T) {
	mi := NewBlankMaskedImage(2, 2)
	gx, gy := mi.Gradient(0, 0)
	if gx != [3]uint8{0, 0, 0} || gy != [3]uint8{0, 0, 0} {
		t.Fatalf("expected zero gradients for a sub-3x3 image")
	}
}

func TestDownsampleHalvesDimensionsAndAverages(t *testing.T) {
	pix, mask := solidImage(8, 8, 100, 150, 200)
	mi, _ := NewMaskedImage(8, 8, pix, mask)
	down := mi.Downsample()
	h, w := down.Size()
	if h != 4 || w != 4 {
		t.Fatalf("Downsample size = %dx%d, want 4x4", w, h)
	}
	r, g, b := down.Pixel(2, 2)
	if r != 100 || g != 150 || b != 200 {
		t.Fatalf("Downsample of a solid image changed color: got %d,%d,%d", r, g, b)
	}
	if down.IsMasked(2, 2) {
		t.Fatalf("fully unmasked source should downsample to unmasked")
	}
}

func TestDownsampleLeavesFullyMaskedRegionMasked(t *testing.T) {
	mi := NewBlankMaskedImage(6, 6)
	down := mi.Downsample()
	h, w := down.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !down.IsMasked(y, x) {
				t.Fatalf("expected (%d,%d) to remain masked with no unmasked contributors", y, x)
			}
		}
	}
}

func TestUpsampleNearestNeighbor(t *testing.T) {
	pix, mask := solidImage(2, 2, 9, 8, 7)
	mi, _ := NewMaskedImage(2, 2, pix, mask)
	up := mi.Upsample(4, 4)
	h, w := up.Size()
	if h != 4 || w != 4 {
		t.Fatalf("Upsample size = %dx%d, want 4x4", w, h)
	}
	r, g, b := up.Pixel(3, 3)
	if r != 9 || g != 8 || b != 7 {
		t.Fatalf("Upsample of solid image changed color: got %d,%d,%d", r, g, b)
	}
}
