package imgio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func makeSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return img
}

func TestLoadImageRoundTripsPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solid.png")
	src := makeSolidNRGBA(12, 8, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating test png: %v", err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	f.Close()

	got, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	b := got.Bounds()
	if b.Dx() != 12 || b.Dy() != 8 {
		t.Fatalf("LoadImage size = %dx%d, want 12x8", b.Dx(), b.Dy())
	}
	r, g, bl, _ := got.At(5, 5).RGBA()
	if uint8(r>>8) != 10 || uint8(g>>8) != 20 || uint8(bl>>8) != 30 {
		t.Fatalf("LoadImage pixel = %d,%d,%d, want 10,20,30", r>>8, g>>8, bl>>8)
	}
}

func TestToBuffersAndFromBufferRoundTrip(t *testing.T) {
	src := makeSolidNRGBA(6, 4, color.NRGBA{R: 200, G: 5, B: 77, A: 255})
	w, h, pix := ToBuffers(src)
	if w != 6 || h != 4 {
		t.Fatalf("ToBuffers size = %dx%d, want 6x4", w, h)
	}
	out := FromBuffer(w, h, pix)
	r, g, b, a := out.At(2, 2).RGBA()
	if uint8(r>>8) != 200 || uint8(g>>8) != 5 || uint8(b>>8) != 77 || uint8(a>>8) != 255 {
		t.Fatalf("FromBuffer pixel = %d,%d,%d,%d, want 200,5,77,255", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestLoadMaskFromBlackAndWhiteImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mask.png")
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			i := img.PixOffset(x, y)
			if x < 2 {
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0, 0, 0, 255 // masked
			} else {
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 255, 255, 255, 255 // known
			}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating test mask: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding test mask: %v", err)
	}
	f.Close()

	mask, err := LoadMask(path, 4, 4)
	if err != nil {
		t.Fatalf("LoadMask: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := uint8(0)
			if x < 2 {
				want = 1
			}
			if got := mask[y*4+x]; got != want {
				t.Fatalf("mask[%d][%d] = %d, want %d", y, x, got, want)
			}
		}
	}
}

func TestLoadMaskRejectsSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mask.png")
	img := makeSolidNRGBA(3, 3, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
	f, _ := os.Create(path)
	png.Encode(f, img)
	f.Close()

	if _, err := LoadMask(path, 4, 4); err == nil {
		t.Fatalf("expected a size mismatch error")
	}
}
