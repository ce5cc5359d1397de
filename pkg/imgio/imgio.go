// Package imgio loads and saves the raster/mask pairs patchfill
// operates on, bridging between on-disk image files and the flat
// interleaved-RGB/mask buffers pkg/inpaint consumes.
package imgio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// toNRGBA converts any image.Image to *image.NRGBA, copying pixel data
// so the result owns independent storage.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		out := image.NewNRGBA(n.Rect)
		copy(out.Pix, n.Pix)
		return out
	}
	b := src.Bounds()
	out := image.NewNRGBA(b)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := src.At(x, y).RGBA()
			out.Pix[i+0] = uint8(r >> 8)
			out.Pix[i+1] = uint8(g >> 8)
			out.Pix[i+2] = uint8(bl >> 8)
			out.Pix[i+3] = uint8(a >> 8)
			i += 4
		}
	}
	return out
}

// LoadImage reads an image file (PNG, JPEG, GIF, BMP or TIFF, chosen
// by content sniffing rather than extension) and returns it as
// *image.NRGBA, applying the JPEG EXIF orientation tag if present.
func LoadImage(path string) (*image.NRGBA, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("imgio: reading %s: %w", path, err)
	}
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("imgio: decoding %s: %w", path, err)
	}
	out := toNRGBA(img)
	if format == "jpeg" {
		if o, err := extractJPEGOrientation(b); err == nil && o >= 1 && o <= 8 {
			out = applyOrientation(out, o)
		}
	}
	return out, nil
}

// LoadMask reads a mask image and returns one byte per pixel, wantW by
// wantH (which must equal the mask image's own bounds): non-zero means
// unknown/to-be-synthesized. A pixel counts as
// masked when either its alpha channel is fully transparent or, for
// fully opaque pixels, when its luminance is below 128 (so both an
// alpha-cutout mask and a plain black/white mask image work without
// extra flags).
func LoadMask(path string, wantW, wantH int) ([]uint8, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("imgio: reading mask %s: %w", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("imgio: decoding mask %s: %w", path, err)
	}
	nrgba := toNRGBA(img)
	bounds := nrgba.Bounds()
	if bounds.Dx() != wantW || bounds.Dy() != wantH {
		return nil, fmt.Errorf("imgio: mask %s is %dx%d, want %dx%d", path, bounds.Dx(), bounds.Dy(), wantW, wantH)
	}
	mask := make([]uint8, wantW*wantH)
	for y := 0; y < wantH; y++ {
		for x := 0; x < wantW; x++ {
			i := nrgba.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			r, g, bl, a := nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2], nrgba.Pix[i+3]
			masked := a == 0
			if a != 0 {
				lum := (int(r)*299 + int(g)*587 + int(bl)*114) / 1000
				masked = lum < 128
			}
			if masked {
				mask[y*wantW+x] = 1
			}
		}
	}
	return mask, nil
}

// ToBuffers flattens img into the H*W*3 interleaved RGB buffer
// pkg/inpaint expects, discarding alpha.
func ToBuffers(img *image.NRGBA) (w, h int, pix []uint8) {
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	pix = make([]uint8, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			o := (y*w + x) * 3
			pix[o], pix[o+1], pix[o+2] = img.Pix[i], img.Pix[i+1], img.Pix[i+2]
		}
	}
	return w, h, pix
}

// FromBuffer rebuilds an opaque *image.NRGBA from an H*W*3 interleaved
// RGB buffer, the inverse of ToBuffers.
func FromBuffer(w, h int, pix []uint8) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			o := out.PixOffset(x, y)
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = pix[i], pix[i+1], pix[i+2], 255
		}
	}
	return out
}

// SaveImage writes img to path, choosing the encoder from the file
// extension (defaulting to PNG for anything unrecognized).
func SaveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imgio: creating %s: %w", path, err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".gif":
		return gif.Encode(f, img, nil)
	default:
		return png.Encode(f, img)
	}
}

// applyOrientation rotates/flips src according to the EXIF
// orientation values 2..8 (1 is already upright and returned as-is).
func applyOrientation(src *image.NRGBA, orientation int) *image.NRGBA {
	switch orientation {
	case 2:
		return flop(src)
	case 3:
		return rotate180(src)
	case 4:
		return flip(src)
	case 5:
		return flop(rotate90CW(src))
	case 6:
		return rotate90CW(src)
	case 7:
		return flop(rotate90CCW(src))
	case 8:
		return rotate90CCW(src)
	default:
		return src
	}
}

func flip(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			setPix(out, x, y, getPix(src, x, h-1-y))
		}
	}
	return out
}

func flop(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			setPix(out, x, y, getPix(src, w-1-x, y))
		}
	}
	return out
}

func rotate180(src *image.NRGBA) *image.NRGBA { return flop(flip(src)) }

func rotate90CW(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			setPix(out, h-1-y, x, getPix(src, x, y))
		}
	}
	return out
}

func rotate90CCW(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			setPix(out, y, w-1-x, getPix(src, x, y))
		}
	}
	return out
}

func getPix(img *image.NRGBA, x, y int) color.NRGBA {
	i := img.PixOffset(img.Bounds().Min.X+x, img.Bounds().Min.Y+y)
	return color.NRGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: img.Pix[i+3]}
}

func setPix(img *image.NRGBA, x, y int, c color.NRGBA) {
	i := img.PixOffset(img.Bounds().Min.X+x, img.Bounds().Min.Y+y)
	img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
}
