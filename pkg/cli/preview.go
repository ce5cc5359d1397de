package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/joho/godotenv"
)

// Terminal preview of a patchfill result, supporting the Kitty and
// iTerm2 inline-image protocols directly and falling back to an
// external sixel or chafa renderer when neither is available.
//
// Detection order: inline (iTerm2-style OSC 1337) first since most
// modern terminals implement it reliably, then Kitty, then sixel, then
// chafa. PreviewImage returns an error only when nothing in that chain
// worked.
var previewDebug bool

func init() {
	_ = godotenv.Load()
	d := os.Getenv("PATCHFILL_PREVIEW_DEBUG")
	previewDebug = d == "1" || d == "true"
}

func debugf(format string, args ...interface{}) {
	if previewDebug {
		fmt.Fprintf(os.Stderr, "patchfill-preview: "+format+"\n", args...)
	}
}

func isKitty() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "kitty") || strings.Contains(term, "ghostty") {
		return true
	}
	return os.Getenv("KONSOLE_VERSION") != ""
}

func isInlineImageCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "VSCode", "Tabby":
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "wezterm") || strings.Contains(term, "warp")
}

func isSixelCapable() bool {
	if os.Getenv("PATCHFILL_SIXEL") == "1" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "foot") || os.Getenv("WT_SESSION") != ""
}

func hasChafa() bool {
	_, err := exec.LookPath("chafa")
	return err == nil
}

// PreviewSupported reports whether the running terminal likely
// supports one of the inline-preview backends.
func PreviewSupported() bool {
	return isKitty() || isInlineImageCapable() || isSixelCapable() || hasChafa()
}

// PreviewSize conveys a target terminal character-cell placement for
// an image preview.
type PreviewSize struct {
	Cols, Rows              int
	PixelWidth, PixelHeight int
}

func computePreviewSize(img image.Image) PreviewSize {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	const charW, charH = 8, 16
	const minCols, minRows, maxCols, maxRows = 6, 3, 80, 40

	scale := math.Min(1.0, math.Min(float64(maxCols*charW)/float64(w), float64(maxRows*charH)/float64(h)))
	targetW := int(math.Round(float64(w) * scale))
	targetH := int(math.Round(float64(h) * scale))

	cols := clampInt(int(math.Round(float64(targetW)/charW)), minCols, maxCols)
	rows := clampInt(int(math.Round(float64(targetH)/charH)), minRows, maxRows)
	return PreviewSize{Cols: cols, Rows: rows, PixelWidth: cols * charW, PixelHeight: rows * charH}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PreviewImage encodes img as PNG and renders it inline in the
// terminal via whichever backend this environment supports.
func PreviewImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("cli: nil image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("cli: png encode failed: %w", err)
	}
	return previewBytes(buf.Bytes(), computePreviewSize(img))
}

func previewBytes(blob []byte, size PreviewSize) error {
	if len(blob) == 0 {
		return fmt.Errorf("cli: empty image blob")
	}
	if isInlineImageCapable() {
		if err := sendInlineImage(blob, size); err == nil {
			return nil
		}
	}
	if isKitty() {
		if err := sendKittyImage(blob, size); err == nil {
			return nil
		}
	}
	if isSixelCapable() {
		if err := sendSixelImage(blob, size); err == nil {
			return nil
		}
	}
	if hasChafa() {
		if err := sendChafaImage(blob, size); err == nil {
			return nil
		}
	}
	return fmt.Errorf("cli: no terminal preview backend available")
}

func postImageNewlines(rows int) int {
	switch {
	case rows <= 2:
		return 1
	case rows <= 6:
		return 2
	case rows <= 20:
		return 3
	default:
		return 4
	}
}

// sendKittyImage transmits data (PNG bytes) using the Kitty graphics
// protocol, chunking the base64 payload into <=4096-byte pieces per
// the protocol's limit.
func sendKittyImage(data []byte, size PreviewSize) error {
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096
	total := len(enc)
	first := true
	for pos := 0; pos < total; pos += chunkSize {
		end := pos + chunkSize
		if end > total {
			end = total
		}
		chunk := enc[pos:end]
		last := end == total
		m := "1"
		if last {
			m = "0"
		}
		var header string
		if first {
			header = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%s;%s\x1b\\", size.Cols, size.Rows, m, chunk)
			first = false
		} else {
			header = "\x1b_Gm=" + m + ";" + chunk + "\x1b\\"
		}
		if _, err := os.Stdout.Write([]byte(header)); err != nil {
			return err
		}
	}
	for i := 0; i < postImageNewlines(size.Rows); i++ {
		fmt.Println()
	}
	return nil
}

// sendInlineImage emits the iTerm2-style OSC 1337 inline file sequence.
func sendInlineImage(data []byte, size PreviewSize) error {
	enc := base64.StdEncoding.EncodeToString(data)
	meta := fmt.Sprintf("size=%d;", len(data))
	if size.PixelWidth > 0 {
		meta += fmt.Sprintf("width=%dpx;height=%dpx;", size.PixelWidth, size.PixelHeight)
	}
	seq := "\x1b]1337;File=name=preview.png;inline=1;" + meta + ":" + enc + "\a"
	if _, err := os.Stdout.Write([]byte(seq)); err != nil {
		return err
	}
	for i := 0; i < postImageNewlines(0); i++ {
		fmt.Println()
	}
	return nil
}

// sendSixelImage pipes data through an external img2sixel binary,
// falling back to chafa if img2sixel isn't installed.
func sendSixelImage(data []byte, size PreviewSize) error {
	cmd := exec.Command("img2sixel", "-")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err == nil {
		for i := 0; i < postImageNewlines(0); i++ {
			fmt.Println()
		}
		return nil
	}
	return sendChafaImage(data, size)
}

// sendChafaImage invokes the external chafa binary to render a
// block-character approximation of data.
func sendChafaImage(data []byte, size PreviewSize) error {
	if _, err := exec.LookPath("chafa"); err != nil {
		return fmt.Errorf("cli: chafa not found in PATH: %w", err)
	}
	chafaSize := fmt.Sprintf("%dx%d", size.Cols, size.Rows)
	cmd := exec.Command("chafa", "--fill=block", "--symbols=block", "-s", chafaSize, "-")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cli: chafa failed: %w", err)
	}
	for i := 0; i < postImageNewlines(size.Rows); i++ {
		fmt.Println()
	}
	return nil
}
