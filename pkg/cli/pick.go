package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// SelectFileWithFzf launches fzf over the image files found under
// startDir (jpg/jpeg/png/gif/tif/tiff/bmp) for interactively picking an
// input image or mask, previewing each candidate with whichever
// terminal image protocol this environment supports.
func SelectFileWithFzf(startDir string) (string, error) {
	quotedDir := strconv.Quote(startDir)

	var previewCmd string
	switch {
	case isKitty():
		previewCmd = "printf \"\\x1b_Ga=d\\x1b\\\\\"; kitty +kitten icat --silent {} 2>/dev/null || chafa --fill=block --symbols=block -s 80x40 {} 2>/dev/null"
	case isInlineImageCapable():
		previewCmd = "imgcat {} 2>/dev/null || chafa --fill=block --symbols=block -s 80x40 {} 2>/dev/null"
	case isSixelCapable():
		previewCmd = "img2sixel {} 2>/dev/null || chafa --fill=block --symbols=block -s 80x40 {} 2>/dev/null"
	default:
		previewCmd = "chafa --fill=block --symbols=block -s 80x40 {} 2>/dev/null"
	}

	cmdStr := fmt.Sprintf(
		"find %s -type f \\( -iname '*.jpg' -o -iname '*.jpeg' -o -iname '*.png' -o -iname '*.gif' -o -iname '*.tif' -o -iname '*.tiff' -o -iname '*.bmp' \\) | fzf --height 100%% --border --prompt='Image> ' --ansi --preview=%q --preview-window='right:60%%'",
		quotedDir, previewCmd,
	)
	cmd := exec.Command("bash", "-lc", cmdStr)

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		clearKittyImages()
		return "", fmt.Errorf("cli: running fzf: %w", err)
	}
	clearKittyImages()

	selection := strings.TrimSpace(out.String())
	if selection == "" {
		return "", fmt.Errorf("cli: no file selected")
	}
	return selection, nil
}

// clearKittyImages emits the Kitty graphics "delete" control sequence
// so a leftover preview image doesn't linger in the terminal buffer.
// Terminals that don't understand it simply ignore it.
func clearKittyImages() {
	fmt.Fprint(os.Stdout, "\x1b_Ga=d\x1b\\")
}
