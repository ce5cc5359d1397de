package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Fepozopo/patchfill/pkg/imgio"
	"github.com/Fepozopo/patchfill/pkg/inpaint"
)

func usage() {
	fmt.Println("Commands available:")
	fmt.Println("  r  - run inpainting on the loaded image/mask")
	fmt.Println("  o  - open a different image (type / to pick with fzf)")
	fmt.Println("  m  - open a different mask (type / to pick with fzf)")
	fmt.Println("  s  - save the current result")
	fmt.Println("  p  - preview the current result in-terminal")
	fmt.Println("  u  - check for updates")
	fmt.Println("  h  - show this help message")
	fmt.Println("  q  - quit")
}

// PromptLine prints prompt and reads one line of trimmed input.
func PromptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptLineOrFzf reads a line and, if the user typed a bare "/",
// launches the interactive fzf file picker instead.
func PromptLineOrFzf(prompt string) (string, error) {
	line, err := PromptLine(prompt)
	if err != nil {
		return "", err
	}
	if line != "/" {
		return line, nil
	}
	sel, err := SelectFileWithFzf(".")
	if err != nil || sel == "" {
		return PromptLine(prompt)
	}
	fmt.Printf(" [fzf] %s\n", sel)
	return sel, nil
}

// session tracks the paths and in-memory state of one interactive
// RunCLI invocation.
type session struct {
	cfg Config

	imagePath string
	maskPath  string

	w, h     int
	pix      []uint8
	mask     []uint8
	resultW  int
	resultH  int
	result   []uint8
	hasResult bool
}

func (s *session) loadImage(path string) error {
	img, err := imgio.LoadImage(path)
	if err != nil {
		return err
	}
	w, h, pix := imgio.ToBuffers(img)
	s.imagePath, s.w, s.h, s.pix = path, w, h, pix
	s.hasResult = false
	return nil
}

func (s *session) loadMask(path string) error {
	if s.w == 0 || s.h == 0 {
		return fmt.Errorf("cli: load an image before a mask")
	}
	mask, err := imgio.LoadMask(path, s.w, s.h)
	if err != nil {
		return err
	}
	s.maskPath, s.mask = path, mask
	s.hasResult = false
	return nil
}

func (s *session) run() error {
	if s.pix == nil {
		return fmt.Errorf("cli: no image loaded")
	}
	if s.mask == nil {
		return fmt.Errorf("cli: no mask loaded")
	}
	ip, err := inpaint.NewInpainter(s.h, s.w, s.pix, s.mask, s.cfg.PatchSize,
		inpaint.WithSeed(s.cfg.Seed), inpaint.WithMaxRetry(s.cfg.MaxRetry))
	if err != nil {
		return err
	}
	out, err := ip.Run()
	if err != nil {
		return err
	}
	s.result, s.resultW, s.resultH, s.hasResult = out, s.w, s.h, true
	return nil
}

// RunCLI drives the interactive single-letter command loop: load an
// image and mask, run the inpainting fill, preview and save the
// result.
func RunCLI() {
	cfg := LoadConfig()
	s := &session{cfg: cfg}

	if len(os.Args) >= 2 {
		if err := s.loadImage(os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load image %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
	}
	if len(os.Args) >= 3 {
		if err := s.loadMask(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load mask %s: %v\n", os.Args[2], err)
			os.Exit(1)
		}
	}

	fmt.Println("patchfill interactive shell")
	usage()
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimSpace(line)
		switch cmd {
		case "r":
			if err := s.run(); err != nil {
				fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
				continue
			}
			fmt.Println("fill complete")
		case "o":
			path, err := PromptLineOrFzf("image path: ")
			if err != nil {
				continue
			}
			if err := s.loadImage(path); err != nil {
				fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
			}
		case "m":
			path, err := PromptLineOrFzf("mask path: ")
			if err != nil {
				continue
			}
			if err := s.loadMask(path); err != nil {
				fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
			}
		case "s":
			if !s.hasResult {
				fmt.Println("nothing to save yet; run 'r' first")
				continue
			}
			path, err := PromptLine("save to: ")
			if err != nil {
				continue
			}
			out := imgio.FromBuffer(s.resultW, s.resultH, s.result)
			if err := imgio.SaveImage(path, out); err != nil {
				fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
			}
		case "p":
			if !s.hasResult {
				fmt.Println("nothing to preview yet; run 'r' first")
				continue
			}
			out := imgio.FromBuffer(s.resultW, s.resultH, s.result)
			if err := PreviewImage(out); err != nil {
				fmt.Fprintf(os.Stderr, "preview failed: %v\n", err)
			}
		case "u":
			if err := CheckForUpdates(s.cfg.Repo); err != nil {
				fmt.Fprintf(os.Stderr, "update check failed: %v\n", err)
			}
		case "h":
			usage()
		case "q":
			return
		default:
			if cmd != "" {
				fmt.Println("unrecognized command; type h for help")
			}
		}
	}
}
