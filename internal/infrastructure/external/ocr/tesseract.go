// Package ocr recognizes text in scanned documents and images with the
// pdftoppm and tesseract command-line tools.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
	"github.com/johnquangdev/meeting-summarizer/pkg/executor"
)

// ErrDisabled is returned when OCR is switched off by configuration
var ErrDisabled = errors.New("ocr disabled")

// Engine drives the external OCR toolchain
type Engine struct {
	exec      executor.Executor
	pdftoppm  string
	tesseract string
	language  string
	dpi       int
	timeout   time.Duration
	enabled   bool
}

// New creates an OCR engine. A nil cfg yields a disabled engine.
func New(cfg *config.OCRConfig, exec executor.Executor) *Engine {
	if cfg == nil {
		return &Engine{}
	}
	if exec == nil {
		exec = executor.New()
	}
	e := &Engine{
		exec:      exec,
		pdftoppm:  cfg.PdftoppmPath,
		tesseract: cfg.TesseractPath,
		language:  cfg.Language,
		dpi:       cfg.DPI,
		timeout:   cfg.Timeout,
		enabled:   cfg.Enabled,
	}
	if e.dpi <= 0 {
		e.dpi = 300
	}
	if e.timeout <= 0 {
		e.timeout = 2 * time.Minute
	}
	if e.language == "" {
		e.language = "eng"
	}
	return e
}

// Enabled reports whether OCR may be attempted
func (e *Engine) Enabled() bool {
	return e != nil && e.enabled
}

// RecognizeImage returns the text of a single image; ext names its format (".png")
func (e *Engine) RecognizeImage(ctx context.Context, data []byte, ext string) (string, error) {
	if !e.Enabled() {
		return "", ErrDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	dir, err := os.MkdirTemp("", "ocr-image-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if ext == "" {
		ext = ".png"
	}
	input := filepath.Join(dir, "input"+ext)
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return e.recognize(ctx, input)
}

// RecognizePDF rasterizes every page and recognizes them in page order
func (e *Engine) RecognizePDF(ctx context.Context, data []byte) (string, error) {
	if !e.Enabled() {
		return "", ErrDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	dir, err := os.MkdirTemp("", "ocr-pdf-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}

	if _, err := e.exec.ExecuteInDir(ctx, dir, e.pdftoppm, "-r", strconv.Itoa(e.dpi), "-png", input, "page"); err != nil {
		return "", fmt.Errorf("pdftoppm: %w", err)
	}

	pages, err := filepath.Glob(filepath.Join(dir, "page*.png"))
	if err != nil {
		return "", err
	}
	sortPages(pages)

	var texts []string
	for _, page := range pages {
		text, err := e.recognize(ctx, page)
		if err != nil {
			return "", err
		}
		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n\n"), nil
}

func (e *Engine) recognize(ctx context.Context, imagePath string) (string, error) {
	out, err := e.exec.Execute(ctx, e.tesseract, imagePath, "stdout", "-l", e.language)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return out, nil
}

// sortPages orders pdftoppm output (page-1.png, page-2.png, ..., page-10.png) numerically
func sortPages(pages []string) {
	num := func(p string) int {
		base := strings.TrimSuffix(filepath.Base(p), ".png")
		n, _ := strconv.Atoi(base[strings.LastIndexByte(base, '-')+1:])
		return n
	}
	sort.SliceStable(pages, func(i, j int) bool { return num(pages[i]) < num(pages[j]) })
}
