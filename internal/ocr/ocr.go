package ocr

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"unicode"

	"github.com/disintegration/imaging"

	digits "github.com/ironsheep/digit-knn-mcp/internal/imaging"
)

// ErrUnavailable is returned when the binary was built without Tesseract.
var ErrUnavailable = errors.New("ocr: tesseract support not compiled in (build with cgo)")

const (
	digitWhitelist = "0123456789"

	// renderScale upscales a 28x28 grid to a size Tesseract segments reliably.
	renderScale = 4
	// renderMargin is the light border, in source cells, around the digit.
	renderMargin = 6
)

// DigitResult is the outcome of reading one digit.
type DigitResult struct {
	// Digit is the recognized value, or -1 when nothing was recognized.
	Digit int `json:"digit"`

	// Text is Tesseract's raw output, trimmed.
	Text string `json:"text"`

	// Confidence is in [0,1].
	Confidence float64 `json:"confidence"`

	Recognized bool `json:"recognized"`
}

// Status describes the OCR backend.
type Status struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Backend   string `json:"backend"`
	Error     string `json:"error,omitempty"`
}

// prepare renders g as black ink on a white page with a margin, upscaled.
func prepare(g digits.Grid) image.Image {
	ink := imaging.Invert(digits.ToImage(g))
	side := (max(g.Width, g.Height) + 2*renderMargin) * renderScale
	page := imaging.New(side, side, color.White)
	scaled := imaging.Resize(ink, g.Width*renderScale, g.Height*renderScale, imaging.Lanczos)
	return imaging.PasteCenter(page, scaled)
}

// parseDigit interprets Tesseract output. The first digit rune wins.
func parseDigit(text string, confidence float64) *DigitResult {
	text = strings.TrimSpace(text)
	res := &DigitResult{Digit: -1, Text: text}
	for _, r := range text {
		if unicode.IsDigit(r) && r <= '9' {
			res.Digit = int(r - '0')
			res.Recognized = true
			res.Confidence = min(1, max(0, confidence))
			break
		}
	}
	return res
}

// writeTemp saves img as a temporary PNG. The caller removes the file.
func writeTemp(img image.Image) (string, error) {
	f, err := os.CreateTemp("", "digit-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to encode temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
