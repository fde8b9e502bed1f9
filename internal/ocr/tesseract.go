//go:build cgo

package ocr

import (
	"fmt"
	"os"

	"github.com/otiai10/gosseract/v2"

	digits "github.com/ironsheep/digit-knn-mcp/internal/imaging"
)

const backend = "gosseract"

// RecognizeDigit reads the single digit drawn in g.
//
// A grid with no ink is reported as unrecognized without invoking Tesseract.
func RecognizeDigit(g digits.Grid) (*DigitResult, error) {
	if g.Width == 0 || g.Height == 0 || g.ForegroundCount(0) == 0 {
		return &DigitResult{Digit: -1}, nil
	}

	path, err := writeTemp(prepare(g))
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage("eng"); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetWhitelist(digitWhitelist); err != nil {
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
		return nil, fmt.Errorf("failed to set page mode: %w", err)
	}
	if err := client.SetImage(path); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	// Symbol confidence is optional; the text alone is still usable.
	var confidence float64
	if boxes, err := client.GetBoundingBoxes(gosseract.RIL_SYMBOL); err == nil && len(boxes) > 0 {
		confidence = float64(boxes[0].Confidence) / 100.0
	}
	return parseDigit(text, confidence), nil
}

// Info reports the installed Tesseract version.
func Info() Status {
	client := gosseract.NewClient()
	defer client.Close()

	version := client.Version()
	if version == "" {
		return Status{Backend: backend, Error: "tesseract did not report a version"}
	}
	return Status{Available: true, Version: version, Backend: backend}
}
