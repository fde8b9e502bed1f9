//go:build !cgo

package ocr

import (
	digits "github.com/ironsheep/digit-knn-mcp/internal/imaging"
)

// RecognizeDigit always fails without cgo.
func RecognizeDigit(digits.Grid) (*DigitResult, error) {
	return nil, ErrUnavailable
}

// Info reports the backend as unavailable.
func Info() Status {
	return Status{Backend: "none", Error: ErrUnavailable.Error()}
}
