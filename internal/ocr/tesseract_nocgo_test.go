//go:build !cgo

package ocr

import (
	"errors"
	"testing"

	digits "github.com/ironsheep/digit-knn-mcp/internal/imaging"
)

func TestRecognizeDigit_Unavailable(t *testing.T) {
	_, err := RecognizeDigit(digits.NewGrid(digits.DigitSize, digits.DigitSize))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("RecognizeDigit error = %v, want ErrUnavailable", err)
	}
	if st := Info(); st.Available {
		t.Error("Info reports available without cgo")
	}
}
