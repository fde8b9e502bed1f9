//go:build cgo

package ocr

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	digits "github.com/ironsheep/digit-knn-mcp/internal/imaging"
)

// requireTesseract skips when the library is linked but not usable.
func requireTesseract(t *testing.T) {
	t.Helper()
	if st := Info(); !st.Available {
		t.Skipf("Tesseract not available: %s", st.Error)
	}
}

// renderDigit draws a digit with basicfont, scaled up so it survives
// normalization, and returns the normalized grid.
func renderDigit(t *testing.T, digit string, scale int) digits.Grid {
	t.Helper()

	small := image.NewRGBA(image.Rect(0, 0, 16, 20))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(4), Y: fixed.I(15)},
	}
	d.DrawString(digit)

	b := small.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			img.Set(x, y, small.At(x/scale, y/scale))
		}
	}
	return digits.Normalize(img, digits.NormalizeOptions{})
}

func TestInfo(t *testing.T) {
	st := Info()
	if st.Backend != backend {
		t.Errorf("Backend = %q, want %q", st.Backend, backend)
	}
	if st.Available && st.Version == "" {
		t.Error("available backend should report a version")
	}
}

func TestRecognizeDigit_Blank(t *testing.T) {
	res, err := RecognizeDigit(digits.NewGrid(digits.DigitSize, digits.DigitSize))
	if err != nil {
		t.Fatalf("RecognizeDigit failed: %v", err)
	}
	if res.Recognized || res.Digit != -1 {
		t.Errorf("blank grid recognized as %+v", res)
	}
}

func TestRecognizeDigit(t *testing.T) {
	requireTesseract(t)

	res, err := RecognizeDigit(renderDigit(t, "7", 6))
	if err != nil {
		t.Fatalf("RecognizeDigit failed: %v", err)
	}
	if res.Confidence < 0 || res.Confidence > 1 {
		t.Errorf("confidence %v out of range", res.Confidence)
	}
	// Tesseract's verdict on synthetic glyphs varies by version; only a
	// recognized result is required to be a whitelisted digit.
	if res.Recognized && (res.Digit < 0 || res.Digit > 9) {
		t.Errorf("recognized digit %d outside whitelist", res.Digit)
	}
	t.Logf("recognized %+v", res)
}
