package imaging

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"testing"
)

func TestToImage(t *testing.T) {
	img := ToImage(GridFromRows([][]float64{{0, 0.5, 1}}))
	want := []uint8{0, 128, 255}
	for i, w := range want {
		if img.Pix[i] != w {
			t.Errorf("pixel %d: got %d, want %d", i, img.Pix[i], w)
		}
	}

	// Raw 0-255 intensities are scaled by their maximum.
	raw := ToImage(GridFromRows([][]float64{{0, 255}}))
	if raw.Pix[1] != 255 {
		t.Errorf("raw max: got %d, want 255", raw.Pix[1])
	}
}

func TestEncodePNG(t *testing.T) {
	g := NewGrid(DigitSize, DigitSize)
	g.Set(3, 4, 1)

	res, err := EncodePNG(g, 3)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if res.Width != 84 || res.Height != 84 || res.MimeType != "image/png" {
		t.Errorf("result: got %dx%d %s", res.Width, res.Height, res.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 84 || b.Dy() != 84 {
		t.Errorf("decoded size: got %dx%d", b.Dx(), b.Dy())
	}
	// Cell (3, 4) covers pixels 12-14 x 9-11.
	if r, _, _, _ := img.At(13, 10).RGBA(); r>>8 != 255 {
		t.Errorf("ink pixel: got %d, want 255", r>>8)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0 {
		t.Errorf("background pixel: got %d, want 0", r>>8)
	}
}

func TestEncodePNG_Errors(t *testing.T) {
	if _, err := EncodePNG(Grid{}, 1); err == nil {
		t.Error("EncodePNG should fail for an empty grid")
	}

	res, err := EncodePNG(NewGrid(2, 2), 0)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if res.Width != 2 {
		t.Errorf("scale 0 should mean 1, got width %d", res.Width)
	}
}
