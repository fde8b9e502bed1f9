package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/disintegration/imaging"
)

// RenderResult contains a grid rendered as a base64 PNG.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// ToImage converts a grid to an 8-bit gray image, white ink on black.
// Grids with intensities above 1 are scaled by their maximum.
func ToImage(g Grid) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	scale := 1.0
	if m := g.Max(); m > 1 {
		scale = 1 / m
	}
	for i, v := range g.Pix {
		v = math.Max(0, math.Min(1, v*scale))
		img.Pix[i] = uint8(math.Round(v * 255))
	}
	return img
}

// WritePNG encodes a grid as PNG, upscaled by an integer factor.
func WritePNG(w io.Writer, g Grid, scale int) error {
	var img image.Image = ToImage(g)
	if scale > 1 && g.Width > 0 && g.Height > 0 {
		img = imaging.Resize(img, g.Width*scale, g.Height*scale, imaging.NearestNeighbor)
	}
	return png.Encode(w, img)
}

// EncodePNG renders a grid as a base64 PNG suitable for MCP text results.
func EncodePNG(g Grid, scale int) (*RenderResult, error) {
	if g.Width == 0 || g.Height == 0 {
		return nil, fmt.Errorf("cannot render empty grid %dx%d", g.Width, g.Height)
	}
	if scale < 1 {
		scale = 1
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, g, scale); err != nil {
		return nil, fmt.Errorf("failed to encode grid: %w", err)
	}

	return &RenderResult{
		Width:       g.Width * scale,
		Height:      g.Height * scale,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
