package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// NormalizeOptions controls how a decoded picture becomes a digit grid.
type NormalizeOptions struct {
	// Size is the output side length. Default DigitSize (28).
	Size int

	// Box is the side of the square the stroke is scaled to fit. Default 20.
	Box int

	// Binarize snaps every cell to 0 or 1 before scaling.
	Binarize bool

	// Level is the binarization cut on the 0-255 ink scale. Default 128.
	Level uint8
}

func (o NormalizeOptions) withDefaults() NormalizeOptions {
	if o.Size <= 0 {
		o.Size = DigitSize
	}
	if o.Box <= 0 || o.Box > o.Size {
		o.Box = o.Size * 20 / DigitSize
		if o.Box == 0 {
			o.Box = o.Size
		}
	}
	if o.Level == 0 {
		o.Level = 128
	}
	return o
}

// Normalize converts an arbitrary picture of a single digit into an MNIST-style grid.
//
// # Algorithm
//
//  1. Luminance: every opaque pixel is mapped to CIE L* (go-colorful) scaled to 0-1.
//     When any pixel is fully transparent, the picture is a stroke on a clear
//     canvas and alpha coverage is used as ink instead.
//  2. Polarity: when the mean luminance of opaque pixels is above 0.5 the picture
//     is dark ink on light paper and luminance is inverted, so ink is always bright.
//  3. Optional binarization with bild's segment.Threshold at opts.Level.
//  4. The ink bounding box is cropped, scaled (aspect preserved) to fit opts.Box
//     and pasted centered on an opts.Size square black canvas.
//
// A picture without ink yields an all-zero grid of the requested size.
func Normalize(img image.Image, opts NormalizeOptions) Grid {
	opts = opts.withDefaults()

	ink := inkImage(img)
	if opts.Binarize {
		ink = segment.Threshold(ink, opts.Level)
	}

	box, ok := inkBounds(ink)
	if !ok {
		return NewGrid(opts.Size, opts.Size)
	}

	cropped := imaging.Crop(ink, box)
	w, h := cropped.Bounds().Dx(), cropped.Bounds().Dy()
	scale := float64(opts.Box) / float64(max(w, h))
	newW := max(1, int(math.Round(float64(w)*scale)))
	newH := max(1, int(math.Round(float64(h)*scale)))
	scaled := imaging.Resize(cropped, newW, newH, imaging.Lanczos)

	canvas := imaging.New(opts.Size, opts.Size, color.Black)
	canvas = imaging.PasteCenter(canvas, scaled)

	g := NewGrid(opts.Size, opts.Size)
	for y := 0; y < opts.Size; y++ {
		for x := 0; x < opts.Size; x++ {
			// R, G and B are equal on a gray canvas.
			g.Set(y, x, float64(canvas.Pix[y*canvas.Stride+x*4])/255.0)
		}
	}
	return g
}

// inkImage maps a picture to an 8-bit gray image where bright means ink.
func inkImage(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	lum := make([]float64, bounds.Dx()*bounds.Dy())
	alpha := make([]uint8, len(lum))
	opaque := make([]bool, len(lum))
	var sum float64
	var count int
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			i := y*bounds.Dx() + x
			px := img.At(x+bounds.Min.X, y+bounds.Min.Y)
			alpha[i] = color.NRGBAModel.Convert(px).(color.NRGBA).A
			c, ok := colorful.MakeColor(px)
			if !ok {
				continue
			}
			l, _, _ := c.Lab()
			l = math.Max(0, math.Min(1, l))
			lum[i] = l
			opaque[i] = true
			sum += l
			count++
		}
	}

	if count < len(lum) {
		copy(out.Pix, alpha)
		return out
	}

	lightPaper := count > 0 && sum/float64(count) > 0.5
	for i, l := range lum {
		if !opaque[i] {
			continue
		}
		if lightPaper {
			l = 1 - l
		}
		out.Pix[i] = uint8(math.Round(l * 255))
	}
	return out
}

// inkBounds returns the smallest rectangle holding every non-zero pixel.
func inkBounds(g *image.Gray) (image.Rectangle, bool) {
	b := g.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, -1, -1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if g.GrayAt(x, y).Y == 0 {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
