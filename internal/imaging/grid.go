package imaging

// DigitSize is the side length of a normalized digit grid.
const DigitSize = 28

// Grid is a 2-D intensity bitmap stored row-major.
type Grid struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Pix    []float64 `json:"-"`
}

// NewGrid allocates an all-zero grid.
func NewGrid(width, height int) Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Grid{Width: width, Height: height, Pix: make([]float64, width*height)}
}

// GridFromRows builds a grid from nested rows. The width is the longest row;
// shorter rows are padded with zeros.
func GridFromRows(rows [][]float64) Grid {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	g := NewGrid(width, len(rows))
	for y, r := range rows {
		copy(g.Pix[y*width:], r)
	}
	return g
}

// At returns the intensity at (row, col), or 0 outside the grid.
func (g Grid) At(row, col int) float64 {
	if row < 0 || row >= g.Height || col < 0 || col >= g.Width {
		return 0
	}
	return g.Pix[row*g.Width+col]
}

// Set writes the intensity at (row, col). Writes outside the grid are ignored.
func (g Grid) Set(row, col int, v float64) {
	if row < 0 || row >= g.Height || col < 0 || col >= g.Width {
		return
	}
	g.Pix[row*g.Width+col] = v
}

// ForegroundCount counts cells whose intensity is strictly above threshold.
func (g Grid) ForegroundCount(threshold float64) int {
	n := 0
	for _, v := range g.Pix {
		if v > threshold {
			n++
		}
	}
	return n
}

// Max returns the largest intensity, or 0 for an empty grid.
func (g Grid) Max() float64 {
	m := 0.0
	for _, v := range g.Pix {
		if v > m {
			m = v
		}
	}
	return m
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	out := Grid{Width: g.Width, Height: g.Height, Pix: make([]float64, len(g.Pix))}
	copy(out.Pix, g.Pix)
	return out
}
