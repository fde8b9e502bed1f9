package imaging

// Outline keeps the boundary cells of the stroke: foreground cells (strictly
// above threshold) with at least one 4-connected neighbour that is background
// or outside the grid. Interior cells become 0; kept cells keep their value.
func Outline(g Grid, threshold float64) Grid {
	out := NewGrid(g.Width, g.Height)
	fg := func(row, col int) bool {
		if row < 0 || row >= g.Height || col < 0 || col >= g.Width {
			return false
		}
		return g.Pix[row*g.Width+col] > threshold
	}

	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if !fg(row, col) {
				continue
			}
			if fg(row-1, col) && fg(row+1, col) && fg(row, col-1) && fg(row, col+1) {
				continue
			}
			out.Pix[row*g.Width+col] = g.Pix[row*g.Width+col]
		}
	}
	return out
}
