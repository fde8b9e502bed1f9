package mathtool

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/ironsheep/digit-knn-mcp/internal/imaging"
)

// Point is a foreground cell position.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// CoordinateSet is the ordered set of foreground coordinates of one grid.
//
// Membership is backed by a roaring bitmap keyed by row*stride+col, which lets
// the nearest-point search skip points the two sets share.
type CoordinateSet struct {
	Points []Point
	stride int
	keys   *roaring.Bitmap
}

// ExtractCoordinates returns the coordinates of cells strictly above threshold,
// in row-major order.
func ExtractCoordinates(g imaging.Grid, threshold float64) CoordinateSet {
	set := CoordinateSet{stride: g.Width, keys: roaring.New()}
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if g.Pix[row*g.Width+col] > threshold {
				set.Points = append(set.Points, Point{Row: row, Col: col})
				set.keys.Add(uint32(row*g.Width + col))
			}
		}
	}
	return set
}

// NewCoordinateSet builds a set from explicit points. Duplicates are kept in
// Points, matching the caller's ordering.
func NewCoordinateSet(points []Point) CoordinateSet {
	stride := 0
	for _, p := range points {
		if p.Col+1 > stride {
			stride = p.Col + 1
		}
	}
	set := CoordinateSet{Points: append([]Point(nil), points...), stride: stride, keys: roaring.New()}
	for _, p := range points {
		if p.Row < 0 || p.Col < 0 {
			continue
		}
		set.keys.Add(uint32(p.Row*stride + p.Col))
	}
	return set
}

// Len returns the number of points.
func (s CoordinateSet) Len() int {
	return len(s.Points)
}

// Contains reports whether p is in the set.
func (s CoordinateSet) Contains(p Point) bool {
	if s.keys == nil || p.Row < 0 || p.Col < 0 || p.Col >= s.stride {
		return false
	}
	return s.keys.Contains(uint32(p.Row*s.stride + p.Col))
}
