package mathtool

import (
	"math"

	"github.com/ironsheep/digit-knn-mcp/internal/imaging"
)

// nearest returns the Euclidean distance from p to the closest point of set.
// set must not be empty.
func nearest(p Point, set CoordinateSet) float64 {
	if set.Contains(p) {
		return 0
	}
	best := math.MaxInt
	for _, q := range set.Points {
		dr, dc := p.Row-q.Row, p.Col-q.Col
		if d := dr*dr + dc*dc; d < best {
			best = d
			if best == 0 {
				break
			}
		}
	}
	return math.Sqrt(float64(best))
}

// OneWayDistance is the mean, over every point of a, of the distance to the
// nearest point of b. An empty a yields 0; an empty b yields +Inf.
func OneWayDistance(a, b CoordinateSet) float64 {
	if a.Len() == 0 {
		return 0
	}
	if b.Len() == 0 {
		return math.Inf(1)
	}
	var sum float64
	for _, p := range a.Points {
		sum += nearest(p, b)
	}
	return sum / float64(a.Len())
}

// DirectedHausdorff is the largest distance from a point of a to its nearest
// point of b. An empty a yields 0; an empty b yields +Inf.
func DirectedHausdorff(a, b CoordinateSet) float64 {
	if a.Len() == 0 {
		return 0
	}
	if b.Len() == 0 {
		return math.Inf(1)
	}
	var worst float64
	for _, p := range a.Points {
		if d := nearest(p, b); d > worst {
			worst = d
		}
	}
	return worst
}

// symmetric applies the shared empty-set policy and combines both directions.
func symmetric(a, b CoordinateSet, directed func(a, b CoordinateSet) float64, combine func(ab, ba float64) float64) float64 {
	switch {
	case a.Len() == 0 && b.Len() == 0:
		return 0
	case a.Len() == 0 || b.Len() == 0:
		return math.Inf(1)
	}
	return combine(directed(a, b), directed(b, a))
}

// HausdorffSets is the classical symmetric Hausdorff distance between two sets.
func HausdorffSets(a, b CoordinateSet) float64 {
	return symmetric(a, b, DirectedHausdorff, math.Max)
}

// HausdorffDistance extracts the non-zero cells of both grids and returns the
// classical Hausdorff distance between them.
func HausdorffDistance(a, b imaging.Grid) float64 {
	return HausdorffDistanceThreshold(a, b, 0)
}

// HausdorffDistanceThreshold is HausdorffDistance with an explicit foreground threshold.
func HausdorffDistanceThreshold(a, b imaging.Grid, threshold float64) float64 {
	return HausdorffSets(ExtractCoordinates(a, threshold), ExtractCoordinates(b, threshold))
}

// HausdorffSum adds the two mean one-way distances.
func HausdorffSum(a, b CoordinateSet) float64 {
	return symmetric(a, b, OneWayDistance, func(ab, ba float64) float64 { return ab + ba })
}

// ModifiedHausdorff (D22) takes the larger of the two mean one-way distances.
func ModifiedHausdorff(a, b CoordinateSet) float64 {
	return symmetric(a, b, OneWayDistance, math.Max)
}

// AverageHausdorff (D23) averages the two mean one-way distances.
func AverageHausdorff(a, b CoordinateSet) float64 {
	return symmetric(a, b, OneWayDistance, func(ab, ba float64) float64 { return (ab + ba) / 2 })
}

// PixelDistance is the Euclidean norm of the cell-wise difference of two grids.
// Cells missing from the smaller grid count as 0.
func PixelDistance(a, b imaging.Grid) float64 {
	if a.Width == b.Width && a.Height == b.Height {
		var sum float64
		for i, v := range a.Pix {
			d := v - b.Pix[i]
			sum += d * d
		}
		return math.Sqrt(sum)
	}

	height := max(a.Height, b.Height)
	width := max(a.Width, b.Width)
	var sum float64
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			d := a.At(row, col) - b.At(row, col)
			sum += d * d
		}
	}
	return math.Sqrt(sum)
}
