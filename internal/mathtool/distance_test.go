package mathtool

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/digit-knn-mcp/internal/imaging"
)

func diagonal() imaging.Grid {
	return imaging.GridFromRows([][]float64{{1, 0}, {0, 1}})
}

func antiDiagonal() imaging.Grid {
	return imaging.GridFromRows([][]float64{{0, 1}, {1, 0}})
}

func randomGrid(r *rand.Rand, w, h int, density float64) imaging.Grid {
	g := imaging.NewGrid(w, h)
	for i := range g.Pix {
		if r.Float64() < density {
			g.Pix[i] = r.Float64()
		}
	}
	return g
}

func TestExtractCoordinates(t *testing.T) {
	g := imaging.GridFromRows([][]float64{
		{0, 0.5, 0},
		{0.1, 0, 0},
		{0, 0, 1},
	})

	set := ExtractCoordinates(g, 0)
	assert.Equal(t, []Point{{0, 1}, {1, 0}, {2, 2}}, set.Points)
	assert.True(t, set.Contains(Point{1, 0}))
	assert.False(t, set.Contains(Point{0, 0}))
	assert.False(t, set.Contains(Point{0, 5}))

	above := ExtractCoordinates(g, 0.2)
	assert.Equal(t, []Point{{0, 1}, {2, 2}}, above.Points)
}

func TestExtractCoordinates_Empty(t *testing.T) {
	assert.Equal(t, 0, ExtractCoordinates(imaging.GridFromRows([][]float64{{}}), 0).Len())
	assert.Equal(t, 0, ExtractCoordinates(imaging.NewGrid(4, 4), 0).Len())
}

func TestOneWayDistance(t *testing.T) {
	a := NewCoordinateSet([]Point{{0, 0}, {1, 1}})
	b := NewCoordinateSet([]Point{{1, 0}, {0, 1}})

	assert.InDelta(t, 1.0, OneWayDistance(a, b), 1e-6)
	assert.InDelta(t, 1.0, OneWayDistance(b, a), 1e-6)
}

func TestOneWayDistance_SharedPoints(t *testing.T) {
	a := NewCoordinateSet([]Point{{0, 0}})
	assert.Equal(t, 0.0, OneWayDistance(a, a))

	// Every point of the subset appears in the superset.
	sub := NewCoordinateSet([]Point{{0, 0}, {2, 3}})
	super := NewCoordinateSet([]Point{{0, 0}, {1, 1}, {2, 3}})
	assert.Equal(t, 0.0, OneWayDistance(sub, super))
	assert.Greater(t, OneWayDistance(super, sub), 0.0)
}

func TestOneWayDistance_Mean(t *testing.T) {
	a := NewCoordinateSet([]Point{{0, 0}, {0, 4}})
	b := NewCoordinateSet([]Point{{0, 0}})
	// distances 0 and 4
	assert.InDelta(t, 2.0, OneWayDistance(a, b), 1e-9)
	assert.InDelta(t, 4.0, DirectedHausdorff(a, b), 1e-9)
}

func TestOneWayDistance_EmptyInputs(t *testing.T) {
	empty := CoordinateSet{}
	some := NewCoordinateSet([]Point{{1, 1}})

	assert.Equal(t, 0.0, OneWayDistance(empty, some))
	assert.True(t, math.IsInf(OneWayDistance(some, empty), 1))
}

func TestHausdorffDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b imaging.Grid
		want float64
	}{
		{"swapped diagonals", diagonal(), antiDiagonal(), 1},
		{"both empty", imaging.GridFromRows([][]float64{{}}), imaging.GridFromRows([][]float64{{}}), 0},
		{"both all background", imaging.NewGrid(3, 3), imaging.NewGrid(5, 2), 0},
		{"one empty", imaging.GridFromRows([][]float64{{1, 1}, {1, 1}}), imaging.GridFromRows([][]float64{{}}), math.Inf(1)},
		{"identical", imaging.GridFromRows([][]float64{{1, 1}, {1, 1}}), imaging.GridFromRows([][]float64{{1, 1}, {1, 1}}), 0},
		{"single pixel shift", imaging.GridFromRows([][]float64{{1, 0, 0}}), imaging.GridFromRows([][]float64{{0, 0, 1}}), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HausdorffDistance(tt.a, tt.b)
			if math.IsInf(tt.want, 1) {
				assert.True(t, math.IsInf(got, 1), "got %v", got)
				return
			}
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestHausdorffDistance_Symmetric(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		a := randomGrid(r, 8, 8, 0.3)
		b := randomGrid(r, 8, 8, 0.3)
		assert.Equal(t, HausdorffDistance(a, b), HausdorffDistance(b, a))
		if a.ForegroundCount(0) > 0 {
			assert.Equal(t, 0.0, HausdorffDistance(a, a))
		}
	}
}

func TestHausdorffDistance_ZeroOnlyForEqualSets(t *testing.T) {
	a := imaging.GridFromRows([][]float64{{1, 0}, {0, 0}})
	b := imaging.GridFromRows([][]float64{{1, 1}, {0, 0}})
	assert.Greater(t, HausdorffDistance(a, b), 0.0)

	// Intensity differences do not matter, only the foreground set.
	c := imaging.GridFromRows([][]float64{{0.2, 0}, {0, 0}})
	assert.Equal(t, 0.0, HausdorffDistance(a, c))
}

func TestHausdorffDistanceThreshold(t *testing.T) {
	a := imaging.GridFromRows([][]float64{{1, 0.1, 0}})
	b := imaging.GridFromRows([][]float64{{1, 0, 0}})
	assert.InDelta(t, 1.0, HausdorffDistance(a, b), 1e-9)
	assert.Equal(t, 0.0, HausdorffDistanceThreshold(a, b, 0.5))
}

func TestSymmetricCombinations(t *testing.T) {
	// a has one extra point two columns away from b.
	a := NewCoordinateSet([]Point{{0, 0}, {0, 2}})
	b := NewCoordinateSet([]Point{{0, 0}})

	ab := OneWayDistance(a, b) // (0 + 2) / 2 = 1
	ba := OneWayDistance(b, a) // 0
	require.InDelta(t, 1.0, ab, 1e-9)
	require.InDelta(t, 0.0, ba, 1e-9)

	assert.InDelta(t, 1.0, HausdorffSum(a, b), 1e-9)
	assert.InDelta(t, 1.0, ModifiedHausdorff(a, b), 1e-9)
	assert.InDelta(t, 0.5, AverageHausdorff(a, b), 1e-9)
	assert.InDelta(t, 2.0, HausdorffSets(a, b), 1e-9)

	for name, fn := range map[string]func(a, b CoordinateSet) float64{
		"sum":      HausdorffSum,
		"modified": ModifiedHausdorff,
		"average":  AverageHausdorff,
		"classic":  HausdorffSets,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, fn(a, b), fn(b, a))
			assert.Equal(t, 0.0, fn(CoordinateSet{}, CoordinateSet{}))
			assert.True(t, math.IsInf(fn(a, CoordinateSet{}), 1))
			assert.True(t, math.IsInf(fn(CoordinateSet{}, a), 1))
		})
	}
}

func TestPixelDistance(t *testing.T) {
	assert.InDelta(t, 2.0, PixelDistance(diagonal(), antiDiagonal()), 1e-9)
	assert.Equal(t, 0.0, PixelDistance(diagonal(), diagonal()))

	// Mismatched sizes pad the smaller grid with zeros.
	small := imaging.GridFromRows([][]float64{{1}})
	assert.InDelta(t, 1.0, PixelDistance(small, diagonal()), 1e-9)
	assert.Equal(t, PixelDistance(small, diagonal()), PixelDistance(diagonal(), small))
}
