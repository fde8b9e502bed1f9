package dataset

import (
	"github.com/unixpickle/mnist"

	"github.com/ironsheep/digit-knn-mcp/internal/imaging"
)

// MNISTProvider serves the MNIST set compiled into github.com/unixpickle/mnist.
// Intensities are in [0,1].
type MNISTProvider struct {
	// Testing selects the 10k testing set instead of the 60k training set.
	Testing bool
}

// Load returns the first size samples of the selected set.
func (p MNISTProvider) Load(size int) (*Dataset, error) {
	var set mnist.DataSet
	if p.Testing {
		set = mnist.LoadTestingDataSet()
	} else {
		set = mnist.LoadTrainingDataSet()
	}
	if size > len(set.Samples) {
		return nil, &ShortageError{Requested: size, Available: len(set.Samples)}
	}
	if size < 0 {
		size = 0
	}

	ds := &Dataset{
		Images: make([]imaging.Grid, size),
		Labels: make([]int, size),
	}
	for i, s := range set.Samples[:size] {
		ds.Images[i] = imaging.Grid{
			Width:  set.Width,
			Height: set.Height,
			Pix:    append([]float64(nil), s.Intensities...),
		}
		ds.Labels[i] = s.Label
	}
	return ds, nil
}
