package dataset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ironsheep/digit-knn-mcp/internal/imaging"
)

// Label bounds for digit data.
const (
	MinLabel = 0
	MaxLabel = 9
)

var (
	// ErrInsufficientData is matched by every shortage error.
	ErrInsufficientData = errors.New("dataset: insufficient samples")

	// ErrMisaligned is returned when images and labels differ in length.
	ErrMisaligned = errors.New("dataset: images and labels are not aligned")

	// ErrLabelRange is returned for labels outside [MinLabel, MaxLabel].
	ErrLabelRange = errors.New("dataset: label out of range")
)

// ShortageError reports a provider that cannot supply the requested size.
type ShortageError struct {
	Requested int
	Available int
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("%v: requested %d, available %d", ErrInsufficientData, e.Requested, e.Available)
}

// Is makes errors.Is(err, ErrInsufficientData) true.
func (e *ShortageError) Is(target error) bool {
	return target == ErrInsufficientData
}

// Provider materializes the first size samples of a labelled source.
type Provider interface {
	Load(size int) (*Dataset, error)
}

// Dataset is an ordered sequence of grids with aligned labels.
type Dataset struct {
	Images []imaging.Grid
	Labels []int
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Images)
}

// Validate checks alignment and label range.
func (d *Dataset) Validate() error {
	if len(d.Images) != len(d.Labels) {
		return fmt.Errorf("%w: %d images, %d labels", ErrMisaligned, len(d.Images), len(d.Labels))
	}
	for i, l := range d.Labels {
		if l < MinLabel || l > MaxLabel {
			return fmt.Errorf("%w: label %d at index %d", ErrLabelRange, l, i)
		}
	}
	return nil
}

// Slice returns a view of the first n samples.
func (d *Dataset) Slice(n int) (*Dataset, error) {
	if n > d.Len() {
		return nil, &ShortageError{Requested: n, Available: d.Len()}
	}
	if n < 0 {
		n = 0
	}
	return &Dataset{Images: d.Images[:n], Labels: d.Labels[:n]}, nil
}

// Histogram counts samples per label.
func (d *Dataset) Histogram() map[int]int {
	h := make(map[int]int)
	for _, l := range d.Labels {
		h[l]++
	}
	return h
}

// Alphabet returns the distinct labels in ascending order.
func (d *Dataset) Alphabet() []int {
	h := d.Histogram()
	out := make([]int, 0, len(h))
	for l := range h {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// MemoryProvider serves slices of an in-memory Dataset.
type MemoryProvider struct {
	Dataset *Dataset
}

// Load returns the first size samples.
func (p MemoryProvider) Load(size int) (*Dataset, error) {
	if p.Dataset == nil {
		return nil, &ShortageError{Requested: size, Available: 0}
	}
	if err := p.Dataset.Validate(); err != nil {
		return nil, err
	}
	return p.Dataset.Slice(size)
}
