package knn

import (
	"fmt"

	"github.com/ironsheep/digit-knn-mcp/internal/mathtool"
)

// Metric selects the distance used to rank reference samples.
type Metric int

const (
	// MetricEuclidean compares raw grids cell by cell.
	MetricEuclidean Metric = iota
	// MetricHausdorffSum adds both mean one-way distances.
	MetricHausdorffSum
	// MetricD22 takes the larger mean one-way distance.
	MetricD22
	// MetricD23 averages both mean one-way distances.
	MetricD23
)

var metricNames = [...]string{
	MetricEuclidean:    "euclidean",
	MetricHausdorffSum: "hausdorff_sum",
	MetricD22:          "d22",
	MetricD23:          "d23",
}

// setDistances maps the shape metrics to their coordinate-set combination.
var setDistances = map[Metric]func(a, b mathtool.CoordinateSet) float64{
	MetricHausdorffSum: mathtool.HausdorffSum,
	MetricD22:          mathtool.ModifiedHausdorff,
	MetricD23:          mathtool.AverageHausdorff,
}

// Metrics lists every supported metric in declaration order.
func Metrics() []Metric {
	return []Metric{MetricEuclidean, MetricHausdorffSum, MetricD22, MetricD23}
}

// ParseMetric resolves a metric name. The empty name selects MetricEuclidean.
func ParseMetric(name string) (Metric, error) {
	if name == "" {
		return MetricEuclidean, nil
	}
	for m, n := range metricNames {
		if n == name {
			return Metric(m), nil
		}
	}
	return 0, &UnsupportedMetricError{Name: name}
}

func (m Metric) valid() bool {
	return m >= 0 && int(m) < len(metricNames)
}

// String returns the canonical metric name.
func (m Metric) String() string {
	if !m.valid() {
		return fmt.Sprintf("Metric(%d)", int(m))
	}
	return metricNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, &UnsupportedMetricError{Name: m.String()}
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
