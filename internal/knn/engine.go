package knn

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/digit-knn-mcp/internal/dataset"
	"github.com/ironsheep/digit-knn-mcp/internal/imaging"
	"github.com/ironsheep/digit-knn-mcp/internal/mathtool"
	"github.com/ironsheep/digit-knn-mcp/internal/metrics"
)

// Engine is a k-NN classifier over a fixed reference set.
type Engine struct {
	k         int
	images    []imaging.Grid
	labels    []int
	coords    []mathtool.CoordinateSet
	alphabet  []int
	threshold float64
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithForegroundThreshold sets the intensity above which a cell counts as
// foreground for the shape metrics. The default is 0.
func WithForegroundThreshold(t float64) Option {
	return func(e *Engine) { e.threshold = t }
}

// Prediction is the outcome of classifying one query.
type Prediction struct {
	Label     int       `json:"label"`
	Neighbors []int     `json:"neighbors"`
	Distances []float64 `json:"distances"`
}

// New loads size samples from provider and builds an engine voting among k
// neighbors. A k larger than size is accepted; votes then use every sample.
func New(k, size int, provider dataset.Provider, opts ...Option) (*Engine, error) {
	if k < 1 {
		return nil, &ConfigurationError{Requested: size, Available: -1, Err: ErrInvalidK}
	}
	if size < 1 {
		return nil, &ConfigurationError{Requested: size, Available: -1, Err: ErrInvalidSize}
	}
	if provider == nil {
		return nil, &ConfigurationError{Requested: size, Available: -1, Err: ErrNoProvider}
	}

	ds, err := provider.Load(size)
	if err != nil {
		cerr := &ConfigurationError{Requested: size, Available: -1, Err: err}
		var shortage *dataset.ShortageError
		if errors.As(err, &shortage) {
			cerr.Available = shortage.Available
		}
		return nil, cerr
	}
	if ds.Len() < size {
		return nil, &ConfigurationError{
			Requested: size,
			Available: ds.Len(),
			Err:       &dataset.ShortageError{Requested: size, Available: ds.Len()},
		}
	}
	if ds.Len() > size {
		if ds, err = ds.Slice(size); err != nil {
			return nil, &ConfigurationError{Requested: size, Available: -1, Err: err}
		}
	}
	return NewFromDataset(k, ds, opts...)
}

// NewFromDataset builds an engine over an already materialized dataset.
// The dataset must not be modified afterwards.
func NewFromDataset(k int, ds *dataset.Dataset, opts ...Option) (*Engine, error) {
	if k < 1 {
		return nil, &ConfigurationError{Requested: ds.Len(), Available: -1, Err: ErrInvalidK}
	}
	if ds.Len() == 0 {
		return nil, &ConfigurationError{
			Requested: 1,
			Available: 0,
			Err:       &dataset.ShortageError{Requested: 1, Available: 0},
		}
	}
	if err := ds.Validate(); err != nil {
		return nil, &ConfigurationError{Requested: ds.Len(), Available: -1, Err: err}
	}

	e := &Engine{
		k:        k,
		images:   ds.Images,
		labels:   ds.Labels,
		alphabet: ds.Alphabet(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.coords = make([]mathtool.CoordinateSet, len(e.images))
	for i, g := range e.images {
		e.coords[i] = mathtool.ExtractCoordinates(g, e.threshold)
	}

	if k > len(e.images) {
		e.logger.Warn("k exceeds reference set size; votes use every sample",
			zap.Int("k", k), zap.Int("size", len(e.images)))
	}
	metrics.ReferenceSetSize.Set(float64(len(e.images)))
	e.logger.Info("reference set ready",
		zap.Int("k", k),
		zap.Int("size", len(e.images)),
		zap.Ints("alphabet", e.alphabet),
		zap.Float64("foreground_threshold", e.threshold))
	return e, nil
}

// K returns the configured neighbor count.
func (e *Engine) K() int { return e.k }

// Size returns the number of reference samples.
func (e *Engine) Size() int { return len(e.images) }

// Label returns the label of reference sample i. i must be in [0, Size()).
func (e *Engine) Label(i int) int { return e.labels[i] }

// Image returns a copy of reference sample i. i must be in [0, Size()).
func (e *Engine) Image(i int) imaging.Grid { return e.images[i].Clone() }

// Alphabet returns the sorted distinct labels of the reference set.
func (e *Engine) Alphabet() []int {
	return append([]int(nil), e.alphabet...)
}

// Threshold returns the foreground threshold used by the shape metrics.
func (e *Engine) Threshold() float64 { return e.threshold }

// Predict returns one label per query, in query order. The metric is checked
// before any query is processed.
func (e *Engine) Predict(queries []imaging.Grid, m Metric) ([]int, error) {
	preds, err := e.classifyBatch("predict", queries, m)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(preds))
	for i, p := range preds {
		labels[i] = p.Label
	}
	return labels, nil
}

// PredictReturnNeighbors is Predict that also reports the chosen reference
// indices and their distances, nearest first. Each query gets min(K(), Size())
// neighbors.
func (e *Engine) PredictReturnNeighbors(queries []imaging.Grid, m Metric) ([]Prediction, error) {
	return e.classifyBatch("predict_neighbors", queries, m)
}

// checkMetric rejects metrics outside the closed set.
func (e *Engine) checkMetric(op string, m Metric) error {
	if m.valid() {
		return nil
	}
	metrics.RejectedRequestsTotal.WithLabelValues("unsupported_metric").Inc()
	e.logger.Debug("rejected unsupported metric", zap.String("op", op), zap.Int("metric", int(m)))
	return &UnsupportedMetricError{Name: m.String()}
}

func (e *Engine) classifyBatch(op string, queries []imaging.Grid, m Metric) ([]Prediction, error) {
	if err := e.checkMetric(op, m); err != nil {
		return nil, err
	}

	start := time.Now()
	preds := make([]Prediction, len(queries))
	for i, q := range queries {
		preds[i] = e.classify(q, m, -1)
	}

	elapsed := time.Since(start)
	metrics.PredictionsTotal.WithLabelValues(m.String()).Add(float64(len(queries)))
	metrics.PredictionDurationSeconds.WithLabelValues(m.String()).Observe(elapsed.Seconds())
	e.logger.Debug("classified batch",
		zap.String("op", op),
		zap.Stringer("metric", m),
		zap.Int("queries", len(queries)),
		zap.Duration("elapsed", elapsed))
	return preds, nil
}

// classify ranks every reference sample except exclude (-1 for none) and votes.
func (e *Engine) classify(q imaging.Grid, m Metric, exclude int) Prediction {
	dist := e.distanceTo(q, m)
	candidates := len(e.images)
	if exclude >= 0 {
		candidates--
	}

	nbrs := nearestK(len(e.images), min(e.k, candidates), exclude, dist)
	metrics.DistanceEvaluationsTotal.WithLabelValues(m.String()).Add(float64(candidates))

	p := Prediction{
		Neighbors: make([]int, len(nbrs)),
		Distances: make([]float64, len(nbrs)),
	}
	for i, n := range nbrs {
		p.Neighbors[i] = n.index
		p.Distances[i] = n.dist
	}
	p.Label = vote(e.labels, nbrs)
	return p
}

// distanceTo returns the distance from q to reference sample i under m.
func (e *Engine) distanceTo(q imaging.Grid, m Metric) func(i int) float64 {
	if m == MetricEuclidean {
		return func(i int) float64 { return mathtool.PixelDistance(q, e.images[i]) }
	}
	qs := mathtool.ExtractCoordinates(q, e.threshold)
	combine := setDistances[m]
	return func(i int) float64 { return combine(qs, e.coords[i]) }
}
