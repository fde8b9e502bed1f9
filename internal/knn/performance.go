package knn

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/digit-knn-mcp/internal/metrics"
)

// Seeds used when Performance is given a nil source.
const (
	defaultSeed1 = 0x6b6e6e
	defaultSeed2 = 0x6d6e697374
)

// Report summarizes an evaluation run.
type Report struct {
	SuccessRate float64 `json:"success_rate"`
	Correct     int     `json:"correct"`
	Total       int     `json:"total"`
}

// Performance classifies numTests reference samples drawn from rng and
// compares each prediction with the sample's own label. A sample never votes
// for itself unless it is the only one. Draws are without replacement while
// numTests <= Size(), with replacement beyond. A nil rng uses a fixed seed.
func (e *Engine) Performance(numTests int, m Metric, rng *rand.Rand) (Report, error) {
	if err := e.checkMetric("performance", m); err != nil {
		return Report{}, err
	}
	if numTests < 0 {
		numTests = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(defaultSeed1, defaultSeed2))
	}

	start := time.Now()
	n := len(e.images)
	var r Report
	for _, i := range drawIndices(rng, n, numTests) {
		exclude := i
		if n == 1 {
			exclude = -1
		}
		if e.classify(e.images[i], m, exclude).Label == e.labels[i] {
			r.Correct++
		}
		r.Total++
	}
	if r.Total > 0 {
		r.SuccessRate = float64(r.Correct) / float64(r.Total)
	}

	elapsed := time.Since(start)
	metrics.PredictionsTotal.WithLabelValues(m.String()).Add(float64(r.Total))
	metrics.PredictionDurationSeconds.WithLabelValues(m.String()).Observe(elapsed.Seconds())
	metrics.PerformanceSuccessRate.WithLabelValues(m.String()).Set(r.SuccessRate)
	e.logger.Info("performance run complete",
		zap.Stringer("metric", m),
		zap.Int("correct", r.Correct),
		zap.Int("total", r.Total),
		zap.Float64("success_rate", r.SuccessRate),
		zap.Duration("elapsed", elapsed))
	return r, nil
}

func drawIndices(rng *rand.Rand, n, count int) []int {
	if count <= n {
		return rng.Perm(n)[:count]
	}
	idx := make([]int, count)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}
