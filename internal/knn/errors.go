package knn

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every ConfigurationError.
	ErrConfiguration = errors.New("knn: configuration error")

	// ErrUnsupportedMetric is matched by every UnsupportedMetricError.
	ErrUnsupportedMetric = errors.New("Unsupported distance metric")

	// ErrInvalidK is the cause of a ConfigurationError for k < 1.
	ErrInvalidK = errors.New("k must be at least 1")

	// ErrInvalidSize is the cause of a ConfigurationError for size < 1.
	ErrInvalidSize = errors.New("reference set size must be at least 1")

	// ErrNoProvider is the cause of a ConfigurationError for a nil provider.
	ErrNoProvider = errors.New("no dataset provider")
)

// ConfigurationError reports an engine that could not be built with the
// requested parameters.
type ConfigurationError struct {
	Requested int
	Available int
	Err       error
}

func (e *ConfigurationError) Error() string {
	if e.Available >= 0 && e.Available < e.Requested {
		return fmt.Sprintf("%v: requested %d samples, %d available: %v", ErrConfiguration, e.Requested, e.Available, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrConfiguration, e.Err)
}

// Unwrap exposes both ErrConfiguration and the underlying cause.
func (e *ConfigurationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Err}
}

// UnsupportedMetricError reports a metric outside the supported set.
type UnsupportedMetricError struct {
	Name string
}

func (e *UnsupportedMetricError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnsupportedMetric, e.Name)
}

func (e *UnsupportedMetricError) Unwrap() error {
	return ErrUnsupportedMetric
}
