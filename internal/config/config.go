// Package config loads server settings from the environment.
//
// Variables use the DIGITKNN_ prefix (for example DIGITKNN_K=5). An optional
// .env file in the working directory is read first; variables already set in
// the process environment win over the file.
package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/ironsheep/digit-knn-mcp/internal/dataset"
	"github.com/ironsheep/digit-knn-mcp/internal/imaging"
)

// Prefix is the environment variable prefix.
const Prefix = "DIGITKNN"

// Dataset sources.
const (
	SourceMNIST     = "mnist"
	SourceMNISTTest = "mnist-test"
	SourceIDX       = "idx"
	SourceDir       = "dir"
)

// Config validation errors
var (
	ErrInvalidK         = errors.New("k must be positive")
	ErrInvalidSize      = errors.New("size must be positive")
	ErrInvalidSource    = errors.New("source must be mnist, mnist-test, idx or dir")
	ErrMissingIDXPaths  = errors.New("idx source requires idx_images and idx_labels")
	ErrMissingDataDir   = errors.New("dir source requires data_dir")
	ErrInvalidWorkers   = errors.New("load_workers must be positive")
	ErrInvalidThreshold = errors.New("foreground_threshold must not be negative")
	ErrInvalidLogFormat = errors.New("log_format must be 'json' or 'console'")
	ErrInvalidLogLevel  = errors.New("log_level must be debug, info, warn, or error")
)

// Config is the full server configuration.
type Config struct {
	K                   int     `envconfig:"K" default:"3"`
	Size                int     `envconfig:"SIZE" default:"1000"`
	Source              string  `envconfig:"SOURCE" default:"mnist"`
	IDXImages           string  `envconfig:"IDX_IMAGES"`
	IDXLabels           string  `envconfig:"IDX_LABELS"`
	DataDir             string  `envconfig:"DATA_DIR"`
	LoadWorkers         int     `envconfig:"LOAD_WORKERS" default:"4"`
	ForegroundThreshold float64 `envconfig:"FOREGROUND_THRESHOLD" default:"0"`
	// Binarize and BinarizeLevel apply to decoded pictures: dir datasets and queries.
	Binarize            bool    `envconfig:"BINARIZE" default:"false"`
	BinarizeLevel       uint8   `envconfig:"BINARIZE_LEVEL" default:"128"`
	LogLevel            string  `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat           string  `envconfig:"LOG_FORMAT" default:"console"`
	MetricsAddr         string  `envconfig:"METRICS_ADDR"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		K:           3,
		Size:        1000,
		Source:        SourceMNIST,
		LoadWorkers:   4,
		BinarizeLevel: 128,
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// Load reads envFiles (default ".env"; missing files are ignored) and then
// the process environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.K <= 0 {
		return ErrInvalidK
	}
	if c.Size <= 0 {
		return ErrInvalidSize
	}
	switch c.Source {
	case SourceMNIST, SourceMNISTTest:
	case SourceIDX:
		if c.IDXImages == "" || c.IDXLabels == "" {
			return ErrMissingIDXPaths
		}
	case SourceDir:
		if c.DataDir == "" {
			return ErrMissingDataDir
		}
	default:
		return ErrInvalidSource
	}
	if c.LoadWorkers <= 0 {
		return ErrInvalidWorkers
	}
	if c.ForegroundThreshold < 0 {
		return ErrInvalidThreshold
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return ErrInvalidLogFormat
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}

// NormalizeOptions returns the picture normalization shared by directory
// datasets and query pictures, so both sides of a comparison match.
func (c *Config) NormalizeOptions() imaging.NormalizeOptions {
	return imaging.NormalizeOptions{
		Binarize: c.Binarize,
		Level:    c.BinarizeLevel,
	}
}

// Provider builds the dataset source selected by Source. Directory datasets
// decode through a private cache that is dropped once loading is done.
func (c *Config) Provider() (dataset.Provider, error) {
	switch c.Source {
	case SourceMNIST:
		return dataset.MNISTProvider{}, nil
	case SourceMNISTTest:
		return dataset.MNISTProvider{Testing: true}, nil
	case SourceIDX:
		return dataset.IDXProvider{ImagesPath: c.IDXImages, LabelsPath: c.IDXLabels}, nil
	case SourceDir:
		return dataset.DirProvider{
			Root:      c.DataDir,
			Workers:   c.LoadWorkers,
			Normalize: c.NormalizeOptions(),
		}, nil
	}
	return nil, ErrInvalidSource
}
