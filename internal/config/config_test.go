package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/digit-knn-mcp/internal/dataset"
	"github.com/ironsheep/digit-knn-mcp/internal/imaging"
)

func TestValidateConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidateConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero k", func(c *Config) { c.K = 0 }, ErrInvalidK},
		{"negative size", func(c *Config) { c.Size = -1 }, ErrInvalidSize},
		{"unknown source", func(c *Config) { c.Source = "s3" }, ErrInvalidSource},
		{"idx without paths", func(c *Config) { c.Source = SourceIDX; c.IDXImages = "a" }, ErrMissingIDXPaths},
		{"dir without root", func(c *Config) { c.Source = SourceDir }, ErrMissingDataDir},
		{"zero workers", func(c *Config) { c.LoadWorkers = 0 }, ErrInvalidWorkers},
		{"negative threshold", func(c *Config) { c.ForegroundThreshold = -0.1 }, ErrInvalidThreshold},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, ErrInvalidLogFormat},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err != tt.want {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DIGITKNN_K", "7")
	t.Setenv("DIGITKNN_SOURCE", "idx")
	t.Setenv("DIGITKNN_FOREGROUND_THRESHOLD", "0.25")
	t.Setenv("DIGITKNN_BINARIZE", "true")
	t.Setenv("DIGITKNN_BINARIZE_LEVEL", "90")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.K != 7 {
		t.Errorf("K = %d, want 7", cfg.K)
	}
	if cfg.Source != SourceIDX {
		t.Errorf("Source = %q, want idx", cfg.Source)
	}
	if cfg.ForegroundThreshold != 0.25 {
		t.Errorf("ForegroundThreshold = %v, want 0.25", cfg.ForegroundThreshold)
	}
	if !cfg.Binarize || cfg.BinarizeLevel != 90 {
		t.Errorf("Binarize = %v, BinarizeLevel = %d, want true, 90", cfg.Binarize, cfg.BinarizeLevel)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("DIGITKNN_SIZE=250\nDIGITKNN_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Process environment wins over the file.
	t.Setenv("DIGITKNN_LOG_LEVEL", "warn")
	t.Cleanup(func() { os.Unsetenv("DIGITKNN_SIZE") })

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Size != 250 {
		t.Errorf("Size = %d, want 250", cfg.Size)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestProvider(t *testing.T) {
	tests := []struct {
		source string
		want   dataset.Provider
	}{
		{SourceMNIST, dataset.MNISTProvider{}},
		{SourceMNISTTest, dataset.MNISTProvider{Testing: true}},
		{SourceIDX, dataset.IDXProvider{ImagesPath: "i", LabelsPath: "l"}},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Source = tt.source
		cfg.IDXImages, cfg.IDXLabels = "i", "l"
		got, err := cfg.Provider()
		if err != nil {
			t.Fatalf("Provider(%s) error = %v", tt.source, err)
		}
		if got != tt.want {
			t.Errorf("Provider(%s) = %#v, want %#v", tt.source, got, tt.want)
		}
	}

	cfg := DefaultConfig()
	cfg.Source, cfg.DataDir, cfg.LoadWorkers = SourceDir, "/data", 2
	got, err := cfg.Provider()
	if err != nil {
		t.Fatalf("Provider(dir) error = %v", err)
	}
	dp, ok := got.(dataset.DirProvider)
	if !ok || dp.Root != "/data" || dp.Workers != 2 {
		t.Errorf("Provider(dir) = %#v", got)
	}
	if dp.Cache != nil {
		t.Error("Provider(dir) should decode through its own cache")
	}

	cfg.Source = "nope"
	if _, err := cfg.Provider(); err != ErrInvalidSource {
		t.Errorf("Provider(nope) error = %v, want ErrInvalidSource", err)
	}
}

func TestNormalizeOptions_SharedWithDirProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source, cfg.DataDir = SourceDir, "/data"
	cfg.Binarize, cfg.BinarizeLevel = true, 100

	want := imaging.NormalizeOptions{Binarize: true, Level: 100}
	if got := cfg.NormalizeOptions(); got != want {
		t.Fatalf("NormalizeOptions() = %+v, want %+v", got, want)
	}

	got, err := cfg.Provider()
	if err != nil {
		t.Fatalf("Provider(dir) error = %v", err)
	}
	if dp := got.(dataset.DirProvider); dp.Normalize != cfg.NormalizeOptions() {
		t.Errorf("DirProvider.Normalize = %+v, query options = %+v", dp.Normalize, cfg.NormalizeOptions())
	}

	if DefaultConfig().NormalizeOptions().Binarize {
		t.Error("binarization should be off by default")
	}
}
