package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/digit-knn-mcp/internal/config"
	"github.com/ironsheep/digit-knn-mcp/internal/imaging"
	"github.com/ironsheep/digit-knn-mcp/internal/knn"
	"github.com/ironsheep/digit-knn-mcp/internal/logging"
	"github.com/ironsheep/digit-knn-mcp/internal/metrics"
	"github.com/ironsheep/digit-knn-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("digit-knn-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "digit-knn-mcp: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("digit-knn-mcp - MCP server classifying handwritten digits with k-NN")
	fmt.Println()
	fmt.Println("Usage: digit-knn-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from ./.env):")
	fmt.Println("  DIGITKNN_K=3                      Neighbors per vote")
	fmt.Println("  DIGITKNN_SIZE=1000                Reference samples to load")
	fmt.Println("  DIGITKNN_SOURCE=mnist             mnist, mnist-test, idx or dir")
	fmt.Println("  DIGITKNN_IDX_IMAGES, _IDX_LABELS  IDX files (optionally gzipped) for source idx")
	fmt.Println("  DIGITKNN_DATA_DIR                 <dir>/<label>/<image> tree for source dir")
	fmt.Println("  DIGITKNN_LOAD_WORKERS=4           Parallel decodes for source dir")
	fmt.Println("  DIGITKNN_FOREGROUND_THRESHOLD=0   Ink cut for the shape metrics")
	fmt.Println("  DIGITKNN_BINARIZE=false           Snap decoded pictures to 0/1 before scaling")
	fmt.Println("  DIGITKNN_BINARIZE_LEVEL=128       Binarization cut on the 0-255 ink scale")
	fmt.Println("  DIGITKNN_LOG_LEVEL=info           debug, info, warn or error")
	fmt.Println("  DIGITKNN_LOG_FORMAT=console       console or json")
	fmt.Println("  DIGITKNN_METRICS_ADDR             Serve Prometheus /metrics, e.g. :9090")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Logs go to stderr; stdout is for MCP protocol
	logger, err := logging.NewLogger(logging.Config{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting digit-knn-mcp",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("source", cfg.Source),
		zap.Int("k", cfg.K),
		zap.Int("size", cfg.Size),
		zap.Bool("binarize", cfg.Binarize))

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	provider, err := cfg.Provider()
	if err != nil {
		return err
	}

	start := time.Now()
	engine, err := knn.New(cfg.K, cfg.Size, provider,
		knn.WithLogger(logger.Named("knn")),
		knn.WithForegroundThreshold(cfg.ForegroundThreshold))
	if err != nil {
		return err
	}
	logger.Info("reference set loaded", zap.Duration("elapsed", time.Since(start)))

	srv := server.New(engine,
		server.WithLogger(logger.Named("server")),
		server.WithCache(imaging.NewImageCache()),
		server.WithNormalizeOptions(cfg.NormalizeOptions()),
		server.WithVersion(Version))
	return srv.Run()
}

func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	s := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("serving metrics", zap.String("addr", addr))
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server failed", zap.Error(err))
	}
}
