package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapterlogger "github.com/baditaflorin/go_document_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_document_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_document_similarity/internal/config"
	"github.com/baditaflorin/go_document_similarity/pkg/similarity"
	"github.com/baditaflorin/l"
	"github.com/valyala/fasthttp"
)

func main() {
	configFile := flag.String("config", "", "YAML configuration file (optional)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	threshold := flag.Float64("threshold", -1, "Default similarity threshold in percent (overrides config)")
	warmUp := flag.Bool("warm-up", false, "Perform system warm-up on startup")
	logFile := flag.String("log-file", "", "Log file path (empty = stdout)")
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *port > 0 {
		cfg.HTTP.Port = *port
	}
	if *threshold >= 0 {
		cfg.Similarity.Threshold = *threshold
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}
	if *warmUp {
		cfg.Similarity.WarmUp = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := createLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	ds, err := newSimilarity(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize document similarity", "error", err)
		os.Exit(1)
	}

	a := newApp(ds, adapterlogger.FromExisting(logger), cfg)

	logger.Info("Starting document similarity HTTP server",
		"port", cfg.HTTP.Port,
		"read_timeout", cfg.HTTP.ReadTimeout(),
		"write_timeout", cfg.HTTP.WriteTimeout(),
		"max_request_size", cfg.HTTP.MaxRequestBytes,
		"default_threshold", cfg.Similarity.Threshold,
	)

	server := &fasthttp.Server{
		Handler:               a.requestHandler,
		ReadTimeout:           cfg.HTTP.ReadTimeout(),
		WriteTimeout:          cfg.HTTP.WriteTimeout(),
		MaxRequestBodySize:    cfg.HTTP.MaxRequestBytes,
		Concurrency:           cfg.HTTP.Concurrency,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
		Logger:                nil, // we'll handle logging ourselves
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	logger.Info("Server listening", "address", addr)
	if err := server.ListenAndServe(addr); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-idleConnsClosed
	logger.Info("Server stopped")
}

// newSimilarity builds the scorer from configuration.
func newSimilarity(cfg config.Config, logger l.Logger) (*similarity.DocumentSimilarity, error) {
	normType, ok := normalizer.ParseNormalizerType(cfg.Similarity.Normalizer)
	if !ok {
		return nil, fmt.Errorf("unknown normalizer %q", cfg.Similarity.Normalizer)
	}
	opts := []similarity.Option{
		similarity.WithLogger(logger),
		similarity.WithNormalizer(normalizer.NewNormalizerFactory().CreateNormalizer(normType)),
		similarity.WithMinTokenLength(cfg.Similarity.MinTokenLength),
		similarity.WithExtensions(cfg.Upload.Extensions...),
		similarity.WithWarmUp(cfg.Similarity.WarmUp),
	}
	if cfg.Similarity.Precision != nil {
		opts = append(opts, similarity.WithPrecision(*cfg.Similarity.Precision))
	}
	return similarity.New(opts...)
}

// createLogger creates and configures a logger
func createLogger(lc config.LoggingConfig) (l.Logger, error) {
	factory := l.NewStandardFactory()

	var output io.Writer = os.Stdout
	if lc.File != "" {
		file, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	logger, err := factory.CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  lc.JSON,
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,       // 1MB
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}
