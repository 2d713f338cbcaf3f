package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/baditaflorin/l"
	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/go_allele_names/internal/adapters/httpapi"
	"github.com/baditaflorin/go_allele_names/internal/adapters/logger"
	"github.com/baditaflorin/go_allele_names/internal/config"
	"github.com/baditaflorin/go_allele_names/pkg/alleles"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to a YAML config file")
	port := flag.Int("port", config.DefaultPort, "HTTP server port")
	readTimeout := flag.Duration("read-timeout", config.DefaultReadTimeout, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", config.DefaultWriteTimeout, "HTTP write timeout")
	maxRequestSize := flag.Int("max-request-size", config.DefaultMaxRequestSize, "Maximum request size in bytes")
	concurrency := flag.Int("concurrency", config.DefaultConcurrency, "Maximum number of concurrent connections (0 = fasthttp default)")
	normalizerName := flag.String("normalizer", "default", "Allele normalizer: 'default' or 'optimized'")
	logFile := flag.String("log-file", "", "Log file path (empty = stdout)")
	warmUp := flag.Bool("warm-up", true, "Warm up the normalizer on startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Flags given explicitly win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "read-timeout":
			cfg.ReadTimeout = *readTimeout
		case "write-timeout":
			cfg.WriteTimeout = *writeTimeout
		case "max-request-size":
			cfg.MaxRequestSize = *maxRequestSize
		case "concurrency":
			cfg.Concurrency = *concurrency
		case "normalizer":
			cfg.Normalizer = *normalizerName
		case "log-file":
			cfg.LogFile = *logFile
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logger
	baseLogger, err := createLogger(cfg.LogFile, cfg.JSONLogs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.FromExisting(baseLogger)
	defer log.Close()

	log.Info("Starting allele name HTTP server",
		"port", cfg.Port,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"concurrency", cfg.Concurrency,
		"normalizer", cfg.Normalizer,
	)

	parser, err := alleles.New(
		alleles.WithLogger(baseLogger),
		alleles.WithNormalizerType(cfg.NormalizerType()),
		alleles.WithWarmUp(*warmUp),
	)
	if err != nil {
		log.Error("Failed to initialize parser", "error", err)
		os.Exit(1)
	}
	log.Info("Parser initialized", "warm_up", *warmUp, "cpus", runtime.NumCPU())

	handler := httpapi.NewHandler(parser, log)
	server := &fasthttp.Server{
		Handler:               handler.HandleRequest,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		MaxRequestBodySize:    cfg.MaxRequestSize,
		Concurrency:           cfg.Concurrency,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			log.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info("Server listening", "address", addr)
	if err := server.ListenAndServe(addr); err != nil {
		log.Error("Server error", "error", err)
		return
	}

	<-idleConnsClosed
	log.Info("Server stopped")
}

// createLogger creates and configures a logger
func createLogger(logFile string, jsonFormat bool) (l.Logger, error) {
	factory := l.NewStandardFactory()

	var output io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	logger, err := factory.CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  jsonFormat,
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
