package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazadus/network-learn/internal/config"
	"github.com/hazadus/network-learn/internal/logging"
	"github.com/hazadus/network-learn/internal/web"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to JSON configuration file")
		host       = flag.String("host", "", "Override bind host")
		port       = flag.Int("port", 0, "Override bind port")
		staticRoot = flag.String("root", "", "Override static root directory")
		listings   = flag.Bool("listings", false, "Enable directory listing pages")
		jsonLogs   = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *host != "" {
		cfg.FileServer.Host = *host
	}
	if *port != 0 {
		cfg.FileServer.Port = *port
	}
	if *staticRoot != "" {
		cfg.FileServer.StaticRoot = *staticRoot
	}
	if *listings {
		cfg.FileServer.EnableListings = true
	}
	if *jsonLogs {
		cfg.Logging.Structured = true
		cfg.Logging.StructuredFormat = "json"
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}

	logger := logging.Configure(logging.Config{
		Level:            cfg.Logging.Level,
		Structured:       cfg.Logging.Structured,
		StructuredFormat: cfg.Logging.StructuredFormat,
		IncludePID:       cfg.Logging.IncludePID,
		ExtraFields:      cfg.Logging.ExtraFields,
	})

	if _, err := os.Stat(cfg.FileServer.StaticRoot); err != nil {
		fmt.Fprintf(os.Stderr, "static root unavailable: %v\n", err)
		os.Exit(1)
	}

	srv := web.New(cfg, logger)
	logger.Info("file server starting",
		"addr", srv.Addr(),
		"static_root", cfg.FileServer.StaticRoot,
		"listings", cfg.FileServer.EnableListings,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
			os.Exit(1)
		}
	}
}
