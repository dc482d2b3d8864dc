// Command vidfeed is the entrypoint for the video ingestion-and-handoff
// pipeline. It parses configuration, optionally runs system diagnostics
// (--check), then starts one ingestion worker per source directory and
// waits for the pool to drain.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/backmassage/vidfeed/internal/check"
	"github.com/backmassage/vidfeed/internal/config"
	"github.com/backmassage/vidfeed/internal/display"
	"github.com/backmassage/vidfeed/internal/logging"
	"github.com/backmassage/vidfeed/internal/metrics"
	"github.com/backmassage/vidfeed/internal/pipeline"
)

// version and commit are injected at build time via -ldflags. When built
// with plain "go build" these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap: the logger doesn't exist yet, so errors go directly to
	// stderr via fmt. A .env file, if present, is folded into the
	// environment before flag parsing so VIDFEED_* overrides apply.
	_ = godotenv.Load()

	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "vidfeed: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "vidfeed: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vidfeed: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner()

	if cfg.CheckOnly {
		ok := check.RunCheck(check.Config{
			FFmpegBin:    cfg.FFmpegBin,
			VideoCodec:   cfg.VideoCodec,
			VideoRoot:    cfg.VideoRoot,
			Workers:      cfg.Workers,
			ConsumerHost: cfg.ConsumerHost,
			ConsumerPort: cfg.ConsumerPort,
		}, log)
		if !ok {
			return 1
		}
		return 0
	}

	log.Info("=== vidfeed v%s (%s) ===", version, commit)
	log.Info("Workers: %d (root %s), queue capacity: %d", cfg.Workers, cfg.VideoRoot, cfg.QueueCapacity)
	log.Info("Consumer: %s:%d (intended concurrency %d)", cfg.ConsumerHost, cfg.ConsumerPort, cfg.ConsumerConcurrency)
	log.Info("Transcoder: %s -vcodec %s -crf %d", cfg.FFmpegBin, cfg.VideoCodec, cfg.CRF)
	log.Info("")

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, log)
	}

	// SIGINT/SIGTERM cancel the worker context; workers stop at the next
	// file boundary. A worker deep in a transcode or socket write is not
	// interrupted mid-call.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current files…")
		cancel()
	}()

	pool := pipeline.NewPool(&cfg, log)
	pool.Start(ctx)
	err = pool.Shutdown()
	pool.LogSummary()

	if errors.Is(err, pipeline.ErrShutdownTimeout) {
		log.Error("%v", err)
		return 1
	}
	return 0
}

// serveMetrics exposes /metrics on addr for the lifetime of the process.
func serveMetrics(addr string, log *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	log.Info("Serving metrics on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn("Metrics server stopped: %v", err)
	}
}
