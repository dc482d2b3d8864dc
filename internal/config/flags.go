package config

// This file implements environment overrides and CLI flag parsing.
// Precedence: DefaultConfig < VIDFEED_* environment < flags. The cmd layer
// loads a .env file (if present) before calling ParseFlags, so .env values
// arrive here as ordinary environment variables.

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ParseFlags applies environment overrides and parses args (os.Args[1:]
// shaped) into cfg. On --help or --version it prints and exits. On error it
// returns non-nil (e.g. unknown flag, malformed value).
func ParseFlags(cfg *Config, version string, args []string) error {
	applyEnv(cfg)

	fs := flag.NewFlagSet("vidfeed", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	var (
		showHelp    bool
		showVersion bool
		colorMode   string
		shutdown    time.Duration
	)

	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of ingestion workers (one per videos/video<i> directory)")
	fs.IntVar(&cfg.Workers, "p", cfg.Workers, "Same as --workers")
	fs.IntVar(&cfg.ConsumerConcurrency, "consumers", cfg.ConsumerConcurrency, "Intended receiver concurrency (informational)")
	fs.IntVar(&cfg.ConsumerConcurrency, "c", cfg.ConsumerConcurrency, "Same as --consumers")
	fs.IntVar(&cfg.QueueCapacity, "queue", cfg.QueueCapacity, "Handoff queue capacity (admission ceiling)")
	fs.IntVar(&cfg.QueueCapacity, "q", cfg.QueueCapacity, "Same as --queue")

	fs.StringVar(&cfg.VideoRoot, "root", cfg.VideoRoot, "Root directory holding video<i> source directories")
	fs.StringVar(&cfg.ConsumerHost, "host", cfg.ConsumerHost, "Consumer host")
	fs.IntVar(&cfg.ConsumerPort, "port", cfg.ConsumerPort, "Consumer port")

	fs.StringVar(&cfg.FFmpegBin, "ffmpeg", cfg.FFmpegBin, "Transcoder binary")
	fs.StringVar(&cfg.VideoCodec, "codec", cfg.VideoCodec, "Video codec passed to the transcoder")
	fs.IntVar(&cfg.CRF, "crf", cfg.CRF, "Constant rate factor passed to the transcoder")

	fs.IntVar(&cfg.ChunkSize, "chunk", cfg.ChunkSize, "Bytes per socket write during upload")
	fs.DurationVar(&shutdown, "shutdown-timeout", cfg.ShutdownTimeout, "How long shutdown waits for in-flight workers")

	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Listen address for /metrics (empty disables)")

	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable debug logging")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.StringVar(&colorMode, "color", string(cfg.ColorMode), "Color output: auto | always | never")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Append log output to this file")
	fs.BoolVar(&cfg.CheckOnly, "check", cfg.CheckOnly, "Run system diagnostics and exit")

	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&showHelp, "help", false, "Print usage and exit")
	fs.BoolVar(&showHelp, "h", false, "Same as --help")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.ShutdownTimeout = shutdown
	cfg.ColorMode = ColorMode(colorMode)

	if showHelp {
		printUsage(fs)
		os.Exit(0)
	}
	if showVersion {
		fmt.Fprintln(os.Stdout, "vidfeed v"+version)
		os.Exit(0)
	}

	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %q", fs.Arg(0))
	}
	return nil
}

// applyEnv overrides cfg from VIDFEED_* environment variables. Malformed
// numeric values are ignored so a bad .env entry cannot take the tool down
// before flag parsing reports anything.
func applyEnv(cfg *Config) {
	if v := os.Getenv("VIDFEED_ROOT"); v != "" {
		cfg.VideoRoot = v
	}
	if v := os.Getenv("VIDFEED_CONSUMER_HOST"); v != "" {
		cfg.ConsumerHost = v
	}
	if v := os.Getenv("VIDFEED_CONSUMER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.ConsumerPort = p
		}
	}
	if v := os.Getenv("VIDFEED_FFMPEG"); v != "" {
		cfg.FFmpegBin = v
	}
	if v := os.Getenv("VIDFEED_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("VIDFEED_LOG"); v != "" {
		cfg.LogFile = v
	}
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, `vidfeed — ingest, deduplicate, transcode, and forward video files

Usage:
  vidfeed -p <workers> -c <consumers> -q <capacity> [options]

Each worker reads one flat source directory (<root>/video1 .. video<p>),
skips content it has already seen anywhere in the run, re-encodes each file
with the external transcoder (falling back to the original on failure), and
pushes the result to the consumer over one TCP connection per file.

Options:`)
	fs.PrintDefaults()
}
