// Package config holds runtime configuration: defaults, environment
// overrides, CLI flag parsing, and validation. Defaults match the legacy
// producer's fixed values (videos/ root, localhost:5000 consumer, CRF 23).
package config

import (
	"errors"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Pipeline sizing — the three integers supplied at start.
	Workers             int // Number of ingestion workers (one per source directory).
	ConsumerConcurrency int // Intended receiver concurrency; forwarded in the run header only.
	QueueCapacity       int // Admission ceiling of the handoff queue.

	// Source layout. Worker i reads <VideoRoot>/video<i>, flat, no recursion.
	VideoRoot string // Default: "videos".

	// Consumer endpoint: one TCP connection per transmitted file.
	ConsumerHost string // Default: "localhost".
	ConsumerPort int    // Default: 5000.

	// Transcoding. Success is decided by output existence, not exit code.
	FFmpegBin  string // Default: "ffmpeg". Resolved via PATH.
	VideoCodec string // Default: "libx264".
	CRF        int    // Default: 23.

	// Upload framing.
	ChunkSize int // Bytes per socket write. Default: 4096.

	// Lifecycle.
	ShutdownTimeout time.Duration // Default: 10m. Stragglers are abandoned past this.

	// Observability.
	MetricsAddr string // Listen address for /metrics; empty disables the endpoint.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults matching the legacy
// producer. Used as the base before [ParseFlags] applies environment and
// CLI overrides.
func DefaultConfig() Config {
	return Config{
		Workers:             1,
		ConsumerConcurrency: 1,
		QueueCapacity:       10,
		VideoRoot:           "videos",
		ConsumerHost:        "localhost",
		ConsumerPort:        5000,
		FFmpegBin:           "ffmpeg",
		VideoCodec:          "libx264",
		CRF:                 23,
		ChunkSize:           4096,
		ShutdownTimeout:     10 * time.Minute,
		ColorMode:           ColorAuto,
	}
}

// Sentinel errors returned by Validate when a field is out of range.
var (
	ErrNoWorkers        = errors.New("worker count must be at least 1")
	ErrNoConsumers      = errors.New("consumer concurrency must be at least 1")
	ErrNoCapacity       = errors.New("queue capacity must be at least 1")
	ErrEmptyRoot        = errors.New("video root must not be empty")
	ErrEmptyHost        = errors.New("consumer host must not be empty")
	ErrBadPort          = errors.New("consumer port must be in 1..65535")
	ErrEmptyFFmpeg      = errors.New("ffmpeg binary must not be empty")
	ErrEmptyCodec       = errors.New("video codec must not be empty")
	ErrBadCRF           = errors.New("crf must be in 0..51")
	ErrBadChunkSize     = errors.New("chunk size must be at least 1 byte")
	ErrBadShutdownLimit = errors.New("shutdown timeout must be positive")
	ErrBadColorMode     = errors.New("color mode must be auto, always, or never")
)

// Validate checks field ranges and enum values. Returns the first violation.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return ErrNoWorkers
	}
	if c.ConsumerConcurrency < 1 {
		return ErrNoConsumers
	}
	if c.QueueCapacity < 1 {
		return ErrNoCapacity
	}
	if c.VideoRoot == "" {
		return ErrEmptyRoot
	}
	if c.ConsumerHost == "" {
		return ErrEmptyHost
	}
	if c.ConsumerPort < 1 || c.ConsumerPort > 65535 {
		return ErrBadPort
	}
	if c.FFmpegBin == "" {
		return ErrEmptyFFmpeg
	}
	if c.VideoCodec == "" {
		return ErrEmptyCodec
	}
	if c.CRF < 0 || c.CRF > 51 {
		return ErrBadCRF
	}
	if c.ChunkSize < 1 {
		return ErrBadChunkSize
	}
	if c.ShutdownTimeout <= 0 {
		return ErrBadShutdownLimit
	}
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return ErrBadColorMode
	}
	return nil
}
