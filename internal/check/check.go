// Package check provides system diagnostics (--check mode): transcoder
// availability, codec support, consumer reachability, and source directory
// presence. Everything here is advisory — a missing transcoder degrades to
// passthrough at run time and a dead consumer costs individual transfers,
// so none of these findings stop a run.
package check

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const dialProbeTimeout = 2 * time.Second

// Logger is the minimal logging interface needed by RunCheck. Defined here
// (rather than importing the logging package) so that check stays
// dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// Config is the subset of runtime settings the diagnostics need.
type Config struct {
	FFmpegBin    string
	VideoCodec   string
	VideoRoot    string
	Workers      int
	ConsumerHost string
	ConsumerPort int
}

// RunCheck runs the full diagnostic flow and reports whether everything
// passed. Failures are logged individually; the run is informational and
// never aborts early.
func RunCheck(cfg Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTranscoder(cfg, log)
	ok = checkCodec(cfg, log) && ok
	ok = checkConsumer(cfg, log) && ok
	ok = checkSourceDirs(cfg, log) && ok
	return ok
}

// checkTranscoder verifies the tool is on PATH and logs its version line.
func checkTranscoder(cfg Config, log Logger) bool {
	if _, err := exec.LookPath(cfg.FFmpegBin); err != nil {
		log.Error("%s not found on PATH (files will pass through uncompressed)", cfg.FFmpegBin)
		return false
	}
	out, err := exec.Command(cfg.FFmpegBin, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", cfg.FFmpegBin, err)
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("transcoder: %s", firstLine)
	return true
}

// checkCodec looks for the configured codec in the tool's encoder list.
func checkCodec(cfg Config, log Logger) bool {
	out, err := exec.Command(cfg.FFmpegBin, "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn("could not list encoders: %v", err)
		return false
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, cfg.VideoCodec) {
			log.Success("codec %s: %s", cfg.VideoCodec, strings.TrimSpace(line))
			return true
		}
	}
	log.Error("codec %s not reported by %s -encoders", cfg.VideoCodec, cfg.FFmpegBin)
	return false
}

// checkConsumer attempts a short TCP dial against the consumer endpoint.
func checkConsumer(cfg Config, log Logger) bool {
	addr := net.JoinHostPort(cfg.ConsumerHost, fmt.Sprintf("%d", cfg.ConsumerPort))
	conn, err := net.DialTimeout("tcp", addr, dialProbeTimeout)
	if err != nil {
		log.Error("consumer unreachable at %s: %v", addr, err)
		return false
	}
	conn.Close()
	log.Success("consumer reachable at %s", addr)
	return true
}

// checkSourceDirs verifies each worker's directory exists.
func checkSourceDirs(cfg Config, log Logger) bool {
	ok := true
	for i := 1; i <= cfg.Workers; i++ {
		dir := filepath.Join(cfg.VideoRoot, fmt.Sprintf("video%d", i))
		fi, err := os.Stat(dir)
		switch {
		case err != nil:
			log.Warn("source directory missing: %s", dir)
			ok = false
		case !fi.IsDir():
			log.Warn("not a directory: %s", dir)
			ok = false
		default:
			log.Success("source directory: %s", dir)
		}
	}
	return ok
}
