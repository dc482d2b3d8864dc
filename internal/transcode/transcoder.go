// Package transcode wraps the external compression tool. The tool is a
// black box: it is handed an input path and an output path, and success is
// judged solely by whether the output file exists afterward. Every failure
// mode — missing binary, non-zero exit, abnormal termination — degrades to
// passing the original file through; nothing here ever fails the pipeline.
package transcode

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// OutputPrefix is prepended to the source file name to form the derived
// file's name, next to the source in the same directory.
const OutputPrefix = "compressed_"

// ErrNoOutput reports that the tool exited without producing the output file.
var ErrNoOutput = errors.New("transcoder produced no output file")

// Artifact is what comes out of a transcode attempt: either the derived
// file or, on any failure, the unchanged original.
type Artifact struct {
	Path       string // File to hand off downstream.
	Compressed bool   // True when Path is the derived file.
	ToolErr    error  // Cause of passthrough; nil when Compressed.
	ToolOutput string // Combined tool output, kept only on passthrough.
}

// Name returns the artifact's display name (its base name), which is what
// the uploader writes on the wire.
func (a Artifact) Name() string { return filepath.Base(a.Path) }

// Transcoder invokes the external tool with fixed re-encode arguments.
type Transcoder struct {
	Bin   string // Tool binary, resolved via PATH.
	Codec string // Value for -vcodec.
	CRF   int    // Value for -crf.
}

// New returns a Transcoder with the given tool settings.
func New(bin, codec string, crf int) *Transcoder {
	return &Transcoder{Bin: bin, Codec: codec, CRF: crf}
}

// Run compresses src and returns the resulting artifact. It blocks on the
// calling goroutine until the tool exits; no timeout is enforced, so a hung
// tool stalls the caller.
//
// The tool's combined stdout/stderr is captured into a buffer rather than
// inherited or piped manually: exec copies non-file sinks on internal
// goroutines and Wait reaps both the process and the copies, so a chatty
// tool can never deadlock against a full OS pipe.
func (t *Transcoder) Run(ctx context.Context, src string) Artifact {
	out := filepath.Join(filepath.Dir(src), OutputPrefix+filepath.Base(src))

	cmd := exec.CommandContext(ctx, t.Bin,
		"-i", src,
		"-vcodec", t.Codec,
		"-crf", strconv.Itoa(t.CRF),
		out,
	)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	runErr := cmd.Run()

	// Existence of the output decides success; the exit code does not.
	if _, err := os.Stat(out); err == nil {
		return Artifact{Path: out, Compressed: true}
	}

	if runErr == nil {
		runErr = ErrNoOutput
	}
	return Artifact{Path: src, ToolErr: runErr, ToolOutput: combined.String()}
}

// TailOf returns up to n trailing lines of tool output, for debug logging
// after a failed run.
func TailOf(output string, n int) []string {
	output = strings.TrimSpace(output)
	if output == "" {
		return nil
	}
	lines := strings.Split(output, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
