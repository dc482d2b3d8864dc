package pipeline

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/backmassage/vidfeed/internal/config"
	"github.com/backmassage/vidfeed/internal/dedup"
	"github.com/backmassage/vidfeed/internal/logging"
	"github.com/backmassage/vidfeed/internal/queue"
	"github.com/backmassage/vidfeed/internal/transcode"
	"github.com/backmassage/vidfeed/internal/upload"
)

// --- shared test helpers (also used by pool_test.go) ---

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

// fakeTool writes an executable shell script standing in for ffmpeg.
func fakeTool(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faketool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// failingTool always exits non-zero, forcing passthrough.
func failingTool(t *testing.T) *transcode.Transcoder {
	return transcode.New(fakeTool(t, "exit 1"), "libx264", 23)
}

// copyingTool copies its input (-i <src>) to the output path (last arg).
func copyingTool(t *testing.T) *transcode.Transcoder {
	return transcode.New(fakeTool(t, `for last; do :; done
cp "$2" "$last"`), "libx264", 23)
}

type received struct {
	name string
	body []byte
}

// consumer runs a loopback listener that records every connection's name
// line and body until the test ends. Returns the listening port.
func consumer(t *testing.T) (int, <-chan received) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	ch := make(chan received, 16)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				data, _ := io.ReadAll(conn)
				nl := bytes.IndexByte(data, '\n')
				if nl < 0 {
					ch <- received{name: string(data)}
					return
				}
				ch <- received{name: string(data[:nl]), body: data[nl+1:]}
			}(conn)
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port, ch
}

// deadConsumer returns a client whose endpoint refuses connections.
func deadConsumer(t *testing.T) *upload.Client {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return upload.NewClient("127.0.0.1", port, 4096)
}

func sourceDir(t *testing.T, root, name string, files map[string][]byte) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for fname, data := range files {
		if err := os.WriteFile(filepath.Join(dir, fname), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// --- worker tests ---

func TestWorker_DuplicateContentAdmittedOnce(t *testing.T) {
	root := t.TempDir()
	same := []byte("identical video bytes")
	dir1 := sourceDir(t, root, "video1", map[string][]byte{"a.mp4": same})
	dir2 := sourceDir(t, root, "video2", map[string][]byte{"b.mkv": same})

	gate := dedup.NewGate()
	q := queue.New(5)
	port, _ := consumer(t)
	up := upload.NewClient("127.0.0.1", port, 4096)
	stats := &RunStats{}
	log := testLogger(t)

	var wg sync.WaitGroup
	for i, dir := range []string{dir1, dir2} {
		w := &Worker{
			ID: i + 1, Dir: dir,
			Gate: gate, Queue: q,
			Transcoder: failingTool(t), Uploader: up,
			Log: log, Stats: stats,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run(context.Background())
		}()
	}
	wg.Wait()

	if got := stats.Attempted(); got != 1 {
		t.Errorf("files past the gate = %d, want exactly 1", got)
	}
	if stats.Duplicates.Load() != 1 {
		t.Errorf("duplicates = %d, want 1", stats.Duplicates.Load())
	}
	if gate.Len() != 1 {
		t.Errorf("distinct digests = %d, want 1", gate.Len())
	}
}

func TestWorker_AdmissionDeniedSkipsTransmission(t *testing.T) {
	root := t.TempDir()
	dir := sourceDir(t, root, "video1", map[string][]byte{"a.mp4": []byte("unique")})

	q := queue.New(1)
	if !q.TryEnqueue(transcode.Artifact{Path: "filler"}) {
		t.Fatal("could not prefill queue")
	}

	stats := &RunStats{}
	w := &Worker{
		ID: 1, Dir: dir,
		Gate: dedup.NewGate(), Queue: q,
		Transcoder: failingTool(t), Uploader: deadConsumer(t),
		Log: testLogger(t), Stats: stats,
	}
	w.Run(context.Background())

	if stats.Rejected.Load() != 1 {
		t.Errorf("rejected = %d, want 1", stats.Rejected.Load())
	}
	// The dropped artifact must not reach the (dead) consumer at all.
	if stats.TransmitFailed.Load() != 0 || stats.Transmitted.Load() != 0 {
		t.Errorf("denied artifact was transmitted: %+v failed, %+v sent",
			stats.TransmitFailed.Load(), stats.Transmitted.Load())
	}
}

func TestWorker_TransmitFailureIsLocal(t *testing.T) {
	root := t.TempDir()
	dir := sourceDir(t, root, "video1", map[string][]byte{
		"a.mp4": []byte("one"),
		"b.mp4": []byte("two"),
	})

	stats := &RunStats{}
	w := &Worker{
		ID: 1, Dir: dir,
		Gate: dedup.NewGate(), Queue: queue.New(5),
		Transcoder: failingTool(t), Uploader: deadConsumer(t),
		Log: testLogger(t), Stats: stats,
	}
	w.Run(context.Background())

	// Both files run to a terminal state despite every transfer failing.
	if stats.TransmitFailed.Load() != 2 {
		t.Errorf("transmit failures = %d, want 2", stats.TransmitFailed.Load())
	}
	if stats.Discovered.Load() != 2 {
		t.Errorf("discovered = %d, want 2", stats.Discovered.Load())
	}
}

func TestWorker_HashFailureSkipsFile(t *testing.T) {
	stats := &RunStats{}
	gate := dedup.NewGate()
	w := &Worker{
		ID: 1, Dir: t.TempDir(),
		Gate: gate, Queue: queue.New(5),
		Transcoder: failingTool(t), Uploader: deadConsumer(t),
		Log: testLogger(t), Stats: stats,
	}
	w.processFile(context.Background(), filepath.Join(t.TempDir(), "ghost.mp4"))

	if stats.HashFailed.Load() != 1 {
		t.Errorf("hash failures = %d, want 1", stats.HashFailed.Load())
	}
	if gate.Len() != 0 {
		t.Error("unhashable file must not enter the gate")
	}
}

func TestWorker_MissingDirectoryIsSkipped(t *testing.T) {
	stats := &RunStats{}
	w := &Worker{
		ID: 1, Dir: filepath.Join(t.TempDir(), "video9"),
		Gate: dedup.NewGate(), Queue: queue.New(5),
		Transcoder: failingTool(t), Uploader: deadConsumer(t),
		Log: testLogger(t), Stats: stats,
	}
	w.Run(context.Background()) // must not panic

	if stats.Discovered.Load() != 0 {
		t.Errorf("discovered = %d, want 0", stats.Discovered.Load())
	}
}

func TestWorker_CancelledBeforeStartProcessesNothing(t *testing.T) {
	root := t.TempDir()
	dir := sourceDir(t, root, "video1", map[string][]byte{"a.mp4": []byte("x")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := &RunStats{}
	w := &Worker{
		ID: 1, Dir: dir,
		Gate: dedup.NewGate(), Queue: queue.New(5),
		Transcoder: failingTool(t), Uploader: deadConsumer(t),
		Log: testLogger(t), Stats: stats,
	}
	w.Run(ctx)

	if stats.Discovered.Load() != 0 {
		t.Errorf("cancelled worker processed %d files", stats.Discovered.Load())
	}
}
