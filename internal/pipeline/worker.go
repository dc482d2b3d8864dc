package pipeline

import (
	"context"
	"path/filepath"

	"github.com/backmassage/vidfeed/internal/dedup"
	"github.com/backmassage/vidfeed/internal/display"
	"github.com/backmassage/vidfeed/internal/logging"
	"github.com/backmassage/vidfeed/internal/metrics"
	"github.com/backmassage/vidfeed/internal/queue"
	"github.com/backmassage/vidfeed/internal/transcode"
	"github.com/backmassage/vidfeed/internal/upload"
)

// Worker ingests one source directory. It pulls the directory listing once
// and processes the files strictly sequentially; concurrency exists only
// across workers, never within one. The gate and queue are shared with the
// rest of the pool, everything else is owned.
type Worker struct {
	ID         int
	Dir        string
	Gate       *dedup.Gate
	Queue      *queue.Queue
	Transcoder *transcode.Transcoder
	Uploader   *upload.Client
	Log        *logging.Logger
	Stats      *RunStats
}

// Run processes the worker's directory to completion. A missing or empty
// directory is logged and skipped, not an error. Cancellation is observed
// between files only: a worker deep in a hash, transcode, or socket write
// finishes that file first.
func (w *Worker) Run(ctx context.Context) {
	files, err := ListVideos(w.Dir)
	if err != nil {
		w.Log.Warn("[worker %d] cannot read %s: %v", w.ID, w.Dir, err)
		return
	}
	if len(files) == 0 {
		w.Log.Warn("[worker %d] no video files in %s", w.ID, w.Dir)
		return
	}
	w.Log.Info("[worker %d] %d files in %s", w.ID, len(files), w.Dir)

	for _, path := range files {
		if ctx.Err() != nil {
			w.Log.Warn("[worker %d] interrupted, %s left unfinished", w.ID, w.Dir)
			return
		}
		w.processFile(ctx, path)
	}
	w.Log.Debug("[worker %d] finished %s", w.ID, w.Dir)
}

// processFile drives one file through the per-file state machine. Every
// outcome is terminal and logged; none aborts the worker or triggers a retry.
func (w *Worker) processFile(ctx context.Context, path string) {
	name := filepath.Base(path)
	w.Stats.Discovered.Add(1)
	metrics.FilesDiscovered.Inc()

	// Hash is also the dedup key, so it cannot be skipped or sampled.
	digest, err := dedup.HashFile(path)
	if err != nil {
		w.Log.Error("[worker %d] cannot hash %s: %v", w.ID, name, err)
		w.Stats.HashFailed.Add(1)
		metrics.HashFailures.Inc()
		return
	}

	if !w.Gate.Admit(digest) {
		w.Log.Warn("[worker %d] duplicate content, skipping: %s", w.ID, name)
		w.Stats.Duplicates.Add(1)
		metrics.Duplicates.Inc()
		return
	}

	art := w.Transcoder.Run(ctx, path)
	if art.Compressed {
		w.Log.Info("[worker %d] compressed: %s", w.ID, name)
		w.Stats.Transcoded.Add(1)
		metrics.Transcodes.Inc()
	} else {
		w.Log.Warn("[worker %d] compression failed, using original: %s (%v)", w.ID, name, art.ToolErr)
		for _, line := range transcode.TailOf(art.ToolOutput, 5) {
			w.Log.Debug("[worker %d]   %s", w.ID, line)
		}
		w.Stats.Passthrough.Add(1)
		metrics.Passthroughs.Inc()
	}

	if !w.Queue.TryEnqueue(art) {
		w.Log.Warn("[worker %d] queue full, dropping: %s", w.ID, art.Name())
		w.Stats.Rejected.Add(1)
		metrics.AdmissionRejections.Inc()
		return
	}

	sess, err := w.Uploader.Send(art.Path, art.Name())
	if err != nil {
		w.Log.Error("[worker %d] failed to send %s: %v", w.ID, art.Name(), err)
		w.Stats.TransmitFailed.Add(1)
		metrics.TransmitFailures.Inc()
		return
	}
	w.Log.Success("[worker %d] sent %s (%s in %s, session %s)",
		w.ID, art.Name(), display.FormatBytes(sess.Bytes),
		display.FormatDuration(sess.Elapsed), sess.ID)
	w.Stats.Transmitted.Add(1)
	metrics.Transmissions.Inc()
	w.Stats.BytesSent.Add(sess.Bytes)
	metrics.BytesSent.Add(float64(sess.Bytes))
}
