package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/backmassage/vidfeed/internal/config"
	"github.com/backmassage/vidfeed/internal/dedup"
	"github.com/backmassage/vidfeed/internal/display"
	"github.com/backmassage/vidfeed/internal/logging"
	"github.com/backmassage/vidfeed/internal/queue"
	"github.com/backmassage/vidfeed/internal/transcode"
	"github.com/backmassage/vidfeed/internal/upload"
)

// ErrShutdownTimeout reports that Shutdown gave up waiting and abandoned
// still-running workers. Goroutines cannot be killed, so a straggler blocked
// in a transcode or socket write keeps running until its call returns; an
// in-flight transcoder process may outlive the run entirely.
var ErrShutdownTimeout = errors.New("shutdown timeout: workers abandoned")

// Pool owns the shared dedup gate and handoff queue plus a fixed set of
// workers, one per source directory <root>/video1 .. video<P>.
type Pool struct {
	cfg   *config.Config
	log   *logging.Logger
	gate  *dedup.Gate
	queue *queue.Queue
	stats *RunStats

	workers []*Worker

	mu      sync.Mutex
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	started bool
}

// NewPool builds the shared state and binds cfg.Workers workers to their
// directories. Nothing runs until [Pool.Start].
func NewPool(cfg *config.Config, log *logging.Logger) *Pool {
	p := &Pool{
		cfg:   cfg,
		log:   log,
		gate:  dedup.NewGate(),
		queue: queue.New(cfg.QueueCapacity),
		stats: &RunStats{},
	}

	tc := transcode.New(cfg.FFmpegBin, cfg.VideoCodec, cfg.CRF)
	up := upload.NewClient(cfg.ConsumerHost, cfg.ConsumerPort, cfg.ChunkSize)

	for i := 1; i <= cfg.Workers; i++ {
		p.workers = append(p.workers, &Worker{
			ID:         i,
			Dir:        filepath.Join(cfg.VideoRoot, fmt.Sprintf("video%d", i)),
			Gate:       p.gate,
			Queue:      p.queue,
			Transcoder: tc,
			Uploader:   up,
			Log:        log,
			Stats:      p.stats,
		})
	}
	return p
}

// Stats returns the shared counters. Safe to read at any time.
func (p *Pool) Stats() *RunStats { return p.stats }

// Gate returns the shared dedup gate.
func (p *Pool) Gate() *dedup.Gate { return p.gate }

// Queue returns the shared handoff queue.
func (p *Pool) Queue() *queue.Queue { return p.queue }

// Start launches every worker on its own goroutine and returns immediately.
// The workers run under a context derived from ctx, so cancelling ctx (or
// calling Shutdown) stops them at the next file boundary.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Shutdown waits for the workers to drain, up to cfg.ShutdownTimeout. Past
// the deadline it cancels the worker context and returns
// [ErrShutdownTimeout] without waiting further — the orderly-wait-then-force
// shape of the legacy pool. Calling Shutdown before Start returns nil.
func (p *Pool) Shutdown() error {
	p.mu.Lock()
	started := p.started
	cancel := p.cancel
	p.mu.Unlock()
	if !started {
		return nil
	}
	defer cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(p.cfg.ShutdownTimeout):
		cancel()
		return ErrShutdownTimeout
	}
}

// LogSummary writes the end-of-run report: one line per terminal state plus
// distinct content seen and bytes delivered.
func (p *Pool) LogSummary() {
	s := p.stats
	p.log.Info("==============================")
	p.log.Info("Done: %d discovered, %d transmitted, %d duplicates, %d dropped at ceiling",
		s.Discovered.Load(), s.Transmitted.Load(), s.Duplicates.Load(), s.Rejected.Load())
	p.log.Info("  Transcoded: %d, passthrough: %d", s.Transcoded.Load(), s.Passthrough.Load())
	if f := s.HashFailed.Load(); f > 0 {
		p.log.Warn("  Unreadable (hash failed): %d", f)
	}
	if f := s.TransmitFailed.Load(); f > 0 {
		p.log.Warn("  Transfer failures: %d", f)
	}
	p.log.Info("  Distinct content admitted: %d", p.gate.Len())
	p.log.Success("  Delivered %s to %s", display.FormatBytes(s.BytesSent.Load()), p.workers[0].Uploader.Addr())
}
