// Package queue implements the bounded handoff buffer sitting between
// ingestion and transmission.
//
// The buffer is an admission ceiling, not backpressure: TryEnqueue never
// waits for space, and an artifact refused here is dropped outright. The
// ingestion side of the system never dequeues — transmission proceeds
// directly after a successful admission — so the buffer's observable effect
// upstream is the capacity check alone. TryDequeue is the handoff point for
// an external consumer.
package queue

import (
	"sync"

	"github.com/backmassage/vidfeed/internal/transcode"
)

// Queue is a capacity-bounded, multi-producer FIFO of artifacts. The zero
// value is not usable; construct with [New].
type Queue struct {
	mu    sync.Mutex
	items []transcode.Artifact
	cap   int
}

// New returns a queue that holds at most capacity artifacts.
// capacity must be at least 1.
func New(capacity int) *Queue {
	if capacity < 1 {
		panic("queue: capacity must be at least 1")
	}
	return &Queue{cap: capacity}
}

// TryEnqueue appends a if there is room and reports whether it was admitted.
// It returns false immediately when the queue is full; it never blocks.
func (q *Queue) TryEnqueue(a transcode.Artifact) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.cap {
		return false
	}
	q.items = append(q.items, a)
	return true
}

// TryDequeue removes and returns the oldest artifact. The second return is
// false when the queue is empty. Like TryEnqueue, it never blocks.
func (q *Queue) TryDequeue() (transcode.Artifact, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return transcode.Artifact{}, false
	}
	a := q.items[0]
	q.items = q.items[1:]
	return a, true
}

// Len returns the current number of buffered artifacts.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Cap returns the configured capacity.
func (q *Queue) Cap() int { return q.cap }
