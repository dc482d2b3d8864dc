package pipeline

import "sync/atomic"

// RunStats tracks aggregate counters across all workers. Fields are atomic
// because every worker increments them concurrently; reads taken while the
// pool is still running are best-effort snapshots.
type RunStats struct {
	Discovered     atomic.Int64 // Files that passed the format filter.
	HashFailed     atomic.Int64 // Skipped: content could not be hashed.
	Duplicates     atomic.Int64 // Skipped: content already admitted elsewhere.
	Transcoded     atomic.Int64 // Re-encoded by the external tool.
	Passthrough    atomic.Int64 // Forwarded unmodified after a failed transcode.
	Rejected       atomic.Int64 // Dropped at the admission ceiling.
	Transmitted    atomic.Int64 // Fully streamed to the consumer.
	TransmitFailed atomic.Int64 // Transfer failed mid-flight or at dial.
	BytesSent      atomic.Int64 // Payload bytes delivered.
}

// Attempted returns how many files reached the transcode stage.
func (s *RunStats) Attempted() int64 {
	return s.Transcoded.Load() + s.Passthrough.Load()
}
