package dedup

import "sync"

// Gate is the process-wide set of digests seen during this run. All workers
// share one Gate; the membership check and the insert happen under a single
// lock so two workers racing on identical content cannot both win.
//
// The set lives for the run only and is never persisted. The underlying map
// is not exposed; Admit is the sole mutation entry point.
type Gate struct {
	mu   sync.Mutex
	seen map[Digest]struct{}
}

// NewGate returns an empty gate.
func NewGate() *Gate {
	return &Gate{seen: make(map[Digest]struct{})}
}

// Admit records d and reports whether it was new. It returns true exactly
// once per distinct digest for the lifetime of the gate; every later call
// with the same digest returns false. Safe for concurrent use.
func (g *Gate) Admit(d Digest) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, dup := g.seen[d]; dup {
		return false
	}
	g.seen[d] = struct{}{}
	return true
}

// Len returns the number of distinct digests admitted so far.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
