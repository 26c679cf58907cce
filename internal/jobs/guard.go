package jobs

import "sync"

// Guard is the job-in-flight flag
type Guard struct {
	mu   sync.Mutex
	busy bool
}

// TryAcquire marks a job as running. It returns false if one already is.
func (g *Guard) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

// Release clears the flag
func (g *Guard) Release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}

// Busy reports whether a job is in flight
func (g *Guard) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}
