// Package addrgate filters repeated address-info events so symbol
// resolution runs once per unique code address per session.
package addrgate

import "sync"

// Gate is a set of absolute code addresses already processed during the
// session. Append-only; entries are never removed.
type Gate struct {
	mu   sync.Mutex
	seen map[uint64]struct{}
}

// New creates an empty Gate.
func New() *Gate {
	return &Gate{seen: make(map[uint64]struct{})}
}

// ShouldProcess reports whether address is being seen for the first time,
// recording it as seen. The lock covers only the membership check and
// insert; callers do the expensive demangling and interning work afterwards,
// outside the lock.
func (g *Gate) ShouldProcess(address uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.seen[address]; ok {
		return false
	}
	g.seen[address] = struct{}{}
	return true
}
