package engine

import "sync"

// pairKey identifies one (section, option) pair for the in-flight guard.
type pairKey struct {
	sectionID string
	optionID  string
}

// inflightGuard enforces at most one in-flight mutation per (section, option)
// pair. A second command targeting a busy pair is rejected locally rather
// than queued. Different pairs may mutate concurrently.
type inflightGuard struct {
	mu      sync.Mutex
	pending map[pairKey]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{pending: make(map[pairKey]struct{})}
}

// begin marks the pair busy. It returns false if a mutation for the pair is
// already pending.
func (g *inflightGuard) begin(sectionID, optionID string) bool {
	key := pairKey{sectionID: sectionID, optionID: optionID}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.pending[key]; busy {
		return false
	}
	g.pending[key] = struct{}{}
	return true
}

// end releases the pair.
func (g *inflightGuard) end(sectionID, optionID string) {
	key := pairKey{sectionID: sectionID, optionID: optionID}
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, key)
}
