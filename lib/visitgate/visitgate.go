// Package visitgate allows a single in-flight outbound visit per domain.
// The gate never blocks, a caller denied the gate is expected to fall back to the stored verdict.
// State is in-process only and is lost on restart.
package visitgate

import "sync"

// Gate tracks domains with a visit in flight. The zero value is ready to use.
type Gate struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Guard is held by the single visitor of a domain
type Guard struct {
	gate   *Gate
	domain string
	once   sync.Once
}

// New makes an empty gate
func New() *Gate {
	return &Gate{inFlight: map[string]struct{}{}}
}

// TryAcquire returns a guard for the domain, or false if a visit to it is already in flight.
// The guard must be released, usually with defer.
func (g *Gate) TryAcquire(domain string) (*Guard, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight == nil {
		g.inFlight = map[string]struct{}{}
	}
	if _, busy := g.inFlight[domain]; busy {
		return nil, false
	}
	g.inFlight[domain] = struct{}{}
	return &Guard{gate: g, domain: domain}, true
}

// InFlight reports whether a visit to the domain is in flight
func (g *Gate) InFlight(domain string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inFlight[domain]
	return busy
}

// Release frees the domain. Safe to call more than once and on nil guard.
func (gd *Guard) Release() {
	if gd == nil {
		return
	}
	gd.once.Do(func() {
		gd.gate.mu.Lock()
		delete(gd.gate.inFlight, gd.domain)
		gd.gate.mu.Unlock()
	})
}

// Do runs fn under the guard of domain and reports whether fn ran.
// The domain is released when fn returns or panics.
func (g *Gate) Do(domain string, fn func()) bool {
	gd, ok := g.TryAcquire(domain)
	if !ok {
		return false
	}
	defer gd.Release()
	fn()
	return true
}
