// Package resilience holds small concurrency guards for shared
// dependencies.
package resilience

import "sync"

type flight struct {
	done chan struct{}
	val  any
	err  error
}

// SingleFlight deduplicates concurrent calls for the same key. The
// third return value of Do reports whether the result was produced by
// another in-flight caller.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flight
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*flight)
	}
	if f, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-f.done
		return f.val, f.err, true
	}

	f := &flight{done: make(chan struct{})}
	g.inflight[key] = f
	g.mu.Unlock()

	f.val, f.err = fn()
	close(f.done)

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()

	return f.val, f.err, false
}
