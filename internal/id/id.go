// Package id issues task identifiers derived from the creation time.
package id

import (
	"sync"
	"time"
)

// Generator hands out strictly increasing millisecond-timestamp ids. When
// the clock has not advanced past the last issued id (two adds in the same
// millisecond, or a clock step backwards) the next id is last+1.
type Generator struct {
	mu    sync.Mutex
	last  int64
	clock func() time.Time
}

func NewGenerator(clock func() time.Time) *Generator {
	if clock == nil {
		clock = time.Now
	}
	return &Generator{clock: clock}
}

// Observe raises the floor so later ids are greater than v.
func (g *Generator) Observe(v int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if v > g.last {
		g.last = v
	}
}

func (g *Generator) Next() int64 {
	return g.NextAt(g.clock())
}

// NextAt issues an id for a task created at t.
func (g *Generator) NextAt(t time.Time) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := t.UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return n
}

// Last returns the most recently issued or observed id.
func (g *Generator) Last() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}
