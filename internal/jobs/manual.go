package jobs

import (
	"sync"
	"time"
)

// Manual is a Scheduler driven by explicit Tick calls.
type Manual struct {
	mu      sync.Mutex
	next    int
	entries map[int]manualEntry
}

type manualEntry struct {
	interval time.Duration
	fn       func()
}

func NewManual() *Manual {
	return &Manual{entries: make(map[int]manualEntry)}
}

func (m *Manual) Every(d time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.next
	m.next++
	m.entries[id] = manualEntry{interval: d, fn: fn}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.entries, id)
	}
}

// Tick runs every active schedule once, synchronously.
func (m *Manual) Tick() {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.entries))
	for _, e := range m.entries {
		fns = append(fns, e.fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Intervals returns the interval of each active schedule.
func (m *Manual) Intervals() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.interval)
	}
	return out
}
