// Package clock is the time source of the reservation core. Handlers and use
// cases receive a Clock instead of reading the wall clock directly.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed is a controllable clock for tests and replays.
type Fixed struct {
	mu      sync.Mutex
	current time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{current: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.current = t
	f.mu.Unlock()
}

func (f *Fixed) Advance(d time.Duration) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = f.current.Add(d)
	return f.current
}
