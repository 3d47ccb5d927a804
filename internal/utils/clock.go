package utils

import "time"

// Clock abstracts wall-clock access. Classification and grouping never
// sample the clock themselves; "now" is captured once per pass and
// threaded through, which keeps results deterministic under test and
// free of boundary flicker within a single render.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
