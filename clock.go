package linklog

import "time"

// Clock abstracts the time source for reload bookkeeping so the
// scan-period gate is testable without sleeping.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// mockClock is a controllable clock for tests.
type mockClock struct {
	current time.Time
}

func newMockClock(t time.Time) *mockClock {
	if t.IsZero() {
		t = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &mockClock{current: t}
}

func (m *mockClock) Now() time.Time { return m.current }

func (m *mockClock) Advance(d time.Duration) { m.current = m.current.Add(d) }
