package shared

import "time"

// Clock abstracts time so scan debouncing and record timestamps can be
// driven deterministically in tests
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock is the production clock. All timestamps are UTC: facts travel
// between device and server, and local zones must never shift them.
type RealClock struct{}

// NewRealClock creates a RealClock
func NewRealClock() Clock {
	return &RealClock{}
}

// Now returns the current system time in UTC
func (r *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Sleep blocks for the given duration
func (r *RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// MockClock is a manually driven clock for tests
type MockClock struct {
	CurrentTime time.Time
}

// NewMockClock creates a MockClock starting at the given time, or at the
// current time when given the zero value
func NewMockClock(startTime time.Time) *MockClock {
	if startTime.IsZero() {
		startTime = time.Now()
	}
	return &MockClock{CurrentTime: startTime}
}

// Now returns the mock's current time
func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

// Sleep advances the mock instead of blocking
func (m *MockClock) Sleep(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// Advance moves the mock forward by the given duration
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// SetTime pins the mock to a specific instant
func (m *MockClock) SetTime(t time.Time) {
	m.CurrentTime = t
}
