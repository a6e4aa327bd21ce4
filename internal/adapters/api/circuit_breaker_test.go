package api_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelog/handheld-go/internal/adapters/api"
	"github.com/warelog/handheld-go/internal/domain/shared"
)

func newBreakerFixture() (*api.CircuitBreaker, *shared.MockClock) {
	clock := shared.NewMockClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	return api.NewCircuitBreaker(5, 30*time.Second, clock), clock
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	// Arrange
	breaker, _ := newBreakerFixture()
	boom := errors.New("connection refused")

	// Act
	for i := 0; i < 5; i++ {
		err := breaker.Call(func() error { return boom })
		require.ErrorIs(t, err, boom)
	}

	// Assert
	assert.Equal(t, api.CircuitOpen, breaker.GetState())
	assert.Equal(t, 5, breaker.GetFailureCount())

	err := breaker.Call(func() error { return nil })
	assert.ErrorIs(t, err, api.ErrCircuitOpen, "open circuit fails fast without calling")
}

func TestCircuitBreaker_StaysClosedBelowThreshold(t *testing.T) {
	// Arrange
	breaker, _ := newBreakerFixture()
	boom := errors.New("connection refused")

	// Act
	for i := 0; i < 4; i++ {
		_ = breaker.Call(func() error { return boom })
	}

	// Assert
	assert.Equal(t, api.CircuitClosed, breaker.GetState())
	assert.NoError(t, breaker.Call(func() error { return nil }))
	assert.Equal(t, 0, breaker.GetFailureCount(), "a success resets the streak")
}

func TestCircuitBreaker_HalfOpensAfterTimeout(t *testing.T) {
	// Arrange
	breaker, clock := newBreakerFixture()
	boom := errors.New("connection refused")
	for i := 0; i < 5; i++ {
		_ = breaker.Call(func() error { return boom })
	}
	require.Equal(t, api.CircuitOpen, breaker.GetState())

	// Act: wait out the cool-down and probe with a success
	clock.Advance(31 * time.Second)
	called := false
	err := breaker.Call(func() error { called = true; return nil })

	// Assert
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, api.CircuitClosed, breaker.GetState())
}

func TestCircuitBreaker_ReopensOnHalfOpenFailure(t *testing.T) {
	// Arrange
	breaker, clock := newBreakerFixture()
	boom := errors.New("connection refused")
	for i := 0; i < 5; i++ {
		_ = breaker.Call(func() error { return boom })
	}
	clock.Advance(31 * time.Second)

	// Act: the probe fails
	err := breaker.Call(func() error { return boom })

	// Assert: straight back to open, no second probe until the next cool-down
	require.ErrorIs(t, err, boom)
	assert.Equal(t, api.CircuitOpen, breaker.GetState())
	assert.ErrorIs(t, breaker.Call(func() error { return nil }), api.ErrCircuitOpen)
}
