package wizard_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelog/handheld-go/internal/application/validation"
	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/application/wizard/resolvers"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// countingResolver wraps a real resolver and counts resolution calls
type countingResolver struct {
	resolvers.Resolver
	mu      sync.Mutex
	calls   int
	block   chan struct{}
	blockMu sync.Mutex
}

func (c *countingResolver) ResolveFromCode(ctx context.Context, code string, planned task.PlannedReference) (wizard.Value, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	c.blockMu.Lock()
	block := c.block
	c.blockMu.Unlock()
	if block != nil {
		<-block
	}
	return c.Resolver.ResolveFromCode(ctx, code, planned)
}

func (c *countingResolver) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func newCountingQuantityResolver() *countingResolver {
	return &countingResolver{
		Resolver: resolvers.NewQuantityResolver(validation.NewFacade(), false),
	}
}

func TestArbiter_RepeatScanWithinWindowIsIgnored(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Now())
	arbiter := appwizard.NewArbiter(clock, time.Second)
	resolver := newCountingQuantityResolver()

	// Act - same code twice, 300ms apart
	first := arbiter.Resolve(context.Background(), resolver, "5", task.PlannedReference{}, false)
	clock.Advance(300 * time.Millisecond)
	second := arbiter.Resolve(context.Background(), resolver, "5", task.PlannedReference{}, false)

	// Assert
	assert.True(t, first.IsSuccess())
	assert.True(t, second.IsIgnored())
	assert.Equal(t, 1, resolver.callCount())
}

func TestArbiter_RepeatScanAfterWindowIsServedFromCache(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Now())
	arbiter := appwizard.NewArbiter(clock, time.Second)
	resolver := newCountingQuantityResolver()

	// Act
	first := arbiter.Resolve(context.Background(), resolver, "5", task.PlannedReference{}, false)
	clock.Advance(2 * time.Second)
	second := arbiter.Resolve(context.Background(), resolver, "5", task.PlannedReference{}, false)

	// Assert - memoized, the resolver ran once
	assert.True(t, first.IsSuccess())
	assert.True(t, second.IsSuccess())
	assert.Equal(t, 1, resolver.callCount())
}

func TestArbiter_DifferentCodesResolveIndependently(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	arbiter := appwizard.NewArbiter(clock, time.Second)
	resolver := newCountingQuantityResolver()

	first := arbiter.Resolve(context.Background(), resolver, "5", task.PlannedReference{}, false)
	second := arbiter.Resolve(context.Background(), resolver, "7", task.PlannedReference{}, false)

	assert.True(t, first.IsSuccess())
	assert.True(t, second.IsSuccess())
	assert.Equal(t, 2, resolver.callCount())
}

func TestArbiter_InFlightResolutionGatesSameFieldType(t *testing.T) {
	// Arrange - resolver blocks until released
	clock := shared.NewMockClock(time.Now())
	arbiter := appwizard.NewArbiter(clock, time.Second)
	resolver := newCountingQuantityResolver()
	resolver.block = make(chan struct{})

	results := make(chan resolvers.Outcome, 1)
	started := make(chan struct{})

	go func() {
		close(started)
		results <- arbiter.Resolve(context.Background(), resolver, "5", task.PlannedReference{}, false)
	}()
	<-started

	// Wait until the resolver is actually inside ResolveFromCode
	require.Eventually(t, func() bool { return resolver.callCount() == 1 }, time.Second, time.Millisecond)

	// Act - a different code for the same field type while one is in flight
	gated := arbiter.Resolve(context.Background(), resolver, "7", task.PlannedReference{}, false)

	// Release and collect
	close(resolver.block)
	first := <-results

	// Assert
	assert.True(t, gated.IsIgnored())
	assert.True(t, first.IsSuccess())
	assert.Equal(t, 1, resolver.callCount())
}

func TestArbiter_FatalErrorInvalidatesCache(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Now())
	arbiter := appwizard.NewArbiter(clock, time.Second)
	resolver := newCountingQuantityResolver()

	first := arbiter.Resolve(context.Background(), resolver, "5", task.PlannedReference{}, false)
	require.True(t, first.IsSuccess())
	clock.Advance(2 * time.Second)

	// Act - same code again, but the wizard now holds a fatal error
	second := arbiter.Resolve(context.Background(), resolver, "5", task.PlannedReference{}, true)

	// Assert - cache was dropped, the resolver ran again
	assert.True(t, second.IsSuccess())
	assert.Equal(t, 2, resolver.callCount())
}

func TestArbiter_InvalidateClearsMemoizedOutcomes(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	arbiter := appwizard.NewArbiter(clock, time.Second)
	resolver := newCountingQuantityResolver()

	arbiter.Resolve(context.Background(), resolver, "5", task.PlannedReference{}, false)
	clock.Advance(2 * time.Second)
	arbiter.Invalidate()
	arbiter.Resolve(context.Background(), resolver, "5", task.PlannedReference{}, false)

	assert.Equal(t, 2, resolver.callCount())
}

func TestArbiter_ResolutionErrorsAreMemoizedToo(t *testing.T) {
	// Arrange - unparseable amount
	clock := shared.NewMockClock(time.Now())
	arbiter := appwizard.NewArbiter(clock, time.Second)
	resolver := newCountingQuantityResolver()

	first := arbiter.Resolve(context.Background(), resolver, "garbage", task.PlannedReference{}, false)
	clock.Advance(2 * time.Second)
	second := arbiter.Resolve(context.Background(), resolver, "garbage", task.PlannedReference{}, false)

	// Assert
	assert.False(t, first.IsSuccess())
	assert.False(t, first.IsIgnored())
	assert.NotEmpty(t, first.Message)
	assert.Equal(t, first.Message, second.Message)
	assert.Equal(t, 1, resolver.callCount())
}
