package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/warelog/handheld-go/internal/application/wizard/resolvers"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/task"
	domain "github.com/warelog/handheld-go/internal/domain/wizard"
)

// DefaultDebounceWindow is how long an identical repeat scan is dropped
const DefaultDebounceWindow = time.Second

// Arbiter deduplicates rapid repeat scans, serializes concurrent
// resolution per field type, and memoizes outcomes.
//
// One arbiter serves one wizard session; there is no cross-session shared
// state. This is the only place scan replay and races are handled, so
// resolvers stay stateless.
//
// Per field type the arbiter runs an idle → awaiting-result → idle state
// machine: while a resolution is outstanding, further scans for the same
// field type are ignored, scans for other field types proceed.
type Arbiter struct {
	clock    shared.Clock
	debounce time.Duration

	mu       sync.Mutex
	inFlight map[domain.FieldType]bool
	lastCode map[domain.FieldType]string
	lastSeen map[domain.FieldType]time.Time
	cache    map[arbiterKey]resolvers.Outcome
}

type arbiterKey struct {
	field domain.FieldType
	code  string
}

// NewArbiter creates an arbiter with the given debounce window;
// non-positive durations fall back to the default
func NewArbiter(clock shared.Clock, debounce time.Duration) *Arbiter {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if debounce <= 0 {
		debounce = DefaultDebounceWindow
	}
	return &Arbiter{
		clock:    clock,
		debounce: debounce,
		inFlight: make(map[domain.FieldType]bool),
		lastCode: make(map[domain.FieldType]string),
		lastSeen: make(map[domain.FieldType]time.Time),
		cache:    make(map[arbiterKey]resolvers.Outcome),
	}
}

// Resolve runs a scan through debounce, in-flight gating and the outcome
// cache before invoking the resolver. hasFatalError must reflect whether
// the wizard currently holds a fatal error: it invalidates the cache so a
// stale memoized outcome can never mask a real error state.
func (a *Arbiter) Resolve(
	ctx context.Context,
	resolver resolvers.Resolver,
	code string,
	planned task.PlannedReference,
	hasFatalError bool,
) resolvers.Outcome {
	field := resolver.FieldType()
	now := a.clock.Now()

	a.mu.Lock()
	if hasFatalError {
		a.cache = make(map[arbiterKey]resolvers.Outcome)
	}

	if a.inFlight[field] {
		a.mu.Unlock()
		return resolvers.Ignored()
	}

	if prev, ok := a.lastCode[field]; ok && prev == code {
		if now.Sub(a.lastSeen[field]) < a.debounce {
			a.lastSeen[field] = now
			a.mu.Unlock()
			return resolvers.Ignored()
		}
	}
	a.lastCode[field] = code
	a.lastSeen[field] = now

	if cached, ok := a.cache[arbiterKey{field: field, code: code}]; ok {
		a.mu.Unlock()
		return cached
	}

	a.inFlight[field] = true
	a.mu.Unlock()

	outcome := a.invoke(ctx, resolver, code, planned)

	a.mu.Lock()
	delete(a.inFlight, field)
	a.cache[arbiterKey{field: field, code: code}] = outcome
	a.mu.Unlock()

	return outcome
}

// invoke calls the resolver, converting errors into outcome messages
func (a *Arbiter) invoke(ctx context.Context, resolver resolvers.Resolver, code string, planned task.PlannedReference) resolvers.Outcome {
	value, err := resolver.ResolveFromCode(ctx, code, planned)
	if err != nil {
		return resolvers.Error(err.Error())
	}
	return resolvers.Success(value)
}

// Invalidate clears the outcome cache, e.g. after the catalog snapshot
// was refreshed underneath the session
func (a *Arbiter) Invalidate() {
	a.mu.Lock()
	a.cache = make(map[arbiterKey]resolvers.Outcome)
	a.mu.Unlock()
}
