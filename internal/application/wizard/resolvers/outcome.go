package resolvers

import "github.com/warelog/handheld-go/internal/domain/wizard"

// OutcomeKind tags the result of a resolution attempt
type OutcomeKind int

const (
	// OutcomeSuccess carries a resolved value
	OutcomeSuccess OutcomeKind = iota

	// OutcomeError carries a user-facing message; the worker rescans
	OutcomeError

	// OutcomeIgnored marks debounced or duplicate scans; the wizard
	// state is unchanged
	OutcomeIgnored
)

// Outcome is the tagged result of resolving a scanned or typed code.
// Ephemeral: produced per scan event, consumed by the session service.
type Outcome struct {
	Kind    OutcomeKind
	Value   wizard.Value
	Message string
}

// Success wraps a resolved value
func Success(value wizard.Value) Outcome {
	return Outcome{Kind: OutcomeSuccess, Value: value}
}

// Error wraps a resolution failure message
func Error(message string) Outcome {
	return Outcome{Kind: OutcomeError, Message: message}
}

// Ignored marks a scan that was deliberately not processed
func Ignored() Outcome {
	return Outcome{Kind: OutcomeIgnored}
}

// IsSuccess reports whether the outcome carries a value
func (o Outcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

// IsIgnored reports whether the scan was dropped
func (o Outcome) IsIgnored() bool {
	return o.Kind == OutcomeIgnored
}
