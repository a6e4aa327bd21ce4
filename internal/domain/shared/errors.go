package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Configuration errors
//
// Raised when an action template is wired incorrectly (unmapped field type,
// malformed visibility expression). Always logged; never silently recovered
// except expression evaluation, which degrades to "visible".

type ConfigurationError struct {
	*DomainError
}

func NewConfigurationError(message string) *ConfigurationError {
	return &ConfigurationError{DomainError: &DomainError{Message: message}}
}

type UnmappedFieldTypeError struct {
	*ConfigurationError
	FieldType string
}

func NewUnmappedFieldTypeError(fieldType string) *UnmappedFieldTypeError {
	return &UnmappedFieldTypeError{
		ConfigurationError: NewConfigurationError(
			fmt.Sprintf("no resolver mapped for field type %q", fieldType)),
		FieldType: fieldType,
	}
}

// Resolution errors
//
// Attached to the current step; the worker must rescan or re-enter.

type ResolutionError struct {
	*DomainError
}

func NewResolutionError(message string) *ResolutionError {
	return &ResolutionError{DomainError: &DomainError{Message: message}}
}

type InvalidFormatError struct {
	*ResolutionError
	Code string
}

func NewInvalidFormatError(code, reason string) *InvalidFormatError {
	return &InvalidFormatError{
		ResolutionError: NewResolutionError(
			fmt.Sprintf("cannot interpret %q: %s", code, reason)),
		Code: code,
	}
}

type NotFoundError struct {
	*ResolutionError
	Code string
}

func NewNotFoundError(kind, code string) *NotFoundError {
	return &NotFoundError{
		ResolutionError: NewResolutionError(
			fmt.Sprintf("%s %q not found", kind, code)),
		Code: code,
	}
}

// Validation errors

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PlanMismatchError reports a resolved object whose identity differs from
// the planned reference. The message always names the expected value so the
// worker can see what the plan asked for.
type PlanMismatchError struct {
	*ValidationError
	Expected string
	Actual   string
}

func NewPlanMismatchError(field, expected, actual string) *PlanMismatchError {
	return &PlanMismatchError{
		ValidationError: NewValidationError(field,
			fmt.Sprintf("%s does not match plan; expected %s", field, expected)),
		Expected: expected,
		Actual:   actual,
	}
}

// Submission errors
//
// Surfaced at the wizard level, not per step. The raw message from the
// server or storage layer is preserved verbatim for retry/cancel decisions.

type SubmissionError struct {
	*DomainError
}

func NewSubmissionError(message string) *SubmissionError {
	return &SubmissionError{DomainError: &DomainError{Message: message}}
}
