package wizard

import "fmt"

// InvalidTransitionError indicates an event arrived in a phase that does
// not accept it. The session service converts these into step or fatal
// errors; they never propagate to the host.
type InvalidTransitionError struct {
	Phase Phase
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("event %s not accepted in phase %s", e.Event, e.Phase)
}

func NewInvalidTransitionError(phase Phase, event Event) *InvalidTransitionError {
	return &InvalidTransitionError{Phase: phase, Event: event.eventName()}
}

// ValueKindMismatchError indicates a stored value's type does not match
// the step template's declared field type. This is an engine bug or a
// resolver wiring error, never a user input problem.
type ValueKindMismatchError struct {
	StepID   string
	Declared FieldType
	Got      FieldType
}

func (e *ValueKindMismatchError) Error() string {
	return fmt.Sprintf("step %q declares field type %s but received a %s value",
		e.StepID, e.Declared, e.Got)
}

// StepNotFoundError indicates an event referenced a step id that is not
// part of the active sequence
type StepNotFoundError struct {
	StepID string
}

func (e *StepNotFoundError) Error() string {
	return fmt.Sprintf("step %q not found in active sequence", e.StepID)
}
