package wizard

// Event is the sealed set of inputs the wizard state machine accepts.
// Transitions are pure: Apply(state, event) returns a new state and never
// mutates the old one.
type Event interface {
	eventName() string
}

// InitializeEvent opens a wizard for a planned action. Steps and the
// started fact record are loaded by the session service before the event
// is applied.
type InitializeEvent struct {
	TaskID   string
	ActionID string
	Steps    []StepTemplate
}

func (InitializeEvent) eventName() string { return "Initialize" }

// SetObjectEvent stores a resolved, validated value for a step
type SetObjectEvent struct {
	StepID string
	Value  Value
}

func (SetObjectEvent) eventName() string { return "SetObject" }

// AdvanceEvent moves to the next visible step, or to the summary when
// none remains
type AdvanceEvent struct{}

func (AdvanceEvent) eventName() string { return "Advance" }

// RetreatEvent moves to the previous visible step; from the first visible
// step it raises the exit confirmation instead
type RetreatEvent struct{}

func (RetreatEvent) eventName() string { return "Retreat" }

// ShowExitEvent asks for exit confirmation
type ShowExitEvent struct{}

func (ShowExitEvent) eventName() string { return "ShowExit" }

// DismissExitEvent returns from exit confirmation to the active step
type DismissExitEvent struct{}

func (DismissExitEvent) eventName() string { return "DismissExit" }

// ConfirmExitEvent abandons the wizard from the exit confirmation,
// or from a failed submission
type ConfirmExitEvent struct{}

func (ConfirmExitEvent) eventName() string { return "ConfirmExit" }

// SubmitEvent hands the composed record to the submission service
type SubmitEvent struct{}

func (SubmitEvent) eventName() string { return "Submit" }

// SubmitSucceededEvent completes the wizard after a successful submission
type SubmitSucceededEvent struct{}

func (SubmitSucceededEvent) eventName() string { return "SubmitSucceeded" }

// SubmitFailedEvent reports a failed submission; the reason is the raw
// server or storage message, preserved verbatim
type SubmitFailedEvent struct {
	Reason string
}

func (SubmitFailedEvent) eventName() string { return "SubmitFailed" }

// SetErrorEvent attaches an error to the current step
type SetErrorEvent struct {
	StepID  string
	Message string
}

func (SetErrorEvent) eventName() string { return "SetError" }

// SetFatalErrorEvent records a wizard-level error. During initialization
// it drives the wizard into LoadError.
type SetFatalErrorEvent struct {
	Message string
}

func (SetFatalErrorEvent) eventName() string { return "SetFatalError" }

// ClearErrorEvent removes the current step's error and the fatal error
type ClearErrorEvent struct{}

func (ClearErrorEvent) eventName() string { return "ClearError" }

// SetLoadingEvent toggles the loading flag while a resolution or
// submission is in flight
type SetLoadingEvent struct {
	Loading bool
}

func (SetLoadingEvent) eventName() string { return "SetLoading" }
