package wizard

// Phase is the closed set of wizard states
type Phase string

const (
	PhaseInitializing   Phase = "INITIALIZING"
	PhaseStepActive     Phase = "STEP_ACTIVE"
	PhaseSummarizing    Phase = "SUMMARIZING"
	PhaseSubmitting     Phase = "SUBMITTING"
	PhaseSubmitFailed   Phase = "SUBMIT_FAILED"
	PhaseExitConfirming Phase = "EXIT_CONFIRMING"
	PhaseCompleted      Phase = "COMPLETED"
	PhaseCancelled      Phase = "CANCELLED"
	PhaseLoadError      Phase = "LOAD_ERROR"
)

// IsTerminal reports whether the wizard accepts no further events other
// than a fresh Initialize (allowed from LoadError and Cancelled)
func (p Phase) IsTerminal() bool {
	return p == PhaseCompleted || p == PhaseCancelled || p == PhaseLoadError
}

// State is the wizard's single aggregate, mutable only by replacement.
// The host reads it as a snapshot; every transition produces a fresh copy.
//
// Invariant: CurrentIndex is always within [0, len(Steps)]; the value
// len(Steps) means all steps are consumed and the wizard is ready to
// summarize or submit.
//
// Invariant: a value stored in Results is always of the type implied by
// its step template's field type (enforced in Apply).
type State struct {
	Phase    Phase
	TaskID   string
	ActionID string

	Steps        []StepTemplate
	CurrentIndex int

	// Results maps step id to its resolved value
	Results map[string]Value

	// StepErrors maps step id to the last validation or resolution error
	StepErrors map[string]string

	Loading    bool
	FatalError string

	// resumeIndex remembers the active step while exit confirmation or a
	// failed submission overlay is shown
	resumeIndex int
}

// NewState returns the empty pre-initialization state
func NewState() State {
	return State{
		Phase:      PhaseInitializing,
		Results:    map[string]Value{},
		StepErrors: map[string]string{},
	}
}

// clone deep-copies the maps so the previous snapshot stays untouched
func (s State) clone() State {
	next := s
	next.Results = make(map[string]Value, len(s.Results))
	for k, v := range s.Results {
		next.Results[k] = v
	}
	next.StepErrors = make(map[string]string, len(s.StepErrors))
	for k, v := range s.StepErrors {
		next.StepErrors[k] = v
	}
	return next
}

// AllStepsConsumed reports whether the index sits past the last step
func (s State) AllStepsConsumed() bool {
	return s.CurrentIndex >= len(s.Steps)
}

// CurrentStep returns the active step template, if any
func (s State) CurrentStep() (StepTemplate, bool) {
	if s.CurrentIndex < 0 || s.AllStepsConsumed() {
		return StepTemplate{}, false
	}
	return s.Steps[s.CurrentIndex], true
}

// StepByID returns the template with the given step id
func (s State) StepByID(stepID string) (StepTemplate, bool) {
	for _, step := range s.Steps {
		if step.ID == stepID {
			return step, true
		}
	}
	return StepTemplate{}, false
}

// ResultFor returns the stored value for a step id
func (s State) ResultFor(stepID string) (Value, bool) {
	v, ok := s.Results[stepID]
	return v, ok
}

// CurrentStepResult returns the stored value for the active step
func (s State) CurrentStepResult() (Value, bool) {
	step, ok := s.CurrentStep()
	if !ok {
		return nil, false
	}
	return s.ResultFor(step.ID)
}

// CurrentStepError returns the error attached to the active step
func (s State) CurrentStepError() string {
	step, ok := s.CurrentStep()
	if !ok {
		return ""
	}
	return s.StepErrors[step.ID]
}

// ResultOfKind returns the first stored value of the given field type, in
// step order. Used when composing the fact record and by expressions.
func (s State) ResultOfKind(field FieldType) (Value, bool) {
	for _, step := range s.Steps {
		if step.Field != field {
			continue
		}
		if v, ok := s.Results[step.ID]; ok {
			return v, true
		}
	}
	return nil, false
}

// ShowingSummary reports whether the host should render the summary screen
func (s State) ShowingSummary() bool {
	return s.Phase == PhaseSummarizing
}

// ShowingExitConfirm reports whether the host should render the exit
// confirmation overlay
func (s State) ShowingExitConfirm() bool {
	return s.Phase == PhaseExitConfirming
}
