package wizard

import (
	"github.com/warelog/handheld-go/internal/domain/task"
)

// Machine computes wizard state transitions. One machine serves one open
// action; it carries the planned reference and template identity needed by
// visibility expressions but no mutable state of its own.
//
// Apply is pure: it never mutates the input state, and the same
// (state, event) pair always yields the same result. Resolution and
// validation happen before events reach the machine; by the time a
// SetObjectEvent arrives its value is already resolved and validated.
type Machine struct {
	eval         *Evaluator
	planned      task.PlannedReference
	taskType     string
	templateCode string
}

// NewMachine creates a machine for one planned action
func NewMachine(eval *Evaluator, planned task.PlannedReference, taskType, templateCode string) *Machine {
	if eval == nil {
		eval = NewEvaluator(nil)
	}
	return &Machine{
		eval:         eval,
		planned:      planned,
		taskType:     taskType,
		templateCode: templateCode,
	}
}

// Context builds the expression evaluation context for a state snapshot
func (m *Machine) Context(s State) EvalContext {
	return EvalContext{
		State:        s,
		Planned:      m.planned,
		TaskType:     m.taskType,
		TemplateCode: m.templateCode,
	}
}

// Apply computes the next state for an event.
//
// Events that the current phase ignores by design (SetObject or Advance
// while loading) return the state unchanged with a nil error; events the
// phase forbids return an InvalidTransitionError along with the unchanged
// state.
func (m *Machine) Apply(s State, event Event) (State, error) {
	switch ev := event.(type) {
	case InitializeEvent:
		return m.applyInitialize(s, ev)
	case SetObjectEvent:
		return m.applySetObject(s, ev)
	case AdvanceEvent:
		return m.applyAdvance(s, ev)
	case RetreatEvent:
		return m.applyRetreat(s, ev)
	case ShowExitEvent:
		return m.applyShowExit(s, ev)
	case DismissExitEvent:
		return m.applyDismissExit(s, ev)
	case ConfirmExitEvent:
		return m.applyConfirmExit(s, ev)
	case SubmitEvent:
		return m.applySubmit(s, ev)
	case SubmitSucceededEvent:
		return m.applySubmitSucceeded(s, ev)
	case SubmitFailedEvent:
		return m.applySubmitFailed(s, ev)
	case SetErrorEvent:
		return m.applySetError(s, ev)
	case SetFatalErrorEvent:
		return m.applySetFatalError(s, ev)
	case ClearErrorEvent:
		return m.applyClearError(s, ev)
	case SetLoadingEvent:
		return m.applySetLoading(s, ev)
	}
	return s, NewInvalidTransitionError(s.Phase, event)
}

func (m *Machine) applyInitialize(s State, ev InitializeEvent) (State, error) {
	// A fresh Initialize restarts from LoadError and Cancelled; Completed
	// wizards are done for good.
	switch s.Phase {
	case PhaseInitializing, PhaseLoadError, PhaseCancelled:
	default:
		return s, NewInvalidTransitionError(s.Phase, ev)
	}

	next := NewState()
	next.TaskID = ev.TaskID
	next.ActionID = ev.ActionID
	next.Steps = ev.Steps
	next.Phase = PhaseStepActive

	first := m.eval.FirstVisibleIndex(m.Context(next))
	next.CurrentIndex = first
	if first >= len(next.Steps) {
		// Every step hidden or an empty template: nothing to collect
		next.Phase = PhaseSummarizing
	}
	return next, nil
}

func (m *Machine) applySetObject(s State, ev SetObjectEvent) (State, error) {
	if s.Phase != PhaseStepActive {
		return s, NewInvalidTransitionError(s.Phase, ev)
	}
	if s.Loading {
		// Ignored, not queued: the in-flight resolution wins
		return s, nil
	}

	step, ok := s.StepByID(ev.StepID)
	if !ok {
		return s, &StepNotFoundError{StepID: ev.StepID}
	}
	if ev.Value == nil {
		next := s.clone()
		delete(next.Results, ev.StepID)
		return next, nil
	}
	if ev.Value.Kind() != step.Field {
		return s, &ValueKindMismatchError{StepID: step.ID, Declared: step.Field, Got: ev.Value.Kind()}
	}

	next := s.clone()
	next.Results[ev.StepID] = ev.Value
	delete(next.StepErrors, ev.StepID)
	return next, nil
}

func (m *Machine) applyAdvance(s State, ev AdvanceEvent) (State, error) {
	if s.Phase != PhaseStepActive {
		return s, NewInvalidTransitionError(s.Phase, ev)
	}
	if s.Loading {
		return s, nil
	}

	step, ok := s.CurrentStep()
	if ok && step.Required {
		if _, resolved := s.ResultFor(step.ID); !resolved {
			next := s.clone()
			next.StepErrors[step.ID] = "a value is required for this step"
			return next, nil
		}
	}

	next := s.clone()
	idx := m.eval.NextVisibleIndex(m.Context(next), next.CurrentIndex)
	next.CurrentIndex = idx
	if idx >= len(next.Steps) {
		next.Phase = PhaseSummarizing
	}
	return next, nil
}

func (m *Machine) applyRetreat(s State, ev RetreatEvent) (State, error) {
	switch s.Phase {
	case PhaseStepActive:
		if s.Loading {
			return s, nil
		}
		prev := m.eval.PreviousVisibleIndex(m.Context(s), s.CurrentIndex)
		if prev < 0 {
			// Retreat from the first visible step offers cancellation
			// instead of a silent no-op
			return m.applyShowExit(s, ShowExitEvent{})
		}
		next := s.clone()
		next.CurrentIndex = prev
		return next, nil

	case PhaseSummarizing:
		prev := m.eval.PreviousVisibleIndex(m.Context(s), len(s.Steps))
		if prev < 0 {
			return m.applyShowExit(s, ShowExitEvent{})
		}
		next := s.clone()
		next.Phase = PhaseStepActive
		next.CurrentIndex = prev
		return next, nil
	}
	return s, NewInvalidTransitionError(s.Phase, ev)
}

func (m *Machine) applyShowExit(s State, ev ShowExitEvent) (State, error) {
	switch s.Phase {
	case PhaseStepActive, PhaseSummarizing, PhaseSubmitFailed:
	default:
		return s, NewInvalidTransitionError(s.Phase, ev)
	}
	next := s.clone()
	next.resumeIndex = next.CurrentIndex
	next.Phase = PhaseExitConfirming
	return next, nil
}

func (m *Machine) applyDismissExit(s State, ev DismissExitEvent) (State, error) {
	if s.Phase != PhaseExitConfirming {
		return s, NewInvalidTransitionError(s.Phase, ev)
	}
	next := s.clone()
	next.CurrentIndex = next.resumeIndex
	if next.CurrentIndex >= len(next.Steps) {
		next.Phase = PhaseSummarizing
	} else {
		next.Phase = PhaseStepActive
	}
	return next, nil
}

func (m *Machine) applyConfirmExit(s State, ev ConfirmExitEvent) (State, error) {
	switch s.Phase {
	case PhaseExitConfirming, PhaseSubmitFailed:
	default:
		return s, NewInvalidTransitionError(s.Phase, ev)
	}
	next := s.clone()
	next.Phase = PhaseCancelled
	next.Loading = false
	return next, nil
}

func (m *Machine) applySubmit(s State, ev SubmitEvent) (State, error) {
	switch s.Phase {
	case PhaseSummarizing, PhaseSubmitFailed:
	default:
		return s, NewInvalidTransitionError(s.Phase, ev)
	}
	next := s.clone()
	next.Phase = PhaseSubmitting
	next.Loading = true
	next.FatalError = ""
	return next, nil
}

func (m *Machine) applySubmitSucceeded(s State, ev SubmitSucceededEvent) (State, error) {
	if s.Phase != PhaseSubmitting {
		return s, NewInvalidTransitionError(s.Phase, ev)
	}
	next := s.clone()
	next.Phase = PhaseCompleted
	next.Loading = false
	return next, nil
}

func (m *Machine) applySubmitFailed(s State, ev SubmitFailedEvent) (State, error) {
	if s.Phase != PhaseSubmitting {
		return s, NewInvalidTransitionError(s.Phase, ev)
	}
	next := s.clone()
	next.Phase = PhaseSubmitFailed
	next.Loading = false
	next.FatalError = ev.Reason
	return next, nil
}

func (m *Machine) applySetError(s State, ev SetErrorEvent) (State, error) {
	next := s.clone()
	stepID := ev.StepID
	if stepID == "" {
		if step, ok := s.CurrentStep(); ok {
			stepID = step.ID
		}
	}
	if stepID == "" {
		next.FatalError = ev.Message
		return next, nil
	}
	next.StepErrors[stepID] = ev.Message
	return next, nil
}

func (m *Machine) applySetFatalError(s State, ev SetFatalErrorEvent) (State, error) {
	next := s.clone()
	next.FatalError = ev.Message
	next.Loading = false
	if next.Phase == PhaseInitializing {
		next.Phase = PhaseLoadError
	}
	return next, nil
}

func (m *Machine) applyClearError(s State, ev ClearErrorEvent) (State, error) {
	next := s.clone()
	next.FatalError = ""
	if step, ok := next.CurrentStep(); ok {
		delete(next.StepErrors, step.ID)
	}
	return next, nil
}

func (m *Machine) applySetLoading(s State, ev SetLoadingEvent) (State, error) {
	next := s.clone()
	next.Loading = ev.Loading
	return next, nil
}
