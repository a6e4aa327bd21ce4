package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warelog/handheld-go/internal/application/common"
	"github.com/warelog/handheld-go/internal/application/validation"
	"github.com/warelog/handheld-go/internal/application/wizard/resolvers"
	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/storage"
	"github.com/warelog/handheld-go/internal/domain/task"
	domain "github.com/warelog/handheld-go/internal/domain/wizard"
)

// SessionDeps bundles everything a wizard session needs from its
// environment
type SessionDeps struct {
	Tasks      task.TaskRepository
	Templates  domain.TemplateRepository
	Catalog    catalog.ProductLookup
	Submission *SubmissionService
	Commands   CommandClient
	Clock      shared.Clock
	Debounce   time.Duration
}

// Session orchestrates one open planned action: it owns the wizard state,
// funnels every event through the state machine, and delegates to the
// resolver set, the arbiter, the validation facade and the submission
// service.
//
// Events are serialized through the mutex, with one exception: the lock
// is released while a resolution is outstanding. The loading flag is
// raised first, so events arriving mid-resolution reach the machine and
// are dropped by its loading guards instead of queuing behind the lock.
// The state is exposed to hosts only as a snapshot; no caller ever holds
// a mutable reference.
type Session struct {
	mu   sync.Mutex
	deps SessionDeps

	machine *domain.Machine
	state   domain.State
	factory *resolvers.Factory
	arbiter *Arbiter

	task   *task.Task
	action *task.PlannedAction
	record *task.FactRecord
}

// CommandResult is what a step command produced, for the host to act on
type CommandResult struct {
	State     domain.State
	Directive Directive
	Message   string
	Success   bool
}

// OpenSession loads the task and its template and initializes the wizard.
// Load failures land the session in LoadError rather than returning an
// error: the host renders the failure and may issue a fresh Initialize.
func OpenSession(ctx context.Context, deps SessionDeps, taskID, actionID string) *Session {
	if deps.Clock == nil {
		deps.Clock = shared.NewRealClock()
	}
	s := &Session{
		deps:  deps,
		state: domain.NewState(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initializeLocked(ctx, taskID, actionID)
	return s
}

// State returns the current immutable snapshot
func (s *Session) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Record returns a copy of the record being assembled
func (s *Session) Record() *task.FactRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return nil
	}
	return s.record.Clone()
}

// Reinitialize restarts a wizard from LoadError or Cancelled
func (s *Session) Reinitialize(ctx context.Context, taskID, actionID string) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Phase.IsTerminal() && s.state.Phase != domain.PhaseInitializing {
		return s.state
	}
	if s.state.Phase == domain.PhaseCompleted {
		return s.state
	}
	s.state = domain.NewState()
	s.initializeLocked(ctx, taskID, actionID)
	return s.state
}

func (s *Session) initializeLocked(ctx context.Context, taskID, actionID string) {
	logger := common.LoggerFromContext(ctx)
	warn := func(message string) {
		logger.Log("WARN", message, map[string]interface{}{
			"task_id":   taskID,
			"action_id": actionID,
		})
	}

	fail := func(err error) {
		s.state, _ = domain.NewMachine(nil, task.PlannedReference{}, "", "").
			Apply(s.state, domain.SetFatalErrorEvent{Message: err.Error()})
	}

	t, err := s.deps.Tasks.FindByID(ctx, taskID)
	if err != nil {
		fail(fmt.Errorf("failed to load task: %w", err))
		return
	}
	action, err := t.FindAction(actionID)
	if err != nil {
		fail(err)
		return
	}
	template, err := s.deps.Templates.FindByCode(ctx, action.TemplateCode)
	if err != nil {
		fail(fmt.Errorf("failed to load action template: %w", err))
		return
	}
	for _, warning := range template.Lint() {
		warn(warning)
	}

	s.task = t
	s.action = action
	s.machine = domain.NewMachine(
		domain.NewEvaluator(warn),
		action.Planned,
		string(t.Type),
		template.Code,
	)
	s.factory = resolvers.NewFactory(s.deps.Catalog, validation.NewFacade(), resolvers.Options{
		ForbidOverPlan: t.ForbidOverPlan,
	})
	s.arbiter = NewArbiter(s.deps.Clock, s.deps.Debounce)
	s.record = task.NewFactRecord(t.ID, action.ID, s.deps.Clock)

	// Lifecycle bookkeeping; persistence failures here are logged, not
	// fatal: the worker can still collect facts offline
	if t.Status() == task.StatusPlanned {
		if err := t.Start(); err == nil {
			if action.Status() == task.StatusPlanned {
				_ = action.Start()
			}
			if err := s.deps.Tasks.Save(ctx, t); err != nil {
				warn(fmt.Sprintf("failed to persist task start: %v", err))
			}
		}
	} else if action.Status() == task.StatusPlanned {
		_ = action.Start()
	}

	next, err := s.machine.Apply(s.state, domain.InitializeEvent{
		TaskID:   taskID,
		ActionID: actionID,
		Steps:    template.Steps,
	})
	if err != nil {
		fail(err)
		return
	}
	s.state = next
}

// apply runs one event through the machine, converting transition errors
// into step errors so malformed input can never crash the host
func (s *Session) apply(ctx context.Context, event domain.Event) {
	next, err := s.machine.Apply(s.state, event)
	if err != nil {
		common.LoggerFromContext(ctx).Log("WARN", err.Error(), map[string]interface{}{
			"task_id":   s.state.TaskID,
			"action_id": s.state.ActionID,
			"phase":     string(s.state.Phase),
		})
		s.state = next
		return
	}
	s.state = next
}

// Scan feeds a barcode scan into the wizard. The scan passes through the
// arbiter (debounce, in-flight gating, memoization) before resolution.
func (s *Session) Scan(ctx context.Context, code string) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	step, ok := s.currentStepReady()
	if !ok {
		return s.state
	}

	resolver, err := s.factory.ForField(step.Field)
	if err != nil {
		// Unmapped field type is a configuration error: fail loudly
		s.apply(ctx, domain.SetFatalErrorEvent{Message: err.Error()})
		return s.state
	}

	// Snapshot before the lock is released for resolution
	planned := s.planned()
	hasFatal := s.state.FatalError != ""
	outcome := s.resolveGuarded(ctx, func() resolvers.Outcome {
		return s.arbiter.Resolve(ctx, resolver, code, planned, hasFatal)
	})
	return s.applyOutcome(ctx, step, resolver, outcome)
}

// EnterValue feeds manually typed input (quantities, codes) into the
// wizard. Manual input skips the arbiter: keyboard entry is not subject
// to scanner replay.
func (s *Session) EnterValue(ctx context.Context, input string) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	step, ok := s.currentStepReady()
	if !ok {
		return s.state
	}

	resolver, err := s.factory.ForField(step.Field)
	if err != nil {
		s.apply(ctx, domain.SetFatalErrorEvent{Message: err.Error()})
		return s.state
	}

	planned := s.planned()
	outcome := s.resolveGuarded(ctx, func() resolvers.Outcome {
		value, err := resolver.ResolveFromCode(ctx, input, planned)
		if err != nil {
			return resolvers.Error(err.Error())
		}
		return resolvers.Success(value)
	})
	return s.applyOutcome(ctx, step, resolver, outcome)
}

// currentStepReady checks the wizard accepts input right now
func (s *Session) currentStepReady() (domain.StepTemplate, bool) {
	if s.state.Phase != domain.PhaseStepActive || s.state.Loading {
		return domain.StepTemplate{}, false
	}
	return s.state.CurrentStep()
}

func (s *Session) planned() task.PlannedReference {
	if s.action == nil {
		return task.PlannedReference{}
	}
	return s.action.Planned
}

// resolveGuarded runs resolution with the loading flag raised and the
// session lock released. Releasing the lock is what makes the loading
// guards effective: an Advance or a second Scan arriving mid-resolution
// observes Loading and is dropped, rather than queuing on the mutex and
// firing after the resolution lands. Panics from misbehaving resolvers
// become error outcomes.
func (s *Session) resolveGuarded(ctx context.Context, resolve func() resolvers.Outcome) (outcome resolvers.Outcome) {
	s.apply(ctx, domain.SetLoadingEvent{Loading: true})
	s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			outcome = resolvers.Error(fmt.Sprintf("internal error: %v", r))
		}
		s.mu.Lock()
		s.apply(ctx, domain.SetLoadingEvent{Loading: false})
	}()
	return resolve()
}

// applyOutcome validates a successful resolution, stores the value and
// auto-advances when the step allows it
func (s *Session) applyOutcome(ctx context.Context, step domain.StepTemplate, resolver resolvers.Resolver, outcome resolvers.Outcome) domain.State {
	switch outcome.Kind {
	case resolvers.OutcomeIgnored:
		return s.state

	case resolvers.OutcomeError:
		s.apply(ctx, domain.SetErrorEvent{StepID: step.ID, Message: outcome.Message})
		return s.state
	}

	result := resolver.Validate(outcome.Value, s.planned(), step.Rules)
	if !result.Valid {
		s.apply(ctx, domain.SetErrorEvent{StepID: step.ID, Message: result.Message})
		return s.state
	}

	s.apply(ctx, domain.SetObjectEvent{StepID: step.ID, Value: outcome.Value})

	if step.AllowsAutoAdvance() {
		s.apply(ctx, domain.AdvanceEvent{})
	}
	return s.state
}

// SetExtra captures additional properties (expiry date, product status)
// for the current step. Only meaningful on steps flagged CaptureExtra.
func (s *Session) SetExtra(ctx context.Context, expiry *time.Time, status string) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	step, ok := s.currentStepReady()
	if !ok {
		return s.state
	}
	if !step.CaptureExtra {
		s.apply(ctx, domain.SetErrorEvent{StepID: step.ID, Message: "this step does not capture additional properties"})
		return s.state
	}
	if expiry != nil {
		e := *expiry
		s.record.ExpiryDate = &e
	}
	if status != "" {
		s.record.ProductStatus = status
	}
	return s.state
}

// Advance confirms the current step. The stored value is re-validated
// through its resolver before the wizard moves on; a validation failure
// keeps the wizard in place with the error attached to this step only.
func (s *Session) Advance(ctx context.Context) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != domain.PhaseStepActive || s.state.Loading {
		return s.state
	}

	step, ok := s.state.CurrentStep()
	if ok {
		if value, resolved := s.state.ResultFor(step.ID); resolved {
			resolver, err := s.factory.ForValue(value)
			if err != nil {
				s.apply(ctx, domain.SetFatalErrorEvent{Message: err.Error()})
				return s.state
			}
			result := resolver.Validate(value, s.planned(), step.Rules)
			if !result.Valid {
				s.apply(ctx, domain.SetErrorEvent{StepID: step.ID, Message: result.Message})
				return s.state
			}
		}
	}

	s.apply(ctx, domain.AdvanceEvent{})
	return s.state
}

// Retreat moves to the previous visible step; from the first visible step
// it raises the exit confirmation
func (s *Session) Retreat(ctx context.Context) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(ctx, domain.RetreatEvent{})
	return s.state
}

// ShowExit raises the exit confirmation
func (s *Session) ShowExit(ctx context.Context) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(ctx, domain.ShowExitEvent{})
	return s.state
}

// DismissExit returns from the exit confirmation to the active step
func (s *Session) DismissExit(ctx context.Context) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(ctx, domain.DismissExitEvent{})
	return s.state
}

// ConfirmExit abandons the wizard. The planned action stays open: the
// worker can pick it up again later; only the wizard state is discarded.
func (s *Session) ConfirmExit(ctx context.Context) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(ctx, domain.ConfirmExitEvent{})
	return s.state
}

// ClearError clears the current step error and the wizard-level error
func (s *Session) ClearError(ctx context.Context) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(ctx, domain.ClearErrorEvent{})
	return s.state
}

// Submit composes the final record from the accumulated step results and
// hands it to the submission service. Runs one attempt; retries are
// user-initiated Submit calls from the SubmitFailed phase.
//
// The ctx may be cancelled by a user-initiated exit: cancellation aborts
// the network call, and because local state is only touched after the
// call fully resolves, nothing is partially applied.
func (s *Session) Submit(ctx context.Context) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.Phase {
	case domain.PhaseSummarizing, domain.PhaseSubmitFailed:
	default:
		return s.state
	}

	s.apply(ctx, domain.SubmitEvent{})
	if s.state.Phase != domain.PhaseSubmitting {
		return s.state
	}

	s.composeRecord()
	s.record.Complete(s.deps.Clock)

	if err := s.deps.Submission.Submit(ctx, s.task, s.action, s.record); err != nil {
		s.apply(ctx, domain.SubmitFailedEvent{Reason: err.Error()})
		return s.state
	}

	s.apply(ctx, domain.SubmitSucceededEvent{})
	return s.state
}

// composeRecord copies the accumulated step results into the fact record,
// one slot per field type. Exhaustive over the value union.
//
// The derived slots are rebuilt from scratch every time: composition runs
// on each step command and again on submit, and a result corrected or
// removed in between must not leave a stale value or plan-exceeded flag
// behind. Extras captured outside the step results (expiry date, product
// status) are untouched.
func (s *Session) composeRecord() {
	s.record.Product = nil
	s.record.TaskProduct = nil
	s.record.Bin = storage.Bin{}
	s.record.Pallet = storage.Pallet{}
	s.record.PlacementBin = storage.Bin{}
	s.record.PlacementPallet = storage.Pallet{}
	s.record.Quantity = shared.Quantity{}
	s.record.PlanExceeded = false

	for _, step := range s.state.Steps {
		value, ok := s.state.ResultFor(step.ID)
		if !ok {
			continue
		}
		switch v := value.(type) {
		case domain.ProductValue:
			if v.Field == domain.FieldTaskProduct {
				s.record.TaskProduct = v.Product
			} else {
				s.record.Product = v.Product
			}
			// A scale label's embedded weight stands in for a quantity
			// step unless one was collected explicitly
			if !v.Weight.IsZero() && s.record.Quantity.IsZero() {
				s.record.Quantity = v.Weight
			}
		case domain.BinValue:
			if v.Field == domain.FieldPlacementBin {
				s.record.PlacementBin = v.Bin
			} else {
				s.record.Bin = v.Bin
			}
		case domain.PalletValue:
			if v.Field == domain.FieldPlacementPallet {
				s.record.PlacementPallet = v.Pallet
			} else {
				s.record.Pallet = v.Pallet
			}
		case domain.QuantityValue:
			s.record.Quantity = v.Quantity
			if qr := s.factory.Quantity(); qr != nil && qr.ExceedsPlan(v, s.planned()) {
				s.record.PlanExceeded = true
			}
		}
	}
}

// RunCommand executes a step-attached server command and interprets its
// directive. Unrecognized directives degrade to a no-op.
func (s *Session) RunCommand(ctx context.Context, commandID string, parameters map[string]string) CommandResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deps.Commands == nil {
		return CommandResult{State: s.state, Directive: DirectiveNone, Message: "no command endpoint configured"}
	}
	if s.state.Loading {
		return CommandResult{State: s.state, Directive: DirectiveNone}
	}
	step, ok := s.state.CurrentStep()
	if !ok {
		return CommandResult{State: s.state, Directive: DirectiveNone}
	}

	s.composeRecord()
	response, err := s.deps.Commands.Execute(ctx, s.task.Endpoint, CommandRequest{
		CommandID:     commandID,
		StepID:        step.ID,
		CurrentRecord: s.record.Clone(),
		Parameters:    parameters,
		Context: map[string]string{
			"task_id":   s.state.TaskID,
			"action_id": s.state.ActionID,
			"task_type": string(s.task.Type),
		},
	})
	if err != nil {
		s.apply(ctx, domain.SetErrorEvent{StepID: step.ID, Message: err.Error()})
		return CommandResult{State: s.state, Directive: DirectiveNone, Message: err.Error()}
	}

	directive := response.NextAction.Normalize()
	if response.UpdatedRecord != nil {
		s.record = response.UpdatedRecord
	}

	switch directive {
	case DirectiveNone, DirectiveShowDialog:
		// Nothing to drive; show-dialog is rendered by the host from the
		// returned message

	case DirectiveRefreshStep:
		s.apply(ctx, domain.SetObjectEvent{StepID: step.ID, Value: nil})
		s.apply(ctx, domain.ClearErrorEvent{})

	case DirectiveGoNext:
		s.apply(ctx, domain.AdvanceEvent{})

	case DirectiveGoPrevious:
		s.apply(ctx, domain.RetreatEvent{})

	case DirectiveCompleteAction:
		// Walk forward until the summary; a required unresolved step
		// stops the walk with its error attached
		for s.state.Phase == domain.PhaseStepActive {
			before := s.state.CurrentIndex
			s.apply(ctx, domain.AdvanceEvent{})
			if s.state.Phase == domain.PhaseStepActive && s.state.CurrentIndex == before {
				break
			}
		}

	case DirectiveSetObjectFromResult:
		if code, ok := response.ResultData["code"]; ok {
			resolver, err := s.factory.ForField(step.Field)
			if err != nil {
				s.apply(ctx, domain.SetFatalErrorEvent{Message: err.Error()})
				break
			}
			planned := s.planned()
			outcome := s.resolveGuarded(ctx, func() resolvers.Outcome {
				value, err := resolver.ResolveFromCode(ctx, code, planned)
				if err != nil {
					return resolvers.Error(err.Error())
				}
				return resolvers.Success(value)
			})
			s.applyOutcome(ctx, step, resolver, outcome)
		}
	}

	return CommandResult{
		State:     s.state,
		Directive: directive,
		Message:   response.Message,
		Success:   response.Success,
	}
}
