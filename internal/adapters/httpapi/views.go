package httpapi

import (
	"time"

	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// WizardStateView is the JSON snapshot of one wizard rendered to hosts
type WizardStateView struct {
	Phase        string              `json:"phase"`
	TaskID       string              `json:"task_id"`
	ActionID     string              `json:"action_id"`
	CurrentIndex int                 `json:"current_index"`
	CurrentStep  *StepView           `json:"current_step,omitempty"`
	Steps        []StepView          `json:"steps"`
	Results      map[string]ValueView `json:"results"`
	StepErrors   map[string]string   `json:"step_errors,omitempty"`
	Loading      bool                `json:"loading"`
	FatalError   string              `json:"fatal_error,omitempty"`
	ShowsSummary bool                `json:"shows_summary"`
	ShowsExit    bool                `json:"shows_exit"`
}

// StepView describes one step of the active template
type StepView struct {
	ID           string `json:"id"`
	Field        string `json:"field"`
	Required     bool   `json:"required"`
	CaptureExtra bool   `json:"capture_extra,omitempty"`
	AutoAdvance  bool   `json:"auto_advance,omitempty"`
}

// ValueView is the display form of a resolved step value
type ValueView struct {
	Kind     string `json:"kind"`
	Identity string `json:"identity"`
	Display  string `json:"display"`
}

// TaskView is the JSON shape of a task in list and detail responses
type TaskView struct {
	ID             string       `json:"id"`
	Type           string       `json:"type"`
	WorkerID       int          `json:"worker_id"`
	Status         string       `json:"status"`
	SyncRequired   bool         `json:"sync_required"`
	Endpoint       string       `json:"endpoint,omitempty"`
	ForbidOverPlan bool         `json:"forbid_over_plan"`
	Actions        []ActionView `json:"actions"`
}

// ActionView is the JSON shape of a planned action
type ActionView struct {
	ID           string  `json:"id"`
	TemplateCode string  `json:"template_code"`
	Status       string  `json:"status"`
	Article      string  `json:"article,omitempty"`
	ProductName  string  `json:"product_name,omitempty"`
	Bin          string  `json:"bin,omitempty"`
	Pallet       string  `json:"pallet,omitempty"`
	PlacementBin string  `json:"placement_bin,omitempty"`
	Quantity     float64 `json:"quantity,omitempty"`
	HasFact      bool    `json:"has_fact"`
}

// RecordView is the JSON shape of the record being assembled
type RecordView struct {
	Article         string     `json:"article,omitempty"`
	TaskArticle     string     `json:"task_article,omitempty"`
	Bin             string     `json:"bin,omitempty"`
	Pallet          string     `json:"pallet,omitempty"`
	PlacementBin    string     `json:"placement_bin,omitempty"`
	PlacementPallet string     `json:"placement_pallet,omitempty"`
	Quantity        float64    `json:"quantity"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	ProductStatus   string     `json:"product_status,omitempty"`
	PlanExceeded    bool       `json:"plan_exceeded"`
}

// NewWizardStateView converts a state snapshot into its view
func NewWizardStateView(s wizard.State) WizardStateView {
	view := WizardStateView{
		Phase:        string(s.Phase),
		TaskID:       s.TaskID,
		ActionID:     s.ActionID,
		CurrentIndex: s.CurrentIndex,
		Steps:        make([]StepView, 0, len(s.Steps)),
		Results:      make(map[string]ValueView, len(s.Results)),
		StepErrors:   s.StepErrors,
		Loading:      s.Loading,
		FatalError:   s.FatalError,
		ShowsSummary: s.ShowingSummary(),
		ShowsExit:    s.ShowingExitConfirm(),
	}
	for _, step := range s.Steps {
		view.Steps = append(view.Steps, newStepView(step))
	}
	if step, ok := s.CurrentStep(); ok {
		current := newStepView(step)
		view.CurrentStep = &current
	}
	for stepID, value := range s.Results {
		view.Results[stepID] = ValueView{
			Kind:     string(value.Kind()),
			Identity: value.Identity(),
			Display:  value.String(),
		}
	}
	return view
}

func newStepView(step wizard.StepTemplate) StepView {
	return StepView{
		ID:           step.ID,
		Field:        string(step.Field),
		Required:     step.Required,
		CaptureExtra: step.CaptureExtra,
		AutoAdvance:  step.AutoAdvance,
	}
}

// NewTaskView converts a task aggregate into its view
func NewTaskView(t *task.Task) TaskView {
	view := TaskView{
		ID:             t.ID,
		Type:           string(t.Type),
		WorkerID:       t.WorkerID.Value(),
		Status:         string(t.Status()),
		SyncRequired:   t.SyncRequired,
		Endpoint:       t.Endpoint,
		ForbidOverPlan: t.ForbidOverPlan,
		Actions:        make([]ActionView, 0, len(t.Actions)),
	}
	for _, action := range t.Actions {
		actionView := ActionView{
			ID:           action.ID,
			TemplateCode: action.TemplateCode,
			Status:       string(action.Status()),
			Bin:          action.Planned.Bin.Code(),
			Pallet:       action.Planned.Pallet.Code(),
			PlacementBin: action.Planned.PlacementBin.Code(),
			HasFact:      action.Fact != nil,
		}
		if action.Planned.Product != nil {
			actionView.Article = action.Planned.Product.Article
			actionView.ProductName = action.Planned.Product.Name
		}
		if action.Planned.HasQuantity {
			actionView.Quantity = action.Planned.Quantity.Amount()
		}
		view.Actions = append(view.Actions, actionView)
	}
	return view
}

// NewRecordView converts a fact record into its view
func NewRecordView(f *task.FactRecord) *RecordView {
	if f == nil {
		return nil
	}
	view := &RecordView{
		Bin:             f.Bin.Code(),
		Pallet:          f.Pallet.Code(),
		PlacementBin:    f.PlacementBin.Code(),
		PlacementPallet: f.PlacementPallet.Code(),
		Quantity:        f.Quantity.Amount(),
		ProductStatus:   f.ProductStatus,
		PlanExceeded:    f.PlanExceeded,
	}
	if f.Product != nil {
		view.Article = f.Product.Article
	}
	if f.TaskProduct != nil {
		view.TaskArticle = f.TaskProduct.Article
	}
	if f.ExpiryDate != nil {
		expiry := *f.ExpiryDate
		view.ExpiryDate = &expiry
	}
	return view
}
