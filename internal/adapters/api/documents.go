package api

import "time"

// Wire documents exchanged with the warehouse server. Field names follow
// the server's JSON contract.

type productDocument struct {
	Article        string   `json:"article"`
	Name           string   `json:"name"`
	Barcodes       []string `json:"barcodes"`
	UnitName       string   `json:"unit_name"`
	UnitFactor     float64  `json:"unit_factor"`
	RequiresExpiry bool     `json:"requires_expiry"`
	IsWeighed      bool     `json:"is_weighed"`
}

type plannedDocument struct {
	Product         *productDocument `json:"product,omitempty"`
	Bin             string           `json:"bin,omitempty"`
	Pallet          string           `json:"pallet,omitempty"`
	PlacementBin    string           `json:"placement_bin,omitempty"`
	PlacementPallet string           `json:"placement_pallet,omitempty"`
	Quantity        *float64         `json:"quantity,omitempty"`
}

type factDocument struct {
	ID              string     `json:"id"`
	TaskID          string     `json:"task_id"`
	ActionID        string     `json:"action_id"`
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
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

type actionDocument struct {
	ID           string          `json:"id"`
	TaskID       string          `json:"task_id"`
	TemplateCode string          `json:"template_code"`
	Planned      plannedDocument `json:"planned"`
	Fact         *factDocument   `json:"fact,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
	CancelCause  string          `json:"cancel_cause,omitempty"`
}

type taskDocument struct {
	ID             string           `json:"id"`
	Type           string           `json:"type"`
	WorkerID       int              `json:"worker_id"`
	SyncRequired   bool             `json:"sync_required"`
	Endpoint       string           `json:"endpoint"`
	ForbidOverPlan bool             `json:"forbid_over_plan"`
	Actions        []actionDocument `json:"actions"`
	Status         string           `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	StartedAt      *time.Time       `json:"started_at,omitempty"`
	FinishedAt     *time.Time       `json:"finished_at,omitempty"`
	CancelCause    string           `json:"cancel_cause,omitempty"`
}

type templateStepDocument struct {
	ID           string `json:"id"`
	Field        string `json:"field"`
	Required     bool   `json:"required"`
	Rules        *struct {
		Required bool     `json:"required,omitempty"`
		Min      *float64 `json:"min,omitempty"`
		Max      *float64 `json:"max,omitempty"`
		MinLen   *int     `json:"min_len,omitempty"`
		MaxLen   *int     `json:"max_len,omitempty"`
		Pattern  string   `json:"pattern,omitempty"`
		Message  string   `json:"message,omitempty"`
	} `json:"rules,omitempty"`
	Visibility   string `json:"visibility,omitempty"`
	CaptureExtra bool   `json:"capture_extra,omitempty"`
	AutoAdvance  bool   `json:"auto_advance,omitempty"`
}

type templateDocument struct {
	Code  string                 `json:"code"`
	Steps []templateStepDocument `json:"steps"`
}
