package persistence

import (
	"time"
)

// ProductModel represents the products table
// Barcodes are stored as a JSON array; lookups by barcode go through the
// product_barcodes index table instead of scanning the JSON.
type ProductModel struct {
	Article        string    `gorm:"column:article;primaryKey;not null"`
	Name           string    `gorm:"column:name;not null"`
	Barcodes       string    `gorm:"column:barcodes;type:text"` // JSON array as text
	UnitName       string    `gorm:"column:unit_name;default:'pcs'"`
	UnitFactor     float64   `gorm:"column:unit_factor;not null;default:1"`
	RequiresExpiry bool      `gorm:"column:requires_expiry;not null;default:false"`
	IsWeighed      bool      `gorm:"column:is_weighed;not null;default:false"`
	SyncedAt       time.Time `gorm:"column:synced_at;autoUpdateTime"`
}

func (ProductModel) TableName() string {
	return "products"
}

// ProductBarcodeModel represents the product_barcodes table
type ProductBarcodeModel struct {
	Barcode string        `gorm:"column:barcode;primaryKey;not null"`
	Article string        `gorm:"column:article;not null;index"`
	Product *ProductModel `gorm:"foreignKey:Article;references:Article;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (ProductBarcodeModel) TableName() string {
	return "product_barcodes"
}

// TaskModel represents the tasks table
type TaskModel struct {
	ID             string     `gorm:"column:id;primaryKey;not null"`
	Type           string     `gorm:"column:type;not null"`
	WorkerID       int        `gorm:"column:worker_id;not null;index"`
	SyncRequired   bool       `gorm:"column:sync_required;not null;default:false"`
	Endpoint       string     `gorm:"column:endpoint"`
	ForbidOverPlan bool       `gorm:"column:forbid_over_plan;not null;default:false"`
	Status         string     `gorm:"column:status;not null;default:'PLANNED'"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;not null"`
	StartedAt      *time.Time `gorm:"column:started_at"`
	FinishedAt     *time.Time `gorm:"column:finished_at"`
	CancelCause    string     `gorm:"column:cancel_cause"`
}

func (TaskModel) TableName() string {
	return "tasks"
}

// PlannedActionModel represents the planned_actions table
// Planned reference slots are flattened into columns; empty string means
// "nothing planned for this slot".
type PlannedActionModel struct {
	ID           string     `gorm:"column:id;primaryKey;not null"`
	TaskID       string     `gorm:"column:task_id;not null;index"`
	Task         *TaskModel `gorm:"foreignKey:TaskID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TemplateCode string     `gorm:"column:template_code;not null"`

	PlannedArticle         string   `gorm:"column:planned_article"`
	PlannedBin             string   `gorm:"column:planned_bin"`
	PlannedPallet          string   `gorm:"column:planned_pallet"`
	PlannedPlacementBin    string   `gorm:"column:planned_placement_bin"`
	PlannedPlacementPallet string   `gorm:"column:planned_placement_pallet"`
	PlannedQuantity        *float64 `gorm:"column:planned_quantity"`

	Status      string     `gorm:"column:status;not null;default:'PLANNED'"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null"`
	StartedAt   *time.Time `gorm:"column:started_at"`
	FinishedAt  *time.Time `gorm:"column:finished_at"`
	CancelCause string     `gorm:"column:cancel_cause"`
}

func (PlannedActionModel) TableName() string {
	return "planned_actions"
}

// FactRecordModel represents the fact_records table
type FactRecordModel struct {
	ID       string              `gorm:"column:id;primaryKey;not null"`
	TaskID   string              `gorm:"column:task_id;not null;index"`
	ActionID string              `gorm:"column:action_id;not null;uniqueIndex"`
	Action   *PlannedActionModel `gorm:"foreignKey:ActionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Article         string  `gorm:"column:article"`
	TaskArticle     string  `gorm:"column:task_article"`
	Bin             string  `gorm:"column:bin"`
	Pallet          string  `gorm:"column:pallet"`
	PlacementBin    string  `gorm:"column:placement_bin"`
	PlacementPallet string  `gorm:"column:placement_pallet"`
	Quantity        float64 `gorm:"column:quantity;not null;default:0"`

	ExpiryDate    *time.Time `gorm:"column:expiry_date"`
	ProductStatus string     `gorm:"column:product_status"`
	PlanExceeded  bool       `gorm:"column:plan_exceeded;not null;default:false"`

	StartedAt   time.Time  `gorm:"column:started_at;not null"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

func (FactRecordModel) TableName() string {
	return "fact_records"
}

// ActionTemplateModel represents the action_templates table
// The ordered step list is stored as one JSON document: templates are
// read-mostly server configuration, never queried per step.
type ActionTemplateModel struct {
	Code      string    `gorm:"column:code;primaryKey;not null"`
	StepsJSON string    `gorm:"column:steps_json;type:text;not null"`
	SyncedAt  time.Time `gorm:"column:synced_at;autoUpdateTime"`
}

func (ActionTemplateModel) TableName() string {
	return "action_templates"
}

// SessionLogModel represents the session_logs table
type SessionLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	TaskID    string    `gorm:"column:task_id;index"`
	ActionID  string    `gorm:"column:action_id;index"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Level     string    `gorm:"column:level;not null;default:'INFO'"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Fields    string    `gorm:"column:fields;type:text"` // JSON as text
}

func (SessionLogModel) TableName() string {
	return "session_logs"
}

// AllModels lists every model for migration
func AllModels() []interface{} {
	return []interface{}{
		&ProductModel{},
		&ProductBarcodeModel{},
		&TaskModel{},
		&PlannedActionModel{},
		&FactRecordModel{},
		&ActionTemplateModel{},
		&SessionLogModel{},
	}
}
