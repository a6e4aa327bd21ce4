package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// stepDocument is the JSON shape one step takes inside the template
// document pushed by the server
type stepDocument struct {
	ID           string        `json:"id"`
	Field        string        `json:"field"`
	Required     bool          `json:"required"`
	Rules        *ruleDocument `json:"rules,omitempty"`
	Visibility   string        `json:"visibility,omitempty"`
	CaptureExtra bool          `json:"capture_extra,omitempty"`
	AutoAdvance  bool          `json:"auto_advance,omitempty"`
}

type ruleDocument struct {
	Required bool     `json:"required,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	MinLen   *int     `json:"min_len,omitempty"`
	MaxLen   *int     `json:"max_len,omitempty"`
	Pattern  string   `json:"pattern,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// GormTemplateRepository implements wizard.TemplateRepository over the
// locally cached template documents
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GORM template repository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByCode retrieves and validates an action template.
// Structurally broken templates fail the load; they are configuration
// errors, not runtime conditions.
func (r *GormTemplateRepository) FindByCode(ctx context.Context, code string) (*wizard.ActionTemplate, error) {
	var model ActionTemplateModel
	result := r.db.WithContext(ctx).Where("code = ?", code).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewConfigurationError(fmt.Sprintf("action template %q not found", code))
		}
		return nil, fmt.Errorf("failed to find action template: %w", result.Error)
	}

	template, err := templateModelToEntity(&model)
	if err != nil {
		return nil, err
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}
	return template, nil
}

// Upsert stores a template document after validating it
func (r *GormTemplateRepository) Upsert(ctx context.Context, template *wizard.ActionTemplate) error {
	if err := template.Validate(); err != nil {
		return err
	}
	model, err := templateToModel(template)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save action template: %w", result.Error)
	}
	return nil
}

func templateModelToEntity(model *ActionTemplateModel) (*wizard.ActionTemplate, error) {
	var docs []stepDocument
	if err := json.Unmarshal([]byte(model.StepsJSON), &docs); err != nil {
		return nil, shared.NewConfigurationError(
			fmt.Sprintf("action template %q has malformed steps: %v", model.Code, err))
	}

	steps := make([]wizard.StepTemplate, 0, len(docs))
	for _, doc := range docs {
		step := wizard.StepTemplate{
			ID:           doc.ID,
			Field:        wizard.FieldType(doc.Field),
			Required:     doc.Required,
			Visibility:   doc.Visibility,
			CaptureExtra: doc.CaptureExtra,
			AutoAdvance:  doc.AutoAdvance,
		}
		if doc.Rules != nil {
			step.Rules = &wizard.RuleSet{
				Required: doc.Rules.Required,
				Min:      doc.Rules.Min,
				Max:      doc.Rules.Max,
				MinLen:   doc.Rules.MinLen,
				MaxLen:   doc.Rules.MaxLen,
				Pattern:  doc.Rules.Pattern,
				Message:  doc.Rules.Message,
			}
		}
		steps = append(steps, step)
	}

	return &wizard.ActionTemplate{Code: model.Code, Steps: steps}, nil
}

func templateToModel(template *wizard.ActionTemplate) (*ActionTemplateModel, error) {
	docs := make([]stepDocument, 0, len(template.Steps))
	for _, step := range template.Steps {
		doc := stepDocument{
			ID:           step.ID,
			Field:        string(step.Field),
			Required:     step.Required,
			Visibility:   step.Visibility,
			CaptureExtra: step.CaptureExtra,
			AutoAdvance:  step.AutoAdvance,
		}
		if step.Rules != nil {
			doc.Rules = &ruleDocument{
				Required: step.Rules.Required,
				Min:      step.Rules.Min,
				Max:      step.Rules.Max,
				MinLen:   step.Rules.MinLen,
				MaxLen:   step.Rules.MaxLen,
				Pattern:  step.Rules.Pattern,
				Message:  step.Rules.Message,
			}
		}
		docs = append(docs, doc)
	}

	payload, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template steps: %w", err)
	}
	return &ActionTemplateModel{Code: template.Code, StepsJSON: string(payload)}, nil
}
