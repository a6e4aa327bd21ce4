package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/storage"
	"github.com/warelog/handheld-go/internal/domain/task"
)

// GormTaskRepository implements task.TaskRepository using GORM.
// The aggregate (task, planned actions, fact records) is always loaded
// and saved as a whole.
type GormTaskRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormTaskRepository creates a new GORM task repository
func NewGormTaskRepository(db *gorm.DB, clock shared.Clock) *GormTaskRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormTaskRepository{db: db, clock: clock}
}

// FindByID retrieves a task with its planned actions and fact records
func (r *GormTaskRepository) FindByID(ctx context.Context, taskID string) (*task.Task, error) {
	var model TaskModel
	result := r.db.WithContext(ctx).Where("id = ?", taskID).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, task.NewTaskNotFoundError(taskID)
		}
		return nil, fmt.Errorf("failed to find task: %w", result.Error)
	}

	return r.modelToEntity(ctx, &model)
}

// ListOpen retrieves tasks a worker can still work on
func (r *GormTaskRepository) ListOpen(ctx context.Context, workerID int) ([]*task.Task, error) {
	var models []TaskModel
	result := r.db.WithContext(ctx).
		Where("worker_id = ? AND status IN ?", workerID, []string{string(task.StatusPlanned), string(task.StatusInProgress)}).
		Order("created_at").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list open tasks: %w", result.Error)
	}

	tasks := make([]*task.Task, 0, len(models))
	for i := range models {
		entity, err := r.modelToEntity(ctx, &models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert task %s: %w", models[i].ID, err)
		}
		tasks = append(tasks, entity)
	}
	return tasks, nil
}

// Save persists the task aggregate atomically
func (r *GormTaskRepository) Save(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveAggregate(tx, t)
	})
}

// ReplaceSnapshot swaps the stored task for a server-returned state in one
// transaction. A failed replace rolls back to the previous snapshot.
func (r *GormTaskRepository) ReplaceSnapshot(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var actionIDs []string
		if err := tx.Model(&PlannedActionModel{}).
			Where("task_id = ?", t.ID).
			Pluck("id", &actionIDs).Error; err != nil {
			return fmt.Errorf("failed to collect actions for replace: %w", err)
		}
		if len(actionIDs) > 0 {
			if err := tx.Where("action_id IN ?", actionIDs).Delete(&FactRecordModel{}).Error; err != nil {
				return fmt.Errorf("failed to clear fact records: %w", err)
			}
		}
		if err := tx.Where("task_id = ?", t.ID).Delete(&PlannedActionModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear planned actions: %w", err)
		}
		if err := tx.Where("id = ?", t.ID).Delete(&TaskModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear task: %w", err)
		}
		return r.saveAggregate(tx, t)
	})
}

func (r *GormTaskRepository) saveAggregate(tx *gorm.DB, t *task.Task) error {
	taskModel := taskToModel(t)
	if err := tx.Save(taskModel).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	for _, action := range t.Actions {
		actionModel := actionToModel(action)
		if err := tx.Save(actionModel).Error; err != nil {
			return fmt.Errorf("failed to save action %s: %w", action.ID, err)
		}
		if action.Fact != nil {
			factModel := factToModel(action.Fact)
			if err := tx.Save(factModel).Error; err != nil {
				return fmt.Errorf("failed to save fact record for %s: %w", action.ID, err)
			}
		}
	}
	return nil
}

func (r *GormTaskRepository) modelToEntity(ctx context.Context, model *TaskModel) (*task.Task, error) {
	t, err := task.NewTask(model.ID, task.Type(model.Type), shared.MustNewWorkerID(model.WorkerID), r.clock)
	if err != nil {
		return nil, err
	}
	t.SyncRequired = model.SyncRequired
	t.Endpoint = model.Endpoint
	t.ForbidOverPlan = model.ForbidOverPlan
	t.Lifecycle().RecoverFromPersistence(
		task.Status(model.Status),
		model.CreatedAt, model.UpdatedAt,
		model.StartedAt, model.FinishedAt,
		model.CancelCause,
	)

	var actionModels []PlannedActionModel
	result := r.db.WithContext(ctx).
		Where("task_id = ?", model.ID).
		Order("created_at").
		Find(&actionModels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load planned actions: %w", result.Error)
	}

	for i := range actionModels {
		action, err := r.actionModelToEntity(ctx, &actionModels[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert action %s: %w", actionModels[i].ID, err)
		}
		if err := t.AddAction(action); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (r *GormTaskRepository) actionModelToEntity(ctx context.Context, model *PlannedActionModel) (*task.PlannedAction, error) {
	planned := task.PlannedReference{}
	if model.PlannedArticle != "" {
		product, err := findProductByArticle(r.db.WithContext(ctx), model.PlannedArticle)
		if err != nil {
			return nil, err
		}
		planned.Product = product
	}
	if model.PlannedBin != "" {
		planned.Bin = storage.MustNewBin(model.PlannedBin)
	}
	if model.PlannedPallet != "" {
		planned.Pallet = storage.MustNewPallet(model.PlannedPallet)
	}
	if model.PlannedPlacementBin != "" {
		planned.PlacementBin = storage.MustNewBin(model.PlannedPlacementBin)
	}
	if model.PlannedPlacementPallet != "" {
		planned.PlacementPallet = storage.MustNewPallet(model.PlannedPlacementPallet)
	}
	if model.PlannedQuantity != nil {
		planned.Quantity = shared.MustNewQuantity(*model.PlannedQuantity)
		planned.HasQuantity = true
	}

	action, err := task.NewPlannedAction(model.ID, model.TaskID, model.TemplateCode, planned, r.clock)
	if err != nil {
		return nil, err
	}
	action.Lifecycle().RecoverFromPersistence(
		task.Status(model.Status),
		model.CreatedAt, model.UpdatedAt,
		model.StartedAt, model.FinishedAt,
		model.CancelCause,
	)

	var factModel FactRecordModel
	result := r.db.WithContext(ctx).Where("action_id = ?", model.ID).First(&factModel)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return action, nil
		}
		return nil, fmt.Errorf("failed to load fact record: %w", result.Error)
	}

	fact, err := r.factModelToEntity(ctx, &factModel)
	if err != nil {
		return nil, err
	}
	action.Fact = fact
	return action, nil
}

func (r *GormTaskRepository) factModelToEntity(ctx context.Context, model *FactRecordModel) (*task.FactRecord, error) {
	fact := &task.FactRecord{
		ID:            model.ID,
		TaskID:        model.TaskID,
		ActionID:      model.ActionID,
		Quantity:      shared.MustNewQuantity(model.Quantity),
		ProductStatus: model.ProductStatus,
		PlanExceeded:  model.PlanExceeded,
		StartedAt:     model.StartedAt,
		CompletedAt:   model.CompletedAt,
	}
	if model.ExpiryDate != nil {
		expiry := *model.ExpiryDate
		fact.ExpiryDate = &expiry
	}
	if model.Article != "" {
		product, err := findProductByArticle(r.db.WithContext(ctx), model.Article)
		if err != nil {
			return nil, err
		}
		fact.Product = product
	}
	if model.TaskArticle != "" {
		product, err := findProductByArticle(r.db.WithContext(ctx), model.TaskArticle)
		if err != nil {
			return nil, err
		}
		fact.TaskProduct = product
	}
	if model.Bin != "" {
		fact.Bin = storage.MustNewBin(model.Bin)
	}
	if model.Pallet != "" {
		fact.Pallet = storage.MustNewPallet(model.Pallet)
	}
	if model.PlacementBin != "" {
		fact.PlacementBin = storage.MustNewBin(model.PlacementBin)
	}
	if model.PlacementPallet != "" {
		fact.PlacementPallet = storage.MustNewPallet(model.PlacementPallet)
	}
	return fact, nil
}

func taskToModel(t *task.Task) *TaskModel {
	lc := t.Lifecycle()
	return &TaskModel{
		ID:             t.ID,
		Type:           string(t.Type),
		WorkerID:       t.WorkerID.Value(),
		SyncRequired:   t.SyncRequired,
		Endpoint:       t.Endpoint,
		ForbidOverPlan: t.ForbidOverPlan,
		Status:         string(lc.Status()),
		CreatedAt:      lc.CreatedAt(),
		UpdatedAt:      lc.UpdatedAt(),
		StartedAt:      lc.StartedAt(),
		FinishedAt:     lc.FinishedAt(),
		CancelCause:    lc.CancelCause(),
	}
}

func actionToModel(a *task.PlannedAction) *PlannedActionModel {
	lc := a.Lifecycle()
	model := &PlannedActionModel{
		ID:           a.ID,
		TaskID:       a.TaskID,
		TemplateCode: a.TemplateCode,

		PlannedBin:             a.Planned.Bin.Code(),
		PlannedPallet:          a.Planned.Pallet.Code(),
		PlannedPlacementBin:    a.Planned.PlacementBin.Code(),
		PlannedPlacementPallet: a.Planned.PlacementPallet.Code(),

		Status:      string(lc.Status()),
		CreatedAt:   lc.CreatedAt(),
		UpdatedAt:   lc.UpdatedAt(),
		StartedAt:   lc.StartedAt(),
		FinishedAt:  lc.FinishedAt(),
		CancelCause: lc.CancelCause(),
	}
	if a.Planned.Product != nil {
		model.PlannedArticle = a.Planned.Product.Article
	}
	if a.Planned.HasQuantity {
		amount := a.Planned.Quantity.Amount()
		model.PlannedQuantity = &amount
	}
	return model
}

func factToModel(f *task.FactRecord) *FactRecordModel {
	model := &FactRecordModel{
		ID:              f.ID,
		TaskID:          f.TaskID,
		ActionID:        f.ActionID,
		Bin:             f.Bin.Code(),
		Pallet:          f.Pallet.Code(),
		PlacementBin:    f.PlacementBin.Code(),
		PlacementPallet: f.PlacementPallet.Code(),
		Quantity:        f.Quantity.Amount(),
		ProductStatus:   f.ProductStatus,
		PlanExceeded:    f.PlanExceeded,
		StartedAt:       f.StartedAt,
		CompletedAt:     f.CompletedAt,
	}
	if f.Product != nil {
		model.Article = f.Product.Article
	}
	if f.TaskProduct != nil {
		model.TaskArticle = f.TaskProduct.Article
	}
	if f.ExpiryDate != nil {
		expiry := *f.ExpiryDate
		model.ExpiryDate = &expiry
	}
	return model
}
