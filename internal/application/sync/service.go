package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warelog/handheld-go/internal/application/common"
	"github.com/warelog/handheld-go/internal/domain/task"
)

// Service pulls tasks, templates and catalog products from the warehouse
// server into the device store. Sync is pull-only: facts travel the other
// way through the submission path.
type Service struct {
	source    ServerSource
	tasks     task.TaskRepository
	products  ProductStore
	templates TemplateStore

	mu          sync.Mutex
	lastCatalog time.Time
}

// NewService creates a sync service
func NewService(source ServerSource, tasks task.TaskRepository, products ProductStore, templates TemplateStore) *Service {
	return &Service{
		source:    source,
		tasks:     tasks,
		products:  products,
		templates: templates,
	}
}

// Result summarizes one sync run
type Result struct {
	Tasks     int
	Templates int
	Products  int
}

// SyncAll pulls everything for one worker. Catalog sync is incremental
// after the first run.
func (s *Service) SyncAll(ctx context.Context, workerID int) (*Result, error) {
	result := &Result{}

	count, err := s.SyncProducts(ctx)
	if err != nil {
		return nil, err
	}
	result.Products = count

	count, err = s.SyncTemplates(ctx)
	if err != nil {
		return nil, err
	}
	result.Templates = count

	count, err = s.SyncTasks(ctx, workerID)
	if err != nil {
		return nil, err
	}
	result.Tasks = count

	return result, nil
}

// SyncTasks pulls the worker's open tasks. Tasks with local progress are
// skipped: a server pull must never clobber facts collected offline.
func (s *Service) SyncTasks(ctx context.Context, workerID int) (int, error) {
	logger := common.LoggerFromContext(ctx)

	pulled, err := s.source.PullOpenTasks(ctx, workerID)
	if err != nil {
		return 0, fmt.Errorf("task sync failed: %w", err)
	}

	synced := 0
	for _, t := range pulled {
		local, err := s.tasks.FindByID(ctx, t.ID)
		if err == nil && local.Status() == task.StatusInProgress {
			logger.Log("INFO", "Skipping sync for task with local progress", map[string]interface{}{
				"task_id": t.ID,
			})
			continue
		}
		if err := s.tasks.ReplaceSnapshot(ctx, t); err != nil {
			return synced, fmt.Errorf("failed to store task %s: %w", t.ID, err)
		}
		synced++
	}
	return synced, nil
}

// SyncTemplates pulls all action templates
func (s *Service) SyncTemplates(ctx context.Context) (int, error) {
	templates, err := s.source.PullTemplates(ctx)
	if err != nil {
		return 0, fmt.Errorf("template sync failed: %w", err)
	}
	for _, template := range templates {
		if err := s.templates.Upsert(ctx, template); err != nil {
			return 0, fmt.Errorf("failed to store template %s: %w", template.Code, err)
		}
	}
	return len(templates), nil
}

// SyncProducts pulls catalog products changed since the last run
func (s *Service) SyncProducts(ctx context.Context) (int, error) {
	s.mu.Lock()
	since := s.lastCatalog
	s.mu.Unlock()

	started := time.Now()
	products, err := s.source.PullProducts(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("catalog sync failed: %w", err)
	}
	for _, product := range products {
		if err := s.products.Upsert(ctx, product); err != nil {
			return 0, fmt.Errorf("failed to store product %s: %w", product.Article, err)
		}
	}

	s.mu.Lock()
	s.lastCatalog = started
	s.mu.Unlock()
	return len(products), nil
}
