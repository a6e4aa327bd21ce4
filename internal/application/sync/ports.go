package sync

import (
	"context"
	"time"

	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// ServerSource pulls server-side state onto the device
type ServerSource interface {
	PullOpenTasks(ctx context.Context, workerID int) ([]*task.Task, error)
	PullTemplates(ctx context.Context) ([]*wizard.ActionTemplate, error)
	PullProducts(ctx context.Context, since time.Time) ([]*catalog.Product, error)
}

// ProductStore writes synced products to the local catalog cache
type ProductStore interface {
	Upsert(ctx context.Context, product *catalog.Product) error
}

// TemplateStore writes synced action templates to the local cache
type TemplateStore interface {
	Upsert(ctx context.Context, template *wizard.ActionTemplate) error
}
