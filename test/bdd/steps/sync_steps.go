package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	appsync "github.com/warelog/handheld-go/internal/application/sync"
	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
	"github.com/warelog/handheld-go/test/helpers"
)

// cannedServerSource serves fixed pull responses for sync scenarios
type cannedServerSource struct {
	tasks     []*task.Task
	templates []*wizard.ActionTemplate
	products  []*catalog.Product
}

func (s *cannedServerSource) PullOpenTasks(ctx context.Context, workerID int) ([]*task.Task, error) {
	return s.tasks, nil
}

func (s *cannedServerSource) PullTemplates(ctx context.Context) ([]*wizard.ActionTemplate, error) {
	return s.templates, nil
}

func (s *cannedServerSource) PullProducts(ctx context.Context, since time.Time) ([]*catalog.Product, error) {
	return s.products, nil
}

type syncStoreRecorder struct {
	products  int
	templates int
}

func (r *syncStoreRecorder) upsertProduct(ctx context.Context, p *catalog.Product) error {
	r.products++
	return nil
}

func (r *syncStoreRecorder) upsertTemplate(ctx context.Context, tmpl *wizard.ActionTemplate) error {
	r.templates++
	return nil
}

type productStoreFunc func(ctx context.Context, p *catalog.Product) error

func (f productStoreFunc) Upsert(ctx context.Context, p *catalog.Product) error { return f(ctx, p) }

type templateStoreFunc func(ctx context.Context, t *wizard.ActionTemplate) error

func (f templateStoreFunc) Upsert(ctx context.Context, t *wizard.ActionTemplate) error {
	return f(ctx, t)
}

type syncContext struct {
	clock    *shared.MockClock
	source   *cannedServerSource
	tasks    *helpers.MockTaskRepository
	recorder *syncStoreRecorder
	service  *appsync.Service

	result *appsync.Result
	err    error
}

func (c *syncContext) reset() {
	c.clock = shared.NewMockClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	c.source = &cannedServerSource{}
	c.tasks = helpers.NewMockTaskRepository()
	c.recorder = &syncStoreRecorder{}
	c.service = appsync.NewService(
		c.source,
		c.tasks,
		productStoreFunc(c.recorder.upsertProduct),
		templateStoreFunc(c.recorder.upsertTemplate),
	)
	c.result = nil
	c.err = nil
}

func (c *syncContext) newServerTask(taskID string) (*task.Task, error) {
	tk, err := task.NewTask(taskID, task.TypeReceipt, shared.MustNewWorkerID(7), c.clock)
	if err != nil {
		return nil, err
	}
	action, err := task.NewPlannedAction(taskID+"-a1", taskID, "receipt-basic", task.PlannedReference{}, c.clock)
	if err != nil {
		return nil, err
	}
	if err := tk.AddAction(action); err != nil {
		return nil, err
	}
	return tk, nil
}

// Given steps

func (c *syncContext) theServerHasOpenTasksForTheWorker(count int) error {
	for i := 1; i <= count; i++ {
		tk, err := c.newServerTask(fmt.Sprintf("task-%d", i))
		if err != nil {
			return err
		}
		c.source.tasks = append(c.source.tasks, tk)
	}
	return nil
}

func (c *syncContext) taskIsAlreadyInProgressOnTheDevice(taskID string) error {
	tk, err := c.newServerTask(taskID)
	if err != nil {
		return err
	}
	if err := tk.Start(); err != nil {
		return err
	}
	c.tasks.AddTask(tk)
	return nil
}

func (c *syncContext) theServerHasTemplatesAndProducts(templates, products int) error {
	for i := 0; i < templates; i++ {
		template := helpers.NewReceiptTemplate()
		template.Code = fmt.Sprintf("receipt-%d", i+1)
		c.source.templates = append(c.source.templates, template)
	}
	for i := 0; i < products; i++ {
		product, err := catalog.NewProduct(
			fmt.Sprintf("ART-%d", 100+i), "Flour 1kg",
			[]string{fmt.Sprintf("400123456789%d", i)})
		if err != nil {
			return err
		}
		c.source.products = append(c.source.products, product)
	}
	return nil
}

// When steps

func (c *syncContext) iRunAFullSyncForWorker(workerID int) error {
	c.result, c.err = c.service.SyncAll(context.Background(), workerID)
	return nil
}

// Then steps

func (c *syncContext) theSyncShouldStoreTasks(count int) error {
	if c.err != nil {
		return fmt.Errorf("sync failed: %v", c.err)
	}
	if c.result.Tasks != count {
		return fmt.Errorf("expected %d synced tasks but got %d", count, c.result.Tasks)
	}
	return nil
}

func (c *syncContext) theSyncShouldStoreTemplatesAndProducts(templates, products int) error {
	if c.err != nil {
		return fmt.Errorf("sync failed: %v", c.err)
	}
	if c.recorder.templates != templates {
		return fmt.Errorf("expected %d stored templates but got %d", templates, c.recorder.templates)
	}
	if c.recorder.products != products {
		return fmt.Errorf("expected %d stored products but got %d", products, c.recorder.products)
	}
	return nil
}

func (c *syncContext) taskShouldKeepItsLocalProgress(taskID string) error {
	tk, err := c.tasks.FindByID(context.Background(), taskID)
	if err != nil {
		return err
	}
	if tk.Status() != task.StatusInProgress {
		return fmt.Errorf("expected %s to stay in progress but it is %s", taskID, tk.Status())
	}
	return nil
}

// Register steps

func InitializeSyncScenario(ctx *godog.ScenarioContext) {
	syncCtx := &syncContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		syncCtx.reset()
		return ctx, nil
	})

	ctx.Step(`^the server has (\d+) open tasks for the worker$`, syncCtx.theServerHasOpenTasksForTheWorker)
	ctx.Step(`^task "([^"]*)" is already in progress on the device$`, syncCtx.taskIsAlreadyInProgressOnTheDevice)
	ctx.Step(`^the server has (\d+) templates and (\d+) products$`, syncCtx.theServerHasTemplatesAndProducts)
	ctx.Step(`^I run a full sync for worker (\d+)$`, syncCtx.iRunAFullSyncForWorker)
	ctx.Step(`^the sync should store (\d+) tasks$`, syncCtx.theSyncShouldStoreTasks)
	ctx.Step(`^the sync should store (\d+) templates and (\d+) products$`, syncCtx.theSyncShouldStoreTemplatesAndProducts)
	ctx.Step(`^task "([^"]*)" should keep its local progress$`, syncCtx.taskShouldKeepItsLocalProgress)
}
