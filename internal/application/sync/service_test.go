package sync_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/warelog/handheld-go/internal/application/sync"
	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
	"github.com/warelog/handheld-go/test/helpers"
)

// mockServerSource is a canned-response server for sync tests
type mockServerSource struct {
	tasks     []*task.Task
	templates []*wizard.ActionTemplate
	products  []*catalog.Product

	failWith string

	productPulls []time.Time
}

func (m *mockServerSource) PullOpenTasks(ctx context.Context, workerID int) ([]*task.Task, error) {
	if m.failWith != "" {
		return nil, fmt.Errorf("%s", m.failWith)
	}
	return m.tasks, nil
}

func (m *mockServerSource) PullTemplates(ctx context.Context) ([]*wizard.ActionTemplate, error) {
	if m.failWith != "" {
		return nil, fmt.Errorf("%s", m.failWith)
	}
	return m.templates, nil
}

func (m *mockServerSource) PullProducts(ctx context.Context, since time.Time) ([]*catalog.Product, error) {
	m.productPulls = append(m.productPulls, since)
	if m.failWith != "" {
		return nil, fmt.Errorf("%s", m.failWith)
	}
	return m.products, nil
}

type mockProductStore struct{ upserts []*catalog.Product }

func (m *mockProductStore) Upsert(ctx context.Context, p *catalog.Product) error {
	m.upserts = append(m.upserts, p)
	return nil
}

type mockTemplateStore struct{ upserts []*wizard.ActionTemplate }

func (m *mockTemplateStore) Upsert(ctx context.Context, tmpl *wizard.ActionTemplate) error {
	m.upserts = append(m.upserts, tmpl)
	return nil
}

func TestSyncTasks_StoresPulledTasks(t *testing.T) {
	// Arrange
	clock := shared.NewRealClock()
	product := helpers.NewTestProduct(t, "ART-100", "Flour 1kg", "4001234567890")
	source := &mockServerSource{
		tasks: []*task.Task{helpers.NewReceiptTask(t, clock, product, "A-01-01", 10)},
	}
	tasks := helpers.NewMockTaskRepository()
	service := appsync.NewService(source, tasks, &mockProductStore{}, &mockTemplateStore{})

	// Act
	count, err := service.SyncTasks(context.Background(), 7)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, tasks.ReplaceSnapshotCount)
}

func TestSyncTasks_SkipsTasksWithLocalProgress(t *testing.T) {
	// Arrange: the local copy is already being worked on
	clock := shared.NewRealClock()
	product := helpers.NewTestProduct(t, "ART-100", "Flour 1kg", "4001234567890")
	local := helpers.NewReceiptTask(t, clock, product, "A-01-01", 10)
	require.NoError(t, local.Start())

	tasks := helpers.NewMockTaskRepository()
	tasks.AddTask(local)

	source := &mockServerSource{
		tasks: []*task.Task{helpers.NewReceiptTask(t, clock, product, "A-01-01", 10)},
	}
	service := appsync.NewService(source, tasks, &mockProductStore{}, &mockTemplateStore{})

	// Act
	count, err := service.SyncTasks(context.Background(), 7)

	// Assert: the server copy must not clobber offline facts
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, tasks.ReplaceSnapshotCount)

	stored, err := tasks.FindByID(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, stored.Status())
}

func TestSyncProducts_SecondRunIsIncremental(t *testing.T) {
	// Arrange
	source := &mockServerSource{
		products: []*catalog.Product{helpers.NewTestProduct(t, "ART-100", "Flour 1kg", "4001234567890")},
	}
	store := &mockProductStore{}
	service := appsync.NewService(source, helpers.NewMockTaskRepository(), store, &mockTemplateStore{})

	// Act
	_, err := service.SyncProducts(context.Background())
	require.NoError(t, err)
	_, err = service.SyncProducts(context.Background())
	require.NoError(t, err)

	// Assert: first pull asks for everything, second only for changes
	require.Len(t, source.productPulls, 2)
	assert.True(t, source.productPulls[0].IsZero())
	assert.False(t, source.productPulls[1].IsZero())
	assert.Len(t, store.upserts, 2)
}

func TestSyncAll_PullsEverythingForWorker(t *testing.T) {
	// Arrange
	clock := shared.NewRealClock()
	product := helpers.NewTestProduct(t, "ART-100", "Flour 1kg", "4001234567890")
	source := &mockServerSource{
		tasks:     []*task.Task{helpers.NewReceiptTask(t, clock, product, "A-01-01", 10)},
		templates: []*wizard.ActionTemplate{helpers.NewReceiptTemplate()},
		products:  []*catalog.Product{product},
	}
	tasks := helpers.NewMockTaskRepository()
	products := &mockProductStore{}
	templates := &mockTemplateStore{}
	service := appsync.NewService(source, tasks, products, templates)

	// Act
	result, err := service.SyncAll(context.Background(), 7)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.Tasks)
	assert.Equal(t, 1, result.Templates)
	assert.Equal(t, 1, result.Products)
}

func TestSyncAll_SourceFailureAborts(t *testing.T) {
	// Arrange
	source := &mockServerSource{failWith: "device token rejected"}
	service := appsync.NewService(source, helpers.NewMockTaskRepository(), &mockProductStore{}, &mockTemplateStore{})

	// Act
	result, err := service.SyncAll(context.Background(), 7)

	// Assert
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "device token rejected")
}
