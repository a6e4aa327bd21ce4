package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/application/wizard/commands"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/wizard"
	"github.com/warelog/handheld-go/test/helpers"
)

func newManagerFixture(t *testing.T) *appwizard.Manager {
	t.Helper()

	clock := shared.NewMockClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	tasks := helpers.NewMockTaskRepository()
	templates := helpers.NewMockTemplateRepository()
	catalog := helpers.NewMockProductLookup()
	submitter := helpers.NewMockRemoteSubmitter()

	product := helpers.NewTestProduct(t, "ART-100", "Flour 1kg", "4001234567890")
	catalog.AddProduct(product)
	tasks.AddTask(helpers.NewReceiptTask(t, clock, product, "A-01-01", 10))
	templates.AddTemplate(helpers.NewReceiptTemplate())

	return appwizard.NewManager(appwizard.SessionDeps{
		Tasks:      tasks,
		Templates:  templates,
		Catalog:    catalog,
		Submission: appwizard.NewSubmissionService(submitter, tasks, clock),
		Commands:   helpers.NewMockCommandClient(),
		Clock:      clock,
		Debounce:   time.Second,
	})
}

func TestOpenWizardHandler_StartsSession(t *testing.T) {
	// Arrange
	manager := newManagerFixture(t)
	handler := commands.NewOpenWizardHandler(manager)

	// Act
	response, err := handler.Handle(context.Background(), &commands.OpenWizardCommand{
		TaskID:   "task-1",
		ActionID: "action-1",
	})

	// Assert
	require.NoError(t, err)
	state := response.(*commands.OpenWizardResponse).State
	assert.Equal(t, wizard.PhaseStepActive, state.Phase)
	assert.NotNil(t, manager.Get("action-1"))
}

func TestOpenWizardHandler_RejectsWrongRequestType(t *testing.T) {
	// Arrange
	handler := commands.NewOpenWizardHandler(newManagerFixture(t))

	// Act
	_, err := handler.Handle(context.Background(), &commands.ScanCodeCommand{})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request type")
}

func TestScanCodeHandler_FeedsOpenSession(t *testing.T) {
	// Arrange
	manager := newManagerFixture(t)
	ctx := context.Background()
	_, err := commands.NewOpenWizardHandler(manager).Handle(ctx, &commands.OpenWizardCommand{
		TaskID:   "task-1",
		ActionID: "action-1",
	})
	require.NoError(t, err)
	handler := commands.NewScanCodeHandler(manager)

	// Act
	response, err := handler.Handle(ctx, &commands.ScanCodeCommand{
		ActionID: "action-1",
		Code:     "4001234567890",
	})

	// Assert
	require.NoError(t, err)
	state := response.(*commands.ScanCodeResponse).State
	assert.Equal(t, 1, state.CurrentIndex, "resolved product auto-advances")
}

func TestScanCodeHandler_RequiresOpenSession(t *testing.T) {
	// Arrange
	handler := commands.NewScanCodeHandler(newManagerFixture(t))

	// Act
	_, err := handler.Handle(context.Background(), &commands.ScanCodeCommand{
		ActionID: "action-9",
		Code:     "4001234567890",
	})

	// Assert
	require.Error(t, err)
	assert.IsType(t, &appwizard.NoOpenSessionError{}, err)
}
