package setup

import (
	"reflect"

	"github.com/warelog/handheld-go/internal/application/common"
	appsync "github.com/warelog/handheld-go/internal/application/sync"
	syncCommands "github.com/warelog/handheld-go/internal/application/sync/commands"
	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	wizardCommands "github.com/warelog/handheld-go/internal/application/wizard/commands"
	wizardQueries "github.com/warelog/handheld-go/internal/application/wizard/queries"
	"github.com/warelog/handheld-go/internal/domain/task"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	sessions    *appwizard.Manager
	taskRepo    task.TaskRepository
	syncService *appsync.Service
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(sessions *appwizard.Manager, taskRepo task.TaskRepository, syncService *appsync.Service) *HandlerRegistry {
	return &HandlerRegistry{
		sessions:    sessions,
		taskRepo:    taskRepo,
		syncService: syncService,
	}
}

// RegisterWizardHandlers registers all wizard command handlers with the
// mediator: session opening, scanning, manual entry, navigation, the exit
// flow, extra property capture, step commands and submission.
func (r *HandlerRegistry) RegisterWizardHandlers(m common.Mediator) error {
	registrations := []struct {
		request common.Request
		handler common.RequestHandler
	}{
		{&wizardCommands.OpenWizardCommand{}, wizardCommands.NewOpenWizardHandler(r.sessions)},
		{&wizardCommands.ScanCodeCommand{}, wizardCommands.NewScanCodeHandler(r.sessions)},
		{&wizardCommands.EnterValueCommand{}, wizardCommands.NewEnterValueHandler(r.sessions)},
		{&wizardCommands.AdvanceStepCommand{}, wizardCommands.NewAdvanceStepHandler(r.sessions)},
		{&wizardCommands.RetreatStepCommand{}, wizardCommands.NewRetreatStepHandler(r.sessions)},
		{&wizardCommands.ExitWizardCommand{}, wizardCommands.NewExitWizardHandler(r.sessions)},
		{&wizardCommands.SetExtraCommand{}, wizardCommands.NewSetExtraHandler(r.sessions)},
		{&wizardCommands.RunStepCommandCommand{}, wizardCommands.NewRunStepCommandHandler(r.sessions)},
		{&wizardCommands.ClearErrorCommand{}, wizardCommands.NewClearErrorHandler(r.sessions)},
		{&wizardCommands.SubmitActionCommand{}, wizardCommands.NewSubmitActionHandler(r.sessions)},
	}

	for _, reg := range registrations {
		if err := m.Register(reflect.TypeOf(reg.request), reg.handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterTaskHandlers registers the task query handlers
func (r *HandlerRegistry) RegisterTaskHandlers(m common.Mediator) error {
	if err := m.Register(
		reflect.TypeOf(&wizardQueries.ListOpenTasksQuery{}),
		wizardQueries.NewListOpenTasksHandler(r.taskRepo),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&wizardQueries.GetTaskQuery{}),
		wizardQueries.NewGetTaskHandler(r.taskRepo),
	); err != nil {
		return err
	}

	return m.Register(
		reflect.TypeOf(&wizardQueries.GetWizardStateQuery{}),
		wizardQueries.NewGetWizardStateHandler(r.sessions),
	)
}

// RegisterSyncHandlers registers the device sync command handler
func (r *HandlerRegistry) RegisterSyncHandlers(m common.Mediator) error {
	return m.Register(
		reflect.TypeOf(&syncCommands.SyncDeviceCommand{}),
		syncCommands.NewSyncDeviceHandler(r.syncService),
	)
}

// RegisterAllHandlers wires every command and query handler
func (r *HandlerRegistry) RegisterAllHandlers(m common.Mediator) error {
	if err := r.RegisterWizardHandlers(m); err != nil {
		return err
	}
	if err := r.RegisterTaskHandlers(m); err != nil {
		return err
	}
	return r.RegisterSyncHandlers(m)
}
