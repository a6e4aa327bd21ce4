package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/internal/domain/storage"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
	"github.com/warelog/handheld-go/test/helpers"
)

type wizardFlowContext struct {
	clock     *shared.MockClock
	tasks     *helpers.MockTaskRepository
	templates *helpers.MockTemplateRepository
	catalog   *helpers.MockProductLookup
	submitter *helpers.MockRemoteSubmitter
	commands  *helpers.MockCommandClient

	deps    appwizard.SessionDeps
	session *appwizard.Session
	state   wizard.State
}

func (c *wizardFlowContext) reset() {
	c.clock = shared.NewMockClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	c.tasks = helpers.NewMockTaskRepository()
	c.templates = helpers.NewMockTemplateRepository()
	c.catalog = helpers.NewMockProductLookup()
	c.submitter = helpers.NewMockRemoteSubmitter()
	c.commands = helpers.NewMockCommandClient()

	c.deps = appwizard.SessionDeps{
		Tasks:      c.tasks,
		Templates:  c.templates,
		Catalog:    c.catalog,
		Submission: appwizard.NewSubmissionService(c.submitter, c.tasks, c.clock),
		Commands:   c.commands,
		Clock:      c.clock,
		Debounce:   time.Second,
	}
	c.session = nil
	c.state = wizard.NewState()
}

// Given steps

func (c *wizardFlowContext) aReceiptTaskExpectingUnitsOfIntoBin(quantity int, barcode, binCode string) error {
	product, err := catalog.NewProduct("ART-100", "Flour 1kg", []string{barcode})
	if err != nil {
		return err
	}
	c.catalog.AddProduct(product)

	tk, err := task.NewTask("task-1", task.TypeReceipt, shared.MustNewWorkerID(7), c.clock)
	if err != nil {
		return err
	}
	tk.SyncRequired = true
	tk.Endpoint = "receipts"

	bin, err := storage.NewBin(binCode)
	if err != nil {
		return err
	}
	qty, err := shared.NewQuantity(float64(quantity))
	if err != nil {
		return err
	}

	action, err := task.NewPlannedAction("action-1", tk.ID, "receipt-basic", task.PlannedReference{
		Product:     product,
		Bin:         bin,
		Quantity:    qty,
		HasQuantity: true,
	}, c.clock)
	if err != nil {
		return err
	}
	if err := tk.AddAction(action); err != nil {
		return err
	}

	c.tasks.AddTask(tk)
	c.templates.AddTemplate(helpers.NewReceiptTemplate())

	// The server echoes a fresh snapshot back on successful submission
	c.submitter.Snapshot = tk
	return nil
}

func (c *wizardFlowContext) theCatalogAlsoKnowsProduct(barcode string) error {
	product, err := catalog.NewProduct("ART-200", "Sugar 1kg", []string{barcode})
	if err != nil {
		return err
	}
	c.catalog.AddProduct(product)
	return nil
}

func (c *wizardFlowContext) theServerWillRejectTheSubmissionWith(reason string) error {
	c.submitter.FailWith = reason
	return nil
}

func (c *wizardFlowContext) theServerRecovers() error {
	c.submitter.FailWith = ""
	return nil
}

// When steps

func (c *wizardFlowContext) iOpenTheWizard() error {
	c.session = appwizard.OpenSession(context.Background(), c.deps, "task-1", "action-1")
	c.state = c.session.State()
	return nil
}

func (c *wizardFlowContext) iScan(code string) error {
	if c.session == nil {
		return fmt.Errorf("no wizard session open")
	}
	c.state = c.session.Scan(context.Background(), code)
	return nil
}

func (c *wizardFlowContext) iScanAgainImmediately(code string) error {
	return c.iScan(code)
}

func (c *wizardFlowContext) iEnter(input string) error {
	if c.session == nil {
		return fmt.Errorf("no wizard session open")
	}
	c.state = c.session.EnterValue(context.Background(), input)
	return nil
}

func (c *wizardFlowContext) iConfirmTheStep() error {
	c.state = c.session.Advance(context.Background())
	return nil
}

func (c *wizardFlowContext) iSubmit() error {
	c.state = c.session.Submit(context.Background())
	return nil
}

func (c *wizardFlowContext) iGoBack() error {
	c.state = c.session.Retreat(context.Background())
	return nil
}

func (c *wizardFlowContext) iConfirmLeaving() error {
	c.state = c.session.ConfirmExit(context.Background())
	return nil
}

func (c *wizardFlowContext) iStayInTheWizard() error {
	c.state = c.session.DismissExit(context.Background())
	return nil
}

// Then steps

func (c *wizardFlowContext) theWizardShouldShowTheSummary() error {
	if c.state.Phase != wizard.PhaseSummarizing {
		return fmt.Errorf("expected summary but wizard is in %s", c.state.Phase)
	}
	return nil
}

func (c *wizardFlowContext) theWizardShouldBeCompleted() error {
	if c.state.Phase != wizard.PhaseCompleted {
		return fmt.Errorf("expected completed but wizard is in %s", c.state.Phase)
	}
	return nil
}

func (c *wizardFlowContext) theWizardShouldBeCancelled() error {
	if c.state.Phase != wizard.PhaseCancelled {
		return fmt.Errorf("expected cancelled but wizard is in %s", c.state.Phase)
	}
	return nil
}

func (c *wizardFlowContext) theWizardShouldAskToConfirmLeaving() error {
	if c.state.Phase != wizard.PhaseExitConfirming {
		return fmt.Errorf("expected exit confirmation but wizard is in %s", c.state.Phase)
	}
	return nil
}

func (c *wizardFlowContext) theWizardShouldReportTheFailure(reason string) error {
	if c.state.Phase != wizard.PhaseSubmitFailed {
		return fmt.Errorf("expected failed submission but wizard is in %s", c.state.Phase)
	}
	if c.state.FatalError != reason {
		return fmt.Errorf("expected failure %q but got %q", reason, c.state.FatalError)
	}
	return nil
}

func (c *wizardFlowContext) theRecordedQuantityShouldBe(amount int) error {
	fact := c.submitter.SubmittedFact
	if fact == nil {
		return fmt.Errorf("nothing was submitted")
	}
	expected, err := shared.NewQuantity(float64(amount))
	if err != nil {
		return err
	}
	if !fact.Quantity.Equals(expected) {
		return fmt.Errorf("expected quantity %d but got %s", amount, fact.Quantity)
	}
	return nil
}

func (c *wizardFlowContext) theCurrentStepShouldShowAnError() error {
	if c.state.CurrentStepError() == "" {
		return fmt.Errorf("expected a step error but there is none")
	}
	return nil
}

func (c *wizardFlowContext) theCurrentStepShouldShowAnErrorContaining(fragment string) error {
	message := c.state.CurrentStepError()
	if !strings.Contains(message, fragment) {
		return fmt.Errorf("expected step error containing %q but got %q", fragment, message)
	}
	return nil
}

func (c *wizardFlowContext) theWizardShouldStayOnStep(stepID string) error {
	step, ok := c.state.CurrentStep()
	if !ok {
		return fmt.Errorf("no active step, wizard is in %s", c.state.Phase)
	}
	if step.ID != stepID {
		return fmt.Errorf("expected step %q but wizard is on %q", stepID, step.ID)
	}
	return nil
}

func (c *wizardFlowContext) theCatalogShouldHaveBeenQueriedOnce() error {
	if c.catalog.LookupCount != 1 {
		return fmt.Errorf("expected exactly one catalog lookup but counted %d", c.catalog.LookupCount)
	}
	return nil
}

func (c *wizardFlowContext) theTaskShouldRemainOpen() error {
	tk, err := c.tasks.FindByID(context.Background(), "task-1")
	if err != nil {
		return err
	}
	if len(tk.OpenActions()) == 0 {
		return fmt.Errorf("expected the planned action to stay open")
	}
	return nil
}

// Register steps

func InitializeWizardFlowScenario(ctx *godog.ScenarioContext) {
	flowCtx := &wizardFlowContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		flowCtx.reset()
		return ctx, nil
	})

	ctx.Step(`^a receipt task expecting (\d+) units of product "([^"]*)" into bin "([^"]*)"$`, flowCtx.aReceiptTaskExpectingUnitsOfIntoBin)
	ctx.Step(`^the catalog also knows product "([^"]*)"$`, flowCtx.theCatalogAlsoKnowsProduct)
	ctx.Step(`^the server will reject the submission with "([^"]*)"$`, flowCtx.theServerWillRejectTheSubmissionWith)
	ctx.Step(`^the server recovers$`, flowCtx.theServerRecovers)
	ctx.Step(`^I open the wizard$`, flowCtx.iOpenTheWizard)
	ctx.Step(`^I scan "([^"]*)"$`, flowCtx.iScan)
	ctx.Step(`^I scan "([^"]*)" again immediately$`, flowCtx.iScanAgainImmediately)
	ctx.Step(`^I enter "([^"]*)"$`, flowCtx.iEnter)
	ctx.Step(`^I confirm the step$`, flowCtx.iConfirmTheStep)
	ctx.Step(`^I submit$`, flowCtx.iSubmit)
	ctx.Step(`^I go back$`, flowCtx.iGoBack)
	ctx.Step(`^I confirm leaving$`, flowCtx.iConfirmLeaving)
	ctx.Step(`^I stay in the wizard$`, flowCtx.iStayInTheWizard)
	ctx.Step(`^the wizard should show the summary$`, flowCtx.theWizardShouldShowTheSummary)
	ctx.Step(`^the wizard should be completed$`, flowCtx.theWizardShouldBeCompleted)
	ctx.Step(`^the wizard should be cancelled$`, flowCtx.theWizardShouldBeCancelled)
	ctx.Step(`^the wizard should ask to confirm leaving$`, flowCtx.theWizardShouldAskToConfirmLeaving)
	ctx.Step(`^the wizard should report the failure "([^"]*)"$`, flowCtx.theWizardShouldReportTheFailure)
	ctx.Step(`^the recorded quantity should be (\d+)$`, flowCtx.theRecordedQuantityShouldBe)
	ctx.Step(`^the current step should show an error$`, flowCtx.theCurrentStepShouldShowAnError)
	ctx.Step(`^the current step should show an error containing "([^"]*)"$`, flowCtx.theCurrentStepShouldShowAnErrorContaining)
	ctx.Step(`^the wizard should stay on step "([^"]*)"$`, flowCtx.theWizardShouldStayOnStep)
	ctx.Step(`^the catalog should have been queried once$`, flowCtx.theCatalogShouldHaveBeenQueriedOnce)
	ctx.Step(`^the task should remain open$`, flowCtx.theTaskShouldRemainOpen)
}
