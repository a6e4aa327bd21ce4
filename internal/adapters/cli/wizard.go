package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/warelog/handheld-go/internal/adapters/httpapi"
)

// NewWizardCommand creates the wizard command group
func NewWizardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Drive a guided step wizard for one planned action",
	}

	cmd.AddCommand(newWizardOpenCommand())
	cmd.AddCommand(newWizardStateCommand())
	cmd.AddCommand(newWizardScanCommand())
	cmd.AddCommand(newWizardEnterCommand())
	cmd.AddCommand(newWizardNextCommand())
	cmd.AddCommand(newWizardBackCommand())
	cmd.AddCommand(newWizardExitCommand())
	cmd.AddCommand(newWizardExtraCommand())
	cmd.AddCommand(newWizardRunCommand())
	cmd.AddCommand(newWizardSubmitCommand())
	return cmd
}

func wizardContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func newWizardOpenCommand() *cobra.Command {
	var taskID, actionID string
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open (or reattach to) a wizard session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := wizardContext()
			defer cancel()

			state, err := NewDaemonClient(socketPath).OpenWizard(ctx, taskID, actionID)
			if err != nil {
				return err
			}
			printState(state)
			return nil
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "Task ID (required)")
	cmd.Flags().StringVar(&actionID, "action", "", "Action ID (required)")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newWizardStateCommand() *cobra.Command {
	var actionID string
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the current wizard state and collected values",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := wizardContext()
			defer cancel()

			state, record, err := NewDaemonClient(socketPath).GetState(ctx, actionID)
			if err != nil {
				return err
			}
			printState(state)
			if record != nil && verbose {
				fmt.Println("Record so far:")
				if record.Article != "" {
					fmt.Printf("  product:  %s\n", record.Article)
				}
				if record.Bin != "" {
					fmt.Printf("  bin:      %s\n", record.Bin)
				}
				if record.Quantity > 0 {
					fmt.Printf("  quantity: %g\n", record.Quantity)
				}
				if record.PlanExceeded {
					fmt.Println("  quantity exceeds plan")
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&actionID, "action", "", "Action ID (required)")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newWizardScanCommand() *cobra.Command {
	var actionID string
	cmd := &cobra.Command{
		Use:   "scan <code>",
		Short: "Feed a barcode scan into the wizard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := wizardContext()
			defer cancel()

			state, err := NewDaemonClient(socketPath).Scan(ctx, actionID, args[0])
			if err != nil {
				return err
			}
			printState(state)
			return nil
		},
	}
	cmd.Flags().StringVar(&actionID, "action", "", "Action ID (required)")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newWizardEnterCommand() *cobra.Command {
	var actionID string
	cmd := &cobra.Command{
		Use:   "enter <value>",
		Short: "Type a value into the current step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := wizardContext()
			defer cancel()

			state, err := NewDaemonClient(socketPath).Enter(ctx, actionID, args[0])
			if err != nil {
				return err
			}
			printState(state)
			return nil
		},
	}
	cmd.Flags().StringVar(&actionID, "action", "", "Action ID (required)")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newWizardNextCommand() *cobra.Command {
	var actionID string
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Confirm the current step and move forward",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := wizardContext()
			defer cancel()

			state, err := NewDaemonClient(socketPath).Advance(ctx, actionID)
			if err != nil {
				return err
			}
			printState(state)
			return nil
		},
	}
	cmd.Flags().StringVar(&actionID, "action", "", "Action ID (required)")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newWizardBackCommand() *cobra.Command {
	var actionID string
	cmd := &cobra.Command{
		Use:   "back",
		Short: "Move back one step (asks to exit from the first step)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := wizardContext()
			defer cancel()

			state, err := NewDaemonClient(socketPath).Retreat(ctx, actionID)
			if err != nil {
				return err
			}
			printState(state)
			return nil
		},
	}
	cmd.Flags().StringVar(&actionID, "action", "", "Action ID (required)")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newWizardExitCommand() *cobra.Command {
	var actionID string
	var confirm, dismiss bool
	cmd := &cobra.Command{
		Use:   "exit",
		Short: "Raise, confirm or dismiss the exit confirmation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := wizardContext()
			defer cancel()

			decision := "SHOW"
			if confirm {
				decision = "CONFIRM"
			} else if dismiss {
				decision = "DISMISS"
			}

			state, err := NewDaemonClient(socketPath).Exit(ctx, actionID, decision)
			if err != nil {
				return err
			}
			printState(state)
			return nil
		},
	}
	cmd.Flags().StringVar(&actionID, "action", "", "Action ID (required)")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the exit, abandoning the wizard")
	cmd.Flags().BoolVar(&dismiss, "dismiss", false, "Dismiss the exit confirmation")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newWizardExtraCommand() *cobra.Command {
	var actionID, expiry, status string
	cmd := &cobra.Command{
		Use:   "extra",
		Short: "Capture expiry date and product status for the current step",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := wizardContext()
			defer cancel()

			var expiryTime *time.Time
			if expiry != "" {
				parsed, err := time.Parse("2006-01-02", expiry)
				if err != nil {
					return fmt.Errorf("invalid expiry date %q, use YYYY-MM-DD", expiry)
				}
				expiryTime = &parsed
			}

			state, err := NewDaemonClient(socketPath).SetExtra(ctx, actionID, expiryTime, status)
			if err != nil {
				return err
			}
			printState(state)
			return nil
		},
	}
	cmd.Flags().StringVar(&actionID, "action", "", "Action ID (required)")
	cmd.Flags().StringVar(&expiry, "expiry", "", "Expiry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "Product status")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newWizardRunCommand() *cobra.Command {
	var actionID string
	var parameters []string
	cmd := &cobra.Command{
		Use:   "run <command-id>",
		Short: "Run a step-attached server command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := wizardContext()
			defer cancel()

			params := make(map[string]string, len(parameters))
			for _, pair := range parameters {
				for i := 0; i < len(pair); i++ {
					if pair[i] == '=' {
						params[pair[:i]] = pair[i+1:]
						break
					}
				}
			}

			state, directive, message, err := NewDaemonClient(socketPath).RunCommand(ctx, actionID, args[0], params)
			if err != nil {
				return err
			}
			if message != "" {
				fmt.Printf("Server: %s\n", message)
			}
			if verbose {
				fmt.Printf("Directive: %s\n", directive)
			}
			printState(state)
			return nil
		},
	}
	cmd.Flags().StringVar(&actionID, "action", "", "Action ID (required)")
	cmd.Flags().StringArrayVar(&parameters, "param", nil, "Command parameter key=value (repeatable)")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newWizardSubmitCommand() *cobra.Command {
	var actionID string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Book the collected facts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := wizardContext()
			defer cancel()

			state, err := NewDaemonClient(socketPath).Submit(ctx, actionID)
			if err != nil {
				return err
			}
			printState(state)
			return nil
		},
	}
	cmd.Flags().StringVar(&actionID, "action", "", "Action ID (required)")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

// printState renders a wizard snapshot for the terminal
func printState(state *httpapi.WizardStateView) {
	switch {
	case state.Phase == "COMPLETED":
		fmt.Println("✓ Action completed")
		return
	case state.Phase == "CANCELLED":
		fmt.Println("Wizard cancelled; the action stays open")
		return
	case state.FatalError != "":
		fmt.Printf("✗ %s\n", state.FatalError)
		if state.Phase == "SUBMIT_FAILED" {
			fmt.Println("  (submit again to retry, or exit --confirm to abandon)")
		}
		return
	case state.ShowsExit:
		fmt.Println("Exit wizard? Collected values will be discarded.")
		fmt.Println("  handheld wizard exit --confirm | --dismiss")
		return
	case state.ShowsSummary:
		fmt.Println("All steps done. Summary:")
		for _, step := range state.Steps {
			if value, ok := state.Results[step.ID]; ok {
				fmt.Printf("  %-20s %s\n", step.ID+":", value.Display)
			}
		}
		fmt.Println("Submit with: handheld wizard submit")
		return
	}

	if state.CurrentStep != nil {
		step := state.CurrentStep
		marker := ""
		if step.Required {
			marker = " (required)"
		}
		fmt.Printf("Step %d/%d: %s [%s]%s\n",
			state.CurrentIndex+1, len(state.Steps), step.ID, step.Field, marker)
		if value, ok := state.Results[step.ID]; ok {
			fmt.Printf("  value: %s\n", value.Display)
		}
		if message, ok := state.StepErrors[step.ID]; ok {
			fmt.Printf("  ! %s\n", message)
		}
	}
}
