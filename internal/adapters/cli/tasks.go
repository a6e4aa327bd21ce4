package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewTasksCommand creates the tasks command group
func NewTasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and inspect assigned tasks",
	}

	cmd.AddCommand(newTasksListCommand())
	cmd.AddCommand(newTasksShowCommand())
	return cmd
}

func newTasksListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open tasks for a worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			if workerID <= 0 {
				return fmt.Errorf("--worker is required")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			client := NewDaemonClient(socketPath)
			tasks, err := client.ListTasks(ctx, workerID)
			if err != nil {
				return err
			}

			if len(tasks) == 0 {
				fmt.Println("No open tasks.")
				return nil
			}

			fmt.Printf("%-12s %-10s %-12s %s\n", "ID", "TYPE", "STATUS", "ACTIONS")
			for _, t := range tasks {
				open := 0
				for _, a := range t.Actions {
					if !a.HasFact {
						open++
					}
				}
				fmt.Printf("%-12s %-10s %-12s %d open / %d total\n",
					t.ID, t.Type, t.Status, open, len(t.Actions))
			}
			return nil
		},
	}
}

func newTasksShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task with its planned actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			client := NewDaemonClient(socketPath)
			t, err := client.GetTask(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Task %s  [%s]  %s\n", t.ID, t.Type, t.Status)
			if t.SyncRequired {
				fmt.Printf("  Submits to: %s\n", t.Endpoint)
			}
			fmt.Println("  Actions:")
			for _, a := range t.Actions {
				fmt.Printf("    %-10s %-16s %-12s", a.ID, a.TemplateCode, a.Status)
				if a.Article != "" {
					fmt.Printf("  %s (%s)", a.ProductName, a.Article)
				}
				if a.Bin != "" {
					fmt.Printf("  bin=%s", a.Bin)
				}
				if a.Quantity > 0 {
					fmt.Printf("  qty=%g", a.Quantity)
				}
				fmt.Println()
			}
			return nil
		},
	}
}
