package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewSyncCommand creates the sync command
func NewSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull tasks, templates and catalog from the warehouse server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if workerID <= 0 {
				return fmt.Errorf("--worker is required")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			tasks, templates, products, err := NewDaemonClient(socketPath).Sync(ctx, workerID)
			if err != nil {
				return err
			}

			fmt.Println("✓ Sync complete")
			fmt.Printf("  Tasks:     %d\n", tasks)
			fmt.Printf("  Templates: %d\n", templates)
			fmt.Printf("  Products:  %d\n", products)
			return nil
		},
	}
}
