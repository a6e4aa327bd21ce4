package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	socketPath string
	workerID   int
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "handheld",
		Short: "Handheld CLI - drive warehouse task wizards from the terminal",
		Long: `Handheld CLI drives the guided step wizards of the handheld daemon.
The CLI communicates with the daemon via Unix socket.

Examples:
  handheld sync --worker 12
  handheld tasks list --worker 12
  handheld tasks show T-1001
  handheld wizard open --task T-1001 --action A-1
  handheld wizard scan --action A-1 4601234567890
  handheld wizard enter --action A-1 12.5
  handheld wizard next --action A-1
  handheld wizard submit --action A-1`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", getDefaultSocketPath(),
		"Path to daemon Unix socket")
	rootCmd.PersistentFlags().IntVar(&workerID, "worker", 0,
		"Worker ID")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewTasksCommand())
	rootCmd.AddCommand(NewWizardCommand())
	rootCmd.AddCommand(NewSyncCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// getDefaultSocketPath returns the default socket path
func getDefaultSocketPath() string {
	if path := os.Getenv("HH_SOCKET"); path != "" {
		return path
	}
	return "/tmp/handheld-daemon.sock"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
