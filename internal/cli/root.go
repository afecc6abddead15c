package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "taskledger",
		Short: "taskledger - durable task ledger for agent sessions",
		Long: `taskledger reconciles ephemeral agent task events against a durable,
human-readable task ledger (TODO.md) shared across sessions.

Agent tools track tasks under transient per-session identifiers; taskledger
maps those onto stable T### ledger IDs, so concurrent sessions create and
complete entries without stepping on each other.`,
		RunE:          runStatus, // Default action is status
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		configureLogging(verbose)
	}
}

// configureLogging routes structured logs to stderr so hook stdout stays
// reserved for the result JSON.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// Execute runs the root command
func Execute(version string) error {
	// Add subcommands here to ensure proper initialization order
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
