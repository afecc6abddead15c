package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anthropics/aef/taskledger/internal/config"
	"github.com/anthropics/aef/taskledger/internal/ledger"
	"github.com/anthropics/aef/taskledger/internal/sidecar"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the project's task ledger",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	projectPath, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	cfg, err := config.Load(projectPath)
	if err != nil {
		return err
	}

	l := ledger.New(cfg.LedgerPath(projectPath), cfg.Ledger.Owner)
	entries, err := l.Entries()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No ledger entries. Run 'taskledger init' to scaffold the ledger.")
		return nil
	}

	meta := sidecar.NewStore(config.SidecarPath(projectPath))

	open, done := 0, 0
	for _, e := range entries {
		if e.Done {
			done++
		} else {
			open++
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Ledger: %s\n", cfg.LedgerPath(projectPath))
	fmt.Fprintf(out, "Tasks:  %d open, %d done\n", open, done)

	if open == 0 {
		return nil
	}

	fmt.Fprintln(out, "\nOpen tasks:")
	for _, e := range entries {
		if e.Done {
			continue
		}
		line := fmt.Sprintf("  %s  %s", e.ID, e.Description)
		if entry, ok, _ := meta.Get(e.ID); ok && entry.Priority != "" {
			line += fmt.Sprintf("  [%s]", entry.Priority)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
