package cli

import (
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/anthropics/aef/taskledger/internal/config"
	"github.com/anthropics/aef/taskledger/internal/identity"
	"github.com/anthropics/aef/taskledger/internal/ledger"
)

var durableArgPattern = regexp.MustCompile(`^T\d{3,}$`)

var completeCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a ledger entry as done",
	Long: `Marks the given task as completed in the ledger.

Accepts a durable ledger ID (T012) directly, or a transient tool ID that
will be resolved through the identity map. Transient numeric IDs can be
scoped with --session to disambiguate between concurrent sessions.`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().String("session", "", "Session scope for resolving transient numeric IDs")
}

func runComplete(cmd *cobra.Command, args []string) error {
	projectPath, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	cfg, err := config.Load(projectPath)
	if err != nil {
		return err
	}

	durableID, err := resolveArg(projectPath, args[0], cmd)
	if err != nil {
		return err
	}

	l := ledger.New(cfg.LedgerPath(projectPath), cfg.Ledger.Owner)
	done, err := l.Complete(durableID)
	if err != nil {
		return err
	}
	if !done {
		return fmt.Errorf("%s has no open ledger entry", durableID)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Completed %s\n", durableID)
	return nil
}

func resolveArg(projectPath, arg string, cmd *cobra.Command) (string, error) {
	if durableArgPattern.MatchString(arg) {
		return arg, nil
	}

	session, _ := cmd.Flags().GetString("session")
	ids := identity.NewStore(config.IdentityMapPath(projectPath))

	candidates := []string{}
	if session != "" {
		candidates = append(candidates, session+"_task_"+arg)
	}
	candidates = append(candidates, "task_"+arg, arg)

	durableID, found, err := ids.Resolve(candidates...)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("cannot map task ID: %s - no mapping found", arg)
	}
	return durableID, nil
}
