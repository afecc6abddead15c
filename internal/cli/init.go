package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/anthropics/aef/taskledger/internal/config"
	"github.com/anthropics/aef/taskledger/internal/ledger"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize taskledger in the current directory or globally",
	Long: `Initialize a taskledger workspace.

Without flags: creates .taskledger/ in the current directory and scaffolds
the ledger document with its Tasks and History sections.
With --global: creates ~/.taskledger/ with a default configuration.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("global", false, "Initialize global taskledger configuration at ~/.taskledger/")
	initCmd.Flags().Bool("force", false, "Overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	global, _ := cmd.Flags().GetBool("global")
	force, _ := cmd.Flags().GetBool("force")

	if global {
		return initGlobal(cmd, force)
	}
	return initProject(cmd, force)
}

func initGlobal(cmd *cobra.Command, force bool) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(home, config.DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	if err := config.WriteDefault(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized global taskledger configuration at %s\n", dir)
	return nil
}

func initProject(cmd *cobra.Command, force bool) error {
	projectPath, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	if err := os.MkdirAll(config.StoreDir(projectPath), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", config.DirName, err)
	}

	cfg, err := config.Load(projectPath)
	if err != nil {
		return err
	}

	ledgerPath := cfg.LedgerPath(projectPath)
	if _, err := os.Stat(ledgerPath); err == nil && !force {
		fmt.Fprintf(cmd.OutOrStdout(), "Ledger %s already exists, leaving it alone\n", ledgerPath)
		return nil
	}

	scaffold := fmt.Sprintf(`# %s Tasks

%s

%s
`, cfg.Project.Name, ledger.SectionTasks, ledger.SectionHistory)

	if err := os.WriteFile(ledgerPath, []byte(scaffold), 0644); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized taskledger project: %s\n", ledgerPath)
	return nil
}
