package config

import (
	"os"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Ledger: LedgerConfig{
			Path:  "TODO.md",
			Owner: "claude",
		},
		Hook: HookConfig{
			Enabled: true,
		},
	}
}

// WriteDefault writes the default global configuration to a file
func WriteDefault(path string) error {
	content := `# taskledger Global Configuration
version: "1"

# Durable ledger document
ledger:
  # Path is resolved against the project root
  path: TODO.md
  # Owner tag stamped on hook-created entries
  owner: claude

# Hook behavior
hook:
  # Set to false to make hook invocations no-ops without uninstalling them
  enabled: true
`
	return os.WriteFile(path, []byte(content), 0644)
}
