package config

import "path/filepath"

// DirName is the per-project (and per-user) taskledger directory.
const DirName = ".taskledger"

// Config represents the full taskledger configuration
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// Ledger document settings
	Ledger LedgerConfig `yaml:"ledger" mapstructure:"ledger"`

	// Hook behavior settings
	Hook HookConfig `yaml:"hook" mapstructure:"hook"`

	// Project-specific settings (only in project config)
	Project ProjectConfig `yaml:"project" mapstructure:"project"`
}

// LedgerConfig configures the durable ledger document
type LedgerConfig struct {
	// Path to the ledger document, relative to the project root.
	Path string `yaml:"path" mapstructure:"path"`

	// Owner is the @tag stamped on entries created by hooks.
	Owner string `yaml:"owner" mapstructure:"owner"`
}

// HookConfig configures hook-invocation behavior
type HookConfig struct {
	// Enabled gates the hook path entirely; the CLI commands still work.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// ProjectConfig holds project-specific settings
type ProjectConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
}

// LedgerPath resolves the ledger document path against the project root.
func (c *Config) LedgerPath(projectPath string) string {
	if filepath.IsAbs(c.Ledger.Path) {
		return c.Ledger.Path
	}
	return filepath.Join(projectPath, c.Ledger.Path)
}

// StoreDir returns the project's taskledger store directory.
func StoreDir(projectPath string) string {
	return filepath.Join(projectPath, DirName)
}

// IdentityMapPath returns the path of the identity map file.
func IdentityMapPath(projectPath string) string {
	return filepath.Join(projectPath, DirName, "task-map.json")
}

// SidecarPath returns the path of the sidecar metadata file.
func SidecarPath(projectPath string) string {
	return filepath.Join(projectPath, DirName, "task-meta.yaml")
}
