package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load loads and merges configuration for a project: defaults, then the
// global ~/.taskledger/config.yaml, then the project's
// .taskledger/config.yaml. Missing files are not errors; hooks must work
// with zero configuration.
func Load(projectPath string) (*Config, error) {
	cfg := DefaultConfig()

	if home, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(home, DirName, "config.yaml")
		if err := loadFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
			// Keep going with defaults; a broken global config must not
			// disable project hooks.
		}
	}

	projectConfig := filepath.Join(projectPath, DirName, "config.yaml")
	if err := loadFile(projectConfig, cfg); err != nil && !os.IsNotExist(err) {
		// Same posture as above.
	}

	if cfg.Project.Name == "" {
		cfg.Project.Name = filepath.Base(projectPath)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, DirName, "config.yaml")
}

// ProjectConfigPath returns the path to a project's config file
func ProjectConfigPath(projectPath string) string {
	return filepath.Join(projectPath, DirName, "config.yaml")
}
