// Package config loads modflow configuration from file and environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the full modflow configuration.
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	Publish PublishConfig `mapstructure:"publish"`
}

// GitHubConfig controls the issue/PR tracking target.
type GitHubConfig struct {
	// Username overrides account auto-detection. Empty means detect via
	// `gh api user`, falling back to the pipeline's default account.
	Username string `mapstructure:"username"`
	// Repo is the portfolio repository name the tracker operates on.
	Repo string `mapstructure:"repo"`
}

// PublishConfig controls how the external publish phase is invoked.
type PublishConfig struct {
	// Command is the executable (plus fixed leading arguments) for the
	// phase-6 publisher. Request-specific flags are appended per run.
	Command []string `mapstructure:"command"`
}

// DefaultRepo is the portfolio repository every project publishes into.
const DefaultRepo = "ai-agent-portfolio"

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults sets default values for unset fields.
func applyDefaults(cfg *Config) {
	if cfg.GitHub.Repo == "" {
		cfg.GitHub.Repo = DefaultRepo
	}
	if len(cfg.Publish.Command) == 0 {
		cfg.Publish.Command = []string{"portfolio-publish"}
	}
}
