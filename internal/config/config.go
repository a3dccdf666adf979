// Package config resolves the session configuration for one run.
// Precedence: built-in defaults, then AGT_* environment variables,
// then the optional .agent/config.yaml file, then flag overrides
// applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/petasbytes/headless-agent/internal/fsops"
)

// Provider names accepted by the -provider flag and AGT_PROVIDER.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// DefaultConfigPath is resolved relative to the working directory.
const DefaultConfigPath = ".agent/config.yaml"

// Config is the session configuration. MaxSessionTurns 0 means
// unlimited; TokenBudget 0 disables history windowing.
type Config struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"`
	MaxSessionTurns int    `yaml:"max_session_turns"`
	TokenBudget     int    `yaml:"token_budget"`
	ReadRoot        string `yaml:"read_root"`
	WriteRoot       string `yaml:"write_root"`
	Transcript      bool   `yaml:"transcript"`
}

// Load resolves configuration from defaults, environment, and the
// optional config file.
func Load() (*Config, error) {
	cfg := &Config{Provider: ProviderGemini}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.applyFile(DefaultConfigPath); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("AGT_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("AGT_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("AGT_MAX_SESSION_TURNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid AGT_MAX_SESSION_TURNS %q: %w", v, err)
		}
		c.MaxSessionTurns = n
	}
	if v := os.Getenv("AGT_TOKEN_BUDGET"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid AGT_TOKEN_BUDGET %q: %w", v, err)
		}
		c.TokenBudget = n
	}
	if v := os.Getenv("AGT_READ_ROOT"); v != "" {
		c.ReadRoot = v
	}
	if v := os.Getenv("AGT_WRITE_ROOT"); v != "" {
		c.WriteRoot = v
	}
	if v := os.Getenv("AGT_TRANSCRIPT"); v != "" {
		c.Transcript = v == "1"
	}
	return nil
}

func (c *Config) applyFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Validate checks field ranges and the provider name.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown provider %q (want %s or %s)", c.Provider, ProviderGemini, ProviderAnthropic)
	}
	if c.MaxSessionTurns < 0 {
		return fmt.Errorf("max_session_turns must be >= 0, got %d", c.MaxSessionTurns)
	}
	if c.TokenBudget < 0 {
		return fmt.Errorf("token_budget must be >= 0, got %d", c.TokenBudget)
	}
	return nil
}

// Initialize resolves the sandbox roots. Call once before any tool can
// touch the filesystem.
func (c *Config) Initialize() error {
	return fsops.SetRoots(c.ReadRoot, c.WriteRoot)
}

// AuthType names the credential scheme in use; used only when
// formatting fatal errors for the user.
func (c *Config) AuthType() string {
	switch c.Provider {
	case ProviderAnthropic:
		return "anthropic-api-key"
	default:
		return "gemini-api-key"
	}
}
