package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigData []byte

// Validator describes how the external capiscio CLI is located and provisioned.
// AutoInstall is a pointer so a repo file can switch the embedded default off.
type Validator struct {
	Binary         string   `yaml:"binary"`
	AutoInstall    *bool    `yaml:"auto_install"`
	InstallCommand []string `yaml:"install_command"`
}

// AutoInstallEnabled reports whether the validator may be installed on demand.
func (v Validator) AutoInstallEnabled() bool {
	return v.AutoInstall != nil && *v.AutoInstall
}

// Config is the effective policy for a single adapter run.
// Strict, TestLive, SkipSignature, and Timeout are forwarded to the validator
// as CLI flags; FailOnWarnings is consumed by the decision engine only.
type Config struct {
	AgentCard      string    `yaml:"agent_card"`
	Strict         bool      `yaml:"strict"`
	TestLive       bool      `yaml:"test_live"`
	SkipSignature  bool      `yaml:"skip_signature"`
	Timeout        string    `yaml:"timeout"`
	FailOnWarnings bool      `yaml:"fail_on_warnings"`
	RunTimeout     string    `yaml:"run_timeout"`
	Validator      Validator `yaml:"validator"`
}

// Load returns the effective config, merging defaults with a repo-local file if present.
func Load(path string) (Config, error) {
	base, err := parse(defaultConfigData)
	if err != nil {
		return Config{}, fmt.Errorf("parse default config: %w", err)
	}

	if path == "" {
		return base, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, fmt.Errorf("stat config: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config: %w", err)
	}
	user, err := parse(data)
	if err != nil {
		return base, fmt.Errorf("parse config: %w", err)
	}

	merge(&base, user)
	return base, nil
}

func parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func merge(base *Config, override Config) {
	if override.AgentCard != "" {
		base.AgentCard = override.AgentCard
	}
	if override.Timeout != "" {
		base.Timeout = override.Timeout
	}
	if override.RunTimeout != "" {
		base.RunTimeout = override.RunTimeout
	}

	base.Strict = base.Strict || override.Strict
	base.TestLive = base.TestLive || override.TestLive
	base.SkipSignature = base.SkipSignature || override.SkipSignature
	base.FailOnWarnings = base.FailOnWarnings || override.FailOnWarnings

	if override.Validator.Binary != "" {
		base.Validator.Binary = override.Validator.Binary
	}
	if override.Validator.AutoInstall != nil {
		base.Validator.AutoInstall = override.Validator.AutoInstall
	}
	if len(override.Validator.InstallCommand) > 0 {
		base.Validator.InstallCommand = override.Validator.InstallCommand
	}
}

// ApplyInputs overlays CI input parameters onto the config. lookup returns
// the raw string value for an input name, or "" when the input is unset.
func (c *Config) ApplyInputs(lookup func(name string) string) {
	if v := lookup("agent-card"); v != "" {
		c.AgentCard = v
	}
	if v := lookup("strict"); v != "" {
		c.Strict = parseBool(v)
	}
	if v := lookup("test-live"); v != "" {
		c.TestLive = parseBool(v)
	}
	if v := lookup("skip-signature"); v != "" {
		c.SkipSignature = parseBool(v)
	}
	if v := lookup("timeout"); v != "" {
		c.Timeout = v
	}
	if v := lookup("fail-on-warnings"); v != "" {
		c.FailOnWarnings = parseBool(v)
	}
}

// parseBool follows the CI convention: only explicit true spellings enable a toggle.
func parseBool(v string) bool {
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "true", "yes", "1":
		return true
	}
	return false
}

// SupervisoryTimeout returns the adapter-side wall-clock limit for the
// validator subprocess, or zero when none is configured.
func (c Config) SupervisoryTimeout() (time.Duration, error) {
	if c.RunTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RunTimeout)
	if err != nil {
		return 0, fmt.Errorf("parse run_timeout: %w", err)
	}
	return d, nil
}

// ToYAML renders the config to YAML.
func (c Config) ToYAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DefaultYAML returns the embedded default config YAML.
func DefaultYAML() string {
	return string(defaultConfigData)
}
