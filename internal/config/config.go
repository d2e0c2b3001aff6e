package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Monitor kinds.
const (
	KindClaude = "claude" // action shells out to the claude CLI
	KindAPI    = "api"    // action posts to an Anthropic-compatible endpoint
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	*d = Duration(time.Duration(n) * time.Second)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is nudge's configuration file, ~/.nudge/config.yaml. Everything in
// it has a working default; the file only overrides.
type Config struct {
	CheckInterval Duration  `yaml:"checkInterval"` // activity refresh cadence
	IdleThreshold Duration  `yaml:"idleThreshold"`
	Monitors      []Monitor `yaml:"monitors"`
}

// Monitor defines one monitored activity stream and its bound action.
type Monitor struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	BasePath string `yaml:"basePath,omitempty"` // watch root, e.g. ~/.claude
	Prompt   string `yaml:"prompt,omitempty"`
}

// Built-in defaults.
const (
	DefaultCheckInterval = 30 * time.Second
	DefaultIdleThreshold = 10 * time.Minute
	DefaultClaudePrompt  = "analyze this project"
	DefaultGLMPrompt     = "write haiku for me about today"
)

// DefaultMonitors returns the built-in Claude and GLM monitor definitions.
func DefaultMonitors() []Monitor {
	home, _ := os.UserHomeDir()
	return []Monitor{
		{
			Name:     "Claude",
			Kind:     KindClaude,
			BasePath: filepath.Join(home, ".claude"),
			Prompt:   DefaultClaudePrompt,
		},
		{
			Name:     "GLM",
			Kind:     KindAPI,
			BasePath: filepath.Join(home, ".glmenv", "claude"),
			Prompt:   DefaultGLMPrompt,
		},
	}
}

// Load reads ~/.nudge/config.yaml. A missing file is not an error; the
// returned config carries defaults for anything unset.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(DataDir(), "config.yaml"))
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{
		CheckInterval: Duration(DefaultCheckInterval),
		IdleThreshold: Duration(DefaultIdleThreshold),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // no config file is fine
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = Duration(DefaultCheckInterval)
	}
	if cfg.IdleThreshold <= 0 {
		cfg.IdleThreshold = Duration(DefaultIdleThreshold)
	}
	for i := range cfg.Monitors {
		m := &cfg.Monitors[i]
		if m.Name == "" {
			return nil, fmt.Errorf("parse %s: monitor %d has no name", path, i)
		}
		switch m.Kind {
		case KindClaude, KindAPI:
		case "":
			m.Kind = KindClaude
		default:
			return nil, fmt.Errorf("parse %s: monitor %q has unknown kind %q", path, m.Name, m.Kind)
		}
		m.BasePath = ExpandHome(m.BasePath)
	}

	return cfg, nil
}
