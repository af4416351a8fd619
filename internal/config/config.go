package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPrompt is the prompt printed before each line.
const DefaultPrompt = "sshell@ucd$ "

// Config holds the global sshell configuration.
type Config struct {
	Prompt string `yaml:"prompt" toml:"prompt"`
	// Color enables colored prompt and diagnostics on a terminal.
	Color bool `yaml:"color" toml:"color"`
	// EchoNonTTY prints each line back when input is not a terminal.
	EchoNonTTY bool          `yaml:"echo_non_tty" toml:"echo_non_tty"`
	History    HistoryConfig `yaml:"history" toml:"history"`
	Log        LogConfig     `yaml:"log" toml:"log"`
	Guard      GuardConfig   `yaml:"guard" toml:"guard"`
}

// HistoryConfig controls the completed-line history log.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path" validate:"required_if=Enabled true"`
}

// LogConfig controls diagnostic logging. An empty Path discards logs.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" toml:"format" validate:"oneof=text json"`
	Path   string `yaml:"path" toml:"path"`
}

// GuardConfig controls the launch guard.
type GuardConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	// Script is a Starlark file defining check(argv).
	Script string   `yaml:"script" toml:"script"`
	Reject []string `yaml:"reject" toml:"reject" validate:"dive,required"`
	// Programs holds flag rules keyed by program name.
	Programs map[string]ProgramRule `yaml:"programs" toml:"programs" validate:"dive"`
}

// ProgramRule rejects flags for one program, optionally per subcommand.
type ProgramRule struct {
	RejectFlags []string                  `yaml:"reject_flags" toml:"reject_flags" validate:"dive,startswith=-"`
	Subcommands map[string]SubcommandRule `yaml:"subcommands" toml:"subcommands" validate:"dive"`
}

// SubcommandRule rejects flags for one subcommand, e.g. "git push".
type SubcommandRule struct {
	RejectFlags []string `yaml:"reject_flags" toml:"reject_flags" validate:"dive,startswith=-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Prompt:     DefaultPrompt,
		EchoNonTTY: true,
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(home, ".local", "share", "sshell", "history.jsonl"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ConfigPath returns the standard config file path.
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sshell", "config.yaml")
}

// Load reads the config from the standard location
// (~/.config/sshell/config.yaml). If the file doesn't exist, returns the
// default config.
func Load() (*Config, error) {
	if _, err := os.UserHomeDir(); err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config from the given path. Files ending in .toml are
// decoded as TOML, everything else as YAML.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.History.Path = expandHome(cfg.History.Path)
	cfg.Log.Path = expandHome(cfg.Log.Path)
	cfg.Guard.Script = expandHome(cfg.Guard.Script)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})
	return validate.Struct(c)
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, path[1:])
}
