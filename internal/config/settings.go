package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/keshon/fvc/internal/transform"
)

// ErrInvalid is wrapped by every settings validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Settings is the user configuration of the fvc tool.
type Settings struct {
	Key      string         `yaml:"key"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Ignore   []string       `yaml:"ignore"`
	Log      LogConfig      `yaml:"log"`
}

// CheckoutConfig configures where checked out files are written
type CheckoutConfig struct {
	Suffix string `yaml:"suffix"`
	Dir    string `yaml:"dir"`
}

// LogConfig configures diagnostic logging
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.applyDefaults()
	return s
}

// DefaultSettingsPath returns $XDG_CONFIG_HOME/fvc/config.yaml, falling back
// to ~/.config/fvc/config.yaml.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, "fvc", "config.yaml"), nil
}

// Load reads and parses the settings file at path.
func Load(path string) (*Settings, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	s.expandEnv()
	s.applyDefaults()

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// LoadOrDefault loads path when it exists and returns defaults otherwise.
func LoadOrDefault(path string) (*Settings, error) {
	if _, err := os.Stat(os.ExpandEnv(path)); errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	return Load(path)
}

func (s *Settings) expandEnv() {
	s.Key = os.ExpandEnv(s.Key)
	s.Checkout.Dir = os.ExpandEnv(s.Checkout.Dir)
}

// applyDefaults fills in zero-value fields.
func (s *Settings) applyDefaults() {
	if s.Key == "" {
		s.Key = string(transform.DefaultKey)
	}
	if s.Checkout.Suffix == "" {
		s.Checkout.Suffix = DefaultCheckoutSuffix
	}
	if s.Checkout.Dir == "" {
		s.Checkout.Dir = "."
	}
	if s.Log.Level == "" {
		s.Log.Level = "info"
	}
	if s.Log.Format == "" {
		s.Log.Format = "text"
	}
}

// Validate checks the settings for errors
func (s *Settings) Validate() error {
	if s.Key == "" {
		return fmt.Errorf("%w: key must not be empty", ErrInvalid)
	}

	if s.Checkout.Suffix == "" {
		return fmt.Errorf("%w: checkout.suffix must not be empty", ErrInvalid)
	}
	if strings.ContainsAny(s.Checkout.Suffix, `/\`) {
		return fmt.Errorf("%w: checkout.suffix must not contain path separators: %s", ErrInvalid, s.Checkout.Suffix)
	}

	for _, p := range s.Ignore {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: bad ignore pattern: %s", ErrInvalid, p)
		}
	}

	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: invalid log.level: %s (must be debug, info, warn or error)", ErrInvalid, s.Log.Level)
	}

	switch s.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: invalid log.format: %s (must be text or json)", ErrInvalid, s.Log.Format)
	}

	return nil
}

// TransformKey returns the configured key.
func (s *Settings) TransformKey() transform.Key {
	return transform.Key(s.Key)
}
