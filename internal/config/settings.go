package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Color modes for diagnostics on stderr.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Settings is the lifetime.yaml configuration.
type Settings struct {
	// MaxDepth bounds evaluator recursion; 0 means DefaultMaxDepth.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// Trace enables debug logging of scope and ownership events.
	Trace bool `yaml:"trace,omitempty"`

	// Ledger is a path to an SQLite file recording ownership events.
	// Empty disables the ledger. Relative paths resolve against the
	// directory of the settings file.
	Ledger string `yaml:"ledger,omitempty"`

	// Color is one of auto, always, never.
	Color string `yaml:"color,omitempty"`

	// NativeCalls lets programs call builtins such as puts.
	NativeCalls bool `yaml:"native_calls,omitempty"`
}

func DefaultSettings() *Settings {
	return &Settings{
		MaxDepth: DefaultMaxDepth,
		Color:    ColorAuto,
	}
}

// LoadSettings reads and validates a settings file. Missing fields take
// their defaults.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if s.Ledger != "" && !filepath.IsAbs(s.Ledger) {
		s.Ledger = filepath.Join(filepath.Dir(path), s.Ledger)
	}
	return s, nil
}

// FindSettings loads lifetime.yaml from dir if present, otherwise returns
// the defaults.
func FindSettings(dir string) (*Settings, error) {
	path := filepath.Join(dir, SettingsFileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, err
	}
	return LoadSettings(path)
}

func (s *Settings) Validate() error {
	if s.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", s.MaxDepth)
	}
	if s.MaxDepth == 0 {
		s.MaxDepth = DefaultMaxDepth
	}
	switch s.Color {
	case "":
		s.Color = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be one of auto, always, never, got %q", s.Color)
	}
	return nil
}
