// Package config provides configuration management for the subencode CLI tool
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents the main configuration structure
type Config struct {
	Version  string             `json:"version"`
	Defaults DefaultSettings    `json:"defaults"`
	UI       UIConfig           `json:"ui"`
	Profiles map[string]Profile `json:"profiles"`
}

// DefaultSettings contains default values for common operations
type DefaultSettings struct {
	MaxDivisions int    `json:"max_divisions"` // Default: 10
	Initial      uint32 `json:"initial"`       // Default: 0
	Workers      int    `json:"workers"`       // Default: 1 (sequential)
	Format       string `json:"format"`        // text, json
}

// UIConfig contains user interface settings
type UIConfig struct {
	UseColor  bool   `json:"use_color"` // Enable colored output
	Verbosity string `json:"verbosity"` // quiet, normal, verbose
}

// Profile is a named, reusable good-byte set. Good holds a byte-spec string
// in the same \xNN escape syntax the --goodbytes flag accepts.
type Profile struct {
	Description string `json:"description"`
	Good        string `json:"good"`
}

// Manager manages configuration loading and saving
type Manager struct {
	config     *Config
	configPath string
}

// NewManager creates a configuration manager, loading the config file if it
// exists and falling back to defaults otherwise.
func NewManager() (*Manager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	m := &Manager{configPath: configPath}
	if err := m.Load(); err != nil {
		m.config = DefaultConfig()
	}

	// Built-in profiles are always available, even with a user config that
	// predates them.
	for name, p := range DefaultConfig().Profiles {
		if _, ok := m.config.Profiles[name]; !ok {
			if m.config.Profiles == nil {
				m.config.Profiles = make(map[string]Profile)
			}
			m.config.Profiles[name] = p
		}
	}

	return m, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Defaults: DefaultSettings{
			MaxDivisions: 10,
			Initial:      0,
			Workers:      1,
			Format:       "text",
		},
		UI: UIConfig{
			UseColor:  true,
			Verbosity: "normal",
		},
		Profiles: map[string]Profile{
			"alnum": {
				Description: "Digits and ASCII letters",
				Good:        specRange('0', '9') + specRange('A', 'Z') + specRange('a', 'z'),
			},
			"printable": {
				Description: "Printable ASCII (0x20-0x7e)",
				Good:        specRange(0x20, 0x7e),
			},
			"nonull": {
				Description: "Everything except the null byte",
				Good:        specRange(0x01, 0xff),
			},
			"lowascii": {
				Description: "Low ASCII without the null byte (0x01-0x7f)",
				Good:        specRange(0x01, 0x7f),
			},
		},
	}
}

// Load loads the configuration from disk
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	config := &Config{}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	m.config = config
	return nil
}

// Save saves the configuration to disk
func (m *Manager) Save() error {
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Config returns the current configuration
func (m *Manager) Config() *Config {
	return m.config
}

// Profile looks up a named byte-set profile.
func (m *Manager) Profile(name string) (Profile, bool) {
	p, ok := m.config.Profiles[name]
	return p, ok
}

func getConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, "subencode", "config.json"), nil
}

// specRange renders an inclusive byte range as a \xNN byte-spec string.
func specRange(lo, hi byte) string {
	var b strings.Builder
	for c := int(lo); c <= int(hi); c++ {
		fmt.Fprintf(&b, `\x%02x`, c)
	}
	return b.String()
}
