package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const userConfigFile = "config.json"

// UserConfig is the per-user CLI preference file, ~/.agroinsight/config.json.
// API keys live in the environment and are never written here.
type UserConfig struct {
	DefaultState    string `json:"default_state,omitempty" mapstructure:"default_state" validate:"required_with=DefaultDistrict"`
	DefaultDistrict string `json:"default_district,omitempty" mapstructure:"default_district"`
	DefaultLocale   string `json:"default_locale,omitempty" mapstructure:"default_locale" validate:"omitempty,bcp47_language_tag"`
}

// UserConfigHandler reads and writes the preference file
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler uses ~/.agroinsight, creating it on first use
func NewUserConfigHandler() (*UserConfigHandler, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(home, ".agroinsight")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return NewUserConfigHandlerAt(dir), nil
}

// NewUserConfigHandlerAt keeps the preference file in dir
func NewUserConfigHandlerAt(dir string) *UserConfigHandler {
	return &UserConfigHandler{configPath: filepath.Join(dir, userConfigFile)}
}

// Load returns the saved preferences; a missing file means no preferences
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	data, err := os.ReadFile(h.configPath)
	if os.IsNotExist(err) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var prefs UserConfig
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse user config %s: %w", h.configPath, err)
	}
	return &prefs, nil
}

// Save validates prefs and replaces the file via a temp file and rename,
// so an interrupted write never leaves half a JSON document behind
func (h *UserConfigHandler) Save(prefs *UserConfig) error {
	if err := NewValidator().Validate(prefs); err != nil {
		return err
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(h.configPath), userConfigFile+".*")
	if err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write user config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	if err := os.Rename(tmp.Name(), h.configPath); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	return nil
}

// Update loads, mutates and saves the preferences
func (h *UserConfigHandler) Update(mutate func(prefs *UserConfig)) error {
	prefs, err := h.Load()
	if err != nil {
		return err
	}
	mutate(prefs)
	return h.Save(prefs)
}

// SetDefaultGeography stores the geography used when prices omits --state
func (h *UserConfigHandler) SetDefaultGeography(state, district string) error {
	return h.Update(func(prefs *UserConfig) {
		prefs.DefaultState = strings.TrimSpace(state)
		prefs.DefaultDistrict = strings.TrimSpace(district)
	})
}

// SetDefaultLocale stores the locale tips falls back to
func (h *UserConfigHandler) SetDefaultLocale(locale string) error {
	return h.Update(func(prefs *UserConfig) {
		prefs.DefaultLocale = strings.ToLower(strings.TrimSpace(locale))
	})
}

// ClearDefaults forgets every preference
func (h *UserConfigHandler) ClearDefaults() error {
	return h.Save(&UserConfig{})
}

// GetConfigPath returns the preference file location
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
