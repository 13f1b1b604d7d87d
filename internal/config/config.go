package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// View holds the engine geometry and behavior knobs.
type View struct {
	// RowHeight is the height of one row in engine units. A pixel front end
	// maps units to pixels; the terminal front end draws each row as one
	// line and uses the sub-row units only for drop-zone resolution.
	RowHeight int `toml:"row_height"`
	// EdgeZone is the thickness of the above/below drop bands within a row.
	EdgeZone int `toml:"edge_zone"`
	// FreeZone is the height of the trailing free-drop zone below the last
	// row.
	FreeZone int `toml:"free_zone"`
	// ScrollEdge is the auto-scroll band thickness at the viewport edges
	// while dragging.
	ScrollEdge int `toml:"scroll_edge"`
	// InsertPolicy decides where inside-drops land: "last" or "first".
	InsertPolicy string `toml:"insert_policy"`
}

// Config holds application configuration
type Config struct {
	Theme    string            `toml:"theme"`
	View     View              `toml:"view"`
	Settings map[string]string `toml:"settings"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file
func LoadFromFile(filePath string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = toml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults fills in anything the file left unset and repairs values the
// engine cannot work with.
func (c *Config) applyDefaults() {
	d := defaultConfig()
	if c.Theme == "" {
		c.Theme = d.Theme
	}
	if c.View.RowHeight <= 0 {
		c.View.RowHeight = d.View.RowHeight
	}
	if c.View.EdgeZone <= 0 || c.View.EdgeZone*2 > c.View.RowHeight {
		c.View.EdgeZone = c.View.RowHeight / 4
		if c.View.EdgeZone < 1 {
			c.View.EdgeZone = 1
		}
	}
	if c.View.FreeZone < 0 {
		c.View.FreeZone = d.View.FreeZone
	}
	if c.View.ScrollEdge <= 0 {
		c.View.ScrollEdge = d.View.ScrollEdge
	}
	if c.View.InsertPolicy != "first" && c.View.InsertPolicy != "last" {
		c.View.InsertPolicy = d.View.InsertPolicy
	}
	if c.Settings == nil {
		c.Settings = make(map[string]string)
	}
	c.sessionSettings = make(map[string]string)
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "tui-treeview", "config.toml"), nil
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	return &Config{
		Theme: "tokyo-night",
		View: View{
			RowHeight:    4,
			EdgeZone:     1,
			FreeZone:     4,
			ScrollEdge:   8,
			InsertPolicy: "last",
		},
		Settings:        make(map[string]string),
		sessionSettings: make(map[string]string),
	}
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(home, ".config", "tui-treeview")
	return configDir, nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	return os.MkdirAll(configDir, 0755)
}

// Set sets a session configuration value
func (c *Config) Set(key, value string) {
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
}

// Get retrieves a configuration value, checking session settings first (which override persisted settings)
// Returns empty string if not found in either source
func (c *Config) Get(key string) string {
	// Check session settings first (they override persisted settings)
	if c.sessionSettings != nil {
		if val, ok := c.sessionSettings[key]; ok {
			return val
		}
	}

	// Fall back to persisted settings
	if c.Settings != nil {
		if val, ok := c.Settings[key]; ok {
			return val
		}
	}

	return ""
}

// GetAll returns all configuration values (both persisted and session)
// Session settings override persisted settings with the same key
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string)

	// First, add all persisted settings
	if c.Settings != nil {
		for k, v := range c.Settings {
			result[k] = v
		}
	}

	// Then override with session settings (they take precedence)
	if c.sessionSettings != nil {
		for k, v := range c.sessionSettings {
			result[k] = v
		}
	}

	return result
}

// Save persists the configuration to the TOML file
// Note: This only persists the Settings map, not session settings
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure the config directory exists
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
