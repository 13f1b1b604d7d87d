package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration
type ThemeConfig struct {
	Name   string `toml:"name"`
	Colors struct {
		TreeText           string `toml:"tree_text"`
		TreeSelected       string `toml:"tree_selected"`
		TreeLeafArrow      string `toml:"tree_leaf_arrow"`
		TreeExpandedArrow  string `toml:"tree_expanded_arrow"`
		TreeCollapsedArrow string `toml:"tree_collapsed_arrow"`
		DragSource         string `toml:"drag_source"`
		MarkerAbove        string `toml:"marker_above"`
		MarkerBelow        string `toml:"marker_below"`
		MarkerInside       string `toml:"marker_inside"`
		FreeZone           string `toml:"free_zone"`
		StatusMode         string `toml:"status_mode"`
		StatusMessage      string `toml:"status_message"`
		HeaderTitle        string `toml:"header_title"`
	} `toml:"colors"`
}

// getThemePaths returns the search paths for theme files
func getThemePaths() []string {
	paths := []string{}

	// User config directory
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tui-treeview", "themes"))
	}

	// User local share directory
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".local", "share", "tui-treeview", "themes"))
	}

	return paths
}

// findThemeFile searches for a theme file in standard locations
func findThemeFile(themeName string) (string, error) {
	filename := themeName + ".toml"

	for _, dir := range getThemePaths() {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var config ThemeConfig
	err = toml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return configToTheme(config), nil
}

// LoadTheme loads a theme by name, searching standard theme directories
func LoadTheme(themeName string) (*Theme, error) {
	filePath, err := findThemeFile(themeName)
	if err != nil {
		return nil, err
	}

	return LoadThemeFromFile(filePath)
}

// configToTheme converts a ThemeConfig to a Theme, with fallback to Tokyo
// Night for missing colors
func configToTheme(config ThemeConfig) *Theme {
	base := TokyoNight()
	c := &base.Colors

	override := func(dst *tcell.Color, value string) {
		if value != "" {
			*dst = ParseColorString(value)
		}
	}
	override(&c.TreeText, config.Colors.TreeText)
	override(&c.TreeSelected, config.Colors.TreeSelected)
	override(&c.TreeLeafArrow, config.Colors.TreeLeafArrow)
	override(&c.TreeExpandedArrow, config.Colors.TreeExpandedArrow)
	override(&c.TreeCollapsedArrow, config.Colors.TreeCollapsedArrow)
	override(&c.DragSource, config.Colors.DragSource)
	override(&c.MarkerAbove, config.Colors.MarkerAbove)
	override(&c.MarkerBelow, config.Colors.MarkerBelow)
	override(&c.MarkerInside, config.Colors.MarkerInside)
	override(&c.FreeZone, config.Colors.FreeZone)
	override(&c.StatusMode, config.Colors.StatusMode)
	override(&c.StatusMessage, config.Colors.StatusMessage)
	override(&c.HeaderTitle, config.Colors.HeaderTitle)

	if config.Name != "" {
		base.Name = config.Name
	}

	return base
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	if themeName == "default" {
		return Default()
	}

	theme, err := LoadTheme(themeName)
	if err != nil {
		// Fall back to Tokyo Night
		return TokyoNight()
	}

	return theme
}
