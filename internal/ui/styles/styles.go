// Package styles contains Lip Gloss style definitions for the kiosk canvas.
package styles

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// Default palette: yellow text on a blue canvas.
const (
	DefaultForeground = "#FFFF00"
	DefaultBackground = "#0000FF"
)

var (
	// ForegroundColor is used for the label.
	ForegroundColor lipgloss.Color = DefaultForeground
	// BackgroundColor fills the whole canvas.
	BackgroundColor lipgloss.Color = DefaultBackground
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ColorConfig overrides the canvas palette. Empty fields keep the defaults.
type ColorConfig struct {
	Foreground string `mapstructure:"foreground" yaml:"foreground"`
	Background string `mapstructure:"background" yaml:"background"`
}

// ValidateColor checks that s is empty or a #RGB / #RRGGBB hex color.
func ValidateColor(s string) error {
	if s == "" || hexColor.MatchString(s) {
		return nil
	}
	return fmt.Errorf("invalid color %q: want #RGB or #RRGGBB", s)
}

// ApplyColors sets the canvas palette, resetting unspecified colors to defaults.
func ApplyColors(cfg ColorConfig) error {
	if err := ValidateColor(cfg.Foreground); err != nil {
		return fmt.Errorf("foreground: %w", err)
	}
	if err := ValidateColor(cfg.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}

	ForegroundColor = DefaultForeground
	BackgroundColor = DefaultBackground
	if cfg.Foreground != "" {
		ForegroundColor = lipgloss.Color(cfg.Foreground)
	}
	if cfg.Background != "" {
		BackgroundColor = lipgloss.Color(cfg.Background)
	}
	return nil
}

// Canvas returns the base style for a canvas region.
func Canvas() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(BackgroundColor).
		Foreground(ForegroundColor)
}

// Label returns the style for the centered label.
func Label() lipgloss.Style {
	return Canvas().Bold(true)
}
