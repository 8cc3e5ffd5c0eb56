// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/poptui/internal/geom"
	"github.com/jmylchreest/poptui/internal/popup"
	"github.com/jmylchreest/poptui/internal/theme"
)

// Default configuration values.
const (
	DefaultWidth         = 44
	DefaultHeight        = 9
	DefaultFrameInterval = 16 * time.Millisecond
	DefaultBurstSize     = 3
)

// Config represents the poptui configuration.
// Loaded from ~/.config/poptui/config.toml
type Config struct {
	Popup     PopupConfig     `toml:"popup"`
	Overlay   OverlayConfig   `toml:"overlay"`
	Display   DisplayConfig   `toml:"display"`
	Theme     ThemeConfig     `toml:"theme"`
	TUI       TUIConfig       `toml:"tui"`
	Clipboard ClipboardConfig `toml:"clipboard"`
}

// PopupConfig holds the defaults every popup is created with.
type PopupConfig struct {
	HasOverlay        bool       `toml:"has_overlay"`
	ShowAnimation     popup.Kind `toml:"show_animation"` // "automatic", "none", "scale-in", ...
	HideAnimation     popup.Kind `toml:"hide_animation"` // "automatic" mirrors the show animation
	ClosesFromOverlay bool       `toml:"closes_from_overlay"`
	RespectsSafeArea  bool       `toml:"respects_safe_area"`
	WrapInScroll      bool       `toml:"wrap_in_scroll"`
	AnchorX           float64    `toml:"anchor_x"` // 0.0-1.0, 0.5 = centred
	AnchorY           float64    `toml:"anchor_y"` // 0.0-1.0, 0.5 = centred
	Width             int        `toml:"width"`    // Cells
	Height            int        `toml:"height"`   // Cells
}

// OverlayConfig holds overlay colour settings.
type OverlayConfig struct {
	Tint  string  `toml:"tint"`  // Hex colour; empty = theme default
	Alpha float64 `toml:"alpha"` // 0.0-1.0 dimming at full opacity; 0 = theme default
}

// DisplayConfig holds rendering settings.
type DisplayConfig struct {
	FrameInterval Duration `toml:"frame_interval"` // e.g. "16ms"
	SafeTop       int      `toml:"safe_top"`       // Rows kept clear at the top
	SafeBottom    int      `toml:"safe_bottom"`    // Rows kept clear at the bottom
	Animations    bool     `toml:"animations"`     // false completes every transition instantly
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name        string `toml:"name"`         // Palette name without .toml extension
	ColorScheme string `toml:"color_scheme"` // "system", "light", or "dark"
}

// TUIConfig holds demo settings.
type TUIConfig struct {
	ShowHelp  bool `toml:"show_help"`
	BurstSize int  `toml:"burst_size"` // Popups requested by the burst key
}

// ClipboardConfig holds clipboard settings.
type ClipboardConfig struct {
	Command string `toml:"command"` // Auto-detected if empty
}

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Popup: PopupConfig{
			HasOverlay:        true,
			ShowAnimation:     popup.KindScaleIn,
			HideAnimation:     popup.KindAutomatic,
			ClosesFromOverlay: true,
			RespectsSafeArea:  true,
			AnchorX:           0.5,
			AnchorY:           0.5,
			Width:             DefaultWidth,
			Height:            DefaultHeight,
		},
		Display: DisplayConfig{
			FrameInterval: Duration(DefaultFrameInterval),
			SafeTop:       1,
			SafeBottom:    1,
			Animations:    true,
		},
		Theme: ThemeConfig{
			Name:        theme.DefaultThemeName,
			ColorScheme: theme.SchemeSystem,
		},
		TUI: TUIConfig{
			ShowHelp:  true,
			BurstSize: DefaultBurstSize,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "poptui", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path atomically.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid. The returned error is a
// *ValidationError naming the first offending field.
func (c *Config) Validate() error {
	invalid := func(field, format string, args ...any) error {
		return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
	}

	if c.Popup.AnchorX < 0 || c.Popup.AnchorX > 1 {
		return invalid("popup.anchor_x", "must be between 0 and 1, got %v", c.Popup.AnchorX)
	}
	if c.Popup.AnchorY < 0 || c.Popup.AnchorY > 1 {
		return invalid("popup.anchor_y", "must be between 0 and 1, got %v", c.Popup.AnchorY)
	}
	if c.Popup.Width < 6 || c.Popup.Width > 500 {
		return invalid("popup.width", "must be between 6 and 500, got %d", c.Popup.Width)
	}
	if c.Popup.Height < 3 || c.Popup.Height > 200 {
		return invalid("popup.height", "must be between 3 and 200, got %d", c.Popup.Height)
	}

	if c.Overlay.Tint != "" {
		if _, err := theme.ParseHex(c.Overlay.Tint); err != nil {
			return invalid("overlay.tint", "invalid hex colour %q", c.Overlay.Tint)
		}
	}
	if c.Overlay.Alpha < 0 || c.Overlay.Alpha > 1 {
		return invalid("overlay.alpha", "must be between 0 and 1, got %v", c.Overlay.Alpha)
	}

	if d := c.Display.FrameInterval.Duration(); d < time.Millisecond || d > time.Second {
		return invalid("display.frame_interval", "must be between 1ms and 1s, got %s", d)
	}
	if c.Display.SafeTop < 0 {
		return invalid("display.safe_top", "must not be negative, got %d", c.Display.SafeTop)
	}
	if c.Display.SafeBottom < 0 {
		return invalid("display.safe_bottom", "must not be negative, got %d", c.Display.SafeBottom)
	}

	if !slices.Contains(theme.ValidSchemes(), c.Theme.ColorScheme) {
		return invalid("theme.color_scheme", "invalid value %q, must be one of: %v", c.Theme.ColorScheme, theme.ValidSchemes())
	}

	if c.TUI.BurstSize < 1 || c.TUI.BurstSize > 20 {
		return invalid("tui.burst_size", "must be between 1 and 20, got %d", c.TUI.BurstSize)
	}

	return nil
}

// PopupOptions converts the popup settings into controller options.
func (c *Config) PopupOptions() popup.Options {
	opts := popup.DefaultOptions()
	opts.HasOverlay = c.Popup.HasOverlay
	opts.HideKind = c.Popup.HideAnimation
	opts.ClosesFromOverlayTap = c.Popup.ClosesFromOverlay
	opts.RespectsSafeArea = c.Popup.RespectsSafeArea
	opts.WrapInScrollSurface = c.Popup.WrapInScroll
	opts.RelativeAnchor = geom.Point{X: c.Popup.AnchorX, Y: c.Popup.AnchorY}
	opts.Size = geom.Size{W: float64(c.Popup.Width), H: float64(c.Popup.Height)}
	if c.Overlay.Tint != "" {
		if tint, err := theme.ParseHex(c.Overlay.Tint); err == nil {
			opts.OverlayTint = tint
		}
	}
	return opts
}

// SafeArea returns the insets auto-placement keeps clear of.
func (c *Config) SafeArea() geom.Insets {
	return geom.Insets{Top: float64(c.Display.SafeTop), Bottom: float64(c.Display.SafeBottom)}
}

// OverlayAlpha returns the configured dimming strength, or fallback when
// unset.
func (c *Config) OverlayAlpha(fallback float64) float64 {
	if c.Overlay.Alpha > 0 {
		return c.Overlay.Alpha
	}
	return fallback
}
