package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	toml "github.com/pelletier/go-toml/v2"
)

// Colors is one variant of a palette. Every value is a hex colour.
type Colors struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
	Muted      string `toml:"muted"`
	Accent     string `toml:"accent"`
	Border     string `toml:"border"`
	Overlay    string `toml:"overlay"`
}

// Palette is a named pair of colour variants.
type Palette struct {
	Name         string  `toml:"name"`
	Description  string  `toml:"description"`
	OverlayAlpha float64 `toml:"overlay_alpha"`
	Dark         Colors  `toml:"dark"`
	Light        Colors  `toml:"light"`
}

// Variant returns the dark or light colours.
func (p Palette) Variant(dark bool) Colors {
	if dark {
		return p.Dark
	}
	return p.Light
}

// Validate checks every colour parses and the overlay alpha is in range.
func (p Palette) Validate() error {
	if p.OverlayAlpha < 0 || p.OverlayAlpha > 1 {
		return fmt.Errorf("overlay_alpha must be between 0 and 1, got %v", p.OverlayAlpha)
	}
	for variant, c := range map[string]Colors{"dark": p.Dark, "light": p.Light} {
		for field, hex := range map[string]string{
			"foreground": c.Foreground,
			"background": c.Background,
			"muted":      c.Muted,
			"accent":     c.Accent,
			"border":     c.Border,
			"overlay":    c.Overlay,
		} {
			if _, err := colorful.Hex(hex); err != nil {
				return fmt.Errorf("%s.%s: invalid colour %q", variant, field, hex)
			}
		}
	}
	return nil
}

// ParsePalette decodes and validates a palette file.
func ParsePalette(data []byte) (Palette, error) {
	var p Palette
	if err := toml.Unmarshal(data, &p); err != nil {
		return Palette{}, fmt.Errorf("failed to parse palette: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Palette{}, err
	}
	return p, nil
}

// Theme is a loaded palette with its origin.
type Theme struct {
	Name      string    // Palette name (without .toml extension)
	Path      string    // Full path to the file (empty for bundled)
	Palette   Palette   // The decoded palette
	ModTime   time.Time // Last modification time
	IsDefault bool      // True if this is a bundled palette
}

// NewTheme loads a palette file from disk.
func NewTheme(name, path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	p, err := ParsePalette(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = name
	}

	return &Theme{
		Name:    name,
		Path:    path,
		Palette: p,
		ModTime: info.ModTime(),
	}, nil
}

// NewEmbeddedTheme loads a bundled palette.
func NewEmbeddedTheme(name string) (*Theme, error) {
	data, found := GetEmbeddedTheme(name)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}
	p, err := ParsePalette(data)
	if err != nil {
		return nil, fmt.Errorf("bundled theme %s: %w", name, err)
	}
	return &Theme{Name: name, Palette: p, IsDefault: true}, nil
}

// NewDefaultTheme returns the bundled default palette.
func NewDefaultTheme() *Theme {
	t, err := NewEmbeddedTheme(DefaultThemeName)
	if err != nil {
		panic(err)
	}
	return t
}

// ErrThemeNotFound is returned when no palette has the requested name.
var ErrThemeNotFound = errors.New("theme not found")

// Reload re-reads the palette from disk.
// Returns true if the content changed.
func (t *Theme) Reload() (bool, error) {
	if t.IsDefault {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}
	if !info.ModTime().After(t.ModTime) {
		return false, nil
	}

	data, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}
	p, err := ParsePalette(data)
	if err != nil {
		return false, err
	}
	if p.Name == "" {
		p.Name = t.Name
	}

	old := t.Palette
	t.Palette = p
	t.ModTime = info.ModTime()

	return old != p, nil
}

// ThemeInfo provides basic palette information for listing.
type ThemeInfo struct {
	Name      string
	Path      string
	IsDefault bool
	IsBundled bool
}

// ThemesDir returns the path to the user's palettes directory.
func ThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "poptui", "themes"), nil
}

// ListAvailableThemes lists bundled palettes followed by user ones from dir.
// A user palette with a bundled name overrides it and is not listed twice.
func ListAvailableThemes(dir string) ([]ThemeInfo, error) {
	seen := make(map[string]bool)
	var themes []ThemeInfo

	for _, name := range ListEmbeddedThemes() {
		seen[name] = true
		themes = append(themes, ThemeInfo{
			Name:      name,
			IsDefault: name == DefaultThemeName,
			IsBundled: true,
		})
	}

	if dir == "" {
		return themes, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".toml" {
			continue
		}
		name := entry.Name()[:len(entry.Name())-len(".toml")]
		if seen[name] {
			continue
		}
		seen[name] = true
		themes = append(themes, ThemeInfo{
			Name: name,
			Path: filepath.Join(dir, entry.Name()),
		})
	}

	return themes, nil
}
