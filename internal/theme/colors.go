package theme

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Colour scheme names accepted by IsDark.
const (
	SchemeSystem = "system"
	SchemeLight  = "light"
	SchemeDark   = "dark"
)

// ValidSchemes returns all accepted colour scheme names.
func ValidSchemes() []string {
	return []string{SchemeSystem, SchemeLight, SchemeDark}
}

// IsDark resolves a colour scheme. "system" (or anything unrecognised)
// follows the terminal's background.
func IsDark(scheme string) bool {
	switch scheme {
	case SchemeDark:
		return true
	case SchemeLight:
		return false
	default:
		return lipgloss.HasDarkBackground()
	}
}

// Blend mixes a toward b by t in Lab space and returns a hex colour.
// If either colour does not parse, a is returned unchanged.
func Blend(a, b string, t float64) string {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	}
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendLab(cb, t).Clamped().Hex()
}

// Hex converts any colour to "#rrggbb". ok is false for a nil or fully
// transparent colour.
func Hex(c color.Color) (string, bool) {
	if c == nil {
		return "", false
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "", false
	}
	return cf.Hex(), true
}

// ParseHex parses "#rrggbb" (or "#rgb") into a colour.
func ParseHex(s string) (color.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, err
	}
	return c, nil
}
