package popup

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is a transition style used to show or hide a popup.
type Kind int

const (
	// KindAutomatic resolves to a default at show or hide time.
	KindAutomatic Kind = iota
	KindNone
	KindScaleIn
	KindPopup
	KindFadeIn
	KindTopBottom
	KindBottomTop
)

// ErrUnknownKind is returned when parsing an unrecognised kind name.
var ErrUnknownKind = errors.New("unknown transition kind")

var kindNames = map[Kind]string{
	KindAutomatic: "automatic",
	KindNone:      "none",
	KindScaleIn:   "scale-in",
	KindPopup:     "popup",
	KindFadeIn:    "fade-in",
	KindTopBottom: "top-bottom",
	KindBottomTop: "bottom-top",
}

// Kinds returns every concrete kind, excluding KindAutomatic.
func Kinds() []Kind {
	return []Kind{KindNone, KindScaleIn, KindPopup, KindFadeIn, KindTopBottom, KindBottomTop}
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind parses a kind name. Matching ignores case, and underscores or
// camel case are accepted ("scale_in", "scaleIn").
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "_", "-")
	for k, name := range kindNames {
		if norm == name || norm == strings.ReplaceAll(name, "-", "") {
			return k, nil
		}
	}
	if norm == "" {
		return KindAutomatic, nil
	}
	return KindAutomatic, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// resolve replaces KindAutomatic with fallback.
func (k Kind) resolve(fallback Kind) Kind {
	if k == KindAutomatic {
		return fallback
	}
	return k
}

// State is a controller's visibility state.
type State int

const (
	StateHidden State = iota
	StateShowing
	StateVisible
	StateHiding
)

func (s State) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateShowing:
		return "showing"
	case StateVisible:
		return "visible"
	case StateHiding:
		return "hiding"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
