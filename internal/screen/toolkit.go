package screen

import (
	imgcolor "image/color"
	"log/slog"

	"github.com/jmylchreest/poptui/internal/anim"
	"github.com/jmylchreest/poptui/internal/geom"
	"github.com/jmylchreest/poptui/internal/popup"
	"github.com/jmylchreest/poptui/internal/theme"
)

// Toolkit creates terminal companions for popup controllers and animates
// them with an anim.Animator.
type Toolkit struct {
	anim.Animator
	screen *Screen
	logger *slog.Logger
}

// ToolkitOption configures a Toolkit.
type ToolkitOption func(*Toolkit)

// WithLogger sets the toolkit's logger.
func WithLogger(l *slog.Logger) ToolkitOption {
	return func(t *Toolkit) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewToolkit creates a toolkit drawing on s. A nil animator completes every
// transition immediately.
func NewToolkit(s *Screen, a anim.Animator, opts ...ToolkitOption) *Toolkit {
	if a == nil {
		a = anim.Immediate{}
	}
	t := &Toolkit{
		Animator: a,
		screen:   s,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Screen returns the toolkit's screen.
func (t *Toolkit) Screen() *Screen { return t.screen }

// NewOverlay creates an overlay. A nil tint uses the palette's overlay colour.
func (t *Toolkit) NewOverlay(frame geom.Rect, tint imgcolor.Color, onTap func()) popup.Overlay {
	hex, ok := theme.Hex(tint)
	if !ok {
		hex = t.screen.colors.Overlay
	}
	t.logger.Debug("creating overlay", "frame", frame, "tint", hex)
	return NewOverlay(frame, hex, onTap)
}

// NewScrollSurface creates a scroll wrapper.
func (t *Toolkit) NewScrollSurface(frame geom.Rect, content geom.Size, onTap func(geom.Point)) popup.ScrollSurface {
	t.logger.Debug("creating scroll surface", "frame", frame, "content", content)
	return NewScroller(frame, content, onTap)
}

var _ popup.Toolkit = (*Toolkit)(nil)
