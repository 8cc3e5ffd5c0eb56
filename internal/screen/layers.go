package screen

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/jmylchreest/poptui/internal/geom"
	"github.com/jmylchreest/poptui/internal/popup"
)

// Overlay dims whatever lies beneath its frame.
type Overlay struct {
	frame   geom.Rect
	tint    string
	opacity float64
	onTap   func()
}

// NewOverlay creates a transparent overlay. tint is a hex colour.
func NewOverlay(frame geom.Rect, tint string, onTap func()) *Overlay {
	return &Overlay{frame: frame, tint: tint, onTap: onTap}
}

func (o *Overlay) Frame() geom.Rect     { return o.frame }
func (o *Overlay) Opacity() float64     { return o.opacity }
func (o *Overlay) SetOpacity(v float64) { o.opacity = v }

// Tint returns the overlay's hex colour.
func (o *Overlay) Tint() string { return o.tint }

// Scroller is a scroll wrapper: a surface of its own whose content can be
// taller than its frame. Content coordinates start at (0, 0) in the
// scroller's top-left corner.
type Scroller struct {
	frame   geom.Rect
	content geom.Size
	layers  []popup.Layer
	vp      viewport.Model
	onTap   func(geom.Point)
}

// NewScroller creates a scroller over frame with the given content size.
func NewScroller(frame geom.Rect, content geom.Size, onTap func(geom.Point)) *Scroller {
	_, _, w, h := frame.Cells()
	s := &Scroller{
		frame:   frame,
		content: content,
		vp:      viewport.New(w, h),
		onTap:   onTap,
	}
	s.vp.SetContent(strings.Repeat("\n", max(s.contentRows()-1, 0)))
	return s
}

func (s *Scroller) Frame() geom.Rect { return s.frame }

// Bounds is the scrollable content area.
func (s *Scroller) Bounds() geom.Rect {
	return geom.R(0, 0, max(s.frame.W, s.content.W), max(s.frame.H, s.content.H))
}

func (s *Scroller) SafeAreaInsets() geom.Insets { return geom.Insets{} }

func (s *Scroller) Attach(l popup.Layer) {
	if !slices.Contains(s.layers, l) {
		s.layers = append(s.layers, l)
	}
}

func (s *Scroller) Detach(l popup.Layer) {
	s.layers = slices.DeleteFunc(s.layers, func(x popup.Layer) bool { return x == l })
}

// Layers returns the attached layers, bottom first.
func (s *Scroller) Layers() []popup.Layer { return slices.Clone(s.layers) }

// Offset returns how many rows the content is scrolled by.
func (s *Scroller) Offset() int { return s.vp.YOffset }

// ScrollBy scrolls by delta rows, clamped to the content.
func (s *Scroller) ScrollBy(delta int) {
	s.vp.SetYOffset(s.vp.YOffset + delta)
}

// toContent converts a point in the scroller's parent to content coordinates.
func (s *Scroller) toContent(p geom.Point) geom.Point {
	return geom.Point{
		X: p.X - s.frame.X,
		Y: p.Y - s.frame.Y + float64(s.vp.YOffset),
	}
}

func (s *Scroller) contentRows() int {
	_, _, _, h := s.Bounds().Cells()
	return h
}

func (s *Scroller) resize(frame geom.Rect) {
	s.frame = frame
	_, _, w, h := frame.Cells()
	offset := s.vp.YOffset
	s.vp = viewport.New(w, h)
	s.vp.SetContent(strings.Repeat("\n", max(s.contentRows()-1, 0)))
	s.vp.SetYOffset(offset)
}
