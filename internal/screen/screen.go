package screen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/jmylchreest/poptui/internal/geom"
	"github.com/jmylchreest/poptui/internal/popup"
	"github.com/jmylchreest/poptui/internal/theme"
)

// Content is popup body content the screen knows how to draw. Bodies whose
// content does not implement it are drawn as plain text.
type Content interface {
	Render(width, height int, opacity float64) string
}

// Screen is the root surface popups are shown against.
type Screen struct {
	width, height int
	insets        geom.Insets
	layers        []popup.Layer

	colors theme.Colors
	alpha  float64
}

// New creates a screen of w x h cells.
func New(w, h int) *Screen {
	p := theme.NewDefaultTheme().Palette
	return &Screen{
		width:  w,
		height: h,
		colors: p.Dark,
		alpha:  p.OverlayAlpha,
	}
}

// Size returns the screen size in cells.
func (s *Screen) Size() (w, h int) { return s.width, s.height }

// Resize changes the screen size. Full-screen companions follow.
func (s *Screen) Resize(w, h int) {
	old := s.Bounds()
	s.width, s.height = w, h
	for _, l := range s.layers {
		switch l := l.(type) {
		case *Overlay:
			if l.frame == old {
				l.frame = s.Bounds()
			}
		case *Scroller:
			if l.frame == old {
				l.resize(s.Bounds())
			}
		}
	}
}

// SetSafeArea sets the insets auto-placement keeps clear of, typically
// header and footer rows.
func (s *Screen) SetSafeArea(in geom.Insets) { s.insets = in }

// SetPalette sets the colours the overlay dims toward and the dimming
// strength at full overlay opacity.
func (s *Screen) SetPalette(colors theme.Colors, alpha float64) {
	s.colors = colors
	s.alpha = alpha
}

// Colors returns the current palette variant.
func (s *Screen) Colors() theme.Colors { return s.colors }

func (s *Screen) Bounds() geom.Rect {
	return geom.R(0, 0, float64(s.width), float64(s.height))
}

func (s *Screen) SafeAreaInsets() geom.Insets { return s.insets }

func (s *Screen) Attach(l popup.Layer) {
	if !slices.Contains(s.layers, l) {
		s.layers = append(s.layers, l)
	}
}

func (s *Screen) Detach(l popup.Layer) {
	s.layers = slices.DeleteFunc(s.layers, func(x popup.Layer) bool { return x == l })
}

// Layers returns the attached layers, bottom first.
func (s *Screen) Layers() []popup.Layer { return slices.Clone(s.layers) }

// Render composites every layer over background.
func (s *Screen) Render(background string) string {
	if s.width <= 0 || s.height <= 0 {
		return background
	}
	lines := canvas(background, s.width, s.height)
	for _, l := range s.layers {
		s.draw(lines, l)
	}
	return strings.Join(lines, "\n")
}

func (s *Screen) draw(lines []string, l popup.Layer) {
	switch l := l.(type) {
	case *Overlay:
		dim(lines, s.width, l.frame, s.colors, l.tint, s.alpha*l.opacity)
	case *Scroller:
		s.drawScroller(lines, l)
	case *popup.Body:
		drawBody(lines, s.width, l)
	}
}

// drawScroller renders the scroller's content through its viewport and
// copies only the cells its layers cover, leaving the rest transparent.
func (s *Screen) drawScroller(lines []string, sc *Scroller) {
	_, _, w, _ := sc.frame.Cells()
	content := canvas("", w, sc.contentRows())
	for _, l := range sc.layers {
		if b, ok := l.(*popup.Body); ok {
			drawBody(content, w, b)
		}
	}
	sc.vp.SetContent(strings.Join(content, "\n"))
	view := strings.Split(sc.vp.View(), "\n")

	fx, fy, _, fh := sc.frame.Cells()
	top := sc.vp.YOffset
	for _, l := range sc.layers {
		b, ok := l.(*popup.Body)
		if !ok {
			continue
		}
		x0, y0, x1, y1 := clip(scaled(b.Frame(), b.Scale()), w, len(content))
		for y := max(y0, top); y < min(y1, top+fh); y++ {
			row := y - top
			if row >= len(view) {
				break
			}
			seg := ansi.Cut(view[row], x0, x1)
			blit(lines, s.width, fx+x0, fy+row, seg)
		}
	}
}

// drawBody draws a popup body at its animated frame.
func drawBody(lines []string, width int, b *popup.Body) {
	if b.Opacity() <= 0.01 {
		return
	}
	x, y, w, h := scaled(b.Frame(), b.Scale()).Cells()
	if w < 3 || h < 3 {
		return
	}

	var block string
	switch c := b.Content().(type) {
	case Content:
		block = c.Render(w, h, b.Opacity())
	case nil:
		block = (&Card{}).Render(w, h, b.Opacity())
	default:
		block = (&Card{Body: fmt.Sprint(c)}).Render(w, h, b.Opacity())
	}
	blit(lines, width, x, y, block)
}

// Tap delivers a click at (x, y) to the topmost layer under it and reports
// whether any layer took it.
func (s *Screen) Tap(x, y int) bool {
	p := geom.Point{X: float64(x), Y: float64(y)}
	layers := s.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		switch l := layers[i].(type) {
		case *Scroller:
			if !l.frame.Contains(p) {
				continue
			}
			cp := l.toContent(p)
			for _, child := range l.layers {
				if child.Frame().Contains(cp) {
					return true
				}
			}
			if l.onTap != nil {
				l.onTap(cp)
			}
			return true
		case *Overlay:
			if !l.frame.Contains(p) {
				continue
			}
			if l.onTap != nil {
				l.onTap()
			}
			return true
		default:
			if l.Frame().Contains(p) {
				return true
			}
		}
	}
	return false
}

// Scroll scrolls the topmost scroller under (x, y) by delta rows.
func (s *Screen) Scroll(x, y, delta int) bool {
	p := geom.Point{X: float64(x), Y: float64(y)}
	for i := len(s.layers) - 1; i >= 0; i-- {
		if sc, ok := s.layers[i].(*Scroller); ok && sc.frame.Contains(p) {
			sc.ScrollBy(delta)
			return true
		}
	}
	return false
}
