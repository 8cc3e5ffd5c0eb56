package popup

import (
	"image/color"

	"github.com/jmylchreest/poptui/internal/anim"
	"github.com/jmylchreest/poptui/internal/geom"
)

// Layer is anything that can be attached to a Surface: a popup body, an
// overlay or a scroll wrapper.
type Layer interface {
	Frame() geom.Rect
}

// Surface is a container popups are shown against. Implementations must be
// comparable (pointer types); the queue compares surfaces for identity.
type Surface interface {
	Bounds() geom.Rect
	SafeAreaInsets() geom.Insets
	Attach(l Layer)
	Detach(l Layer)
}

// Overlay is the dimming backdrop shown behind a popup.
type Overlay interface {
	Layer
	Opacity() float64
	SetOpacity(v float64)
}

// ScrollSurface is the scrollable container a popup is wrapped in when
// WrapInScrollSurface is set. It is itself a surface the body attaches to.
type ScrollSurface interface {
	Layer
	Surface
}

// Toolkit creates companions and animates them. It is the host side of a
// controller.
//
// The overlay tap callback fires when the overlay is tapped. The scroll tap
// callback receives the tap location in the scroll surface's content
// coordinates, the same space the body's frame is expressed in.
type Toolkit interface {
	anim.Animator
	NewOverlay(frame geom.Rect, tint color.Color, onTap func()) Overlay
	NewScrollSurface(frame geom.Rect, content geom.Size, onTap func(geom.Point)) ScrollSurface
}

// Body is the popup's own layer. The host reads its frame, scale and opacity
// when rendering and draws Content however it likes.
type Body struct {
	frame   geom.Rect
	scale   float64
	opacity float64
	content any
	owner   *Controller
}

func newBody(owner *Controller, size geom.Size, content any) *Body {
	return &Body{
		frame:   geom.Rect{W: size.W, H: size.H},
		scale:   1,
		opacity: 1,
		content: content,
		owner:   owner,
	}
}

// Frame returns the body's current frame in its host surface.
func (b *Body) Frame() geom.Rect { return b.frame }

// Scale returns the current scale factor, 1 at rest.
func (b *Body) Scale() float64 { return b.scale }

// Opacity returns the current opacity, 1 at rest.
func (b *Body) Opacity() float64 { return b.opacity }

// Content returns the host-defined content.
func (b *Body) Content() any { return b.content }

// Controller returns the controller owning the body.
func (b *Body) Controller() *Controller { return b.owner }

func (b *Body) setY(y float64)       { b.frame.Y = y }
func (b *Body) setScale(v float64)   { b.scale = v }
func (b *Body) setOpacity(v float64) { b.opacity = v }

// rest puts the body back into its untransformed appearance.
func (b *Body) rest() {
	b.scale = 1
	b.opacity = 1
}
