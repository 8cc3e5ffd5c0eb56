package popup

import (
	"image/color"

	"github.com/jmylchreest/poptui/internal/geom"
)

// Options configure a controller. They are read when Show starts a
// transition, so changes apply to the next presentation.
type Options struct {
	// HasOverlay adds a dimming overlay behind the popup.
	HasOverlay bool
	// HideKind is the transition used to hide; KindAutomatic mirrors the
	// kind the popup was shown with.
	HideKind Kind
	// ClosesFromOverlayTap hides the popup when the overlay, or the scroll
	// wrapper outside the popup, is tapped.
	ClosesFromOverlayTap bool
	// RespectsSafeArea insets the auto-placement area by the parent's
	// safe-area insets.
	RespectsSafeArea bool
	// WrapInScrollSurface inserts a scroll wrapper between the parent and
	// the popup.
	WrapInScrollSurface bool
	// OverlayTint is the overlay colour; nil lets the toolkit pick.
	OverlayTint color.Color
	// RelativeAnchor positions an auto-placed popup; (0.5, 0.5) centres it.
	RelativeAnchor geom.Point
	// Size is the popup's size used by auto-placement.
	Size geom.Size
}

// DefaultOptions mirrors the stock popup: overlay on, closes from the
// overlay, honours safe areas, centred.
func DefaultOptions() Options {
	return Options{
		HasOverlay:           true,
		HideKind:             KindAutomatic,
		ClosesFromOverlayTap: true,
		RespectsSafeArea:     true,
		RelativeAnchor:       geom.Center,
		Size:                 geom.Size{W: 40, H: 9},
	}
}

// ShowOption adjusts a single Show call.
type ShowOption func(*Request)

// WithFrame places the popup at an explicit frame instead of auto-placing.
func WithFrame(r geom.Rect) ShowOption {
	return func(req *Request) {
		f := r
		req.Frame = &f
	}
}

// WithKind selects the transition kind.
func WithKind(k Kind) ShowOption {
	return func(req *Request) { req.Kind = k }
}

// Immediately bypasses the queue.
func Immediately() ShowOption {
	return func(req *Request) { req.Immediate = true }
}

type hideConfig struct {
	resume   bool
	animated bool
}

// HideOption adjusts a single Hide call.
type HideOption func(*hideConfig)

// WithoutResume stops the next queued popup from being promoted after this
// one hides.
func WithoutResume() HideOption {
	return func(h *hideConfig) { h.resume = false }
}

// WithoutAnimation hides instantly.
func WithoutAnimation() HideOption {
	return func(h *hideConfig) { h.animated = false }
}
