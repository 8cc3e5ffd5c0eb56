package popup

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jmylchreest/poptui/internal/geom"
)

// Delegate receives lifecycle notifications. It is called before the
// callbacks registered with OnShown and OnHidden.
type Delegate interface {
	PopupShown(c *Controller)
	PopupHidden(c *Controller)
}

// Controller owns one popup's lifecycle:
//
//	Hidden -> Showing -> Visible -> Hiding -> Hidden
//
// Showing and Hiding last while the toolkit runs the transition; the
// toolkit's completion callback moves the controller on.
type Controller struct {
	id      string
	queue   *Queue
	toolkit Toolkit
	logger  *slog.Logger
	opts    Options

	// Notification channels
	delegate Delegate
	onShown  func()
	onHidden func()

	// State
	state     State
	body      *Body
	parent    Surface // surface the popup was shown against
	host      Surface // surface the body is attached to
	overlay   Overlay
	scroll    ScrollSurface
	shownKind Kind
	span      trace.Span

	resumeAfterHide bool
	pendingHide     *hideConfig
	pendingShow     *Request

	// finishing is set while finishHide tears down and notifies, so that
	// Discard and completions arriving from the notifications don't start a
	// second teardown.
	finishing bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithOptions sets the controller's options.
func WithOptions(o Options) ControllerOption {
	return func(c *Controller) { c.SetOptions(o) }
}

// WithContent sets what the host renders inside the popup.
func WithContent(v any) ControllerOption {
	return func(c *Controller) { c.body.content = v }
}

// New creates a hidden controller sequenced by q and drawn by tk.
// A nil queue gives the controller a private one.
func New(q *Queue, tk Toolkit, opts ...ControllerOption) *Controller {
	if q == nil {
		q = NewQueue()
	}
	c := &Controller{
		id:      ulid.Make().String(),
		queue:   q,
		toolkit: tk,
		logger:  q.logger,
		opts:    DefaultOptions(),
	}
	c.body = newBody(c, c.opts.Size, nil)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the controller's unique identifier.
func (c *Controller) ID() string { return c.id }

// State returns the current visibility state.
func (c *Controller) State() State { return c.state }

// Queue returns the queue the controller is sequenced by.
func (c *Controller) Queue() *Queue { return c.queue }

// Body returns the popup's layer.
func (c *Controller) Body() *Body { return c.body }

// Parent returns the surface the popup is shown against, or nil when hidden.
func (c *Controller) Parent() Surface { return c.parent }

// Overlay returns the current overlay companion, if any.
func (c *Controller) Overlay() Overlay { return c.overlay }

// ScrollSurface returns the current scroll wrapper companion, if any.
func (c *Controller) ScrollSurface() ScrollSurface { return c.scroll }

// Options returns the controller's options.
func (c *Controller) Options() Options { return c.opts }

// SetOptions replaces the options. They take effect on the next Show.
func (c *Controller) SetOptions(o Options) {
	if o.Size.W <= 0 || o.Size.H <= 0 {
		o.Size = c.opts.Size
	}
	c.opts = o
	if c.state == StateHidden {
		c.body.frame = c.body.frame.WithSize(o.Size)
	}
}

// SetContent replaces what the host renders inside the popup.
func (c *Controller) SetContent(v any) { c.body.content = v }

// SetDelegate sets the delegate notified on shown and hidden.
func (c *Controller) SetDelegate(d Delegate) { c.delegate = d }

// OnShown sets the callback run once the popup is visible.
func (c *Controller) OnShown(cb func()) { c.onShown = cb }

// OnHidden sets the callback run once the popup is hidden.
func (c *Controller) OnHidden(cb func()) { c.onHidden = cb }

// ComputeAutoPlacement returns where an auto-placed popup goes inside
// container, according to RelativeAnchor.
func (c *Controller) ComputeAutoPlacement(container geom.Rect) geom.Rect {
	return geom.Place(container, c.opts.Size, c.opts.RelativeAnchor)
}

// Show asks for the popup to be shown against parent.
//
// Unless Immediately is given, the request goes through the queue: if
// another popup is current, Show records the request and returns without
// visible change. Show is a no-op while the popup is showing or visible.
// Called while the popup is hiding, the request is replayed once the hide
// completes.
func (c *Controller) Show(parent Surface, opts ...ShowOption) *Controller {
	c.show(NewRequest(c, parent, opts...))
	return c
}

func (c *Controller) show(req Request) {
	switch c.state {
	case StateShowing:
		c.pendingHide = nil
		return
	case StateVisible:
		return
	case StateHiding:
		if req.Parent == nil {
			return
		}
		req.Immediate = false
		c.pendingShow = &req
		return
	}

	if req.Parent == nil {
		c.logger.Warn("popup shown without a parent surface", "popup_id", c.id)
		return
	}

	c.resumeAfterHide = true

	if !req.Immediate {
		if c.queue.Current() != c {
			c.queue.Enqueue(req)
		}
		if c.queue.Current() != c {
			return
		}
	}

	c.present(req)
}

// present performs Hidden -> Showing.
func (c *Controller) present(req Request) {
	parent := req.Parent
	kind := req.Kind.resolve(KindScaleIn)
	c.parent = parent
	c.shownKind = kind
	c.transition(StateShowing, kind)

	available := parent.Bounds()
	area := available
	if c.opts.RespectsSafeArea {
		area = area.Inset(parent.SafeAreaInsets())
	}

	if c.opts.HasOverlay {
		c.overlay = c.toolkit.NewOverlay(available, c.opts.OverlayTint, c.overlayTapped)
		parent.Attach(c.overlay)
	}

	frame := c.ComputeAutoPlacement(area)
	if req.Frame != nil {
		frame = *req.Frame
	}

	var host Surface = parent
	if c.opts.WrapInScrollSurface {
		content := geom.Size{W: available.W, H: frame.MaxY()}
		c.scroll = c.toolkit.NewScrollSurface(available, content, c.scrollTapped)
		parent.Attach(c.scroll)
		host = c.scroll
	}
	c.host = host

	if kind != KindNone && c.overlay != nil {
		c.toolkit.Play(c.overlay, overlayIn(c.overlay), nil)
	}

	c.body.frame = frame
	c.body.rest()
	host.Attach(c.body)
	c.toolkit.Play(c.body, transitionIn(kind, c.body, host.Bounds()), c.finishShow)
}

// finishShow performs Showing -> Visible.
func (c *Controller) finishShow() {
	if c.state != StateShowing {
		return
	}
	c.transition(StateVisible, c.shownKind)

	if c.delegate != nil {
		c.delegate.PopupShown(c)
	}
	if c.onShown != nil {
		c.onShown()
	}

	if h := c.pendingHide; h != nil {
		c.pendingHide = nil
		c.hide(*h)
	}
}

// Hide hides the popup and, unless WithoutResume is given, promotes the next
// queued popup once it is gone.
//
// A popup that is still queued is simply withdrawn. Hide during the show
// transition takes effect as soon as the popup becomes visible. Hide on a
// hidden, unqueued popup does nothing.
func (c *Controller) Hide(opts ...HideOption) *Controller {
	h := hideConfig{resume: true, animated: true}
	for _, opt := range opts {
		opt(&h)
	}
	c.hide(h)
	return c
}

func (c *Controller) hide(h hideConfig) {
	switch c.state {
	case StateHidden:
		if c.queue.Contains(c) {
			c.queue.Withdraw(c)
			if h.resume {
				c.queue.DequeueNext()
			}
		}
		return
	case StateShowing:
		c.pendingHide = &h
		return
	case StateHiding:
		c.resumeAfterHide = h.resume
		c.pendingShow = nil
		return
	}

	c.resumeAfterHide = h.resume

	kind := c.opts.HideKind.resolve(c.shownKind)
	if !h.animated {
		kind = KindNone
	}
	c.transition(StateHiding, kind)

	if kind != KindNone && c.overlay != nil {
		c.toolkit.Play(c.overlay, overlayOut(c.overlay), nil)
	}
	c.toolkit.Play(c.body, transitionOut(kind, c.body, c.host.Bounds()), c.finishHide)
}

// finishHide tears the popup down and performs Hiding -> Hidden.
func (c *Controller) finishHide() {
	if c.state != StateHiding || c.finishing {
		return
	}
	c.finishing = true

	if c.overlay != nil {
		c.toolkit.Cancel(c.overlay)
		c.parent.Detach(c.overlay)
		c.overlay = nil
	}
	if c.scroll != nil {
		c.parent.Detach(c.scroll)
		c.scroll = nil
	}
	if c.host != nil {
		c.host.Detach(c.body)
		c.host = nil
	}
	c.parent = nil
	c.body.rest()

	if c.delegate != nil {
		c.delegate.PopupHidden(c)
	}
	if c.onHidden != nil {
		c.onHidden()
	}

	c.queue.Withdraw(c)
	if c.resumeAfterHide {
		c.queue.DequeueNext()
	}

	c.transition(StateHidden, c.shownKind)
	c.finishing = false

	if req := c.pendingShow; req != nil {
		c.pendingShow = nil
		c.show(*req)
	}
}

// Discard is called when the popup leaves the application for good. It
// withdraws the popup from the queue and tears it down without animation,
// promoting the next queued popup if this one was current. A popup already
// hiding keeps the resume choice its Hide was given.
//
// Discard from inside the popup's own hide notifications only drops a
// pending re-show; the teardown in progress completes as it is.
func (c *Controller) Discard() {
	c.pendingShow = nil
	c.pendingHide = nil

	if c.finishing {
		return
	}

	if c.state == StateHidden {
		wasCurrent := c.queue.Current() == c
		c.queue.Withdraw(c)
		if wasCurrent {
			c.queue.DequeueNext()
		}
		return
	}

	c.toolkit.Cancel(c.body)
	if c.state != StateHiding {
		c.resumeAfterHide = true
		c.transition(StateHiding, KindNone)
	}
	c.finishHide()
}

func (c *Controller) overlayTapped() {
	if !c.opts.ClosesFromOverlayTap {
		return
	}
	c.Hide()
}

func (c *Controller) scrollTapped(p geom.Point) {
	if c.body.Frame().Contains(p) {
		return
	}
	c.overlayTapped()
}

// attachedTo reports whether the popup is on screen against parent.
func (c *Controller) attachedTo(parent Surface) bool {
	return c != nil && c.state != StateHidden && c.parent == parent
}

func (c *Controller) transition(to State, kind Kind) {
	from := c.state
	c.state = to

	c.logger.Debug("popup state changed",
		"popup_id", c.id,
		"from", from,
		"to", to,
		"kind", kind,
	)

	switch to {
	case StateShowing:
		c.startSpan("popup.show", kind)
	case StateHiding:
		c.startSpan("popup.hide", kind)
	default:
		c.endSpan()
	}
}

func (c *Controller) startSpan(name string, kind Kind) {
	c.endSpan()
	_, c.span = c.queue.tracer.Start(context.Background(), name,
		trace.WithAttributes(
			attribute.String("popup.id", c.id),
			attribute.String("popup.kind", kind.String()),
			attribute.Int("popup.queue_size", c.queue.Len()),
		),
	)
}

func (c *Controller) endSpan() {
	if c.span == nil {
		return
	}
	c.span.End()
	c.span = nil
}
