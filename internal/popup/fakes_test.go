package popup

import (
	"image/color"
	"slices"
	"time"

	"github.com/jmylchreest/poptui/internal/anim"
	"github.com/jmylchreest/poptui/internal/geom"
)

type fakeSurface struct {
	bounds geom.Rect
	insets geom.Insets
	layers []Layer
}

func newFakeSurface(w, h float64) *fakeSurface {
	return &fakeSurface{bounds: geom.R(0, 0, w, h)}
}

func (s *fakeSurface) Bounds() geom.Rect           { return s.bounds }
func (s *fakeSurface) SafeAreaInsets() geom.Insets { return s.insets }
func (s *fakeSurface) Attach(l Layer)              { s.layers = append(s.layers, l) }
func (s *fakeSurface) Detach(l Layer) {
	s.layers = slices.DeleteFunc(s.layers, func(x Layer) bool { return x == l })
}

type fakeOverlay struct {
	frame   geom.Rect
	tint    color.Color
	opacity float64
	onTap   func()
}

func (o *fakeOverlay) Frame() geom.Rect     { return o.frame }
func (o *fakeOverlay) Opacity() float64     { return o.opacity }
func (o *fakeOverlay) SetOpacity(v float64) { o.opacity = v }

type fakeScroll struct {
	fakeSurface
	frame   geom.Rect
	content geom.Size
	onTap   func(geom.Point)
}

func (s *fakeScroll) Frame() geom.Rect { return s.frame }

type fakeToolkit struct {
	anim.Animator
	overlays []*fakeOverlay
	scrolls  []*fakeScroll
}

func (tk *fakeToolkit) NewOverlay(frame geom.Rect, tint color.Color, onTap func()) Overlay {
	o := &fakeOverlay{frame: frame, tint: tint, onTap: onTap}
	tk.overlays = append(tk.overlays, o)
	return o
}

func (tk *fakeToolkit) NewScrollSurface(frame geom.Rect, content geom.Size, onTap func(geom.Point)) ScrollSurface {
	s := &fakeScroll{
		fakeSurface: fakeSurface{bounds: geom.R(0, 0, frame.W, frame.H)},
		frame:       frame,
		content:     content,
		onTap:       onTap,
	}
	tk.scrolls = append(tk.scrolls, s)
	return s
}

func (tk *fakeToolkit) lastOverlay() *fakeOverlay {
	if len(tk.overlays) == 0 {
		return nil
	}
	return tk.overlays[len(tk.overlays)-1]
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

// harness drives controllers with a manual clock.
type harness struct {
	clock   *fakeClock
	engine  *anim.Engine
	toolkit *fakeToolkit
	queue   *Queue
	parent  *fakeSurface
}

func newHarness(opts ...QueueOption) *harness {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	engine := anim.NewEngine(anim.WithClock(clock.now))
	return &harness{
		clock:   clock,
		engine:  engine,
		toolkit: &fakeToolkit{Animator: engine},
		queue:   NewQueue(append([]QueueOption{WithClock(clock.now)}, opts...)...),
		parent:  newFakeSurface(300, 600),
	}
}

func (h *harness) advance(d time.Duration) {
	h.clock.t = h.clock.t.Add(d)
	h.engine.Advance(h.clock.t)
}

func (h *harness) newController(opts ...ControllerOption) *Controller {
	return New(h.queue, h.toolkit, opts...)
}

// recorder captures delegate and callback notifications in order.
type recorder struct {
	events []string
}

func (r *recorder) PopupShown(c *Controller)  { r.events = append(r.events, "delegate:shown:"+c.ID()) }
func (r *recorder) PopupHidden(c *Controller) { r.events = append(r.events, "delegate:hidden:"+c.ID()) }

func (r *recorder) watch(c *Controller) {
	c.SetDelegate(r)
	c.OnShown(func() { r.events = append(r.events, "shown:"+c.ID()) })
	c.OnHidden(func() { r.events = append(r.events, "hidden:"+c.ID()) })
}

// discardingDelegate discards the popup from its hidden notification.
type discardingDelegate struct {
	hidden int
}

func (d *discardingDelegate) PopupShown(*Controller) {}

func (d *discardingDelegate) PopupHidden(c *Controller) {
	d.hidden++
	c.Discard()
}
