package popup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jmylchreest/poptui/internal/anim"
	"github.com/jmylchreest/poptui/internal/geom"
)

func TestController_HideWhenHiddenIsNoop(t *testing.T) {
	h := newHarness()
	c := h.newController()
	rec := &recorder{}
	rec.watch(c)

	c.Hide()

	assert.Equal(t, StateHidden, c.State())
	assert.Empty(t, rec.events)
	assert.Equal(t, 0, h.queue.Len())
	assert.Empty(t, h.parent.layers)
}

func TestController_ShowThenHideNotifiesInOrder(t *testing.T) {
	h := newHarness()
	c := h.newController()
	rec := &recorder{}
	rec.watch(c)

	c.Show(h.parent)
	assert.Equal(t, StateShowing, c.State())

	// Requested mid-transition; takes effect once visible.
	c.Hide()
	assert.Equal(t, StateShowing, c.State())

	h.advance(scaleInDuration)
	assert.Equal(t, StateHiding, c.State())

	h.advance(hideDuration)
	assert.Equal(t, StateHidden, c.State())

	id := c.ID()
	assert.Equal(t, []string{
		"delegate:shown:" + id,
		"shown:" + id,
		"delegate:hidden:" + id,
		"hidden:" + id,
	}, rec.events)
	assert.Empty(t, h.parent.layers)
	assert.Nil(t, c.Parent())
	assert.Equal(t, 0, h.queue.Len())
}

func TestController_ComputeAutoPlacement(t *testing.T) {
	tests := []struct {
		name   string
		anchor geom.Point
		want   geom.Rect
	}{
		{name: "centre", anchor: geom.Center, want: geom.R(100, 250, 100, 100)},
		{name: "origin", anchor: geom.Point{X: 0, Y: 0}, want: geom.R(0, 0, 100, 100)},
		{name: "far corner", anchor: geom.Point{X: 1, Y: 1}, want: geom.R(200, 500, 100, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.RelativeAnchor = tt.anchor
			opts.Size = geom.Size{W: 100, H: 100}
			c := New(nil, &fakeToolkit{Animator: anim.Immediate{}}, WithOptions(opts))

			assert.Equal(t, tt.want, c.ComputeAutoPlacement(geom.R(0, 0, 300, 600)))
		})
	}
}

func TestController_QueuedPopupWaitsForCurrent(t *testing.T) {
	h := newHarness()
	a := h.newController()
	b := h.newController()

	visible := 0
	maxVisible := 0
	for _, c := range []*Controller{a, b} {
		c.OnShown(func() {
			visible++
			maxVisible = max(maxVisible, visible)
		})
		c.OnHidden(func() { visible-- })
	}

	a.Show(h.parent)
	b.Show(h.parent)
	assert.Equal(t, StateShowing, a.State())
	assert.Equal(t, StateHidden, b.State())
	assert.Equal(t, 2, h.queue.Len())

	h.advance(scaleInDuration)
	assert.Equal(t, StateVisible, a.State())
	assert.Equal(t, StateHidden, b.State())

	a.Hide()
	h.advance(hideDuration / 2)
	assert.Equal(t, StateHiding, a.State())
	assert.Equal(t, StateHidden, b.State())

	h.advance(hideDuration)
	assert.Equal(t, StateHidden, a.State())
	assert.Equal(t, StateShowing, b.State())
	assert.Same(t, b, h.queue.Current())

	h.advance(scaleInDuration)
	assert.Equal(t, StateVisible, b.State())
	assert.Equal(t, 1, maxVisible)
}

func TestController_ShowAtHeadIsIdempotent(t *testing.T) {
	h := newHarness()
	c := h.newController()

	c.Show(h.parent)
	h.advance(scaleInDuration / 2)
	scale := c.Body().Scale()

	c.Show(h.parent)
	assert.Len(t, h.toolkit.overlays, 1)
	assert.Len(t, h.parent.layers, 2)
	assert.Equal(t, 2, h.engine.Running())
	assert.Equal(t, scale, c.Body().Scale())

	h.advance(overlayFadeDuration)
	require.Equal(t, StateVisible, c.State())

	h.queue.DequeueNext()
	c.Show(h.parent)
	assert.Len(t, h.toolkit.overlays, 1)
	assert.Len(t, h.parent.layers, 2)
	assert.Equal(t, 0, h.engine.Running())
}

func TestController_NoneKindRoundTripIsSynchronous(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	h := newHarness(WithTracer(tp.Tracer("test")))
	c := h.newController()
	events := &recorder{}
	events.watch(c)

	c.Show(h.parent, WithKind(KindNone))
	assert.Equal(t, StateVisible, c.State())
	assert.Equal(t, 0, h.engine.Running())

	c.Hide()
	assert.Equal(t, StateHidden, c.State())
	assert.Equal(t, 0, h.engine.Running())
	assert.Len(t, events.events, 4)

	ended := rec.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "popup.show", ended[0].Name())
	assert.Equal(t, "popup.hide", ended[1].Name())
	for _, span := range ended {
		attrs := map[string]string{}
		for _, kv := range span.Attributes() {
			attrs[string(kv.Key)] = kv.Value.Emit()
		}
		assert.Equal(t, c.ID(), attrs["popup.id"])
		assert.Equal(t, "none", attrs["popup.kind"])
	}
}

func TestController_Overlay(t *testing.T) {
	t.Run("fades with the popup", func(t *testing.T) {
		h := newHarness()
		c := h.newController()

		c.Show(h.parent)
		o := h.toolkit.lastOverlay()
		require.NotNil(t, o)
		assert.Equal(t, h.parent.bounds, o.Frame())
		assert.Equal(t, 0.0, o.Opacity())

		h.advance(overlayFadeDuration)
		assert.InDelta(t, 1.0, o.Opacity(), 1e-9)
		assert.Same(t, o, c.Overlay())

		c.Hide()
		h.advance(hideDuration)
		assert.Equal(t, StateHidden, c.State())
		assert.NotContains(t, h.parent.layers, Layer(o))
		assert.Nil(t, c.Overlay())
		assert.Equal(t, 0, h.engine.Running())
	})

	t.Run("not created when disabled", func(t *testing.T) {
		h := newHarness()
		opts := DefaultOptions()
		opts.HasOverlay = false
		c := h.newController(WithOptions(opts))

		c.Show(h.parent)
		assert.Empty(t, h.toolkit.overlays)
		assert.Len(t, h.parent.layers, 1)
	})

	t.Run("tap hides", func(t *testing.T) {
		h := newHarness()
		c := h.newController()
		c.Show(h.parent, WithKind(KindNone))

		h.toolkit.lastOverlay().onTap()
		assert.Equal(t, StateHidden, c.State())
	})

	t.Run("tap ignored when not closing from overlay", func(t *testing.T) {
		h := newHarness()
		opts := DefaultOptions()
		opts.ClosesFromOverlayTap = false
		c := h.newController(WithOptions(opts))
		c.Show(h.parent, WithKind(KindNone))

		h.toolkit.lastOverlay().onTap()
		assert.Equal(t, StateVisible, c.State())
	})
}

func TestController_ScrollWrapper(t *testing.T) {
	h := newHarness()
	opts := DefaultOptions()
	opts.WrapInScrollSurface = true
	opts.Size = geom.Size{W: 100, H: 100}
	c := h.newController(WithOptions(opts))

	c.Show(h.parent, WithKind(KindNone))
	require.Len(t, h.toolkit.scrolls, 1)
	s := h.toolkit.scrolls[0]

	assert.Same(t, s, c.ScrollSurface())
	assert.Contains(t, h.parent.layers, Layer(s))
	assert.NotContains(t, h.parent.layers, Layer(c.Body()))
	assert.Contains(t, s.layers, Layer(c.Body()))
	assert.Equal(t, 350.0, s.content.H)

	// Inside the popup.
	s.onTap(geom.Point{X: 150, Y: 300})
	assert.Equal(t, StateVisible, c.State())

	// Outside it.
	s.onTap(geom.Point{X: 10, Y: 10})
	assert.Equal(t, StateHidden, c.State())
	assert.Empty(t, h.parent.layers)
	assert.Empty(t, s.layers)
	assert.Nil(t, c.ScrollSurface())
}

func TestController_RespectsSafeArea(t *testing.T) {
	h := newHarness()
	h.parent.insets = geom.Insets{Top: 20, Bottom: 40}

	opts := DefaultOptions()
	opts.Size = geom.Size{W: 100, H: 100}
	opts.RelativeAnchor = geom.Point{X: 0, Y: 1}
	c := h.newController(WithOptions(opts))
	c.Show(h.parent, WithKind(KindNone))
	assert.Equal(t, geom.R(0, 460, 100, 100), c.Body().Frame())
	c.Hide()

	opts.RespectsSafeArea = false
	c.SetOptions(opts)
	c.Show(h.parent, WithKind(KindNone))
	assert.Equal(t, geom.R(0, 500, 100, 100), c.Body().Frame())
}

func TestController_ExplicitFrame(t *testing.T) {
	h := newHarness()
	c := h.newController()

	c.Show(h.parent, WithFrame(geom.R(5, 6, 20, 10)), WithKind(KindNone))
	assert.Equal(t, geom.R(5, 6, 20, 10), c.Body().Frame())
}

func TestController_Transitions(t *testing.T) {
	t.Run("slide from the bottom", func(t *testing.T) {
		h := newHarness()
		c := h.newController()

		c.Show(h.parent, WithKind(KindBottomTop))
		target := c.ComputeAutoPlacement(h.parent.Bounds()).Y
		assert.Equal(t, 600.0, c.Body().Frame().Y)

		h.advance(slideInDuration)
		assert.InDelta(t, target, c.Body().Frame().Y, 1e-9)

		c.Hide()
		h.advance(hideDuration)
		assert.Equal(t, StateHidden, c.State())
		assert.Equal(t, 600.0, c.Body().Frame().Y)
	})

	t.Run("slide from the top", func(t *testing.T) {
		h := newHarness()
		c := h.newController()

		c.Show(h.parent, WithKind(KindTopBottom))
		assert.Equal(t, -c.Body().Frame().H, c.Body().Frame().Y)
	})

	t.Run("hide mirrors show kind", func(t *testing.T) {
		h := newHarness()
		c := h.newController()

		c.Show(h.parent, WithKind(KindFadeIn))
		assert.Equal(t, 0.0, c.Body().Opacity())
		h.advance(fadeInDuration)
		assert.InDelta(t, 1.0, c.Body().Opacity(), 1e-9)
		assert.Equal(t, 1.0, c.Body().Scale())

		c.Hide()
		h.advance(hideDuration / 2)
		assert.Less(t, c.Body().Opacity(), 1.0)
		assert.Equal(t, 1.0, c.Body().Scale())

		h.advance(hideDuration)
		assert.Equal(t, StateHidden, c.State())
		assert.Equal(t, 1.0, c.Body().Opacity())
	})

	t.Run("explicit hide kind", func(t *testing.T) {
		h := newHarness()
		opts := DefaultOptions()
		opts.HideKind = KindNone
		c := h.newController(WithOptions(opts))

		c.Show(h.parent, WithKind(KindPopup))
		h.advance(bounceInDuration)
		require.Equal(t, StateVisible, c.State())

		c.Hide()
		assert.Equal(t, StateHidden, c.State())
	})

	t.Run("without animation", func(t *testing.T) {
		h := newHarness()
		c := h.newController()

		c.Show(h.parent)
		h.advance(scaleInDuration)
		c.Hide(WithoutAnimation())
		assert.Equal(t, StateHidden, c.State())
	})
}

func TestController_ShowWhileHidingReshows(t *testing.T) {
	h := newHarness()
	c := h.newController()
	rec := &recorder{}
	rec.watch(c)

	c.Show(h.parent)
	h.advance(scaleInDuration)
	c.Hide()
	c.Show(h.parent)
	assert.Equal(t, StateHiding, c.State())

	h.advance(hideDuration)
	assert.Equal(t, StateShowing, c.State())
	assert.Same(t, c, h.queue.Current())

	h.advance(scaleInDuration)
	assert.Equal(t, StateVisible, c.State())
	assert.Len(t, rec.events, 6)
}

func TestController_HideWhileHidingCancelsReshow(t *testing.T) {
	h := newHarness()
	c := h.newController()

	c.Show(h.parent)
	h.advance(scaleInDuration)
	c.Hide()
	c.Show(h.parent)
	c.Hide()

	h.advance(hideDuration)
	assert.Equal(t, StateHidden, c.State())
	assert.Equal(t, 0, h.queue.Len())
}

func TestController_ShowWhileShowingCancelsDeferredHide(t *testing.T) {
	h := newHarness()
	c := h.newController()

	c.Show(h.parent)
	c.Hide()
	c.Show(h.parent)

	h.advance(scaleInDuration)
	assert.Equal(t, StateVisible, c.State())
}

func TestController_HideWithoutResume(t *testing.T) {
	h := newHarness()
	a := h.newController()
	b := h.newController()

	a.Show(h.parent, WithKind(KindNone))
	b.Show(h.parent, WithKind(KindNone))
	require.Equal(t, StateVisible, a.State())

	a.Hide(WithoutResume())
	assert.Equal(t, StateHidden, a.State())
	assert.Equal(t, StateHidden, b.State())
	assert.Same(t, b, h.queue.Current())

	h.queue.DequeueNext()
	assert.Equal(t, StateVisible, b.State())
}

func TestController_HideQueuedWithdraws(t *testing.T) {
	h := newHarness()
	a := h.newController()
	b := h.newController()
	rec := &recorder{}
	rec.watch(b)

	a.Show(h.parent)
	b.Show(h.parent)
	require.True(t, h.queue.Contains(b))

	b.Hide()
	assert.False(t, h.queue.Contains(b))
	assert.Empty(t, rec.events)
	assert.Equal(t, StateShowing, a.State())
}

func TestController_Discard(t *testing.T) {
	t.Run("visible popup promotes next", func(t *testing.T) {
		h := newHarness()
		a := h.newController()
		b := h.newController()
		rec := &recorder{}
		rec.watch(a)

		a.Show(h.parent)
		b.Show(h.parent)
		h.advance(scaleInDuration / 2)

		a.Discard()
		assert.Equal(t, StateHidden, a.State())
		assert.Equal(t, []string{"delegate:hidden:" + a.ID(), "hidden:" + a.ID()}, rec.events)
		assert.Equal(t, StateShowing, b.State())
		assert.Same(t, b, h.queue.Current())
		assert.Len(t, h.parent.layers, 2)
	})

	t.Run("queued popup is withdrawn", func(t *testing.T) {
		h := newHarness()
		a := h.newController()
		b := h.newController()

		a.Show(h.parent)
		b.Show(h.parent)
		b.Discard()

		assert.False(t, h.queue.Contains(b))
		assert.Equal(t, 1, h.queue.Len())
	})

	t.Run("hidden popup at head promotes next", func(t *testing.T) {
		h := newHarness()
		a := h.newController()
		b := h.newController()

		a.Show(h.parent, WithKind(KindNone))
		b.Show(h.parent)
		a.Hide(WithoutResume())
		require.Same(t, b, h.queue.Current())

		b.Discard()
		assert.Equal(t, 0, h.queue.Len())
	})
}

func TestController_DiscardFromHiddenNotification(t *testing.T) {
	t.Run("callback", func(t *testing.T) {
		h := newHarness()
		a := h.newController()
		b := h.newController()

		hidden := 0
		a.OnHidden(func() {
			hidden++
			a.Discard()
		})

		a.Show(h.parent, WithKind(KindNone))
		b.Show(h.parent, WithKind(KindNone))
		a.Hide()

		assert.Equal(t, 1, hidden)
		assert.Equal(t, StateHidden, a.State())
		assert.Equal(t, StateVisible, b.State())
		assert.Same(t, b, h.queue.Current())
		assert.Equal(t, 1, h.queue.Len())
	})

	t.Run("delegate", func(t *testing.T) {
		h := newHarness()
		a := h.newController()
		d := &discardingDelegate{}
		a.SetDelegate(d)

		a.Show(h.parent)
		h.advance(scaleInDuration)
		a.Hide()
		h.advance(hideDuration)

		assert.Equal(t, 1, d.hidden)
		assert.Equal(t, StateHidden, a.State())
		assert.Empty(t, h.parent.layers)
		assert.Equal(t, 0, h.queue.Len())
	})

	t.Run("drops a pending re-show", func(t *testing.T) {
		h := newHarness()
		a := h.newController()

		hidden := 0
		a.OnHidden(func() {
			hidden++
			a.Show(h.parent, WithKind(KindNone))
			a.Discard()
		})

		a.Show(h.parent, WithKind(KindNone))
		a.Hide()

		assert.Equal(t, 1, hidden)
		assert.Equal(t, StateHidden, a.State())
		assert.Equal(t, 0, h.queue.Len())
	})
}

func TestController_DiscardWhileHidingKeepsResumeChoice(t *testing.T) {
	h := newHarness()
	a := h.newController()
	b := h.newController()

	a.Show(h.parent, WithKind(KindFadeIn))
	b.Show(h.parent)
	h.advance(fadeInDuration)
	require.Equal(t, StateVisible, a.State())

	a.Hide(WithoutResume())
	require.Equal(t, StateHiding, a.State())
	a.Discard()

	assert.Equal(t, StateHidden, a.State())
	assert.Equal(t, StateHidden, b.State())
	assert.Same(t, b, h.queue.Current())
}

func TestController_ShowWithoutParent(t *testing.T) {
	h := newHarness()
	a := h.newController()
	b := h.newController()

	a.Show(nil)
	assert.Equal(t, StateHidden, a.State())
	assert.False(t, h.queue.Contains(a))

	b.Show(h.parent, WithKind(KindNone))
	assert.Equal(t, StateVisible, b.State())
	assert.Same(t, b, h.queue.Current())
}

func TestController_LifecycleCallsFromNotifications(t *testing.T) {
	t.Run("hide from shown callback", func(t *testing.T) {
		h := newHarness()
		a := h.newController()
		b := h.newController()
		a.OnShown(func() { a.Hide() })

		a.Show(h.parent)
		b.Show(h.parent)
		h.advance(scaleInDuration)
		assert.Equal(t, StateHiding, a.State())

		h.advance(hideDuration)
		assert.Equal(t, StateHidden, a.State())
		assert.Equal(t, StateShowing, b.State())
		assert.Same(t, b, h.queue.Current())
	})

	t.Run("show from hidden callback waits its turn", func(t *testing.T) {
		h := newHarness()
		a := h.newController()
		b := h.newController()

		reshown := false
		a.OnHidden(func() {
			if !reshown {
				reshown = true
				a.Show(h.parent, WithKind(KindNone))
			}
		})

		a.Show(h.parent, WithKind(KindNone))
		b.Show(h.parent, WithKind(KindNone))
		a.Hide()

		assert.Equal(t, StateHidden, a.State())
		assert.Equal(t, StateVisible, b.State())
		pending := h.queue.Pending()
		require.Len(t, pending, 2)
		assert.Same(t, b, pending[0].Popup())
		assert.Same(t, a, pending[1].Popup())

		b.Hide()
		assert.Equal(t, StateVisible, a.State())
	})

	t.Run("hide queued popup from hidden callback", func(t *testing.T) {
		h := newHarness()
		a := h.newController()
		b := h.newController()
		rec := &recorder{}
		rec.watch(b)
		a.OnHidden(func() { b.Hide() })

		a.Show(h.parent, WithKind(KindNone))
		b.Show(h.parent, WithKind(KindNone))
		a.Hide()

		assert.Equal(t, StateHidden, a.State())
		assert.Equal(t, StateHidden, b.State())
		assert.Empty(t, rec.events)
		assert.Equal(t, 0, h.queue.Len())
	})

	t.Run("dequeue from hidden callback promotes the next popup once", func(t *testing.T) {
		h := newHarness()
		a := h.newController()
		b := h.newController()
		rec := &recorder{}
		rec.watch(b)

		a.OnHidden(func() { h.queue.DequeueNext() })

		a.Show(h.parent, WithKind(KindNone))
		b.Show(h.parent, WithKind(KindNone))
		a.Hide(WithoutResume())

		assert.Equal(t, StateHidden, a.State())
		assert.False(t, h.queue.Contains(a))
		assert.Equal(t, StateVisible, b.State())
		assert.Equal(t, []string{"delegate:shown:" + b.ID(), "shown:" + b.ID()}, rec.events)
	})

	t.Run("discard from shown callback", func(t *testing.T) {
		h := newHarness()
		a := h.newController()
		b := h.newController()
		a.OnShown(func() { a.Discard() })

		a.Show(h.parent, WithKind(KindNone))
		b.Show(h.parent, WithKind(KindNone))

		assert.Equal(t, StateHidden, a.State())
		assert.Equal(t, StateVisible, b.State())
	})
}

func TestController_ImmediateBypassesQueue(t *testing.T) {
	h := newHarness()
	a := h.newController()
	b := h.newController()

	a.Show(h.parent, WithKind(KindNone))
	b.Show(h.parent, WithKind(KindNone), Immediately())

	assert.Equal(t, StateVisible, a.State())
	assert.Equal(t, StateVisible, b.State())
	assert.Equal(t, 1, h.queue.Len())

	b.Hide()
	assert.Equal(t, StateVisible, a.State())
}

func TestController_SetOptionsKeepsSize(t *testing.T) {
	c := New(nil, &fakeToolkit{Animator: anim.Immediate{}})
	opts := DefaultOptions()
	opts.Size = geom.Size{}
	c.SetOptions(opts)

	assert.Equal(t, DefaultOptions().Size, c.Options().Size)
	assert.Equal(t, DefaultOptions().Size, c.Body().Frame().Size())
}

func TestTimings(t *testing.T) {
	byKind := map[Kind]Timing{}
	for _, tm := range Timings() {
		byKind[tm.Kind] = tm
	}

	assert.Equal(t, Timing{Kind: KindNone}, byKind[KindNone])
	assert.Equal(t, 150*time.Millisecond, byKind[KindScaleIn].In)
	assert.Equal(t, 400*time.Millisecond, byKind[KindPopup].In)
	assert.Equal(t, 200*time.Millisecond, byKind[KindBottomTop].Out)
}
