package popup

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/poptui/internal/anim"
)

func TestQueue_EnqueueDeduplicates(t *testing.T) {
	h := newHarness()
	a := h.newController()
	b := h.newController()
	c := h.newController()
	other := newFakeSurface(80, 24)

	a.Show(h.parent)
	b.Show(h.parent, WithKind(KindFadeIn))
	c.Show(h.parent)
	b.Show(other, WithKind(KindTopBottom))

	pending := h.queue.Pending()
	require.Len(t, pending, 3)
	assert.Same(t, a, pending[0].Popup())
	assert.Same(t, b, pending[1].Popup())
	assert.Same(t, c, pending[2].Popup())

	assert.Equal(t, KindTopBottom, pending[1].Kind)
	assert.Same(t, other, pending[1].Parent)
	assert.NotEmpty(t, pending[1].ID)
	assert.Equal(t, h.clock.t, pending[1].QueuedAt)
	assert.False(t, pending[1].Immediate)
}

func TestQueue_EnqueueReturnsFalseForDuplicate(t *testing.T) {
	q := NewQueue()
	c := New(q, &fakeToolkit{Animator: anim.Immediate{}})
	parent := newFakeSurface(10, 10)

	assert.True(t, q.Enqueue(NewRequest(c, parent)))
	assert.False(t, q.Enqueue(NewRequest(c, parent)))
	assert.Equal(t, 1, q.Len())
}

func TestQueue_EnqueueRefusesMissingParent(t *testing.T) {
	q := NewQueue()
	c := New(q, &fakeToolkit{Animator: anim.Immediate{}})
	parent := newFakeSurface(10, 10)

	assert.False(t, q.Enqueue(NewRequest(c, nil)))
	assert.Equal(t, 0, q.Len())

	require.True(t, q.Enqueue(NewRequest(c, parent)))
	assert.False(t, q.Enqueue(NewRequest(c, nil)))
	head, ok := q.Head()
	require.True(t, ok)
	assert.Same(t, parent, head.Parent)
}

func TestQueue_WithdrawRemovesEveryEntry(t *testing.T) {
	q := NewQueue()
	tk := &fakeToolkit{Animator: anim.Immediate{}}
	a := New(q, tk)
	b := New(q, tk)
	parent := newFakeSurface(10, 10)

	q.Enqueue(NewRequest(a, parent))
	q.Enqueue(NewRequest(b, parent))
	q.Enqueue(NewRequest(a, parent))

	assert.Equal(t, 1, q.Withdraw(a))
	assert.False(t, q.Contains(a))
	assert.Same(t, b, q.Current())

	assert.Equal(t, 0, q.Withdraw(a))
	assert.Equal(t, 0, q.Withdraw(nil))
	assert.Equal(t, 1, q.Len())
}

func TestQueue_HeadAndCurrentOnEmpty(t *testing.T) {
	q := NewQueue()

	_, ok := q.Head()
	assert.False(t, ok)
	assert.Nil(t, q.Current())
	assert.Empty(t, q.Pending())

	// Nothing to promote.
	q.DequeueNext()
}

func TestQueue_DequeueNextShowsHeadOnItsParent(t *testing.T) {
	q := NewQueue()
	tk := &fakeToolkit{Animator: anim.Immediate{}}
	c := New(q, tk)
	parent := newFakeSurface(100, 40)

	q.Enqueue(NewRequest(c, parent, WithKind(KindFadeIn)))
	q.DequeueNext()

	assert.Equal(t, StateVisible, c.State())
	assert.Same(t, parent, c.Parent())
	assert.Equal(t, 1, q.Len(), "head stays queued while on screen")

	c.Hide()
	assert.Equal(t, 0, q.Len())
}

func TestQueue_ReentrantDequeueKeepsOrder(t *testing.T) {
	q := NewQueue()
	tk := &fakeToolkit{Animator: anim.Immediate{}}
	parent := newFakeSurface(100, 40)

	var shown []*Controller
	popups := make([]*Controller, 4)
	for i := range popups {
		c := New(q, tk)
		c.OnShown(func() { shown = append(shown, c) })
		popups[i] = c
	}
	// The middle popups dismiss themselves as soon as they appear, so their
	// hides call DequeueNext from inside the running one.
	popups[1].OnShown(func() {
		shown = append(shown, popups[1])
		popups[1].Hide()
	})
	popups[2].OnShown(func() {
		shown = append(shown, popups[2])
		popups[2].Hide()
	})

	for _, c := range popups {
		c.Show(parent)
	}
	require.Equal(t, StateVisible, popups[0].State())
	assert.Equal(t, 4, q.Len())

	popups[0].Hide()

	assert.Equal(t, popups, shown)
	assert.Equal(t, StateHidden, popups[1].State())
	assert.Equal(t, StateHidden, popups[2].State())
	assert.Equal(t, StateVisible, popups[3].State())
	assert.Same(t, popups[3], q.Current())
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue()
	tk := &fakeToolkit{Animator: anim.Immediate{}}
	parent := newFakeSurface(10, 10)
	for range 3 {
		q.Enqueue(NewRequest(New(q, tk), parent))
	}
	require.Equal(t, 3, q.Len())

	q.Clear()
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Current())
}

func TestQueue_DropsCollectedControllers(t *testing.T) {
	q := NewQueue(WithClock(func() time.Time { return time.Unix(0, 0) }))
	parent := newFakeSurface(10, 10)

	func() {
		c := New(q, &fakeToolkit{Animator: anim.Immediate{}})
		q.Enqueue(NewRequest(c, parent))
	}()

	runtime.GC()
	runtime.GC()

	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Current())
}
