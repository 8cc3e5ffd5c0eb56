package popup

import (
	"container/list"
	"log/slog"
	"time"
	"weak"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jmylchreest/poptui/internal/geom"
)

// Request is a pending intent to show a popup. The queue only holds a weak
// reference to the controller; requests whose controller has been collected
// are dropped.
type Request struct {
	ID        string
	Parent    Surface
	Frame     *geom.Rect // nil means auto-place
	Kind      Kind
	Immediate bool
	QueuedAt  time.Time

	popup weak.Pointer[Controller]
}

// NewRequest builds a request for c to show against parent.
func NewRequest(c *Controller, parent Surface, opts ...ShowOption) Request {
	r := Request{
		Parent: parent,
		Kind:   KindAutomatic,
		popup:  weak.Make(c),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Popup returns the requesting controller, or nil if it no longer exists.
func (r Request) Popup() *Controller {
	return r.popup.Value()
}

// Queue orders popup requests so that one popup is current at a time.
// The head entry is the current popup; it stays queued while that popup is
// on screen and is withdrawn when the popup finishes hiding.
//
// A Queue belongs to one application session and, like the controllers that
// share it, must only be used from the host's update goroutine.
type Queue struct {
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time

	entries *list.List // of *Request, FIFO
	index   map[weak.Pointer[Controller]]*list.Element

	dequeuing bool
	again     bool
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithLogger sets the logger used by the queue and its controllers.
func WithLogger(l *slog.Logger) QueueOption {
	return func(q *Queue) {
		if l != nil {
			q.logger = l
		}
	}
}

// WithTracer sets the tracer used for lifecycle spans.
func WithTracer(t trace.Tracer) QueueOption {
	return func(q *Queue) {
		if t != nil {
			q.tracer = t
		}
	}
}

// WithClock replaces time.Now for QueuedAt stamps.
func WithClock(now func() time.Time) QueueOption {
	return func(q *Queue) {
		if now != nil {
			q.now = now
		}
	}
}

// NewQueue creates an empty queue.
func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		logger:  slog.Default(),
		tracer:  noop.NewTracerProvider().Tracer(""),
		now:     time.Now,
		entries: list.New(),
		index:   make(map[weak.Pointer[Controller]]*list.Element),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends r at the tail. A controller is queued at most once: if it
// already has an entry, that entry keeps its position and takes r's parent,
// frame and kind, and Enqueue returns false. Requests without a parent
// surface are refused.
func (q *Queue) Enqueue(r Request) bool {
	c := r.popup.Value()
	if c == nil {
		return false
	}
	if r.Parent == nil {
		q.logger.Warn("refused popup request without a parent surface", "popup_id", c.ID())
		return false
	}

	if elem, exists := q.index[r.popup]; exists {
		queued := elem.Value.(*Request)
		queued.Parent = r.Parent
		queued.Frame = r.Frame
		queued.Kind = r.Kind
		q.logger.Debug("refreshed queued popup",
			"popup_id", c.ID(),
			"request_id", queued.ID,
		)
		return false
	}

	if r.ID == "" {
		r.ID = ulid.Make().String()
	}
	r.Immediate = false
	r.QueuedAt = q.now()

	queued := r
	q.index[r.popup] = q.entries.PushBack(&queued)

	q.logger.Debug("queued popup",
		"popup_id", c.ID(),
		"request_id", queued.ID,
		"kind", queued.Kind,
		"queue_size", q.entries.Len(),
	)
	return true
}

// Withdraw removes every entry referencing c and returns how many were
// removed.
func (q *Queue) Withdraw(c *Controller) int {
	if c == nil {
		return 0
	}
	wp := weak.Make(c)

	removed := 0
	for e := q.entries.Front(); e != nil; {
		next := e.Next()
		if e.Value.(*Request).popup == wp {
			q.entries.Remove(e)
			removed++
		}
		e = next
	}
	delete(q.index, wp)

	if removed > 0 {
		q.logger.Debug("withdrew popup",
			"popup_id", c.ID(),
			"queue_size", q.entries.Len(),
		)
	}
	return removed
}

// Contains reports whether c has a queued entry.
func (q *Queue) Contains(c *Controller) bool {
	if c == nil {
		return false
	}
	_, ok := q.index[weak.Make(c)]
	return ok
}

// Head returns a copy of the head request.
func (q *Queue) Head() (Request, bool) {
	q.prune()
	front := q.entries.Front()
	if front == nil {
		return Request{}, false
	}
	return *front.Value.(*Request), true
}

// Current returns the controller at the head of the queue, if any.
func (q *Queue) Current() *Controller {
	head, ok := q.Head()
	if !ok {
		return nil
	}
	return head.Popup()
}

// Len returns the number of live entries.
func (q *Queue) Len() int {
	q.prune()
	return q.entries.Len()
}

// Pending returns a snapshot of the queue in order.
func (q *Queue) Pending() []Request {
	q.prune()
	out := make([]Request, 0, q.entries.Len())
	for e := q.entries.Front(); e != nil; e = e.Next() {
		out = append(out, *e.Value.(*Request))
	}
	return out
}

// Clear drops every entry without touching the controllers.
func (q *Queue) Clear() {
	q.entries.Init()
	q.index = make(map[weak.Pointer[Controller]]*list.Element)
}

// DequeueNext promotes the head request. It does nothing when the queue is
// empty or when the head popup is already attached to the parent it was
// requested against. The head entry is not popped here; it leaves the queue
// when that popup finishes hiding.
//
// Calls made while a DequeueNext is already running (from a completion
// callback of the popup being shown) are folded into the running call,
// which then looks at the head again. Entries of popups that are in the
// middle of their hide teardown are skipped; they leave the queue once the
// teardown completes. A request that cannot be shown is withdrawn so the
// popups behind it are not held up.
func (q *Queue) DequeueNext() {
	if q.dequeuing {
		q.again = true
		return
	}
	q.dequeuing = true
	defer func() {
		q.dequeuing = false
		q.again = false
	}()

	for {
		q.again = false

		head, ok := q.next()
		if !ok {
			return
		}
		c := head.Popup()
		if c == nil {
			continue
		}
		if head.Parent == nil {
			q.logger.Warn("withdrawing popup request without a parent surface",
				"popup_id", c.ID(),
				"request_id", head.ID,
			)
			q.Withdraw(c)
			continue
		}
		if c.attachedTo(head.Parent) {
			q.logger.Debug("head popup already showing", "popup_id", c.ID())
			return
		}

		opts := []ShowOption{WithKind(head.Kind), Immediately()}
		if head.Frame != nil {
			opts = append(opts, WithFrame(*head.Frame))
		}
		q.logger.Debug("dequeuing popup",
			"popup_id", c.ID(),
			"request_id", head.ID,
			"waited", q.now().Sub(head.QueuedAt),
		)
		c.Show(head.Parent, opts...)

		if !q.again {
			return
		}
	}
}

// next returns the first request whose popup is not tearing down.
func (q *Queue) next() (Request, bool) {
	q.prune()
	for e := q.entries.Front(); e != nil; e = e.Next() {
		r := e.Value.(*Request)
		if c := r.popup.Value(); c != nil && !c.finishing {
			return *r, true
		}
	}
	return Request{}, false
}

// prune drops entries whose controller has been garbage collected.
func (q *Queue) prune() {
	for e := q.entries.Front(); e != nil; {
		next := e.Next()
		r := e.Value.(*Request)
		if r.popup.Value() == nil {
			q.entries.Remove(e)
			delete(q.index, r.popup)
		}
		e = next
	}
}
