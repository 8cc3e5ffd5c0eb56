package tui

import (
	"log/slog"
	"slices"

	"github.com/jmylchreest/poptui/internal/model"
	"github.com/jmylchreest/poptui/internal/popup"
	"github.com/jmylchreest/poptui/internal/screen"
	"github.com/jmylchreest/poptui/internal/theme"
)

// entry is a popup the session keeps alive until it has hidden. The queue
// only holds weak references, so dropping an entry lets its request go.
type entry struct {
	ctrl *popup.Controller
	msg  *model.Message
	card *screen.Card
}

// session is the state shared between the model copies Bubble Tea passes
// around and the popup callbacks that fire during animation frames.
type session struct {
	logger  *slog.Logger
	queue   *popup.Queue
	screen  *screen.Screen
	toolkit *screen.Toolkit

	entries []*entry
	history []*model.Message
	seq     int
	notes   []string
}

var _ popup.Delegate = (*session)(nil)

// request creates a popup for kind and asks it to show.
func (s *session) request(opts popup.Options, kind popup.Kind, immediate bool) (*entry, error) {
	s.seq++
	msg, err := model.Sample(s.seq, kind)
	if err != nil {
		return nil, err
	}

	card := &screen.Card{
		Title:  msg.Title,
		Body:   msg.Body,
		Footer: msg.Footer,
		Colors: s.screen.Colors(),
	}
	ctrl := popup.New(s.queue, s.toolkit, popup.WithOptions(opts), popup.WithContent(card))
	ctrl.SetDelegate(s)
	ctrl.OnShown(func() { s.note(msg.Title + " shown") })
	ctrl.OnHidden(func() { s.note(msg.Title + " hidden") })

	e := &entry{ctrl: ctrl, msg: msg, card: card}
	s.entries = append(s.entries, e)
	s.history = append(s.history, msg)

	showOpts := []popup.ShowOption{popup.WithKind(kind)}
	if immediate {
		showOpts = append(showOpts, popup.Immediately())
	}
	s.logger.Debug("popup requested", "popup_id", ctrl.ID(), "kind", kind, "immediate", immediate)
	ctrl.Show(s.screen, showOpts...)
	return e, nil
}

// PopupShown implements popup.Delegate.
func (s *session) PopupShown(c *popup.Controller) {
	if e := s.find(c); e != nil {
		e.msg.MarkShown()
	}
}

// PopupHidden implements popup.Delegate.
func (s *session) PopupHidden(c *popup.Controller) {
	i := slices.IndexFunc(s.entries, func(e *entry) bool { return e.ctrl == c })
	if i < 0 {
		return
	}
	s.entries[i].msg.MarkHidden()
	s.entries = slices.Delete(s.entries, i, i+1)
}

func (s *session) find(c *popup.Controller) *entry {
	for _, e := range s.entries {
		if e.ctrl == c {
			return e
		}
	}
	return nil
}

// top returns the most recently requested popup that is on screen.
func (s *session) top() *entry {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].ctrl.State() != popup.StateHidden {
			return s.entries[i]
		}
	}
	return nil
}

// hideTop hides the topmost popup and reports whether there was one.
func (s *session) hideTop() bool {
	e := s.top()
	if e == nil {
		return false
	}
	e.ctrl.Hide()
	return true
}

// dismissAll drops every queued popup and hides the ones on screen without
// promoting anything after them.
func (s *session) dismissAll() int {
	n := len(s.entries)
	for _, e := range slices.Clone(s.entries) {
		if e.ctrl.State() == popup.StateHidden {
			e.ctrl.Discard()
			e.msg.MarkHidden()
			s.entries = slices.DeleteFunc(s.entries, func(x *entry) bool { return x == e })
		}
	}
	for _, e := range slices.Clone(s.entries) {
		e.ctrl.Hide(popup.WithoutResume())
	}
	return n
}

// setColors recolours the cards of every live popup.
func (s *session) setColors(colors theme.Colors) {
	for _, e := range s.entries {
		e.card.Colors = colors
	}
}

func (s *session) note(text string) {
	s.notes = append(s.notes, text)
}

// drainNotes returns and clears the pending status notes.
func (s *session) drainNotes() []string {
	notes := s.notes
	s.notes = nil
	return notes
}
