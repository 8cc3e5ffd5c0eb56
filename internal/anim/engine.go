package anim

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultFrameInterval is roughly 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameMsg advances the engine. It is produced by Engine.Cmd.
type FrameMsg struct {
	Time time.Time
}

type run struct {
	key       any
	effect    Effect
	start     time.Time
	done      func()
	cancelled bool
}

// Engine runs effects against a clock and is advanced by frame messages.
// It is not safe for concurrent use; drive it from a single Update loop.
type Engine struct {
	interval time.Duration
	now      func() time.Time

	running []*run
	ticking bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFrameInterval sets the delay between frames.
func WithFrameInterval(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an idle engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		interval: DefaultFrameInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Play starts an effect. See Animator for the key and instant-effect rules.
func (e *Engine) Play(key any, eff Effect, done func()) {
	e.Cancel(key)

	if eff.Instant() {
		eff.Apply(1)
		if done != nil {
			done()
		}
		return
	}

	eff.Apply(0)
	e.running = append(e.running, &run{
		key:    key,
		effect: eff,
		start:  e.now(),
		done:   done,
	})
}

// Cancel drops the effect running under key, leaving its values where the
// last frame put them. A nil key cancels nothing.
func (e *Engine) Cancel(key any) {
	if key == nil {
		return
	}
	kept := e.running[:0]
	for _, r := range e.running {
		if r.key == key {
			r.cancelled = true
			continue
		}
		kept = append(kept, r)
	}
	clear(e.running[len(kept):])
	e.running = kept
}

// Running returns the number of effects in flight.
func (e *Engine) Running() int {
	return len(e.running)
}

// SetFrameInterval changes the tick rate for subsequent frames.
func (e *Engine) SetFrameInterval(d time.Duration) {
	if d > 0 {
		e.interval = d
	}
}

// Advance applies every running effect at time now and completes the ones
// that have reached their end. Completion callbacks run after the engine's
// own state is updated, so they may play or cancel effects.
func (e *Engine) Advance(now time.Time) {
	if len(e.running) == 0 {
		return
	}

	var finished []*run
	active := make([]*run, 0, len(e.running))
	for _, r := range e.running {
		p := float64(now.Sub(r.start)) / float64(r.effect.Duration)
		if p >= 1 {
			r.effect.Apply(1)
			finished = append(finished, r)
			continue
		}
		if p < 0 {
			p = 0
		}
		r.effect.Apply(p)
		active = append(active, r)
	}
	e.running = active

	for _, r := range finished {
		if r.cancelled || r.done == nil {
			continue
		}
		r.done()
	}
}

// Cmd schedules the next frame when effects are running and no frame is
// already pending.
func (e *Engine) Cmd() tea.Cmd {
	if e.ticking || len(e.running) == 0 {
		return nil
	}
	e.ticking = true
	return tea.Tick(e.interval, func(t time.Time) tea.Msg {
		return FrameMsg{Time: t}
	})
}

// Update handles a frame and returns the command for the next one.
func (e *Engine) Update(msg FrameMsg) tea.Cmd {
	e.ticking = false
	e.Advance(msg.Time)
	return e.Cmd()
}
