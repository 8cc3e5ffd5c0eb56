package anim

import "time"

// Keyframe pins a value at a point of an effect's normalised timeline.
type Keyframe struct {
	At    float64
	Value float64
}

// Track animates one property. Curves[i] eases the segment between Keys[i]
// and Keys[i+1]; segments without a curve reuse the last one, or Linear.
type Track struct {
	Keys   []Keyframe
	Curves []Curve
	Apply  func(v float64)
}

// Tween is a two-key track from one value to another.
func Tween(from, to float64, curve Curve, apply func(float64)) Track {
	return Track{
		Keys:   []Keyframe{{At: 0, Value: from}, {At: 1, Value: to}},
		Curves: []Curve{curve},
		Apply:  apply,
	}
}

// Value returns the track's value at progress p.
func (tr Track) Value(p float64) float64 {
	if len(tr.Keys) == 0 {
		return 0
	}
	if p <= tr.Keys[0].At {
		return tr.Keys[0].Value
	}
	last := tr.Keys[len(tr.Keys)-1]
	if p >= last.At {
		return last.Value
	}

	for i := 0; i < len(tr.Keys)-1; i++ {
		a, b := tr.Keys[i], tr.Keys[i+1]
		if p > b.At {
			continue
		}
		span := b.At - a.At
		if span <= 0 {
			return b.Value
		}
		local := (p - a.At) / span
		return a.Value + (b.Value-a.Value)*tr.curve(i)(local)
	}
	return last.Value
}

func (tr Track) curve(segment int) Curve {
	switch {
	case segment < len(tr.Curves) && tr.Curves[segment] != nil:
		return tr.Curves[segment]
	case len(tr.Curves) > 0 && tr.Curves[len(tr.Curves)-1] != nil:
		return tr.Curves[len(tr.Curves)-1]
	default:
		return Linear
	}
}

// Effect is a group of tracks sharing one duration.
type Effect struct {
	Duration time.Duration
	Tracks   []Track
}

// Apply writes every track's value at progress p.
func (e Effect) Apply(p float64) {
	for _, tr := range e.Tracks {
		if tr.Apply != nil {
			tr.Apply(tr.Value(p))
		}
	}
}

// Instant reports whether the effect completes without animating.
func (e Effect) Instant() bool {
	return e.Duration <= 0
}

// Animator plays effects and reports their completion.
//
// Playing an effect under a key that already has a running effect replaces
// it; the replaced effect's done func is never called. Instant effects apply
// their final values and call done before Play returns.
type Animator interface {
	Play(key any, e Effect, done func())
	Cancel(key any)
}

// Immediate completes every effect synchronously.
type Immediate struct{}

// Play applies the final values and calls done.
func (Immediate) Play(_ any, e Effect, done func()) {
	e.Apply(1)
	if done != nil {
		done()
	}
}

// Cancel is a no-op; nothing is ever in flight.
func (Immediate) Cancel(any) {}
