package popup

import (
	"time"

	"github.com/jmylchreest/poptui/internal/anim"
	"github.com/jmylchreest/poptui/internal/geom"
)

const (
	overlayFadeDuration = 300 * time.Millisecond
	scaleInDuration     = 150 * time.Millisecond
	bounceInDuration    = 400 * time.Millisecond
	fadeInDuration      = 400 * time.Millisecond
	slideInDuration     = 400 * time.Millisecond
	hideDuration        = 200 * time.Millisecond

	// collapsedScale stands in for zero so scale-derived sizes stay finite.
	collapsedScale = 0.001
)

// Timing describes how long a kind takes in each direction.
type Timing struct {
	Kind Kind          `json:"kind" yaml:"kind"`
	In   time.Duration `json:"in" yaml:"in"`
	Out  time.Duration `json:"out" yaml:"out"`
}

// Timings lists the in/out durations of every concrete kind.
func Timings() []Timing {
	out := make([]Timing, 0, len(Kinds()))
	for _, k := range Kinds() {
		out = append(out, Timing{
			Kind: k,
			In:   transitionIn(k, &Body{}, geom.Rect{}).Duration,
			Out:  transitionOut(k, &Body{}, geom.Rect{}).Duration,
		})
	}
	return out
}

// transitionIn builds the show effect for k. host is the bounds of the
// surface the body is attached to; the body must already sit at its final
// frame.
func transitionIn(k Kind, b *Body, host geom.Rect) anim.Effect {
	switch k {
	case KindScaleIn:
		return anim.Effect{
			Duration: scaleInDuration,
			Tracks:   []anim.Track{anim.Tween(collapsedScale, 1, anim.EaseOut, b.setScale)},
		}
	case KindPopup:
		return anim.Effect{
			Duration: bounceInDuration,
			Tracks: []anim.Track{{
				Keys: []anim.Keyframe{
					{At: 0, Value: collapsedScale},
					{At: 0.4, Value: 1},
					{At: 0.7, Value: 0.7},
					{At: 1, Value: 1},
				},
				Curves: []anim.Curve{anim.Overshoot, anim.EaseOut, anim.Overshoot},
				Apply:  b.setScale,
			}},
		}
	case KindFadeIn:
		return anim.Effect{
			Duration: fadeInDuration,
			Tracks:   []anim.Track{anim.Tween(0, 1, anim.EaseOut, b.setOpacity)},
		}
	case KindTopBottom, KindBottomTop:
		target := b.frame.Y
		return anim.Effect{
			Duration: slideInDuration,
			Tracks:   []anim.Track{anim.Tween(offscreenY(k, b, host), target, anim.EaseOut, b.setY)},
		}
	default:
		return anim.Effect{}
	}
}

// transitionOut builds the hide effect for k, mirroring transitionIn.
func transitionOut(k Kind, b *Body, host geom.Rect) anim.Effect {
	switch k {
	case KindScaleIn:
		return anim.Effect{
			Duration: hideDuration,
			Tracks:   []anim.Track{anim.Tween(1, collapsedScale, anim.EaseOut, b.setScale)},
		}
	case KindPopup:
		return anim.Effect{
			Duration: hideDuration,
			Tracks:   []anim.Track{anim.Tween(1, collapsedScale, anim.Anticipate, b.setScale)},
		}
	case KindFadeIn:
		return anim.Effect{
			Duration: hideDuration,
			Tracks:   []anim.Track{anim.Tween(b.opacity, 0, anim.EaseInOut, b.setOpacity)},
		}
	case KindTopBottom, KindBottomTop:
		return anim.Effect{
			Duration: hideDuration,
			Tracks:   []anim.Track{anim.Tween(b.frame.Y, offscreenY(k, b, host), anim.EaseOut, b.setY)},
		}
	default:
		return anim.Effect{}
	}
}

// offscreenY is where a sliding body starts or ends: fully above the host's
// top edge, or just below its bottom edge.
func offscreenY(k Kind, b *Body, host geom.Rect) float64 {
	if k == KindTopBottom {
		return -b.frame.H
	}
	return host.H
}

func overlayIn(o Overlay) anim.Effect {
	return anim.Effect{
		Duration: overlayFadeDuration,
		Tracks:   []anim.Track{anim.Tween(0, 1, anim.EaseOut, o.SetOpacity)},
	}
}

func overlayOut(o Overlay) anim.Effect {
	return anim.Effect{
		Duration: overlayFadeDuration,
		Tracks:   []anim.Track{anim.Tween(o.Opacity(), 0, anim.EaseOut, o.SetOpacity)},
	}
}
