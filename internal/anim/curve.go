package anim

import "math"

// Curve maps linear progress in [0,1] to eased progress. Overshooting curves
// may return values outside [0,1].
type Curve func(t float64) float64

// Linear is the identity curve.
func Linear(t float64) float64 { return t }

var (
	// EaseOut decelerates towards the end.
	EaseOut = CubicBezier(0, 0, 0.58, 1)
	// EaseInOut accelerates then decelerates.
	EaseInOut = CubicBezier(0.42, 0, 0.58, 1)
	// Overshoot runs past the target and settles back.
	Overshoot = CubicBezier(0.25, 0, 0.4, 1.6)
	// Anticipate pulls back slightly before collapsing.
	Anticipate = CubicBezier(0.15, -0.30, 0.88, 0.14)
)

// CubicBezier returns a timing curve defined by the control points (x1, y1)
// and (x2, y2), with implicit end points (0,0) and (1,1). The x coordinates
// are clamped to [0,1]; the y coordinates are free.
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	x1 = math.Max(0, math.Min(1, x1))
	x2 = math.Max(0, math.Min(1, x2))

	bez := func(t, p1, p2 float64) float64 {
		u := 1 - t
		return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
	}
	slope := func(t, p1, p2 float64) float64 {
		u := 1 - t
		return 3*u*u*p1 + 6*u*t*(p2-p1) + 3*t*t*(1-p2)
	}

	return func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		if x >= 1 {
			return 1
		}

		// Newton-Raphson first, bisection if the slope flattens out.
		t := x
		for range 8 {
			dx := bez(t, x1, x2) - x
			if math.Abs(dx) < 1e-6 {
				return bez(t, y1, y2)
			}
			d := slope(t, x1, x2)
			if math.Abs(d) < 1e-6 {
				break
			}
			t -= dx / d
		}

		lo, hi := 0.0, 1.0
		t = x
		for range 40 {
			cx := bez(t, x1, x2)
			if math.Abs(cx-x) < 1e-7 {
				break
			}
			if cx < x {
				lo = t
			} else {
				hi = t
			}
			t = (lo + hi) / 2
		}
		return bez(t, y1, y2)
	}
}
