package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point is a location or a relative anchor.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Size is a width/height pair.
type Size struct {
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Insets shrink a rectangle from each edge.
type Insets struct {
	Top    float64
	Left   float64
	Bottom float64
	Right  float64
}

// Rect is an axis-aligned rectangle. Y grows downward.
type Rect struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Center is the default relative anchor.
var Center = Point{X: 0.5, Y: 0.5}

// R is shorthand for building a Rect.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rectangle's size.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// WithOrigin returns a copy of r moved to p.
func (r Rect) WithOrigin(p Point) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}

// WithSize returns a copy of r resized to s.
func (r Rect) WithSize(s Size) Rect {
	r.W, r.H = s.W, s.H
	return r
}

// Inset shrinks r by in. Negative results collapse to zero size.
func (r Rect) Inset(in Insets) Rect {
	out := Rect{
		X: r.X + in.Left,
		Y: r.Y + in.Top,
		W: r.W - in.Left - in.Right,
		H: r.H - in.Top - in.Bottom,
	}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Offset returns r translated by dx, dy.
func (r Rect) Offset(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Cells rounds the rectangle to whole terminal cells.
func (r Rect) Cells() (x, y, w, h int) {
	return int(math.Round(r.X)), int(math.Round(r.Y)), int(math.Round(r.W)), int(math.Round(r.H))
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g,%g,%g)", r.X, r.Y, r.W, r.H)
}

// Place positions a box of the given size inside container so that its
// origin is container.origin + (container.size - size) * anchor.
// The anchor is clamped to [0,1] on both axes; (0.5, 0.5) centres the box.
func Place(container Rect, size Size, anchor Point) Rect {
	ax := clamp01(anchor.X)
	ay := clamp01(anchor.Y)
	return Rect{
		X: container.X + (container.W-size.W)*ax,
		Y: container.Y + (container.H-size.H)*ay,
		W: size.W,
		H: size.H,
	}
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0.5
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// ParseRect parses "x,y,w,h".
func ParseRect(s string) (Rect, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return Rect{}, fmt.Errorf("invalid rect %q: %w", s, err)
	}
	return Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}

// ParseSize parses "w,h".
func ParseSize(s string) (Size, error) {
	v, err := parseFloats(s, 2)
	if err != nil {
		return Size{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return Size{W: v[0], H: v[1]}, nil
}

// ParsePoint parses "x,y".
func ParsePoint(s string) (Point, error) {
	v, err := parseFloats(s, 2)
	if err != nil {
		return Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return Point{X: v[0], Y: v[1]}, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated numbers, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
