// Package geom provides the pure geometric primitives behind the simulated
// sensors: ray-circle intersection, arena boundary projection, and
// boundary-edge classification. All functions are stateless.
package geom

import (
	"math"
	"strings"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/floats/scalar"
)

// DefaultBoundaryTolerance is how close (in meters) a terminal point must be
// to an arena edge to count as a wall detection.
const DefaultBoundaryTolerance = 0.2

// dirEpsilon guards against degenerate (near zero length) direction vectors.
const dirEpsilon = 1e-12

// Bounds is the arena rectangle [0, Width] x [0, Height].
type Bounds struct {
	Width  float64
	Height float64
}

// Contains reports whether p lies inside the arena, borders included.
func (b Bounds) Contains(p r2.Point) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

// Center returns the arena midpoint.
func (b Bounds) Center() r2.Point {
	return r2.Point{X: b.Width / 2, Y: b.Height / 2}
}

// Edge identifies one side of the arena rectangle.
type Edge uint8

const (
	EdgeLeft Edge = iota
	EdgeRight
	EdgeBottom
	EdgeTop
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	case EdgeTop:
		return "top"
	}
	return "unknown"
}

// EdgeSet is a set of arena edges. A terminal point near a corner matches two
// edges at once.
type EdgeSet uint8

// Has reports whether the set contains e.
func (s EdgeSet) Has(e Edge) bool { return s&(1<<e) != 0 }

// Empty reports whether no edge matched.
func (s EdgeSet) Empty() bool { return s == 0 }

// Len returns the number of edges in the set.
func (s EdgeSet) Len() int {
	n := 0
	for e := EdgeLeft; e <= EdgeTop; e++ {
		if s.Has(e) {
			n++
		}
	}
	return n
}

func (s EdgeSet) String() string {
	if s.Empty() {
		return "{}"
	}
	parts := make([]string, 0, 2)
	for e := EdgeLeft; e <= EdgeTop; e++ {
		if s.Has(e) {
			parts = append(parts, e.String())
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func (s *EdgeSet) add(e Edge) { *s |= 1 << e }

// UnitVector returns the direction of a world-frame angle in degrees
// (0 = +x, 90 = +y, counter-clockwise).
func UnitVector(angleDeg float64) r2.Point {
	rad := angleDeg * math.Pi / 180
	return r2.Point{X: math.Cos(rad), Y: math.Sin(rad)}
}

// RayCircleIntersect returns the distance along the ray from origin in
// direction dir to the circle (center, radius), and whether the ray hits it.
// Only forward hits count: the result is the smallest non-negative root of
// the quadratic, so a circle entirely behind the origin is a miss. A tangent
// ray (discriminant exactly zero) is a hit. A degenerate direction vector is
// treated as a miss rather than a division by zero.
func RayCircleIntersect(origin, dir r2.Point, center r2.Point, radius float64) (float64, bool) {
	a := dir.Dot(dir)
	if a < dirEpsilon {
		return 0, false
	}
	oc := origin.Sub(center)
	b := 2 * dir.Dot(oc)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}

	sq := math.Sqrt(disc)
	// t1 <= t2 always; prefer the nearer forward root.
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	if t1 >= 0 {
		return t1, true
	}
	if t2 >= 0 {
		return t2, true
	}
	return 0, false
}

// BoundaryDistance returns the distance along the ray from origin in
// direction dir to the arena border. For an origin inside the arena there is
// always a forward crossing unless the direction is degenerate.
func BoundaryDistance(origin, dir r2.Point, b Bounds) (float64, bool) {
	tx := math.Inf(1)
	switch {
	case dir.X > dirEpsilon:
		tx = (b.Width - origin.X) / dir.X
	case dir.X < -dirEpsilon:
		tx = -origin.X / dir.X
	}

	ty := math.Inf(1)
	switch {
	case dir.Y > dirEpsilon:
		ty = (b.Height - origin.Y) / dir.Y
	case dir.Y < -dirEpsilon:
		ty = -origin.Y / dir.Y
	}

	t := math.Min(tx, ty)
	if math.IsInf(t, 1) || t < 0 {
		return 0, false
	}
	return t, true
}

// BoundaryEdges classifies a ray's terminal point against the arena edges:
// each edge whose coordinate lies within tol of the point is included. Zero,
// one, or (at a corner) two edges may match. Pass tol <= 0 to use
// DefaultBoundaryTolerance.
func BoundaryEdges(p r2.Point, b Bounds, tol float64) EdgeSet {
	if tol <= 0 {
		tol = DefaultBoundaryTolerance
	}
	var s EdgeSet
	if scalar.EqualWithinAbs(p.X, 0, tol) {
		s.add(EdgeLeft)
	}
	if scalar.EqualWithinAbs(p.X, b.Width, tol) {
		s.add(EdgeRight)
	}
	if scalar.EqualWithinAbs(p.Y, 0, tol) {
		s.add(EdgeBottom)
	}
	if scalar.EqualWithinAbs(p.Y, b.Height, tol) {
		s.add(EdgeTop)
	}
	return s
}
