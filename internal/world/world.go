// Package world holds the mutable simulation state: arena bounds, bot pose,
// and the obstacle set. The driver mutates it freely while the scan worker
// reads per-cycle snapshots.
package world

import (
	"math"
	"sync"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/banshee-data/botarena/internal/geom"
	"github.com/banshee-data/botarena/internal/monitoring"
)

// Pose is the bot position and heading in the arena frame. The heading is
// kept normalized to [0, 360).
type Pose struct {
	X          float64
	Y          float64
	HeadingDeg float64
}

// Point returns the pose position as a point.
func (p Pose) Point() r2.Point { return r2.Point{X: p.X, Y: p.Y} }

// NormalizeHeading wraps a heading in degrees into [0, 360).
func NormalizeHeading(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Obstacle is a circular obstruction. Wall segments are laid down as chains
// of these; the ray caster treats them uniformly.
type Obstacle struct {
	X      float64
	Y      float64
	Radius float64
}

// Center returns the obstacle center as a point.
func (o Obstacle) Center() r2.Point { return r2.Point{X: o.X, Y: o.Y} }

// ContainsPoint reports whether p lies on or inside the obstacle.
func (o Obstacle) ContainsPoint(p r2.Point) bool {
	return p.Sub(o.Center()).Norm() <= o.Radius
}

// World is the shared mutable state. All methods are safe for concurrent use
// by the driver and the scan worker.
type World struct {
	mu        sync.RWMutex
	bounds    geom.Bounds
	pose      Pose
	hasPose   bool
	obstacles []Obstacle
}

// New creates an empty arena of the given dimensions in meters.
func New(width, height float64) (*World, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("arena dimensions must be positive, got %gx%g", width, height)
	}
	monitoring.Logf("world: created %gm x %gm arena", width, height)
	return &World{bounds: geom.Bounds{Width: width, Height: height}}, nil
}

// Bounds returns the arena rectangle.
func (w *World) Bounds() geom.Bounds {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.bounds
}

// Pose returns the current bot pose and whether one has been set.
func (w *World) Pose() (Pose, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pose, w.hasPose
}

// SetBotPose places the bot. Out-of-bounds or obstacle-occupied positions
// are rejected.
func (w *World) SetBotPose(x, y, headingDeg float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	p := r2.Point{X: x, Y: y}
	if !w.bounds.Contains(p) {
		return errors.Errorf("position (%.2f, %.2f) is out of bounds", x, y)
	}
	if w.occupiedLocked(p) {
		return errors.Errorf("position (%.2f, %.2f) is occupied by an obstacle", x, y)
	}

	w.pose = Pose{X: x, Y: y, HeadingDeg: NormalizeHeading(headingDeg)}
	w.hasPose = true
	monitoring.Logf("world: bot placed at (%.2f, %.2f) facing %.1f°", x, y, w.pose.HeadingDeg)
	return nil
}

// MoveBot translates the bot by (dx, dy), subject to the same validation as
// SetBotPose. The heading is unchanged.
func (w *World) MoveBot(dx, dy float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.hasPose {
		return errors.New("bot pose not set")
	}
	p := r2.Point{X: w.pose.X + dx, Y: w.pose.Y + dy}
	if !w.bounds.Contains(p) {
		return errors.Errorf("move to (%.2f, %.2f) is out of bounds", p.X, p.Y)
	}
	if w.occupiedLocked(p) {
		return errors.Errorf("move to (%.2f, %.2f) blocked by an obstacle", p.X, p.Y)
	}
	w.pose.X = p.X
	w.pose.Y = p.Y
	return nil
}

// RotateBot turns the bot in place by deltaDeg (positive = counter-clockwise).
func (w *World) RotateBot(deltaDeg float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.hasPose {
		return errors.New("bot pose not set")
	}
	w.pose.HeadingDeg = NormalizeHeading(w.pose.HeadingDeg + deltaDeg)
	return nil
}

// AddObstacle places a circular obstacle. The center must lie inside the
// arena; the radius must be positive.
func (w *World) AddObstacle(x, y, radius float64) error {
	if radius <= 0 {
		return errors.Errorf("obstacle radius must be positive, got %g", radius)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.bounds.Contains(r2.Point{X: x, Y: y}) {
		return errors.Errorf("cannot add obstacle at (%.2f, %.2f): out of bounds", x, y)
	}
	w.obstacles = append(w.obstacles, Obstacle{X: x, Y: y, Radius: radius})
	monitoring.Logf("world: added obstacle at (%.2f, %.2f) radius %.2fm", x, y, radius)
	return nil
}

// AddWallSegment approximates the line from (x1,y1) to (x2,y2) as a chain of
// circular sub-obstacles with at most one radius of spacing between centers.
// It returns the number of sub-obstacles laid down.
func (w *World) AddWallSegment(x1, y1, x2, y2, radius float64) (int, error) {
	if radius <= 0 {
		return 0, errors.Errorf("wall radius must be positive, got %g", radius)
	}

	a := r2.Point{X: x1, Y: y1}
	b := r2.Point{X: x2, Y: y2}
	length := b.Sub(a).Norm()

	n := 1
	if length > 0 {
		n = int(math.Ceil(length/radius)) + 1
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.bounds.Contains(a) || !w.bounds.Contains(b) {
		return 0, errors.Errorf("wall endpoints (%.2f, %.2f)-(%.2f, %.2f) must lie inside the arena", x1, y1, x2, y2)
	}

	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		c := a.Add(b.Sub(a).Mul(t))
		w.obstacles = append(w.obstacles, Obstacle{X: c.X, Y: c.Y, Radius: radius})
	}
	monitoring.Logf("world: added wall (%.2f, %.2f)-(%.2f, %.2f) as %d segments", x1, y1, x2, y2, n)
	return n, nil
}

// RemoveAllObstacles clears the obstacle set, walls included.
func (w *World) RemoveAllObstacles() {
	w.mu.Lock()
	w.obstacles = nil
	w.mu.Unlock()
	monitoring.Logf("world: all obstacles removed")
}

// ObstacleCount returns the number of obstacles (including wall segments).
func (w *World) ObstacleCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.obstacles)
}

// Obstacles returns a copy of the obstacle set.
func (w *World) Obstacles() []Obstacle {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]Obstacle(nil), w.obstacles...)
}

// Snapshot captures an immutable copy of the world for one scan cycle, so a
// sweep in progress never observes mid-cycle mutation.
func (w *World) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Snapshot{
		Pose:      w.pose,
		HasPose:   w.hasPose,
		Bounds:    w.bounds,
		Obstacles: append([]Obstacle(nil), w.obstacles...),
	}
}

// occupiedLocked reports whether p lies inside any obstacle. Callers hold mu.
func (w *World) occupiedLocked(p r2.Point) bool {
	for _, o := range w.obstacles {
		if o.ContainsPoint(p) {
			return true
		}
	}
	return false
}
