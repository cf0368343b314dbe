// Package lidar simulates the rotating LIDAR head: a fixed 360-degree sweep
// engine over world snapshots, and a continuous scan scheduler that runs it
// on a background worker.
package lidar

import (
	"time"

	"github.com/golang/geo/r2"

	"github.com/banshee-data/botarena/internal/geom"
	"github.com/banshee-data/botarena/internal/world"
)

// Reading is a single radial sample of a sweep. A zero Distance with
// HitNone is the "no return" sentinel: downstream logic must treat it as
// "not detected", never as a detection at the sensor origin.
type Reading struct {
	Angle     int
	Distance  float64
	Intensity int
	Kind      world.HitKind
	Timestamp time.Time
}

// Detected reports whether this sample returned anything.
func (r Reading) Detected() bool {
	return r.Kind != world.HitNone && r.Distance > 0
}

// TerminalPoint returns the world coordinate the ray ended at, given the ray
// origin (the bot position at sweep time). Only meaningful for detected
// readings.
func (r Reading) TerminalPoint(origin r2.Point) r2.Point {
	return origin.Add(geom.UnitVector(float64(r.Angle)).Mul(r.Distance))
}

// Sweep is one complete scan: 360 readings in strictly increasing angle
// order, 0..359. Published sweeps are shared between the worker and readers
// and must not be modified.
type Sweep []Reading

// DetectedCount returns the number of readings with a return.
func (s Sweep) DetectedCount() int {
	n := 0
	for _, r := range s {
		if r.Detected() {
			n++
		}
	}
	return n
}

// WallPoints returns, for each boundary-classified reading, the terminal
// point and the matched arena edges. This is what the driver plots as wall
// dots without recomputing geometry.
func (s Sweep) WallPoints(origin r2.Point, bounds geom.Bounds, tol float64) []WallPoint {
	var points []WallPoint
	for _, r := range s {
		if r.Kind != world.HitBoundary {
			continue
		}
		p := r.TerminalPoint(origin)
		edges := geom.BoundaryEdges(p, bounds, tol)
		if edges.Empty() {
			continue
		}
		points = append(points, WallPoint{Angle: r.Angle, Point: p, Edges: edges})
	}
	return points
}

// WallPoint is a boundary detection with its classified edges.
type WallPoint struct {
	Angle int
	Point r2.Point
	Edges geom.EdgeSet
}
