package world

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/banshee-data/botarena/internal/geom"
)

// HitKind classifies the terminal point of a cast ray.
type HitKind uint8

const (
	// HitNone means the ray returned nothing within range.
	HitNone HitKind = iota
	// HitObstacle means the ray struck an obstacle (or wall sub-segment).
	HitObstacle
	// HitBoundary means the ray ran out at the arena border within range.
	HitBoundary
)

func (k HitKind) String() string {
	switch k {
	case HitObstacle:
		return "obstacle"
	case HitBoundary:
		return "boundary"
	}
	return "none"
}

// Hit is the result of a single ray query. Distance is meaningful only when
// Kind is not HitNone.
type Hit struct {
	Kind     HitKind
	Distance float64
}

// Snapshot is an immutable copy of world state taken at the start of a scan
// cycle. The scan engine works exclusively against snapshots.
type Snapshot struct {
	Pose      Pose
	HasPose   bool
	Bounds    geom.Bounds
	Obstacles []Obstacle
}

// NearestHit casts a world-frame ray from the bot position and classifies
// the nearest return within maxRange. Obstacles (wall segments included) are
// checked uniformly; the arena border wins only when no obstacle is closer.
func (s Snapshot) NearestHit(angleDeg, maxRange float64) Hit {
	return s.NearestHitFrom(s.Pose.Point(), angleDeg, maxRange)
}

// NearestHitFrom is NearestHit with an explicit ray origin.
func (s Snapshot) NearestHitFrom(origin r2.Point, angleDeg, maxRange float64) Hit {
	dir := geom.UnitVector(angleDeg)

	best := math.Inf(1)
	for _, o := range s.Obstacles {
		if t, ok := geom.RayCircleIntersect(origin, dir, o.Center(), o.Radius); ok && t < best {
			best = t
		}
	}
	if best <= maxRange {
		return Hit{Kind: HitObstacle, Distance: best}
	}

	if t, ok := geom.BoundaryDistance(origin, dir, s.Bounds); ok && t <= maxRange {
		return Hit{Kind: HitBoundary, Distance: t}
	}
	return Hit{}
}
