package lidar

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/banshee-data/botarena/internal/world"
)

// Sensor characteristics of the simulated hardware.
const (
	// Resolution is one reading per integer degree.
	Resolution = 360

	DefaultMaxRange        = 5.0
	DefaultJitterAmplitude = 20

	// Intensity falloff: a point-blank return reads ~200, a return at max
	// range reads ~100, clamped into [50, 255] after jitter.
	intensityNear    = 200.0
	intensityFalloff = 100.0
	intensityMin     = 50
	intensityMax     = 255
)

// EngineConfig configures the sweep engine.
type EngineConfig struct {
	// MaxRange is the sensor range in meters; 0 means DefaultMaxRange.
	MaxRange float64
	// JitterAmplitude bounds the random intensity perturbation (± counts).
	// Negative disables jitter entirely; 0 means DefaultJitterAmplitude.
	JitterAmplitude int
	// Rand is the jitter source; nil means a time-seeded source.
	Rand *rand.Rand
}

// Engine produces full sweeps against world snapshots. Sweep angles are
// world-frame absolute: angle 0 always points along world +x, regardless of
// bot heading, matching the reference sensor. Safe for concurrent use: a
// synchronous sweep may run while the scheduler worker drives the same
// engine, contending only on the jitter source.
type Engine struct {
	maxRange float64
	jitter   int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates a sweep engine.
func NewEngine(cfg EngineConfig) *Engine {
	maxRange := cfg.MaxRange
	if maxRange <= 0 {
		maxRange = DefaultMaxRange
	}
	jitter := cfg.JitterAmplitude
	switch {
	case jitter < 0:
		jitter = 0
	case jitter == 0:
		jitter = DefaultJitterAmplitude
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{maxRange: maxRange, jitter: jitter, rng: rng}
}

// MaxRange returns the sensor range in meters.
func (e *Engine) MaxRange() float64 { return e.maxRange }

// Sweep casts one ray per integer degree, 0..359 in increasing order, and
// returns the 360 readings. Rays with no return within range report distance
// 0 and intensity 0.
func (e *Engine) Sweep(snap world.Snapshot) Sweep {
	now := time.Now()
	readings := make(Sweep, 0, Resolution)
	for angle := 0; angle < Resolution; angle++ {
		r := Reading{Angle: angle, Timestamp: now}
		if hit := snap.NearestHit(float64(angle), e.maxRange); hit.Kind != world.HitNone {
			r.Kind = hit.Kind
			r.Distance = hit.Distance
			r.Intensity = e.intensity(hit.Distance)
		}
		readings = append(readings, r)
	}
	return readings
}

// intensity maps a hit distance to a return intensity with falloff and
// bounded jitter.
func (e *Engine) intensity(distance float64) int {
	base := intensityNear - (distance/e.maxRange)*intensityFalloff
	if e.jitter > 0 {
		e.mu.Lock()
		base += float64(e.rng.Intn(2*e.jitter+1) - e.jitter)
		e.mu.Unlock()
	}
	v := int(math.Round(base))
	if v < intensityMin {
		return intensityMin
	}
	if v > intensityMax {
		return intensityMax
	}
	return v
}
