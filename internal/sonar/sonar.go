// Package sonar simulates the forward-facing range sensor used for
// close-range obstacle checks. Unlike the world-frame LIDAR, the sonar is
// body-mounted: its single ray follows the bot heading.
package sonar

import (
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/banshee-data/botarena/internal/world"
)

// Sensor characteristics of the simulated hardware.
const (
	DefaultMaxRange          = 4.0
	DefaultMinRange          = 0.02
	DefaultObstacleThreshold = 0.5
)

// ErrNotEnabled is returned when reading a disabled sonar.
var ErrNotEnabled = errors.New("sonar is not enabled")

// Reading is a single sonar range sample. Kind is HitNone when nothing
// echoed within range; Distance then reports the sensor max range.
type Reading struct {
	Distance  float64
	Kind      world.HitKind
	Timestamp time.Time
}

// Config configures a sonar sensor.
type Config struct {
	// MaxRange in meters; 0 means DefaultMaxRange.
	MaxRange float64
	// MinRange in meters; 0 means DefaultMinRange. Returns closer than this
	// are clamped up to it (dead zone of the transducer).
	MinRange float64
	// Logger is optional; if nil, uses log.Default().
	Logger *log.Logger
}

// Sonar is the simulated sensor. Safe for concurrent use.
type Sonar struct {
	maxRange float64
	minRange float64
	logger   *log.Logger

	mu      sync.Mutex
	enabled bool
}

// New creates a disabled sonar.
func New(cfg Config) *Sonar {
	maxRange := cfg.MaxRange
	if maxRange <= 0 {
		maxRange = DefaultMaxRange
	}
	minRange := cfg.MinRange
	if minRange <= 0 {
		minRange = DefaultMinRange
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Sonar{maxRange: maxRange, minRange: minRange, logger: logger}
}

// Enable powers the sensor on.
func (s *Sonar) Enable() {
	s.mu.Lock()
	s.enabled = true
	s.mu.Unlock()
	s.logger.Printf("sonar: enabled (range %.2fm-%.2fm)", s.minRange, s.maxRange)
}

// Disable powers the sensor off.
func (s *Sonar) Disable() {
	s.mu.Lock()
	s.enabled = false
	s.mu.Unlock()
	s.logger.Printf("sonar: disabled")
}

// Enabled reports whether the sensor is on.
func (s *Sonar) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// MaxRange returns the sensor range in meters.
func (s *Sonar) MaxRange() float64 { return s.maxRange }

// Distance fires a single ray along the bot heading and returns the range
// sample. Reading a disabled sonar is an error.
func (s *Sonar) Distance(snap world.Snapshot) (Reading, error) {
	if !s.Enabled() {
		return Reading{}, ErrNotEnabled
	}
	if !snap.HasPose {
		return Reading{}, errors.New("bot pose not set")
	}

	r := Reading{Timestamp: time.Now()}
	hit := snap.NearestHit(snap.Pose.HeadingDeg, s.maxRange)
	if hit.Kind == world.HitNone {
		r.Distance = s.maxRange
		return r, nil
	}
	r.Kind = hit.Kind
	r.Distance = hit.Distance
	if r.Distance < s.minRange {
		r.Distance = s.minRange
	}
	return r, nil
}

// ObstacleDetected reports whether anything echoes closer than threshold
// along the heading. A disabled sonar detects nothing. Pass threshold <= 0
// for DefaultObstacleThreshold.
func (s *Sonar) ObstacleDetected(snap world.Snapshot, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultObstacleThreshold
	}
	r, err := s.Distance(snap)
	if err != nil {
		return false
	}
	return r.Kind != world.HitNone && r.Distance < threshold
}
