package lidar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/botarena/internal/monitoring"
	"github.com/banshee-data/botarena/internal/world"
)

func TestMain(m *testing.M) {
	monitoring.Mute()
	m.Run()
}

// deterministicEngine has jitter disabled so intensities are exact.
func deterministicEngine(maxRange float64) *Engine {
	return NewEngine(EngineConfig{MaxRange: maxRange, JitterAmplitude: -1})
}

func newArena(t *testing.T, width, height float64) *world.World {
	t.Helper()
	w, err := world.New(width, height)
	require.NoError(t, err)
	return w
}

func TestSweepEmptyWorldOutOfRange(t *testing.T) {
	// Bot in the middle of a large arena: every border is farther than the
	// sensor range, so all 360 readings are the no-return sentinel.
	w := newArena(t, 100, 100)
	require.NoError(t, w.SetBotPose(50, 50, 0))

	sweep := deterministicEngine(5).Sweep(w.Snapshot())
	require.Len(t, sweep, Resolution)
	for _, r := range sweep {
		assert.Equal(t, 0.0, r.Distance)
		assert.Equal(t, 0, r.Intensity)
		assert.Equal(t, world.HitNone, r.Kind)
		assert.False(t, r.Detected())
	}
}

func TestSweepOrderingStrictlyIncreasing(t *testing.T) {
	w := newArena(t, 25, 25)
	require.NoError(t, w.SetBotPose(12.5, 12.5, 0))

	sweep := deterministicEngine(5).Sweep(w.Snapshot())
	require.Len(t, sweep, Resolution)
	for i, r := range sweep {
		assert.Equal(t, i, r.Angle, "one reading per integer degree, in order, no gaps")
	}
}

func TestSweepObstacleDistanceAndIntensity(t *testing.T) {
	w := newArena(t, 100, 100)
	require.NoError(t, w.SetBotPose(50, 50, 0))
	// Centered on the 0° ray at distance 3 with radius 0.5: entry at 2.5m.
	require.NoError(t, w.AddObstacle(53, 50, 0.5))

	sweep := deterministicEngine(5).Sweep(w.Snapshot())
	r := sweep[0]
	require.Equal(t, world.HitObstacle, r.Kind)
	assert.InDelta(t, 2.5, r.Distance, 1e-9)
	// 200 - (2.5/5)*100 = 150, no jitter.
	assert.Equal(t, 150, r.Intensity)
	assert.True(t, r.Detected())
}

func TestSweepIntensityClamped(t *testing.T) {
	e := deterministicEngine(5)
	// Point blank: 200, under the 255 cap.
	assert.Equal(t, 200, e.intensity(0))
	// Max range: 100, above the 50 floor.
	assert.Equal(t, 100, e.intensity(5))
}

func TestSweepIntensityJitterBounded(t *testing.T) {
	e := NewEngine(EngineConfig{
		MaxRange:        5,
		JitterAmplitude: DefaultJitterAmplitude,
		Rand:            rand.New(rand.NewSource(1)),
	})
	for i := 0; i < 500; i++ {
		v := e.intensity(2.5)
		assert.GreaterOrEqual(t, v, 150-DefaultJitterAmplitude)
		assert.LessOrEqual(t, v, 150+DefaultJitterAmplitude)
	}
}

func TestSweepAnglesAreWorldFrameNotHeadingRelative(t *testing.T) {
	// The reference sensor reports sweep angles in a fixed world frame:
	// angle 0 always points along world +x, whatever the bot heading. A
	// rotating head would normally offset by heading; this pins the
	// preserved behavior so a change shows up as a deliberate decision.
	w := newArena(t, 100, 100)
	require.NoError(t, w.AddObstacle(53, 50, 0.5))

	e := deterministicEngine(5)

	require.NoError(t, w.SetBotPose(50, 50, 0))
	facingEast := e.Sweep(w.Snapshot())
	require.NoError(t, w.SetBotPose(50, 50, 90))
	facingNorth := e.Sweep(w.Snapshot())

	assert.Equal(t, facingEast[0].Kind, facingNorth[0].Kind)
	assert.InDelta(t, facingEast[0].Distance, facingNorth[0].Distance, 1e-9,
		"heading must not shift sweep angles")
}

func TestSweepBoundaryBandsScenario(t *testing.T) {
	// 25x25 arena, bot at (22,22), no obstacles, 10m range: the top and
	// right borders are 3m away and produce two angular bands of boundary
	// hits; everything pointing at the far borders (22m+) returns nothing.
	w := newArena(t, 25, 25)
	require.NoError(t, w.SetBotPose(22, 22, 0))

	sweep := deterministicEngine(10).Sweep(w.Snapshot())

	r := sweep[0] // toward the right border
	require.Equal(t, world.HitBoundary, r.Kind)
	assert.InDelta(t, 3.0, r.Distance, 1e-9)

	r = sweep[90] // toward the top border
	require.Equal(t, world.HitBoundary, r.Kind)
	assert.InDelta(t, 3.0, r.Distance, 1e-9)

	assert.Equal(t, world.HitNone, sweep[180].Kind, "left border is 22m away")
	assert.Equal(t, world.HitNone, sweep[270].Kind, "bottom border is 22m away")
	assert.Equal(t, world.HitNone, sweep[225].Kind)

	// The detections form exactly two contiguous angular bands: one
	// spanning the top/right arc (wrapping through 0°), one gap elsewhere.
	transitions := 0
	for i := 0; i < Resolution; i++ {
		prev := sweep[(i+Resolution-1)%Resolution].Detected()
		if sweep[i].Detected() != prev {
			transitions++
		}
	}
	assert.Equal(t, 2, transitions, "detected angles form one wrapped arc (top+right bands merge at 45°)")

	for _, r := range sweep {
		if r.Detected() {
			assert.Equal(t, world.HitBoundary, r.Kind, "no obstacles: every return is a border")
			assert.LessOrEqual(t, r.Distance, 10.0)
		}
	}
}

func TestSweepObstacleShadowsBoundary(t *testing.T) {
	w := newArena(t, 25, 25)
	require.NoError(t, w.SetBotPose(22, 22, 0))
	require.NoError(t, w.AddObstacle(24, 22, 0.5))

	sweep := deterministicEngine(10).Sweep(w.Snapshot())
	r := sweep[0]
	require.Equal(t, world.HitObstacle, r.Kind, "obstacle in front of the border wins")
	assert.InDelta(t, 1.5, r.Distance, 1e-9)
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(EngineConfig{})
	assert.Equal(t, DefaultMaxRange, e.MaxRange())
	assert.Equal(t, DefaultJitterAmplitude, e.jitter)
	assert.NotNil(t, e.rng)
}
