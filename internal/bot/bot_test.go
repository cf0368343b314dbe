package bot

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/botarena/internal/lidar"
	"github.com/banshee-data/botarena/internal/monitoring"
	"github.com/banshee-data/botarena/internal/motors"
	"github.com/banshee-data/botarena/internal/world"
)

func TestMain(m *testing.M) {
	monitoring.Mute()
	m.Run()
}

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	w, err := world.New(25, 25)
	require.NoError(t, err)
	require.NoError(t, w.SetBotPose(12.5, 12.5, 0))

	b, err := New(Config{
		World:            w,
		LidarFrequencyHz: 100, // fast cycles for tests
		IntensityJitter:  -1,
		StepMeters:       0.5,
		TurnStepDegrees:  45,
		Logger:           log.New(&bytes.Buffer{}, "", 0),
	})
	require.NoError(t, err)
	return b
}

func TestNewRequiresWorld(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestLifecycleGating(t *testing.T) {
	b := newTestBot(t)

	_, err := b.Scan()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, b.MoveForward(1), ErrNotInitialized)
	assert.ErrorIs(t, b.StartScanning(nil), ErrNotInitialized)
	_, err = b.SonarDistance()
	assert.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, b.Initialize())
	assert.True(t, b.Initialized())
	require.NoError(t, b.Initialize(), "re-initialize is a no-op")

	_, err = b.Scan()
	assert.NoError(t, err)

	b.Shutdown()
	assert.False(t, b.Initialized())
	_, err = b.Scan()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestScanReturnsFullSweep(t *testing.T) {
	b := newTestBot(t)
	require.NoError(t, b.Initialize())

	sweep, err := b.Scan()
	require.NoError(t, err)
	assert.Len(t, sweep, lidar.Resolution)
}

func TestMoveForwardUpdatesPoseAndMotors(t *testing.T) {
	b := newTestBot(t)
	require.NoError(t, b.Initialize())

	// Heading 0 (east), 2 steps of 0.5m.
	require.NoError(t, b.MoveForward(2))
	pose, _ := b.World().Pose()
	assert.InDelta(t, 13.5, pose.X, 1e-9)
	assert.InDelta(t, 12.5, pose.Y, 1e-9)
	assert.Equal(t, 2, b.Motors().Motor(motors.FrontLeft).Position())

	require.NoError(t, b.MoveBackward(1))
	pose, _ = b.World().Pose()
	assert.InDelta(t, 13.0, pose.X, 1e-9)
	assert.Equal(t, 1, b.Motors().Motor(motors.FrontLeft).Position())
}

func TestMoveRejectsNonPositiveSteps(t *testing.T) {
	b := newTestBot(t)
	require.NoError(t, b.Initialize())
	assert.Error(t, b.MoveForward(0))
	assert.Error(t, b.MoveBackward(-2))
	assert.Error(t, b.TurnLeft(0))
}

func TestMoveBlockedByObstacleLeavesMotorsUntouched(t *testing.T) {
	b := newTestBot(t)
	require.NoError(t, b.Initialize())
	require.NoError(t, b.World().AddObstacle(13.5, 12.5, 0.5))

	err := b.MoveForward(2) // would land at 13.5, inside the obstacle
	assert.Error(t, err)
	pose, _ := b.World().Pose()
	assert.InDelta(t, 12.5, pose.X, 1e-9, "pose unchanged")
	assert.Equal(t, 0, b.Motors().Motor(motors.FrontLeft).Position(), "motors unchanged")
}

func TestTurnsChangeHeading(t *testing.T) {
	b := newTestBot(t)
	require.NoError(t, b.Initialize())

	require.NoError(t, b.TurnLeft(1)) // +45
	h, err := b.Heading()
	require.NoError(t, err)
	assert.Equal(t, 45.0, h)

	require.NoError(t, b.TurnRight(2)) // -90
	h, _ = b.Heading()
	assert.Equal(t, 315.0, h)

	require.NoError(t, b.Rotate(1, false)) // +45
	h, _ = b.Heading()
	assert.Equal(t, 0.0, h)
}

func TestSafeMoveForward(t *testing.T) {
	b := newTestBot(t)
	require.NoError(t, b.Initialize())

	// Obstacle entry 0.3m ahead: inside the 0.5m default threshold.
	require.NoError(t, b.World().AddObstacle(13.3, 12.5, 0.5))

	moved, err := b.SafeMoveForward(1, 0.5)
	require.NoError(t, err)
	assert.False(t, moved, "sonar vetoes the move")
	pose, _ := b.World().Pose()
	assert.InDelta(t, 12.5, pose.X, 1e-9)

	// Facing away from the obstacle the path is clear.
	require.NoError(t, b.TurnLeft(4)) // 180°
	moved, err = b.SafeMoveForward(1, 0.5)
	require.NoError(t, err)
	assert.True(t, moved)
}

func TestContinuousScanThroughFacade(t *testing.T) {
	b := newTestBot(t)
	require.NoError(t, b.Initialize())

	require.NoError(t, b.StartScanning(nil))
	assert.True(t, b.Scanning())
	require.Eventually(t, func() bool { return b.LatestScan() != nil }, 2*time.Second, 5*time.Millisecond)
	assert.Len(t, b.LatestScan(), lidar.Resolution)

	b.StopScanning()
	assert.False(t, b.Scanning())
}

func TestScanConcurrentWithContinuousScanning(t *testing.T) {
	// Synchronous Scan and the scan worker share one engine, and with
	// jitter enabled both draw from its random source. Run them together
	// so the race detector covers the shared path.
	w, err := world.New(25, 25)
	require.NoError(t, err)
	require.NoError(t, w.SetBotPose(12.5, 12.5, 0))
	require.NoError(t, w.AddObstacle(15, 12.5, 0.5))

	b, err := New(Config{
		World:            w,
		LidarFrequencyHz: 200,
		IntensityJitter:  lidar.DefaultJitterAmplitude,
		Logger:           log.New(&bytes.Buffer{}, "", 0),
	})
	require.NoError(t, err)
	require.NoError(t, b.Initialize())
	defer b.Shutdown()

	require.NoError(t, b.StartScanning(nil))

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		sweep, err := b.Scan()
		require.NoError(t, err)
		require.Len(t, sweep, lidar.Resolution)
	}

	require.Eventually(t, func() bool { return b.LatestScan() != nil }, 2*time.Second, 5*time.Millisecond)
	b.StopScanning()
}

func TestShutdownStopsScanning(t *testing.T) {
	b := newTestBot(t)
	require.NoError(t, b.Initialize())
	require.NoError(t, b.StartScanning(nil))
	b.Shutdown()
	assert.False(t, b.Scanning())
}

func TestCheckObstacles(t *testing.T) {
	b := newTestBot(t)
	require.NoError(t, b.Initialize())

	blocked, err := b.CheckObstacles(0.5)
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, b.World().AddObstacle(13.2, 12.5, 0.5))
	blocked, err = b.CheckObstacles(0.5)
	require.NoError(t, err)
	assert.True(t, blocked)
}
