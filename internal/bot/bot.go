// Package bot composes the world, the LIDAR scan scheduler, the sonar, and
// the motor controller into the autonomous vehicle facade the driver talks
// to.
package bot

import (
	"log"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"github.com/banshee-data/botarena/internal/geom"
	"github.com/banshee-data/botarena/internal/lidar"
	"github.com/banshee-data/botarena/internal/motors"
	"github.com/banshee-data/botarena/internal/sonar"
	"github.com/banshee-data/botarena/internal/world"
)

// Movement defaults.
const (
	DefaultLidarFrequencyHz = 1.0
	DefaultStepMeters       = 0.1
	DefaultTurnStepDegrees  = 15.0
	defaultMotorSpeed       = 100
)

// ErrNotInitialized is returned by sensor and movement commands before
// Initialize.
var ErrNotInitialized = errors.New("bot is not initialized")

// Config configures a bot.
type Config struct {
	// World is the arena the bot lives in. Required.
	World *world.World
	// LidarFrequencyHz is the continuous scan rate; 0 means 1Hz.
	LidarFrequencyHz float64
	// LidarMaxRange in meters; 0 means the engine default.
	LidarMaxRange float64
	// IntensityJitter follows the engine convention: negative disables,
	// 0 means the default amplitude.
	IntensityJitter int
	// SonarMaxRange/SonarMinRange in meters; 0 means the sonar defaults.
	SonarMaxRange float64
	SonarMinRange float64
	// StepMeters is the linear distance per motor step command; 0 means
	// DefaultStepMeters.
	StepMeters float64
	// TurnStepDegrees is the rotation per turn step command; 0 means
	// DefaultTurnStepDegrees.
	TurnStepDegrees float64
	// Clock drives the scan scheduler; nil means the wall clock.
	Clock clock.Clock
	// Logger is optional; if nil, uses log.Default().
	Logger *log.Logger
}

// Bot is the autonomous vehicle: a rotating LIDAR for mapping, a sonar for
// close-range checks, and a four-stepper drive train.
type Bot struct {
	wld       *world.World
	scheduler *lidar.Scheduler
	sonar     *sonar.Sonar
	motors    *motors.Controller
	logger    *log.Logger

	freqHz      float64
	stepMeters  float64
	turnStepDeg float64

	mu          sync.Mutex
	initialized bool
}

// New creates an uninitialized bot.
func New(cfg Config) (*Bot, error) {
	if cfg.World == nil {
		return nil, errors.New("bot requires a world")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	freqHz := cfg.LidarFrequencyHz
	if freqHz <= 0 {
		freqHz = DefaultLidarFrequencyHz
	}
	stepMeters := cfg.StepMeters
	if stepMeters <= 0 {
		stepMeters = DefaultStepMeters
	}
	turnStepDeg := cfg.TurnStepDegrees
	if turnStepDeg <= 0 {
		turnStepDeg = DefaultTurnStepDegrees
	}

	engine := lidar.NewEngine(lidar.EngineConfig{
		MaxRange:        cfg.LidarMaxRange,
		JitterAmplitude: cfg.IntensityJitter,
	})
	scheduler := lidar.NewScheduler(lidar.SchedulerConfig{
		World:  cfg.World,
		Engine: engine,
		Clock:  cfg.Clock,
		Logger: logger,
	})

	return &Bot{
		wld:       cfg.World,
		scheduler: scheduler,
		sonar: sonar.New(sonar.Config{
			MaxRange: cfg.SonarMaxRange,
			MinRange: cfg.SonarMinRange,
			Logger:   logger,
		}),
		motors:      motors.NewController(logger),
		logger:      logger,
		freqHz:      freqHz,
		stepMeters:  stepMeters,
		turnStepDeg: turnStepDeg,
	}, nil
}

// Initialize powers up sensors and motors.
func (b *Bot) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initialized {
		return nil
	}
	b.sonar.Enable()
	b.motors.EnableAll()
	if err := b.motors.SetAllSpeeds(defaultMotorSpeed); err != nil {
		return err
	}
	b.initialized = true
	b.logger.Printf("bot: all systems initialized")
	return nil
}

// Shutdown stops scanning and powers everything down. Safe to call on an
// uninitialized bot.
func (b *Bot) Shutdown() {
	b.scheduler.Stop()
	b.motors.StopAll()
	b.motors.DisableAll()
	b.sonar.Disable()

	b.mu.Lock()
	b.initialized = false
	b.mu.Unlock()
	b.logger.Printf("bot: shutdown complete")
}

// Initialized reports whether the bot is powered up.
func (b *Bot) Initialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}

func (b *Bot) checkInitialized() error {
	if !b.Initialized() {
		return ErrNotInitialized
	}
	return nil
}

// World returns the arena the bot lives in.
func (b *Bot) World() *world.World { return b.wld }

// Scan performs a single synchronous sweep.
func (b *Bot) Scan() (lidar.Sweep, error) {
	if err := b.checkInitialized(); err != nil {
		return nil, err
	}
	snap := b.wld.Snapshot()
	if !snap.HasPose {
		return nil, errors.New("bot pose not set")
	}
	return b.scheduler.Engine().Sweep(snap), nil
}

// StartScanning begins continuous scanning at the configured frequency,
// invoking cb once per completed sweep.
func (b *Bot) StartScanning(cb func(lidar.Sweep)) error {
	if err := b.checkInitialized(); err != nil {
		return err
	}
	return b.scheduler.Start(b.freqHz, cb)
}

// StopScanning halts the continuous scan worker.
func (b *Bot) StopScanning() { b.scheduler.Stop() }

// LatestScan returns the most recent completed sweep, or nil.
func (b *Bot) LatestScan() lidar.Sweep { return b.scheduler.Latest() }

// Scanning reports whether the continuous scan worker is running.
func (b *Bot) Scanning() bool { return b.scheduler.Running() }

// SonarDistance reads the sonar along the current heading.
func (b *Bot) SonarDistance() (sonar.Reading, error) {
	if err := b.checkInitialized(); err != nil {
		return sonar.Reading{}, err
	}
	return b.sonar.Distance(b.wld.Snapshot())
}

// CheckObstacles reports whether the sonar sees anything closer than
// threshold (<=0 for the default) along the heading.
func (b *Bot) CheckObstacles(threshold float64) (bool, error) {
	if err := b.checkInitialized(); err != nil {
		return false, err
	}
	return b.sonar.ObstacleDetected(b.wld.Snapshot(), threshold), nil
}

// MoveForward advances the bot along its heading by steps.
func (b *Bot) MoveForward(steps int) error {
	return b.translate(steps, false)
}

// MoveBackward backs the bot away from its heading by steps.
func (b *Bot) MoveBackward(steps int) error {
	return b.translate(steps, true)
}

// translate converts steps to a world displacement and moves both the
// drive train and the pose. The world rejects moves into obstacles or out
// of bounds before any state changes.
func (b *Bot) translate(steps int, backward bool) error {
	if err := b.checkInitialized(); err != nil {
		return err
	}
	if steps <= 0 {
		return errors.Errorf("steps must be positive, got %d", steps)
	}

	pose, ok := b.wld.Pose()
	if !ok {
		return errors.New("bot pose not set")
	}
	distance := float64(steps) * b.stepMeters
	if backward {
		distance = -distance
	}
	dir := geom.UnitVector(pose.HeadingDeg)
	if err := b.wld.MoveBot(dir.X*distance, dir.Y*distance); err != nil {
		return err
	}
	if backward {
		return b.motors.MoveBackward(steps)
	}
	return b.motors.MoveForward(steps)
}

// TurnLeft rotates the bot counter-clockwise by steps.
func (b *Bot) TurnLeft(steps int) error {
	return b.turn(steps, false)
}

// TurnRight rotates the bot clockwise by steps.
func (b *Bot) TurnRight(steps int) error {
	return b.turn(steps, true)
}

// Rotate spins the bot in place.
func (b *Bot) Rotate(steps int, clockwise bool) error {
	return b.turn(steps, clockwise)
}

func (b *Bot) turn(steps int, clockwise bool) error {
	if err := b.checkInitialized(); err != nil {
		return err
	}
	if steps <= 0 {
		return errors.Errorf("steps must be positive, got %d", steps)
	}

	delta := float64(steps) * b.turnStepDeg
	if clockwise {
		delta = -delta
	}
	if err := b.wld.RotateBot(delta); err != nil {
		return err
	}
	return b.motors.RotateInPlace(steps, clockwise)
}

// Stop halts the drive train immediately.
func (b *Bot) Stop() { b.motors.StopAll() }

// SafeMoveForward checks the sonar before moving: when anything echoes
// closer than threshold the move is refused and false is returned.
func (b *Bot) SafeMoveForward(steps int, threshold float64) (bool, error) {
	blocked, err := b.CheckObstacles(threshold)
	if err != nil {
		return false, err
	}
	if blocked {
		b.logger.Printf("bot: obstacle detected, movement cancelled")
		return false, nil
	}
	if err := b.MoveForward(steps); err != nil {
		return false, err
	}
	return true, nil
}

// Heading returns the current heading in degrees, or an error when the bot
// has not been placed.
func (b *Bot) Heading() (float64, error) {
	pose, ok := b.wld.Pose()
	if !ok {
		return 0, errors.New("bot pose not set")
	}
	return pose.HeadingDeg, nil
}

// Motors exposes the drive train for inspection.
func (b *Bot) Motors() *motors.Controller { return b.motors }
