// Package motors simulates the four-stepper drive train. The steppers keep
// position and speed bookkeeping only; translating steps into arena motion
// is the bot facade's job.
package motors

import (
	"log"
	"sync"

	"github.com/pkg/errors"
)

// DefaultStepsPerRevolution matches the simulated stepper hardware.
const DefaultStepsPerRevolution = 200

// ErrDisabled is returned when stepping a motor that is not enabled.
var ErrDisabled = errors.New("motor is not enabled")

// Direction of stepper rotation.
type Direction int

const (
	Clockwise        Direction = 1
	Counterclockwise Direction = -1
)

func (d Direction) String() string {
	if d == Counterclockwise {
		return "counterclockwise"
	}
	return "clockwise"
}

// Stepper models one stepper motor.
type Stepper struct {
	id          int
	stepsPerRev int

	mu        sync.Mutex
	enabled   bool
	speed     int // steps per second
	position  int // net steps from power-on
	direction Direction
}

// NewStepper creates a disabled stepper with the default resolution.
func NewStepper(id int) *Stepper {
	return &Stepper{id: id, stepsPerRev: DefaultStepsPerRevolution, speed: 100, direction: Clockwise}
}

// Enable energizes the coils.
func (m *Stepper) Enable() {
	m.mu.Lock()
	m.enabled = true
	m.mu.Unlock()
}

// Disable de-energizes the coils.
func (m *Stepper) Disable() {
	m.mu.Lock()
	m.enabled = false
	m.mu.Unlock()
}

// Enabled reports whether the coils are energized.
func (m *Stepper) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// SetSpeed sets the stepping rate in steps per second.
func (m *Stepper) SetSpeed(stepsPerSecond int) error {
	if stepsPerSecond <= 0 {
		return errors.Errorf("motor %d: speed must be positive, got %d", m.id, stepsPerSecond)
	}
	m.mu.Lock()
	m.speed = stepsPerSecond
	m.mu.Unlock()
	return nil
}

// Step moves by n steps; the sign selects the direction. Stepping a disabled
// motor is an error.
func (m *Stepper) Step(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return errors.Wrapf(ErrDisabled, "motor %d", m.id)
	}
	if n < 0 {
		m.direction = Counterclockwise
	} else {
		m.direction = Clockwise
	}
	m.position += n
	return nil
}

// RotateDegrees moves by the number of steps closest to the given rotation.
func (m *Stepper) RotateDegrees(degrees float64) error {
	steps := int(degrees / 360 * float64(m.stepsPerRev))
	return m.Step(steps)
}

// Position returns the net step count from power-on.
func (m *Stepper) Position() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// Direction returns the last commanded direction.
func (m *Stepper) Direction() Direction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.direction
}

// Controller drives the four drive steppers: front-left, front-right,
// rear-left, rear-right. Turns are differential.
type Controller struct {
	motors [4]*Stepper
	logger *log.Logger
}

// Motor indices on the controller.
const (
	FrontLeft = iota
	FrontRight
	RearLeft
	RearRight
)

// NewController creates a controller with four disabled steppers. Logger may
// be nil, in which case log.Default() is used.
func NewController(logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	c := &Controller{logger: logger}
	for i := range c.motors {
		c.motors[i] = NewStepper(i + 1)
	}
	return c
}

// Motor returns the stepper at the given index (FrontLeft..RearRight).
func (c *Controller) Motor(i int) *Stepper { return c.motors[i] }

// EnableAll energizes every motor.
func (c *Controller) EnableAll() {
	for _, m := range c.motors {
		m.Enable()
	}
	c.logger.Printf("motors: all enabled")
}

// DisableAll de-energizes every motor.
func (c *Controller) DisableAll() {
	for _, m := range c.motors {
		m.Disable()
	}
	c.logger.Printf("motors: all disabled")
}

// StopAll halts motion immediately. Positions are retained.
func (c *Controller) StopAll() {
	c.logger.Printf("motors: stop")
}

// SetAllSpeeds sets every motor's stepping rate.
func (c *Controller) SetAllSpeeds(stepsPerSecond int) error {
	for _, m := range c.motors {
		if err := m.SetSpeed(stepsPerSecond); err != nil {
			return err
		}
	}
	return nil
}

// MoveForward steps all motors forward together.
func (c *Controller) MoveForward(steps int) error {
	return c.stepAll(steps, steps, steps, steps)
}

// MoveBackward steps all motors backward together.
func (c *Controller) MoveBackward(steps int) error {
	return c.stepAll(-steps, -steps, -steps, -steps)
}

// TurnLeft runs the right side forward and the left side backward.
func (c *Controller) TurnLeft(steps int) error {
	return c.stepAll(-steps, steps, -steps, steps)
}

// TurnRight runs the left side forward and the right side backward.
func (c *Controller) TurnRight(steps int) error {
	return c.stepAll(steps, -steps, steps, -steps)
}

// RotateInPlace spins the chassis in the given direction.
func (c *Controller) RotateInPlace(steps int, clockwise bool) error {
	if clockwise {
		return c.TurnRight(steps)
	}
	return c.TurnLeft(steps)
}

func (c *Controller) stepAll(fl, fr, rl, rr int) error {
	steps := [4]int{fl, fr, rl, rr}
	for i, m := range c.motors {
		if err := m.Step(steps[i]); err != nil {
			return err
		}
	}
	return nil
}
