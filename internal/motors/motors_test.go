package motors

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietController() *Controller {
	return NewController(log.New(&bytes.Buffer{}, "", 0))
}

func TestStepperRequiresEnable(t *testing.T) {
	m := NewStepper(1)
	err := m.Step(10)
	assert.ErrorIs(t, err, ErrDisabled)

	m.Enable()
	require.NoError(t, m.Step(10))
	assert.Equal(t, 10, m.Position())

	m.Disable()
	assert.ErrorIs(t, m.Step(1), ErrDisabled)
}

func TestStepperDirectionFollowsSign(t *testing.T) {
	m := NewStepper(1)
	m.Enable()

	require.NoError(t, m.Step(5))
	assert.Equal(t, Clockwise, m.Direction())

	require.NoError(t, m.Step(-8))
	assert.Equal(t, Counterclockwise, m.Direction())
	assert.Equal(t, -3, m.Position())
}

func TestStepperSetSpeed(t *testing.T) {
	m := NewStepper(1)
	assert.Error(t, m.SetSpeed(0))
	assert.Error(t, m.SetSpeed(-5))
	assert.NoError(t, m.SetSpeed(150))
}

func TestStepperRotateDegrees(t *testing.T) {
	m := NewStepper(1)
	m.Enable()
	// 90 degrees at 200 steps/rev = 50 steps.
	require.NoError(t, m.RotateDegrees(90))
	assert.Equal(t, 50, m.Position())
}

func TestControllerMoveForward(t *testing.T) {
	c := quietController()
	c.EnableAll()
	require.NoError(t, c.MoveForward(20))
	for i := FrontLeft; i <= RearRight; i++ {
		assert.Equal(t, 20, c.Motor(i).Position())
	}
}

func TestControllerMoveBackward(t *testing.T) {
	c := quietController()
	c.EnableAll()
	require.NoError(t, c.MoveBackward(20))
	for i := FrontLeft; i <= RearRight; i++ {
		assert.Equal(t, -20, c.Motor(i).Position())
	}
}

func TestControllerDifferentialTurns(t *testing.T) {
	c := quietController()
	c.EnableAll()

	require.NoError(t, c.TurnLeft(10))
	assert.Equal(t, -10, c.Motor(FrontLeft).Position())
	assert.Equal(t, 10, c.Motor(FrontRight).Position())

	require.NoError(t, c.TurnRight(10))
	assert.Equal(t, 0, c.Motor(FrontLeft).Position())
	assert.Equal(t, 0, c.Motor(FrontRight).Position())
}

func TestControllerRotateInPlace(t *testing.T) {
	c := quietController()
	c.EnableAll()

	require.NoError(t, c.RotateInPlace(10, true))
	assert.Equal(t, 10, c.Motor(FrontLeft).Position(), "clockwise spins the left side forward")

	require.NoError(t, c.RotateInPlace(10, false))
	assert.Equal(t, 0, c.Motor(FrontLeft).Position())
}

func TestControllerDisabledMotorFailsWholeCommand(t *testing.T) {
	c := quietController()
	c.EnableAll()
	c.Motor(RearRight).Disable()
	assert.ErrorIs(t, c.MoveForward(5), ErrDisabled)
}

func TestControllerSetAllSpeeds(t *testing.T) {
	c := quietController()
	assert.Error(t, c.SetAllSpeeds(0))
	assert.NoError(t, c.SetAllSpeeds(100))
}
