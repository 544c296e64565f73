// Package input declares the Input Source consumed by the locomotion coordinator.
package input

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
)

// Frame is the input of a single tick.
type Frame struct {
	// Move is the raw movement stick, x to the right and y forward.
	Move mgl32.Vec2
	// Look is the raw look delta, in degrees of yaw and pitch.
	Look mgl32.Vec2
	// CameraForward is the forward vector of the camera the input is relative to.
	CameraForward mgl32.Vec3

	JumpPressed bool
	JumpHeld    bool

	StrafeStarted bool
	StrafeEnded   bool
	SprintStarted bool
	SprintEnded   bool
}

// HasMove returns true if the movement stick is off centre.
func (f Frame) HasMove() bool {
	return f.Move.LenSqr() > 1e-8
}

// Source supplies the input of each tick.
type Source interface {
	Poll(tick int64) Frame
}

// Camera integrates look input into a yaw, for hosts without a camera of their own.
type Camera struct {
	Yaw         float32
	Sensitivity float32
}

// Apply rotates the camera by the look input of the frame and fills in CameraForward if the
// frame has none.
func (c *Camera) Apply(f Frame) Frame {
	sens := c.Sensitivity
	if sens == 0 {
		sens = 1
	}
	c.Yaw = game.WrapYaw(c.Yaw + f.Look.X()*sens)
	if f.CameraForward.LenSqr() == 0 {
		f.CameraForward = game.DirectionFromYaw(c.Yaw)
	}
	return f
}
