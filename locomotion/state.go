package locomotion

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/utils"
	"github.com/oomph-ac/locomotion/vertical"
)

// Mode is the movement mode of a character.
type Mode uint8

const (
	// ModeAction faces the direction of movement and blends a single forward speed.
	ModeAction Mode = iota
	// ModeStrafe faces the camera and blends forward and lateral speeds.
	ModeStrafe
)

func (m Mode) String() string {
	if m == ModeStrafe {
		return "strafe"
	}
	return "action"
}

// State is the locomotion state of a single character, owned by that character.
type State struct {
	Mode Mode
	// Forward and Lateral are the sliding windows of recent input samples. Forward survives mode
	// switches, Lateral is reset on every switch.
	Forward *utils.SlidingAverage
	Lateral *utils.SlidingAverage

	// NormalizedForwardSpeed and NormalizedLateralSpeed are clamped to [-1, 1]. They are the single
	// source of truth for gravity curve sampling, turn speed and animation blending.
	NormalizedForwardSpeed float32
	NormalizedLateralSpeed float32

	Sprinting bool
	// Aligning is true after entering strafe mode, until the character faces the camera.
	Aligning bool
}

// NewState returns the state of an idle character in action mode.
func NewState(window int) State {
	return State{
		Forward: utils.NewSlidingAverage(window),
		Lateral: utils.NewSlidingAverage(window),
	}
}

// Result captures what a character did during a tick.
type Result struct {
	Vertical vertical.Result
	// YawDelta is the yaw change applied this tick.
	YawDelta float32
	// GroundMove is the horizontal displacement requested this tick.
	GroundMove mgl32.Vec3
	Jumped     bool
}
