// Package animation declares the Animation Layer the locomotion core drives. The core writes
// blend parameters every tick, hands rapid turns to a TurnDriver, and can source ground movement
// from root motion.
package animation

import "github.com/go-gl/mathgl/mgl32"

// Params are the blend parameters written to the animation layer every tick.
type Params struct {
	ForwardSpeed float32
	LateralSpeed float32
	TurningSpeed float32
	// PredictedFallDistance is zero while grounded and +Inf when no landing is predicted.
	PredictedFallDistance float32
	Grounded              bool
}

// Sink receives blend parameters.
type Sink interface {
	SetParams(p Params)
}

// TurnDriver plays turn animations. While a turn is playing, it reports the yaw the animation
// rotated the character by since the last poll, and whether the turn has finished.
type TurnDriver interface {
	BeginTurn(angle float32)
	PollTurnMotion() (delta float32, complete bool)
}

// RootMotion exposes the displacement the current animation moved the character by since the
// last call.
type RootMotion interface {
	RootMotionDelta() mgl32.Vec3
}

// Layer is a full animation layer.
type Layer interface {
	Sink
	TurnDriver
	RootMotion
}
