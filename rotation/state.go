package rotation

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/event"
	"github.com/oomph-ac/locomotion/utils"
)

// Phase is the phase of the rapid turn state machine.
type Phase uint8

const (
	// PhaseNone is normal, controller driven, rotation.
	PhaseNone Phase = iota
	// PhaseTurning hands rotation to a turn animation until it signals completion.
	PhaseTurning
	// PhaseEasing rotates towards the target at the easing speed for a fixed duration.
	PhaseEasing
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseTurning:
		return "turning"
	case PhaseEasing:
		return "easing"
	default:
		return "unknown"
	}
}

// TurnState is the rotation state of a single character, owned by that character.
type TurnState struct {
	// CurrentYaw and TargetYaw are in degrees, wrapped to (-180, 180].
	CurrentYaw float32
	TargetYaw  float32
	// NormalizedTurnSpeed is the smoothed signed turn rate over the max turn speed, in [-1, 1].
	NormalizedTurnSpeed float32

	Phase Phase
	// EasingElapsed is the time spent in PhaseEasing.
	EasingElapsed float32
	// TurnElapsed is the time spent in PhaseTurning.
	TurnElapsed float32
	// Trigger is the condition that started the current or last rapid turn.
	Trigger event.TurnTrigger
	// SavedForwardSpeed is the forward speed at the moment the current rapid turn started.
	SavedForwardSpeed float32

	// History holds the most recent raw movement inputs, oldest first.
	History *utils.CircularQueue[mgl32.Vec2]
}

// NewTurnState returns the state of a character facing yaw, remembering historySize inputs.
func NewTurnState(yaw float32, historySize int) TurnState {
	return TurnState{
		CurrentYaw: yaw,
		TargetYaw:  yaw,
		History:    utils.NewCircularQueue[mgl32.Vec2](historySize),
	}
}

// Input is the per-tick input of the rotation controller.
type Input struct {
	// Move is the raw movement input, relative to the camera.
	Move mgl32.Vec2
	// CameraForward is the forward vector of the camera. Its vertical component is ignored.
	CameraForward mgl32.Vec3
	// ForwardSpeed is the normalized forward speed of the character.
	ForwardSpeed float32
	Grounded     bool

	// FaceCamera targets the camera yaw regardless of movement input.
	FaceCamera bool
	// AlignTurn allows a rapid turn to start when facing the camera needs more than the
	// stationary threshold.
	AlignTurn bool
}

// HasMove returns true if there is movement input.
func (in Input) HasMove() bool {
	return in.Move.LenSqr() > 1e-8
}

// Result captures what the controller did during a tick.
type Result struct {
	// YawDelta is the wrapped yaw change applied this tick.
	YawDelta float32
	// Started is true if a rapid turn started this tick.
	Started bool
	Phase   Phase
}
