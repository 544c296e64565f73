package vertical

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/collision"
)

// MotionState is the vertical motion state of a single character. It is owned by that character
// and only mutated by Controller. Velocities and predictions are only valid for the current tick.
type MotionState struct {
	VerticalVelocity    float32
	InitialJumpVelocity float32
	AirTime             float32
	FallTime            float32

	Grounded        bool
	DidJump         bool
	GroundingAssist bool

	// Gravity is the smoothed effective gravity. A zero value snaps to the first target computed.
	Gravity float32

	CachedGroundVelocity mgl32.Vec3

	// PredictedLandingPosition is only meaningful when HasPredictedLanding is true.
	PredictedLandingPosition mgl32.Vec3
	HasPredictedLanding      bool
	// PredictedFallDistance is zero while grounded, and +Inf when no landing is predicted.
	PredictedFallDistance float32
}

// NewMotionState returns the state of a character standing still.
func NewMotionState(p *GravityProfile) MotionState {
	return MotionState{
		Grounded: true,
		Gravity:  p.Gravity,
	}
}

// ClearPrediction forgets the predicted landing.
func (s *MotionState) ClearPrediction() {
	s.HasPredictedLanding = false
	s.PredictedLandingPosition = mgl32.Vec3{}
	s.PredictedFallDistance = math32.Inf(1)
}

// Input is the per-tick input of the vertical controller.
type Input struct {
	// ForwardSpeed is the normalized forward speed the gravity curves are sampled at.
	ForwardSpeed float32
	// JumpHeld is sampled once per tick, when gravity is computed.
	JumpHeld bool
}

// Outcome describes which path the controller took for a tick.
type Outcome uint8

const (
	OutcomeAirborne Outcome = iota
	OutcomeGrounded
	OutcomeLanded
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAirborne:
		return "airborne"
	case OutcomeGrounded:
		return "grounded"
	case OutcomeLanded:
		return "landed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result captures the outcome of a single tick.
type Result struct {
	// Displacement is the displacement requested from the collision provider.
	Displacement mgl32.Vec3
	// Collision is what the provider reported for the move.
	Collision collision.Result
	// Pushed is the number of bodies an impulse was applied to.
	Pushed int

	Outcome Outcome
}
