// Package locomotion implements the locomotion mode coordinator. It turns raw input into smoothed
// forward and lateral speeds, switches between action and strafe modes and drives the vertical
// and rotation controllers of a character every tick.
package locomotion

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/animation"
	"github.com/oomph-ac/locomotion/curve"
	"github.com/oomph-ac/locomotion/event"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/input"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/rotation"
	"github.com/oomph-ac/locomotion/vertical"
)

// Options configure the coordinator.
type Options struct {
	// SpeedWindow is the number of samples of the forward and lateral sliding windows.
	SpeedWindow int `toml:"speed_window" yaml:"speed_window"`
	// StrafeAlignTolerance is the yaw error, in degrees, under which a character entering strafe
	// counts as facing the camera.
	StrafeAlignTolerance float32 `toml:"strafe_align_tolerance" yaml:"strafe_align_tolerance"`
	// AlignWithRapidTurn lets strafe alignment use a rapid turn when the rotation is large enough.
	AlignWithRapidTurn bool `toml:"align_with_rapid_turn" yaml:"align_with_rapid_turn"`
	// WalkScale scales input magnitude while not sprinting.
	WalkScale float32 `toml:"walk_scale" yaml:"walk_scale"`
	// MaxGroundSpeed is the ground speed, in units per second, at a normalized speed of one.
	MaxGroundSpeed float32 `toml:"max_ground_speed" yaml:"max_ground_speed"`
	// UseRootMotion sources grounded displacement from the animation layer.
	UseRootMotion bool `toml:"use_root_motion" yaml:"use_root_motion"`
	// JumpVelocity maps the normalized forward speed to the initial jump velocity.
	JumpVelocity curve.Curve `toml:"jump_velocity" yaml:"jump_velocity"`

	// Debugf receives internal trace logs for callers that need deep diagnostics.
	Debugf func(format string, args ...any) `toml:"-" yaml:"-"`
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		SpeedWindow:          game.DefaultSpeedWindow,
		StrafeAlignTolerance: game.DefaultStrafeAlignTolerance,
		AlignWithRapidTurn:   true,
		WalkScale:            game.DefaultWalkScale,
		MaxGroundSpeed:       game.DefaultMaxGroundSpeed,
		JumpVelocity:         curve.Linear(7, 8),
	}
}

// Validate returns an error wrapping oerror.ErrInvalidConfig if the options are unusable.
func (o Options) Validate() error {
	switch {
	case o.SpeedWindow <= 0:
		return oerror.InvalidConfig("locomotion.speed_window", "must be positive, got %v", o.SpeedWindow)
	case o.StrafeAlignTolerance < 0:
		return oerror.InvalidConfig("locomotion.strafe_align_tolerance", "must not be negative, got %v", o.StrafeAlignTolerance)
	case o.WalkScale < 0 || o.WalkScale > 1:
		return oerror.InvalidConfig("locomotion.walk_scale", "must be in [0, 1], got %v", o.WalkScale)
	case o.MaxGroundSpeed < 0:
		return oerror.InvalidConfig("locomotion.max_ground_speed", "must not be negative, got %v", o.MaxGroundSpeed)
	}
	return o.JumpVelocity.Validate("locomotion.jump_velocity")
}

// Coordinator drives the controllers of a character. Like the controllers, it holds no
// per-character state.
type Coordinator struct {
	Vertical *vertical.Controller
	Rotation *rotation.Controller
	Sink     animation.Sink
	// RootMotion is optional unless Options.UseRootMotion is set.
	RootMotion animation.RootMotion
	Options    Options
}

// New returns a coordinator, or an error if a collaborator is missing or the options are invalid.
func New(v *vertical.Controller, r *rotation.Controller, sink animation.Sink, root animation.RootMotion, opts Options) (*Coordinator, error) {
	switch {
	case v == nil:
		return nil, oerror.MissingCollaborator("vertical controller")
	case r == nil:
		return nil, oerror.MissingCollaborator("rotation controller")
	case sink == nil:
		return nil, oerror.MissingCollaborator("animation sink")
	case opts.UseRootMotion && root == nil:
		return nil, oerror.MissingCollaborator("root motion source")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Coordinator{Vertical: v, Rotation: r, Sink: sink, RootMotion: root, Options: opts}, nil
}

func (c *Coordinator) debugf(format string, args ...any) {
	if c.Options.Debugf != nil {
		c.Options.Debugf(format, args...)
	}
}

// Tick advances a character by dt seconds.
func (c *Coordinator) Tick(st *State, motion *vertical.MotionState, turn *rotation.TurnState, frame input.Frame, dt float32, batch *event.Batch) Result {
	c.handleEvents(st, frame, batch)

	// Rapid turns are triggered off the speed the character had before this tick's input.
	prevForward := st.NormalizedForwardSpeed
	move := game.ClampMagnitude2D(frame.Move, 1)
	if !st.Sprinting {
		move = move.Mul(c.Options.WalkScale)
	}
	c.updateSpeeds(st, turn, move)

	var res Result
	rot := c.Rotation.Tick(turn, rotation.Input{
		Move:          frame.Move,
		CameraForward: frame.CameraForward,
		ForwardSpeed:  prevForward,
		Grounded:      motion.Grounded,
		FaceCamera:    st.Mode == ModeStrafe,
		AlignTurn:     st.Aligning && c.Options.AlignWithRapidTurn,
	}, dt, batch)
	res.YawDelta = rot.YawDelta
	c.updateAlignment(st, turn, frame)

	if frame.JumpPressed {
		res.Jumped = c.tryJump(st, motion, turn, batch)
	}

	groundMove := c.groundMove(st, motion, turn, dt)
	res.GroundMove = groundMove
	res.Vertical = c.Vertical.Tick(motion, vertical.Input{
		ForwardSpeed: st.NormalizedForwardSpeed,
		JumpHeld:     frame.JumpHeld,
	}, groundMove, dt, batch)
	if !motion.Grounded && c.Rotation.AbandonTurn(turn, batch) {
		c.debugf("rapid turn abandoned after the move left the ground")
	}

	c.Sink.SetParams(animation.Params{
		ForwardSpeed:          st.NormalizedForwardSpeed,
		LateralSpeed:          st.NormalizedLateralSpeed,
		TurningSpeed:          turn.NormalizedTurnSpeed,
		PredictedFallDistance: motion.PredictedFallDistance,
		Grounded:              motion.Grounded,
	})
	return res
}

func (c *Coordinator) handleEvents(st *State, frame input.Frame, batch *event.Batch) {
	if frame.SprintStarted {
		st.Sprinting = true
	}
	if frame.SprintEnded {
		st.Sprinting = false
	}

	switch {
	case frame.StrafeStarted && st.Mode != ModeStrafe:
		c.setMode(st, ModeStrafe, batch)
		st.Aligning = true
	case frame.StrafeEnded && st.Mode != ModeAction:
		c.setMode(st, ModeAction, batch)
		st.Aligning = false
	}
}

func (c *Coordinator) setMode(st *State, mode Mode, batch *event.Batch) {
	st.Mode = mode
	// Only the lateral window is mode specific.
	st.Lateral.Reset()
	st.NormalizedLateralSpeed = 0
	batch.Add(event.ModeChanged{NopEvent: batch.Stamp(), Strafe: mode == ModeStrafe})
	c.debugf("locomotion mode changed to %v", mode)
}

// updateSpeeds samples the sliding windows. While a rapid turn plays, the forward speed captured
// when it started is reported and the windows are left untouched.
func (c *Coordinator) updateSpeeds(st *State, turn *rotation.TurnState, move mgl32.Vec2) {
	if turn.Phase == rotation.PhaseTurning {
		st.NormalizedForwardSpeed = turn.SavedForwardSpeed
		return
	}

	switch st.Mode {
	case ModeAction:
		st.NormalizedForwardSpeed = game.ClampFloat(st.Forward.Push(move.Len()), -1, 1)
		st.NormalizedLateralSpeed = 0
	case ModeStrafe:
		st.NormalizedForwardSpeed = game.ClampFloat(st.Forward.Push(move.Y()), -1, 1)
		if st.Aligning {
			st.NormalizedLateralSpeed = 0
			return
		}
		st.NormalizedLateralSpeed = game.ClampFloat(st.Lateral.Push(move.X()), -1, 1)
	}
}

// updateAlignment ends strafe alignment once the character faces the camera.
func (c *Coordinator) updateAlignment(st *State, turn *rotation.TurnState, frame input.Frame) {
	if !st.Aligning || turn.Phase == rotation.PhaseTurning {
		return
	}
	cameraYaw, ok := game.YawFromDirection(frame.CameraForward)
	if !ok {
		return
	}
	if math32.Abs(game.DeltaAngle(turn.CurrentYaw, cameraYaw)) <= c.Options.StrafeAlignTolerance {
		st.Aligning = false
		c.debugf("strafe alignment complete at yaw %v", turn.CurrentYaw)
	}
}

// tryJump launches the character if it stands on the ground and is not mid rapid turn. A jump
// that has not landed yet refuses the next one.
func (c *Coordinator) tryJump(st *State, motion *vertical.MotionState, turn *rotation.TurnState, batch *event.Batch) bool {
	if !motion.Grounded || motion.DidJump || turn.Phase == rotation.PhaseTurning {
		c.debugf("jump refused (grounded=%v, jumping=%v, phase=%v)", motion.Grounded, motion.DidJump, turn.Phase)
		return false
	}
	c.Vertical.SetJumpVelocity(motion, c.Options.JumpVelocity.Evaluate(math32.Abs(st.NormalizedForwardSpeed)), batch)
	return true
}

// groundMove returns the horizontal displacement of the character for this tick.
func (c *Coordinator) groundMove(st *State, motion *vertical.MotionState, turn *rotation.TurnState, dt float32) mgl32.Vec3 {
	if !motion.Grounded {
		return motion.CachedGroundVelocity.Mul(dt)
	}
	if turn.Phase == rotation.PhaseTurning {
		if c.RootMotion != nil {
			return game.Horizontal(c.RootMotion.RootMotionDelta())
		}
		return mgl32.Vec3{}
	}
	if c.Options.UseRootMotion {
		return game.Horizontal(c.RootMotion.RootMotionDelta())
	}

	speed := c.Options.MaxGroundSpeed * dt
	move := game.DirectionFromYaw(turn.CurrentYaw).Mul(st.NormalizedForwardSpeed * speed)
	if st.Mode == ModeStrafe {
		move = move.Add(game.RightFromYaw(turn.CurrentYaw).Mul(st.NormalizedLateralSpeed * speed))
	}
	return move
}
