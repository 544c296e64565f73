// Package rotation implements the rotation controller: it owns the facing of a character, turns it
// smoothly towards the camera relative input direction, and detects rapid turns that are handed to
// the animation layer and eased out afterwards.
package rotation

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/animation"
	"github.com/oomph-ac/locomotion/event"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/oerror"
)

// Options configure turning.
type Options struct {
	// MaxTurnSpeed is the smooth turning rate in degrees per second.
	MaxTurnSpeed float32 `toml:"max_turn_speed" yaml:"max_turn_speed"`
	// AirborneTurnScale scales MaxTurnSpeed while airborne.
	AirborneTurnScale float32 `toml:"airborne_turn_scale" yaml:"airborne_turn_scale"`

	// StationaryThreshold is the yaw delta, in degrees, over which a standing character rapid turns.
	StationaryThreshold float32 `toml:"stationary_threshold" yaml:"stationary_threshold"`
	// MovingThreshold is the angle, in degrees, between the current input and a recent one over
	// which a moving character rapid turns.
	MovingThreshold float32 `toml:"moving_threshold" yaml:"moving_threshold"`
	// MagnitudeTolerance is the largest input magnitude difference a moving rapid turn accepts.
	// It is compared per sample and is not normalized against the tick rate.
	MagnitudeTolerance float32 `toml:"magnitude_tolerance" yaml:"magnitude_tolerance"`
	// HistorySize is the number of recent inputs the moving trigger compares against.
	HistorySize int `toml:"history_size" yaml:"history_size"`

	// EasingSpeed is the turning rate, in degrees per second, after a rapid turn.
	EasingSpeed float32 `toml:"easing_speed" yaml:"easing_speed"`
	// EasingDuration is how long easing lasts, in seconds.
	EasingDuration float32 `toml:"easing_duration" yaml:"easing_duration"`
	// TurnSpeedSmoothing is the rate, per second, at which the normalized turn speed follows the
	// measured one.
	TurnSpeedSmoothing float32 `toml:"turn_speed_smoothing" yaml:"turn_speed_smoothing"`
	// TurnTimeout ends a rapid turn the animation layer never completes. Zero waits forever.
	TurnTimeout float32 `toml:"turn_timeout" yaml:"turn_timeout"`

	// Debugf receives internal trace logs for callers that need deep diagnostics.
	Debugf func(format string, args ...any) `toml:"-" yaml:"-"`
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxTurnSpeed:        game.DefaultMaxTurnSpeed,
		AirborneTurnScale:   game.DefaultAirborneTurnScale,
		StationaryThreshold: game.DefaultStationaryTurnThreshold,
		MovingThreshold:     game.DefaultMovingTurnThreshold,
		MagnitudeTolerance:  game.DefaultTurnMagnitudeTolerance,
		HistorySize:         game.DefaultTurnHistorySize,
		EasingSpeed:         game.DefaultEasingSpeed,
		EasingDuration:      game.DefaultEasingDuration,
		TurnSpeedSmoothing:  game.DefaultTurnSpeedSmoothing,
	}
}

// Validate returns an error wrapping oerror.ErrInvalidConfig if the options are unusable.
func (o Options) Validate() error {
	switch {
	case o.MaxTurnSpeed <= 0:
		return oerror.InvalidConfig("turn.max_turn_speed", "must be positive, got %v", o.MaxTurnSpeed)
	case o.AirborneTurnScale < 0:
		return oerror.InvalidConfig("turn.airborne_turn_scale", "must not be negative, got %v", o.AirborneTurnScale)
	case o.StationaryThreshold <= 0 || o.StationaryThreshold > 180:
		return oerror.InvalidConfig("turn.stationary_threshold", "must be in (0, 180], got %v", o.StationaryThreshold)
	case o.MovingThreshold <= 0 || o.MovingThreshold > 180:
		return oerror.InvalidConfig("turn.moving_threshold", "must be in (0, 180], got %v", o.MovingThreshold)
	case o.MagnitudeTolerance < 0:
		return oerror.InvalidConfig("turn.magnitude_tolerance", "must not be negative, got %v", o.MagnitudeTolerance)
	case o.HistorySize <= 0:
		return oerror.InvalidConfig("turn.history_size", "must be positive, got %v", o.HistorySize)
	case o.EasingSpeed < 0:
		return oerror.InvalidConfig("turn.easing_speed", "must not be negative, got %v", o.EasingSpeed)
	case o.EasingDuration < 0:
		return oerror.InvalidConfig("turn.easing_duration", "must not be negative, got %v", o.EasingDuration)
	case o.TurnSpeedSmoothing <= 0:
		return oerror.InvalidConfig("turn.turn_speed_smoothing", "must be positive, got %v", o.TurnSpeedSmoothing)
	case o.TurnTimeout < 0:
		return oerror.InvalidConfig("turn.turn_timeout", "must not be negative, got %v", o.TurnTimeout)
	}
	return nil
}

// Controller advances the rotation of characters. It holds no per-character state.
type Controller struct {
	Driver  animation.TurnDriver
	Options Options
}

// New returns a controller, or an error if the turn driver is missing or the options are invalid.
func New(driver animation.TurnDriver, opts Options) (*Controller, error) {
	if driver == nil {
		return nil, oerror.MissingCollaborator("turn driver")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Controller{Driver: driver, Options: opts}, nil
}

// NewState returns a turn state sized for the controller's history.
func (c *Controller) NewState(yaw float32) TurnState {
	return NewTurnState(yaw, c.Options.HistorySize)
}

func (c *Controller) debugf(format string, args ...any) {
	if c.Options.Debugf != nil {
		c.Options.Debugf(format, args...)
	}
}

// TargetYaw returns the yaw the character should face: the camera yaw rotated by the angle between
// the forward axis and the movement input. Without input, or with a camera looking straight up or
// down, the previous target is kept.
func TargetYaw(state *TurnState, in Input) float32 {
	cameraYaw, ok := game.YawFromDirection(in.CameraForward)
	if !ok {
		return state.TargetYaw
	}
	if in.FaceCamera {
		return cameraYaw
	}
	if !in.HasMove() {
		return state.TargetYaw
	}
	return game.WrapYaw(cameraYaw + game.SignedAngle2D(mgl32.Vec2{0, 1}, in.Move))
}

// Tick advances the rotation of the character by dt seconds.
func (c *Controller) Tick(state *TurnState, in Input, dt float32, batch *event.Batch) Result {
	if dt <= 0 {
		return Result{Phase: state.Phase}
	}

	prevYaw := state.CurrentYaw
	state.TargetYaw = TargetYaw(state, in)
	res := Result{}

	switch state.Phase {
	case PhaseNone:
		if trigger, ok := c.checkTriggers(state, in); ok {
			c.beginTurn(state, in, trigger, batch)
			res.Started = true
		} else if in.HasMove() || in.FaceCamera {
			speed := c.Options.MaxTurnSpeed
			if !in.Grounded {
				speed *= c.Options.AirborneTurnScale
			}
			state.CurrentYaw = game.MoveTowardsAngle(state.CurrentYaw, state.TargetYaw, speed*dt)
		}
		// The input joins the history after the checks, it is never compared with itself.
		_ = state.History.Append(in.Move)
	case PhaseTurning:
		c.tickTurning(state, in, dt, batch)
	case PhaseEasing:
		state.EasingElapsed += dt
		if in.HasMove() || in.FaceCamera {
			state.CurrentYaw = game.MoveTowardsAngle(state.CurrentYaw, state.TargetYaw, c.Options.EasingSpeed*dt)
		}
		if state.EasingElapsed > c.Options.EasingDuration {
			state.Phase = PhaseNone
			state.EasingElapsed = 0
			batch.Add(event.RapidTurnEased{NopEvent: batch.Stamp()})
			c.debugf("rapid turn eased out at yaw %v", state.CurrentYaw)
		}
	}

	res.YawDelta = game.DeltaAngle(prevYaw, state.CurrentYaw)
	res.Phase = state.Phase
	c.updateTurnSpeed(state, res.YawDelta, dt)
	return res
}

// checkTriggers returns the trigger of a rapid turn, if one should start. Rapid turns only start
// from the ground and with input.
func (c *Controller) checkTriggers(state *TurnState, in Input) (event.TurnTrigger, bool) {
	if !in.Grounded {
		return 0, false
	}
	delta := math32.Abs(game.DeltaAngle(state.CurrentYaw, state.TargetYaw))

	if in.FaceCamera {
		return event.TriggerStrafeAlign, in.AlignTurn && delta > c.Options.StationaryThreshold
	}
	if !in.HasMove() {
		return 0, false
	}
	if math32.Abs(in.ForwardSpeed) < game.StationarySpeedEpsilon {
		return event.TriggerStationary, delta > c.Options.StationaryThreshold
	}

	inputLen := in.Move.Len()
	for past := range state.History.Iter() {
		angle, ok := game.Angle2D(past, in.Move)
		if !ok {
			continue
		}
		if angle > c.Options.MovingThreshold && math32.Abs(past.Len()-inputLen) < c.Options.MagnitudeTolerance {
			return event.TriggerMoving, true
		}
	}
	return 0, false
}

func (c *Controller) beginTurn(state *TurnState, in Input, trigger event.TurnTrigger, batch *event.Batch) {
	angle := game.DeltaAngle(state.CurrentYaw, state.TargetYaw)
	state.Phase = PhaseTurning
	state.TurnElapsed = 0
	state.Trigger = trigger
	state.SavedForwardSpeed = in.ForwardSpeed
	state.History.Clear()

	c.Driver.BeginTurn(angle)
	batch.Add(event.RapidTurnStarted{NopEvent: batch.Stamp(), Trigger: trigger, Angle: angle})
	c.debugf("rapid turn (%v) of %v degrees started", trigger, angle)
}

func (c *Controller) tickTurning(state *TurnState, in Input, dt float32, batch *event.Batch) {
	state.TurnElapsed += dt
	if !in.Grounded {
		c.AbandonTurn(state, batch)
		return
	}

	delta, done := c.Driver.PollTurnMotion()
	state.CurrentYaw = game.WrapYaw(state.CurrentYaw + delta)
	switch {
	case done:
		// Animation drift is discarded.
		state.CurrentYaw = state.TargetYaw
		c.endTurn(state, batch, false)
	case c.Options.TurnTimeout > 0 && state.TurnElapsed >= c.Options.TurnTimeout:
		state.CurrentYaw = state.TargetYaw
		c.endTurn(state, batch, true)
		c.debugf("rapid turn timed out after %vs", state.TurnElapsed)
	}
}

// AbandonTurn ends the rapid turn in progress, if any, as timed out and keeps the yaw reached so
// far. It returns true if a turn was playing.
func (c *Controller) AbandonTurn(state *TurnState, batch *event.Batch) bool {
	if state.Phase != PhaseTurning {
		return false
	}
	c.endTurn(state, batch, true)
	c.debugf("rapid turn abandoned at yaw %v, character left the ground", state.CurrentYaw)
	return true
}

func (c *Controller) endTurn(state *TurnState, batch *event.Batch, timedOut bool) {
	state.Phase = PhaseEasing
	state.EasingElapsed = 0
	batch.Add(event.RapidTurnCompleted{NopEvent: batch.Stamp(), Yaw: state.CurrentYaw, TimedOut: timedOut})
}

func (c *Controller) updateTurnSpeed(state *TurnState, yawDelta, dt float32) {
	raw := game.ClampFloat(yawDelta/dt/c.Options.MaxTurnSpeed, -1, 1)
	state.NormalizedTurnSpeed = game.Lerp(state.NormalizedTurnSpeed, raw, game.Clamp01(c.Options.TurnSpeedSmoothing*dt))
}
