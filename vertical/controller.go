// Package vertical implements the vertical motion controller: gravity integration under speed
// dependent curves, jumping and falling, grounding assist for short drops, landing prediction and
// the impulses a walking character applies to the bodies it bumps into.
package vertical

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/collision"
	"github.com/oomph-ac/locomotion/event"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/oerror"
)

// Options define how the controller queries and affects the world.
type Options struct {
	// Radius is the radius of the character's collision volume.
	Radius float32 `toml:"radius" yaml:"radius"`
	// GroundMask is the collision mask landing queries test against.
	GroundMask collision.Mask `toml:"ground_mask" yaml:"ground_mask"`

	PredictionSteps    int     `toml:"prediction_steps" yaml:"prediction_steps"`
	PredictionStepTime float32 `toml:"prediction_step_time" yaml:"prediction_step_time"`

	// PushStrength scales the cached ground velocity into the impulse applied to pushed bodies.
	PushStrength float32 `toml:"push_strength" yaml:"push_strength"`

	// Debugf receives internal trace logs for callers that need deep diagnostics.
	Debugf func(format string, args ...any) `toml:"-" yaml:"-"`
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Radius:             game.DefaultCharacterRadius,
		GroundMask:         collision.MaskAll,
		PredictionSteps:    game.DefaultPredictionSteps,
		PredictionStepTime: game.DefaultPredictionStepTime,
		PushStrength:       game.DefaultPushStrength,
	}
}

// Validate returns an error wrapping oerror.ErrInvalidConfig if the options are unusable.
func (o Options) Validate() error {
	switch {
	case o.Radius <= 0:
		return oerror.InvalidConfig("vertical.radius", "must be positive, got %v", o.Radius)
	case o.PredictionSteps <= 0:
		return oerror.InvalidConfig("vertical.prediction_steps", "must be positive, got %v", o.PredictionSteps)
	case o.PredictionStepTime <= 0:
		return oerror.InvalidConfig("vertical.prediction_step_time", "must be positive, got %v", o.PredictionStepTime)
	case o.PushStrength < 0:
		return oerror.InvalidConfig("vertical.push_strength", "must not be negative, got %v", o.PushStrength)
	}
	return nil
}

// Controller advances the vertical motion of characters sharing a collision provider and profile.
// It holds no per-character state: every call operates on the MotionState passed.
type Controller struct {
	Provider collision.Provider
	Profile  *GravityProfile
	Options  Options
}

// New returns a controller, or an error if a collaborator is missing or the configuration is
// invalid.
func New(provider collision.Provider, profile *GravityProfile, opts Options) (*Controller, error) {
	if provider == nil {
		return nil, oerror.MissingCollaborator("collision provider")
	}
	if profile == nil {
		return nil, oerror.MissingCollaborator("gravity profile")
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Controller{Provider: provider, Profile: profile, Options: opts}, nil
}

func (c *Controller) debugf(format string, args ...any) {
	if c.Options.Debugf != nil {
		c.Options.Debugf(format, args...)
	}
}

// SetJumpVelocity launches the character upwards. The controller does not check that the
// character is grounded: callers gate jumps themselves.
func (c *Controller) SetJumpVelocity(state *MotionState, v float32, batch *event.Batch) {
	state.InitialJumpVelocity = v
	state.VerticalVelocity = v
	state.DidJump = true
	batch.Add(event.JumpVelocitySet{NopEvent: batch.Stamp(), Velocity: v})
	c.debugf("jump velocity set to %v", v)
}

// Tick advances the vertical motion of the character by dt seconds and moves it by groundMove
// plus the resulting vertical displacement.
func (c *Controller) Tick(state *MotionState, in Input, groundMove mgl32.Vec3, dt float32, batch *event.Batch) Result {
	if dt <= 0 {
		return Result{Outcome: OutcomeSkipped}
	}

	p := c.Profile
	state.Grounded = c.Provider.IsGrounded()
	state.AirTime += dt
	c.updateGravity(state, in, dt)

	minVelocity := p.TerminalVelocity
	if state.GroundingAssist {
		minVelocity = math32.Inf(-1)
	}

	if state.VerticalVelocity >= 0 {
		state.VerticalVelocity = math32.Max(state.InitialJumpVelocity+state.Gravity*state.AirTime, minVelocity)
	}

	landed := false
	prevFallTime := state.FallTime
	if state.VerticalVelocity < 0 {
		state.VerticalVelocity = math32.Max(state.Gravity*state.FallTime, minVelocity)
		state.FallTime += dt

		if state.Grounded {
			landed = c.land(state, dt, batch)
			return c.move(state, groundMove, 0, dt, landed)
		}
	}

	if prevFallTime == 0 && state.FallTime > 0 {
		dist := c.GetPredictedFallDistance(state, in.ForwardSpeed)
		if dist <= p.GroundingDistance {
			state.GroundingAssist = true
			c.debugf("grounding assist for predicted fall of %v", dist)
		} else {
			batch.Add(event.StartedFalling{NopEvent: batch.Stamp(), PredictedDistance: dist})
			c.debugf("started falling, predicted distance %v", dist)
		}
	} else if !state.Grounded {
		state.PredictedFallDistance = c.GetPredictedFallDistance(state, in.ForwardSpeed)
	}

	res := c.move(state, groundMove, state.VerticalVelocity*dt, dt, false)

	// A ceiling ends the ascent, the character falls from the next tick on.
	if res.Collision.Flags.Has(collision.FlagAbove) && state.VerticalVelocity > 0 {
		state.InitialJumpVelocity = 0
		state.VerticalVelocity = 0
		state.AirTime = 0
		c.debugf("jump cut by ceiling")
	}
	return res
}

// land resets the airborne state of a character that touched the ground. It returns true if the
// character was airborne for longer than the current tick.
func (c *Controller) land(state *MotionState, dt float32, batch *event.Batch) bool {
	airTime := state.AirTime - dt
	landed := airTime > 1e-5

	state.InitialJumpVelocity = 0
	state.VerticalVelocity = 0
	state.DidJump = false
	state.GroundingAssist = false
	state.FallTime = 0
	state.AirTime = 0
	state.ClearPrediction()
	state.PredictedFallDistance = 0

	if landed {
		batch.Add(event.Landed{NopEvent: batch.Stamp(), AirTime: airTime})
		c.debugf("landed after %vs airborne", airTime)
	}
	return landed
}

// move hands the displacement to the provider and applies the collision response.
func (c *Controller) move(state *MotionState, groundMove mgl32.Vec3, dy, dt float32, landed bool) Result {
	disp := groundMove.Add(mgl32.Vec3{0, dy, 0})
	res := Result{Displacement: disp, Outcome: OutcomeAirborne}
	switch {
	case landed:
		res.Outcome = OutcomeLanded
	case state.Grounded && dy == 0:
		res.Outcome = OutcomeGrounded
	}

	state.CachedGroundVelocity = groundMove.Mul(1 / dt)
	res.Collision = c.Provider.MoveAndCollide(disp)
	// Grounded describes the position the move ended at.
	state.Grounded = c.Provider.IsGrounded()
	for _, contact := range res.Collision.Contacts {
		if c.OnCollision(state, contact) {
			res.Pushed++
		}
	}
	return res
}

// OnCollision pushes the body of a side contact along the cached ground velocity. It returns true
// if an impulse was applied.
func (c *Controller) OnCollision(state *MotionState, contact collision.Contact) bool {
	if contact.Body == nil || contact.Body.Kinematic() || !contact.Side() {
		return false
	}
	impulse := state.CachedGroundVelocity.Mul(c.Options.PushStrength)
	if impulse.LenSqr() == 0 {
		return false
	}
	contact.Body.AddImpulseAt(impulse, contact.Point)
	c.debugf("pushed body at %v with impulse %v", contact.Point, impulse)
	return true
}

// updateGravity moves the effective gravity towards the target for the current motion.
func (c *Controller) updateGravity(state *MotionState, in Input, dt float32) {
	target := c.targetGravity(state, in)
	if state.Gravity == 0 {
		state.Gravity = target
		return
	}
	state.Gravity = game.Lerp(state.Gravity, target, game.Clamp01(c.Profile.MaxGravityDelta*dt))
}

func (c *Controller) targetGravity(state *MotionState, in Input) float32 {
	p := c.Profile
	var multiplier float32
	// Standing characters are held by falling gravity.
	rising := state.VerticalVelocity > 0 || (state.VerticalVelocity == 0 && !state.Grounded)
	if rising {
		multiplier = p.Rising.Evaluate(in.ForwardSpeed)
		if !in.JumpHeld {
			multiplier *= p.ShortJump.Evaluate(in.ForwardSpeed)
		}
	} else {
		multiplier = p.Falling.Evaluate(in.ForwardSpeed)
		if state.GroundingAssist {
			multiplier *= p.GroundingMultiplier
		}
	}
	return p.Gravity * multiplier
}
