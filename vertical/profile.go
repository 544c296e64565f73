package vertical

import (
	"github.com/oomph-ac/locomotion/curve"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/oerror"
)

// GravityProfile describes how gravity acts on a type of character. It is loaded once and shared,
// read-only, by every character of that type.
type GravityProfile struct {
	// Gravity is the base vertical acceleration. It must be negative.
	Gravity float32 `toml:"gravity" yaml:"gravity"`

	// Rising scales gravity while moving upwards, sampled at the normalized forward speed.
	Rising curve.Curve `toml:"rising" yaml:"rising"`
	// ShortJump further scales rising gravity once the jump input is released.
	ShortJump curve.Curve `toml:"short_jump" yaml:"short_jump"`
	// Falling scales gravity while moving downwards.
	Falling curve.Curve `toml:"falling" yaml:"falling"`

	// TerminalVelocity caps the downwards speed outside of grounding assist. It must be negative.
	TerminalVelocity float32 `toml:"terminal_velocity" yaml:"terminal_velocity"`
	// GroundingMultiplier scales falling gravity while grounding assist is active.
	GroundingMultiplier float32 `toml:"grounding_multiplier" yaml:"grounding_multiplier"`
	// GroundingDistance is the longest fall that is snapped to the ground instead of played out.
	GroundingDistance float32 `toml:"grounding_distance" yaml:"grounding_distance"`
	// MaxGravityDelta is the rate, per second, at which effective gravity approaches its target.
	MaxGravityDelta float32 `toml:"max_gravity_delta" yaml:"max_gravity_delta"`
}

// DefaultGravityProfile returns the profile used when none is configured.
func DefaultGravityProfile() GravityProfile {
	return GravityProfile{
		Gravity:             game.DefaultGravity,
		Rising:              curve.Constant(1),
		ShortJump:           curve.Constant(2),
		Falling:             curve.Constant(1),
		TerminalVelocity:    game.DefaultTerminalVelocity,
		GroundingMultiplier: game.DefaultGroundingMultiplier,
		GroundingDistance:   game.DefaultGroundingDistance,
		MaxGravityDelta:     game.DefaultMaxGravityDelta,
	}
}

// Clone returns a deep copy of the profile.
func (p GravityProfile) Clone() GravityProfile {
	p.Rising = p.Rising.Clone()
	p.ShortJump = p.ShortJump.Clone()
	p.Falling = p.Falling.Clone()
	return p
}

// Validate returns an error wrapping oerror.ErrInvalidConfig if the profile cannot be simulated.
func (p GravityProfile) Validate() error {
	switch {
	case p.Gravity >= 0:
		return oerror.InvalidConfig("gravity.gravity", "must be negative, got %v", p.Gravity)
	case p.TerminalVelocity >= 0:
		return oerror.InvalidConfig("gravity.terminal_velocity", "must be negative, got %v", p.TerminalVelocity)
	case p.GroundingMultiplier <= 0:
		return oerror.InvalidConfig("gravity.grounding_multiplier", "must be positive, got %v", p.GroundingMultiplier)
	case p.GroundingDistance < 0:
		return oerror.InvalidConfig("gravity.grounding_distance", "must not be negative, got %v", p.GroundingDistance)
	case p.MaxGravityDelta <= 0:
		return oerror.InvalidConfig("gravity.max_gravity_delta", "must be positive, got %v", p.MaxGravityDelta)
	}
	if err := p.Rising.Validate("gravity.rising"); err != nil {
		return err
	}
	if err := p.ShortJump.Validate("gravity.short_jump"); err != nil {
		return err
	}
	return p.Falling.Validate("gravity.falling")
}
