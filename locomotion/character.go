package locomotion

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/animation"
	"github.com/oomph-ac/locomotion/collision"
	"github.com/oomph-ac/locomotion/event"
	"github.com/oomph-ac/locomotion/input"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/rotation"
	"github.com/oomph-ac/locomotion/vertical"
)

// Config holds everything needed to build a Character.
type Config struct {
	Provider  collision.Provider
	Animation animation.Layer

	// Profile is a gravity profile shared with other characters. Gravity is used when it is nil.
	Profile    *vertical.GravityProfile
	Gravity    vertical.GravityProfile
	Vertical   vertical.Options
	Rotation   rotation.Options
	Locomotion Options

	// Yaw is the initial facing of the character, in degrees.
	Yaw float32
}

// DefaultConfig returns a config with default tuning for the collaborators passed.
func DefaultConfig(provider collision.Provider, layer animation.Layer) Config {
	return Config{
		Provider:   provider,
		Animation:  layer,
		Gravity:    vertical.DefaultGravityProfile(),
		Vertical:   vertical.DefaultOptions(),
		Rotation:   rotation.DefaultOptions(),
		Locomotion: DefaultOptions(),
	}
}

// Character bundles the controllers of a single character with the state they operate on.
type Character struct {
	coordinator *Coordinator
	profile     *vertical.GravityProfile

	Motion vertical.MotionState
	Turn   rotation.TurnState
	State  State

	batch event.Batch
	tick  int64
}

// NewCharacter builds a character from conf. An error is returned if a collaborator is missing or
// any of the tuning is invalid.
func NewCharacter(conf Config) (*Character, error) {
	if conf.Provider == nil {
		return nil, oerror.MissingCollaborator("collision provider")
	}
	if conf.Animation == nil {
		return nil, oerror.MissingCollaborator("animation layer")
	}
	profile := conf.Profile
	if profile == nil {
		p := conf.Gravity
		profile = &p
	}

	v, err := vertical.New(conf.Provider, profile, conf.Vertical)
	if err != nil {
		return nil, err
	}
	r, err := rotation.New(conf.Animation, conf.Rotation)
	if err != nil {
		return nil, err
	}
	c, err := New(v, r, conf.Animation, conf.Animation, conf.Locomotion)
	if err != nil {
		return nil, err
	}
	return &Character{
		coordinator: c,
		profile:     profile,
		Motion:      vertical.NewMotionState(profile),
		Turn:        r.NewState(conf.Yaw),
		State:       NewState(conf.Locomotion.SpeedWindow),
	}, nil
}

// Coordinator returns the coordinator driving the character.
func (c *Character) Coordinator() *Coordinator {
	return c.coordinator
}

// Profile returns the gravity profile of the character.
func (c *Character) Profile() *vertical.GravityProfile {
	return c.profile
}

// Position returns the foot position of the character.
func (c *Character) Position() mgl32.Vec3 {
	return c.coordinator.Vertical.Provider.Position()
}

// Yaw returns the current facing of the character, in degrees.
func (c *Character) Yaw() float32 {
	return c.Turn.CurrentYaw
}

// CurrentTick returns the number of ticks the character has been advanced.
func (c *Character) CurrentTick() int64 {
	return c.tick
}

// Tick advances the character by dt seconds and returns the events emitted during the tick.
func (c *Character) Tick(frame input.Frame, dt float32) (Result, []event.Event) {
	c.tick++
	c.batch.Begin(c.tick)
	res := c.coordinator.Tick(&c.State, &c.Motion, &c.Turn, frame, dt, &c.batch)
	return res, c.batch.Drain()
}
