package vertical

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/collision"
	"github.com/oomph-ac/locomotion/curve"
	"github.com/oomph-ac/locomotion/event"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDt   = float32(1.0 / 60.0)
	testSkin = float32(0.08)
)

// fakeProvider is an infinite floor at groundY, optionally with a ceiling.
type fakeProvider struct {
	pos       mgl32.Vec3
	hasGround bool
	groundY   float32

	// forceFlags are added to the result of every move.
	forceFlags collision.Flags
	contacts   []collision.Contact
	moves      []mgl32.Vec3
}

func (f *fakeProvider) Position() mgl32.Vec3 {
	return f.pos
}

func (f *fakeProvider) IsGrounded() bool {
	return f.hasGround && f.pos.Y()-f.groundY <= testSkin
}

func (f *fakeProvider) RaycastDown(origin mgl32.Vec3, maxDistance float32, _ collision.Mask) (float32, bool) {
	if !f.hasGround || origin.Y() < f.groundY {
		return 0, false
	}
	d := origin.Y() - f.groundY
	return d, d <= maxDistance
}

func (f *fakeProvider) OverlapSphere(centre mgl32.Vec3, radius float32, _ collision.Mask) bool {
	return f.hasGround && centre.Y()-f.groundY <= radius
}

func (f *fakeProvider) MoveAndCollide(d mgl32.Vec3) collision.Result {
	f.moves = append(f.moves, d)
	next := f.pos.Add(d)
	res := collision.Result{Flags: f.forceFlags, Contacts: f.contacts}
	if f.hasGround && next.Y() < f.groundY {
		next[1] = f.groundY
		res.Flags |= collision.FlagBelow
	}
	res.Moved = next.Sub(f.pos)
	f.pos = next
	return res
}

type fakeBody struct {
	kinematic bool
	impulses  []mgl32.Vec3
}

func (b *fakeBody) Kinematic() bool {
	return b.kinematic
}

func (b *fakeBody) AddImpulseAt(impulse, _ mgl32.Vec3) {
	b.impulses = append(b.impulses, impulse)
}

func newController(t *testing.T, provider collision.Provider, profile GravityProfile) *Controller {
	t.Helper()
	c, err := New(provider, &profile, DefaultOptions())
	require.NoError(t, err)
	return c
}

func eventsOf[E event.Event](events []event.Event) []E {
	var out []E
	for _, ev := range events {
		if e, ok := ev.(E); ok {
			out = append(out, e)
		}
	}
	return out
}

func TestNewRequiresCollaborators(t *testing.T) {
	profile := DefaultGravityProfile()

	_, err := New(nil, &profile, DefaultOptions())
	require.True(t, errors.Is(err, oerror.ErrMissingCollaborator), "got %v", err)

	_, err = New(&fakeProvider{}, nil, DefaultOptions())
	require.True(t, errors.Is(err, oerror.ErrMissingCollaborator), "got %v", err)

	bad := profile
	bad.TerminalVelocity = 5
	_, err = New(&fakeProvider{}, &bad, DefaultOptions())
	require.True(t, errors.Is(err, oerror.ErrInvalidConfig), "got %v", err)

	opts := DefaultOptions()
	opts.PredictionSteps = 0
	_, err = New(&fakeProvider{}, &profile, opts)
	require.True(t, errors.Is(err, oerror.ErrInvalidConfig), "got %v", err)

	empty := profile
	empty.Falling = curve.Curve{}
	_, err = New(&fakeProvider{}, &empty, DefaultOptions())
	require.True(t, errors.Is(err, oerror.ErrInvalidConfig), "got %v", err)
}

func TestGravityMonotonicWhileFalling(t *testing.T) {
	steep := DefaultGravityProfile()
	steep.Falling = curve.Linear(1, 3)

	tests := []struct {
		name     string
		profile  GravityProfile
		jumpHeld bool
	}{
		{"default", DefaultGravityProfile(), true},
		{"default released", DefaultGravityProfile(), false},
		{"steep fall curve", steep, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{pos: mgl32.Vec3{0, 500, 0}}
			c := newController(t, provider, tt.profile)
			state := NewMotionState(c.Profile)
			state.Grounded = false

			var batch event.Batch
			var all []event.Event
			groundMove := mgl32.Vec3{0.05, 0, 0}
			prev := state.VerticalVelocity
			for i := 0; i < 300; i++ {
				batch.Begin(int64(i))
				c.Tick(&state, Input{ForwardSpeed: 0.5, JumpHeld: tt.jumpHeld}, groundMove, testDt, &batch)
				all = append(all, batch.Drain()...)

				require.LessOrEqual(t, state.VerticalVelocity, prev+1e-5, "tick %d", i)
				require.GreaterOrEqual(t, state.VerticalVelocity, tt.profile.TerminalVelocity-1e-4, "tick %d", i)
				prev = state.VerticalVelocity
			}
			assert.InDelta(t, tt.profile.TerminalVelocity, state.VerticalVelocity, 1e-4)

			falls := eventsOf[event.StartedFalling](all)
			require.Len(t, falls, 1)
			assert.True(t, math32.IsInf(falls[0].PredictedDistance, 1))
			assert.Empty(t, eventsOf[event.Landed](all))
		})
	}
}

func TestLandingIdempotence(t *testing.T) {
	provider := &fakeProvider{hasGround: true}
	c := newController(t, provider, DefaultGravityProfile())
	state := NewMotionState(c.Profile)

	var batch event.Batch
	for i := 0; i < 120; i++ {
		batch.Begin(int64(i))
		res := c.Tick(&state, Input{}, mgl32.Vec3{}, testDt, &batch)
		require.Zero(t, batch.Len(), "tick %d emitted %v", i, batch.Events())
		require.Zero(t, state.FallTime, "tick %d", i)
		require.True(t, state.Grounded)
		require.Equal(t, OutcomeGrounded, res.Outcome)
		require.Zero(t, state.PredictedFallDistance)
	}
	assert.Zero(t, provider.pos.Y())
}

func TestGroundedTickStillMovesHorizontally(t *testing.T) {
	provider := &fakeProvider{hasGround: true}
	c := newController(t, provider, DefaultGravityProfile())
	state := NewMotionState(c.Profile)

	var batch event.Batch
	c.Tick(&state, Input{}, mgl32.Vec3{0.1, 0, 0}, testDt, &batch)
	assert.InDelta(t, 0.1, provider.pos.X(), 1e-6)
	assert.InDelta(t, 6, state.CachedGroundVelocity.X(), 1e-4)
}

func TestJumpAndLand(t *testing.T) {
	provider := &fakeProvider{hasGround: true}
	c := newController(t, provider, DefaultGravityProfile())
	state := NewMotionState(c.Profile)

	var batch event.Batch
	var all []event.Event
	batch.Begin(0)
	c.SetJumpVelocity(&state, 8, &batch)
	require.True(t, state.DidJump)
	all = append(all, batch.Drain()...)

	var peak float32
	landedAt := -1
	for i := 1; i < 240 && landedAt < 0; i++ {
		batch.Begin(int64(i))
		res := c.Tick(&state, Input{JumpHeld: true}, mgl32.Vec3{}, testDt, &batch)
		all = append(all, batch.Drain()...)
		peak = math32.Max(peak, provider.pos.Y())
		if res.Outcome == OutcomeLanded {
			landedAt = i
		}
	}
	require.Greater(t, landedAt, 0, "character never landed")

	// v^2 / 2g for v = 8 and g = 20.
	assert.InDelta(t, 1.6, peak, 0.15)

	jumps := eventsOf[event.JumpVelocitySet](all)
	require.Len(t, jumps, 1)
	assert.Equal(t, float32(8), jumps[0].Velocity)

	falls := eventsOf[event.StartedFalling](all)
	require.Len(t, falls, 1)
	assert.InDelta(t, 1.6, falls[0].PredictedDistance, 0.2)

	landings := eventsOf[event.Landed](all)
	require.Len(t, landings, 1)
	assert.InDelta(t, 0.8, landings[0].AirTime, 0.1)

	assert.False(t, state.DidJump)
	assert.Zero(t, state.AirTime)
	assert.Zero(t, state.FallTime)
	assert.Zero(t, state.InitialJumpVelocity)
}

func TestJumpLeavesGroundOnLaunchTick(t *testing.T) {
	provider := &fakeProvider{hasGround: true}
	c := newController(t, provider, DefaultGravityProfile())
	state := NewMotionState(c.Profile)
	require.True(t, state.Grounded)

	var batch event.Batch
	c.SetJumpVelocity(&state, 8, &batch)
	c.Tick(&state, Input{JumpHeld: true}, mgl32.Vec3{}, testDt, &batch)
	assert.Greater(t, provider.pos.Y(), testSkin)
	assert.False(t, state.Grounded)
	assert.True(t, state.DidJump)
}

func TestStandingUsesFallingGravity(t *testing.T) {
	provider := &fakeProvider{hasGround: true}
	profile := DefaultGravityProfile()
	profile.Falling = curve.Constant(1.5)
	c := newController(t, provider, profile)
	state := NewMotionState(c.Profile)

	var batch event.Batch
	for i := 0; i < 120; i++ {
		batch.Begin(int64(i))
		c.Tick(&state, Input{}, mgl32.Vec3{}, testDt, &batch)
	}
	assert.InDelta(t, profile.Gravity*1.5, state.Gravity, 1e-3)
}

func TestGroundingAssistOnShortDrop(t *testing.T) {
	provider := &fakeProvider{pos: mgl32.Vec3{0, 0.3, 0}, hasGround: true}
	c := newController(t, provider, DefaultGravityProfile())
	state := NewMotionState(c.Profile)

	var batch event.Batch
	var all []event.Event
	sawAssist := false
	for i := 0; i < 60; i++ {
		batch.Begin(int64(i))
		c.Tick(&state, Input{}, mgl32.Vec3{}, testDt, &batch)
		all = append(all, batch.Drain()...)
		sawAssist = sawAssist || state.GroundingAssist
	}

	assert.True(t, sawAssist)
	assert.Empty(t, eventsOf[event.StartedFalling](all))
	assert.Len(t, eventsOf[event.Landed](all), 1)
	assert.False(t, state.GroundingAssist)
	assert.InDelta(t, 0, provider.pos.Y(), float64(testSkin))
}

func TestTrajectoryPrediction(t *testing.T) {
	provider := &fakeProvider{pos: mgl32.Vec3{0, 10, 0}, hasGround: true}
	c := newController(t, provider, DefaultGravityProfile())
	state := NewMotionState(c.Profile)
	state.Grounded = false

	stepDistance := -c.Profile.Gravity * c.Options.PredictionStepTime
	dist := c.GetPredictedFallDistance(&state, 0)
	assert.InDelta(t, 10, dist, float64(stepDistance))
	require.True(t, state.HasPredictedLanding)
	assert.InDelta(t, 0, state.PredictedLandingPosition.Y(), float64(stepDistance))

	// Nothing beneath the character.
	provider.hasGround = false
	assert.True(t, math32.IsInf(c.GetPredictedFallDistance(&state, 0), 1))
	assert.False(t, state.HasPredictedLanding)

	// Ground beyond the horizon of the forecast.
	provider.hasGround = true
	provider.pos = mgl32.Vec3{0, 100, 0}
	assert.False(t, c.UpdatePredictedLandingPosition(&state, 0))
	assert.True(t, math32.IsInf(state.PredictedFallDistance, 1))
}

func TestPredictionFollowsGroundVelocity(t *testing.T) {
	provider := &fakeProvider{pos: mgl32.Vec3{0, 5, 0}, hasGround: true}
	c := newController(t, provider, DefaultGravityProfile())
	state := NewMotionState(c.Profile)
	state.CachedGroundVelocity = mgl32.Vec3{3, 0, 0}

	require.True(t, c.UpdatePredictedLandingPosition(&state, 0))
	assert.Greater(t, state.PredictedLandingPosition.X(), float32(1))
	assert.InDelta(t, 5, state.PredictedFallDistance, 0.34)
}

func TestSideCollisionPushesBodies(t *testing.T) {
	pushable, kinematic, floor := &fakeBody{}, &fakeBody{kinematic: true}, &fakeBody{}
	provider := &fakeProvider{
		hasGround: true,
		contacts: []collision.Contact{
			{Normal: mgl32.Vec3{-1, 0, 0}, Body: pushable},
			{Normal: mgl32.Vec3{-1, 0, 0}, Body: kinematic},
			{Normal: mgl32.Vec3{0, 1, 0}, Body: floor},
			{Normal: mgl32.Vec3{0, 0, 1}},
		},
	}
	c := newController(t, provider, DefaultGravityProfile())
	state := NewMotionState(c.Profile)

	var batch event.Batch
	res := c.Tick(&state, Input{}, mgl32.Vec3{0.1, 0, 0}, testDt, &batch)
	assert.Equal(t, 1, res.Pushed)
	require.Len(t, pushable.impulses, 1)
	assert.InDelta(t, 0.6, pushable.impulses[0].X(), 1e-4)
	assert.Empty(t, kinematic.impulses)
	assert.Empty(t, floor.impulses)
}

func TestCeilingCutsJump(t *testing.T) {
	provider := &fakeProvider{hasGround: true, forceFlags: collision.FlagAbove}
	c := newController(t, provider, DefaultGravityProfile())
	state := NewMotionState(c.Profile)

	var batch event.Batch
	c.SetJumpVelocity(&state, 8, &batch)
	c.Tick(&state, Input{JumpHeld: true}, mgl32.Vec3{}, testDt, &batch)
	assert.Zero(t, state.VerticalVelocity)
	assert.Zero(t, state.InitialJumpVelocity)
	assert.Zero(t, state.AirTime)
}

func TestZeroDeltaTimeIsSkipped(t *testing.T) {
	provider := &fakeProvider{hasGround: true}
	c := newController(t, provider, DefaultGravityProfile())
	state := NewMotionState(c.Profile)

	res := c.Tick(&state, Input{}, mgl32.Vec3{1, 0, 0}, 0, nil)
	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Empty(t, provider.moves)
}
