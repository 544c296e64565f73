package simulation

import (
	"context"
	"errors"
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/oomph-ac/locomotion/animation"
	"github.com/oomph-ac/locomotion/event"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/input"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/world"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDt = float32(1.0 / 60.0)

type recorded struct {
	source uuid.UUID
	ev     event.Event
}

func newTestScene(t *testing.T, parallel bool) (*Scene, *[]recorded) {
	t.Helper()

	w := world.New(world.Options{Gravity: game.DefaultGravity, Friction: 5})
	w.AddStatic(cube.Box(-50, -1, -50, 50, 0, 50), world.LayerGround)

	log, _ := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	st := settings.Default()
	st.Simulation.Parallel = parallel
	st.Simulation.Workers = 2
	st.Log.Trace = true
	s, err := New(Config{Settings: st, World: w, Log: log})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	var events []recorded
	s.Subscribe(event.ListenerFunc(func(source uuid.UUID, ev event.Event) {
		events = append(events, recorded{source: source, ev: ev})
	}))
	return s, &events
}

func walkAndJump(dir mgl32.Vec3) *input.Scripted {
	return input.NewScripted(
		input.Step{Ticks: 1, Frame: input.Frame{CameraForward: dir, JumpPressed: true, JumpHeld: true}},
		input.Step{Ticks: 59, Frame: input.Frame{Move: mgl32.Vec2{0, 1}, CameraForward: dir}},
	)
}

func TestNewRequiresCollaborators(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := New(Config{Settings: settings.Default(), Log: log})
	assert.True(t, errors.Is(err, oerror.ErrMissingCollaborator))

	_, err = New(Config{Settings: settings.Default(), World: world.New(world.Options{})})
	assert.True(t, errors.Is(err, oerror.ErrMissingCollaborator))

	bad := settings.Default()
	bad.Simulation.TickRate = 0
	_, err = New(Config{Settings: bad, World: world.New(world.Options{}), Log: log})
	assert.True(t, errors.Is(err, oerror.ErrInvalidConfig))
}

func TestSpawnRequiresInput(t *testing.T) {
	s, _ := newTestScene(t, false)
	_, err := s.Spawn(mgl32.Vec3{}, 0, &animation.Scripted{}, nil)
	assert.True(t, errors.Is(err, oerror.ErrMissingCollaborator))
	assert.Zero(t, s.Len())
}

func TestStepDispatchesInSpawnOrder(t *testing.T) {
	s, events := newTestScene(t, false)

	a, err := s.Spawn(mgl32.Vec3{0, 0, 0}, 0, &animation.Scripted{}, walkAndJump(mgl32.Vec3{0, 0, 1}))
	require.NoError(t, err)
	b, err := s.Spawn(mgl32.Vec3{5, 0, 0}, 0, &animation.Scripted{}, walkAndJump(mgl32.Vec3{0, 0, 1}))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	require.NoError(t, s.Step(context.Background(), testDt))
	require.Len(t, *events, 2)
	assert.Equal(t, a, (*events)[0].source)
	assert.Equal(t, b, (*events)[1].source)
	for _, r := range *events {
		assert.IsType(t, event.JumpVelocitySet{}, r.ev)
		assert.Equal(t, int64(1), r.ev.Time())
	}

	for i := 0; i < 59; i++ {
		require.NoError(t, s.Step(context.Background(), testDt))
	}
	assert.Equal(t, int64(60), s.CurrentTick())

	var landed int
	for _, r := range *events {
		if _, ok := r.ev.(event.Landed); ok {
			landed++
		}
	}
	assert.Equal(t, 2, landed)

	chA, ok := s.Character(a)
	require.True(t, ok)
	chB, ok := s.Character(b)
	require.True(t, ok)
	assert.Same(t, chA.Profile(), chB.Profile(), "equal profiles are shared")
	assert.Greater(t, chA.Position().Z(), float32(0.5))
	assert.InDelta(t, chA.Position().Z(), chB.Position().Z(), 1e-5)
}

func TestParallelStepMatchesSequential(t *testing.T) {
	positions := func(parallel bool) []mgl32.Vec3 {
		s, _ := newTestScene(t, parallel)
		var ids []uuid.UUID
		for i := 0; i < 8; i++ {
			yaw := float32(i * 45)
			dir := game.DirectionFromYaw(yaw)
			id, err := s.Spawn(mgl32.Vec3{float32(i) * 3, 0, 0}, yaw, &animation.Scripted{TurnTicks: 3}, walkAndJump(dir))
			require.NoError(t, err)
			ids = append(ids, id)
		}
		for i := 0; i < 60; i++ {
			require.NoError(t, s.Step(context.Background(), testDt))
		}

		var out []mgl32.Vec3
		for _, id := range ids {
			ch, ok := s.Character(id)
			require.True(t, ok)
			out = append(out, ch.Position())
		}
		return out
	}

	assert.Equal(t, positions(false), positions(true))
}

func TestDespawn(t *testing.T) {
	s, events := newTestScene(t, false)

	a, err := s.Spawn(mgl32.Vec3{}, 0, &animation.Scripted{}, walkAndJump(mgl32.Vec3{0, 0, 1}))
	require.NoError(t, err)
	b, err := s.Spawn(mgl32.Vec3{5, 0, 0}, 0, &animation.Scripted{}, walkAndJump(mgl32.Vec3{0, 0, 1}))
	require.NoError(t, err)

	assert.True(t, s.Despawn(a))
	assert.False(t, s.Despawn(a))
	_, ok := s.Character(a)
	assert.False(t, ok)

	ch, ok := s.Character(b)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{5, 0, 0}, ch.Position())

	require.NoError(t, s.Step(context.Background(), testDt))
	require.Len(t, *events, 1)
	assert.Equal(t, b, (*events)[0].source)
}

func TestCharactersPushCrates(t *testing.T) {
	s, _ := newTestScene(t, false)
	crate := s.World().AddBody(cube.Box(1, 0, -0.5, 2, 1, 0.5), 1)

	east := mgl32.Vec3{1, 0, 0}
	src := input.NewScripted(input.Step{Ticks: 60, Frame: input.Frame{Move: mgl32.Vec2{0, 1}, CameraForward: east, SprintStarted: true}})
	_, err := s.Spawn(mgl32.Vec3{0, 0, 0}, 90, &animation.Scripted{}, src)
	require.NoError(t, err)

	for i := 0; i < 60; i++ {
		require.NoError(t, s.Step(context.Background(), testDt))
	}
	assert.Greater(t, crate.BoundingBox().Min().X(), float32(1))
}
