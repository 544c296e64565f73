// Package simulation hosts many characters in a shared collision world and steps them in lockstep.
package simulation

import (
	"context"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"
	"github.com/oomph-ac/locomotion/animation"
	"github.com/oomph-ac/locomotion/event"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/input"
	"github.com/oomph-ac/locomotion/locomotion"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/worker"
	"github.com/oomph-ac/locomotion/world"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// Actor is the component of a character entity.
type Actor struct {
	ID        uuid.UUID
	Character *locomotion.Character
	Agent     *world.Agent
	Input     input.Source

	// events holds the events of the last tick until they are dispatched.
	events []event.Event
}

// Config holds everything needed to build a Scene.
type Config struct {
	Settings settings.Settings
	World    *world.World
	Log      *logrus.Logger
	// Registry shares gravity profiles between scenes. A scene creates its own when nil.
	Registry *settings.Registry
}

// Scene owns a set of characters. Characters are ticked in the order they were spawned, events
// are dispatched in that same order after every character has ticked.
type Scene struct {
	conf       Config
	dispatcher event.Dispatcher
	pool       *worker.Pool

	store    ecs.World
	actors   *ecs.Map1[Actor]
	entities *orderedmap.OrderedMap[uuid.UUID, ecs.Entity]
	tick     int64

	mu deadlock.Mutex
}

// New returns a scene, or an error if the config is incomplete or its settings are invalid.
func New(conf Config) (*Scene, error) {
	if conf.World == nil {
		return nil, oerror.MissingCollaborator("collision world")
	}
	if conf.Log == nil {
		return nil, oerror.MissingCollaborator("logger")
	}
	if err := conf.Settings.Validate(); err != nil {
		return nil, err
	}
	if conf.Registry == nil {
		conf.Registry = settings.NewRegistry()
	}

	s := &Scene{
		conf:     conf,
		store:    ecs.NewWorld(),
		entities: orderedmap.NewOrderedMap[uuid.UUID, ecs.Entity](),
	}
	s.actors = ecs.NewMap1[Actor](&s.store)
	if conf.Settings.Simulation.Parallel {
		pool, err := worker.New(conf.Settings.Simulation.Workers, conf.Log)
		if err != nil {
			return nil, err
		}
		s.pool = pool
	}
	return s, nil
}

// Subscribe adds a listener receiving the events of every character in the scene.
func (s *Scene) Subscribe(l event.Listener) {
	s.dispatcher.Subscribe(l)
}

// World returns the collision world of the scene.
func (s *Scene) World() *world.World {
	return s.conf.World
}

// Spawn adds a character with its feet at pos, facing yaw, driven by src and animated by layer.
func (s *Scene) Spawn(pos mgl32.Vec3, yaw float32, layer animation.Layer, src input.Source) (uuid.UUID, error) {
	if src == nil {
		return uuid.Nil, oerror.MissingCollaborator("input source")
	}
	st := s.conf.Settings
	profile, err := s.conf.Registry.Intern(st.Gravity)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	agent := s.conf.World.NewAgent(pos, st.Vertical.Radius, game.DefaultCharacterHeight, game.DefaultSkinWidth, world.LayerGround|world.LayerProps)
	conf := locomotion.Config{
		Provider:   agent,
		Animation:  layer,
		Profile:    profile,
		Vertical:   st.Vertical,
		Rotation:   st.Turn,
		Locomotion: st.Locomotion,
		Yaw:        yaw,
	}
	if st.Log.Trace {
		debugf := s.conf.Log.WithField("character", id).Debugf
		conf.Vertical.Debugf = debugf
		conf.Rotation.Debugf = debugf
		conf.Locomotion.Debugf = debugf
	}
	ch, err := locomotion.NewCharacter(conf)
	if err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.actors.NewEntity(&Actor{ID: id, Character: ch, Agent: agent, Input: src})
	s.entities.Set(id, e)
	s.conf.Log.WithField("character", id).Debugf("spawned at %v", pos)
	return id, nil
}

// Despawn removes a character from the scene. It returns false if no such character exists.
func (s *Scene) Despawn(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entities.Get(id)
	if !ok {
		return false
	}
	s.entities.Delete(id)
	s.store.RemoveEntity(e)
	s.conf.Log.WithField("character", id).Debug("despawned")
	return true
}

// Character returns the character with the ID passed.
func (s *Scene) Character(id uuid.UUID) (*locomotion.Character, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entities.Get(id)
	if !ok || !s.store.Alive(e) {
		return nil, false
	}
	return s.actors.Get(e).Character, true
}

// Len returns the number of characters in the scene.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entities.Len()
}

// CurrentTick returns the number of steps taken by the scene.
func (s *Scene) CurrentTick() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Step advances every character, then the dynamic bodies of the world, by dt seconds.
func (s *Scene) Step(ctx context.Context, dt float32) error {
	span := sentry.StartSpan(ctx, "scene.step")
	defer span.Finish()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick++

	actors := make([]*Actor, 0, s.entities.Len())
	for el := s.entities.Front(); el != nil; el = el.Next() {
		actors = append(actors, s.actors.Get(el.Value))
	}

	tick := s.tick
	if s.pool == nil {
		for _, a := range actors {
			tickActor(a, tick, dt)
		}
	} else {
		for _, a := range actors {
			if err := s.pool.Submit(func() { tickActor(a, tick, dt) }); err != nil {
				s.pool.Wait()
				return oerror.New("unable to schedule character %v: %w", a.ID, err)
			}
		}
		s.pool.Wait()
	}
	s.conf.World.Step(dt)

	for _, a := range actors {
		if len(a.events) == 0 {
			continue
		}
		if s.conf.Log.IsLevelEnabled(logrus.DebugLevel) {
			for _, ev := range a.events {
				s.conf.Log.WithFields(logrus.Fields{"character": a.ID, "tick": tick}).Debugf("%s %v", ev.Name(), ev.Fields().Keys())
			}
		}
		s.dispatcher.Dispatch(a.ID, a.events)
		a.events = nil
	}
	return nil
}

// Close releases the worker pool of the scene.
func (s *Scene) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}

func tickActor(a *Actor, tick int64, dt float32) {
	frame := a.Input.Poll(tick)
	_, a.events = a.Character.Tick(frame, dt)
}
