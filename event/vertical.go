package event

import (
	"bytes"

	"github.com/elliotchance/orderedmap/v2"
)

// JumpVelocitySet is emitted when a jump sets the vertical velocity of a character.
type JumpVelocitySet struct {
	NopEvent

	Velocity float32
}

func (JumpVelocitySet) ID() byte {
	return EventIDJumpVelocitySet
}

func (JumpVelocitySet) Name() string {
	return "jump_velocity_set"
}

func (ev JumpVelocitySet) Encode() []byte {
	return encode(ev, func(buf *bytes.Buffer) {
		writeFloat(buf, ev.Velocity)
	})
}

func (ev JumpVelocitySet) Fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.NewOrderedMap[string, any]()
	m.Set("velocity", ev.Velocity)
	return m
}

// StartedFalling is emitted on the tick a character starts a fall that is too long to be snapped
// to the ground. PredictedDistance is +Inf when no landing was found.
type StartedFalling struct {
	NopEvent

	PredictedDistance float32
}

func (StartedFalling) ID() byte {
	return EventIDStartedFalling
}

func (StartedFalling) Name() string {
	return "started_falling"
}

func (ev StartedFalling) Encode() []byte {
	return encode(ev, func(buf *bytes.Buffer) {
		writeFloat(buf, ev.PredictedDistance)
	})
}

func (ev StartedFalling) Fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.NewOrderedMap[string, any]()
	m.Set("predicted_distance", ev.PredictedDistance)
	return m
}

// Landed is emitted on the tick an airborne character touches the ground.
type Landed struct {
	NopEvent

	AirTime float32
}

func (Landed) ID() byte {
	return EventIDLanded
}

func (Landed) Name() string {
	return "landed"
}

func (ev Landed) Encode() []byte {
	return encode(ev, func(buf *bytes.Buffer) {
		writeFloat(buf, ev.AirTime)
	})
}

func (ev Landed) Fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.NewOrderedMap[string, any]()
	m.Set("air_time", ev.AirTime)
	return m
}
