package event

import (
	"bytes"

	"github.com/elliotchance/orderedmap/v2"
)

// TurnTrigger is the condition that started a rapid turn.
type TurnTrigger byte

const (
	TriggerStationary TurnTrigger = iota
	TriggerMoving
	TriggerStrafeAlign
)

func (t TurnTrigger) String() string {
	switch t {
	case TriggerStationary:
		return "stationary"
	case TriggerMoving:
		return "moving"
	case TriggerStrafeAlign:
		return "strafe_align"
	default:
		return "unknown"
	}
}

// RapidTurnStarted is emitted when a rapid turn hands rotation to the animation layer.
type RapidTurnStarted struct {
	NopEvent

	Trigger TurnTrigger
	// Angle is the signed yaw delta the turn animation has to cover, in degrees.
	Angle float32
}

func (RapidTurnStarted) ID() byte {
	return EventIDRapidTurnStarted
}

func (RapidTurnStarted) Name() string {
	return "rapid_turn_started"
}

func (ev RapidTurnStarted) Encode() []byte {
	return encode(ev, func(buf *bytes.Buffer) {
		buf.WriteByte(byte(ev.Trigger))
		writeFloat(buf, ev.Angle)
	})
}

func (ev RapidTurnStarted) Fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.NewOrderedMap[string, any]()
	m.Set("trigger", ev.Trigger.String())
	m.Set("angle", ev.Angle)
	return m
}

// RapidTurnCompleted is emitted when a rapid turn ends and easing begins.
type RapidTurnCompleted struct {
	NopEvent

	// Yaw is the yaw the character was snapped to.
	Yaw float32
	// TimedOut is true if the animation never signalled completion, or the character left the
	// ground mid-turn.
	TimedOut bool
}

func (RapidTurnCompleted) ID() byte {
	return EventIDRapidTurnCompleted
}

func (RapidTurnCompleted) Name() string {
	return "rapid_turn_completed"
}

func (ev RapidTurnCompleted) Encode() []byte {
	return encode(ev, func(buf *bytes.Buffer) {
		writeFloat(buf, ev.Yaw)
		if ev.TimedOut {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	})
}

func (ev RapidTurnCompleted) Fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.NewOrderedMap[string, any]()
	m.Set("yaw", ev.Yaw)
	m.Set("timed_out", ev.TimedOut)
	return m
}

// RapidTurnEased is emitted when easing ends and normal rotation resumes.
type RapidTurnEased struct {
	NopEvent
}

func (RapidTurnEased) ID() byte {
	return EventIDRapidTurnEased
}

func (RapidTurnEased) Name() string {
	return "rapid_turn_eased"
}

func (ev RapidTurnEased) Encode() []byte {
	return encode(ev, nil)
}

func (RapidTurnEased) Fields() *orderedmap.OrderedMap[string, any] {
	return orderedmap.NewOrderedMap[string, any]()
}
