package event

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/locomotion/internal"
	"github.com/oomph-ac/locomotion/oerror"
)

const EventsVersion = "1"

// Event is an outcome record produced by a controller during a tick.
type Event interface {
	ID() byte
	Name() string
	Encode() []byte
	// Fields returns the payload of the event in encoding order, for logging.
	Fields() *orderedmap.OrderedMap[string, any]

	Time() int64
}

// NopEvent carries the tick an event was produced on.
type NopEvent struct {
	EvTime int64
}

func (n NopEvent) Time() int64 {
	return n.EvTime
}

const (
	_ = iota
	EventIDJumpVelocitySet
	EventIDStartedFalling
	EventIDLanded
	EventIDRapidTurnStarted
	EventIDRapidTurnCompleted
	EventIDRapidTurnEased
	EventIDModeChanged
)

func WriteEventHeader(ev Event, buf *bytes.Buffer) {
	binary.Write(buf, binary.LittleEndian, uint64(ev.ID()))
	binary.Write(buf, binary.LittleEndian, uint64(ev.Time()))
}

func writeFloat(buf *bytes.Buffer, v float32) {
	binary.Write(buf, binary.LittleEndian, math.Float32bits(v))
}

func readFloat(buf *bytes.Buffer) (float32, error) {
	b := buf.Next(4)
	if len(b) != 4 {
		return 0, oerror.New("unexpected end of event payload")
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// encode builds the binary form of ev, writing its payload with fn.
func encode(ev Event, fn func(buf *bytes.Buffer)) []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	WriteEventHeader(ev, buf)
	if fn != nil {
		fn(buf)
	}
	return bytes.Clone(buf.Bytes())
}

// DecodeEvents decodes a concatenation of encoded events.
func DecodeEvents(dat []byte) ([]Event, error) {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	buf.Write(dat)
	defer internal.BufferPool.Put(buf)

	events := []Event{}
	for buf.Len() > 0 {
		ev, err := DecodeEvent(buf)
		if err != nil {
			return events, oerror.New("error decoding event: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// DecodeEvent decodes a single event from the buffer.
func DecodeEvent(buf *bytes.Buffer) (Event, error) {
	header := buf.Next(16)
	if len(header) != 16 {
		return nil, oerror.New("unexpected end of event header")
	}
	id := byte(binary.LittleEndian.Uint64(header[:8]))
	t := int64(binary.LittleEndian.Uint64(header[8:]))

	var err error
	switch id {
	case EventIDJumpVelocitySet:
		ev := JumpVelocitySet{}
		ev.EvTime = t
		ev.Velocity, err = readFloat(buf)
		return ev, err
	case EventIDStartedFalling:
		ev := StartedFalling{}
		ev.EvTime = t
		ev.PredictedDistance, err = readFloat(buf)
		return ev, err
	case EventIDLanded:
		ev := Landed{}
		ev.EvTime = t
		ev.AirTime, err = readFloat(buf)
		return ev, err
	case EventIDRapidTurnStarted:
		ev := RapidTurnStarted{}
		ev.EvTime = t
		trigger, rerr := buf.ReadByte()
		if rerr != nil {
			return nil, oerror.New("error reading trigger from RapidTurnStarted: %w", rerr)
		}
		ev.Trigger = TurnTrigger(trigger)
		ev.Angle, err = readFloat(buf)
		return ev, err
	case EventIDRapidTurnCompleted:
		ev := RapidTurnCompleted{}
		ev.EvTime = t
		ev.Yaw, err = readFloat(buf)
		if err != nil {
			return nil, err
		}
		timedOut, rerr := buf.ReadByte()
		if rerr != nil {
			return nil, oerror.New("error reading timeout flag from RapidTurnCompleted: %w", rerr)
		}
		ev.TimedOut = timedOut == 1
		return ev, nil
	case EventIDRapidTurnEased:
		ev := RapidTurnEased{}
		ev.EvTime = t
		return ev, nil
	case EventIDModeChanged:
		ev := ModeChanged{}
		ev.EvTime = t
		mode, rerr := buf.ReadByte()
		if rerr != nil {
			return nil, oerror.New("error reading mode from ModeChanged: %w", rerr)
		}
		ev.Strafe = mode == 1
		return ev, nil
	default:
		return nil, oerror.New("unknown event: %d", id)
	}
}
