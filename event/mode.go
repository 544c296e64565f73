package event

import (
	"bytes"

	"github.com/elliotchance/orderedmap/v2"
)

// ModeChanged is emitted when a character switches between action and strafe locomotion.
type ModeChanged struct {
	NopEvent

	Strafe bool
}

func (ModeChanged) ID() byte {
	return EventIDModeChanged
}

func (ModeChanged) Name() string {
	return "mode_changed"
}

func (ev ModeChanged) Encode() []byte {
	return encode(ev, func(buf *bytes.Buffer) {
		if ev.Strafe {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	})
}

func (ev ModeChanged) Fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.NewOrderedMap[string, any]()
	if ev.Strafe {
		m.Set("mode", "strafe")
	} else {
		m.Set("mode", "action")
	}
	return m
}
