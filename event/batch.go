package event

import (
	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
)

// Batch collects the events a character produced during one tick. The host drains it after the
// tick instead of wiring callbacks into the controllers.
type Batch struct {
	tick   int64
	events []Event
}

// Begin empties the batch and stamps subsequent events with tick.
func (b *Batch) Begin(tick int64) {
	b.tick = tick
	clear(b.events)
	b.events = b.events[:0]
}

// Tick returns the tick events are currently stamped with.
func (b *Batch) Tick() int64 {
	return b.tick
}

// Stamp returns the header of an event produced during the current tick.
func (b *Batch) Stamp() NopEvent {
	if b == nil {
		return NopEvent{}
	}
	return NopEvent{EvTime: b.tick}
}

// Add appends an event to the batch. Adding to a nil batch is a no-op.
func (b *Batch) Add(ev Event) {
	if b == nil {
		return
	}
	b.events = append(b.events, ev)
}

// Events returns the events of the batch. The slice is reused by the next Begin.
func (b *Batch) Events() []Event {
	return b.events
}

// Len returns the number of events in the batch.
func (b *Batch) Len() int {
	return len(b.events)
}

// Drain returns a copy of the events of the batch and empties it.
func (b *Batch) Drain() []Event {
	out := append([]Event(nil), b.events...)
	clear(b.events)
	b.events = b.events[:0]
	return out
}

// Listener receives the events drained from a character.
type Listener interface {
	HandleEvent(source uuid.UUID, ev Event)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(source uuid.UUID, ev Event)

func (f ListenerFunc) HandleEvent(source uuid.UUID, ev Event) {
	f(source, ev)
}

// Dispatcher fans events out to its listeners, in subscription order.
type Dispatcher struct {
	listeners []Listener
	mu        deadlock.RWMutex
}

// Subscribe adds a listener to the dispatcher.
func (d *Dispatcher) Subscribe(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Dispatch hands every event, in order, to every listener.
func (d *Dispatcher) Dispatch(source uuid.UUID, events []Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, ev := range events {
		for _, l := range d.listeners {
			l.HandleEvent(source, ev)
		}
	}
}
