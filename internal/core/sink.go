package core

import (
	"time"

	"github.com/edvin/statusboard/internal/model"
)

// EventType identifies a tree event.
type EventType string

const (
	EventItemAdded    EventType = "item_added"
	EventItemRemoved  EventType = "item_removed"
	EventStateChanged EventType = "state_changed"
)

// ItemRef is the slice of an item that travels with an event. Events
// are dispatched outside the tree lock, so they carry copies instead of
// pointers into the live tree.
type ItemRef struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Kind   string      `json:"kind"`
	State  model.State `json:"state"`
	Count  int         `json:"count"`
	Notify bool        `json:"-"`
}

// Event is published on every structural or state change.
type Event struct {
	Type       EventType         `json:"type"`
	Time       time.Time         `json:"time"`
	Item       ItemRef           `json:"item"`
	Transition *model.Transition `json:"transition,omitempty"`
}

// EventSink receives tree events. Dispatch is synchronous and
// fire-and-forget; the tree never waits on or reads back from a sink.
type EventSink interface {
	Publish(Event)
}

// NoopSink discards all events.
type NoopSink struct{}

func (NoopSink) Publish(Event) {}

// MultiSink fans an event out to every sink in order.
type MultiSink []EventSink

func (m MultiSink) Publish(e Event) {
	for _, s := range m {
		s.Publish(e)
	}
}

func newEvent(typ EventType, item *model.Item, tr *model.Transition) Event {
	return Event{
		Type: typ,
		Time: time.Now(),
		Item: ItemRef{
			ID:     item.ID,
			Name:   item.Name,
			Kind:   item.Kind,
			State:  item.State,
			Count:  item.Count,
			Notify: item.Notify,
		},
		Transition: tr,
	}
}
