package model

import (
	"encoding/json"
	"fmt"
)

// State is the health of a monitored item. The numeric value doubles as
// the aggregation priority: when a group rolls up its children, the
// child with the highest State wins.
type State int

const (
	StateNone State = iota
	StateOK
	StateDisabled
	StateQueued
	StateRunning
	StateUnknown
	StatePartiallySucceeded
	StateCanceled
	StateError
	StateFailed
)

var stateLabels = map[State]string{
	StateNone:               "none",
	StateOK:                 "ok",
	StateDisabled:           "disabled",
	StateQueued:             "queued",
	StateRunning:            "running",
	StateUnknown:            "unknown",
	StatePartiallySucceeded: "partially_succeeded",
	StateCanceled:           "canceled",
	StateError:              "error",
	StateFailed:             "failed",
}

var statesByLabel = func() map[string]State {
	m := make(map[string]State, len(stateLabels))
	for s, label := range stateLabels {
		m[label] = s
	}
	return m
}()

func (s State) String() string {
	if label, ok := stateLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ParseState returns the State for a label produced by String.
func ParseState(label string) (State, error) {
	s, ok := statesByLabel[label]
	if !ok {
		return StateNone, fmt.Errorf("unknown state %q", label)
	}
	return s, nil
}

// Interesting reports whether the state is worth surfacing: the leaf
// count of an aggregated subtree is only maintained for interesting
// states.
func (s State) Interesting() bool {
	switch s {
	case StateNone, StateDisabled, StateOK:
		return false
	}
	return true
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := ParseState(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Transition records one state write on an item. It is returned by
// SetState so callers can decide what the change means without reading
// the item's previous-state field back.
type Transition struct {
	From State `json:"from"`
	To   State `json:"to"`
}

// Changed reports whether the write actually changed the state.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Notifiable reports whether the transition is worth a notification:
// the state changed and the previous value was a real outcome, not the
// initial "no status yet" sentinel.
func (t Transition) Notifiable() bool {
	return t.Changed() && t.From != StateNone
}
