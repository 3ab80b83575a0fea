package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edvin/statusboard/internal/model"
)

var (
	// ErrNilItem is returned when a structural operation is handed a nil
	// or unidentified item. This is a programmer error, not a runtime
	// condition to recover from.
	ErrNilItem = errors.New("item is nil")
	// ErrNotFound is returned when an id does not resolve to an item.
	ErrNotFound = errors.New("item not found")
)

// TreeService owns the status tree and keeps every aggregate node's
// state and count a correct function of its subtree. All mutation is
// serialized through one internal lock; aggregation runs synchronously
// inside the mutating call, so there is no window where a stale
// aggregate can be read after the triggering operation returns.
type TreeService struct {
	mu     sync.RWMutex
	root   *model.Item
	sink   EventSink
	logger zerolog.Logger
}

// NewTreeService wraps root, creating an empty group root when nil.
// Events go to sink; a nil sink discards them.
func NewTreeService(root *model.Item, sink EventSink, logger zerolog.Logger) *TreeService {
	if root == nil {
		root = model.NewGroup("root")
	}
	if root.ID == "" {
		root.ID = uuid.NewString()
	}
	if sink == nil {
		sink = NoopSink{}
	}
	return &TreeService{
		root:   root,
		sink:   sink,
		logger: logger.With().Str("component", "tree").Logger(),
	}
}

// RootID returns the id of the tree's root item.
func (s *TreeService) RootID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root.ID
}

// Snapshot returns a deep copy of the whole tree.
func (s *TreeService) Snapshot() *model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root.Clone()
}

// Get returns a deep copy of the subtree rooted at id.
func (s *TreeService) Get(id string) (*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item := s.root.Find(id)
	if item == nil {
		return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return item.Clone(), nil
}

// Add attaches child under the item with parentID, assigning ids to the
// child and any descendants that lack one, and reaggregates the parent
// chain. Emits one ItemAdded event.
func (s *TreeService) Add(parentID string, child *model.Item) error {
	if child == nil {
		return fmt.Errorf("add: %w", ErrNilItem)
	}

	s.mu.Lock()
	parent := s.root.Find(parentID)
	if parent == nil {
		s.mu.Unlock()
		return fmt.Errorf("add under %s: %w", parentID, ErrNotFound)
	}
	child.Walk(func(it *model.Item) {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
	})
	parent.Attach(child)
	parent.Expanded = true

	events := []Event{newEvent(EventItemAdded, child, nil)}
	events = append(events, s.propagate(parent)...)
	s.mu.Unlock()

	s.emit(events)
	return nil
}

// Remove detaches the immediate child with childID from the item with
// parentID and reaggregates. A parent without children is a no-op.
// Emits one ItemRemoved event.
func (s *TreeService) Remove(parentID, childID string) error {
	if childID == "" {
		return fmt.Errorf("remove: %w", ErrNilItem)
	}

	s.mu.Lock()
	parent := s.root.Find(parentID)
	if parent == nil {
		s.mu.Unlock()
		return fmt.Errorf("remove from %s: %w", parentID, ErrNotFound)
	}
	if len(parent.Children) == 0 {
		s.mu.Unlock()
		return nil
	}
	var child *model.Item
	for _, c := range parent.Children {
		if c.ID == childID {
			child = c
			break
		}
	}
	if child == nil {
		s.mu.Unlock()
		return fmt.Errorf("remove %s from %s: %w", childID, parentID, ErrNotFound)
	}
	parent.Detach(child)

	events := []Event{newEvent(EventItemRemoved, child, nil)}
	events = append(events, s.propagate(parent)...)
	s.mu.Unlock()

	s.emit(events)
	return nil
}

// Clear detaches every child of the item with parentID. Each removal
// emits its own ItemRemoved event and reaggregates, exactly as a
// sequence of Remove calls would.
func (s *TreeService) Clear(parentID string) error {
	s.mu.Lock()
	parent := s.root.Find(parentID)
	if parent == nil {
		s.mu.Unlock()
		return fmt.Errorf("clear %s: %w", parentID, ErrNotFound)
	}
	var events []Event
	for len(parent.Children) > 0 {
		child := parent.Children[0]
		parent.Detach(child)
		events = append(events, newEvent(EventItemRemoved, child, nil))
		events = append(events, s.propagate(parent)...)
	}
	s.mu.Unlock()

	s.emit(events)
	return nil
}

// Contains reports whether childID is an immediate child of parentID.
func (s *TreeService) Contains(parentID, childID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	parent := s.root.Find(parentID)
	if parent == nil {
		return false, fmt.Errorf("contains %s: %w", parentID, ErrNotFound)
	}
	for _, c := range parent.Children {
		if c.ID == childID {
			return true, nil
		}
	}
	return false, nil
}

// SetState writes a new state on the item with id and synchronously
// reaggregates every aggregate ancestor up to the root. This is the
// single entry point for monitor results and external state injection.
func (s *TreeService) SetState(id string, state model.State) (model.Transition, error) {
	s.mu.Lock()
	item := s.root.Find(id)
	if item == nil {
		s.mu.Unlock()
		return model.Transition{}, fmt.Errorf("set state on %s: %w", id, ErrNotFound)
	}
	tr := item.SetState(state)
	var events []Event
	if tr.Changed() {
		events = append(events, newEvent(EventStateChanged, item, &tr))
	}
	events = append(events, s.propagate(item.Parent())...)
	s.mu.Unlock()

	s.emit(events)
	return tr, nil
}

// SetEnabled flips the enabled flag. Disabling forces the item's own
// state to Disabled immediately, independent of children; re-enabling
// resets it to None until the next check reports in.
func (s *TreeService) SetEnabled(id string, enabled bool) (model.Transition, error) {
	s.mu.Lock()
	item := s.root.Find(id)
	if item == nil {
		s.mu.Unlock()
		return model.Transition{}, fmt.Errorf("set enabled on %s: %w", id, ErrNotFound)
	}
	item.Enabled = enabled
	next := model.StateDisabled
	if enabled {
		next = model.StateNone
	}
	tr := item.SetState(next)
	var events []Event
	if tr.Changed() {
		events = append(events, newEvent(EventStateChanged, item, &tr))
	}
	events = append(events, s.propagate(item.Parent())...)
	s.mu.Unlock()

	s.emit(events)
	return tr, nil
}

// ItemUpdate carries optional attribute changes for Update. Enabled is
// deliberately absent; it has state semantics and goes through
// SetEnabled.
type ItemUpdate struct {
	Name     *string
	Target   *string
	Interval *int
	Notify   *bool
	Expanded *bool
}

// Update applies attribute changes to the item with id. Invalid values
// are reported as field errors and nothing is applied.
func (s *TreeService) Update(id string, upd ItemUpdate) ([]model.FieldError, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.root.Find(id)
	if item == nil {
		return nil, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}

	candidate := model.Item{Name: item.Name, Interval: item.Interval}
	if upd.Name != nil {
		candidate.Name = *upd.Name
	}
	if upd.Interval != nil {
		candidate.Interval = *upd.Interval
	}
	if errs := candidate.Validate(); errs != nil {
		return errs, nil
	}

	item.Name = candidate.Name
	item.Interval = candidate.Interval
	if upd.Target != nil {
		item.Target = *upd.Target
	}
	if upd.Notify != nil {
		item.Notify = *upd.Notify
	}
	if upd.Expanded != nil {
		item.Expanded = *upd.Expanded
	}
	return nil, nil
}

// Check describes one pollable monitor leaf.
type Check struct {
	ID       string
	Name     string
	Kind     string
	Target   string
	Interval int
}

// PollTargets lists the enabled monitor leaves with a non-zero polling
// interval. The runner decides which of them it knows how to check.
func (s *TreeService) PollTargets() []Check {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var checks []Check
	s.root.Walk(func(it *model.Item) {
		if it.Aggregate || !it.Enabled || it.Interval == 0 {
			return
		}
		checks = append(checks, Check{
			ID:       it.ID,
			Name:     it.Name,
			Kind:     it.Kind,
			Target:   it.Target,
			Interval: it.Interval,
		})
	})
	return checks
}

// propagate reaggregates the ancestor chain starting at from. Only
// aggregate nodes recompute; others pass through untouched. Returns the
// state-change events the recomputation produced.
func (s *TreeService) propagate(from *model.Item) []Event {
	var events []Event
	for node := from; node != nil; node = node.Parent() {
		if !node.Aggregate {
			continue
		}
		tr, ok := s.aggregate(node)
		if ok && tr.Changed() {
			tr := tr
			events = append(events, newEvent(EventStateChanged, node, &tr))
		}
	}
	return events
}

// aggregate recomputes one aggregate node: the state is the left-fold
// first maximum over the immediate children, and the count is the
// number of leaf descendants matching that state when it is worth
// counting. A malformed subtree must degrade the display, not break the
// mutation that triggered the recompute, so panics are logged and
// swallowed here.
func (s *TreeService) aggregate(node *model.Item) (tr model.Transition, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("item_id", node.ID).
				Str("item", node.Name).
				Interface("panic", r).
				Msg("aggregation failed")
			ok = false
		}
	}()

	if len(node.Children) == 0 {
		tr = node.SetState(model.StateNone)
		node.Count = 0
		return tr, true
	}

	best := node.Children[0].State
	for _, c := range node.Children[1:] {
		if c.State > best {
			best = c.State
		}
	}
	tr = node.SetState(best)
	if best.Interesting() {
		node.Count = countLeaves(node, best)
	} else {
		node.Count = 0
	}
	return tr, true
}

// countLeaves counts leaf descendants matching state. Non-leaf children
// are descended into, never tested themselves.
func countLeaves(node *model.Item, state model.State) int {
	n := 0
	for _, c := range node.Children {
		if c.IsLeaf() {
			if c.State == state {
				n++
			}
		} else {
			n += countLeaves(c, state)
		}
	}
	return n
}

func (s *TreeService) emit(events []Event) {
	for _, e := range events {
		s.sink.Publish(e)
	}
}
