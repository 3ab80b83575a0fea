package model

import "fmt"

// Item kinds. Groups aggregate their children; the other kinds are
// monitor leaves checked by the runner, except external items whose
// state is only ever written through the API.
const (
	KindGroup    = "group"
	KindHTTP     = "http"
	KindTCP      = "tcp"
	KindExternal = "external"
)

const (
	// DefaultInterval is the polling interval in seconds for new items.
	DefaultInterval = 5
	// MaxInterval is the largest accepted polling interval in seconds.
	// An interval of 0 means "never poll".
	MaxInterval = 65535
)

// Item is one node of the status tree: either a group whose state is
// derived from its children, or a monitor leaf whose state an external
// check writes.
//
// State, PreviousState and Count are runtime-only and are excluded from
// persistence; they reset to StateNone on reload.
type Item struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"`
	Target   string `json:"target,omitempty" yaml:"target,omitempty"`
	Interval int    `json:"interval" yaml:"interval"`
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Notify   bool   `json:"notify" yaml:"notify"`

	// UI hints. Expanded survives restarts; selection and edit mode do not.
	Expanded bool `json:"expanded" yaml:"expanded"`
	Selected bool `json:"-" yaml:"-"`
	Editing  bool `json:"-" yaml:"-"`

	// Aggregate is fixed at construction and decides whether this item
	// recomputes its own state from its children.
	Aggregate bool `json:"aggregate" yaml:"aggregate"`

	State         State `json:"state" yaml:"-"`
	PreviousState State `json:"-" yaml:"-"`
	Count         int   `json:"count" yaml:"-"`

	Children []*Item `json:"children,omitempty" yaml:"children,omitempty"`

	parent *Item
}

// NewGroup creates an aggregate container item.
func NewGroup(name string) *Item {
	item := newItem(name)
	item.Kind = KindGroup
	item.Aggregate = true
	return item
}

// NewMonitor creates a monitor leaf of the given kind.
func NewMonitor(name, kind, target string) *Item {
	item := newItem(name)
	item.Kind = kind
	item.Target = target
	return item
}

func newItem(name string) *Item {
	return &Item{
		Name:     name,
		Interval: DefaultInterval,
		Enabled:  true,
		Notify:   true,
	}
}

// Parent returns the item this one is attached to, or nil for a root.
func (i *Item) Parent() *Item {
	return i.parent
}

// IsLeaf reports whether the item has no children.
func (i *Item) IsLeaf() bool {
	return len(i.Children) == 0
}

// Attach appends child and sets its parent backlink. Id assignment,
// events and reaggregation are the tree service's job.
func (i *Item) Attach(child *Item) {
	i.Children = append(i.Children, child)
	child.parent = i
}

// Detach removes child from the item's children and clears its parent
// backlink. It reports whether the child was present.
func (i *Item) Detach(child *Item) bool {
	for idx, c := range i.Children {
		if c == child {
			i.Children = append(i.Children[:idx], i.Children[idx+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Contains reports whether child is an immediate child of the item.
func (i *Item) Contains(child *Item) bool {
	for _, c := range i.Children {
		if c == child {
			return true
		}
	}
	return false
}

// SetState writes a new state, remembering the previous one, and
// returns the transition. This is the sole trigger for upward
// aggregation; the tree service propagates after calling it.
func (i *Item) SetState(s State) Transition {
	t := Transition{From: i.State, To: s}
	i.PreviousState = i.State
	i.State = s
	return t
}

// NotificationRequired reports whether the transition should actually
// notify for this item.
func (i *Item) NotificationRequired(t Transition) bool {
	return i.Notify && t.Notifiable()
}

// Notification derives the display message for the item's current state.
func (i *Item) Notification() Notification {
	return NewNotification(i.Name, i.State)
}

// Walk visits the item and every descendant depth-first.
func (i *Item) Walk(fn func(*Item)) {
	fn(i)
	for _, c := range i.Children {
		c.Walk(fn)
	}
}

// Find returns the item or descendant with the given id, or nil.
func (i *Item) Find(id string) *Item {
	if i.ID == id {
		return i
	}
	for _, c := range i.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Link restores parent backlinks throughout the subtree. Deserialized
// trees need this because the backlink is never persisted.
func (i *Item) Link() {
	for _, c := range i.Children {
		c.parent = i
		c.Link()
	}
}

// Clone produces a deep, identity-distinct copy of the subtree. Child
// items are cloned recursively and relinked to the copy; the parent
// backlink and the previous state are not carried over, as if the copy
// had been freshly constructed and attached.
func (i *Item) Clone() *Item {
	c := &Item{
		ID:        i.ID,
		Name:      i.Name,
		Kind:      i.Kind,
		Target:    i.Target,
		Interval:  i.Interval,
		Enabled:   i.Enabled,
		Notify:    i.Notify,
		Expanded:  i.Expanded,
		Selected:  i.Selected,
		Editing:   i.Editing,
		Aggregate: i.Aggregate,
		State:     i.State,
		Count:     i.Count,
	}
	if len(i.Children) > 0 {
		c.Children = make([]*Item, 0, len(i.Children))
		for _, child := range i.Children {
			cc := child.Clone()
			cc.parent = c
			c.Children = append(c.Children, cc)
		}
	}
	return c
}

// FieldError is a single validation failure on one item field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the item's editable fields and returns one error per
// invalid field. It never panics and returns nil for a valid item.
func (i *Item) Validate() []FieldError {
	var errs []FieldError
	if i.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if i.Interval < 0 || i.Interval > MaxInterval {
		errs = append(errs, FieldError{
			Field:   "interval",
			Message: fmt.Sprintf("interval must be between 0 and %d", MaxInterval),
		})
	}
	return errs
}
