package request

// CreateItem creates a group or monitor under a parent.
type CreateItem struct {
	Name     string `json:"name" validate:"required,max=128"`
	Kind     string `json:"kind" validate:"required,itemkind"`
	Target   string `json:"target"`
	Interval *int   `json:"interval" validate:"omitempty,min=0,max=65535"`
	Notify   *bool  `json:"notify"`
}

// UpdateItem changes item attributes; absent fields are left alone.
type UpdateItem struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=128"`
	Target   *string `json:"target"`
	Interval *int    `json:"interval" validate:"omitempty,min=0,max=65535"`
	Notify   *bool   `json:"notify"`
	Expanded *bool   `json:"expanded"`
}

// SetItemState injects a state for an item, typically an external
// check runner reporting in.
type SetItemState struct {
	State string `json:"state" validate:"required,state"`
}

// SetItemEnabled flips the enabled flag.
type SetItemEnabled struct {
	Enabled *bool `json:"enabled" validate:"required"`
}
