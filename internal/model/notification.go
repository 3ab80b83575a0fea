package model

import "fmt"

// Severity classifies a notification for display purposes.
type Severity string

const (
	SeverityNone    Severity = "none"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a display-ready message derived from an item's state.
// The core never renders or dispatches these; an external notification
// service does.
type Notification struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// Empty reports whether the notification carries nothing to show.
func (n Notification) Empty() bool {
	return n.Severity == SeverityNone || n.Text == ""
}

// NewNotification builds the notification for an item name entering the
// given state. States without display semantics produce an empty
// notification.
func NewNotification(name string, state State) Notification {
	switch state {
	case StateOK:
		return Notification{Text: fmt.Sprintf("%s is OK", name), Severity: SeverityInfo}
	case StateFailed:
		return Notification{Text: fmt.Sprintf("%s has failed", name), Severity: SeverityError}
	case StateError:
		return Notification{Text: fmt.Sprintf("%s has one or more errors", name), Severity: SeverityError}
	case StatePartiallySucceeded:
		return Notification{Text: fmt.Sprintf("%s partially succeeded", name), Severity: SeverityWarning}
	case StateRunning:
		return Notification{Text: fmt.Sprintf("%s is running", name), Severity: SeverityInfo}
	case StateQueued:
		return Notification{Text: fmt.Sprintf("%s has been queued", name), Severity: SeverityInfo}
	case StateCanceled:
		return Notification{Text: fmt.Sprintf("%s has been cancelled", name), Severity: SeverityInfo}
	case StateUnknown:
		return Notification{Text: fmt.Sprintf("%s status is unknown", name), Severity: SeverityWarning}
	}
	return Notification{Severity: SeverityNone}
}
