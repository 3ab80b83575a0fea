package core

import (
	"sync"
	"time"

	"github.com/edvin/statusboard/internal/model"
)

// NotificationRecord is one derived notification with its provenance.
type NotificationRecord struct {
	Time     time.Time      `json:"time"`
	ItemID   string         `json:"item_id"`
	ItemName string         `json:"item_name"`
	Text     string         `json:"text"`
	Severity model.Severity `json:"severity"`
	State    model.State    `json:"state"`
}

// NotificationLog is an EventSink that derives notifications from state
// changes and keeps the most recent ones in a bounded in-memory ring
// for the UI to poll. An external notification service renders them;
// the log never displays anything itself.
type NotificationLog struct {
	mu      sync.Mutex
	entries []NotificationRecord
	maxSize int
}

// NewNotificationLog creates a log keeping at most maxSize entries.
func NewNotificationLog(maxSize int) *NotificationLog {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &NotificationLog{
		entries: make([]NotificationRecord, 0, maxSize),
		maxSize: maxSize,
	}
}

// Publish records a notification for notifiable state changes: the item
// opted in, the previous state was a real outcome, and the state
// actually changed. Everything else is dropped.
func (l *NotificationLog) Publish(e Event) {
	if e.Type != EventStateChanged || e.Transition == nil {
		return
	}
	if !e.Item.Notify || !e.Transition.Notifiable() {
		return
	}
	n := model.NewNotification(e.Item.Name, e.Transition.To)
	if n.Empty() {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) >= l.maxSize {
		l.entries = l.entries[1:]
	}
	l.entries = append(l.entries, NotificationRecord{
		Time:     e.Time,
		ItemID:   e.Item.ID,
		ItemName: e.Item.Name,
		Text:     n.Text,
		Severity: n.Severity,
		State:    e.Transition.To,
	})
}

// Recent returns up to n of the newest records, oldest first.
func (l *NotificationLog) Recent(n int) []NotificationRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]NotificationRecord, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}
