package core

import (
	"github.com/rs/zerolog"

	"github.com/edvin/statusboard/internal/model"
)

// Services bundles the core services around one status tree.
type Services struct {
	Tree          *TreeService
	Notifications *NotificationLog
}

// NewServices wires the tree with its notification log plus any extra
// event sinks (metrics, the websocket broadcaster).
func NewServices(root *model.Item, logger zerolog.Logger, sinks ...EventSink) *Services {
	notifications := NewNotificationLog(200)
	all := append(MultiSink{notifications}, sinks...)
	return &Services{
		Tree:          NewTreeService(root, all, logger),
		Notifications: notifications,
	}
}
