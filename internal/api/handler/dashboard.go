package handler

import (
	"net/http"
	"strconv"

	"github.com/edvin/statusboard/internal/api/response"
	"github.com/edvin/statusboard/internal/core"
)

type Dashboard struct {
	tree          *core.TreeService
	notifications *core.NotificationLog
}

func NewDashboard(tree *core.TreeService, notifications *core.NotificationLog) *Dashboard {
	return &Dashboard{tree: tree, notifications: notifications}
}

// Summary returns aggregate counts over the whole tree.
func (h *Dashboard) Summary(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.tree.Summary())
}

// Notifications returns the most recent notification records, oldest
// first. The optional ?limit= parameter caps how many are returned.
func (h *Dashboard) Notifications(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	records := h.notifications.Recent(limit)
	if records == nil {
		records = []core.NotificationRecord{}
	}
	response.WriteJSON(w, http.StatusOK, records)
}
