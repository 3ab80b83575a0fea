package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/statusboard/internal/api/request"
	"github.com/edvin/statusboard/internal/api/response"
	"github.com/edvin/statusboard/internal/core"
	"github.com/edvin/statusboard/internal/model"
)

type Item struct {
	svc *core.TreeService
}

func NewItem(svc *core.TreeService) *Item {
	return &Item{svc: svc}
}

// Tree returns the whole status tree.
func (h *Item) Tree(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.svc.Snapshot())
}

// Get returns the subtree rooted at one item.
func (h *Item) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.svc.Get(id)
	if err != nil {
		response.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, item)
}

// Create adds a new group or monitor under the parent item.
func (h *Item) Create(w http.ResponseWriter, r *http.Request) {
	parentID, err := request.RequireID(chi.URLParam(r, "parentID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.CreateItem
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var item *model.Item
	if req.Kind == model.KindGroup {
		item = model.NewGroup(req.Name)
	} else {
		item = model.NewMonitor(req.Name, req.Kind, req.Target)
	}
	if req.Interval != nil {
		item.Interval = *req.Interval
	}
	if req.Notify != nil {
		item.Notify = *req.Notify
	}

	if err := h.svc.Add(parentID, item); err != nil {
		writeTreeError(w, err)
		return
	}

	created, err := h.svc.Get(item.ID)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusCreated, created)
}

// Update changes attributes on one item.
func (h *Item) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpdateItem
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	fieldErrs, err := h.svc.Update(id, core.ItemUpdate{
		Name:     req.Name,
		Target:   req.Target,
		Interval: req.Interval,
		Notify:   req.Notify,
		Expanded: req.Expanded,
	})
	if err != nil {
		writeTreeError(w, err)
		return
	}
	if fieldErrs != nil {
		response.WriteFieldErrors(w, fieldErrs)
		return
	}

	item, err := h.svc.Get(id)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, item)
}

// Delete removes one immediate child from a parent.
func (h *Item) Delete(w http.ResponseWriter, r *http.Request) {
	parentID, err := request.RequireID(chi.URLParam(r, "parentID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	childID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Remove(parentID, childID); err != nil {
		writeTreeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Clear removes every child of one item.
func (h *Item) Clear(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Clear(id); err != nil {
		writeTreeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetState writes a state on one item, typically an external check
// reporting in.
func (h *Item) SetState(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.SetItemState
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := model.ParseState(req.State)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tr, err := h.svc.SetState(id, state)
	if err != nil {
		writeTreeError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, tr)
}

// SetEnabled flips the enabled flag on one item.
func (h *Item) SetEnabled(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.SetItemEnabled
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tr, err := h.svc.SetEnabled(id, *req.Enabled)
	if err != nil {
		writeTreeError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, tr)
}

// writeTreeError maps tree service errors onto HTTP status codes.
func writeTreeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		response.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrNilItem):
		response.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		response.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
