package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/services"
	"github.com/gorilla/mux"
)

type taskRequest struct {
	Text        *string         `json:"text"`
	IsCompleted *bool           `json:"isCompleted"`
	Urgency     *string         `json:"urgency"`
	DueDate     json.RawMessage `json:"dueDate"`
}

// parseDue accepts RFC 3339 timestamps and plain dates. ok is false when
// the field was absent; a JSON null yields ok with a nil time.
func parseDue(raw json.RawMessage) (due *time.Time, ok bool, err error) {
	if len(raw) == 0 {
		return nil, false, nil
	}
	if bytes.Equal(raw, []byte("null")) {
		return nil, true, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, fmt.Errorf("%w: dueDate must be a string", common.ErrorValidation)
	}
	if s == "" {
		return nil, true, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true, nil
		}
	}
	return nil, false, fmt.Errorf("%w: invalid dueDate", common.ErrorValidation)
}

func (h *handler) listTasks(w http.ResponseWriter, r *http.Request) {
	list, err := h.Tasks.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]taskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTask(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) createTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	due, _, err := parseDue(req.DueDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var text string
	if req.Text != nil {
		text = *req.Text
	}
	var urgency models.Urgency
	if req.Urgency != nil {
		urgency = models.Urgency(*req.Urgency)
	}
	t, err := h.Tasks.Create(r.Context(), userIDFrom(r.Context()), text, urgency, due)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTask(t))
}

func (h *handler) updateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	due, set, err := parseDue(req.DueDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p := services.TaskPatch{
		Text:        req.Text,
		IsCompleted: req.IsCompleted,
		DueDate:     due,
		ClearDue:    set && due == nil,
	}
	if req.Urgency != nil {
		u := models.Urgency(*req.Urgency)
		p.Urgency = &u
	}
	t, err := h.Tasks.Update(r.Context(), userIDFrom(r.Context()), mux.Vars(r)["id"], p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTask(t))
}

func (h *handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := h.Tasks.Delete(r.Context(), userIDFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}
