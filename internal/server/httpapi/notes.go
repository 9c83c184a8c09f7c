package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/smartnotes/internal/server/services"
	"github.com/gorilla/mux"
)

func (h *handler) listNotes(w http.ResponseWriter, r *http.Request) {
	list, err := h.Notes.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]noteResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toNote(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) createNote(w http.ResponseWriter, r *http.Request) {
	var in services.NoteInput
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	n, err := h.Notes.Create(r.Context(), userIDFrom(r.Context()), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNote(n))
}

func (h *handler) updateNote(w http.ResponseWriter, r *http.Request) {
	var in services.NoteInput
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	n, err := h.Notes.Update(r.Context(), userIDFrom(r.Context()), mux.Vars(r)["id"], in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNote(n))
}

func (h *handler) generateQuiz(w http.ResponseWriter, r *http.Request) {
	n, err := h.Notes.GenerateQuiz(r.Context(), userIDFrom(r.Context()), mux.Vars(r)["noteId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNote(n))
}
