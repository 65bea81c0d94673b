package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fitstack/coachd/internal/apperr"
	"github.com/fitstack/coachd/internal/middleware"
	"github.com/fitstack/coachd/internal/services/exercises"
)

func (h *Handler) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var in exercises.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	ex, err := h.exercises.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

func (h *Handler) handleListExercises(w http.ResponseWriter, r *http.Request) {
	list, err := h.exercises.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	ex, err := h.exercises.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (h *Handler) handleRecordProgress(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, apperr.Unauthorized("authentication required"))
		return
	}

	var in exercises.ProgressInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	entry, err := h.exercises.RecordProgress(r.Context(), ident, mux.Vars(r)["id"], in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) handleListProgress(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, apperr.Unauthorized("authentication required"))
		return
	}

	entries, err := h.exercises.ListProgress(r.Context(), ident, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
