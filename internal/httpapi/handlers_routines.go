package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fitstack/coachd/internal/apperr"
	"github.com/fitstack/coachd/internal/middleware"
	"github.com/fitstack/coachd/internal/services/routines"
)

func (h *Handler) handleCreateRoutine(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, apperr.Unauthorized("authentication required"))
		return
	}

	var in routines.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	rt, err := h.routines.Create(r.Context(), ident, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (h *Handler) handleListRoutines(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, apperr.Unauthorized("authentication required"))
		return
	}

	list, err := h.routines.List(r.Context(), ident)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetRoutine(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, apperr.Unauthorized("authentication required"))
		return
	}

	rt, err := h.routines.Get(r.Context(), ident, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}
