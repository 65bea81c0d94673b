package httpapi

import (
	"net/http"

	"github.com/fitstack/coachd/internal/apperr"
	"github.com/fitstack/coachd/internal/middleware"
	"github.com/fitstack/coachd/internal/services/users"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in users.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	u, err := h.users.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// handleLogin accepts the credentials as a form post, the shape password
// grant clients already send.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, apperr.Validation("invalid form body"))
		return
	}

	resp, err := h.users.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, apperr.Unauthorized("authentication required"))
		return
	}

	u, err := h.users.Get(r.Context(), ident.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
