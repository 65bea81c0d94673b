// Package httpapi exposes the coaching domain over HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/fitstack/coachd/internal/apperr"
)

// decodeJSON decodes the request body strictly. Unknown fields and
// trailing garbage are rejected so typos surface as 422s instead of
// silently dropped input.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("invalid request body: " + err.Error())
	}
	if dec.More() {
		return apperr.Validation("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	typed := apperr.FromError(err)
	if typed.HTTPStatus >= http.StatusInternalServerError {
		h.log.WithError(typed).Error("request failed")
	}
	writeJSON(w, typed.HTTPStatus, errorBody{Error: errorDetail{
		Code:    string(typed.Code),
		Message: typed.Message,
	}})
}
