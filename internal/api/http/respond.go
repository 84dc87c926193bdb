package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/render"
)

type errorBody struct {
	Code       string           `json:"code"`
	Message    string           `json:"message"`
	Shortfalls []exam.Shortfall `json:"shortfalls,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto machine-readable JSON bodies.
func writeError(w http.ResponseWriter, err error) {
	var ve *exam.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Code: ve.Code, Message: ve.Message})
		return
	}
	var se *exam.ShortfallError
	if errors.As(err, &se) {
		writeJSON(w, http.StatusConflict, errorBody{
			Code:       se.Code(),
			Message:    se.Error(),
			Shortfalls: se.Shortfalls,
		})
		return
	}
	switch {
	case errors.Is(err, render.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Code: "job_not_found", Message: "unknown or expired job id"})
	case errors.Is(err, render.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Code: "job_forbidden", Message: "job belongs to another requester"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: "internal", Message: err.Error()})
	}
}
