package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mpreston/tripdesk/backend/internal/domain"
)

// errorResponse is the JSON envelope for every error the API returns.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondJSON writes v as JSON with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes the error envelope with the given status, code, and message.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// respondDomainError maps a service error onto the HTTP error taxonomy:
// Unauthenticated → 401, Unauthorized → 403, NotFound → 404 (with the
// caller-supplied resource message), ValidationFailure → 422 with the rule
// text, anything else → 500 with the store detail logged but not echoed.
func respondDomainError(w http.ResponseWriter, log *slog.Logger, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to continue")
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusForbidden, "unauthorized", "you do not own this resource")
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", notFoundMsg)
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusUnprocessableEntity, "validation_error", validationMessage(err))
	default:
		log.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

// validationMessage extracts the human-readable part from a wrapped
// domain.ErrValidation, e.g.
// "validation error: title is required" → "title is required".
func validationMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, domain.ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(domain.ErrValidation.Error())+2:]
	}
	return msg
}
