package handler

import (
	"encoding/json"
	"net/http"

	"nursery/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeDomainError maps err onto an HTTP status. Domain errors carry their
// own message; anything else is reported as an internal error.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	switch model.ErrorCode(err) {
	case model.ErrCodePlantNotFound:
		writeError(w, http.StatusNotFound, err.Error(), logger)
	case model.ErrCodeMissingField,
		model.ErrCodeInvalidField,
		model.ErrCodeInvalidJSON,
		model.ErrCodeWriteFailed:
		writeError(w, http.StatusBadRequest, err.Error(), logger)
	default:
		logger.Error().Err(err).Msg("unexpected service error")
		writeError(w, http.StatusInternalServerError, "internal server error", logger)
	}
}
