package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"temple-portal/internal/models"
)

// APIResponse is the envelope every JSON endpoint writes. Field is set only
// on validation failures so the client can highlight the offending input.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Field     string      `json:"field,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func ErrorResponse(message, error string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     error,
		Timestamp: time.Now(),
	}
}

func validationResponse(err *models.ValidationError) APIResponse {
	resp := ErrorResponse("Validation failed", err.Message)
	resp.Field = err.Field
	return resp
}

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError maps the workflow error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a backend failure; its message passes through
// verbatim.
func WriteError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &validationErr):
		WriteJSON(w, http.StatusUnprocessableEntity, validationResponse(validationErr))
	case errors.Is(err, models.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, ErrorResponse("Not found", err.Error()))
	case errors.Is(err, models.ErrPermissionDenied):
		WriteJSON(w, http.StatusForbidden, ErrorResponse("Permission denied", err.Error()))
	case errors.Is(err, models.ErrAlreadyPaid):
		WriteJSON(w, http.StatusConflict, ErrorResponse("Already paid", err.Error()))
	case errors.Is(err, models.ErrNotRegistered):
		WriteJSON(w, http.StatusConflict, ErrorResponse("Not registered", err.Error()))
	default:
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse("Request failed", err.Error()))
	}
}
