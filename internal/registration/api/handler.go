package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"temple-portal/internal/auth"
	"temple-portal/internal/logger"
	"temple-portal/internal/models"
	"temple-portal/internal/registration"
	"temple-portal/internal/registration/qr"
	"temple-portal/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	RegistrationService *registration.Service
	QR                  *qr.Generator
	Logger              *logger.Logger
}

func NewHandler(registrationService *registration.Service, qrGen *qr.Generator, logger *logger.Logger) *Handler {
	return &Handler{RegistrationService: registrationService, QR: qrGen, Logger: logger}
}

// GetRegistration handles GET /api/events/{eventId}/registration. It returns
// the form state: the event plus any existing registration for the actor.
func (h *Handler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	userID := auth.UserID(r.Context())

	state, err := h.RegistrationService.Load(eventID, userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetRegistration: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, state)
}

// SubmitRegistration handles POST /api/events/{eventId}/registration with
// upsert semantics: first submission registers, resubmission updates.
func (h *Handler) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	userID := auth.UserID(r.Context())

	var req models.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("SubmitRegistration: failed to decode request: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	attendee, err := h.RegistrationService.Submit(eventID, userID, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("SubmitRegistration: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Registration saved. See you at the event!", attendee))
}

// GetCheckInQR handles GET /api/events/{eventId}/registration/qr and returns
// a PNG check-in code for the actor's registration.
func (h *Handler) GetCheckInQR(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	userID := auth.UserID(r.Context())

	state, err := h.RegistrationService.Load(eventID, userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetCheckInQR: %v", err))
		utils.WriteError(w, err)
		return
	}
	if state.Attendee == nil {
		utils.WriteError(w, models.ErrNotRegistered)
		return
	}

	png, err := h.QR.GenerateCheckInQR(*state.Attendee)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetCheckInQR: failed to generate code: %v", err))
		utils.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetCheckInQR: failed to write response: %v", err))
	}
}
