package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"temple-portal/internal/auth"
	"temple-portal/internal/logger"
	"temple-portal/internal/models"
	"temple-portal/internal/payments"
	"temple-portal/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	PaymentService *payments.Service
	Logger         *logger.Logger
}

func NewHandler(paymentService *payments.Service, logger *logger.Logger) *Handler {
	return &Handler{PaymentService: paymentService, Logger: logger}
}

// GetPayment handles GET /api/events/{eventId}/payment. Without a prior
// registration the client is redirected to the registration workflow.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	userID := auth.UserID(r.Context())

	state, err := h.PaymentService.Load(eventID, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotRegistered) {
			h.redirectToRegistration(w, eventID)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("GetPayment: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, state)
}

// SubmitPayment handles POST /api/events/{eventId}/payment.
func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	userID := auth.UserID(r.Context())

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("SubmitPayment: failed to decode request: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	payment, err := h.PaymentService.Record(eventID, userID, req)
	if err != nil {
		if errors.Is(err, models.ErrNotRegistered) {
			h.redirectToRegistration(w, eventID)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("SubmitPayment: %v", err))
		utils.WriteError(w, err)
		return
	}

	message := "Payment processed successfully! Thank you for your payment."
	if payment.PaymentMethod == models.MethodCash {
		message = "Your cash payment will be collected at the event. Thank you!"
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse(message, payment))
}

// No payment may be created without a registration, so the client is sent
// back to the registration workflow for the same event.
func (h *Handler) redirectToRegistration(w http.ResponseWriter, eventID string) {
	w.Header().Set("Location", fmt.Sprintf("/api/events/%s/registration", eventID))
	utils.WriteJSON(w, http.StatusSeeOther, utils.ErrorResponse("Not registered", "register for the event before making a payment"))
}
