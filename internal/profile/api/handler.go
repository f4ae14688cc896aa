package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"temple-portal/internal/auth"
	"temple-portal/internal/logger"
	"temple-portal/internal/models"
	"temple-portal/internal/profile"
	"temple-portal/internal/utils"
)

type Handler struct {
	ProfileService *profile.Service
	Logger         *logger.Logger
}

func NewHandler(profileService *profile.Service, logger *logger.Logger) *Handler {
	return &Handler{ProfileService: profileService, Logger: logger}
}

// GetProfile handles GET /api/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	state, err := h.ProfileService.Load(auth.UserID(r.Context()), auth.Email(r.Context()))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetProfile: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, state)
}

// UpdateProfile handles PUT /api/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateProfile: failed to decode request: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, err := h.ProfileService.Submit(r.Context(), auth.UserID(r.Context()), auth.Email(r.Context()), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateProfile: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Profile updated successfully!", user))
}

// ListGotrams handles GET /api/gotrams
func (h *Handler) ListGotrams(w http.ResponseWriter, r *http.Request) {
	gotrams, err := h.ProfileService.Gotrams()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListGotrams: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, gotrams)
}
