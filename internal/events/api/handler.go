package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"temple-portal/internal/auth"
	"temple-portal/internal/events"
	"temple-portal/internal/logger"
	"temple-portal/internal/models"
	"temple-portal/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	EventService *events.Service
	Logger       *logger.Logger
}

func NewHandler(eventService *events.Service, logger *logger.Logger) *Handler {
	return &Handler{EventService: eventService, Logger: logger}
}

// ListEvents handles GET /api/events?filter=upcoming|past|all
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := models.EventFilter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = models.FilterUpcoming
	}

	eventList, err := h.EventService.List(filter)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListEvents: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, eventList)
}

// GetEvent handles GET /api/events/{eventId}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	event, err := h.EventService.Get(eventID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetEvent: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, event)
}

// CreateEvent handles POST /api/events. The body is either JSON or a
// multipart form carrying an optional image file.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	input, image, err := decodeEventForm(r)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: failed to decode request: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	event, err := h.EventService.Create(r.Context(), auth.UserID(r.Context()), auth.Roles(r.Context()), input, image)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: %v", err))
		utils.WriteError(w, err)
		return
	}

	h.Logger.Info("API", fmt.Sprintf("CreateEvent: event %s created", event.ID))
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Event created successfully!", event))
}

// UpdateEvent handles PUT /api/events/{eventId} with partial-update
// semantics: omitted fields keep their stored values.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	input, image, err := decodeEventForm(r)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateEvent: failed to decode request: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	event, err := h.EventService.Update(r.Context(), eventID, auth.UserID(r.Context()), auth.Roles(r.Context()), input, image)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateEvent: %v", err))
		utils.WriteError(w, err)
		return
	}

	h.Logger.Info("API", fmt.Sprintf("UpdateEvent: event %s updated", eventID))
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event updated successfully!", event))
}

func decodeEventForm(r *http.Request) (models.EventInput, *events.ImageUpload, error) {
	var input models.EventInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			return input, nil, err
		}
		input = models.EventInput{
			Name:        r.FormValue("name"),
			Date:        r.FormValue("date"),
			Time:        r.FormValue("time"),
			Location:    r.FormValue("location"),
			Description: r.FormValue("description"),
			ImageURL:    r.FormValue("image_url"),
		}

		file, header, err := r.FormFile("image")
		if err == http.ErrMissingFile {
			return input, nil, nil
		}
		if err != nil {
			return input, nil, err
		}
		image := &events.ImageUpload{
			Filename:    header.Filename,
			Content:     file,
			ContentType: header.Header.Get("Content-Type"),
		}
		return input, image, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return input, nil, err
	}
	return input, nil, nil
}
