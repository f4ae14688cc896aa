package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"temple-portal/internal/kafka"
	"temple-portal/internal/logger"
	"temple-portal/internal/models"
	"temple-portal/internal/policy"
	"temple-portal/internal/storage"

	"github.com/google/uuid"
)

type DBLayer interface {
	ListEvents(filter models.EventFilter, now time.Time) ([]models.Event, error)
	GetEventByID(id string) (*models.Event, error)
	CreateEvent(event models.Event) error
	UpdateEvent(event models.Event, columns []string) error
}

type Publisher interface {
	Publish(topic string, key string, value []byte) error
}

// ImageUpload is an optional authoring attachment. When present it is
// uploaded to blob storage first and the resulting public URL is stored.
type ImageUpload struct {
	Filename    string
	Content     io.Reader
	ContentType string
}

type Service struct {
	DB     DBLayer
	Blob   storage.BlobStore
	Policy policy.Policy
	Kafka  Publisher
	logger *logger.Logger
}

func NewService(db DBLayer, blob storage.BlobStore, pol policy.Policy, kafka Publisher, logger *logger.Logger) *Service {
	return &Service{DB: db, Blob: blob, Policy: pol, Kafka: kafka, logger: logger}
}

// List returns the directory slice for the given filter.
func (s *Service) List(filter models.EventFilter) ([]models.Event, error) {
	return s.DB.ListEvents(filter, time.Now())
}

// Get returns one event or ErrNotFound.
func (s *Service) Get(id string) (*models.Event, error) {
	event, err := s.DB.GetEventByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

// Create inserts a new event for an authorized actor.
func (s *Service) Create(ctx context.Context, actorID string, roles []string, input models.EventInput, image *ImageUpload) (*models.Event, error) {
	if decision := s.Policy.CanManageEvents(roles); !decision.Allowed {
		return nil, fmt.Errorf("%w: %s", models.ErrPermissionDenied, decision.Reason)
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	eventDate, err := assembleEventDate(input.Date, input.Time)
	if err != nil {
		return nil, err
	}

	imageURL := input.ImageURL
	if image != nil {
		imageURL, err = s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	event := models.Event{
		ID:          uuid.NewString(),
		Name:        input.Name,
		EventDate:   eventDate,
		Location:    input.Location,
		ImageURL:    imageURL,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   actorID,
		UpdatedBy:   actorID,
	}

	if err := s.DB.CreateEvent(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.publish(kafka.TopicEventCreated, event)
	s.logger.Info("EVENT", fmt.Sprintf("Event %s created by %s", event.ID, actorID))
	return &event, nil
}

// Update applies a partial update to an existing event. Omitted fields keep
// their stored values; image_url is only overwritten when a new file was
// supplied.
func (s *Service) Update(ctx context.Context, id, actorID string, roles []string, input models.EventInput, image *ImageUpload) (*models.Event, error) {
	if decision := s.Policy.CanManageEvents(roles); !decision.Allowed {
		return nil, fmt.Errorf("%w: %s", models.ErrPermissionDenied, decision.Reason)
	}

	event, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	columns := []string{"updated_at", "updated_by"}

	if input.Name != "" {
		event.Name = input.Name
		columns = append(columns, "name")
	}
	if input.Location != "" {
		event.Location = input.Location
		columns = append(columns, "location")
	}
	if input.Description != "" {
		event.Description = input.Description
		columns = append(columns, "description")
	}
	if input.Date != "" || input.Time != "" {
		date := input.Date
		clock := input.Time
		if date == "" {
			date = event.EventDate.Format("2006-01-02")
		}
		if clock == "" {
			clock = event.EventDate.Format("15:04")
		}
		eventDate, err := assembleEventDate(date, clock)
		if err != nil {
			return nil, err
		}
		event.EventDate = eventDate
		columns = append(columns, "event_date")
	}
	if image != nil {
		imageURL, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		event.ImageURL = imageURL
		columns = append(columns, "image_url")
	}

	event.UpdatedAt = time.Now()
	event.UpdatedBy = actorID

	if err := s.DB.UpdateEvent(*event, columns); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.publish(kafka.TopicEventUpdated, *event)
	s.logger.Info("EVENT", fmt.Sprintf("Event %s updated by %s", id, actorID))
	return event, nil
}

func (s *Service) uploadImage(ctx context.Context, image *ImageUpload) (string, error) {
	path := fmt.Sprintf("events/%s%s", uuid.NewString(), filepath.Ext(image.Filename))
	url, err := s.Blob.Upload(ctx, path, image.Content, image.ContentType)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	return url, nil
}

func (s *Service) publish(topic string, event models.Event) {
	if s.Kafka == nil {
		return
	}
	value, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Failed to marshal event payload: %v", err))
		return
	}
	if err := s.Kafka.Publish(topic, event.ID, value); err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Publish to %s failed: %v", topic, err))
	}
}

func validateInput(input models.EventInput) error {
	if input.Name == "" {
		return models.NewValidationError("name", "name is required")
	}
	if input.Date == "" {
		return models.NewValidationError("date", "date is required")
	}
	if input.Location == "" {
		return models.NewValidationError("location", "location is required")
	}
	return nil
}

// assembleEventDate combines separate date and time inputs into one instant.
func assembleEventDate(date, clock string) (time.Time, error) {
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return time.Time{}, models.NewValidationError("date", "invalid date or time format")
	}
	return t, nil
}
