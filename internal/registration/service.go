package registration

import (
	"encoding/json"
	"fmt"
	"time"

	"temple-portal/internal/kafka"
	"temple-portal/internal/logger"
	"temple-portal/internal/models"

	"github.com/google/uuid"
)

type DBLayer interface {
	GetAttendee(eventID, userID string) (*models.Attendee, error)
	UpsertAttendee(attendee models.Attendee) error
	CountAttendees(eventID string) (int, error)
}

type EventGetter interface {
	Get(id string) (*models.Event, error)
}

type Publisher interface {
	Publish(topic string, key string, value []byte) error
}

type Service struct {
	DB     DBLayer
	Events EventGetter
	Kafka  Publisher
	logger *logger.Logger
}

func NewService(db DBLayer, events EventGetter, kafka Publisher, logger *logger.Logger) *Service {
	return &Service{DB: db, Events: events, Kafka: kafka, logger: logger}
}

// Load fetches the registration form state: the target event (ErrNotFound if
// absent) and any existing registration for the actor, so the form can
// pre-fill and show the already-registered notice.
func (s *Service) Load(eventID, userID string) (*models.RegistrationState, error) {
	event, err := s.Events.Get(eventID)
	if err != nil {
		return nil, err
	}

	attendee, err := s.DB.GetAttendee(eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up registration: %w", err)
	}

	return &models.RegistrationState{
		Event:             event,
		Attendee:          attendee,
		AlreadyRegistered: attendee != nil,
	}, nil
}

// Submit records or updates the actor's registration for an event. The write
// is an atomic upsert keyed on (event_id, user_id), so resubmission updates
// the existing row and never produces a duplicate.
func (s *Service) Submit(eventID, userID string, req models.RegistrationRequest) (*models.Attendee, error) {
	if req.NumberOfFamilyMembers < 1 {
		return nil, models.NewValidationError("number_of_family_members", "at least one family member is required")
	}

	if _, err := s.Events.Get(eventID); err != nil {
		return nil, err
	}

	now := time.Now()
	attendee := models.Attendee{
		ID:                    uuid.NewString(),
		EventID:               eventID,
		UserID:                userID,
		NumberOfFamilyMembers: req.NumberOfFamilyMembers,
		AdditionalNotes:       req.AdditionalNotes,
		CreatedAt:             now,
		UpdatedAt:             now,
		CreatedBy:             userID,
		UpdatedBy:             userID,
	}

	if err := s.DB.UpsertAttendee(attendee); err != nil {
		return nil, fmt.Errorf("failed to save registration: %w", err)
	}

	// Re-read so the caller sees the stored row (the original id survives an
	// update path).
	stored, err := s.DB.GetAttendee(eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload registration: %w", err)
	}
	if stored == nil {
		stored = &attendee
	}

	s.publish(*stored)
	s.logger.LogWorkflow("REGISTRATION", eventID, fmt.Sprintf("user %s registered with %d family members", userID, req.NumberOfFamilyMembers))
	return stored, nil
}

func (s *Service) publish(attendee models.Attendee) {
	if s.Kafka == nil {
		return
	}
	value, err := json.Marshal(attendee)
	if err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Failed to marshal registration payload: %v", err))
		return
	}
	if err := s.Kafka.Publish(kafka.TopicRegistrationUpserted, attendee.EventID+":"+attendee.UserID, value); err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Publish to %s failed: %v", kafka.TopicRegistrationUpserted, err))
	}
}
