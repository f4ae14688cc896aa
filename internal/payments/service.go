package payments

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
	GetPayment(eventID, userID string) (*models.Payment, error)
	UpsertPayment(payment models.Payment) error
}

type AttendeeGetter interface {
	GetAttendee(eventID, userID string) (*models.Attendee, error)
}

type EventGetter interface {
	Get(id string) (*models.Event, error)
}

type Publisher interface {
	Publish(topic string, key string, value []byte) error
}

type Service struct {
	DB        DBLayer
	Attendees AttendeeGetter
	Events    EventGetter
	Kafka     Publisher
	basePrice float64
	logger    *logger.Logger
}

func NewService(db DBLayer, attendees AttendeeGetter, events EventGetter, kafka Publisher, basePrice float64, logger *logger.Logger) *Service {
	return &Service{DB: db, Attendees: attendees, Events: events, Kafka: kafka, basePrice: basePrice, logger: logger}
}

// SuggestedAmount derives the payment amount from a registration: the base
// price covers the member plus each family member.
func (s *Service) SuggestedAmount(familyMembers int) float64 {
	return s.basePrice * float64(1+familyMembers)
}

// Load fetches the payment form state. A payment requires an existing
// registration; without one the caller gets ErrNotRegistered and redirects
// the actor to the registration workflow.
func (s *Service) Load(eventID, userID string) (*models.PaymentState, error) {
	event, err := s.Events.Get(eventID)
	if err != nil {
		return nil, err
	}

	attendee, err := s.Attendees.GetAttendee(eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up registration: %w", err)
	}
	if attendee == nil {
		return nil, models.ErrNotRegistered
	}

	payment, err := s.DB.GetPayment(eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}

	return &models.PaymentState{
		Event:           event,
		SuggestedAmount: s.SuggestedAmount(attendee.NumberOfFamilyMembers),
		Payment:         payment,
		AlreadyPaid:     payment != nil && payment.Status == models.StatusCompleted,
	}, nil
}

// Record saves a payment attempt for the actor's registration. Cash stays
// pending until collected at the event; every other method is recorded as
// completed. A completed payment locks the form against resubmission.
func (s *Service) Record(eventID, userID string, req models.PaymentRequest) (*models.Payment, error) {
	if !models.ValidMethod(req.PaymentMethod) {
		return nil, models.NewValidationError("payment_method", "unknown payment method")
	}

	attendee, err := s.Attendees.GetAttendee(eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up registration: %w", err)
	}
	if attendee == nil {
		return nil, models.ErrNotRegistered
	}

	existing, err := s.DB.GetPayment(eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}
	if existing != nil && existing.Status == models.StatusCompleted {
		return nil, models.ErrAlreadyPaid
	}

	amount := req.Amount
	if amount <= 0 {
		amount = s.SuggestedAmount(attendee.NumberOfFamilyMembers)
	}

	now := time.Now()
	payment := models.Payment{
		ID:             uuid.NewString(),
		EventID:        eventID,
		UserID:         userID,
		PaymentDate:    now,
		PaymentMethod:  req.PaymentMethod,
		Amount:         amount,
		Status:         models.StatusForMethod(req.PaymentMethod),
		Provider:       req.Provider,
		AdditionalInfo: req.AdditionalInfo,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      userID,
		UpdatedBy:      userID,
	}

	if err := s.DB.UpsertPayment(payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	stored, err := s.DB.GetPayment(eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload payment: %w", err)
	}
	if stored == nil {
		stored = &payment
	}

	s.publish(*stored)
	s.logger.LogWorkflow("PAYMENT", eventID, fmt.Sprintf("user %s paid %.2f via %s (%s)", userID, stored.Amount, stored.PaymentMethod, stored.Status))
	return stored, nil
}

func (s *Service) publish(payment models.Payment) {
	if s.Kafka == nil {
		return
	}
	value, err := json.Marshal(payment)
	if err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Failed to marshal payment payload: %v", err))
		return
	}
	if err := s.Kafka.Publish(kafka.TopicPaymentRecorded, payment.EventID+":"+payment.UserID, value); err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Publish to %s failed: %v", kafka.TopicPaymentRecorded, err))
	}
}
