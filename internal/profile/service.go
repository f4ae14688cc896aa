package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"temple-portal/internal/logger"
	"temple-portal/internal/models"

	"github.com/google/uuid"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s().-]{7,20}$`)
)

type DBLayer interface {
	GetUserByID(id string) (*models.User, error)
	ListGotrams() ([]models.Gotram, error)
	SaveProfile(user models.User, newGotram *models.Gotram) error
}

// IdentityClient requests identity-provider changes that live outside the
// profile table, i.e. the sign-in email.
type IdentityClient interface {
	RequestEmailChange(ctx context.Context, userID, newEmail string) error
}

type Service struct {
	DB       DBLayer
	Identity IdentityClient
	logger   *logger.Logger
}

func NewService(db DBLayer, identity IdentityClient, logger *logger.Logger) *Service {
	return &Service{DB: db, Identity: identity, logger: logger}
}

// Load fetches the profile form state: the user joined with its gotram plus
// the full lineage option list. A member who has never saved a profile gets
// an empty user row carrying just their identity.
func (s *Service) Load(userID, identityEmail string) (*models.ProfileState, error) {
	user, err := s.DB.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			user = &models.User{ID: userID, Email: identityEmail}
		} else {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
	}

	gotrams, err := s.DB.ListGotrams()
	if err != nil {
		return nil, fmt.Errorf("failed to load gotram options: %w", err)
	}

	return &models.ProfileState{User: user, Gotrams: gotrams}, nil
}

// Gotrams returns the lineage option list.
func (s *Service) Gotrams() ([]models.Gotram, error) {
	return s.DB.ListGotrams()
}

// Submit validates and saves the profile. A new lineage record and the user
// row are written in one transaction; an email differing from the identity
// provider's current one additionally triggers a provider-side change, whose
// failure fails the whole submit.
func (s *Service) Submit(ctx context.Context, userID, identityEmail string, req models.ProfileRequest) (*models.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := time.Now()

	var newGotram *models.Gotram
	gotramID := req.GotramID
	if req.NewGotram != nil {
		newGotram = &models.Gotram{
			ID:          uuid.NewString(),
			Gotranamalu: req.NewGotram.Gotranamalu,
			Nakshtram:   req.NewGotram.Nakshtram,
			Rasi:        req.NewGotram.Rasi,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		gotramID = newGotram.ID
	}

	user := models.User{
		ID:          userID,
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		GotramID:    gotramID,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   userID,
		UpdatedBy:   userID,
	}

	if err := s.DB.SaveProfile(user, newGotram); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	if req.Email != identityEmail {
		if err := s.Identity.RequestEmailChange(ctx, userID, req.Email); err != nil {
			return nil, fmt.Errorf("profile saved but email change failed: %w", err)
		}
		s.logger.Info("PROFILE", fmt.Sprintf("Sign-in email change requested for user %s", userID))
	}

	stored, err := s.DB.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}

	s.logger.Info("PROFILE", fmt.Sprintf("Profile saved for user %s", userID))
	return stored, nil
}

func validate(req models.ProfileRequest) error {
	if req.FirstName == "" {
		return models.NewValidationError("first_name", "first name is required")
	}
	if req.LastName == "" {
		return models.NewValidationError("last_name", "last name is required")
	}
	if req.Email == "" {
		return models.NewValidationError("email", "email is required")
	}
	if !emailPattern.MatchString(req.Email) {
		return models.NewValidationError("email", "email is not well-formed")
	}
	if req.PhoneNumber != "" && !phonePattern.MatchString(req.PhoneNumber) {
		return models.NewValidationError("phone_number", "phone number is not well-formed")
	}
	if req.NewGotram != nil {
		if req.NewGotram.Gotranamalu == "" || req.NewGotram.Nakshtram == "" || req.NewGotram.Rasi == "" {
			return models.NewValidationError("new_gotram", "gotranamalu, nakshtram and rasi are all required for a new lineage")
		}
	} else if req.GotramID == "" {
		return models.NewValidationError("gotram_id", "select an existing lineage or add a new one")
	}
	return nil
}
