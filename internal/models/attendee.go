package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Attendee is a user's registration record for a specific event. At most one
// row exists per (event_id, user_id); the pair is unique at the storage layer
// and writes go through an atomic upsert.
type Attendee struct {
	bun.BaseModel `bun:"table:attendees"`

	ID                    string    `json:"id" bun:"id,pk"`
	EventID               string    `json:"event_id" bun:"event_id,notnull"`
	UserID                string    `json:"user_id" bun:"user_id,notnull"`
	NumberOfFamilyMembers int       `json:"number_of_family_members" bun:"number_of_family_members,notnull"`
	AdditionalNotes       string    `json:"additional_notes,omitempty" bun:"additional_notes,nullzero"`
	CreatedAt             time.Time `json:"created_at" bun:"created_at,notnull"`
	UpdatedAt             time.Time `json:"updated_at" bun:"updated_at,notnull"`
	CreatedBy             string    `json:"created_by,omitempty" bun:"created_by,nullzero"`
	UpdatedBy             string    `json:"updated_by,omitempty" bun:"updated_by,nullzero"`
}

// RegistrationRequest is the registration form body.
type RegistrationRequest struct {
	NumberOfFamilyMembers int    `json:"number_of_family_members"`
	AdditionalNotes       string `json:"additional_notes"`
}

// RegistrationState is what the form needs on load: the event, the existing
// registration if any, and whether the actor is already registered.
type RegistrationState struct {
	Event             *Event    `json:"event"`
	Attendee          *Attendee `json:"attendee,omitempty"`
	AlreadyRegistered bool      `json:"already_registered"`
}
