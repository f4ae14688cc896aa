package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string    `json:"id" bun:"id,pk"`
	Name        string    `json:"name" bun:"name,notnull"`
	EventDate   time.Time `json:"event_date" bun:"event_date,notnull"`
	Location    string    `json:"location" bun:"location,notnull"`
	ImageURL    string    `json:"image_url,omitempty" bun:"image_url,nullzero"`
	Description string    `json:"description,omitempty" bun:"description,nullzero"`
	CreatedAt   time.Time `json:"created_at" bun:"created_at,notnull"`
	UpdatedAt   time.Time `json:"updated_at" bun:"updated_at,notnull"`
	CreatedBy   string    `json:"created_by,omitempty" bun:"created_by,nullzero"`
	UpdatedBy   string    `json:"updated_by,omitempty" bun:"updated_by,nullzero"`
}

// EventFilter selects which slice of the directory to list.
type EventFilter string

const (
	FilterUpcoming EventFilter = "upcoming"
	FilterPast     EventFilter = "past"
	FilterAll      EventFilter = "all"
)

// EventInput carries the authoring form fields. The event instant is assembled
// from separate date and time inputs before persistence.
type EventInput struct {
	Name        string `json:"name"`
	Date        string `json:"date"` // 2006-01-02
	Time        string `json:"time"` // 15:04
	Location    string `json:"location"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}
