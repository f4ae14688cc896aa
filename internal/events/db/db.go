package db

import (
	"context"
	"time"

	"temple-portal/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ListEvents → directory listing. Upcoming and all sort ascending by date,
// past sorts descending (most recent first). Upcoming means event_date >= now.
func (d *DB) ListEvents(filter models.EventFilter, now time.Time) ([]models.Event, error) {
	var events []models.Event
	q := d.Bun.NewSelect().Model(&events)

	switch filter {
	case models.FilterUpcoming:
		q = q.Where("event_date >= ?", now).Order("event_date ASC")
	case models.FilterPast:
		q = q.Where("event_date < ?", now).Order("event_date DESC")
	default:
		q = q.Order("event_date ASC")
	}

	if err := q.Scan(context.Background()); err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

// GetEventByID → fetch one event by its ID
func (d *DB) GetEventByID(id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateEvent → insert new event
func (d *DB) CreateEvent(event models.Event) error {
	_, err := d.Bun.NewInsert().Model(&event).Exec(context.Background())
	return err
}

// UpdateEvent → update only the given columns, so omitted authoring fields
// retain their prior values.
func (d *DB) UpdateEvent(event models.Event, columns []string) error {
	_, err := d.Bun.NewUpdate().
		Model(&event).
		Column(columns...).
		Where("id = ?", event.ID).
		Exec(context.Background())
	return err
}
