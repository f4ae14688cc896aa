package db

import (
	"context"
	"database/sql"
	"errors"

	"temple-portal/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// GetAttendee → fetch the registration for (event, user). Returns nil without
// error when no registration exists.
func (d *DB) GetAttendee(eventID, userID string) (*models.Attendee, error) {
	var attendee models.Attendee
	err := d.Bun.NewSelect().
		Model(&attendee).
		Where("event_id = ?", eventID).
		Where("user_id = ?", userID).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}

// UpsertAttendee → atomic insert-or-update keyed on (event_id, user_id).
// The unique index makes two racing submissions collapse into one row
// instead of producing duplicates.
func (d *DB) UpsertAttendee(attendee models.Attendee) error {
	_, err := d.Bun.NewInsert().
		Model(&attendee).
		On("CONFLICT (event_id, user_id) DO UPDATE").
		Set("number_of_family_members = EXCLUDED.number_of_family_members").
		Set("additional_notes = EXCLUDED.additional_notes").
		Set("updated_at = EXCLUDED.updated_at").
		Set("updated_by = EXCLUDED.updated_by").
		Exec(context.Background())
	return err
}

// CountAttendees → number of registrations for an event.
func (d *DB) CountAttendees(eventID string) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Attendee)(nil)).
		Where("event_id = ?", eventID).
		Count(context.Background())
}
