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

// GetPayment → fetch the payment for (event, user). Returns nil without
// error when no payment has been recorded yet.
func (d *DB) GetPayment(eventID, userID string) (*models.Payment, error) {
	var payment models.Payment
	err := d.Bun.NewSelect().
		Model(&payment).
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
	return &payment, nil
}

// UpsertPayment → atomic insert-or-update keyed on (event_id, user_id), the
// same conflict-handling shape as registrations.
func (d *DB) UpsertPayment(payment models.Payment) error {
	_, err := d.Bun.NewInsert().
		Model(&payment).
		On("CONFLICT (event_id, user_id) DO UPDATE").
		Set("payment_method = EXCLUDED.payment_method").
		Set("amount = EXCLUDED.amount").
		Set("status = EXCLUDED.status").
		Set("provider = EXCLUDED.provider").
		Set("additional_info = EXCLUDED.additional_info").
		Set("payment_date = EXCLUDED.payment_date").
		Set("updated_at = EXCLUDED.updated_at").
		Set("updated_by = EXCLUDED.updated_by").
		Exec(context.Background())
	return err
}
