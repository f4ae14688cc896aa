package db

import (
	"context"
	"database/sql"

	"temple-portal/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// GetUserByID → fetch one user joined with its gotram (if any)
func (d *DB) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Relation("Gotram").
		Where("\"user\".id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListGotrams → the full lineage option list, ordered by name
func (d *DB) ListGotrams() ([]models.Gotram, error) {
	var gotrams []models.Gotram
	err := d.Bun.NewSelect().
		Model(&gotrams).
		Order("gotranamalu ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if gotrams == nil {
		gotrams = []models.Gotram{}
	}
	return gotrams, nil
}

// SaveProfile writes the lineage insert and the user row in one transaction,
// so a failed identity update never leaves an orphaned gotram behind.
func (d *DB) SaveProfile(user models.User, newGotram *models.Gotram) error {
	return d.Bun.RunInTx(context.Background(), &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if newGotram != nil {
			if _, err := tx.NewInsert().Model(newGotram).Exec(ctx); err != nil {
				return err
			}
			user.GotramID = newGotram.ID
		}

		_, err := tx.NewInsert().
			Model(&user).
			On("CONFLICT (id) DO UPDATE").
			Set("username = EXCLUDED.username").
			Set("first_name = EXCLUDED.first_name").
			Set("last_name = EXCLUDED.last_name").
			Set("email = EXCLUDED.email").
			Set("phone_number = EXCLUDED.phone_number").
			Set("gotram_id = EXCLUDED.gotram_id").
			Set("updated_at = EXCLUDED.updated_at").
			Set("updated_by = EXCLUDED.updated_by").
			Exec(ctx)
		return err
	})
}
