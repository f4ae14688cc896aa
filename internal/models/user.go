package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID          string    `json:"id" bun:"id,pk"`
	Username    string    `json:"username,omitempty" bun:"username,nullzero"`
	FirstName   string    `json:"first_name" bun:"first_name,notnull"`
	LastName    string    `json:"last_name" bun:"last_name,notnull"`
	Email       string    `json:"email" bun:"email,unique,notnull"`
	PhoneNumber string    `json:"phone_number,omitempty" bun:"phone_number,nullzero"`
	GotramID    string    `json:"gotram_id,omitempty" bun:"gotram_id,nullzero"`
	CreatedAt   time.Time `json:"created_at" bun:"created_at,notnull"`
	UpdatedAt   time.Time `json:"updated_at" bun:"updated_at,notnull"`
	CreatedBy   string    `json:"created_by,omitempty" bun:"created_by,nullzero"`
	UpdatedBy   string    `json:"updated_by,omitempty" bun:"updated_by,nullzero"`

	Gotram *Gotram `json:"gotram,omitempty" bun:"rel:belongs-to,join:gotram_id=id"`
}
