package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Gotram is a shared lineage record (ancestral line identifiers) that users
// may reference from their profile.
type Gotram struct {
	bun.BaseModel `bun:"table:gotrams"`

	ID          string    `json:"id" bun:"id,pk"`
	Gotranamalu string    `json:"gotranamalu" bun:"gotranamalu,notnull"`
	Nakshtram   string    `json:"nakshtram" bun:"nakshtram,notnull"`
	Rasi        string    `json:"rasi" bun:"rasi,notnull"`
	CreatedAt   time.Time `json:"created_at" bun:"created_at,notnull"`
	UpdatedAt   time.Time `json:"updated_at" bun:"updated_at,notnull"`
}
