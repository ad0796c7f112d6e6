package plan

import (
	"time"

	"github.com/google/uuid"
)

// Plan is an immutable catalog entry. Rows are seeded at startup and only
// ever read afterwards.
type Plan struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Price         float64   `json:"price" db:"price"`
	DatasetsLimit int       `json:"datasetsLimit" db:"datasets_limit"`
	IsUnlimited   bool      `json:"isUnlimited" db:"is_unlimited"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
