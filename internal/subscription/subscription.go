package subscription

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// Subscription binds a user to a plan and tracks dataset consumption
// against the limit cached from the plan at activation time.
// At most one row per user is active at any moment.
type Subscription struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        string     `json:"userId" db:"user_id"`
	PlanID        uuid.UUID  `json:"planId" db:"plan_id"`
	Status        string     `json:"status" db:"status"`
	DatasetsUsed  int        `json:"datasetsUsed" db:"datasets_used"`
	DatasetsLimit int        `json:"datasetsLimit" db:"datasets_limit"`
	ExpiresAt     *time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

type CreateSubscriptionRequest struct {
	PlanID string `json:"planId"`
	UserID string `json:"userId"`
}
