package services

import (
	"context"
	"errors"
	"fmt"

	"datalensAPI/internal/subscription"
	"datalensAPI/internal/usage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsageService struct {
	db *pgxpool.Pool
}

func NewUsageService(db *pgxpool.Pool) *UsageService {
	return &UsageService{db: db}
}

// Consume spends one dataset unit. The quota check and the increment are a
// single conditional UPDATE, so two concurrent calls can never both slip
// past the limit. The returned count is the persisted value, not a
// client-side guess.
func (s *UsageService) Consume(ctx context.Context, userID string) (*usage.ConsumeResponse, error) {
	var (
		used, limit int
		unlimited   bool
	)
	err := s.db.QueryRow(ctx, `
	UPDATE user_subscriptions us
	SET datasets_used = us.datasets_used + 1, updated_at = now()
	FROM plans p
	WHERE p.id = us.plan_id
		AND us.user_id = $1
		AND us.status = $2
		AND (p.is_unlimited OR us.datasets_used < us.datasets_limit)
	RETURNING us.datasets_used, us.datasets_limit, p.is_unlimited
	`, userID, subscription.StatusActive).Scan(&used, &limit, &unlimited)

	if errors.Is(err, pgx.ErrNoRows) {
		// Nothing matched: either there is no active subscription at all,
		// or the quota is exhausted. Tell them apart.
		var exists bool
		if err := s.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM user_subscriptions WHERE user_id = $1 AND status = $2)
		`, userID, subscription.StatusActive).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check subscription: %w", err)
		}
		if exists {
			return nil, ErrQuotaExceeded
		}
		return nil, ErrNoActiveSubscription
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume dataset unit: %w", err)
	}

	return &usage.ConsumeResponse{
		CanGenerate:   unlimited || used < limit,
		DatasetsUsed:  used,
		DatasetsLimit: limit,
		IsUnlimited:   unlimited,
	}, nil
}

// Status reports the current usage without mutating anything. A missing
// subscription is a normal answer here, not an error.
func (s *UsageService) Status(ctx context.Context, userID string) (*usage.StatusResponse, error) {
	var (
		used, limit int
		unlimited   bool
		planName    string
	)
	err := s.db.QueryRow(ctx, `
	SELECT us.datasets_used, us.datasets_limit, p.is_unlimited, p.name
	FROM user_subscriptions us
	JOIN plans p ON p.id = us.plan_id
	WHERE us.user_id = $1 AND us.status = $2
	ORDER BY us.created_at DESC
	LIMIT 1
	`, userID, subscription.StatusActive).Scan(&used, &limit, &unlimited, &planName)

	if errors.Is(err, pgx.ErrNoRows) {
		return &usage.StatusResponse{HasSubscription: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get usage status: %w", err)
	}

	return &usage.StatusResponse{
		HasSubscription: true,
		CanGenerate:     unlimited || used < limit,
		DatasetsUsed:    used,
		DatasetsLimit:   limit,
		IsUnlimited:     unlimited,
		PlanName:        planName,
	}, nil
}
