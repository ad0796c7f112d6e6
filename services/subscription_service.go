package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"datalensAPI/internal/plan"
	"datalensAPI/internal/subscription"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// subscriptionPeriod is how long a paid plan stays active. Unlimited plans
// never expire.
const subscriptionPeriod = 30 * 24 * time.Hour

// planSlugs maps the slugs the frontend sends to the display names they may
// resolve to in the catalog. When several names match, the cheapest plan wins.
var planSlugs = map[string][]string{
	"single_report": {"Single Report", "Single Dataset Report"},
	"starter":       {"Starter", "Starter Pack"},
	"pro":           {"Pro", "Professional"},
}

type SubscriptionService struct {
	db *pgxpool.Pool
}

func NewSubscriptionService(db *pgxpool.Pool) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// EnsurePlanCatalog seeds the plan catalog. Existing rows are left alone so
// price changes made in the database survive restarts.
func (s *SubscriptionService) EnsurePlanCatalog(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
	INSERT INTO plans (id, name, price, datasets_limit, is_unlimited)
	VALUES
		(gen_random_uuid(), 'Single Report', 499.00, 1, false),
		(gen_random_uuid(), 'Starter', 1499.00, 10, false),
		(gen_random_uuid(), 'Pro', 3999.00, 0, true)
	ON CONFLICT (name) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to seed plan catalog: %w", err)
	}
	return nil
}

// ListPlans returns the whole catalog for the pricing page.
func (s *SubscriptionService) ListPlans(ctx context.Context) ([]*plan.Plan, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id, name, price, datasets_limit, is_unlimited, created_at
	FROM plans
	ORDER BY price
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*plan.Plan
	for rows.Next() {
		p := &plan.Plan{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.DatasetsLimit, &p.IsUnlimited, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// SlugNames returns the display names a plan slug may resolve to.
func SlugNames(slug string) ([]string, bool) {
	names, ok := planSlugs[slug]
	return names, ok
}

// ResolvePlan accepts either a plan UUID or a known slug. Slug resolution
// picks the lowest-priced plan among the mapped display names.
func (s *SubscriptionService) ResolvePlan(ctx context.Context, planID string) (*plan.Plan, error) {
	if id, err := uuid.Parse(planID); err == nil {
		return s.getPlanByID(ctx, id)
	}

	names, ok := SlugNames(planID)
	if !ok {
		return nil, ErrPlanNotFound
	}

	p := &plan.Plan{}
	err := s.db.QueryRow(ctx, `
	SELECT id, name, price, datasets_limit, is_unlimited, created_at
	FROM plans
	WHERE name = ANY($1)
	ORDER BY price
	LIMIT 1
	`, names).Scan(&p.ID, &p.Name, &p.Price, &p.DatasetsLimit, &p.IsUnlimited, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to resolve plan slug %q: %w", planID, err)
	}
	return p, nil
}

func (s *SubscriptionService) getPlanByID(ctx context.Context, id uuid.UUID) (*plan.Plan, error) {
	p := &plan.Plan{}
	err := s.db.QueryRow(ctx, `
	SELECT id, name, price, datasets_limit, is_unlimited, created_at
	FROM plans
	WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Price, &p.DatasetsLimit, &p.IsUnlimited, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return p, nil
}

// Activate binds the user to the plan, resetting usage to zero. An existing
// active row is updated in place; otherwise a fresh row is inserted. Any
// other active rows for the user are cancelled in the same transaction, so
// the one-active-row invariant holds no matter which path created them.
//
// Both the payment-verification flow and the manual subscription flow go
// through here. Historically the manual flow cancelled-and-inserted while
// the payment flow updated in place; this single upsert replaces both.
func (s *SubscriptionService) Activate(ctx context.Context, userID string, p *plan.Plan) (*subscription.Subscription, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin activation: %w", err)
	}
	defer tx.Rollback(ctx)

	var expiresAt *time.Time
	if !p.IsUnlimited {
		t := time.Now().Add(subscriptionPeriod)
		expiresAt = &t
	}

	sub := &subscription.Subscription{}
	err = tx.QueryRow(ctx, `
	UPDATE user_subscriptions
	SET plan_id = $2, status = $5, datasets_used = 0, datasets_limit = $3,
		expires_at = $4, updated_at = now()
	WHERE id = (
		SELECT id FROM user_subscriptions
		WHERE user_id = $1 AND status = $5
		ORDER BY created_at DESC
		LIMIT 1
	)
	RETURNING id, user_id, plan_id, status, datasets_used, datasets_limit, expires_at, created_at, updated_at
	`, userID, p.ID, p.DatasetsLimit, expiresAt, subscription.StatusActive).Scan(
		&sub.ID, &sub.UserID, &sub.PlanID, &sub.Status,
		&sub.DatasetsUsed, &sub.DatasetsLimit, &sub.ExpiresAt,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `
		INSERT INTO user_subscriptions (id, user_id, plan_id, status, datasets_used, datasets_limit, expires_at)
		VALUES ($1, $2, $3, $6, 0, $4, $5)
		RETURNING id, user_id, plan_id, status, datasets_used, datasets_limit, expires_at, created_at, updated_at
		`, uuid.New(), userID, p.ID, p.DatasetsLimit, expiresAt, subscription.StatusActive).Scan(
			&sub.ID, &sub.UserID, &sub.PlanID, &sub.Status,
			&sub.DatasetsUsed, &sub.DatasetsLimit, &sub.ExpiresAt,
			&sub.CreatedAt, &sub.UpdatedAt,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to activate subscription: %w", err)
	}

	// Stray duplicates can only exist from before the single-upsert strategy.
	if _, err := tx.Exec(ctx, `
	UPDATE user_subscriptions
	SET status = $3, updated_at = now()
	WHERE user_id = $1 AND status = $4 AND id <> $2
	`, userID, sub.ID, subscription.StatusCancelled, subscription.StatusActive); err != nil {
		return nil, fmt.Errorf("failed to cancel stale subscriptions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit activation: %w", err)
	}
	return sub, nil
}
