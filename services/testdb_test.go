package services

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// setupTestDB connects to TEST_DATABASE_URL. Tests that need Postgres are
// skipped when it is not set so the pure unit tests still run everywhere.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

func cleanupUser(t *testing.T, pool *pgxpool.Pool, userID string) {
	t.Helper()
	t.Cleanup(func() {
		ctx := context.Background()
		if _, err := pool.Exec(ctx, "DELETE FROM payments WHERE user_id = $1", userID); err != nil {
			t.Logf("Warning: failed to cleanup payments: %v", err)
		}
		if _, err := pool.Exec(ctx, "DELETE FROM user_subscriptions WHERE user_id = $1", userID); err != nil {
			t.Logf("Warning: failed to cleanup subscriptions: %v", err)
		}
	})
}
