package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsume_NoSubscription(t *testing.T) {
	pool := setupTestDB(t)
	svc := NewUsageService(pool)

	userID := fmt.Sprintf("user_test_%d", time.Now().UnixNano())

	_, err := svc.Consume(context.Background(), userID)
	assert.ErrorIs(t, err, ErrNoActiveSubscription)
}

func TestConsume_AtLimitThenExceeded(t *testing.T) {
	pool := setupTestDB(t)
	subs := NewSubscriptionService(pool)
	svc := NewUsageService(pool)
	ctx := context.Background()

	require.NoError(t, subs.EnsurePlanCatalog(ctx))

	userID := fmt.Sprintf("user_test_%d", time.Now().UnixNano())
	cleanupUser(t, pool, userID)

	starter, err := subs.ResolvePlan(ctx, "starter")
	require.NoError(t, err)
	require.Equal(t, 10, starter.DatasetsLimit)

	sub, err := subs.Activate(ctx, userID, starter)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, "UPDATE user_subscriptions SET datasets_used = 9 WHERE id = $1", sub.ID)
	require.NoError(t, err)

	// 9 -> 10 consumes the last unit.
	result, err := svc.Consume(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 10, result.DatasetsUsed)
	assert.Equal(t, 10, result.DatasetsLimit)
	assert.False(t, result.IsUnlimited)
	assert.False(t, result.CanGenerate)

	// The next call must fail and must not move the counter.
	_, err = svc.Consume(ctx, userID)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	var used int
	err = pool.QueryRow(ctx, "SELECT datasets_used FROM user_subscriptions WHERE id = $1", sub.ID).Scan(&used)
	require.NoError(t, err)
	assert.Equal(t, 10, used)
}

func TestConsume_UnlimitedNeverExhausts(t *testing.T) {
	pool := setupTestDB(t)
	subs := NewSubscriptionService(pool)
	svc := NewUsageService(pool)
	ctx := context.Background()

	require.NoError(t, subs.EnsurePlanCatalog(ctx))

	userID := fmt.Sprintf("user_test_%d", time.Now().UnixNano())
	cleanupUser(t, pool, userID)

	pro, err := subs.ResolvePlan(ctx, "pro")
	require.NoError(t, err)

	sub, err := subs.Activate(ctx, userID, pro)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, "UPDATE user_subscriptions SET datasets_used = 5000 WHERE id = $1", sub.ID)
	require.NoError(t, err)

	result, err := svc.Consume(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 5001, result.DatasetsUsed)
	assert.True(t, result.IsUnlimited)
	assert.True(t, result.CanGenerate)
}

func TestStatus_NoSubscription(t *testing.T) {
	pool := setupTestDB(t)
	svc := NewUsageService(pool)

	userID := fmt.Sprintf("user_test_%d", time.Now().UnixNano())

	status, err := svc.Status(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, status.HasSubscription)
	assert.False(t, status.CanGenerate)
}

func TestStatus_ActiveSubscription(t *testing.T) {
	pool := setupTestDB(t)
	subs := NewSubscriptionService(pool)
	svc := NewUsageService(pool)
	ctx := context.Background()

	require.NoError(t, subs.EnsurePlanCatalog(ctx))

	userID := fmt.Sprintf("user_test_%d", time.Now().UnixNano())
	cleanupUser(t, pool, userID)

	starter, err := subs.ResolvePlan(ctx, "starter")
	require.NoError(t, err)

	_, err = subs.Activate(ctx, userID, starter)
	require.NoError(t, err)

	status, err := svc.Status(ctx, userID)
	require.NoError(t, err)
	assert.True(t, status.HasSubscription)
	assert.True(t, status.CanGenerate)
	assert.Equal(t, 0, status.DatasetsUsed)
	assert.Equal(t, starter.DatasetsLimit, status.DatasetsLimit)
	assert.Equal(t, starter.Name, status.PlanName)
}
