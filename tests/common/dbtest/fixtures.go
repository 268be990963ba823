//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestPassword is the plaintext behind TestPasswordHash.
const TestPassword = "password123"

// bcrypt(TestPassword), cost 12. Hashing once keeps fixture setup fast.
const TestPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, pool *pgxpool.Pool, email, role string, approved bool) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()
	_, err := pool.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, role, approved, is_active) VALUES ($1, $2, $3, $4, $5, true)",
		userID, email, TestPasswordHash, role, approved)
	require.NoError(t, err)
	return userID
}

func CreateTestRestaurant(t *testing.T, pool *pgxpool.Pool, ownerUserID uuid.UUID, name string, approved bool) uuid.UUID {
	t.Helper()

	restaurantID := uuid.New()
	ctx := context.Background()
	_, err := pool.Exec(ctx,
		"INSERT INTO restaurants (id, owner_user_id, name, approved) VALUES ($1, $2, $3, $4)",
		restaurantID, ownerUserID, name, approved)
	require.NoError(t, err)
	return restaurantID
}

// Day returns a date a few days out so schedule fixtures never collide with
// the current day.
func Day(offset int) time.Time {
	return time.Now().UTC().AddDate(0, 0, offset).Truncate(24 * time.Hour)
}

// ResetDB truncates all mutable tables between subtests.
func ResetDB(pool *pgxpool.Pool) error {
	ctx := context.Background()
	_, err := pool.Exec(ctx,
		"TRUNCATE notification_jobs, reservations, time_slots, availability_days, restaurants, users CASCADE")
	return err
}
