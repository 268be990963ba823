package readstore

import (
	"context"
	"time"

	"tourtable/internal/domain/user"
	"tourtable/internal/infra"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserStore loads and persists the user aggregate. It lives with the read
// stores because auth never runs inside a transaction.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) Create(ctx context.Context, u *user.User) error {
	query, args, err := qb.Insert("users").
		Columns("id", "email", "password_hash", "role", "approved", "is_active").
		Values(
			u.ID(),
			u.Email().Value(),
			u.PasswordHash(),
			u.Role().String(),
			u.Approved(),
			u.IsActive(),
		).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build user insert", err)
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return wrapPgErr("failed to create user", err)
	}
	return nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.findOne(ctx, sq.Eq{"email": email})
}

func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.findOne(ctx, sq.Eq{"id": id})
}

func (s *UserStore) findOne(ctx context.Context, pred sq.Eq) (*user.User, error) {
	query, args, err := qb.Select(
		"id", "email", "password_hash", "role", "approved", "is_active",
		"last_login", "created_at", "updated_at",
	).
		From("users").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build user query", err)
	}

	var (
		id           uuid.UUID
		email        string
		passwordHash string
		role         string
		approved     bool
		isActive     bool
		lastLogin    *time.Time
		createdAt    time.Time
		updatedAt    time.Time
	)
	if err := s.pool.QueryRow(ctx, query, args...).Scan(
		&id, &email, &passwordHash, &role, &approved, &isActive,
		&lastLogin, &createdAt, &updatedAt,
	); err != nil {
		return nil, wrapPgErr("failed to find user", err)
	}

	return user.Reconstruct(
		id, email, passwordHash, role,
		approved, isActive,
		lastLogin, createdAt, updatedAt,
	), nil
}

func (s *UserStore) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	query, args, err := qb.Update("users").
		Set("last_login", sq.Expr("now()")).
		Set("updated_at", sq.Expr("now()")).
		Where("id = ?", userID).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build last login update", err)
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return wrapPgErr("failed to update last login", err)
	}
	return nil
}
