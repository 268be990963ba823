package readstore

import (
	"context"

	"tourtable/internal/infra"
	"tourtable/internal/usecase/queries"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// RestaurantReadStore serves restaurant views, with the owner's email joined
// in so notifications can reach the partner without a second lookup.
type RestaurantReadStore struct {
	pool *pgxpool.Pool
}

func NewRestaurantReadStore(pool *pgxpool.Pool) *RestaurantReadStore {
	return &RestaurantReadStore{pool: pool}
}

func (s *RestaurantReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.RestaurantView, error) {
	return s.findOne(ctx, sq.Eq{"r.id": id})
}

func (s *RestaurantReadStore) FindByOwnerUserID(ctx context.Context, ownerUserID uuid.UUID) (*queries.RestaurantView, error) {
	return s.findOne(ctx, sq.Eq{"r.owner_user_id": ownerUserID})
}

func (s *RestaurantReadStore) findOne(ctx context.Context, pred sq.Eq) (*queries.RestaurantView, error) {
	query, args, err := qb.Select("r.id", "r.owner_user_id", "u.email", "r.name", "r.approved").
		From("restaurants r").
		Join("users u ON u.id = r.owner_user_id").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build restaurant query", err)
	}

	var view queries.RestaurantView
	if err := s.pool.QueryRow(ctx, query, args...).Scan(
		&view.ID, &view.OwnerUserID, &view.OwnerEmail, &view.Name, &view.Approved,
	); err != nil {
		return nil, wrapPgErr("failed to find restaurant", err)
	}
	return &view, nil
}
