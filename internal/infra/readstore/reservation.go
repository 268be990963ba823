package readstore

import (
	"context"

	"tourtable/internal/infra"
	"tourtable/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationReadStore struct {
	pool *pgxpool.Pool
}

func NewReservationReadStore(pool *pgxpool.Pool) *ReservationReadStore {
	return &ReservationReadStore{pool: pool}
}

const reservationColumns = `res.id, res.restaurant_id, r.name, res.slot_id, res.day,
	res.start_time, res.end_time, res.guest_name, res.guest_email, res.guest_contact,
	res.party_size, res.instructions, res.subscribe_promo, res.status,
	res.created_at, res.updated_at`

func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	query, args, err := qb.Select(reservationColumns).
		From("reservations res").
		Join("restaurants r ON r.id = res.restaurant_id").
		Where("res.id = ?", id).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build reservation query", err)
	}

	view, err := scanReservation(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapPgErr("failed to find reservation", err)
	}
	return view, nil
}

// FindByRestaurantID lists a restaurant's reservations, newest first.
func (s *ReservationReadStore) FindByRestaurantID(ctx context.Context, restaurantID uuid.UUID) ([]*queries.ReservationView, error) {
	query, args, err := qb.Select(reservationColumns).
		From("reservations res").
		Join("restaurants r ON r.id = res.restaurant_id").
		Where("res.restaurant_id = ?", restaurantID).
		OrderBy("res.created_at DESC").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build reservation list query", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapPgErr("failed to list reservations", err)
	}
	defer rows.Close()

	views := []*queries.ReservationView{}
	for rows.Next() {
		view, err := scanReservation(rows)
		if err != nil {
			return nil, wrapPgErr("failed to scan reservation", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr("failed to iterate reservations", err)
	}
	return views, nil
}

func scanReservation(row pgx.Row) (*queries.ReservationView, error) {
	var view queries.ReservationView
	if err := row.Scan(
		&view.ID, &view.RestaurantID, &view.RestaurantName, &view.SlotID, &view.Date,
		&view.StartTime, &view.EndTime, &view.GuestName, &view.GuestEmail, &view.GuestContact,
		&view.PartySize, &view.Instructions, &view.SubscribePromo, &view.Status,
		&view.CreatedAt, &view.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &view, nil
}
