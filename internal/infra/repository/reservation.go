package repository

import (
	"context"
	"time"

	"tourtable/internal/domain/availability"
	"tourtable/internal/domain/reservation"
	"tourtable/internal/infra"
	"tourtable/internal/infra/db"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

func (r *ReservationRepository) Create(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) error {
	query, args, err := qb.Insert("reservations").
		Columns(
			"id", "restaurant_id", "slot_id", "day", "start_time", "end_time",
			"guest_name", "guest_email", "guest_contact",
			"party_size", "instructions", "subscribe_promo", "status",
		).
		Values(
			res.ID(),
			res.RestaurantID(),
			res.SlotID(),
			res.Day(),
			res.Window().Start().String(),
			res.Window().End().String(),
			res.Guest().Name(),
			res.Guest().Email(),
			res.Guest().Contact(),
			res.PartySize().Value(),
			res.Instructions(),
			res.SubscribePromo(),
			res.Status().String(),
		).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build reservation insert", err)
	}
	if _, err := dbtx.Exec(ctx, query, args...); err != nil {
		return wrapPgErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	query, args, err := qb.Select(
		"id", "restaurant_id", "slot_id", "day", "start_time", "end_time",
		"guest_name", "guest_email", "guest_contact",
		"party_size", "instructions", "subscribe_promo", "status",
		"created_at", "updated_at",
	).
		From("reservations").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build reservation query", err)
	}

	var (
		resID          uuid.UUID
		restaurantID   uuid.UUID
		slotID         uuid.UUID
		day            time.Time
		startTime      string
		endTime        string
		guestName      string
		guestEmail     string
		guestContact   string
		partySize      int
		instructions   *string
		subscribePromo bool
		status         string
		createdAt      time.Time
		updatedAt      time.Time
	)
	if err := dbtx.QueryRow(ctx, query, args...).Scan(
		&resID, &restaurantID, &slotID, &day, &startTime, &endTime,
		&guestName, &guestEmail, &guestContact,
		&partySize, &instructions, &subscribePromo, &status,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, wrapPgErr("failed to find reservation", err)
	}

	window, err := availability.NewWindowFromStrings(startTime, endTime)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid reservation window in storage", err)
	}
	guest, err := reservation.NewGuest(guestName, guestEmail, guestContact)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid guest in storage", err)
	}
	size, err := reservation.NewPartySize(partySize)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid party size in storage", err)
	}

	return reservation.ReconstructReservation(
		resID, restaurantID, slotID,
		day, window, guest, size,
		instructions, subscribePromo,
		reservation.Status(status),
		createdAt, updatedAt,
	), nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status reservation.Status) error {
	query, args, err := qb.Update("reservations").
		Set("status", status.String()).
		Set("updated_at", sq.Expr("now()")).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build status update", err)
	}

	tag, err := dbtx.Exec(ctx, query, args...)
	if err != nil {
		return wrapPgErr("failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	query, args, err := qb.Delete("reservations").Where("id = ?", id).ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build reservation delete", err)
	}

	tag, err := dbtx.Exec(ctx, query, args...)
	if err != nil {
		return wrapPgErr("failed to delete reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

// CountActiveBySlot counts reservations a partner could still have to honor;
// schedule edits are refused while any exist.
func (r *ReservationRepository) CountActiveBySlot(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID) (int, error) {
	query, args, err := qb.Select("count(*)").
		From("reservations").
		Where("slot_id = ?", slotID).
		Where(sq.Eq{"status": []string{
			reservation.StatusPending.String(),
			reservation.StatusConfirmed.String(),
		}}).
		ToSql()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build active count query", err)
	}

	var count int
	if err := dbtx.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, wrapPgErr("failed to count active reservations", err)
	}
	return count, nil
}

// CountOccupyingBySlot returns, per slot, how many reservations currently
// hold capacity on one restaurant day. This is the authoritative source the
// resolver reconciles the stored counters against.
func (r *ReservationRepository) CountOccupyingBySlot(ctx context.Context, dbtx db.DBTX, restaurantID uuid.UUID, day time.Time) (map[uuid.UUID]int, error) {
	query, args, err := qb.Select("slot_id", "count(*)").
		From("reservations").
		Where("restaurant_id = ?", restaurantID).
		Where("day = ?", availability.NormalizeDay(day)).
		Where(sq.Eq{"status": []string{
			reservation.StatusPending.String(),
			reservation.StatusConfirmed.String(),
			reservation.StatusCompleted.String(),
		}}).
		GroupBy("slot_id").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build occupancy query", err)
	}

	rows, err := dbtx.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapPgErr("failed to count slot occupancy", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			slotID uuid.UUID
			count  int
		)
		if err := rows.Scan(&slotID, &count); err != nil {
			return nil, wrapPgErr("failed to scan slot occupancy", err)
		}
		counts[slotID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr("failed to iterate slot occupancy", err)
	}
	return counts, nil
}
