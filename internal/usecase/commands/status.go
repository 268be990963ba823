package commands

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tourtable/internal/domain/reservation"
	"tourtable/internal/domain/restaurant"
	"tourtable/internal/infra"
	"tourtable/internal/pkg/clock"
	"tourtable/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationCommands interface {
	// UpdateStatus moves a pending reservation to confirmed or declined.
	// Declining releases the slot capacity the booking claimed.
	UpdateStatus(ctx context.Context, actorUserID, reservationID uuid.UUID, next reservation.Status) error
	// Delete removes a reservation outright; if it still occupied its slot
	// the seat is released in the same transaction.
	Delete(ctx context.Context, actorUserID, reservationID uuid.UUID) error
}

type reservationCommandsImpl struct {
	schedules     ScheduleRepository
	reservations  ReservationRepository
	restaurants   RestaurantRepository
	notifications NotificationRepository
	pool          *pgxpool.Pool
	clock         clock.Clock
}

func NewReservationCommands(
	schedules ScheduleRepository,
	reservations ReservationRepository,
	restaurants RestaurantRepository,
	notifications NotificationRepository,
	pool *pgxpool.Pool,
	clock clock.Clock,
) ReservationCommands {
	return &reservationCommandsImpl{
		schedules:     schedules,
		reservations:  reservations,
		restaurants:   restaurants,
		notifications: notifications,
		pool:          pool,
		clock:         clock,
	}
}

func (r *reservationCommandsImpl) UpdateStatus(ctx context.Context, actorUserID, reservationID uuid.UUID, next reservation.Status) error {
	if !next.IsValid() {
		return errs.ErrInvalidTransition
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	defer rollbackQuietly(ctx, tx)

	res, rest, err := r.loadOwnedReservation(ctx, tx, actorUserID, reservationID)
	if err != nil {
		return err
	}

	if err := res.TransitionTo(next); err != nil {
		if errors.Is(err, reservation.ErrTransitionNotAllowed) {
			return errs.ErrInvalidTransition
		}
		return errs.Mark(err, errs.ErrDomainValidation)
	}

	if err := r.reservations.UpdateStatus(ctx, tx, res.ID(), next); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	// A decline gives the seat back; the pending booking claimed it when it
	// was created.
	if next == reservation.StatusDeclined {
		if err := r.schedules.ReleaseSlot(ctx, tx, res.SlotID()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}

	topic := topicReservationConfirmed
	if next == reservation.StatusDeclined {
		topic = topicReservationDeclined
	}
	if err := r.queueStatusNotification(ctx, tx, topic, res, rest); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (r *reservationCommandsImpl) Delete(ctx context.Context, actorUserID, reservationID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	defer rollbackQuietly(ctx, tx)

	res, rest, err := r.loadOwnedReservation(ctx, tx, actorUserID, reservationID)
	if err != nil {
		return err
	}

	if err := r.reservations.Delete(ctx, tx, res.ID()); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	// Pending and confirmed reservations still hold their seat; removing
	// them must free it or the slot stays blocked forever.
	if res.OccupiesSlot() {
		if err := r.schedules.ReleaseSlot(ctx, tx, res.SlotID()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}

	if err := r.queueStatusNotification(ctx, tx, topicReservationDeleted, res, rest); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

// loadOwnedReservation fetches the reservation and checks that the acting
// partner owns the restaurant it belongs to.
func (r *reservationCommandsImpl) loadOwnedReservation(
	ctx context.Context,
	tx pgx.Tx,
	actorUserID, reservationID uuid.UUID,
) (*reservation.Reservation, *restaurant.Restaurant, error) {
	res, err := r.reservations.FindByID(ctx, tx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.ErrReservationNotFound
		}
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	view, err := r.restaurants.FindByID(ctx, res.RestaurantID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.ErrRestaurantNotFound
		}
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	rest := restaurantFromView(view)
	if !rest.IsOwnedBy(actorUserID) {
		return nil, nil, errs.ErrForbidden
	}
	return res, rest, nil
}

func (r *reservationCommandsImpl) queueStatusNotification(
	ctx context.Context,
	tx pgx.Tx,
	topic string,
	res *reservation.Reservation,
	rest *restaurant.Restaurant,
) error {
	payload, err := json.Marshal(map[string]any{
		"reservation_id": res.ID(),
		"restaurant":     rest.Name(),
		"date":           res.Day().Format(time.DateOnly),
		"start_time":     res.Window().Start().String(),
		"end_time":       res.Window().End().String(),
		"guest_name":     res.Guest().Name(),
		"status":         res.Status().String(),
	})
	if err != nil {
		return err
	}
	return r.notifications.CreateJob(ctx, tx, topic, res.Guest().Email(), payload, r.clock.Now())
}
