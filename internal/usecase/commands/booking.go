package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"tourtable/internal/domain/availability"
	"tourtable/internal/domain/reservation"
	"tourtable/internal/infra"
	"tourtable/internal/pkg/clock"
	"tourtable/internal/pkg/errs"
	"tourtable/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	topicReservationRequested = "reservation_requested"
	topicReservationConfirmed = "reservation_confirmed"
	topicReservationDeclined  = "reservation_declined"
	topicReservationDeleted   = "reservation_deleted"
)

type CreateReservationParams struct {
	RestaurantID   uuid.UUID
	Date           time.Time
	StartTime      string
	EndTime        string
	GuestName      string
	GuestEmail     string
	GuestContact   string
	PartySize      int
	Instructions   *string
	SubscribePromo bool
}

type BookingCommands interface {
	// CreateReservation books a slot: it claims capacity with a single
	// conditional update, persists the pending reservation and queues the
	// notification jobs, all in one transaction.
	CreateReservation(ctx context.Context, params CreateReservationParams) (uuid.UUID, error)
}

type bookingCommandsImpl struct {
	schedules     ScheduleRepository
	reservations  ReservationRepository
	restaurants   RestaurantRepository
	notifications NotificationRepository
	pool          *pgxpool.Pool
	clock         clock.Clock
}

func NewBookingCommands(
	schedules ScheduleRepository,
	reservations ReservationRepository,
	restaurants RestaurantRepository,
	notifications NotificationRepository,
	pool *pgxpool.Pool,
	clock clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		schedules:     schedules,
		reservations:  reservations,
		restaurants:   restaurants,
		notifications: notifications,
		pool:          pool,
		clock:         clock,
	}
}

func (b *bookingCommandsImpl) CreateReservation(ctx context.Context, params CreateReservationParams) (uuid.UUID, error) {
	rest, err := b.restaurants.FindByID(ctx, params.RestaurantID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return uuid.Nil, errs.ErrRestaurantNotFound
		}
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	// Unapproved restaurants are invisible to customers.
	if !restaurantFromView(rest).IsBookable() {
		return uuid.Nil, errs.ErrRestaurantNotFound
	}

	window, err := availability.NewWindowFromStrings(params.StartTime, params.EndTime)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrInvalidSlot)
	}

	guest, err := reservation.NewGuest(params.GuestName, params.GuestEmail, params.GuestContact)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	partySize, err := reservation.NewPartySize(params.PartySize)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	defer rollbackQuietly(ctx, tx)

	sched, err := b.schedules.FindDay(ctx, tx, params.RestaurantID, params.Date)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return uuid.Nil, errs.ErrNoAvailabilitySet
		}
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	slot := sched.FindSlotByWindow(window)
	if slot == nil {
		return uuid.Nil, errs.ErrSlotNotFound
	}

	// The claim is the race fix: increment-if-below-capacity as one
	// statement. Two concurrent bookings cannot both pass.
	claimed, err := b.schedules.ClaimSlot(ctx, tx, slot.ID())
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !claimed {
		return uuid.Nil, errs.ErrSlotUnavailable
	}

	res := reservation.NewReservation(
		params.RestaurantID,
		slot.ID(),
		params.Date,
		window,
		guest,
		partySize,
		params.Instructions,
		params.SubscribePromo,
	)

	if err := b.reservations.Create(ctx, tx, res); err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := b.queueBookingNotifications(ctx, tx, res, rest); err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return res.ID(), nil
}

func (b *bookingCommandsImpl) queueBookingNotifications(
	ctx context.Context,
	tx pgx.Tx,
	res *reservation.Reservation,
	rest *queries.RestaurantView,
) error {
	payload, err := json.Marshal(map[string]any{
		"reservation_id": res.ID(),
		"restaurant":     rest.Name,
		"date":           res.Day().Format(time.DateOnly),
		"start_time":     res.Window().Start().String(),
		"end_time":       res.Window().End().String(),
		"guest_name":     res.Guest().Name(),
		"party_size":     res.PartySize().Value(),
	})
	if err != nil {
		return err
	}

	// Customer and partner both hear about the request.
	if err := b.notifications.CreateJob(ctx, tx, topicReservationRequested, res.Guest().Email(), payload, b.clock.Now()); err != nil {
		return err
	}
	if rest.OwnerEmail != "" {
		return b.notifications.CreateJob(ctx, tx, topicReservationRequested, rest.OwnerEmail, payload, b.clock.Now())
	}
	return nil
}

func rollbackQuietly(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Warn("failed to rollback transaction", "error", err)
	}
}
