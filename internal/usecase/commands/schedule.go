package commands

import (
	"context"
	"errors"
	"time"

	"tourtable/internal/domain/availability"
	"tourtable/internal/domain/restaurant"
	"tourtable/internal/infra"
	"tourtable/internal/pkg/errs"
	"tourtable/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SlotInput struct {
	StartTime   string
	EndTime     string
	MaxCapacity int
	PriceCents  *int32
	Description *string
}

type ReplaceDayParams struct {
	Date  time.Time
	Slots []SlotInput
}

type AddCustomSlotParams struct {
	Date time.Time
	Slot SlotInput
}

type UpdateSlotParams struct {
	StartTime   string
	EndTime     string
	MaxCapacity int
	PriceCents  *int32
	Description *string
}

type ScheduleCommands interface {
	// ReplaceDay sets the full slot list for one of the partner's days,
	// creating the day if it does not exist yet. Refused while any slot of
	// that day has active reservations.
	ReplaceDay(ctx context.Context, actorUserID uuid.UUID, params ReplaceDayParams) (*queries.DayAvailabilityView, error)
	// AddCustomSlot appends a single slot to a day, creating the day from
	// the default template first when needed.
	AddCustomSlot(ctx context.Context, actorUserID uuid.UUID, params AddCustomSlotParams) (*queries.DayAvailabilityView, error)
	// SetSlotBlocked toggles a slot's bookability. Blocking zeroes its
	// capacity; unblocking restores the template capacity.
	SetSlotBlocked(ctx context.Context, actorUserID, slotID uuid.UUID, blocked bool) (*queries.DayAvailabilityView, error)
	// UpdateSlot rewrites a slot's window, capacity and pricing. Refused
	// while the slot has active reservations.
	UpdateSlot(ctx context.Context, actorUserID, slotID uuid.UUID, params UpdateSlotParams) (*queries.DayAvailabilityView, error)
	// DeleteSlot removes a slot. Refused while it has active reservations.
	DeleteSlot(ctx context.Context, actorUserID, slotID uuid.UUID) error
}

type scheduleCommandsImpl struct {
	schedules    ScheduleRepository
	reservations ReservationRepository
	restaurants  RestaurantRepository
	template     *availability.DayTemplate
	pool         *pgxpool.Pool
}

func NewScheduleCommands(
	schedules ScheduleRepository,
	reservations ReservationRepository,
	restaurants RestaurantRepository,
	template *availability.DayTemplate,
	pool *pgxpool.Pool,
) ScheduleCommands {
	return &scheduleCommandsImpl{
		schedules:    schedules,
		reservations: reservations,
		restaurants:  restaurants,
		template:     template,
		pool:         pool,
	}
}

func (s *scheduleCommandsImpl) ReplaceDay(ctx context.Context, actorUserID uuid.UUID, params ReplaceDayParams) (*queries.DayAvailabilityView, error) {
	rest, err := s.ownedRestaurant(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	slots, err := buildSlots(params.Slots)
	if err != nil {
		return nil, err
	}
	for i, slot := range slots {
		for _, other := range slots[:i] {
			if slot.Window().Equal(other.Window()) {
				return nil, errs.ErrDuplicateSlot
			}
		}
	}

	day := availability.NormalizeDay(params.Date)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	defer rollbackQuietly(ctx, tx)

	sched, err := s.schedules.FindDay(ctx, tx, rest.ID(), day)
	switch {
	case err == nil:
		for _, existing := range sched.Slots() {
			if err := s.requireNoActiveReservations(ctx, tx, existing.ID()); err != nil {
				return nil, err
			}
		}
		if err := s.schedules.ReplaceDaySlots(ctx, tx, sched.ID(), slots); err != nil {
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				// Finished or declined reservations still reference a slot.
				return nil, errs.ErrSlotHasReservations
			}
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		sched = availability.ReconstructDaySchedule(sched.ID(), rest.ID(), day, slots)
	case infra.IsKind(err, infra.KindNotFound):
		sched, err = availability.NewDaySchedule(rest.ID(), day, slots)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrInvalidSlot)
		}
		if err := s.schedules.CreateDay(ctx, tx, sched); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	default:
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return queries.DayViewFromSchedule(sched), nil
}

func (s *scheduleCommandsImpl) AddCustomSlot(ctx context.Context, actorUserID uuid.UUID, params AddCustomSlotParams) (*queries.DayAvailabilityView, error) {
	rest, err := s.ownedRestaurant(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	slot, err := buildSlot(params.Slot)
	if err != nil {
		return nil, err
	}

	day := availability.NormalizeDay(params.Date)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	defer rollbackQuietly(ctx, tx)

	sched, err := s.schedules.FindDay(ctx, tx, rest.ID(), day)
	switch {
	case err == nil:
		if err := sched.AddSlot(slot); err != nil {
			if errors.Is(err, availability.ErrDuplicateWindow) {
				return nil, errs.ErrDuplicateSlot
			}
			return nil, errs.Mark(err, errs.ErrInvalidSlot)
		}
		if err := s.schedules.InsertSlot(ctx, tx, sched.ID(), slot); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return nil, errs.ErrDuplicateSlot
			}
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	case infra.IsKind(err, infra.KindNotFound):
		// First write to this day: materialize the template so the custom
		// slot lands next to the default grid, matching what a read would
		// have created.
		sched, err = s.template.NewDay(rest.ID(), day)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := sched.AddSlot(slot); err != nil {
			if errors.Is(err, availability.ErrDuplicateWindow) {
				return nil, errs.ErrDuplicateSlot
			}
			return nil, errs.Mark(err, errs.ErrInvalidSlot)
		}
		if err := s.schedules.CreateDay(ctx, tx, sched); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	default:
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return queries.DayViewFromSchedule(sched), nil
}

func (s *scheduleCommandsImpl) SetSlotBlocked(ctx context.Context, actorUserID, slotID uuid.UUID, blocked bool) (*queries.DayAvailabilityView, error) {
	rest, err := s.ownedRestaurant(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	defer rollbackQuietly(ctx, tx)

	sched, err := s.ownedDayBySlot(ctx, tx, rest.ID(), slotID)
	if err != nil {
		return nil, err
	}
	slot := sched.FindSlotByID(slotID)
	if slot == nil {
		return nil, errs.ErrSlotNotFound
	}

	if blocked {
		slot.Block()
	} else {
		if err := slot.Unblock(s.template.Capacity()); err != nil {
			return nil, errs.Mark(err, errs.ErrInvalidSlot)
		}
	}

	if err := s.schedules.UpdateSlot(ctx, tx, slot); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return queries.DayViewFromSchedule(sched), nil
}

func (s *scheduleCommandsImpl) UpdateSlot(ctx context.Context, actorUserID, slotID uuid.UUID, params UpdateSlotParams) (*queries.DayAvailabilityView, error) {
	rest, err := s.ownedRestaurant(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	window, err := availability.NewWindowFromStrings(params.StartTime, params.EndTime)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidSlot)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	defer rollbackQuietly(ctx, tx)

	sched, err := s.ownedDayBySlot(ctx, tx, rest.ID(), slotID)
	if err != nil {
		return nil, err
	}
	if err := s.requireNoActiveReservations(ctx, tx, slotID); err != nil {
		return nil, err
	}
	if other := sched.FindSlotByWindow(window); other != nil && other.ID() != slotID {
		return nil, errs.ErrDuplicateSlot
	}

	current := sched.FindSlotByID(slotID)
	if current == nil {
		return nil, errs.ErrSlotNotFound
	}
	updated, err := availability.ReconstructTimeSlot(
		slotID,
		window,
		params.MaxCapacity,
		current.CurrentBookings(),
		params.PriceCents,
		params.Description,
	)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidSlot)
	}

	if err := s.schedules.UpdateSlot(ctx, tx, updated); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	slots := make([]*availability.TimeSlot, 0, len(sched.Slots()))
	for _, slot := range sched.Slots() {
		if slot.ID() == slotID {
			slot = updated
		}
		slots = append(slots, slot)
	}
	sched = availability.ReconstructDaySchedule(sched.ID(), sched.RestaurantID(), sched.Day(), slots)
	return queries.DayViewFromSchedule(sched), nil
}

func (s *scheduleCommandsImpl) DeleteSlot(ctx context.Context, actorUserID, slotID uuid.UUID) error {
	rest, err := s.ownedRestaurant(ctx, actorUserID)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	defer rollbackQuietly(ctx, tx)

	if _, err := s.ownedDayBySlot(ctx, tx, rest.ID(), slotID); err != nil {
		return err
	}
	if err := s.requireNoActiveReservations(ctx, tx, slotID); err != nil {
		return err
	}

	if err := s.schedules.DeleteSlot(ctx, tx, slotID); err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return errs.ErrSlotNotFound
		case infra.IsKind(err, infra.KindForeignKeyViolated):
			// Finished or declined reservations still reference the slot.
			return errs.ErrSlotHasReservations
		default:
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

// ownedRestaurant resolves the partner's restaurant; schedule writes always
// target the caller's own restaurant.
func (s *scheduleCommandsImpl) ownedRestaurant(ctx context.Context, actorUserID uuid.UUID) (*restaurant.Restaurant, error) {
	view, err := s.restaurants.FindByOwnerUserID(ctx, actorUserID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrRestaurantNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return restaurantFromView(view), nil
}

// ownedDayBySlot loads the day the slot belongs to and checks it is part of
// the caller's restaurant.
func (s *scheduleCommandsImpl) ownedDayBySlot(ctx context.Context, tx pgx.Tx, restaurantID, slotID uuid.UUID) (*availability.DaySchedule, error) {
	sched, err := s.schedules.FindDayBySlotID(ctx, tx, slotID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrSlotNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if sched.RestaurantID() != restaurantID {
		return nil, errs.ErrForbidden
	}
	return sched, nil
}

func (s *scheduleCommandsImpl) requireNoActiveReservations(ctx context.Context, tx pgx.Tx, slotID uuid.UUID) error {
	count, err := s.reservations.CountActiveBySlot(ctx, tx, slotID)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if count > 0 {
		return errs.ErrSlotHasReservations
	}
	return nil
}

func buildSlots(inputs []SlotInput) ([]*availability.TimeSlot, error) {
	slots := make([]*availability.TimeSlot, 0, len(inputs))
	for _, input := range inputs {
		slot, err := buildSlot(input)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func buildSlot(input SlotInput) (*availability.TimeSlot, error) {
	window, err := availability.NewWindowFromStrings(input.StartTime, input.EndTime)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidSlot)
	}
	slot, err := availability.NewTimeSlot(window, input.MaxCapacity, input.PriceCents, input.Description)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidSlot)
	}
	return slot, nil
}
