package queries

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tourtable/internal/domain/availability"
	"tourtable/internal/infra"
	"tourtable/internal/infra/db"
	"tourtable/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScheduleStore is the persistence surface the resolver needs: day lookup,
// lazy creation and counter rewrites, all transaction-aware.
type ScheduleStore interface {
	FindDay(ctx context.Context, dbtx db.DBTX, restaurantID uuid.UUID, day time.Time) (*availability.DaySchedule, error)
	CreateDay(ctx context.Context, dbtx db.DBTX, sched *availability.DaySchedule) error
	LockDaySlots(ctx context.Context, dbtx db.DBTX, dayID uuid.UUID) error
	SaveSlotCounters(ctx context.Context, dbtx db.DBTX, slots []*availability.TimeSlot) error
}

// OccupancyStore counts capacity-consuming reservations per slot for one
// restaurant day.
type OccupancyStore interface {
	CountOccupyingBySlot(ctx context.Context, dbtx db.DBTX, restaurantID uuid.UUID, day time.Time) (map[uuid.UUID]int, error)
}

type RestaurantReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RestaurantView, error)
	FindByOwnerUserID(ctx context.Context, ownerUserID uuid.UUID) (*RestaurantView, error)
}

type AvailabilityQueries interface {
	// ResolveDay returns the day's slots with occupancy reconciled against
	// the reservations that actually hold capacity. The day is created from
	// the default template on first access and the recomputed counters are
	// persisted, so resolving is idempotent absent intervening writes.
	ResolveDay(ctx context.Context, restaurantID uuid.UUID, day time.Time) (*DayAvailabilityView, error)
}

type availabilityQueriesImpl struct {
	schedules   ScheduleStore
	occupancy   OccupancyStore
	restaurants RestaurantReadStore
	template    *availability.DayTemplate
	pool        *pgxpool.Pool
}

func NewAvailabilityQueries(
	schedules ScheduleStore,
	occupancy OccupancyStore,
	restaurants RestaurantReadStore,
	template *availability.DayTemplate,
	pool *pgxpool.Pool,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		schedules:   schedules,
		occupancy:   occupancy,
		restaurants: restaurants,
		template:    template,
		pool:        pool,
	}
}

func (q *availabilityQueriesImpl) ResolveDay(ctx context.Context, restaurantID uuid.UUID, day time.Time) (*DayAvailabilityView, error) {
	if _, err := q.restaurants.FindByID(ctx, restaurantID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrRestaurantNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	day = availability.NormalizeDay(day)

	tx, err := q.pool.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	sched, err := q.schedules.FindDay(ctx, tx, restaurantID, day)
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		sched, err = q.template.NewDay(restaurantID, day)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := q.schedules.CreateDay(ctx, tx, sched); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	} else {
		// Lock the slot rows before counting. Without the locks a claim
		// committing between the count and the save would have its increment
		// overwritten with the stale count, reopening a full slot.
		if err := q.schedules.LockDaySlots(ctx, tx, sched.ID()); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}

	counts, err := q.occupancy.CountOccupyingBySlot(ctx, tx, restaurantID, day)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	sched.ApplyOccupancy(counts)

	if err := q.schedules.SaveSlotCounters(ctx, tx, sched.Slots()); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return DayViewFromSchedule(sched), nil
}

// DayViewFromSchedule maps the domain schedule to its read model; slots come
// out sorted by start time.
func DayViewFromSchedule(sched *availability.DaySchedule) *DayAvailabilityView {
	slots := make([]SlotView, 0, len(sched.Slots()))
	for _, slot := range sched.Slots() {
		slots = append(slots, SlotViewFromDomain(slot))
	}
	return &DayAvailabilityView{
		RestaurantID: sched.RestaurantID(),
		Date:         sched.Day(),
		TimeSlots:    slots,
	}
}

func SlotViewFromDomain(slot *availability.TimeSlot) SlotView {
	return SlotView{
		ID:              slot.ID(),
		StartTime:       slot.Window().Start().String(),
		EndTime:         slot.Window().End().String(),
		MaxCapacity:     slot.MaxCapacity(),
		CurrentBookings: slot.CurrentBookings(),
		IsAvailable:     slot.IsAvailable(),
		PriceCents:      slot.PriceCents(),
		Description:     slot.Description(),
	}
}
