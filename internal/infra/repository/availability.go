package repository

import (
	"context"
	"time"

	"tourtable/internal/domain/availability"
	"tourtable/internal/infra"
	"tourtable/internal/infra/db"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// ScheduleRepository persists day schedules and their slots. Counter
// mutations are single conditional UPDATEs so concurrent bookings serialize
// on the row instead of racing a read-then-write.
type ScheduleRepository struct{}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{}
}

func (r *ScheduleRepository) FindDay(ctx context.Context, dbtx db.DBTX, restaurantID uuid.UUID, day time.Time) (*availability.DaySchedule, error) {
	query, args, err := qb.Select("id").
		From("availability_days").
		Where("restaurant_id = ?", restaurantID).
		Where("day = ?", availability.NormalizeDay(day)).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build day query", err)
	}

	var dayID uuid.UUID
	if err := dbtx.QueryRow(ctx, query, args...).Scan(&dayID); err != nil {
		return nil, wrapPgErr("failed to find availability day", err)
	}

	slots, err := r.loadSlots(ctx, dbtx, dayID)
	if err != nil {
		return nil, err
	}
	return availability.ReconstructDaySchedule(dayID, restaurantID, day, slots), nil
}

func (r *ScheduleRepository) FindDayBySlotID(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID) (*availability.DaySchedule, error) {
	query, args, err := qb.Select("d.id", "d.restaurant_id", "d.day").
		From("time_slots s").
		Join("availability_days d ON d.id = s.day_id").
		Where("s.id = ?", slotID).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build day-by-slot query", err)
	}

	var (
		dayID        uuid.UUID
		restaurantID uuid.UUID
		day          time.Time
	)
	if err := dbtx.QueryRow(ctx, query, args...).Scan(&dayID, &restaurantID, &day); err != nil {
		return nil, wrapPgErr("failed to find day by slot", err)
	}

	slots, err := r.loadSlots(ctx, dbtx, dayID)
	if err != nil {
		return nil, err
	}
	return availability.ReconstructDaySchedule(dayID, restaurantID, day, slots), nil
}

func (r *ScheduleRepository) CreateDay(ctx context.Context, dbtx db.DBTX, sched *availability.DaySchedule) error {
	query, args, err := qb.Insert("availability_days").
		Columns("id", "restaurant_id", "day").
		Values(sched.ID(), sched.RestaurantID(), sched.Day()).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build day insert", err)
	}
	if _, err := dbtx.Exec(ctx, query, args...); err != nil {
		return wrapPgErr("failed to create availability day", err)
	}

	for _, slot := range sched.Slots() {
		if err := r.InsertSlot(ctx, dbtx, sched.ID(), slot); err != nil {
			return err
		}
	}
	return nil
}

func (r *ScheduleRepository) ReplaceDaySlots(ctx context.Context, dbtx db.DBTX, dayID uuid.UUID, slots []*availability.TimeSlot) error {
	query, args, err := qb.Delete("time_slots").Where("day_id = ?", dayID).ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build slot delete", err)
	}
	if _, err := dbtx.Exec(ctx, query, args...); err != nil {
		return wrapPgErr("failed to clear day slots", err)
	}

	for _, slot := range slots {
		if err := r.InsertSlot(ctx, dbtx, dayID, slot); err != nil {
			return err
		}
	}
	return nil
}

func (r *ScheduleRepository) InsertSlot(ctx context.Context, dbtx db.DBTX, dayID uuid.UUID, slot *availability.TimeSlot) error {
	query, args, err := qb.Insert("time_slots").
		Columns("id", "day_id", "start_time", "end_time", "max_capacity", "current_bookings", "is_available", "price_cents", "description").
		Values(
			slot.ID(),
			dayID,
			slot.Window().Start().String(),
			slot.Window().End().String(),
			slot.MaxCapacity(),
			slot.CurrentBookings(),
			slot.IsAvailable(),
			slot.PriceCents(),
			slot.Description(),
		).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build slot insert", err)
	}
	if _, err := dbtx.Exec(ctx, query, args...); err != nil {
		return wrapPgErr("failed to insert time slot", err)
	}
	return nil
}

func (r *ScheduleRepository) UpdateSlot(ctx context.Context, dbtx db.DBTX, slot *availability.TimeSlot) error {
	query, args, err := qb.Update("time_slots").
		Set("start_time", slot.Window().Start().String()).
		Set("end_time", slot.Window().End().String()).
		Set("max_capacity", slot.MaxCapacity()).
		Set("current_bookings", slot.CurrentBookings()).
		Set("is_available", slot.IsAvailable()).
		Set("price_cents", slot.PriceCents()).
		Set("description", slot.Description()).
		Set("updated_at", sq.Expr("now()")).
		Where("id = ?", slot.ID()).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build slot update", err)
	}

	tag, err := dbtx.Exec(ctx, query, args...)
	if err != nil {
		return wrapPgErr("failed to update time slot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("time slot not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ScheduleRepository) DeleteSlot(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID) error {
	query, args, err := qb.Delete("time_slots").Where("id = ?", slotID).ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build slot delete", err)
	}

	tag, err := dbtx.Exec(ctx, query, args...)
	if err != nil {
		return wrapPgErr("failed to delete time slot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("time slot not found", nil, infra.KindNotFound)
	}
	return nil
}

// ClaimSlot is the booking race fix. The increment and the capacity check are
// one statement: a second transaction claiming the last seat blocks on the
// row lock and then matches zero rows.
func (r *ScheduleRepository) ClaimSlot(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID) (bool, error) {
	const query = `
		UPDATE time_slots
		SET current_bookings = current_bookings + 1,
		    is_available = current_bookings + 1 < max_capacity,
		    updated_at = now()
		WHERE id = $1 AND current_bookings < max_capacity`

	tag, err := dbtx.Exec(ctx, query, slotID)
	if err != nil {
		return false, wrapPgErr("failed to claim time slot", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ReleaseSlot frees one seat, bounded at zero, and recomputes the derived
// availability flag in the same statement.
func (r *ScheduleRepository) ReleaseSlot(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID) error {
	const query = `
		UPDATE time_slots
		SET current_bookings = GREATEST(current_bookings - 1, 0),
		    is_available = GREATEST(current_bookings - 1, 0) < max_capacity,
		    updated_at = now()
		WHERE id = $1`

	tag, err := dbtx.Exec(ctx, query, slotID)
	if err != nil {
		return wrapPgErr("failed to release time slot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("time slot not found", nil, infra.KindNotFound)
	}
	return nil
}

// LockDaySlots takes row locks on every slot of the day. A reconciliation
// pass must hold these before counting reservations: a concurrent claim on
// any of the slots either committed before the lock was granted, and is
// visible to the count, or blocks until the reconciled counters commit.
// Ordered by id so two concurrent lockers cannot deadlock.
func (r *ScheduleRepository) LockDaySlots(ctx context.Context, dbtx db.DBTX, dayID uuid.UUID) error {
	const query = `SELECT id FROM time_slots WHERE day_id = $1 ORDER BY id FOR UPDATE`

	rows, err := dbtx.Query(ctx, query, dayID)
	if err != nil {
		return wrapPgErr("failed to lock day slots", err)
	}
	defer rows.Close()
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return wrapPgErr("failed to lock day slots", err)
	}
	return nil
}

// SaveSlotCounters rewrites the occupancy counters and the derived
// availability flag after a reconciliation pass.
func (r *ScheduleRepository) SaveSlotCounters(ctx context.Context, dbtx db.DBTX, slots []*availability.TimeSlot) error {
	for _, slot := range slots {
		query, args, err := qb.Update("time_slots").
			Set("current_bookings", slot.CurrentBookings()).
			Set("is_available", slot.IsAvailable()).
			Set("updated_at", sq.Expr("now()")).
			Where("id = ?", slot.ID()).
			ToSql()
		if err != nil {
			return infra.WrapRepoErr("failed to build counter update", err)
		}
		if _, err := dbtx.Exec(ctx, query, args...); err != nil {
			return wrapPgErr("failed to save slot counters", err)
		}
	}
	return nil
}

func (r *ScheduleRepository) loadSlots(ctx context.Context, dbtx db.DBTX, dayID uuid.UUID) ([]*availability.TimeSlot, error) {
	query, args, err := qb.Select("id", "start_time", "end_time", "max_capacity", "current_bookings", "price_cents", "description").
		From("time_slots").
		Where("day_id = ?", dayID).
		OrderBy("start_time").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build slot query", err)
	}

	rows, err := dbtx.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapPgErr("failed to load time slots", err)
	}
	defer rows.Close()

	var slots []*availability.TimeSlot
	for rows.Next() {
		var (
			id              uuid.UUID
			startTime       string
			endTime         string
			maxCapacity     int
			currentBookings int
			priceCents      *int32
			description     *string
		)
		if err := rows.Scan(&id, &startTime, &endTime, &maxCapacity, &currentBookings, &priceCents, &description); err != nil {
			return nil, wrapPgErr("failed to scan time slot", err)
		}

		window, err := availability.NewWindowFromStrings(startTime, endTime)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid slot window in storage", err)
		}
		slot, err := availability.ReconstructTimeSlot(id, window, maxCapacity, currentBookings, priceCents, description)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid slot state in storage", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr("failed to iterate time slots", err)
	}
	return slots, nil
}
