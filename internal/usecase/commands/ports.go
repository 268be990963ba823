package commands

import (
	"context"
	"time"

	"tourtable/internal/domain/availability"
	"tourtable/internal/domain/reservation"
	"tourtable/internal/domain/restaurant"
	"tourtable/internal/infra/db"
	"tourtable/internal/usecase/queries"

	"github.com/google/uuid"
)

// ScheduleRepository is the write side of the availability store. Counter
// mutations (Claim/Release) are single conditional UPDATEs at the storage
// layer, never read-modify-write sequences.
type ScheduleRepository interface {
	FindDay(ctx context.Context, dbtx db.DBTX, restaurantID uuid.UUID, day time.Time) (*availability.DaySchedule, error)
	FindDayBySlotID(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID) (*availability.DaySchedule, error)
	CreateDay(ctx context.Context, dbtx db.DBTX, sched *availability.DaySchedule) error
	ReplaceDaySlots(ctx context.Context, dbtx db.DBTX, dayID uuid.UUID, slots []*availability.TimeSlot) error
	InsertSlot(ctx context.Context, dbtx db.DBTX, dayID uuid.UUID, slot *availability.TimeSlot) error
	UpdateSlot(ctx context.Context, dbtx db.DBTX, slot *availability.TimeSlot) error
	DeleteSlot(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID) error

	// ClaimSlot atomically increments the booking counter iff it is below
	// capacity, recomputing the derived availability flag in the same
	// statement. Returns false when the slot was already full.
	ClaimSlot(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID) (bool, error)
	// ReleaseSlot decrements the counter, bounded at zero, and recomputes
	// the availability flag.
	ReleaseSlot(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID) error
}

type ReservationRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) error
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*reservation.Reservation, error)
	UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status reservation.Status) error
	Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
	// CountActiveBySlot counts pending/confirmed reservations referencing a
	// slot; slot edits are refused while this is non-zero.
	CountActiveBySlot(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID) (int, error)
}

type RestaurantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*queries.RestaurantView, error)
	FindByOwnerUserID(ctx context.Context, ownerUserID uuid.UUID) (*queries.RestaurantView, error)
}

// restaurantFromView lifts the read model into the domain entity; ownership
// and bookability checks go through the entity, not raw view fields.
func restaurantFromView(view *queries.RestaurantView) *restaurant.Restaurant {
	return restaurant.Reconstruct(view.ID, view.OwnerUserID, view.Name, view.Approved)
}

// NotificationRepository is the transactional outbox: jobs are written with
// the business change and delivered asynchronously, so a mail failure can
// never fail or roll back a booking.
type NotificationRepository interface {
	CreateJob(ctx context.Context, dbtx db.DBTX, topic, recipient string, payload []byte, runAt time.Time) error
}
