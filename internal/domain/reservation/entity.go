package reservation

import (
	"errors"
	"time"

	"tourtable/internal/domain/availability"

	"github.com/google/uuid"
)

var ErrTransitionNotAllowed = errors.New("status transition not allowed")

// Reservation is a customer's booking of one time slot. It references the
// slot by its stable id; the window copy is denormalized for display and
// survives partner edits without re-matching by value.
type Reservation struct {
	id             uuid.UUID
	restaurantID   uuid.UUID
	slotID         uuid.UUID
	day            time.Time
	window         availability.Window
	guest          Guest
	partySize      PartySize
	instructions   *string
	subscribePromo bool
	status         Status
	createdAt      time.Time
	updatedAt      time.Time
}

// NewReservation creates a pending booking. Only the booking transaction
// calls this; every reservation starts its life as pending.
func NewReservation(
	restaurantID, slotID uuid.UUID,
	day time.Time,
	window availability.Window,
	guest Guest,
	partySize PartySize,
	instructions *string,
	subscribePromo bool,
) *Reservation {
	return &Reservation{
		id:             uuid.New(),
		restaurantID:   restaurantID,
		slotID:         slotID,
		day:            availability.NormalizeDay(day),
		window:         window,
		guest:          guest,
		partySize:      partySize,
		instructions:   instructions,
		subscribePromo: subscribePromo,
		status:         StatusPending,
	}
}

func ReconstructReservation(
	id, restaurantID, slotID uuid.UUID,
	day time.Time,
	window availability.Window,
	guest Guest,
	partySize PartySize,
	instructions *string,
	subscribePromo bool,
	status Status,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:             id,
		restaurantID:   restaurantID,
		slotID:         slotID,
		day:            availability.NormalizeDay(day),
		window:         window,
		guest:          guest,
		partySize:      partySize,
		instructions:   instructions,
		subscribePromo: subscribePromo,
		status:         status,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// TransitionTo applies the partner state machine.
func (r *Reservation) TransitionTo(next Status) error {
	if !r.status.CanTransitionTo(next) {
		return ErrTransitionNotAllowed
	}
	r.status = next
	return nil
}

// OccupiesSlot reports whether this reservation currently holds capacity on
// its slot; deleting such a reservation must release the seat.
func (r *Reservation) OccupiesSlot() bool {
	return r.status.OccupiesSlot()
}

func (r *Reservation) ID() uuid.UUID               { return r.id }
func (r *Reservation) RestaurantID() uuid.UUID     { return r.restaurantID }
func (r *Reservation) SlotID() uuid.UUID           { return r.slotID }
func (r *Reservation) Day() time.Time              { return r.day }
func (r *Reservation) Window() availability.Window { return r.window }
func (r *Reservation) Guest() Guest                { return r.guest }
func (r *Reservation) PartySize() PartySize        { return r.partySize }
func (r *Reservation) Instructions() *string       { return r.instructions }
func (r *Reservation) SubscribePromo() bool        { return r.subscribePromo }
func (r *Reservation) Status() Status              { return r.status }
func (r *Reservation) CreatedAt() time.Time        { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time        { return r.updatedAt }
