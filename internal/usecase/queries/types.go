package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type SlotView struct {
	ID              uuid.UUID `json:"id"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	MaxCapacity     int       `json:"maxCapacity"`
	CurrentBookings int       `json:"currentBookings"`
	IsAvailable     bool      `json:"isAvailable"`
	PriceCents      *int32    `json:"price,omitempty"`
	Description     *string   `json:"description,omitempty"`
}

type DayAvailabilityView struct {
	RestaurantID uuid.UUID  `json:"restaurantId"`
	Date         time.Time  `json:"date"`
	TimeSlots    []SlotView `json:"timeSlots"`
}

type ReservationView struct {
	ID             uuid.UUID `json:"id"`
	RestaurantID   uuid.UUID `json:"restaurantId"`
	RestaurantName string    `json:"restaurantName"`
	SlotID         uuid.UUID `json:"slotId"`
	Date           time.Time `json:"date"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	GuestName      string    `json:"guestName"`
	GuestEmail     string    `json:"guestEmail"`
	GuestContact   string    `json:"guestContact"`
	PartySize      int       `json:"numberOfGuests"`
	Instructions   *string   `json:"instructions,omitempty"`
	SubscribePromo bool      `json:"subscribeToPromotions"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type RestaurantView struct {
	ID          uuid.UUID `json:"id"`
	OwnerUserID uuid.UUID `json:"ownerUserId"`
	OwnerEmail  string    `json:"ownerEmail"`
	Name        string    `json:"name"`
	Approved    bool      `json:"approved"`
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Approved bool      `json:"approved"`
	IsActive bool      `json:"is_active"`
}
