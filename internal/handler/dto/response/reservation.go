package response

import (
	"time"

	"tourtable/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID                    uuid.UUID `json:"id"`
	RestaurantID          uuid.UUID `json:"restaurantId"`
	RestaurantName        string    `json:"restaurantName"`
	Date                  string    `json:"date"`
	StartTime             string    `json:"startTime"`
	EndTime               string    `json:"endTime"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	Contact               string    `json:"contact"`
	NumberOfGuests        int       `json:"numberOfGuests"`
	Instructions          *string   `json:"instructions,omitempty"`
	SubscribeToPromotions bool      `json:"subscribeToPromotions"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"createdAt"`
}

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:                    view.ID,
		RestaurantID:          view.RestaurantID,
		RestaurantName:        view.RestaurantName,
		Date:                  view.Date.Format(time.DateOnly),
		StartTime:             view.StartTime,
		EndTime:               view.EndTime,
		Name:                  view.GuestName,
		Email:                 view.GuestEmail,
		Contact:               view.GuestContact,
		NumberOfGuests:        view.PartySize,
		Instructions:          view.Instructions,
		SubscribeToPromotions: view.SubscribePromo,
		Status:                view.Status,
		CreatedAt:             view.CreatedAt,
	}
}
