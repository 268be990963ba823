package request

import (
	"strings"

	"tourtable/internal/usecase/commands"

	"github.com/google/uuid"
)

type ReservationSlotRequest struct {
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

type CreateReservationRequest struct {
	Name                  string                 `json:"name" binding:"required"`
	Email                 string                 `json:"email" binding:"required,email"`
	Contact               string                 `json:"contact" binding:"required"`
	Restaurant            uuid.UUID              `json:"restaurant" binding:"required"`
	Date                  string                 `json:"date" binding:"required"`
	TimeSlot              ReservationSlotRequest `json:"timeSlot" binding:"required"`
	GuestCount            int                    `json:"guestCount" binding:"required,min=1"`
	Instructions          *string                `json:"instructions,omitempty"`
	SubscribeToPromotions bool                   `json:"subscribeToPromotions"`
}

func (r CreateReservationRequest) ToParams() (commands.CreateReservationParams, error) {
	day, err := ParseDate(r.Date)
	if err != nil {
		return commands.CreateReservationParams{}, err
	}

	var instructions *string
	if r.Instructions != nil {
		trimmed := strings.TrimSpace(*r.Instructions)
		if trimmed != "" {
			instructions = &trimmed
		}
	}

	return commands.CreateReservationParams{
		RestaurantID:   r.Restaurant,
		Date:           day,
		StartTime:      r.TimeSlot.StartTime,
		EndTime:        r.TimeSlot.EndTime,
		GuestName:      strings.TrimSpace(r.Name),
		GuestEmail:     strings.TrimSpace(r.Email),
		GuestContact:   strings.TrimSpace(r.Contact),
		PartySize:      r.GuestCount,
		Instructions:   instructions,
		SubscribePromo: r.SubscribeToPromotions,
	}, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
