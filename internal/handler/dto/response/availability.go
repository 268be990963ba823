package response

import (
	"time"

	"tourtable/internal/usecase/queries"

	"github.com/google/uuid"
)

// DayAvailabilityResponse is the legacy wire shape: the resolved date plus
// its slot list, sorted by start time.
type DayAvailabilityResponse struct {
	RestaurantID uuid.UUID          `json:"restaurantId"`
	Date         string             `json:"date"`
	TimeSlots    []queries.SlotView `json:"timeSlots"`
}

func FromDayView(view *queries.DayAvailabilityView) *DayAvailabilityResponse {
	return &DayAvailabilityResponse{
		RestaurantID: view.RestaurantID,
		Date:         view.Date.Format(time.DateOnly),
		TimeSlots:    view.TimeSlots,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}
