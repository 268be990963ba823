package request

import (
	"time"

	"tourtable/internal/pkg/errs"
	"tourtable/internal/usecase/commands"

	"github.com/google/uuid"
)

type TimeSlotRequest struct {
	StartTime   string  `json:"startTime" binding:"required"`
	EndTime     string  `json:"endTime" binding:"required"`
	MaxCapacity int     `json:"maxCapacity" binding:"required,min=1"`
	Price       *int32  `json:"price,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r TimeSlotRequest) toInput() commands.SlotInput {
	return commands.SlotInput{
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		MaxCapacity: r.MaxCapacity,
		PriceCents:  r.Price,
		Description: r.Description,
	}
}

type ReplaceDayRequest struct {
	Date      string            `json:"date" binding:"required"`
	TimeSlots []TimeSlotRequest `json:"timeSlots" binding:"required,dive"`
}

func (r ReplaceDayRequest) ToParams() (commands.ReplaceDayParams, error) {
	day, err := ParseDate(r.Date)
	if err != nil {
		return commands.ReplaceDayParams{}, err
	}
	slots := make([]commands.SlotInput, 0, len(r.TimeSlots))
	for _, slot := range r.TimeSlots {
		slots = append(slots, slot.toInput())
	}
	return commands.ReplaceDayParams{Date: day, Slots: slots}, nil
}

type AddCustomSlotRequest struct {
	// Accepted for legacy clients; the day is always resolved against the
	// caller's own restaurant.
	RestaurantID *uuid.UUID      `json:"restaurantId,omitempty"`
	Date         string          `json:"date" binding:"required"`
	TimeSlot     TimeSlotRequest `json:"timeSlot" binding:"required"`
}

func (r AddCustomSlotRequest) ToParams() (commands.AddCustomSlotParams, error) {
	day, err := ParseDate(r.Date)
	if err != nil {
		return commands.AddCustomSlotParams{}, err
	}
	return commands.AddCustomSlotParams{Date: day, Slot: r.TimeSlot.toInput()}, nil
}

type ToggleSlotRequest struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

type UpdateSlotRequest struct {
	TimeSlot TimeSlotRequest `json:"timeSlot" binding:"required"`
}

func (r UpdateSlotRequest) ToParams() commands.UpdateSlotParams {
	return commands.UpdateSlotParams{
		StartTime:   r.TimeSlot.StartTime,
		EndTime:     r.TimeSlot.EndTime,
		MaxCapacity: r.TimeSlot.MaxCapacity,
		PriceCents:  r.TimeSlot.Price,
		Description: r.TimeSlot.Description,
	}
}

// ParseDate reads the wire date format ("YYYY-MM-DD").
func ParseDate(value string) (time.Time, error) {
	day, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, errs.Mark(err, errs.ErrInvalidDate)
	}
	return day, nil
}
