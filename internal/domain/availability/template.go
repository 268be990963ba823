package availability

import (
	"time"

	"github.com/google/uuid"
)

// DayTemplate is the configured default shape of an unconfigured day:
// fixed-step windows between an opening and a closing time, each with the
// same capacity. It replaces the hardcoded 12-slot constant the legacy
// system duplicated across two files.
type DayTemplate struct {
	windows  []Window
	capacity int
}

func NewDayTemplate(dayStart, dayEnd string, slotMinutes, capacity int) (*DayTemplate, error) {
	if slotMinutes <= 0 {
		return nil, ErrInvalidWindow
	}
	if capacity <= 0 {
		return nil, ErrNonPositiveCapacity
	}

	opening, err := NewClockTime(dayStart)
	if err != nil {
		return nil, err
	}
	closing, err := NewClockTime(dayEnd)
	if err != nil {
		return nil, err
	}
	if !opening.Before(closing) {
		return nil, ErrInvalidWindow
	}

	var windows []Window
	current := opening
	for current.Before(closing) {
		end, err := current.AddMinutes(slotMinutes)
		if err != nil || closing.Before(end) {
			break
		}
		window, err := NewWindow(current, end)
		if err != nil {
			return nil, err
		}
		windows = append(windows, window)
		current = end
	}

	return &DayTemplate{windows: windows, capacity: capacity}, nil
}

func (t *DayTemplate) Windows() []Window {
	return t.windows
}

func (t *DayTemplate) Capacity() int {
	return t.capacity
}

// NewDay builds a fresh, fully open schedule for the given day.
func (t *DayTemplate) NewDay(restaurantID uuid.UUID, day time.Time) (*DaySchedule, error) {
	slots := make([]*TimeSlot, 0, len(t.windows))
	for _, window := range t.windows {
		slot, err := NewTimeSlot(window, t.capacity, nil, nil)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return NewDaySchedule(restaurantID, day, slots)
}
