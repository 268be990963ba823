package availability

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidClockTime = errors.New("invalid wall-clock time (expected HH:MM, 24-hour)")
	ErrInvalidWindow    = errors.New("slot end time must be after start time")
)

// ClockTime is a zero-padded 24-hour wall-clock string ("HH:MM"). The format
// sorts lexicographically in chronological order, which the day schedule
// relies on.
type ClockTime struct {
	value string
}

func NewClockTime(s string) (ClockTime, error) {
	if len(s) != 5 || s[2] != ':' {
		return ClockTime{}, ErrInvalidClockTime
	}

	var hh, mm int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hh, &mm); err != nil {
		return ClockTime{}, ErrInvalidClockTime
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return ClockTime{}, ErrInvalidClockTime
	}

	return ClockTime{value: s}, nil
}

func ClockTimeFromMinutes(minutes int) (ClockTime, error) {
	if minutes < 0 || minutes >= 24*60 {
		return ClockTime{}, ErrInvalidClockTime
	}
	return ClockTime{value: fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)}, nil
}

func (t ClockTime) String() string {
	return t.value
}

func (t ClockTime) Minutes() int {
	var hh, mm int
	fmt.Sscanf(t.value, "%02d:%02d", &hh, &mm)
	return hh*60 + mm
}

func (t ClockTime) Before(other ClockTime) bool {
	return t.value < other.value
}

func (t ClockTime) AddMinutes(minutes int) (ClockTime, error) {
	return ClockTimeFromMinutes(t.Minutes() + minutes)
}

// Window is a half-open [start, end) bookable interval within one day.
type Window struct {
	start ClockTime
	end   ClockTime
}

func NewWindow(start, end ClockTime) (Window, error) {
	if !start.Before(end) {
		return Window{}, ErrInvalidWindow
	}
	return Window{start: start, end: end}, nil
}

func NewWindowFromStrings(start, end string) (Window, error) {
	s, err := NewClockTime(start)
	if err != nil {
		return Window{}, err
	}
	e, err := NewClockTime(end)
	if err != nil {
		return Window{}, err
	}
	return NewWindow(s, e)
}

func (w Window) Start() ClockTime { return w.start }
func (w Window) End() ClockTime   { return w.end }

func (w Window) Equal(other Window) bool {
	return w.start == other.start && w.end == other.end
}
