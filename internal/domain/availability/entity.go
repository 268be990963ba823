package availability

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNonPositiveCapacity = errors.New("slot capacity must be positive")
	ErrNegativePrice       = errors.New("slot price cannot be negative")
	ErrNegativeBookings    = errors.New("booking count cannot be negative")
	ErrDuplicateWindow     = errors.New("duplicate slot window within day")
)

// TimeSlot is one bookable interval of a day schedule. Availability is a
// function of the counters, never independent state: every mutation goes
// through Occupy/Release/SetBookings so IsAvailable stays consistent.
type TimeSlot struct {
	id              uuid.UUID
	window          Window
	maxCapacity     int
	currentBookings int
	priceCents      *int32
	description     *string
}

func NewTimeSlot(window Window, maxCapacity int, priceCents *int32, description *string) (*TimeSlot, error) {
	if maxCapacity <= 0 {
		return nil, ErrNonPositiveCapacity
	}
	if priceCents != nil && *priceCents < 0 {
		return nil, ErrNegativePrice
	}

	return &TimeSlot{
		id:          uuid.New(),
		window:      window,
		maxCapacity: maxCapacity,
		priceCents:  priceCents,
		description: description,
	}, nil
}

func ReconstructTimeSlot(
	id uuid.UUID,
	window Window,
	maxCapacity, currentBookings int,
	priceCents *int32,
	description *string,
) (*TimeSlot, error) {
	if currentBookings < 0 {
		return nil, ErrNegativeBookings
	}

	return &TimeSlot{
		id:              id,
		window:          window,
		maxCapacity:     maxCapacity,
		currentBookings: currentBookings,
		priceCents:      priceCents,
		description:     description,
	}, nil
}

// IsAvailable is derived: a slot is bookable while its occupancy is below
// capacity. Counts beyond capacity (legacy data races) simply read as
// unavailable.
func (s *TimeSlot) IsAvailable() bool {
	return s.currentBookings < s.maxCapacity
}

// Occupy claims one seat. It reports false when the slot is already full; the
// storage layer enforces the same condition atomically, this is the in-memory
// mirror of it.
func (s *TimeSlot) Occupy() bool {
	if !s.IsAvailable() {
		return false
	}
	s.currentBookings++
	return true
}

// Release frees one seat, bounded at zero.
func (s *TimeSlot) Release() {
	if s.currentBookings > 0 {
		s.currentBookings--
	}
}

// SetBookings overwrites the occupancy counter from an authoritative
// reservation count. Never errors on counts above capacity.
func (s *TimeSlot) SetBookings(count int) {
	if count < 0 {
		count = 0
	}
	s.currentBookings = count
}

// Block makes the slot unbookable by removing its capacity; the derived
// availability follows. Unblock restores the given capacity.
func (s *TimeSlot) Block() {
	s.maxCapacity = 0
}

func (s *TimeSlot) Unblock(capacity int) error {
	if capacity <= 0 {
		return ErrNonPositiveCapacity
	}
	s.maxCapacity = capacity
	return nil
}

func (s *TimeSlot) ID() uuid.UUID        { return s.id }
func (s *TimeSlot) Window() Window       { return s.window }
func (s *TimeSlot) MaxCapacity() int     { return s.maxCapacity }
func (s *TimeSlot) CurrentBookings() int { return s.currentBookings }
func (s *TimeSlot) PriceCents() *int32   { return s.priceCents }
func (s *TimeSlot) Description() *string { return s.description }

// DaySchedule is the per-restaurant-per-day collection of slots. Slots are
// unique by window and kept sorted by start time.
type DaySchedule struct {
	id           uuid.UUID
	restaurantID uuid.UUID
	day          time.Time
	slots        []*TimeSlot
}

func NewDaySchedule(restaurantID uuid.UUID, day time.Time, slots []*TimeSlot) (*DaySchedule, error) {
	sched := &DaySchedule{
		id:           uuid.New(),
		restaurantID: restaurantID,
		day:          NormalizeDay(day),
	}
	for _, slot := range slots {
		if err := sched.AddSlot(slot); err != nil {
			return nil, err
		}
	}
	return sched, nil
}

func ReconstructDaySchedule(id, restaurantID uuid.UUID, day time.Time, slots []*TimeSlot) *DaySchedule {
	sched := &DaySchedule{
		id:           id,
		restaurantID: restaurantID,
		day:          NormalizeDay(day),
		slots:        slots,
	}
	sched.sortSlots()
	return sched
}

// NormalizeDay truncates a timestamp to its calendar day. Matching by whole
// day is equivalent to a [startOfDay, endOfDay] range and immune to
// millisecond drift between writer and reader.
func NormalizeDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (d *DaySchedule) AddSlot(slot *TimeSlot) error {
	for _, existing := range d.slots {
		if existing.Window().Equal(slot.Window()) {
			return ErrDuplicateWindow
		}
	}
	d.slots = append(d.slots, slot)
	d.sortSlots()
	return nil
}

func (d *DaySchedule) FindSlotByID(slotID uuid.UUID) *TimeSlot {
	for _, slot := range d.slots {
		if slot.ID() == slotID {
			return slot
		}
	}
	return nil
}

func (d *DaySchedule) FindSlotByWindow(window Window) *TimeSlot {
	for _, slot := range d.slots {
		if slot.Window().Equal(window) {
			return slot
		}
	}
	return nil
}

// ApplyOccupancy overwrites every slot's booking counter from an
// authoritative count per slot id. Slots absent from the map reset to zero.
func (d *DaySchedule) ApplyOccupancy(counts map[uuid.UUID]int) {
	for _, slot := range d.slots {
		slot.SetBookings(counts[slot.ID()])
	}
}

func (d *DaySchedule) sortSlots() {
	sort.Slice(d.slots, func(i, j int) bool {
		return d.slots[i].Window().Start().Before(d.slots[j].Window().Start())
	})
}

func (d *DaySchedule) ID() uuid.UUID           { return d.id }
func (d *DaySchedule) RestaurantID() uuid.UUID { return d.restaurantID }
func (d *DaySchedule) Day() time.Time          { return d.day }
func (d *DaySchedule) Slots() []*TimeSlot      { return d.slots }
