//go:build unit

package availability_test

import (
	"testing"
	"time"

	"tourtable/internal/domain/availability"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, start, end string) availability.Window {
	t.Helper()
	w, err := availability.NewWindowFromStrings(start, end)
	require.NoError(t, err)
	return w
}

func mustSlot(t *testing.T, start, end string, capacity int) *availability.TimeSlot {
	t.Helper()
	slot, err := availability.NewTimeSlot(mustWindow(t, start, end), capacity, nil, nil)
	require.NoError(t, err)
	return slot
}

func TestTimeSlot(t *testing.T) {
	t.Run("availability is derived from counters after every mutation", func(t *testing.T) {
		slot := mustSlot(t, "09:00", "10:00", 1)
		assert.True(t, slot.IsAvailable())
		assert.Equal(t, 0, slot.CurrentBookings())

		require.True(t, slot.Occupy())
		assert.False(t, slot.IsAvailable())
		assert.Equal(t, 1, slot.CurrentBookings())

		// Full slot refuses a second claim.
		assert.False(t, slot.Occupy())
		assert.Equal(t, 1, slot.CurrentBookings())

		slot.Release()
		assert.True(t, slot.IsAvailable())
		assert.Equal(t, 0, slot.CurrentBookings())

		// Release is bounded at zero.
		slot.Release()
		assert.Equal(t, 0, slot.CurrentBookings())
	})

	t.Run("over-capacity counts read as unavailable without error", func(t *testing.T) {
		slot := mustSlot(t, "09:00", "10:00", 1)
		slot.SetBookings(3)

		assert.False(t, slot.IsAvailable())
		assert.Equal(t, 3, slot.CurrentBookings())
	})

	t.Run("negative count clamps to zero", func(t *testing.T) {
		slot := mustSlot(t, "09:00", "10:00", 1)
		slot.SetBookings(-2)

		assert.Equal(t, 0, slot.CurrentBookings())
		assert.True(t, slot.IsAvailable())
	})

	t.Run("block and unblock move capacity, not a flag", func(t *testing.T) {
		slot := mustSlot(t, "09:00", "10:00", 1)

		slot.Block()
		assert.False(t, slot.IsAvailable())
		assert.Equal(t, 0, slot.MaxCapacity())

		require.NoError(t, slot.Unblock(1))
		assert.True(t, slot.IsAvailable())

		assert.ErrorIs(t, slot.Unblock(0), availability.ErrNonPositiveCapacity)
	})

	t.Run("rejects non-positive capacity and negative price", func(t *testing.T) {
		_, err := availability.NewTimeSlot(mustWindow(t, "09:00", "10:00"), 0, nil, nil)
		assert.ErrorIs(t, err, availability.ErrNonPositiveCapacity)

		price := int32(-100)
		_, err = availability.NewTimeSlot(mustWindow(t, "09:00", "10:00"), 1, &price, nil)
		assert.ErrorIs(t, err, availability.ErrNegativePrice)
	})
}

func TestDaySchedule(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("slots stay sorted by start time", func(t *testing.T) {
		sched, err := availability.NewDaySchedule(uuid.New(), day, []*availability.TimeSlot{
			mustSlot(t, "14:00", "15:00", 1),
			mustSlot(t, "09:00", "10:00", 1),
			mustSlot(t, "11:00", "12:00", 1),
		})
		require.NoError(t, err)

		starts := make([]string, 0, len(sched.Slots()))
		for _, slot := range sched.Slots() {
			starts = append(starts, slot.Window().Start().String())
		}
		assert.Equal(t, []string{"09:00", "11:00", "14:00"}, starts)
	})

	t.Run("duplicate windows are rejected", func(t *testing.T) {
		sched, err := availability.NewDaySchedule(uuid.New(), day, []*availability.TimeSlot{
			mustSlot(t, "09:00", "10:00", 1),
		})
		require.NoError(t, err)

		err = sched.AddSlot(mustSlot(t, "09:00", "10:00", 1))
		assert.ErrorIs(t, err, availability.ErrDuplicateWindow)
	})

	t.Run("day is normalized to midnight", func(t *testing.T) {
		noonish := time.Date(2025, 6, 1, 13, 45, 12, 999, time.UTC)
		sched, err := availability.NewDaySchedule(uuid.New(), noonish, nil)
		require.NoError(t, err)

		assert.Equal(t, day, sched.Day())
	})

	t.Run("apply occupancy resets slots absent from the counts", func(t *testing.T) {
		booked := mustSlot(t, "09:00", "10:00", 1)
		free := mustSlot(t, "10:00", "11:00", 1)
		free.SetBookings(1) // stale counter to be repaired

		sched, err := availability.NewDaySchedule(uuid.New(), day, []*availability.TimeSlot{booked, free})
		require.NoError(t, err)

		sched.ApplyOccupancy(map[uuid.UUID]int{booked.ID(): 1})

		assert.Equal(t, 1, booked.CurrentBookings())
		assert.False(t, booked.IsAvailable())
		assert.Equal(t, 0, free.CurrentBookings())
		assert.True(t, free.IsAvailable())
	})

	t.Run("find by id and by window", func(t *testing.T) {
		slot := mustSlot(t, "09:00", "10:00", 1)
		sched, err := availability.NewDaySchedule(uuid.New(), day, []*availability.TimeSlot{slot})
		require.NoError(t, err)

		assert.Equal(t, slot, sched.FindSlotByID(slot.ID()))
		assert.Equal(t, slot, sched.FindSlotByWindow(mustWindow(t, "09:00", "10:00")))
		assert.Nil(t, sched.FindSlotByID(uuid.New()))
		assert.Nil(t, sched.FindSlotByWindow(mustWindow(t, "12:00", "13:00")))
	})
}
