//go:build unit

package restaurant_test

import (
	"testing"

	"tourtable/internal/domain/restaurant"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRestaurant_IsOwnedBy(t *testing.T) {
	ownerID := uuid.New()
	rest := restaurant.Reconstruct(uuid.New(), ownerID, "Bistro H", true)

	assert.True(t, rest.IsOwnedBy(ownerID))
	assert.False(t, rest.IsOwnedBy(uuid.New()))
}

func TestRestaurant_IsBookable(t *testing.T) {
	tests := []struct {
		name     string
		approved bool
		want     bool
	}{
		{name: "approved restaurant accepts bookings", approved: true, want: true},
		{name: "unapproved restaurant does not", approved: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest := restaurant.Reconstruct(uuid.New(), uuid.New(), "Bistro H", tt.approved)
			assert.Equal(t, tt.want, rest.IsBookable())
		})
	}
}
