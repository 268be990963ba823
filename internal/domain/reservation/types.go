package reservation

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDeclined, StatusCompleted:
		return true
	default:
		return false
	}
}

// OccupiesSlot reports whether a reservation in this status holds slot
// capacity. Pending bookings claim their seat at creation time; declined
// ones have released it.
func (s Status) OccupiesSlot() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo is the partner-facing state machine: only pending
// reservations move, and only to confirmed or declined. Completed is a
// terminal label with no endpoint path.
func (s Status) CanTransitionTo(next Status) bool {
	if s != StatusPending {
		return false
	}
	return next == StatusConfirmed || next == StatusDeclined
}
