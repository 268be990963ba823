package errs

import "errors"

// Sentinel errors shared across usecase layers. Handlers match these with
// errors.Is to pick the HTTP status.
var (
	// Restaurant errors
	ErrRestaurantNotFound = errors.New("restaurant not found")

	// Availability errors
	ErrNoAvailabilitySet   = errors.New("no availability set for this date")
	ErrSlotNotFound        = errors.New("time slot not found")
	ErrSlotUnavailable     = errors.New("time slot is not available")
	ErrDuplicateSlot       = errors.New("duplicate time slot")
	ErrSlotHasReservations = errors.New("time slot has active reservations")
	ErrInvalidSlot         = errors.New("invalid time slot")
	ErrInvalidDate         = errors.New("invalid date")

	// Reservation errors
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidTransition   = errors.New("invalid status transition")

	// Access errors
	ErrForbidden          = errors.New("forbidden")
	ErrPartnerNotApproved = errors.New("partner account not approved")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
