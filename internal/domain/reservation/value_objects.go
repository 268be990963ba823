package reservation

import (
	"errors"
	"strings"
)

var (
	ErrEmptyGuestName       = errors.New("guest name cannot be empty")
	ErrEmptyGuestContact    = errors.New("guest contact cannot be empty")
	ErrInvalidGuestEmail    = errors.New("invalid guest email")
	ErrNonPositivePartySize = errors.New("number of guests must be positive")
)

const MaxPartySize = 50

// Guest identifies the customer on a booking. Reservations are taken from
// anonymous visitors, so this is captured per booking rather than referencing
// a user account.
type Guest struct {
	name    string
	email   string
	contact string
}

func NewGuest(name, email, contact string) (Guest, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	contact = strings.TrimSpace(contact)

	if name == "" {
		return Guest{}, ErrEmptyGuestName
	}
	if email == "" || !strings.Contains(email, "@") {
		return Guest{}, ErrInvalidGuestEmail
	}
	if contact == "" {
		return Guest{}, ErrEmptyGuestContact
	}

	return Guest{name: name, email: email, contact: contact}, nil
}

func (g Guest) Name() string    { return g.name }
func (g Guest) Email() string   { return g.email }
func (g Guest) Contact() string { return g.contact }

type PartySize struct {
	value int
}

func NewPartySize(n int) (PartySize, error) {
	if n <= 0 || n > MaxPartySize {
		return PartySize{}, ErrNonPositivePartySize
	}
	return PartySize{value: n}, nil
}

func (p PartySize) Value() int {
	return p.value
}
