package restaurant

import (
	"github.com/google/uuid"
)

// Restaurant is the partner profile as the booking core sees it. Identity
// management owns the rows; this side only reads them.
type Restaurant struct {
	id          uuid.UUID
	ownerUserID uuid.UUID
	name        string
	approved    bool
}

// Reconstruct hydrates a restaurant from a stored row.
func Reconstruct(id, ownerUserID uuid.UUID, name string, approved bool) *Restaurant {
	return &Restaurant{
		id:          id,
		ownerUserID: ownerUserID,
		name:        name,
		approved:    approved,
	}
}

// IsBookable reports whether customers may reserve here. Unapproved partner
// restaurants are invisible to the booking flow.
func (r *Restaurant) IsBookable() bool {
	return r.approved
}

func (r *Restaurant) IsOwnedBy(userID uuid.UUID) bool {
	return r.ownerUserID == userID
}

func (r *Restaurant) ID() uuid.UUID          { return r.id }
func (r *Restaurant) OwnerUserID() uuid.UUID { return r.ownerUserID }
func (r *Restaurant) Name() string           { return r.name }
func (r *Restaurant) Approved() bool         { return r.approved }
