package queries

import (
	"context"

	"tourtable/internal/infra"
	"tourtable/internal/pkg/errs"

	"github.com/google/uuid"
)

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByRestaurantID(ctx context.Context, restaurantID uuid.UUID) ([]*ReservationView, error)
}

type ReservationQueries interface {
	// GetForPartner returns one reservation of the acting partner's own
	// restaurant; reservations of other restaurants are forbidden.
	GetForPartner(ctx context.Context, partnerUserID, reservationID uuid.UUID) (*ReservationView, error)
	// ListForPartner resolves the acting partner's restaurant and returns its
	// reservations, newest first.
	ListForPartner(ctx context.Context, partnerUserID uuid.UUID) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	reservations ReservationReadStore
	restaurants  RestaurantReadStore
}

func NewReservationQueries(reservations ReservationReadStore, restaurants RestaurantReadStore) ReservationQueries {
	return &reservationQueriesImpl{
		reservations: reservations,
		restaurants:  restaurants,
	}
}

func (q *reservationQueriesImpl) GetForPartner(ctx context.Context, partnerUserID, reservationID uuid.UUID) (*ReservationView, error) {
	rest, err := q.restaurants.FindByOwnerUserID(ctx, partnerUserID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrRestaurantNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	view, err := q.reservations.FindByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrReservationNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if view.RestaurantID != rest.ID {
		return nil, errs.ErrForbidden
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListForPartner(ctx context.Context, partnerUserID uuid.UUID) ([]*ReservationView, error) {
	rest, err := q.restaurants.FindByOwnerUserID(ctx, partnerUserID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrRestaurantNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	views, err := q.reservations.FindByRestaurantID(ctx, rest.ID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return views, nil
}
