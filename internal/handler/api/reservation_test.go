//go:build unit

package api_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"tourtable/internal/domain/reservation"
	"tourtable/internal/domain/user"
	"tourtable/internal/handler/api"
	reqdto "tourtable/internal/handler/dto/request"
	"tourtable/internal/handler/dto/response"
	"tourtable/internal/handler/middleware"
	"tourtable/internal/pkg/errs"
	"tourtable/internal/usecase"
	"tourtable/internal/usecase/commands"
	"tourtable/internal/usecase/queries"
	"tourtable/tests/common/helper"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// Hand-rolled fakes; the suite swaps the function fields per test case.

type fakeBookingCommands struct {
	createFn func(ctx context.Context, params commands.CreateReservationParams) (uuid.UUID, error)
}

func (f *fakeBookingCommands) CreateReservation(ctx context.Context, params commands.CreateReservationParams) (uuid.UUID, error) {
	return f.createFn(ctx, params)
}

type fakeReservationCommands struct {
	updateFn func(ctx context.Context, actorUserID, reservationID uuid.UUID, next reservation.Status) error
	deleteFn func(ctx context.Context, actorUserID, reservationID uuid.UUID) error
}

func (f *fakeReservationCommands) UpdateStatus(ctx context.Context, actorUserID, reservationID uuid.UUID, next reservation.Status) error {
	return f.updateFn(ctx, actorUserID, reservationID, next)
}

func (f *fakeReservationCommands) Delete(ctx context.Context, actorUserID, reservationID uuid.UUID) error {
	return f.deleteFn(ctx, actorUserID, reservationID)
}

type fakeReservationQueries struct {
	getFn  func(ctx context.Context, partnerUserID, reservationID uuid.UUID) (*queries.ReservationView, error)
	listFn func(ctx context.Context, ownerUserID uuid.UUID) ([]*queries.ReservationView, error)
}

func (f *fakeReservationQueries) GetForPartner(ctx context.Context, partnerUserID, reservationID uuid.UUID) (*queries.ReservationView, error) {
	return f.getFn(ctx, partnerUserID, reservationID)
}

func (f *fakeReservationQueries) ListForPartner(ctx context.Context, ownerUserID uuid.UUID) ([]*queries.ReservationView, error) {
	return f.listFn(ctx, ownerUserID)
}

// fakeTokenValidator lets the real auth middleware run without minting JWTs.
type fakeTokenValidator struct {
	auth usecase.AuthContext
	err  error
}

func (f *fakeTokenValidator) ValidateToken(string) (usecase.AuthContext, error) {
	return f.auth, f.err
}

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	booking      *fakeBookingCommands
	reservations *fakeReservationCommands
	queries      *fakeReservationQueries
	validator    *fakeTokenValidator
	partnerID    uuid.UUID
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.partnerID = uuid.New()
	s.booking = &fakeBookingCommands{}
	s.reservations = &fakeReservationCommands{}
	s.queries = &fakeReservationQueries{}
	s.validator = &fakeTokenValidator{
		auth: usecase.AuthContext{UserID: s.partnerID, Role: user.RolePartner, Approved: true},
	}

	handler := api.NewReservationHandler(s.booking, s.reservations, s.queries)
	authMw := middleware.NewAuthMiddleware(s.validator)

	s.router.POST("/reservations", handler.CreateReservation)
	partner := s.router.Group("/reservations")
	partner.Use(authMw.RequireAuth(), authMw.RequirePartner())
	partner.GET("/partner", handler.ListPartnerReservations)
	partner.GET("/:id", handler.GetReservation)
	partner.PUT("/:id/status", handler.UpdateStatus)
	partner.DELETE("/:id", handler.DeleteReservation)
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func validBookingRequest() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		Name:       "Alice Diner",
		Email:      "alice@example.com",
		Contact:    "+31 6 1234 5678",
		Restaurant: uuid.New(),
		Date:       time.Now().AddDate(0, 0, 3).Format(time.DateOnly),
		TimeSlot:   reqdto.ReservationSlotRequest{StartTime: "12:00", EndTime: "13:00"},
		GuestCount: 2,
	}
}

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	url := "/reservations"

	s.Run("Normal case: returns 201 with the legacy message", func() {
		t := s.T()
		s.booking.createFn = func(_ context.Context, params commands.CreateReservationParams) (uuid.UUID, error) {
			s.Equal("Alice Diner", params.GuestName)
			s.Equal(2, params.PartySize)
			return uuid.New(), nil
		}

		w := helper.PerformRequest(t, s.router, http.MethodPost, url, validBookingRequest(), "")
		s.Equal(http.StatusCreated, w.Code, w.Body.String())

		resp := helper.DecodeJSON[response.MessageResponse](t, w.Body.Bytes())
		s.Equal("Reservation confirmed!", resp.Message)
	})

	s.Run("Error mapping: usecase sentinels translate to status codes", func() {
		t := s.T()
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{"restaurant not found", errs.ErrRestaurantNotFound, http.StatusNotFound},
			{"no availability", errs.ErrNoAvailabilitySet, http.StatusNotFound},
			{"slot not found", errs.ErrSlotNotFound, http.StatusNotFound},
			{"slot full", errs.ErrSlotUnavailable, http.StatusConflict},
			{"domain validation", errs.ErrDomainValidation, http.StatusUnprocessableEntity},
			{"unexpected", errs.ErrDatabaseOperationFailed, http.StatusInternalServerError},
		}
		for _, tc := range cases {
			s.booking.createFn = func(context.Context, commands.CreateReservationParams) (uuid.UUID, error) {
				return uuid.Nil, tc.err
			}
			w := helper.PerformRequest(t, s.router, http.MethodPost, url, validBookingRequest(), "")
			s.Equal(tc.expectCode, w.Code, "case %q: %s", tc.name, w.Body.String())
		}
	})

	s.Run("Error mapping: unexpected errors render the error envelope", func() {
		t := s.T()
		s.booking.createFn = func(context.Context, commands.CreateReservationParams) (uuid.UUID, error) {
			return uuid.Nil, errs.ErrDatabaseOperationFailed
		}

		w := helper.PerformRequest(t, s.router, http.MethodPost, url, validBookingRequest(), "")
		s.Equal(http.StatusInternalServerError, w.Code)

		resp := helper.DecodeJSON[response.MessageResponse](t, w.Body.Bytes())
		s.Equal("Internal server error", resp.Message)
	})

	s.Run("Validation: missing fields are rejected before the usecase runs", func() {
		t := s.T()
		s.booking.createFn = func(context.Context, commands.CreateReservationParams) (uuid.UUID, error) {
			s.Fail("usecase must not be called for invalid payloads")
			return uuid.Nil, nil
		}

		req := validBookingRequest()
		req.Name = ""
		w := helper.PerformRequest(t, s.router, http.MethodPost, url, req, "")
		s.Equal(http.StatusBadRequest, w.Code)

		req = validBookingRequest()
		req.GuestCount = 0
		w = helper.PerformRequest(t, s.router, http.MethodPost, url, req, "")
		s.Equal(http.StatusBadRequest, w.Code)

		req = validBookingRequest()
		req.Date = "03-09-2026"
		w = helper.PerformRequest(t, s.router, http.MethodPost, url, req, "")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestListPartnerReservations() {
	url := "/reservations/partner"

	s.Run("Normal case: returns the partner's reservations", func() {
		t := s.T()
		s.queries.listFn = func(_ context.Context, ownerUserID uuid.UUID) ([]*queries.ReservationView, error) {
			s.Equal(s.partnerID, ownerUserID)
			return []*queries.ReservationView{
				{ID: uuid.New(), GuestName: "Alice Diner", PartySize: 2, Status: "pending"},
			}, nil
		}

		w := helper.PerformRequest(t, s.router, http.MethodGet, url, nil, "some-token")
		s.Equal(http.StatusOK, w.Code, w.Body.String())

		list := helper.DecodeJSON[[]response.ReservationResponse](t, w.Body.Bytes())
		s.Len(list, 1)
		s.Equal("Alice Diner", list[0].Name)
	})

	s.Run("Auth test: missing token returns 401", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.router, http.MethodGet, url, nil, "")
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("Auth test: customer role returns 403", func() {
		t := s.T()
		s.validator.auth = usecase.AuthContext{UserID: uuid.New(), Role: user.RoleCustomer, Approved: true}
		w := helper.PerformRequest(t, s.router, http.MethodGet, url, nil, "some-token")
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("Auth test: unapproved partner returns 403", func() {
		t := s.T()
		s.validator.auth = usecase.AuthContext{UserID: uuid.New(), Role: user.RolePartner, Approved: false}
		w := helper.PerformRequest(t, s.router, http.MethodGet, url, nil, "some-token")
		s.Equal(http.StatusForbidden, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	s.Run("Normal case: returns the reservation detail", func() {
		t := s.T()
		reservationID := uuid.New()
		s.queries.getFn = func(_ context.Context, partnerUserID, id uuid.UUID) (*queries.ReservationView, error) {
			s.Equal(s.partnerID, partnerUserID)
			s.Equal(reservationID, id)
			return &queries.ReservationView{ID: reservationID, GuestName: "Alice Diner", PartySize: 2, Status: "pending"}, nil
		}

		w := helper.PerformRequest(t, s.router, http.MethodGet, "/reservations/"+reservationID.String(), nil, "some-token")
		s.Equal(http.StatusOK, w.Code, w.Body.String())

		resp := helper.DecodeJSON[response.ReservationResponse](t, w.Body.Bytes())
		s.Equal(reservationID, resp.ID)
		s.Equal("Alice Diner", resp.Name)
	})

	s.Run("Error mapping: usecase sentinels translate to status codes", func() {
		t := s.T()
		cases := []struct {
			err        error
			expectCode int
		}{
			{errs.ErrReservationNotFound, http.StatusNotFound},
			{errs.ErrForbidden, http.StatusForbidden},
		}
		for _, tc := range cases {
			s.queries.getFn = func(context.Context, uuid.UUID, uuid.UUID) (*queries.ReservationView, error) {
				return nil, tc.err
			}
			w := helper.PerformRequest(t, s.router, http.MethodGet, "/reservations/"+uuid.New().String(), nil, "some-token")
			s.Equal(tc.expectCode, w.Code, w.Body.String())
		}
	})

	s.Run("Validation: malformed id returns 400", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.router, http.MethodGet, "/reservations/not-a-uuid", nil, "some-token")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestUpdateStatus() {
	s.Run("Normal case: forwards the target status", func() {
		t := s.T()
		reservationID := uuid.New()
		s.reservations.updateFn = func(_ context.Context, actorUserID, id uuid.UUID, next reservation.Status) error {
			s.Equal(s.partnerID, actorUserID)
			s.Equal(reservationID, id)
			s.Equal(reservation.StatusConfirmed, next)
			return nil
		}

		w := helper.PerformRequest(t, s.router, http.MethodPut,
			fmt.Sprintf("/reservations/%s/status", reservationID),
			reqdto.UpdateStatusRequest{Status: "confirmed"}, "some-token")
		s.Equal(http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("Error mapping: usecase sentinels translate to status codes", func() {
		t := s.T()
		cases := []struct {
			err        error
			expectCode int
		}{
			{errs.ErrReservationNotFound, http.StatusNotFound},
			{errs.ErrInvalidTransition, http.StatusBadRequest},
			{errs.ErrForbidden, http.StatusForbidden},
		}
		for _, tc := range cases {
			s.reservations.updateFn = func(context.Context, uuid.UUID, uuid.UUID, reservation.Status) error {
				return tc.err
			}
			w := helper.PerformRequest(t, s.router, http.MethodPut,
				fmt.Sprintf("/reservations/%s/status", uuid.New()),
				reqdto.UpdateStatusRequest{Status: "confirmed"}, "some-token")
			s.Equal(tc.expectCode, w.Code, w.Body.String())
		}
	})

	s.Run("Validation: malformed reservation id returns 400", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.router, http.MethodPut,
			"/reservations/not-a-uuid/status",
			reqdto.UpdateStatusRequest{Status: "confirmed"}, "some-token")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestDeleteReservation() {
	s.Run("Normal case: delete succeeds", func() {
		t := s.T()
		reservationID := uuid.New()
		s.reservations.deleteFn = func(_ context.Context, actorUserID, id uuid.UUID) error {
			s.Equal(s.partnerID, actorUserID)
			s.Equal(reservationID, id)
			return nil
		}

		w := helper.PerformRequest(t, s.router, http.MethodDelete,
			"/reservations/"+reservationID.String(), nil, "some-token")
		s.Equal(http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("Error case: foreign reservation returns 403", func() {
		t := s.T()
		s.reservations.deleteFn = func(context.Context, uuid.UUID, uuid.UUID) error {
			return errs.ErrForbidden
		}
		w := helper.PerformRequest(t, s.router, http.MethodDelete,
			"/reservations/"+uuid.New().String(), nil, "some-token")
		s.Equal(http.StatusForbidden, w.Code)
	})
}
