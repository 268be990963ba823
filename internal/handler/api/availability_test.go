//go:build unit

package api_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"tourtable/internal/domain/user"
	"tourtable/internal/handler/api"
	reqdto "tourtable/internal/handler/dto/request"
	"tourtable/internal/handler/dto/response"
	"tourtable/internal/handler/middleware"
	"tourtable/internal/pkg/errs"
	"tourtable/internal/pkg/ptr"
	"tourtable/internal/usecase"
	"tourtable/internal/usecase/commands"
	"tourtable/internal/usecase/queries"
	"tourtable/tests/common/helper"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type fakeAvailabilityQueries struct {
	resolveFn func(ctx context.Context, restaurantID uuid.UUID, day time.Time) (*queries.DayAvailabilityView, error)
}

func (f *fakeAvailabilityQueries) ResolveDay(ctx context.Context, restaurantID uuid.UUID, day time.Time) (*queries.DayAvailabilityView, error) {
	return f.resolveFn(ctx, restaurantID, day)
}

type fakeScheduleCommands struct {
	replaceFn func(ctx context.Context, actorUserID uuid.UUID, params commands.ReplaceDayParams) (*queries.DayAvailabilityView, error)
	addFn     func(ctx context.Context, actorUserID uuid.UUID, params commands.AddCustomSlotParams) (*queries.DayAvailabilityView, error)
	blockFn   func(ctx context.Context, actorUserID, slotID uuid.UUID, blocked bool) (*queries.DayAvailabilityView, error)
	updateFn  func(ctx context.Context, actorUserID, slotID uuid.UUID, params commands.UpdateSlotParams) (*queries.DayAvailabilityView, error)
	deleteFn  func(ctx context.Context, actorUserID, slotID uuid.UUID) error
}

func (f *fakeScheduleCommands) ReplaceDay(ctx context.Context, actorUserID uuid.UUID, params commands.ReplaceDayParams) (*queries.DayAvailabilityView, error) {
	return f.replaceFn(ctx, actorUserID, params)
}

func (f *fakeScheduleCommands) AddCustomSlot(ctx context.Context, actorUserID uuid.UUID, params commands.AddCustomSlotParams) (*queries.DayAvailabilityView, error) {
	return f.addFn(ctx, actorUserID, params)
}

func (f *fakeScheduleCommands) SetSlotBlocked(ctx context.Context, actorUserID, slotID uuid.UUID, blocked bool) (*queries.DayAvailabilityView, error) {
	return f.blockFn(ctx, actorUserID, slotID, blocked)
}

func (f *fakeScheduleCommands) UpdateSlot(ctx context.Context, actorUserID, slotID uuid.UUID, params commands.UpdateSlotParams) (*queries.DayAvailabilityView, error) {
	return f.updateFn(ctx, actorUserID, slotID, params)
}

func (f *fakeScheduleCommands) DeleteSlot(ctx context.Context, actorUserID, slotID uuid.UUID) error {
	return f.deleteFn(ctx, actorUserID, slotID)
}

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	queries   *fakeAvailabilityQueries
	commands  *fakeScheduleCommands
	partnerID uuid.UUID
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.partnerID = uuid.New()
	s.queries = &fakeAvailabilityQueries{}
	s.commands = &fakeScheduleCommands{}
	validator := &fakeTokenValidator{
		auth: usecase.AuthContext{UserID: s.partnerID, Role: user.RolePartner, Approved: true},
	}

	handler := api.NewAvailabilityHandler(s.queries, s.commands)
	authMw := middleware.NewAuthMiddleware(validator)

	s.router.GET("/availability/:restaurantId/:date", handler.GetDay)
	authOnly := s.router.Group("/availability")
	authOnly.Use(authMw.RequireAuth())
	authOnly.POST("/custom", handler.AddCustomSlot)
	partner := s.router.Group("/availability")
	partner.Use(authMw.RequireAuth(), authMw.RequirePartner())
	partner.POST("", handler.ReplaceDay)
	partner.PATCH("/:id/slot/:slotId", handler.ToggleSlot)
	partner.PUT("/:id", handler.UpdateSlot)
	partner.DELETE("/:id", handler.DeleteSlot)
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func sampleDayView(restaurantID uuid.UUID, day time.Time) *queries.DayAvailabilityView {
	return &queries.DayAvailabilityView{
		RestaurantID: restaurantID,
		Date:         day,
		TimeSlots: []queries.SlotView{
			{ID: uuid.New(), StartTime: "12:00", EndTime: "13:00", MaxCapacity: 1, IsAvailable: true},
		},
	}
}

func (s *AvailabilityHandlerTestSuite) TestGetDay() {
	s.Run("Normal case: returns the resolved day", func() {
		t := s.T()
		restaurantID := uuid.New()
		day := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
		s.queries.resolveFn = func(_ context.Context, id uuid.UUID, d time.Time) (*queries.DayAvailabilityView, error) {
			s.Equal(restaurantID, id)
			s.Equal(day, d)
			return sampleDayView(restaurantID, day), nil
		}

		w := helper.PerformRequest(t, s.router, http.MethodGet,
			fmt.Sprintf("/availability/%s/2026-09-03", restaurantID), nil, "")
		s.Equal(http.StatusOK, w.Code, w.Body.String())

		resp := helper.DecodeJSON[response.DayAvailabilityResponse](t, w.Body.Bytes())
		s.Equal(restaurantID, resp.RestaurantID)
		s.Equal("2026-09-03", resp.Date)
		s.Len(resp.TimeSlots, 1)
	})

	s.Run("Error case: unknown restaurant returns 404", func() {
		t := s.T()
		s.queries.resolveFn = func(context.Context, uuid.UUID, time.Time) (*queries.DayAvailabilityView, error) {
			return nil, errs.ErrRestaurantNotFound
		}
		w := helper.PerformRequest(t, s.router, http.MethodGet,
			fmt.Sprintf("/availability/%s/2026-09-03", uuid.New()), nil, "")
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("Validation: malformed restaurant id returns 400", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.router, http.MethodGet,
			"/availability/not-a-uuid/2026-09-03", nil, "")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("Validation: malformed date returns 400", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.router, http.MethodGet,
			fmt.Sprintf("/availability/%s/03-09-2026", uuid.New()), nil, "")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *AvailabilityHandlerTestSuite) TestReplaceDay() {
	url := "/availability"

	validRequest := func() reqdto.ReplaceDayRequest {
		return reqdto.ReplaceDayRequest{
			Date: "2026-09-03",
			TimeSlots: []reqdto.TimeSlotRequest{
				{StartTime: "18:00", EndTime: "20:00", MaxCapacity: 4, Price: ptr.Ptr(int32(2500))},
			},
		}
	}

	s.Run("Normal case: forwards the parsed schedule", func() {
		t := s.T()
		s.commands.replaceFn = func(_ context.Context, actorUserID uuid.UUID, params commands.ReplaceDayParams) (*queries.DayAvailabilityView, error) {
			s.Equal(s.partnerID, actorUserID)
			s.Len(params.Slots, 1)
			s.Equal("18:00", params.Slots[0].StartTime)
			s.Equal(4, params.Slots[0].MaxCapacity)
			return sampleDayView(uuid.New(), params.Date), nil
		}

		w := helper.PerformRequest(t, s.router, http.MethodPost, url, validRequest(), "some-token")
		s.Equal(http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("Error mapping: usecase sentinels translate to status codes", func() {
		t := s.T()
		cases := []struct {
			err        error
			expectCode int
		}{
			{errs.ErrRestaurantNotFound, http.StatusNotFound},
			{errs.ErrSlotHasReservations, http.StatusConflict},
			{errs.ErrDuplicateSlot, http.StatusConflict},
			{errs.ErrInvalidSlot, http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.commands.replaceFn = func(context.Context, uuid.UUID, commands.ReplaceDayParams) (*queries.DayAvailabilityView, error) {
				return nil, tc.err
			}
			w := helper.PerformRequest(t, s.router, http.MethodPost, url, validRequest(), "some-token")
			s.Equal(tc.expectCode, w.Code, w.Body.String())
		}
	})

	s.Run("Validation: empty slot list is rejected", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.router, http.MethodPost, url,
			reqdto.ReplaceDayRequest{Date: "2026-09-03"}, "some-token")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("Auth test: missing token returns 401", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.router, http.MethodPost, url, validRequest(), "")
		s.Equal(http.StatusUnauthorized, w.Code)
	})
}

func (s *AvailabilityHandlerTestSuite) TestAddCustomSlot() {
	url := "/availability/custom"

	s.Run("Normal case: returns 201 with the day view", func() {
		t := s.T()
		s.commands.addFn = func(_ context.Context, actorUserID uuid.UUID, params commands.AddCustomSlotParams) (*queries.DayAvailabilityView, error) {
			s.Equal(s.partnerID, actorUserID)
			s.Equal("21:00", params.Slot.StartTime)
			return sampleDayView(uuid.New(), params.Date), nil
		}

		w := helper.PerformRequest(t, s.router, http.MethodPost, url, reqdto.AddCustomSlotRequest{
			Date:     "2026-09-03",
			TimeSlot: reqdto.TimeSlotRequest{StartTime: "21:00", EndTime: "23:00", MaxCapacity: 6},
		}, "some-token")
		s.Equal(http.StatusCreated, w.Code, w.Body.String())
	})

	s.Run("Error case: duplicate window returns 409", func() {
		t := s.T()
		s.commands.addFn = func(context.Context, uuid.UUID, commands.AddCustomSlotParams) (*queries.DayAvailabilityView, error) {
			return nil, errs.ErrDuplicateSlot
		}
		w := helper.PerformRequest(t, s.router, http.MethodPost, url, reqdto.AddCustomSlotRequest{
			Date:     "2026-09-03",
			TimeSlot: reqdto.TimeSlotRequest{StartTime: "21:00", EndTime: "23:00", MaxCapacity: 6},
		}, "some-token")
		s.Equal(http.StatusConflict, w.Code)
	})
}

func (s *AvailabilityHandlerTestSuite) TestToggleSlot() {
	s.Run("Normal case: isAvailable=false blocks the slot", func() {
		t := s.T()
		slotID := uuid.New()
		s.commands.blockFn = func(_ context.Context, actorUserID, id uuid.UUID, blocked bool) (*queries.DayAvailabilityView, error) {
			s.Equal(s.partnerID, actorUserID)
			s.Equal(slotID, id)
			s.True(blocked, "isAvailable=false must arrive as blocked=true")
			return sampleDayView(uuid.New(), time.Now()), nil
		}

		w := helper.PerformRequest(t, s.router, http.MethodPatch,
			fmt.Sprintf("/availability/%s/slot/%s", uuid.New(), slotID),
			reqdto.ToggleSlotRequest{IsAvailable: ptr.Ptr(false)}, "some-token")
		s.Equal(http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("Validation: missing isAvailable returns 400", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.router, http.MethodPatch,
			fmt.Sprintf("/availability/%s/slot/%s", uuid.New(), uuid.New()),
			map[string]any{}, "some-token")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("Error case: foreign slot returns 403", func() {
		t := s.T()
		s.commands.blockFn = func(context.Context, uuid.UUID, uuid.UUID, bool) (*queries.DayAvailabilityView, error) {
			return nil, errs.ErrForbidden
		}
		w := helper.PerformRequest(t, s.router, http.MethodPatch,
			fmt.Sprintf("/availability/%s/slot/%s", uuid.New(), uuid.New()),
			reqdto.ToggleSlotRequest{IsAvailable: ptr.Ptr(false)}, "some-token")
		s.Equal(http.StatusForbidden, w.Code)
	})
}

func (s *AvailabilityHandlerTestSuite) TestUpdateSlot() {
	s.Run("Normal case: forwards the slot fields", func() {
		t := s.T()
		slotID := uuid.New()
		s.commands.updateFn = func(_ context.Context, actorUserID, id uuid.UUID, params commands.UpdateSlotParams) (*queries.DayAvailabilityView, error) {
			s.Equal(slotID, id)
			s.Equal("08:00", params.StartTime)
			s.Equal(3, params.MaxCapacity)
			return sampleDayView(uuid.New(), time.Now()), nil
		}

		w := helper.PerformRequest(t, s.router, http.MethodPut, "/availability/"+slotID.String(),
			reqdto.UpdateSlotRequest{
				TimeSlot: reqdto.TimeSlotRequest{StartTime: "08:00", EndTime: "09:30", MaxCapacity: 3},
			}, "some-token")
		s.Equal(http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("Error case: active reservations return 409", func() {
		t := s.T()
		s.commands.updateFn = func(context.Context, uuid.UUID, uuid.UUID, commands.UpdateSlotParams) (*queries.DayAvailabilityView, error) {
			return nil, errs.ErrSlotHasReservations
		}
		w := helper.PerformRequest(t, s.router, http.MethodPut, "/availability/"+uuid.New().String(),
			reqdto.UpdateSlotRequest{
				TimeSlot: reqdto.TimeSlotRequest{StartTime: "08:00", EndTime: "09:30", MaxCapacity: 3},
			}, "some-token")
		s.Equal(http.StatusConflict, w.Code)
	})
}

func (s *AvailabilityHandlerTestSuite) TestDeleteSlot() {
	s.Run("Normal case: returns the legacy message", func() {
		t := s.T()
		slotID := uuid.New()
		s.commands.deleteFn = func(_ context.Context, actorUserID, id uuid.UUID) error {
			s.Equal(slotID, id)
			return nil
		}

		w := helper.PerformRequest(t, s.router, http.MethodDelete,
			"/availability/"+slotID.String(), nil, "some-token")
		s.Equal(http.StatusOK, w.Code, w.Body.String())

		resp := helper.DecodeJSON[response.MessageResponse](t, w.Body.Bytes())
		s.Equal("Time slot deleted", resp.Message)
	})

	s.Run("Error case: unknown slot returns 404", func() {
		t := s.T()
		s.commands.deleteFn = func(context.Context, uuid.UUID, uuid.UUID) error {
			return errs.ErrSlotNotFound
		}
		w := helper.PerformRequest(t, s.router, http.MethodDelete,
			"/availability/"+uuid.New().String(), nil, "some-token")
		s.Equal(http.StatusNotFound, w.Code)
	})
}
