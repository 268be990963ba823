package api

import (
	"errors"
	"net/http"

	reqdto "tourtable/internal/handler/dto/request"
	resdto "tourtable/internal/handler/dto/response"
	"tourtable/internal/handler/httperr"
	"tourtable/internal/handler/middleware"
	"tourtable/internal/pkg/errs"
	"tourtable/internal/usecase/commands"
	"tourtable/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
	scheduleCommands    commands.ScheduleCommands
}

func NewAvailabilityHandler(availabilityQueries queries.AvailabilityQueries, scheduleCommands commands.ScheduleCommands) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityQueries: availabilityQueries,
		scheduleCommands:    scheduleCommands,
	}
}

// @Summary Resolve day availability
// @Description Return a restaurant's slots for one date, creating the default schedule on first access
// @Tags availability
// @Produce json
// @Param restaurantId path string true "Restaurant ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.DayAvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /availability/{restaurantId}/{date} [get]
func (h *AvailabilityHandler) GetDay(c *gin.Context) {
	restaurantID, err := uuid.Parse(c.Param("restaurantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid restaurant ID format"})
		return
	}
	day, err := reqdto.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format"})
		return
	}

	view, err := h.availabilityQueries.ResolveDay(c.Request.Context(), restaurantID, day)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDayView(view))
}

// @Summary Replace day schedule
// @Description Replace the full slot list of one day for the caller's restaurant
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ReplaceDayRequest true "Day schedule"
// @Success 200 {object} resdto.DayAvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /availability [post]
func (h *AvailabilityHandler) ReplaceDay(c *gin.Context) {
	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	var req reqdto.ReplaceDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}
	params, err := req.ToParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format"})
		return
	}

	view, err := h.scheduleCommands.ReplaceDay(c.Request.Context(), auth.UserID, params)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDayView(view))
}

// @Summary Add custom slot
// @Description Add one slot to a day, creating the day from the default template when needed
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AddCustomSlotRequest true "Custom slot"
// @Success 201 {object} resdto.DayAvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /availability/custom [post]
func (h *AvailabilityHandler) AddCustomSlot(c *gin.Context) {
	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	var req reqdto.AddCustomSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}
	params, err := req.ToParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format"})
		return
	}

	view, err := h.scheduleCommands.AddCustomSlot(c.Request.Context(), auth.UserID, params)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromDayView(view))
}

// @Summary Toggle slot availability
// @Description Block or unblock one slot of the caller's restaurant
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Availability record ID (legacy, unused)"
// @Param slotId path string true "Slot ID"
// @Param request body reqdto.ToggleSlotRequest true "Availability flag"
// @Success 200 {object} resdto.DayAvailabilityResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /availability/{id}/slot/{slotId} [patch]
func (h *AvailabilityHandler) ToggleSlot(c *gin.Context) {
	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	slotID, err := uuid.Parse(c.Param("slotId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid slot ID format"})
		return
	}

	var req reqdto.ToggleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}

	view, err := h.scheduleCommands.SetSlotBlocked(c.Request.Context(), auth.UserID, slotID, !*req.IsAvailable)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDayView(view))
}

// @Summary Update slot
// @Description Rewrite one slot's window, capacity and pricing
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param request body reqdto.UpdateSlotRequest true "Slot fields"
// @Success 200 {object} resdto.DayAvailabilityResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /availability/{id} [put]
func (h *AvailabilityHandler) UpdateSlot(c *gin.Context) {
	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid slot ID format"})
		return
	}

	var req reqdto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}

	view, err := h.scheduleCommands.UpdateSlot(c.Request.Context(), auth.UserID, slotID, req.ToParams())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDayView(view))
}

// @Summary Delete slot
// @Description Delete one slot; refused while it has active reservations
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.MessageResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /availability/{id} [delete]
func (h *AvailabilityHandler) DeleteSlot(c *gin.Context) {
	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid slot ID format"})
		return
	}

	if err := h.scheduleCommands.DeleteSlot(c.Request.Context(), auth.UserID, slotID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.MessageResponse{Message: "Time slot deleted"})
}

func (h *AvailabilityHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrRestaurantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Restaurant not found"})
	case errors.Is(err, errs.ErrNoAvailabilitySet):
		c.JSON(http.StatusNotFound, gin.H{"message": "No availability set for this date"})
	case errors.Is(err, errs.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Time slot not found"})
	case errors.Is(err, errs.ErrDuplicateSlot):
		c.JSON(http.StatusConflict, gin.H{"message": "A slot with this time window already exists"})
	case errors.Is(err, errs.ErrSlotHasReservations):
		c.JSON(http.StatusConflict, gin.H{"message": "Time slot has active reservations"})
	case errors.Is(err, errs.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format"})
	case errors.Is(err, errs.ErrInvalidSlot):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid time slot"})
	case errors.Is(err, errs.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed"})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "You do not own this restaurant"})
	default:
		// Unexpected errors go through the envelope so the error middleware
		// and request log see the cause.
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
