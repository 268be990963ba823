package api

import (
	"errors"
	"net/http"

	"tourtable/internal/domain/reservation"
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

type ReservationHandler struct {
	bookingCommands     commands.BookingCommands
	reservationCommands commands.ReservationCommands
	reservationQueries  queries.ReservationQueries
}

func NewReservationHandler(
	bookingCommands commands.BookingCommands,
	reservationCommands commands.ReservationCommands,
	reservationQueries queries.ReservationQueries,
) *ReservationHandler {
	return &ReservationHandler{
		bookingCommands:     bookingCommands,
		reservationCommands: reservationCommands,
		reservationQueries:  reservationQueries,
	}
}

// @Summary Create reservation
// @Description Book one time slot; the claim is atomic so a full slot can never be double-booked
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.MessageResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}

	params, err := req.ToParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format"})
		return
	}

	if _, err := h.bookingCommands.CreateReservation(c.Request.Context(), params); err != nil {
		h.respondError(c, err)
		return
	}

	// Legacy-compatible response; clients match on this exact message.
	c.JSON(http.StatusCreated, resdto.MessageResponse{Message: "Reservation confirmed!"})
}

// @Summary List partner reservations
// @Description List all reservations of the caller's restaurant, newest first
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ReservationResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/partner [get]
func (h *ReservationHandler) ListPartnerReservations(c *gin.Context) {
	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	views, err := h.reservationQueries.ListForPartner(c.Request.Context(), auth.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]*resdto.ReservationResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromReservationView(view)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get reservation
// @Description Fetch one reservation of the caller's restaurant
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid reservation ID format"})
		return
	}

	view, err := h.reservationQueries.GetForPartner(c.Request.Context(), auth.UserID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Update reservation status
// @Description Confirm or decline a pending reservation; declining frees the slot
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.UpdateStatusRequest true "Target status"
// @Success 200 {object} resdto.MessageResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id}/status [put]
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid reservation ID format"})
		return
	}

	var req reqdto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}

	if err := h.reservationCommands.UpdateStatus(c.Request.Context(), auth.UserID, id, reservation.Status(req.Status)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.MessageResponse{Message: "Reservation status updated"})
}

// @Summary Delete reservation
// @Description Delete a reservation; capacity it held is released
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.MessageResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid reservation ID format"})
		return
	}

	if err := h.reservationCommands.Delete(c.Request.Context(), auth.UserID, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.MessageResponse{Message: "Reservation deleted"})
}

func (h *ReservationHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrRestaurantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Restaurant not found"})
	case errors.Is(err, errs.ErrNoAvailabilitySet):
		c.JSON(http.StatusNotFound, gin.H{"message": "No availability set for this date"})
	case errors.Is(err, errs.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Time slot not found"})
	case errors.Is(err, errs.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Reservation not found"})
	case errors.Is(err, errs.ErrSlotUnavailable):
		// The 409 is load-bearing: it tells the client the slot filled up,
		// as opposed to something going wrong server-side.
		c.JSON(http.StatusConflict, gin.H{"message": "Time slot is no longer available"})
	case errors.Is(err, errs.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status transition"})
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
