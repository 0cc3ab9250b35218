package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fitstudio/internal/api"
	"fitstudio/internal/auth"
	"fitstudio/internal/ledger"
	"fitstudio/internal/market"
	"fitstudio/internal/studio"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Book a time slot
// @Description  Claims a seat and charges token, free bypass or wallet credits, in that order
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body booking.BookRequest true "Booking payload"
// @Success      201 {object} booking.BookingResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      402 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) BookSlot(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	h.book(c, userID, req.TimeSlotID)
}

// @Summary      Book a slot on a member's behalf
// @Description  Admin-only: same funding rules as a member booking
// @Tags         admin,bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body booking.AdminBookRequest true "Booking payload"
// @Success      201 {object} booking.BookingResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      402 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/bookings [post]
func (h *Handler) AdminBookSlot(c *gin.Context) {
	var req AdminBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	h.book(c, req.UserID, req.TimeSlotID)
}

func (h *Handler) book(c *gin.Context, userID, slotID int) {
	ctx := c.Request.Context()
	resp, err := h.service.BookSlot(ctx, userID, slotID)
	if err != nil {
		switch {
		case errors.Is(err, studio.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Time slot not found"})
		case errors.Is(err, ErrSlotInPast):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Cannot book a slot in the past"})
		case errors.Is(err, studio.ErrSlotUnavailable):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Slot already booked"})
		case errors.Is(err, studio.ErrSlotFull):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Slot is full"})
		case errors.Is(err, studio.ErrAlreadyEnrolled):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Already enrolled in this slot"})
		case errors.Is(err, ledger.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: "Insufficient credits"})
		case errors.Is(err, ledger.ErrBalanceNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Balance not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to book slot"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary      Cancel a booking
// @Description  Releases the seat and refunds the instrument charged at booking time
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings/{bookingID} [delete]
func (h *Handler) CancelBooking(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	ctx := c.Request.Context()
	h.respondCancel(c, h.service.CancelBooking(ctx, userID, id))
}

// @Summary      Cancel any member's booking
// @Tags         admin,bookings
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/bookings/{bookingID} [delete]
func (h *Handler) AdminCancelBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	ctx := c.Request.Context()
	h.respondCancel(c, h.service.AdminCancelBooking(ctx, id))
}

func (h *Handler) respondCancel(c *gin.Context, err error) {
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Can only cancel own bookings"})
		case errors.Is(err, ErrBookingClosed):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Booking already cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to cancel booking"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Booking cancelled"})
}

// @Summary      Buy an add-on for a booking
// @Description  Charges wallet credits and attaches the item to the booking
// @Tags         bookings,market
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Param        request body booking.AdditionRequest true "Add-on payload"
// @Success      201 {object} booking.AdditionResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      402 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings/{bookingID}/additions [post]
func (h *Handler) PurchaseAddition(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	var req AdditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	resp, err := h.service.PurchaseAddition(ctx, userID, id, req.ItemIDs)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Not your booking"})
		case errors.Is(err, ErrBookingClosed):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Booking already cancelled"})
		case errors.Is(err, market.ErrItemNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Item not found"})
		case errors.Is(err, market.ErrOutOfStock):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Item out of stock"})
		case errors.Is(err, ledger.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: "Insufficient credits"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to purchase add-on"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary      List my bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} booking.EnrollmentWithDetails
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) GetMyBookings(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	ctx := c.Request.Context()
	bookings, err := h.service.GetUserBookings(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// @Summary      Slot roster
// @Description  Admin-only: every enrollment for a slot, active and cancelled
// @Tags         admin,bookings
// @Produce      json
// @Security     BearerAuth
// @Param        slotID path int true "Time slot ID"
// @Success      200 {array} booking.EnrollmentWithDetails
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/slots/{slotID}/bookings [get]
func (h *Handler) GetSlotRoster(c *gin.Context) {
	slotID, err := strconv.Atoi(c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid slot ID"})
		return
	}

	ctx := c.Request.Context()
	roster, err := h.service.GetSlotRoster(ctx, slotID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch roster"})
		return
	}

	c.JSON(http.StatusOK, roster)
}

// @Summary      Send session reminders
// @Description  Admin-only: queue a reminder email to every active member of a slot
// @Tags         admin,bookings
// @Produce      json
// @Security     BearerAuth
// @Param        slotID path int true "Time slot ID"
// @Success      200 {object} map[string]int
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/slots/{slotID}/remind [post]
func (h *Handler) SendSlotReminders(c *gin.Context) {
	slotID, err := strconv.Atoi(c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid slot ID"})
		return
	}

	ctx := c.Request.Context()
	sent, err := h.service.SendSlotReminders(ctx, slotID)
	if err != nil {
		if errors.Is(err, studio.ErrSlotNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Time slot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to send reminders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders_sent": sent})
}

// @Summary      Booking stats by day
// @Tags         admin,analytics
// @Produce      json
// @Security     BearerAuth
// @Param        from query string true "RFC3339 start"
// @Param        to query string true "RFC3339 end"
// @Success      200 {array} booking.StatsByDay
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/analytics/bookings/daily [get]
func (h *Handler) GetStatsByDay(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid from/to range"})
		return
	}

	ctx := c.Request.Context()
	stats, err := h.service.GetStatsByDay(ctx, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary      Booking stats by activity
// @Tags         admin,analytics
// @Produce      json
// @Security     BearerAuth
// @Param        from query string true "RFC3339 start"
// @Param        to query string true "RFC3339 end"
// @Success      200 {array} booking.StatsByActivity
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/analytics/bookings/by-activity [get]
func (h *Handler) GetStatsByActivity(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid from/to range"})
		return
	}

	ctx := c.Request.Context()
	stats, err := h.service.GetStatsByActivity(ctx, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
