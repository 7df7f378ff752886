// internal/handlers/booking/booking_handler.go
package booking

import (
	"net/http"
	"strconv"

	"fitcoach-service/internal/domain/booking"
	"fitcoach-service/internal/middleware"
	xerrors "fitcoach-service/internal/pkg/errors"
	"fitcoach-service/internal/pkg/response"
	bookingUsecase "fitcoach-service/internal/service/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	bookingService *bookingUsecase.BookingService
	logger         *zap.Logger
}

func NewBookingHandler(bookingService *bookingUsecase.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// Create schedules a coaching session (trainer only)
func (h *BookingHandler) Create(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	created, err := h.bookingService.CreateBooking(c.Request.Context(), trainerID, &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "client not found")
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// Get retrieves one booking
func (h *BookingHandler) Get(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	bookingID, ok := pathID(c)
	if !ok {
		return
	}

	found, err := h.bookingService.GetBooking(c.Request.Context(), trainerID, bookingID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "booking not found")
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, found)
}

// List lists the trainer's bookings with filters
func (h *BookingHandler) List(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	var q booking.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, "invalid query", err)
		return
	}

	list, err := h.bookingService.ListBookings(c.Request.Context(), trainerID, &q)
	if err != nil {
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, list)
}

// Upcoming returns the trainer's next scheduled sessions
func (h *BookingHandler) Upcoming(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	bookings, err := h.bookingService.ListUpcoming(c.Request.Context(), trainerID, limit)
	if err != nil {
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

// Update reschedules a session
func (h *BookingHandler) Update(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	bookingID, ok := pathID(c)
	if !ok {
		return
	}

	var req booking.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	updated, err := h.bookingService.UpdateBooking(c.Request.Context(), trainerID, bookingID, &req)
	if err != nil {
		h.transitionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// Cancel cancels a scheduled session
func (h *BookingHandler) Cancel(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	bookingID, ok := pathID(c)
	if !ok {
		return
	}

	cancelled, err := h.bookingService.CancelBooking(c.Request.Context(), trainerID, bookingID)
	if err != nil {
		h.transitionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cancelled)
}

// Complete marks a scheduled session as completed
func (h *BookingHandler) Complete(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	bookingID, ok := pathID(c)
	if !ok {
		return
	}

	completed, err := h.bookingService.CompleteBooking(c.Request.Context(), trainerID, bookingID)
	if err != nil {
		h.transitionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, completed)
}

func (h *BookingHandler) transitionError(c *gin.Context, err error) {
	switch {
	case xerrors.Is(err, xerrors.ErrNotFound):
		response.NotFound(c, "booking not found")
	case xerrors.Is(err, xerrors.ErrConflict):
		response.Error(c, http.StatusConflict, "booking is not in a state that allows this change")
	default:
		response.Internal(c)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.ValidationError(c, "invalid booking ID", nil)
		return 0, false
	}
	return id, true
}
