// internal/service/booking/booking.go
package booking

import (
	"context"
	"database/sql"
	"fmt"

	"fitcoach-service/internal/domain/booking"
	xerrors "fitcoach-service/internal/pkg/errors"
	"fitcoach-service/internal/repository/postgres"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// EventBroadcaster pushes booking events to the live dashboard feed.
type EventBroadcaster interface {
	BroadcastBooking(trainerID string, event *booking.Event)
}

type BookingService struct {
	bookingRepo *postgres.BookingRepository
	clientRepo  *postgres.ClientRepository
	broadcaster EventBroadcaster
	logger      *zap.Logger
}

func NewBookingService(
	bookingRepo *postgres.BookingRepository,
	clientRepo *postgres.ClientRepository,
	broadcaster EventBroadcaster,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		clientRepo:  clientRepo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// CreateBooking schedules a coaching session with one of the trainer's clients
func (s *BookingService) CreateBooking(ctx context.Context, trainerID string, req *booking.CreateBookingRequest) (*booking.Booking, error) {
	// The client must exist and belong to this trainer
	if _, err := s.clientRepo.FindByID(ctx, trainerID, req.ClientID); err != nil {
		return nil, err
	}

	b := &booking.Booking{
		Reference:       ulid.Make().String(),
		TrainerID:       trainerID,
		ClientID:        req.ClientID,
		StartsAt:        req.StartsAt,
		DurationMinutes: req.DurationMinutes,
		Location:        sql.NullString{String: req.Location, Valid: req.Location != ""},
		Status:          booking.StatusScheduled,
		Notes:           sql.NullString{String: req.Notes, Valid: req.Notes != ""},
	}

	if err := s.bookingRepo.Create(ctx, b); err != nil {
		s.logger.Error("failed to create booking", zap.Error(err))
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.String("reference", b.Reference),
		zap.String("trainer_id", trainerID),
	)

	s.broadcaster.BroadcastBooking(trainerID, &booking.Event{Type: "booking:created", Booking: b})

	return b, nil
}

// GetBooking retrieves one of the trainer's bookings
func (s *BookingService) GetBooking(ctx context.Context, trainerID string, bookingID int64) (*booking.Booking, error) {
	return s.bookingRepo.FindByID(ctx, trainerID, bookingID)
}

// ListBookings lists the trainer's bookings with filters
func (s *BookingService) ListBookings(ctx context.Context, trainerID string, q *booking.ListBookingsQuery) (*booking.BookingList, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}

	bookings, total, err := s.bookingRepo.List(ctx, trainerID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return &booking.BookingList{
		Bookings: bookings,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

// ListUpcoming returns the trainer's next scheduled sessions
func (s *BookingService) ListUpcoming(ctx context.Context, trainerID string, limit int) ([]*booking.Booking, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.bookingRepo.ListUpcoming(ctx, trainerID, limit)
}

// UpdateBooking reschedules a session. Only scheduled sessions can move.
func (s *BookingService) UpdateBooking(ctx context.Context, trainerID string, bookingID int64, req *booking.UpdateBookingRequest) (*booking.Booking, error) {
	b, err := s.bookingRepo.FindByID(ctx, trainerID, bookingID)
	if err != nil {
		return nil, err
	}

	if b.Status != booking.StatusScheduled {
		return nil, xerrors.ErrConflict
	}

	if req.StartsAt != nil {
		b.StartsAt = *req.StartsAt
	}
	if req.DurationMinutes > 0 {
		b.DurationMinutes = req.DurationMinutes
	}
	if req.Location != "" {
		b.Location = sql.NullString{String: req.Location, Valid: true}
	}
	if req.Notes != "" {
		b.Notes = sql.NullString{String: req.Notes, Valid: true}
	}

	if err := s.bookingRepo.Update(ctx, b); err != nil {
		s.logger.Error("failed to update booking", zap.Int64("booking_id", bookingID), zap.Error(err))
		return nil, err
	}

	return b, nil
}

// CancelBooking cancels a scheduled session and notifies the dashboard
func (s *BookingService) CancelBooking(ctx context.Context, trainerID string, bookingID int64) (*booking.Booking, error) {
	return s.transition(ctx, trainerID, bookingID, booking.StatusCancelled, "booking:cancelled")
}

// CompleteBooking marks a scheduled session as completed
func (s *BookingService) CompleteBooking(ctx context.Context, trainerID string, bookingID int64) (*booking.Booking, error) {
	return s.transition(ctx, trainerID, bookingID, booking.StatusCompleted, "booking:completed")
}

func (s *BookingService) transition(ctx context.Context, trainerID string, bookingID int64, status, eventType string) (*booking.Booking, error) {
	b, err := s.bookingRepo.FindByID(ctx, trainerID, bookingID)
	if err != nil {
		return nil, err
	}

	if !b.CanTransitionTo(status) {
		return nil, xerrors.ErrConflict
	}

	if err := s.bookingRepo.UpdateStatus(ctx, trainerID, bookingID, status); err != nil {
		return nil, err
	}
	b.Status = status

	s.logger.Info("booking status changed",
		zap.Int64("booking_id", bookingID),
		zap.String("status", status),
	)

	s.broadcaster.BroadcastBooking(trainerID, &booking.Event{Type: eventType, Booking: b})

	return b, nil
}
