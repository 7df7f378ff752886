// internal/repository/postgres/booking_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitcoach-service/internal/domain/booking"
	xerrors "fitcoach-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create creates a new coaching-session booking
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (
			reference, trainer_id, client_id, starts_at, duration_minutes,
			location, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		b.Reference, b.TrainerID, b.ClientID, b.StartsAt, b.DurationMinutes,
		b.Location, b.Status, b.Notes,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// FindByID retrieves a booking owned by the given trainer
func (r *BookingRepository) FindByID(ctx context.Context, trainerID string, id int64) (*booking.Booking, error) {
	query := `
		SELECT id, reference, trainer_id, client_id, starts_at, duration_minutes,
		       location, status, notes, created_at, updated_at
		FROM bookings
		WHERE id = $1 AND trainer_id = $2
	`

	return r.scanOne(r.db.QueryRow(ctx, query, id, trainerID))
}

// List returns the trainer's bookings with optional filters.
func (r *BookingRepository) List(ctx context.Context, trainerID string, q *booking.ListBookingsQuery) ([]*booking.Booking, int64, error) {
	conditions := []string{"trainer_id = $1"}
	args := []interface{}{trainerID}

	if q.ClientID > 0 {
		args = append(args, q.ClientID)
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if q.Status != "" {
		args = append(args, q.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if q.From != "" {
		if from, err := time.Parse(time.RFC3339, q.From); err == nil {
			args = append(args, from)
			conditions = append(conditions, fmt.Sprintf("starts_at >= $%d", len(args)))
		}
	}
	if q.To != "" {
		if to, err := time.Parse(time.RFC3339, q.To); err == nil {
			args = append(args, to)
			conditions = append(conditions, fmt.Sprintf("starts_at < $%d", len(args)))
		}
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM bookings WHERE " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	args = append(args, q.PageSize, (q.Page-1)*q.PageSize)
	listQuery := fmt.Sprintf(`
		SELECT id, reference, trainer_id, client_id, starts_at, duration_minutes,
		       location, status, notes, created_at, updated_at
		FROM bookings
		WHERE %s
		ORDER BY starts_at ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*booking.Booking
	for rows.Next() {
		b, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}

	return bookings, total, rows.Err()
}

// ListUpcoming returns the trainer's next scheduled sessions.
func (r *BookingRepository) ListUpcoming(ctx context.Context, trainerID string, limit int) ([]*booking.Booking, error) {
	query := `
		SELECT id, reference, trainer_id, client_id, starts_at, duration_minutes,
		       location, status, notes, created_at, updated_at
		FROM bookings
		WHERE trainer_id = $1 AND status = $2 AND starts_at >= NOW()
		ORDER BY starts_at ASC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, trainerID, booking.StatusScheduled, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*booking.Booking
	for rows.Next() {
		b, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// Update updates a booking's schedule fields
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	query := `
		UPDATE bookings
		SET starts_at = $1, duration_minutes = $2, location = $3, notes = $4,
		    updated_at = NOW()
		WHERE id = $5 AND trainer_id = $6
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		b.StartsAt, b.DurationMinutes, b.Location, b.Notes, b.ID, b.TrainerID,
	).Scan(&b.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	return nil
}

// UpdateStatus transitions a booking's status
func (r *BookingRepository) UpdateStatus(ctx context.Context, trainerID string, id int64, status string) error {
	query := `
		UPDATE bookings SET status = $1, updated_at = NOW()
		WHERE id = $2 AND trainer_id = $3
	`

	tag, err := r.db.Exec(ctx, query, status, id, trainerID)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func (r *BookingRepository) scanOne(row rowScanner) (*booking.Booking, error) {
	var b booking.Booking

	err := row.Scan(
		&b.ID, &b.Reference, &b.TrainerID, &b.ClientID, &b.StartsAt,
		&b.DurationMinutes, &b.Location, &b.Status, &b.Notes,
		&b.CreatedAt, &b.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}

	return &b, nil
}
