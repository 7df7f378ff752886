// internal/domain/booking/entity.go
package booking

import (
	"database/sql"
	"time"
)

// Booking is a scheduled coaching session between a trainer and a client.
type Booking struct {
	ID              int64          `json:"id" db:"id"`
	Reference       string         `json:"reference" db:"reference"` // ULID
	TrainerID       string         `json:"trainer_id" db:"trainer_id"`
	ClientID        int64          `json:"client_id" db:"client_id"`
	StartsAt        time.Time      `json:"starts_at" db:"starts_at"`
	DurationMinutes int            `json:"duration_minutes" db:"duration_minutes"`
	Location        sql.NullString `json:"location" db:"location"`
	Status          string         `json:"status" db:"status"`
	Notes           sql.NullString `json:"notes" db:"notes"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// Booking statuses
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// CanTransitionTo reports whether a status change is allowed. Completed and
// cancelled are terminal.
func (b *Booking) CanTransitionTo(status string) bool {
	if b.Status != StatusScheduled {
		return false
	}
	return status == StatusCompleted || status == StatusCancelled
}
