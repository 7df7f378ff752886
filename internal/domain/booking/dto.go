// internal/domain/booking/dto.go
package booking

import "time"

// CreateBookingRequest for scheduling a coaching session
type CreateBookingRequest struct {
	ClientID        int64     `json:"client_id" binding:"required"`
	StartsAt        time.Time `json:"starts_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=15,max=240"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`
}

// UpdateBookingRequest for rescheduling a session
type UpdateBookingRequest struct {
	StartsAt        *time.Time `json:"starts_at"`
	DurationMinutes int        `json:"duration_minutes" binding:"omitempty,min=15,max=240"`
	Location        string     `json:"location"`
	Notes           string     `json:"notes"`
}

// ListBookingsQuery for list filtering
type ListBookingsQuery struct {
	ClientID int64  `form:"client_id"`
	Status   string `form:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	From     string `form:"from"` // RFC3339
	To       string `form:"to"`   // RFC3339
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// BookingList is a paginated list response
type BookingList struct {
	Bookings []*Booking `json:"bookings"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// Event is what the live dashboard feed broadcasts when a booking changes.
type Event struct {
	Type    string   `json:"type"` // booking:created, booking:cancelled, booking:completed
	Booking *Booking `json:"booking"`
}
