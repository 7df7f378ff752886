// internal/domain/client/entity.go
package client

import (
	"database/sql"
	"time"
)

// Client is a coached client belonging to one trainer.
type Client struct {
	ID        int64                  `json:"id" db:"id"`
	TrainerID string                 `json:"trainer_id" db:"trainer_id"` // provider user ID
	Reference string                 `json:"reference" db:"reference"`   // ULID, stable external handle
	FullName  string                 `json:"full_name" db:"full_name"`
	Email     sql.NullString         `json:"email" db:"email"`
	Phone     sql.NullString         `json:"phone" db:"phone"`
	Goals     []string               `json:"goals" db:"goals"`
	Notes     sql.NullString         `json:"notes" db:"notes"`
	IsActive  bool                   `json:"is_active" db:"is_active"`
	Metadata  map[string]interface{} `json:"metadata" db:"metadata"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt time.Time              `json:"updated_at" db:"updated_at"`
	DeletedAt sql.NullTime           `json:"-" db:"deleted_at"`
}
