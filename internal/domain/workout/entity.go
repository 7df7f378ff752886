// internal/domain/workout/entity.go
package workout

import (
	"database/sql"
	"time"
)

// Plan is a workout plan authored by a trainer, optionally assigned to a
// coached client. Exercises are stored as a JSONB document.
type Plan struct {
	ID          int64          `json:"id" db:"id"`
	TrainerID   string         `json:"trainer_id" db:"trainer_id"`
	ClientID    sql.NullInt64  `json:"client_id" db:"client_id"`
	Title       string         `json:"title" db:"title"`
	Description sql.NullString `json:"description" db:"description"`
	Level       string         `json:"level" db:"level"` // beginner, intermediate, advanced
	Exercises   []Exercise     `json:"exercises" db:"exercises"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
	DeletedAt   sql.NullTime   `json:"-" db:"deleted_at"`
}

// Exercise is one prescribed movement inside a plan.
type Exercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds int    `json:"rest_seconds,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Plan levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)
