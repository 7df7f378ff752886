// internal/repository/postgres/workout_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fitcoach-service/internal/domain/workout"
	xerrors "fitcoach-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WorkoutRepository struct {
	db *pgxpool.Pool
}

func NewWorkoutRepository(db *pgxpool.Pool) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

// Create creates a new workout plan
func (r *WorkoutRepository) Create(ctx context.Context, p *workout.Plan) error {
	query := `
		INSERT INTO workout_plans (
			trainer_id, client_id, title, description, level, exercises
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	exercisesJSON, err := json.Marshal(p.Exercises)
	if err != nil {
		return fmt.Errorf("failed to marshal exercises: %w", err)
	}

	err = r.db.QueryRow(
		ctx, query,
		p.TrainerID, p.ClientID, p.Title, p.Description, p.Level, exercisesJSON,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create workout plan: %w", err)
	}

	return nil
}

// FindByID retrieves a plan owned by the given trainer
func (r *WorkoutRepository) FindByID(ctx context.Context, trainerID string, id int64) (*workout.Plan, error) {
	query := `
		SELECT id, trainer_id, client_id, title, description, level, exercises,
		       created_at, updated_at, deleted_at
		FROM workout_plans
		WHERE id = $1 AND trainer_id = $2 AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(ctx, query, id, trainerID))
}

// List returns the trainer's plans, newest first.
func (r *WorkoutRepository) List(ctx context.Context, trainerID string, page, pageSize int) ([]*workout.Plan, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM workout_plans WHERE trainer_id = $1 AND deleted_at IS NULL`
	if err := r.db.QueryRow(ctx, countQuery, trainerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count workout plans: %w", err)
	}

	query := `
		SELECT id, trainer_id, client_id, title, description, level, exercises,
		       created_at, updated_at, deleted_at
		FROM workout_plans
		WHERE trainer_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, trainerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list workout plans: %w", err)
	}
	defer rows.Close()

	var plans []*workout.Plan
	for rows.Next() {
		p, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		plans = append(plans, p)
	}

	return plans, total, rows.Err()
}

// ListByClient returns plans assigned to one coached client.
func (r *WorkoutRepository) ListByClient(ctx context.Context, trainerID string, clientID int64) ([]*workout.Plan, error) {
	query := `
		SELECT id, trainer_id, client_id, title, description, level, exercises,
		       created_at, updated_at, deleted_at
		FROM workout_plans
		WHERE trainer_id = $1 AND client_id = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, trainerID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client plans: %w", err)
	}
	defer rows.Close()

	var plans []*workout.Plan
	for rows.Next() {
		p, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	return plans, rows.Err()
}

// Update updates mutable plan fields
func (r *WorkoutRepository) Update(ctx context.Context, p *workout.Plan) error {
	query := `
		UPDATE workout_plans
		SET title = $1, description = $2, level = $3, exercises = $4, updated_at = NOW()
		WHERE id = $5 AND trainer_id = $6 AND deleted_at IS NULL
		RETURNING updated_at
	`

	exercisesJSON, err := json.Marshal(p.Exercises)
	if err != nil {
		return fmt.Errorf("failed to marshal exercises: %w", err)
	}

	err = r.db.QueryRow(
		ctx, query,
		p.Title, p.Description, p.Level, exercisesJSON, p.ID, p.TrainerID,
	).Scan(&p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update workout plan: %w", err)
	}

	return nil
}

// Assign links a plan to a coached client
func (r *WorkoutRepository) Assign(ctx context.Context, trainerID string, planID, clientID int64) error {
	query := `
		UPDATE workout_plans SET client_id = $1, updated_at = NOW()
		WHERE id = $2 AND trainer_id = $3 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, clientID, planID, trainerID)
	if err != nil {
		return fmt.Errorf("failed to assign workout plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete soft-deletes a plan
func (r *WorkoutRepository) Delete(ctx context.Context, trainerID string, id int64) error {
	query := `
		UPDATE workout_plans SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND trainer_id = $2 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, id, trainerID)
	if err != nil {
		return fmt.Errorf("failed to delete workout plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func (r *WorkoutRepository) scanOne(row rowScanner) (*workout.Plan, error) {
	var p workout.Plan
	var exercisesJSON []byte

	err := row.Scan(
		&p.ID, &p.TrainerID, &p.ClientID, &p.Title, &p.Description, &p.Level,
		&exercisesJSON, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan workout plan: %w", err)
	}

	if len(exercisesJSON) > 0 {
		if err := json.Unmarshal(exercisesJSON, &p.Exercises); err != nil {
			return nil, fmt.Errorf("failed to unmarshal exercises: %w", err)
		}
	}

	return &p, nil
}
