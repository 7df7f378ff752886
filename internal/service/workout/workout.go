// internal/service/workout/workout.go
package workout

import (
	"context"
	"database/sql"
	"fmt"

	"fitcoach-service/internal/domain/workout"
	"fitcoach-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type WorkoutService struct {
	workoutRepo *postgres.WorkoutRepository
	clientRepo  *postgres.ClientRepository
	logger      *zap.Logger
}

func NewWorkoutService(workoutRepo *postgres.WorkoutRepository, clientRepo *postgres.ClientRepository, logger *zap.Logger) *WorkoutService {
	return &WorkoutService{
		workoutRepo: workoutRepo,
		clientRepo:  clientRepo,
		logger:      logger,
	}
}

// CreatePlan authors a new workout plan
func (s *WorkoutService) CreatePlan(ctx context.Context, trainerID string, req *workout.CreatePlanRequest) (*workout.Plan, error) {
	level := req.Level
	if level == "" {
		level = workout.LevelBeginner
	}

	p := &workout.Plan{
		TrainerID:   trainerID,
		Title:       req.Title,
		Description: sql.NullString{String: req.Description, Valid: req.Description != ""},
		Level:       level,
		Exercises:   req.Exercises,
	}

	if err := s.workoutRepo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create workout plan", zap.Error(err))
		return nil, fmt.Errorf("failed to create workout plan: %w", err)
	}

	s.logger.Info("workout plan created",
		zap.Int64("plan_id", p.ID),
		zap.String("trainer_id", trainerID),
	)

	return p, nil
}

// GetPlan retrieves one of the trainer's plans
func (s *WorkoutService) GetPlan(ctx context.Context, trainerID string, planID int64) (*workout.Plan, error) {
	return s.workoutRepo.FindByID(ctx, trainerID, planID)
}

// ListPlans lists the trainer's plans
func (s *WorkoutService) ListPlans(ctx context.Context, trainerID string, page, pageSize int) (*workout.PlanList, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	plans, total, err := s.workoutRepo.List(ctx, trainerID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list workout plans: %w", err)
	}

	return &workout.PlanList{
		Plans:    plans,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// ListClientPlans lists plans assigned to one coached client
func (s *WorkoutService) ListClientPlans(ctx context.Context, trainerID string, clientID int64) ([]*workout.Plan, error) {
	// Ownership check before exposing assignments
	if _, err := s.clientRepo.FindByID(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.workoutRepo.ListByClient(ctx, trainerID, clientID)
}

// UpdatePlan edits a workout plan
func (s *WorkoutService) UpdatePlan(ctx context.Context, trainerID string, planID int64, req *workout.UpdatePlanRequest) (*workout.Plan, error) {
	p, err := s.workoutRepo.FindByID(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		p.Title = req.Title
	}
	if req.Description != "" {
		p.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if req.Level != "" {
		p.Level = req.Level
	}
	if req.Exercises != nil {
		p.Exercises = req.Exercises
	}

	if err := s.workoutRepo.Update(ctx, p); err != nil {
		s.logger.Error("failed to update workout plan", zap.Int64("plan_id", planID), zap.Error(err))
		return nil, err
	}

	return p, nil
}

// AssignPlan assigns a plan to a coached client after an ownership check
func (s *WorkoutService) AssignPlan(ctx context.Context, trainerID string, planID, clientID int64) error {
	if _, err := s.clientRepo.FindByID(ctx, trainerID, clientID); err != nil {
		return err
	}

	if err := s.workoutRepo.Assign(ctx, trainerID, planID, clientID); err != nil {
		return err
	}

	s.logger.Info("workout plan assigned",
		zap.Int64("plan_id", planID),
		zap.Int64("client_id", clientID),
	)
	return nil
}

// DeletePlan soft-deletes a plan
func (s *WorkoutService) DeletePlan(ctx context.Context, trainerID string, planID int64) error {
	return s.workoutRepo.Delete(ctx, trainerID, planID)
}
