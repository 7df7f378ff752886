// internal/handlers/workout/workout_handler.go
package workout

import (
	"net/http"
	"strconv"

	"fitcoach-service/internal/domain/workout"
	"fitcoach-service/internal/middleware"
	xerrors "fitcoach-service/internal/pkg/errors"
	"fitcoach-service/internal/pkg/response"
	workoutUsecase "fitcoach-service/internal/service/workout"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WorkoutHandler struct {
	workoutService *workoutUsecase.WorkoutService
	logger         *zap.Logger
}

func NewWorkoutHandler(workoutService *workoutUsecase.WorkoutService, logger *zap.Logger) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		logger:         logger,
	}
}

// Create authors a new workout plan (trainer only)
func (h *WorkoutHandler) Create(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	var req workout.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	plan, err := h.workoutService.CreatePlan(c.Request.Context(), trainerID, &req)
	if err != nil {
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusCreated, plan)
}

// Get retrieves one plan
func (h *WorkoutHandler) Get(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	planID, ok := pathID(c, "id")
	if !ok {
		return
	}

	plan, err := h.workoutService.GetPlan(c.Request.Context(), trainerID, planID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "workout plan not found")
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, plan)
}

// List lists the trainer's plans
func (h *WorkoutHandler) List(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	list, err := h.workoutService.ListPlans(c.Request.Context(), trainerID, page, pageSize)
	if err != nil {
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, list)
}

// ListForClient lists plans assigned to one coached client
func (h *WorkoutHandler) ListForClient(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	clientID, ok := pathID(c, "client_id")
	if !ok {
		return
	}

	plans, err := h.workoutService.ListClientPlans(c.Request.Context(), trainerID, clientID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "client not found")
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"plans": plans})
}

// Update edits a workout plan
func (h *WorkoutHandler) Update(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	planID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req workout.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	plan, err := h.workoutService.UpdatePlan(c.Request.Context(), trainerID, planID, &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "workout plan not found")
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, plan)
}

// Assign assigns a plan to a coached client
func (h *WorkoutHandler) Assign(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	planID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req workout.AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.workoutService.AssignPlan(c.Request.Context(), trainerID, planID, req.ClientID); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "plan or client not found")
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assigned": true})
}

// Delete soft-deletes a plan
func (h *WorkoutHandler) Delete(c *gin.Context) {
	trainerID := middleware.MustGetUserID(c)

	planID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.workoutService.DeletePlan(c.Request.Context(), trainerID, planID); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "workout plan not found")
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		response.ValidationError(c, "invalid "+name, nil)
		return 0, false
	}
	return id, true
}
