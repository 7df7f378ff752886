// internal/domain/workout/dto.go
package workout

// CreatePlanRequest for authoring a workout plan
type CreatePlanRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Level       string     `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Exercises   []Exercise `json:"exercises" binding:"required,min=1,dive"`
}

// UpdatePlanRequest for editing a workout plan
type UpdatePlanRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Level       string     `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Exercises   []Exercise `json:"exercises" binding:"omitempty,min=1,dive"`
}

// AssignPlanRequest assigns a plan to a coached client
type AssignPlanRequest struct {
	ClientID int64 `json:"client_id" binding:"required"`
}

// PlanList is a paginated list response
type PlanList struct {
	Plans    []*Plan `json:"plans"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}
