package dto

import (
	"time"

	"estatedesk_backend/internal/models"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=120"`
	Description string     `json:"description" validate:"max=2000"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	PropertyID  *string    `json:"property_id,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string            `json:"title,omitempty" validate:"omitempty,max=120"`
	Description *string            `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status      *models.TaskStatus `json:"status,omitempty" validate:"omitempty,oneof=open in_progress done"`
	DueAt       *time.Time         `json:"due_at,omitempty"`
}

type AssignTaskRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required"`
}

type TaskListResponse struct {
	Tasks    []models.Task `json:"tasks"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
