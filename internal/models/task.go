package models

import "time"

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

type Task struct {
	BaseModel
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);default:'open';index" json:"status"`
	AssigneeID  *string    `gorm:"index" json:"assignee_id,omitempty"`
	PropertyID  *string    `gorm:"index" json:"property_id,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CreatedBy   string     `gorm:"index" json:"created_by"`
}
