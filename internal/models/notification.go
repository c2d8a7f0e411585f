package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is the canonical record of an event, independent of who
// should see it. Append-only: rows are never updated after creation.
type Notification struct {
	BaseModel
	Type    string         `gorm:"not null;index" json:"type"` // "created", "updated", "deleted", "role_updated", ...
	Title   string         `gorm:"not null" json:"title"`
	Message string         `json:"message"`
	Data    datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"` // {"property_id": "...", "task_id": "..."}

	// Relations
	Deliveries []Delivery `gorm:"foreignKey:NotificationID" json:"-"`
}

// Delivery is a per-user inbox entry referencing one canonical
// notification. The (user_id, notification_id) pair is unique so a
// fan-out re-run cannot duplicate rows.
type Delivery struct {
	BaseModel
	UserID         string     `gorm:"not null;index;uniqueIndex:idx_deliveries_user_notification" json:"user_id"`
	NotificationID string     `gorm:"not null;uniqueIndex:idx_deliveries_user_notification" json:"notification_id"`
	IsRead         bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`

	// Relations
	Notification Notification `gorm:"foreignKey:NotificationID" json:"notification"`
}
