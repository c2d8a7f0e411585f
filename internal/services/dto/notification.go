package dto

import "time"

// ---------------- Requests ----------------

// PublishRequest is the fan-out entry point. UserIDs nil means "every
// current user", resolved as a snapshot at publish time.
type PublishRequest struct {
	Title   string                 `json:"title" validate:"required,max=120"`
	Message string                 `json:"message" validate:"required,max=1000"`
	Type    string                 `json:"type" validate:"required,max=50"`
	UserIDs []string               `json:"user_ids,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// RepairFanOutRequest re-runs delivery materialization for an existing
// notification. UserIDs nil re-resolves the full user snapshot.
type RepairFanOutRequest struct {
	UserIDs []string `json:"user_ids,omitempty"`
}

type MarkReadRequest struct {
	DeliveryIDs []string `json:"delivery_ids" validate:"required,min=1"`
}

// ---------------- Responses ----------------

type NotificationResponse struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type DeliveryResponse struct {
	ID           string               `json:"id"`
	IsRead       bool                 `json:"is_read"`
	ReadAt       *time.Time           `json:"read_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	Notification NotificationResponse `json:"notification"`
}

type InboxResponse struct {
	Deliveries  []*DeliveryResponse `json:"deliveries"`
	TotalUnread int64               `json:"total_unread"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
	TotalPages    int                     `json:"total_pages"`
}
