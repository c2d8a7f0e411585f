package dto

import (
	"time"

	"estatedesk_backend/internal/models"
)

type CreateRentRecordRequest struct {
	PropertyID string     `json:"property_id" validate:"required"`
	Amount     float64    `json:"amount" validate:"required,gt=0"`
	Period     string     `json:"period" validate:"required,len=7"` // "2026-08"
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	Note       string     `json:"note" validate:"max=500"`
}

type RentRecordListResponse struct {
	Records  []models.RentRecord `json:"records"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}
