package dto

import "estatedesk_backend/internal/models"

type CreateTenantQueryRequest struct {
	PropertyID string `json:"property_id"`
	TenantName string `json:"tenant_name" validate:"required,max=100"`
	Subject    string `json:"subject" validate:"required,max=200"`
	Body       string `json:"body" validate:"max=2000"`
}

type TenantQueryListResponse struct {
	Queries  []models.TenantQuery `json:"queries"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}
