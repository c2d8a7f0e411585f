package dto

import "estatedesk_backend/internal/models"

type CreatePropertyRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Address     string  `json:"address" validate:"required,max=250"`
	City        string  `json:"city" validate:"max=100"`
	MonthlyRent float64 `json:"monthly_rent" validate:"gte=0"`
	TenantName  string  `json:"tenant_name" validate:"max=100"`
}

type UpdatePropertyRequest struct {
	Name        *string                `json:"name,omitempty" validate:"omitempty,max=120"`
	Address     *string                `json:"address,omitempty" validate:"omitempty,max=250"`
	City        *string                `json:"city,omitempty" validate:"omitempty,max=100"`
	MonthlyRent *float64               `json:"monthly_rent,omitempty" validate:"omitempty,gte=0"`
	Status      *models.PropertyStatus `json:"status,omitempty" validate:"omitempty,oneof=vacant occupied maintenance"`
	TenantName  *string                `json:"tenant_name,omitempty" validate:"omitempty,max=100"`
}

type PropertyListResponse struct {
	Properties []models.Property `json:"properties"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
}
