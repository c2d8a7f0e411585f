package models

import "time"

type TenantQueryStatus string

const (
	TenantQueryStatusOpen     TenantQueryStatus = "open"
	TenantQueryStatusResolved TenantQueryStatus = "resolved"
)

// TenantQuery is an inbound question or complaint from a tenant,
// tracked until a staff member resolves it.
type TenantQuery struct {
	BaseModel
	PropertyID string            `gorm:"index" json:"property_id"`
	TenantName string            `gorm:"not null" json:"tenant_name"`
	Subject    string            `gorm:"not null" json:"subject"`
	Body       string            `json:"body"`
	Status     TenantQueryStatus `gorm:"type:varchar(20);default:'open';index" json:"status"`
	ResolvedBy *string           `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time        `json:"resolved_at,omitempty"`
}
