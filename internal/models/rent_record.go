package models

import "time"

type RentRecord struct {
	BaseModel
	PropertyID string    `gorm:"not null;index" json:"property_id"`
	Amount     float64   `gorm:"not null" json:"amount"`
	PaidAt     time.Time `gorm:"not null" json:"paid_at"`
	Period     string    `gorm:"not null" json:"period"` // "2026-08"
	Note       string    `json:"note"`
	RecordedBy string    `gorm:"index" json:"recorded_by"`

	// Relations
	Property Property `gorm:"foreignKey:PropertyID" json:"-"`
}
