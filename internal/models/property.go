package models

type PropertyStatus string

const (
	PropertyStatusVacant      PropertyStatus = "vacant"
	PropertyStatusOccupied    PropertyStatus = "occupied"
	PropertyStatusMaintenance PropertyStatus = "maintenance"
)

type Property struct {
	BaseModel
	Name        string         `gorm:"not null" json:"name"`
	Address     string         `gorm:"not null" json:"address"`
	City        string         `gorm:"index" json:"city"`
	MonthlyRent float64        `json:"monthly_rent"`
	Status      PropertyStatus `gorm:"type:varchar(20);default:'vacant'" json:"status"`
	TenantName  string         `json:"tenant_name"`
	CreatedBy   string         `gorm:"index" json:"created_by"`

	// Relations
	RentRecords []RentRecord `gorm:"foreignKey:PropertyID" json:"-"`
}
