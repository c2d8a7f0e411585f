package repositories

import (
	"errors"

	"estatedesk_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRentRecordNotFound = errors.New("rent record not found")

type RentRecordRepository interface {
	Create(record *models.RentRecord) error
	FindByID(id string) (*models.RentRecord, error)
	FindByProperty(propertyID string, page, pageSize int) ([]models.RentRecord, int64, error)
}

type RentRecordRepositoryImpl struct {
	db *gorm.DB
}

func NewRentRecordRepository(db *gorm.DB) RentRecordRepository {
	return &RentRecordRepositoryImpl{db: db}
}

func (r *RentRecordRepositoryImpl) Create(record *models.RentRecord) error {
	return r.db.Create(record).Error
}

func (r *RentRecordRepositoryImpl) FindByID(id string) (*models.RentRecord, error) {
	var record models.RentRecord
	err := r.db.First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *RentRecordRepositoryImpl) FindByProperty(propertyID string, page, pageSize int) ([]models.RentRecord, int64, error) {
	query := r.db.Model(&models.RentRecord{}).Where("property_id = ?", propertyID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.RentRecord
	offset := (page - 1) * pageSize
	err := query.Order("paid_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&records).Error

	return records, total, err
}
