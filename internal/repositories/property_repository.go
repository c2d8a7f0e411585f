package repositories

import (
	"errors"

	"estatedesk_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPropertyNotFound = errors.New("property not found")

type PropertyRepository interface {
	Create(property *models.Property) error
	FindByID(id string) (*models.Property, error)
	FindAll(page, pageSize int) ([]models.Property, int64, error)
	Update(property *models.Property) error
	Delete(id string) error
}

type PropertyRepositoryImpl struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &PropertyRepositoryImpl{db: db}
}

func (r *PropertyRepositoryImpl) Create(property *models.Property) error {
	return r.db.Create(property).Error
}

func (r *PropertyRepositoryImpl) FindByID(id string) (*models.Property, error) {
	var property models.Property
	err := r.db.First(&property, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepositoryImpl) FindAll(page, pageSize int) ([]models.Property, int64, error) {
	var total int64
	if err := r.db.Model(&models.Property{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var properties []models.Property
	offset := (page - 1) * pageSize
	err := r.db.Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&properties).Error

	return properties, total, err
}

func (r *PropertyRepositoryImpl) Update(property *models.Property) error {
	return r.db.Save(property).Error
}

func (r *PropertyRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Property{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
