package repositories

import (
	"errors"
	"time"

	"estatedesk_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTenantQueryNotFound = errors.New("tenant query not found")

type TenantQueryRepository interface {
	Create(query *models.TenantQuery) error
	FindByID(id string) (*models.TenantQuery, error)
	FindAll(status string, page, pageSize int) ([]models.TenantQuery, int64, error)
	Resolve(id, resolverID string) error
}

type TenantQueryRepositoryImpl struct {
	db *gorm.DB
}

func NewTenantQueryRepository(db *gorm.DB) TenantQueryRepository {
	return &TenantQueryRepositoryImpl{db: db}
}

func (r *TenantQueryRepositoryImpl) Create(query *models.TenantQuery) error {
	return r.db.Create(query).Error
}

func (r *TenantQueryRepositoryImpl) FindByID(id string) (*models.TenantQuery, error) {
	var query models.TenantQuery
	err := r.db.First(&query, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantQueryNotFound
		}
		return nil, err
	}
	return &query, nil
}

func (r *TenantQueryRepositoryImpl) FindAll(status string, page, pageSize int) ([]models.TenantQuery, int64, error) {
	query := r.db.Model(&models.TenantQuery{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var queries []models.TenantQuery
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&queries).Error

	return queries, total, err
}

func (r *TenantQueryRepositoryImpl) Resolve(id, resolverID string) error {
	result := r.db.Model(&models.TenantQuery{}).
		Where("id = ? AND status = ?", id, models.TenantQueryStatusOpen).
		Updates(map[string]interface{}{
			"status":      models.TenantQueryStatusResolved,
			"resolved_by": resolverID,
			"resolved_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTenantQueryNotFound
	}
	return nil
}
