package repositories

import (
	"errors"

	"estatedesk_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskRepository interface {
	Create(task *models.Task) error
	FindByID(id string) (*models.Task, error)
	FindAll(page, pageSize int) ([]models.Task, int64, error)
	FindByAssignee(assigneeID string, page, pageSize int) ([]models.Task, int64, error)
	Update(task *models.Task) error
	Delete(id string) error
}

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

func (r *TaskRepositoryImpl) FindByID(id string) (*models.Task, error) {
	var task models.Task
	err := r.db.First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) FindAll(page, pageSize int) ([]models.Task, int64, error) {
	return r.findPaged(r.db.Model(&models.Task{}), page, pageSize)
}

func (r *TaskRepositoryImpl) FindByAssignee(assigneeID string, page, pageSize int) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).Where("assignee_id = ?", assigneeID)
	return r.findPaged(query, page, pageSize)
}

func (r *TaskRepositoryImpl) findPaged(query *gorm.DB, page, pageSize int) ([]models.Task, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&tasks).Error

	return tasks, total, err
}

func (r *TaskRepositoryImpl) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

func (r *TaskRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
