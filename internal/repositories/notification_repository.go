package repositories

import (
	"errors"
	"time"

	"estatedesk_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Shared notification type vocabulary. The type column is a free-form
// tag at the storage boundary; business callers stick to these values
// so clients can filter and render by category.
const (
	NotificationTypeCreated       = "created"
	NotificationTypeUpdated       = "updated"
	NotificationTypeDeleted       = "deleted"
	NotificationTypeRoleUpdated   = "role_updated"
	NotificationTypeTaskAssigned  = "task_assigned"
	NotificationTypeRentRecorded  = "rent_recorded"
	NotificationTypeQueryResolved = "query_resolved"
)

type NotificationRepository interface {
	// Canonical notification operations
	CreateNotification(notification *models.Notification) error
	FindNotificationByID(id string) (*models.Notification, error)
	FindAllNotifications(page, pageSize int) ([]models.Notification, int64, error)

	// Delivery (fan-out) operations
	CreateDeliveries(deliveries []*models.Delivery) (int64, error)
	FindUnreadDeliveries(userID string, page, pageSize int) ([]models.Delivery, int64, error)
	FindDeliveredUserIDs(notificationID string) ([]string, error)
	CountUnread(userID string) (int64, error)
	MarkAllRead(userID string) (int64, error)
	MarkRead(userID string, deliveryIDs []string) (int64, error)
	DeleteUserDeliveries(userID string) error
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

// --- Canonical notification operations ---

func (r *NotificationRepositoryImpl) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindNotificationByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindAllNotifications(page, pageSize int) ([]models.Notification, int64, error) {
	var total int64
	if err := r.db.Model(&models.Notification{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	offset := (page - 1) * pageSize
	err := r.db.Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&notifications).Error

	return notifications, total, err
}

// --- Delivery (fan-out) operations ---

// CreateDeliveries bulk-inserts delivery rows, skipping (user,
// notification) pairs that already exist. This keeps a fan-out repair
// re-run idempotent. Returns the number of rows actually inserted.
func (r *NotificationRepositoryImpl) CreateDeliveries(deliveries []*models.Delivery) (int64, error) {
	if len(deliveries) == 0 {
		return 0, nil
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "notification_id"}},
		DoNothing: true,
	}).CreateInBatches(deliveries, 100)

	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) FindUnreadDeliveries(userID string, page, pageSize int) ([]models.Delivery, int64, error) {
	query := r.db.Model(&models.Delivery{}).Where("user_id = ? AND is_read = ?", userID, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var deliveries []models.Delivery
	offset := (page - 1) * pageSize
	err := query.Preload("Notification").
		Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&deliveries).Error

	return deliveries, total, err
}

func (r *NotificationRepositoryImpl) FindDeliveredUserIDs(notificationID string) ([]string, error) {
	var userIDs []string
	err := r.db.Model(&models.Delivery{}).
		Where("notification_id = ?", notificationID).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func (r *NotificationRepositoryImpl) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Delivery{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAllRead flips every unread delivery for the user. Idempotent: a
// second call with no new deliveries affects zero rows and keeps the
// original read_at stamps.
func (r *NotificationRepositoryImpl) MarkAllRead(userID string) (int64, error) {
	result := r.db.Model(&models.Delivery{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// MarkRead flips the listed deliveries. Ownership is part of the WHERE
// clause, so ids belonging to another user are silently skipped rather
// than reported.
func (r *NotificationRepositoryImpl) MarkRead(userID string, deliveryIDs []string) (int64, error) {
	if len(deliveryIDs) == 0 {
		return 0, nil
	}

	result := r.db.Model(&models.Delivery{}).
		Where("user_id = ? AND id IN ? AND is_read = ?", userID, deliveryIDs, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// DeleteUserDeliveries clears the caller's inbox. Presentation-only
// convenience; canonical notifications are untouched.
func (r *NotificationRepositoryImpl) DeleteUserDeliveries(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Delivery{}).Error
}
