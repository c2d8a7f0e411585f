package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"estatedesk_backend/internal/logger"
	"estatedesk_backend/internal/models"
	"estatedesk_backend/internal/repositories"
	"estatedesk_backend/internal/services/dto"
	"estatedesk_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// Wire-level event tags pushed over live connections. Clients treat a
// received tag as "re-fetch your inbox", not as data.
const (
	EventNotificationUpdate = "notification_update"
	EventRoleUpdated        = "role_updated"
)

// Broadcaster is the live-push boundary. The ws hub implements it; the
// fan-out engine only hands it a best-effort hint after the durable
// writes succeed.
type Broadcaster interface {
	Broadcast(eventType string, recipientIDs []string)
}

type NotificationService interface {
	// Fan-out engine
	Publish(req *dto.PublishRequest) (*dto.NotificationResponse, error)
	RepairFanOut(notificationID string, userIDs []string) (int64, error)

	// Query API
	ListInbox(userID string, page, pageSize int) (*dto.InboxResponse, error)
	ListAll(page, pageSize int) (*dto.NotificationListResponse, error)
	CountUnread(userID string) (int64, error)

	// Read-state tracker
	MarkAllRead(userID string) (int64, error)
	MarkRead(userID string, deliveryIDs []string) (int64, error)

	ClearInbox(userID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	broadcaster      Broadcaster
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	broadcaster Broadcaster,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		broadcaster:      broadcaster,
	}
}

// ---------------- Fan-out engine ----------------

// Publish records the canonical notification, materializes one delivery
// row per recipient, and hints connected clients. The two writes are
// sequential, not transactional: a notification without complete
// deliveries is valid and repairable, the reverse is not.
func (s *notificationService) Publish(req *dto.PublishRequest) (*dto.NotificationResponse, error) {
	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)
	notifType := strings.TrimSpace(req.Type)

	details := make(map[string]string)
	if title == "" {
		details["title"] = "This field is required"
	}
	if message == "" {
		details["message"] = "This field is required"
	}
	if notifType == "" {
		details["type"] = "This field is required"
	}
	if len(details) > 0 {
		return nil, apperrors.ValidationError(details)
	}

	// Recipient snapshot: explicit subset, or every current user
	// resolved now, not at delivery time.
	recipients := req.UserIDs
	if recipients == nil {
		ids, err := s.userRepo.ListIDs()
		if err != nil {
			return nil, apperrors.PersistenceError("notification", err)
		}
		recipients = ids
	}
	recipients = dedupe(recipients)

	var dataJSON datatypes.JSON
	if req.Data != nil {
		raw, err := json.Marshal(req.Data)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Invalid notification data: " + err.Error())
		}
		dataJSON = datatypes.JSON(raw)
	}

	notification := &models.Notification{
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    dataJSON,
	}

	// Durable point of truth first. If this fails nothing happened.
	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		return nil, apperrors.PersistenceError("notification", err)
	}

	deliveries := make([]*models.Delivery, 0, len(recipients))
	for _, userID := range recipients {
		deliveries = append(deliveries, &models.Delivery{
			UserID:         userID,
			NotificationID: notification.ID,
		})
	}

	if _, err := s.notificationRepo.CreateDeliveries(deliveries); err != nil {
		// The notification stands; the triggering business action
		// already succeeded. Log for the repair pass and skip the live
		// hint so clients fall back to polling.
		logger.Error("fan-out incomplete, needs repair",
			"notification_id", notification.ID,
			"recipients", len(recipients),
			"error", err,
		)
		return s.buildNotificationResponse(notification), nil
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(eventTag(notifType), req.UserIDs)
	}

	return s.buildNotificationResponse(notification), nil
}

// RepairFanOut re-runs delivery materialization for a notification.
// userIDs nil targets the current full user snapshot. The uniqueness
// invariant on (user, notification) makes re-runs idempotent, so this
// is safe to call on notifications that fanned out fully.
func (s *notificationService) RepairFanOut(notificationID string, userIDs []string) (int64, error) {
	notification, err := s.notificationRepo.FindNotificationByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return 0, apperrors.NewNotFoundError("notification", "Notification not found")
		}
		return 0, err
	}

	recipients := userIDs
	if recipients == nil {
		ids, err := s.userRepo.ListIDs()
		if err != nil {
			return 0, apperrors.PersistenceError("notification", err)
		}
		recipients = ids
	}
	recipients = dedupe(recipients)

	// Diff against what already landed so only the missing rows are
	// re-inserted. The unique index still guards concurrent publishes.
	delivered, err := s.notificationRepo.FindDeliveredUserIDs(notification.ID)
	if err != nil {
		return 0, apperrors.PersistenceError("notification", err)
	}
	deliveredSet := make(map[string]bool, len(delivered))
	for _, id := range delivered {
		deliveredSet[id] = true
	}

	deliveries := make([]*models.Delivery, 0, len(recipients))
	for _, userID := range recipients {
		if deliveredSet[userID] {
			continue
		}
		deliveries = append(deliveries, &models.Delivery{
			UserID:         userID,
			NotificationID: notification.ID,
		})
	}
	if len(deliveries) == 0 {
		logger.Info("fan-out already complete", "notification_id", notificationID)
		return 0, nil
	}

	created, err := s.notificationRepo.CreateDeliveries(deliveries)
	if err != nil {
		return created, apperrors.PersistenceError("notification", err)
	}

	logger.Info("fan-out repaired", "notification_id", notificationID, "created", created)
	return created, nil
}

// ---------------- Query API ----------------

// ListInbox returns the user's unread deliveries, newest first. Pages
// past the end yield an empty list with a valid total so clients can
// detect "no more pages" without an error path.
func (s *notificationService) ListInbox(userID string, page, pageSize int) (*dto.InboxResponse, error) {
	if page < 1 || pageSize < 1 {
		return nil, apperrors.NewBadRequestError("page and page_size must be positive")
	}

	deliveries, totalUnread, err := s.notificationRepo.FindUnreadDeliveries(userID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DeliveryResponse, 0, len(deliveries))
	for i := range deliveries {
		responses = append(responses, s.buildDeliveryResponse(&deliveries[i]))
	}

	return &dto.InboxResponse{
		Deliveries:  responses,
		TotalUnread: totalUnread,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

func (s *notificationService) ListAll(page, pageSize int) (*dto.NotificationListResponse, error) {
	if page < 1 || pageSize < 1 {
		return nil, apperrors.NewBadRequestError("page and page_size must be positive")
	}

	notifications, total, err := s.notificationRepo.FindAllNotifications(page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, s.buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    calculateTotalPages(total, pageSize),
	}, nil
}

func (s *notificationService) CountUnread(userID string) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

// ---------------- Read-state tracker ----------------

func (s *notificationService) MarkAllRead(userID string) (int64, error) {
	return s.notificationRepo.MarkAllRead(userID)
}

// MarkRead marks only deliveries owned by userID; foreign ids are
// dropped silently so callers cannot probe other users' inboxes.
func (s *notificationService) MarkRead(userID string, deliveryIDs []string) (int64, error) {
	return s.notificationRepo.MarkRead(userID, deliveryIDs)
}

func (s *notificationService) ClearInbox(userID string) error {
	return s.notificationRepo.DeleteUserDeliveries(userID)
}

// ---------------- Helpers ----------------

// eventTag maps a notification type to the wire-level event tag.
func eventTag(notifType string) string {
	if notifType == repositories.NotificationTypeRoleUpdated {
		return EventRoleUpdated
	}
	return EventNotificationUpdate
}

func (s *notificationService) buildNotificationResponse(notification *models.Notification) *dto.NotificationResponse {
	response := &dto.NotificationResponse{
		ID:        notification.ID,
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		CreatedAt: notification.CreatedAt,
	}

	if len(notification.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(notification.Data, &data); err == nil {
			response.Data = data
		}
	}

	return response
}

func (s *notificationService) buildDeliveryResponse(delivery *models.Delivery) *dto.DeliveryResponse {
	return &dto.DeliveryResponse{
		ID:           delivery.ID,
		IsRead:       delivery.IsRead,
		ReadAt:       delivery.ReadAt,
		CreatedAt:    delivery.CreatedAt,
		Notification: *s.buildNotificationResponse(&delivery.Notification),
	}
}

func dedupe(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pages++
	}
	return int(pages)
}

// PublishEvent is a convenience for business services: build the
// request, publish, and surface persistence failures to the caller so
// the triggering action can decide to retry.
func PublishEvent(svc NotificationService, title, message, notifType string, userIDs []string, data map[string]interface{}) error {
	_, err := svc.Publish(&dto.PublishRequest{
		Title:   title,
		Message: message,
		Type:    notifType,
		UserIDs: userIDs,
		Data:    data,
	})
	if err != nil {
		return fmt.Errorf("publish %q notification: %w", notifType, err)
	}
	return nil
}
