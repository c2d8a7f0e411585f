package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"estatedesk_backend/internal/models"
	"estatedesk_backend/internal/repositories"
	"estatedesk_backend/internal/services/dto"
	"estatedesk_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------- Fakes ----------------

type fakeUserRepo struct {
	repositories.UserRepository

	ids     []string
	listErr error
}

func (f *fakeUserRepo) ListIDs() ([]string, error) {
	return f.ids, f.listErr
}

func (f *fakeUserRepo) FindByID(id string) (*models.User, error) {
	for _, known := range f.ids {
		if known == id {
			return &models.User{Name: "user-" + id}, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

type fakeNotificationRepo struct {
	repositories.NotificationRepository

	notifications map[string]*models.Notification
	deliveries    []*models.Delivery

	// user ids handed to the most recent CreateDeliveries call
	lastBatchUsers []string

	createNotificationErr error
	createDeliveriesErr   error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[string]*models.Notification)}
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	if f.createNotificationErr != nil {
		return f.createNotificationErr
	}
	if n.ID == "" {
		n.ID = "notif-1"
	}
	f.notifications[n.ID] = n
	return nil
}

func (f *fakeNotificationRepo) FindNotificationByID(id string) (*models.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, repositories.ErrNotificationNotFound
	}
	return n, nil
}

// CreateDeliveries mirrors the storage behavior: duplicate
// (user, notification) pairs are skipped, not re-inserted.
func (f *fakeNotificationRepo) CreateDeliveries(deliveries []*models.Delivery) (int64, error) {
	if f.createDeliveriesErr != nil {
		return 0, f.createDeliveriesErr
	}
	f.lastBatchUsers = nil
	var created int64
	for _, d := range deliveries {
		f.lastBatchUsers = append(f.lastBatchUsers, d.UserID)
		if f.hasDelivery(d.UserID, d.NotificationID) {
			continue
		}
		if d.ID == "" {
			d.ID = fmt.Sprintf("d%d", len(f.deliveries)+1)
		}
		f.deliveries = append(f.deliveries, d)
		created++
	}
	return created, nil
}

func (f *fakeNotificationRepo) hasDelivery(userID, notificationID string) bool {
	for _, d := range f.deliveries {
		if d.UserID == userID && d.NotificationID == notificationID {
			return true
		}
	}
	return false
}

func (f *fakeNotificationRepo) FindDeliveredUserIDs(notificationID string) ([]string, error) {
	var ids []string
	for _, d := range f.deliveries {
		if d.NotificationID == notificationID {
			ids = append(ids, d.UserID)
		}
	}
	return ids, nil
}

// The read-state fakes mirror the SQL: ownership and is_read=false are
// part of the match, so foreign and already-read rows never change.

func (f *fakeNotificationRepo) MarkAllRead(userID string) (int64, error) {
	now := time.Now()
	var updated int64
	for _, d := range f.deliveries {
		if d.UserID == userID && !d.IsRead {
			stamp := now
			d.IsRead = true
			d.ReadAt = &stamp
			updated++
		}
	}
	return updated, nil
}

func (f *fakeNotificationRepo) MarkRead(userID string, deliveryIDs []string) (int64, error) {
	requested := make(map[string]bool, len(deliveryIDs))
	for _, id := range deliveryIDs {
		requested[id] = true
	}
	now := time.Now()
	var updated int64
	for _, d := range f.deliveries {
		if requested[d.ID] && d.UserID == userID && !d.IsRead {
			stamp := now
			d.IsRead = true
			d.ReadAt = &stamp
			updated++
		}
	}
	return updated, nil
}

func (f *fakeNotificationRepo) FindUnreadDeliveries(userID string, page, pageSize int) ([]models.Delivery, int64, error) {
	var unread []models.Delivery
	for _, d := range f.deliveries {
		if d.UserID == userID && !d.IsRead {
			unread = append(unread, *d)
		}
	}
	total := int64(len(unread))

	start := (page - 1) * pageSize
	if start >= len(unread) {
		return []models.Delivery{}, total, nil
	}
	end := start + pageSize
	if end > len(unread) {
		end = len(unread)
	}
	return unread[start:end], total, nil
}

func (f *fakeNotificationRepo) seed(id, userID, notificationID string) *models.Delivery {
	d := &models.Delivery{
		BaseModel:      models.BaseModel{ID: id},
		UserID:         userID,
		NotificationID: notificationID,
	}
	f.deliveries = append(f.deliveries, d)
	return d
}

type recorderBroadcaster struct {
	events     []string
	recipients [][]string
}

func (r *recorderBroadcaster) Broadcast(eventType string, recipientIDs []string) {
	r.events = append(r.events, eventType)
	r.recipients = append(r.recipients, recipientIDs)
}

func newTestService(notifRepo *fakeNotificationRepo, userRepo *fakeUserRepo, b Broadcaster) NotificationService {
	return NewNotificationService(notifRepo, userRepo, b)
}

// ---------------- Publish ----------------

func TestPublish_GlobalFanOut(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	userRepo := &fakeUserRepo{ids: []string{"u1", "u2", "u3"}}
	broadcaster := &recorderBroadcaster{}
	svc := newTestService(notifRepo, userRepo, broadcaster)

	resp, err := svc.Publish(&dto.PublishRequest{
		Title:   "Property created",
		Message: "New property added",
		Type:    repositories.NotificationTypeCreated,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Len(t, notifRepo.deliveries, 3, "one delivery per user in the snapshot")
	for _, d := range notifRepo.deliveries {
		assert.Equal(t, resp.ID, d.NotificationID)
	}

	require.Len(t, broadcaster.events, 1)
	assert.Equal(t, EventNotificationUpdate, broadcaster.events[0])
	assert.Nil(t, broadcaster.recipients[0], "global publish hints all connections")
}

func TestPublish_ScopedFanOutDeduplicatesRecipients(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	userRepo := &fakeUserRepo{ids: []string{"u1", "u2", "u3"}}
	broadcaster := &recorderBroadcaster{}
	svc := newTestService(notifRepo, userRepo, broadcaster)

	_, err := svc.Publish(&dto.PublishRequest{
		Title:   "Task assigned",
		Message: "You have a new task",
		Type:    repositories.NotificationTypeTaskAssigned,
		UserIDs: []string{"u1", "u1", "u2"},
	})
	require.NoError(t, err)

	assert.Len(t, notifRepo.deliveries, 2, "duplicate recipient ids collapse to one delivery")

	require.Len(t, broadcaster.recipients, 1)
	assert.Equal(t, []string{"u1", "u1", "u2"}, broadcaster.recipients[0],
		"broadcast scope is the caller's subset")
}

func TestPublish_ValidationFailure(t *testing.T) {
	svc := newTestService(newFakeNotificationRepo(), &fakeUserRepo{}, &recorderBroadcaster{})

	_, err := svc.Publish(&dto.PublishRequest{Title: "  ", Message: "", Type: "created"})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestPublish_CanonicalPersistFailureAborts(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	notifRepo.createNotificationErr = errors.New("connection refused")
	broadcaster := &recorderBroadcaster{}
	svc := newTestService(notifRepo, &fakeUserRepo{ids: []string{"u1"}}, broadcaster)

	_, err := svc.Publish(&dto.PublishRequest{
		Title:   "Rent recorded",
		Message: "Rent paid",
		Type:    repositories.NotificationTypeRentRecorded,
	})
	require.Error(t, err)

	assert.Empty(t, notifRepo.deliveries, "no deliveries without a canonical notification")
	assert.Empty(t, broadcaster.events, "no live hint when nothing happened")
}

func TestPublish_PartialFanOutSkipsBroadcast(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	notifRepo.createDeliveriesErr = errors.New("deadlock detected")
	broadcaster := &recorderBroadcaster{}
	svc := newTestService(notifRepo, &fakeUserRepo{ids: []string{"u1", "u2"}}, broadcaster)

	resp, err := svc.Publish(&dto.PublishRequest{
		Title:   "Property updated",
		Message: "Rent changed",
		Type:    repositories.NotificationTypeUpdated,
	})
	require.NoError(t, err, "the canonical notification stands even when fan-out fails")
	require.NotNil(t, resp)

	assert.Empty(t, broadcaster.events,
		"clients without deliveries must not be told to re-fetch")
}

func TestPublish_RoleUpdatedUsesOwnEventTag(t *testing.T) {
	broadcaster := &recorderBroadcaster{}
	svc := newTestService(newFakeNotificationRepo(), &fakeUserRepo{ids: []string{"u1"}}, broadcaster)

	_, err := svc.Publish(&dto.PublishRequest{
		Title:   "Role updated",
		Message: "You are now a manager",
		Type:    repositories.NotificationTypeRoleUpdated,
	})
	require.NoError(t, err)

	require.Len(t, broadcaster.events, 1)
	assert.Equal(t, EventRoleUpdated, broadcaster.events[0])
}

// ---------------- RepairFanOut ----------------

func TestRepairFanOut_FillsMissingDeliveries(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	userRepo := &fakeUserRepo{ids: []string{"u1", "u2", "u3"}}
	svc := newTestService(notifRepo, userRepo, &recorderBroadcaster{})

	resp, err := svc.Publish(&dto.PublishRequest{
		Title:   "Announcement",
		Message: "Hello",
		Type:    repositories.NotificationTypeCreated,
		UserIDs: []string{"u1"},
	})
	require.NoError(t, err)

	created, err := svc.RepairFanOut(resp.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(2), created, "only the missing deliveries are inserted")
	assert.Len(t, notifRepo.deliveries, 3)
	assert.ElementsMatch(t, []string{"u2", "u3"}, notifRepo.lastBatchUsers,
		"already-delivered users are diffed out before the insert")
}

func TestRepairFanOut_IdempotentOnHealthyNotification(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	userRepo := &fakeUserRepo{ids: []string{"u1", "u2"}}
	svc := newTestService(notifRepo, userRepo, &recorderBroadcaster{})

	resp, err := svc.Publish(&dto.PublishRequest{
		Title:   "Announcement",
		Message: "Hello",
		Type:    repositories.NotificationTypeCreated,
	})
	require.NoError(t, err)

	created, err := svc.RepairFanOut(resp.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(0), created)
	assert.Len(t, notifRepo.deliveries, 2)
}

func TestRepairFanOut_UnknownNotification(t *testing.T) {
	svc := newTestService(newFakeNotificationRepo(), &fakeUserRepo{}, &recorderBroadcaster{})

	_, err := svc.RepairFanOut("missing", nil)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

// ---------------- Read-state tracker ----------------

func TestMarkAllRead_SecondCallAffectsNothing(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.seed("d1", "u1", "n1")
	repo.seed("d2", "u1", "n2")
	svc := newTestService(repo, &fakeUserRepo{}, &recorderBroadcaster{})

	updated, err := svc.MarkAllRead("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	first := *repo.deliveries[0].ReadAt
	second := *repo.deliveries[1].ReadAt

	updated, err = svc.MarkAllRead("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated, "no unread rows remain to flip")
	assert.Equal(t, first, *repo.deliveries[0].ReadAt, "read_at keeps the original stamp")
	assert.Equal(t, second, *repo.deliveries[1].ReadAt)
}

func TestMarkRead_SkipsForeignDeliveries(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.seed("d1", "u1", "n1")
	repo.seed("d2", "u2", "n1")
	svc := newTestService(repo, &fakeUserRepo{}, &recorderBroadcaster{})

	updated, err := svc.MarkRead("u1", []string{"d1", "d2"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), updated, "foreign ids are filtered, not reported")
	assert.True(t, repo.deliveries[0].IsRead)
	assert.False(t, repo.deliveries[1].IsRead, "another user's delivery is untouched")
}

func TestMarkRead_AlreadyReadRowsNotRestamped(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.seed("d1", "u1", "n1")
	svc := newTestService(repo, &fakeUserRepo{}, &recorderBroadcaster{})

	updated, err := svc.MarkRead("u1", []string{"d1"})
	require.NoError(t, err)
	require.Equal(t, int64(1), updated)
	stamp := *repo.deliveries[0].ReadAt

	updated, err = svc.MarkRead("u1", []string{"d1"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated)
	assert.Equal(t, stamp, *repo.deliveries[0].ReadAt)
}

// ---------------- Query API ----------------

func TestListInbox_OnlyCallersRows(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.seed("d1", "u1", "n1")
	repo.seed("d2", "u2", "n1")
	repo.seed("d3", "u1", "n2")
	svc := newTestService(repo, &fakeUserRepo{}, &recorderBroadcaster{})

	resp, err := svc.ListInbox("u1", 1, 20)
	require.NoError(t, err)

	require.Len(t, resp.Deliveries, 2)
	assert.Equal(t, int64(2), resp.TotalUnread)
	for _, d := range resp.Deliveries {
		assert.Contains(t, []string{"d1", "d3"}, d.ID, "no other user's delivery leaks in")
	}
}

func TestListInbox_PageBeyondEndIsEmptyWithValidTotal(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.seed("d1", "u1", "n1")
	repo.seed("d2", "u1", "n2")
	svc := newTestService(repo, &fakeUserRepo{}, &recorderBroadcaster{})

	resp, err := svc.ListInbox("u1", 5, 20)
	require.NoError(t, err)

	assert.Empty(t, resp.Deliveries)
	assert.Equal(t, int64(2), resp.TotalUnread, "total stays correct past the last page")
	assert.Equal(t, 5, resp.Page)
}

func TestListInbox_ReadRowsAreExcluded(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.seed("d1", "u1", "n1")
	repo.seed("d2", "u1", "n2")
	svc := newTestService(repo, &fakeUserRepo{}, &recorderBroadcaster{})

	_, err := svc.MarkRead("u1", []string{"d1"})
	require.NoError(t, err)

	resp, err := svc.ListInbox("u1", 1, 20)
	require.NoError(t, err)

	require.Len(t, resp.Deliveries, 1)
	assert.Equal(t, "d2", resp.Deliveries[0].ID)
	assert.Equal(t, int64(1), resp.TotalUnread)
}

func TestListInbox_RejectsNonPositivePaging(t *testing.T) {
	svc := newTestService(newFakeNotificationRepo(), &fakeUserRepo{}, &recorderBroadcaster{})

	_, err := svc.ListInbox("u1", 0, 20)
	require.Error(t, err)

	_, err = svc.ListInbox("u1", 1, 0)
	require.Error(t, err)
}

// ---------------- Helpers ----------------

func TestEventTag(t *testing.T) {
	assert.Equal(t, EventRoleUpdated, eventTag(repositories.NotificationTypeRoleUpdated))
	assert.Equal(t, EventNotificationUpdate, eventTag(repositories.NotificationTypeCreated))
	assert.Equal(t, EventNotificationUpdate, eventTag("anything_else"))
}

func TestDedupe(t *testing.T) {
	original := []string{"a", "b", "a", "c", "b"}
	deduped := dedupe(original)

	assert.Equal(t, []string{"a", "b", "c"}, deduped)
	assert.Equal(t, []string{"a", "b", "a", "c", "b"}, original, "input slice is untouched")
}
