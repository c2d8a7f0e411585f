package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"estatedesk_backend/internal/services/dto"
	"estatedesk_backend/internal/validator"
	"estatedesk_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotificationService records calls and returns canned responses.
type fakeNotificationService struct {
	publishReq  *dto.PublishRequest
	publishErr  error
	markReadIDs []string
	markReadN   int64
	markAllN    int64
	inbox       *dto.InboxResponse
	unread      int64
	cleared     string
}

func (f *fakeNotificationService) Publish(req *dto.PublishRequest) (*dto.NotificationResponse, error) {
	f.publishReq = req
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	return &dto.NotificationResponse{ID: "notif-1", Title: req.Title}, nil
}

func (f *fakeNotificationService) RepairFanOut(notificationID string, userIDs []string) (int64, error) {
	return 0, nil
}

func (f *fakeNotificationService) ListInbox(userID string, page, pageSize int) (*dto.InboxResponse, error) {
	if f.inbox != nil {
		return f.inbox, nil
	}
	return &dto.InboxResponse{Deliveries: []*dto.DeliveryResponse{}, Page: page, PageSize: pageSize}, nil
}

func (f *fakeNotificationService) ListAll(page, pageSize int) (*dto.NotificationListResponse, error) {
	return &dto.NotificationListResponse{Page: page, PageSize: pageSize}, nil
}

func (f *fakeNotificationService) CountUnread(userID string) (int64, error) {
	return f.unread, nil
}

func (f *fakeNotificationService) MarkAllRead(userID string) (int64, error) {
	return f.markAllN, nil
}

func (f *fakeNotificationService) MarkRead(userID string, deliveryIDs []string) (int64, error) {
	f.markReadIDs = deliveryIDs
	return f.markReadN, nil
}

func (f *fakeNotificationService) ClearInbox(userID string) error {
	f.cleared = userID
	return nil
}

// newTestRouter mounts the handler methods behind a stub auth layer so
// request handling can be exercised without tokens.
func newTestRouter(svc *fakeNotificationService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewNotificationHandler(NewBaseHandler(validator.New()), svc, nil)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	})

	engine.GET("/notifications/user", h.GetInbox)
	engine.GET("/notifications/unread-count", h.GetUnreadCount)
	engine.POST("/notifications/mark-read", h.MarkRead)
	engine.PUT("/notifications/mark-all-read", h.MarkAllRead)
	engine.DELETE("/notifications/clear", h.ClearInbox)
	engine.GET("/notifications", h.ListAll)
	engine.POST("/notifications/create", h.Publish)

	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestPublishEndpoint_Created(t *testing.T) {
	svc := &fakeNotificationService{}
	engine := newTestRouter(svc, "admin-1")

	rec := doJSON(t, engine, http.MethodPost, "/notifications/create",
		`{"title":"Hello","message":"World","type":"created","user_ids":["u1","u2"]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.publishReq)
	assert.Equal(t, []string{"u1", "u2"}, svc.publishReq.UserIDs)
}

func TestPublishEndpoint_RejectsMissingFields(t *testing.T) {
	svc := &fakeNotificationService{}
	engine := newTestRouter(svc, "admin-1")

	rec := doJSON(t, engine, http.MethodPost, "/notifications/create",
		`{"title":"Hello"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.publishReq, "service is not reached on invalid input")
}

func TestPublishEndpoint_ServiceErrorMapped(t *testing.T) {
	svc := &fakeNotificationService{
		publishErr: apperrors.NewNotFoundError("notification", "Notification not found"),
	}
	engine := newTestRouter(svc, "admin-1")

	rec := doJSON(t, engine, http.MethodPost, "/notifications/create",
		`{"title":"Hello","message":"World","type":"created"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetInbox_RequiresUser(t *testing.T) {
	engine := newTestRouter(&fakeNotificationService{}, "")

	rec := doJSON(t, engine, http.MethodGet, "/notifications/user", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetInbox_DefaultPagination(t *testing.T) {
	svc := &fakeNotificationService{}
	engine := newTestRouter(svc, "u1")

	rec := doJSON(t, engine, http.MethodGet, "/notifications/user", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.InboxResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
}

func TestGetInbox_PageSizeIsCapped(t *testing.T) {
	svc := &fakeNotificationService{}
	engine := newTestRouter(svc, "u1")

	rec := doJSON(t, engine, http.MethodGet, "/notifications/user?page=2&page_size=5000", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.InboxResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 100, resp.PageSize)
}

func TestMarkRead_PassesIDsThrough(t *testing.T) {
	svc := &fakeNotificationService{markReadN: 2}
	engine := newTestRouter(svc, "u1")

	rec := doJSON(t, engine, http.MethodPost, "/notifications/mark-read",
		`{"delivery_ids":["d1","d2"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"d1", "d2"}, svc.markReadIDs)

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp["marked_read"])
}

func TestMarkRead_RejectsEmptyList(t *testing.T) {
	svc := &fakeNotificationService{}
	engine := newTestRouter(svc, "u1")

	rec := doJSON(t, engine, http.MethodPost, "/notifications/mark-read",
		`{"delivery_ids":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.markReadIDs)
}

func TestMarkAllRead(t *testing.T) {
	svc := &fakeNotificationService{markAllN: 7}
	engine := newTestRouter(svc, "u1")

	rec := doJSON(t, engine, http.MethodPut, "/notifications/mark-all-read", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp["marked_read"])
}

func TestUnreadCount(t *testing.T) {
	svc := &fakeNotificationService{unread: 4}
	engine := newTestRouter(svc, "u1")

	rec := doJSON(t, engine, http.MethodGet, "/notifications/unread-count", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(4), resp["unread_count"])
}

func TestClearInbox(t *testing.T) {
	svc := &fakeNotificationService{}
	engine := newTestRouter(svc, "u1")

	rec := doJSON(t, engine, http.MethodDelete, "/notifications/clear", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u1", svc.cleared)
}
