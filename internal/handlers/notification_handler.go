package handlers

import (
	"net/http"

	"estatedesk_backend/internal/middleware"
	"estatedesk_backend/internal/models"
	"estatedesk_backend/internal/services"
	"estatedesk_backend/internal/services/dto"
	"estatedesk_backend/ws"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
	stream              *ws.StreamHandler
}

func NewNotificationHandler(
	base *BaseHandler,
	notificationService services.NotificationService,
	stream *ws.StreamHandler,
) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
		stream:              stream,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("/user", h.GetInbox)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.POST("/mark-read", h.MarkRead)
		notifications.PUT("/mark-all-read", h.MarkAllRead)
		notifications.DELETE("/clear", h.ClearInbox)
		notifications.GET("/stream", h.stream.Stream)

		admin := notifications.Group("")
		admin.Use(middleware.RoleMiddleware(models.UserRoleAdmin))
		{
			admin.GET("", h.ListAll)
			admin.POST("/create", h.Publish)
			admin.POST("/:notificationId/repair", h.RepairFanOut)
		}
	}
}

// Publish creates the canonical notification and fans it out. Admin
// only; an empty user_ids list means every current user.
func (h *NotificationHandler) Publish(c *gin.Context) {
	var req dto.PublishRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	notification, err := h.notificationService.Publish(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, notification)
}

func (h *NotificationHandler) RepairFanOut(c *gin.Context) {
	notificationID := c.Param("notificationId")

	var req dto.RepairFanOutRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	created, err := h.notificationService.RepairFanOut(notificationID, req.UserIDs)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deliveries_created": created})
}

func (h *NotificationHandler) ListAll(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	resp, err := h.notificationService.ListAll(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) GetInbox(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	resp, err := h.notificationService.ListInbox(userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.CountUnread(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.MarkReadRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	updated, err := h.notificationService.MarkRead(userID, req.DeliveryIDs)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_read": updated})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllRead(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_read": updated})
}

func (h *NotificationHandler) ClearInbox(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.ClearInbox(userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
