package routes

import (
	"estatedesk_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts all HTTP and websocket routes. The stream
// endpoint lives inside the notifications group, so no separate ws
// mount is needed.
func RegisterRoutes(engine *gin.Engine, appHandlers *handlers.AppHandlers) {
	engine.GET("/healthz", appHandlers.HealthHandler.Check)

	api := engine.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
		appHandlers.PropertyHandler.RegisterRoutes(api)
		appHandlers.TaskHandler.RegisterRoutes(api)
		appHandlers.RentRecordHandler.RegisterRoutes(api)
		appHandlers.TenantQueryHandler.RegisterRoutes(api)
	}
}
