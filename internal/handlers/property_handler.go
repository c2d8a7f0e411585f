package handlers

import (
	"net/http"

	"estatedesk_backend/internal/middleware"
	"estatedesk_backend/internal/models"
	"estatedesk_backend/internal/services"
	"estatedesk_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	*BaseHandler
	propertyService services.PropertyService
}

func NewPropertyHandler(base *BaseHandler, propertyService services.PropertyService) *PropertyHandler {
	return &PropertyHandler{BaseHandler: base, propertyService: propertyService}
}

func (h *PropertyHandler) RegisterRoutes(r *gin.RouterGroup) {
	properties := r.Group("/properties")
	properties.Use(middleware.AuthMiddleware())
	{
		properties.GET("", h.ListProperties)
		properties.GET("/:propertyId", h.GetProperty)

		managers := properties.Group("")
		managers.Use(middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleManager))
		{
			managers.POST("", h.CreateProperty)
			managers.PUT("/:propertyId", h.UpdateProperty)
			managers.DELETE("/:propertyId", h.DeleteProperty)
		}
	}
}

func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePropertyRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	property, err := h.propertyService.CreateProperty(actorID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, property)
}

func (h *PropertyHandler) GetProperty(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	property, err := h.propertyService.GetProperty(c.Param("propertyId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) ListProperties(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	resp, err := h.propertyService.ListProperties(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePropertyRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	property, err := h.propertyService.UpdateProperty(actorID, c.Param("propertyId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.propertyService.DeleteProperty(actorID, c.Param("propertyId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
