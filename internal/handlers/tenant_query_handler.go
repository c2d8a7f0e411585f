package handlers

import (
	"net/http"

	"estatedesk_backend/internal/middleware"
	"estatedesk_backend/internal/services"
	"estatedesk_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type TenantQueryHandler struct {
	*BaseHandler
	queryService services.TenantQueryService
}

func NewTenantQueryHandler(base *BaseHandler, queryService services.TenantQueryService) *TenantQueryHandler {
	return &TenantQueryHandler{BaseHandler: base, queryService: queryService}
}

func (h *TenantQueryHandler) RegisterRoutes(r *gin.RouterGroup) {
	queries := r.Group("/tenant-queries")
	queries.Use(middleware.AuthMiddleware())
	{
		queries.POST("", h.SubmitQuery)
		queries.GET("", h.ListQueries)
		queries.GET("/:queryId", h.GetQuery)
		queries.PUT("/:queryId/resolve", h.ResolveQuery)
	}
}

func (h *TenantQueryHandler) SubmitQuery(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req dto.CreateTenantQueryRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	query, err := h.queryService.SubmitQuery(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, query)
}

func (h *TenantQueryHandler) GetQuery(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	query, err := h.queryService.GetQuery(c.Param("queryId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, query)
}

func (h *TenantQueryHandler) ListQueries(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	resp, err := h.queryService.ListQueries(c.Query("status"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TenantQueryHandler) ResolveQuery(c *gin.Context) {
	resolverID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	query, err := h.queryService.ResolveQuery(resolverID, c.Param("queryId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, query)
}
