package handlers

import (
	"net/http"

	"estatedesk_backend/internal/middleware"
	"estatedesk_backend/internal/models"
	"estatedesk_backend/internal/services"
	"estatedesk_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RentRecordHandler struct {
	*BaseHandler
	rentService services.RentRecordService
}

func NewRentRecordHandler(base *BaseHandler, rentService services.RentRecordService) *RentRecordHandler {
	return &RentRecordHandler{BaseHandler: base, rentService: rentService}
}

func (h *RentRecordHandler) RegisterRoutes(r *gin.RouterGroup) {
	rents := r.Group("/rent-records")
	rents.Use(middleware.AuthMiddleware())
	{
		rents.GET("/:recordId", h.GetRentRecord)

		managers := rents.Group("")
		managers.Use(middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleManager))
		{
			managers.POST("", h.RecordRent)
		}
	}

	properties := r.Group("/properties")
	properties.Use(middleware.AuthMiddleware())
	{
		properties.GET("/:propertyId/rent-records", h.ListPropertyRentRecords)
	}
}

func (h *RentRecordHandler) RecordRent(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRentRecordRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	record, err := h.rentService.RecordRent(actorID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *RentRecordHandler) GetRentRecord(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	record, err := h.rentService.GetRentRecord(c.Param("recordId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *RentRecordHandler) ListPropertyRentRecords(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	resp, err := h.rentService.ListPropertyRentRecords(c.Param("propertyId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
