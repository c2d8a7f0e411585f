package handlers

import (
	"net/http"

	"estatedesk_backend/internal/middleware"
	"estatedesk_backend/internal/models"
	"estatedesk_backend/internal/services"
	"estatedesk_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	*BaseHandler
	taskService services.TaskService
}

func NewTaskHandler(base *BaseHandler, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{BaseHandler: base, taskService: taskService}
}

func (h *TaskHandler) RegisterRoutes(r *gin.RouterGroup) {
	tasks := r.Group("/tasks")
	tasks.Use(middleware.AuthMiddleware())
	{
		tasks.GET("", h.ListTasks)
		tasks.GET("/mine", h.ListMyTasks)
		tasks.GET("/:taskId", h.GetTask)
		tasks.POST("", h.CreateTask)
		tasks.PUT("/:taskId", h.UpdateTask)
		tasks.PUT("/:taskId/assign", h.AssignTask)

		managers := tasks.Group("")
		managers.Use(middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleManager))
		{
			managers.DELETE("/:taskId", h.DeleteTask)
		}
	}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	task, err := h.taskService.CreateTask(actorID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Param("taskId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	resp, err := h.taskService.ListTasks(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	resp, err := h.taskService.ListAssignedTasks(userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(actorID, c.Param("taskId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) AssignTask(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	task, err := h.taskService.AssignTask(actorID, c.Param("taskId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Param("taskId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
