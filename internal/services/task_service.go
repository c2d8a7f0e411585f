package services

import (
	"fmt"

	"estatedesk_backend/internal/models"
	"estatedesk_backend/internal/repositories"
	"estatedesk_backend/internal/services/dto"
	"estatedesk_backend/pkg/apperrors"
)

type TaskService interface {
	CreateTask(actorID string, req *dto.CreateTaskRequest) (*models.Task, error)
	GetTask(id string) (*models.Task, error)
	ListTasks(page, pageSize int) (*dto.TaskListResponse, error)
	ListAssignedTasks(assigneeID string, page, pageSize int) (*dto.TaskListResponse, error)
	UpdateTask(actorID, id string, req *dto.UpdateTaskRequest) (*models.Task, error)
	AssignTask(actorID, id string, req *dto.AssignTaskRequest) (*models.Task, error)
	DeleteTask(id string) error
}

type taskService struct {
	taskRepo repositories.TaskRepository
	userRepo repositories.UserRepository
	notifier NotificationService
}

func NewTaskService(
	taskRepo repositories.TaskRepository,
	userRepo repositories.UserRepository,
	notifier NotificationService,
) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

func (s *taskService) CreateTask(actorID string, req *dto.CreateTaskRequest) (*models.Task, error) {
	if req.AssigneeID != nil {
		if _, err := s.userRepo.FindByID(*req.AssigneeID); err != nil {
			if apperrors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.NewBadRequestError("Assignee does not exist")
			}
			return nil, err
		}
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatusOpen,
		AssigneeID:  req.AssigneeID,
		PropertyID:  req.PropertyID,
		DueAt:       req.DueAt,
		CreatedBy:   actorID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, apperrors.PersistenceError("task", err)
	}

	if task.AssigneeID != nil {
		if err := s.publishAssigned(task); err != nil {
			return nil, err
		}
	}

	return task, nil
}

func (s *taskService) GetTask(id string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTaskNotFound) {
			return nil, apperrors.NewNotFoundError("task", "Task not found")
		}
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListTasks(page, pageSize int) (*dto.TaskListResponse, error) {
	tasks, total, err := s.taskRepo.FindAll(page, pageSize)
	if err != nil {
		return nil, err
	}
	return &dto.TaskListResponse{Tasks: tasks, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *taskService) ListAssignedTasks(assigneeID string, page, pageSize int) (*dto.TaskListResponse, error) {
	tasks, total, err := s.taskRepo.FindByAssignee(assigneeID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &dto.TaskListResponse{Tasks: tasks, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *taskService) UpdateTask(actorID, id string, req *dto.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.DueAt != nil {
		task.DueAt = req.DueAt
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, apperrors.PersistenceError("task", err)
	}
	return task, nil
}

// AssignTask reassigns the task and notifies only the new assignee.
func (s *taskService) AssignTask(actorID, id string, req *dto.AssignTaskRequest) (*models.Task, error) {
	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(req.AssigneeID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewBadRequestError("Assignee does not exist")
		}
		return nil, err
	}

	task.AssigneeID = &req.AssigneeID
	if task.Status == models.TaskStatusDone {
		task.Status = models.TaskStatusOpen
	}
	if err := s.taskRepo.Update(task); err != nil {
		return nil, apperrors.PersistenceError("task", err)
	}

	if err := s.publishAssigned(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) DeleteTask(id string) error {
	if err := s.taskRepo.Delete(id); err != nil {
		if apperrors.Is(err, repositories.ErrTaskNotFound) {
			return apperrors.NewNotFoundError("task", "Task not found")
		}
		return apperrors.PersistenceError("task", err)
	}
	return nil
}

func (s *taskService) publishAssigned(task *models.Task) error {
	return PublishEvent(s.notifier,
		"Task assigned",
		fmt.Sprintf("You have been assigned: %s", task.Title),
		repositories.NotificationTypeTaskAssigned,
		[]string{*task.AssigneeID},
		map[string]interface{}{"task_id": task.ID},
	)
}
