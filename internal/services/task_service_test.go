package services

import (
	"testing"

	"estatedesk_backend/internal/models"
	"estatedesk_backend/internal/repositories"
	"estatedesk_backend/internal/services/dto"
	"estatedesk_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTaskRepo struct {
	repositories.TaskRepository

	tasks map[string]*models.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*models.Task)}
}

func (f *fakeTaskRepo) Create(task *models.Task) error {
	if task.ID == "" {
		task.ID = "task-1"
	}
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) FindByID(id string) (*models.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, repositories.ErrTaskNotFound
	}
	return task, nil
}

func (f *fakeTaskRepo) Update(task *models.Task) error {
	f.tasks[task.ID] = task
	return nil
}

// publishRecorder captures Publish calls made through PublishEvent.
type publishRecorder struct {
	NotificationService

	requests []*dto.PublishRequest
	err      error
}

func (r *publishRecorder) Publish(req *dto.PublishRequest) (*dto.NotificationResponse, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return nil, r.err
	}
	return &dto.NotificationResponse{ID: "notif-1"}, nil
}

func TestCreateTask_UnassignedPublishesNothing(t *testing.T) {
	recorder := &publishRecorder{}
	svc := NewTaskService(newFakeTaskRepo(), &fakeUserRepo{ids: []string{"u1"}}, recorder)

	task, err := svc.CreateTask("creator", &dto.CreateTaskRequest{Title: "Fix the boiler"})
	require.NoError(t, err)

	assert.Equal(t, models.TaskStatusOpen, task.Status)
	assert.Empty(t, recorder.requests, "no assignee means no notification")
}

func TestCreateTask_AssignedNotifiesOnlyAssignee(t *testing.T) {
	recorder := &publishRecorder{}
	assignee := "u2"
	svc := NewTaskService(newFakeTaskRepo(), &fakeUserRepo{ids: []string{"u1", "u2"}}, recorder)

	_, err := svc.CreateTask("creator", &dto.CreateTaskRequest{
		Title:      "Fix the boiler",
		AssigneeID: &assignee,
	})
	require.NoError(t, err)

	require.Len(t, recorder.requests, 1)
	req := recorder.requests[0]
	assert.Equal(t, repositories.NotificationTypeTaskAssigned, req.Type)
	assert.Equal(t, []string{"u2"}, req.UserIDs, "scoped to the assignee, not everyone")
}

func TestCreateTask_UnknownAssigneeRejected(t *testing.T) {
	recorder := &publishRecorder{}
	ghost := "nobody"
	svc := NewTaskService(newFakeTaskRepo(), &fakeUserRepo{ids: []string{"u1"}}, recorder)

	_, err := svc.CreateTask("creator", &dto.CreateTaskRequest{
		Title:      "Fix the boiler",
		AssigneeID: &ghost,
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestAssignTask_ReopensDoneTask(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.tasks["task-9"] = &models.Task{
		BaseModel: models.BaseModel{ID: "task-9"},
		Title:     "Repaint hallway",
		Status:    models.TaskStatusDone,
	}
	recorder := &publishRecorder{}
	svc := NewTaskService(repo, &fakeUserRepo{ids: []string{"u3"}}, recorder)

	task, err := svc.AssignTask("manager", "task-9", &dto.AssignTaskRequest{AssigneeID: "u3"})
	require.NoError(t, err)

	assert.Equal(t, models.TaskStatusOpen, task.Status)
	require.NotNil(t, task.AssigneeID)
	assert.Equal(t, "u3", *task.AssigneeID)
	require.Len(t, recorder.requests, 1)
	assert.Equal(t, []string{"u3"}, recorder.requests[0].UserIDs)
}

func TestAssignTask_NotFound(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo(), &fakeUserRepo{}, &publishRecorder{})

	_, err := svc.AssignTask("manager", "missing", &dto.AssignTaskRequest{AssigneeID: "u1"})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
