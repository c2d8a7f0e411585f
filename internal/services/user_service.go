package services

import (
	"fmt"

	"estatedesk_backend/internal/models"
	"estatedesk_backend/internal/repositories"
	"estatedesk_backend/internal/services/dto"
	"estatedesk_backend/pkg/apperrors"
)

type UserService interface {
	GetUser(userID string) (*dto.UserResponse, error)
	ListUsers(page, pageSize int) (*dto.UserListResponse, error)
	// ChangeRole updates the user's role and publishes a global
	// role_updated event so every open session refreshes its
	// permissions view.
	ChangeRole(actorID, userID string, role models.UserRole) error
}

type userService struct {
	userRepo repositories.UserRepository
	notifier NotificationService
}

func NewUserService(userRepo repositories.UserRepository, notifier NotificationService) UserService {
	return &userService{
		userRepo: userRepo,
		notifier: notifier,
	}
}

func (s *userService) GetUser(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		return nil, err
	}
	return buildUserResponse(user), nil
}

func (s *userService) ListUsers(page, pageSize int) (*dto.UserListResponse, error) {
	users, total, err := s.userRepo.FindAll(page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, buildUserResponse(&users[i]))
	}

	return &dto.UserListResponse{
		Users:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *userService) ChangeRole(actorID, userID string, role models.UserRole) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.NewNotFoundError("user", "User not found")
		}
		return err
	}

	if err := s.userRepo.UpdateRole(userID, role); err != nil {
		return apperrors.PersistenceError("user", err)
	}

	return PublishEvent(s.notifier,
		"Role updated",
		fmt.Sprintf("%s is now %s", user.Name, role),
		repositories.NotificationTypeRoleUpdated,
		nil, // global: every session may be affected by a permission change
		map[string]interface{}{"user_id": userID, "role": string(role), "changed_by": actorID},
	)
}
