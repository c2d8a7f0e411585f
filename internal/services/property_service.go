package services

import (
	"fmt"

	"estatedesk_backend/internal/models"
	"estatedesk_backend/internal/repositories"
	"estatedesk_backend/internal/services/dto"
	"estatedesk_backend/pkg/apperrors"
)

type PropertyService interface {
	CreateProperty(actorID string, req *dto.CreatePropertyRequest) (*models.Property, error)
	GetProperty(id string) (*models.Property, error)
	ListProperties(page, pageSize int) (*dto.PropertyListResponse, error)
	UpdateProperty(actorID, id string, req *dto.UpdatePropertyRequest) (*models.Property, error)
	DeleteProperty(actorID, id string) error
}

type propertyService struct {
	propertyRepo repositories.PropertyRepository
	userRepo     repositories.UserRepository
	notifier     NotificationService
}

func NewPropertyService(
	propertyRepo repositories.PropertyRepository,
	userRepo repositories.UserRepository,
	notifier NotificationService,
) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

func (s *propertyService) CreateProperty(actorID string, req *dto.CreatePropertyRequest) (*models.Property, error) {
	property := &models.Property{
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		MonthlyRent: req.MonthlyRent,
		TenantName:  req.TenantName,
		Status:      models.PropertyStatusVacant,
		CreatedBy:   actorID,
	}
	if req.TenantName != "" {
		property.Status = models.PropertyStatusOccupied
	}

	if err := s.propertyRepo.Create(property); err != nil {
		return nil, apperrors.PersistenceError("property", err)
	}

	actorName := s.actorName(actorID)
	err := PublishEvent(s.notifier,
		"Property created",
		fmt.Sprintf("Property %s created by %s", property.Name, actorName),
		repositories.NotificationTypeCreated,
		nil,
		map[string]interface{}{"property_id": property.ID},
	)
	if err != nil {
		return nil, err
	}

	return property, nil
}

func (s *propertyService) GetProperty(id string) (*models.Property, error) {
	property, err := s.propertyRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPropertyNotFound) {
			return nil, apperrors.NewNotFoundError("property", "Property not found")
		}
		return nil, err
	}
	return property, nil
}

func (s *propertyService) ListProperties(page, pageSize int) (*dto.PropertyListResponse, error) {
	properties, total, err := s.propertyRepo.FindAll(page, pageSize)
	if err != nil {
		return nil, err
	}

	return &dto.PropertyListResponse{
		Properties: properties,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (s *propertyService) UpdateProperty(actorID, id string, req *dto.UpdatePropertyRequest) (*models.Property, error) {
	property, err := s.GetProperty(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		property.Name = *req.Name
	}
	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.MonthlyRent != nil {
		property.MonthlyRent = *req.MonthlyRent
	}
	if req.Status != nil {
		property.Status = *req.Status
	}
	if req.TenantName != nil {
		property.TenantName = *req.TenantName
	}

	if err := s.propertyRepo.Update(property); err != nil {
		return nil, apperrors.PersistenceError("property", err)
	}

	err = PublishEvent(s.notifier,
		"Property updated",
		fmt.Sprintf("Property %s updated by %s", property.Name, s.actorName(actorID)),
		repositories.NotificationTypeUpdated,
		nil,
		map[string]interface{}{"property_id": property.ID},
	)
	if err != nil {
		return nil, err
	}

	return property, nil
}

func (s *propertyService) DeleteProperty(actorID, id string) error {
	property, err := s.GetProperty(id)
	if err != nil {
		return err
	}

	if err := s.propertyRepo.Delete(id); err != nil {
		return apperrors.PersistenceError("property", err)
	}

	return PublishEvent(s.notifier,
		"Property deleted",
		fmt.Sprintf("Property %s deleted by %s", property.Name, s.actorName(actorID)),
		repositories.NotificationTypeDeleted,
		nil,
		map[string]interface{}{"property_id": id},
	)
}

// actorName resolves a display name for notification messages; the
// raw id is an acceptable fallback.
func (s *propertyService) actorName(actorID string) string {
	user, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return actorID
	}
	return user.Name
}
