package services

import (
	"fmt"
	"time"

	"estatedesk_backend/internal/models"
	"estatedesk_backend/internal/repositories"
	"estatedesk_backend/internal/services/dto"
	"estatedesk_backend/pkg/apperrors"
)

type RentRecordService interface {
	RecordRent(actorID string, req *dto.CreateRentRecordRequest) (*models.RentRecord, error)
	GetRentRecord(id string) (*models.RentRecord, error)
	ListPropertyRentRecords(propertyID string, page, pageSize int) (*dto.RentRecordListResponse, error)
}

type rentRecordService struct {
	rentRepo     repositories.RentRecordRepository
	propertyRepo repositories.PropertyRepository
	notifier     NotificationService
}

func NewRentRecordService(
	rentRepo repositories.RentRecordRepository,
	propertyRepo repositories.PropertyRepository,
	notifier NotificationService,
) RentRecordService {
	return &rentRecordService{
		rentRepo:     rentRepo,
		propertyRepo: propertyRepo,
		notifier:     notifier,
	}
}

func (s *rentRecordService) RecordRent(actorID string, req *dto.CreateRentRecordRequest) (*models.RentRecord, error) {
	property, err := s.propertyRepo.FindByID(req.PropertyID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPropertyNotFound) {
			return nil, apperrors.NewBadRequestError("Property does not exist")
		}
		return nil, err
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	record := &models.RentRecord{
		PropertyID: req.PropertyID,
		Amount:     req.Amount,
		Period:     req.Period,
		PaidAt:     paidAt,
		Note:       req.Note,
		RecordedBy: actorID,
	}
	if err := s.rentRepo.Create(record); err != nil {
		return nil, apperrors.PersistenceError("rent_record", err)
	}

	err = PublishEvent(s.notifier,
		"Rent recorded",
		fmt.Sprintf("Rent of %.2f recorded for %s (%s)", record.Amount, property.Name, record.Period),
		repositories.NotificationTypeRentRecorded,
		nil,
		map[string]interface{}{
			"rent_record_id": record.ID,
			"property_id":    record.PropertyID,
			"period":         record.Period,
		},
	)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (s *rentRecordService) GetRentRecord(id string) (*models.RentRecord, error) {
	record, err := s.rentRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRentRecordNotFound) {
			return nil, apperrors.NewNotFoundError("rent_record", "Rent record not found")
		}
		return nil, err
	}
	return record, nil
}

func (s *rentRecordService) ListPropertyRentRecords(propertyID string, page, pageSize int) (*dto.RentRecordListResponse, error) {
	records, total, err := s.rentRepo.FindByProperty(propertyID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &dto.RentRecordListResponse{
		Records:  records,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
