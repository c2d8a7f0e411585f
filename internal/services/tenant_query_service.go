package services

import (
	"fmt"

	"estatedesk_backend/internal/models"
	"estatedesk_backend/internal/repositories"
	"estatedesk_backend/internal/services/dto"
	"estatedesk_backend/pkg/apperrors"
)

type TenantQueryService interface {
	SubmitQuery(req *dto.CreateTenantQueryRequest) (*models.TenantQuery, error)
	GetQuery(id string) (*models.TenantQuery, error)
	ListQueries(status string, page, pageSize int) (*dto.TenantQueryListResponse, error)
	ResolveQuery(resolverID, id string) (*models.TenantQuery, error)
}

type tenantQueryService struct {
	queryRepo repositories.TenantQueryRepository
	notifier  NotificationService
}

func NewTenantQueryService(
	queryRepo repositories.TenantQueryRepository,
	notifier NotificationService,
) TenantQueryService {
	return &tenantQueryService{queryRepo: queryRepo, notifier: notifier}
}

func (s *tenantQueryService) SubmitQuery(req *dto.CreateTenantQueryRequest) (*models.TenantQuery, error) {
	query := &models.TenantQuery{
		PropertyID: req.PropertyID,
		TenantName: req.TenantName,
		Subject:    req.Subject,
		Body:       req.Body,
		Status:     models.TenantQueryStatusOpen,
	}
	if err := s.queryRepo.Create(query); err != nil {
		return nil, apperrors.PersistenceError("tenant_query", err)
	}
	return query, nil
}

func (s *tenantQueryService) GetQuery(id string) (*models.TenantQuery, error) {
	query, err := s.queryRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTenantQueryNotFound) {
			return nil, apperrors.NewNotFoundError("tenant_query", "Tenant query not found")
		}
		return nil, err
	}
	return query, nil
}

func (s *tenantQueryService) ListQueries(status string, page, pageSize int) (*dto.TenantQueryListResponse, error) {
	if status != "" &&
		status != string(models.TenantQueryStatusOpen) &&
		status != string(models.TenantQueryStatusResolved) {
		return nil, apperrors.NewBadRequestError("Unknown query status filter")
	}

	queries, total, err := s.queryRepo.FindAll(status, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &dto.TenantQueryListResponse{
		Queries:  queries,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// ResolveQuery marks an open query resolved. Already-resolved queries
// are reported as not found because the update matches zero rows.
func (s *tenantQueryService) ResolveQuery(resolverID, id string) (*models.TenantQuery, error) {
	if err := s.queryRepo.Resolve(id, resolverID); err != nil {
		if apperrors.Is(err, repositories.ErrTenantQueryNotFound) {
			return nil, apperrors.NewNotFoundError("tenant_query", "Open tenant query not found")
		}
		return nil, apperrors.PersistenceError("tenant_query", err)
	}

	query, err := s.GetQuery(id)
	if err != nil {
		return nil, err
	}

	err = PublishEvent(s.notifier,
		"Tenant query resolved",
		fmt.Sprintf("Query %q from %s marked resolved", query.Subject, query.TenantName),
		repositories.NotificationTypeQueryResolved,
		[]string{resolverID},
		map[string]interface{}{"tenant_query_id": query.ID},
	)
	if err != nil {
		return nil, err
	}

	return query, nil
}
