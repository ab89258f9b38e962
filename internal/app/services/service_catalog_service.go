package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/benhmida/formatech/internal/app/auth"
	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/repositories"
	"github.com/benhmida/formatech/internal/pkg/helpers"
)

// ServiceCatalogService defines the interface for company service catalog
// operations. Authority over an entry derives from its owning company.
type ServiceCatalogService interface {
	GetAllServices(ctx context.Context, companyID *int64, category *string, page, pageSize int) (*dto.ServiceListResponse, error)
	GetServiceByID(ctx context.Context, id int64) (*dto.ServiceResponse, error)
	CreateService(ctx context.Context, p *auth.Principal, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	UpdateService(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error)
	DeleteService(ctx context.Context, p *auth.Principal, id int64) error
}

// serviceCatalogServiceImpl implements ServiceCatalogService
type serviceCatalogServiceImpl struct {
	serviceRepo repositories.IServiceRepository
	companyRepo repositories.ICompanyRepository
	guard       *auth.MutationGuard
	logger      zerolog.Logger
}

// NewServiceCatalogService creates a new ServiceCatalogService
func NewServiceCatalogService(
	serviceRepo repositories.IServiceRepository,
	companyRepo repositories.ICompanyRepository,
	guard *auth.MutationGuard,
	logger zerolog.Logger,
) ServiceCatalogService {
	return &serviceCatalogServiceImpl{
		serviceRepo: serviceRepo,
		companyRepo: companyRepo,
		guard:       guard,
		logger:      logger,
	}
}

// GetAllServices lists catalog entries, optionally scoped to a company or
// category
func (s *serviceCatalogServiceImpl) GetAllServices(ctx context.Context, companyID *int64, category *string, page, pageSize int) (*dto.ServiceListResponse, error) {
	page, pageSize = helpers.NormalizePagination(page, pageSize)

	services, total, err := s.serviceRepo.GetAll(ctx, companyID, category, page, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list services")
		return nil, err
	}

	resp := &dto.ServiceListResponse{
		Services:       make([]dto.ServiceResponse, 0, len(services)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, pageSize),
	}
	for _, svc := range services {
		resp.Services = append(resp.Services, dto.NewServiceResponse(svc))
	}
	return resp, nil
}

// GetServiceByID returns a single catalog entry
func (s *serviceCatalogServiceImpl) GetServiceByID(ctx context.Context, id int64) (*dto.ServiceResponse, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewServiceResponse(service)
	return &resp, nil
}

// CreateService adds a catalog entry under a company
func (s *serviceCatalogServiceImpl) CreateService(ctx context.Context, p *auth.Principal, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	company, err := s.companyRepo.GetByID(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeServiceCreate(p, company); err != nil {
		return nil, err
	}

	service := &models.Service{
		CompanyID:   req.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PriceRange:  req.PriceRange,
	}

	id, err := s.serviceRepo.Create(ctx, service)
	if err != nil {
		s.logger.Error().Err(err).Int64("companyId", req.CompanyID).Msg("Failed to create service")
		return nil, err
	}

	s.logger.Info().Int64("serviceId", id).Int64("companyId", req.CompanyID).Msg("Service created")
	return s.GetServiceByID(ctx, id)
}

// UpdateService partially updates a catalog entry
func (s *serviceCatalogServiceImpl) UpdateService(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeService(p, service, auth.ActionUpdate); err != nil {
		return nil, err
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = req.Description
	}
	if req.Category != nil {
		service.Category = req.Category
	}
	if req.PriceRange != nil {
		service.PriceRange = req.PriceRange
	}

	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, err
	}
	return s.GetServiceByID(ctx, id)
}

// DeleteService removes a catalog entry
func (s *serviceCatalogServiceImpl) DeleteService(ctx context.Context, p *auth.Principal, id int64) error {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeService(p, service, auth.ActionDelete); err != nil {
		return err
	}

	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("serviceId", id).Int64("userId", p.UserID).Msg("Service deleted")
	return nil
}
