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

// CompanyService defines the interface for company operations
type CompanyService interface {
	GetAllCompanies(ctx context.Context, city, search *string, page, pageSize int) (*dto.CompanyListResponse, error)
	GetCompanyByID(ctx context.Context, id int64) (*dto.CompanyResponse, error)
	CreateCompany(ctx context.Context, p *auth.Principal, req *dto.CreateCompanyRequest) (*dto.CompanyResponse, error)
	UpdateCompany(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateCompanyRequest) (*dto.CompanyResponse, error)
	DeleteCompany(ctx context.Context, p *auth.Principal, id int64) error
}

// companyServiceImpl implements CompanyService
type companyServiceImpl struct {
	companyRepo repositories.ICompanyRepository
	guard       *auth.MutationGuard
	logger      zerolog.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(
	companyRepo repositories.ICompanyRepository,
	guard *auth.MutationGuard,
	logger zerolog.Logger,
) CompanyService {
	return &companyServiceImpl{
		companyRepo: companyRepo,
		guard:       guard,
		logger:      logger,
	}
}

// GetAllCompanies lists companies, optionally filtered by city or name
func (s *companyServiceImpl) GetAllCompanies(ctx context.Context, city, search *string, page, pageSize int) (*dto.CompanyListResponse, error) {
	page, pageSize = helpers.NormalizePagination(page, pageSize)

	companies, total, err := s.companyRepo.GetAll(ctx, city, search, page, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list companies")
		return nil, err
	}

	resp := &dto.CompanyListResponse{
		Companies:      make([]dto.CompanyResponse, 0, len(companies)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, pageSize),
	}
	for _, c := range companies {
		resp.Companies = append(resp.Companies, dto.NewCompanyResponse(c))
	}
	return resp, nil
}

// GetCompanyByID returns a single company with its representative
func (s *companyServiceImpl) GetCompanyByID(ctx context.Context, id int64) (*dto.CompanyResponse, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCompanyResponse(company)
	return &resp, nil
}

// CreateCompany registers a company. A company representative becomes the
// representative of the company they create; only admins may register a
// company on behalf of another user.
func (s *companyServiceImpl) CreateCompany(ctx context.Context, p *auth.Principal, req *dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := s.guard.AuthorizeCompanyCreate(p); err != nil {
		return nil, err
	}

	representativeID := p.UserID
	if p.IsAdmin() && req.RepresentativeID != nil {
		representativeID = *req.RepresentativeID
	}

	company := &models.Company{
		Name:             req.Name,
		Description:      req.Description,
		Address:          req.Address,
		City:             req.City,
		Phone:            req.Phone,
		Email:            req.Email,
		Website:          req.Website,
		RepresentativeID: representativeID,
	}

	id, err := s.companyRepo.Create(ctx, company)
	if err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create company")
		return nil, err
	}

	s.logger.Info().Int64("companyId", id).Int64("representativeId", representativeID).Msg("Company created")
	return s.GetCompanyByID(ctx, id)
}

// UpdateCompany partially updates a company. The representative link is
// immutable; changing it would silently move authority over everything
// the company owns.
func (s *companyServiceImpl) UpdateCompany(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCompany(p, company, auth.ActionUpdate); err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Description != nil {
		company.Description = req.Description
	}
	if req.Address != nil {
		company.Address = req.Address
	}
	if req.City != nil {
		company.City = req.City
	}
	if req.Phone != nil {
		company.Phone = req.Phone
	}
	if req.Email != nil {
		company.Email = req.Email
	}
	if req.Website != nil {
		company.Website = req.Website
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return s.GetCompanyByID(ctx, id)
}

// DeleteCompany removes a company together with its services and events
func (s *companyServiceImpl) DeleteCompany(ctx context.Context, p *auth.Principal, id int64) error {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeCompany(p, company, auth.ActionDelete); err != nil {
		return err
	}

	if err := s.companyRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("companyId", id).Msg("Failed to delete company")
		return err
	}

	s.logger.Info().Int64("companyId", id).Int64("userId", p.UserID).Msg("Company deleted")
	return nil
}
