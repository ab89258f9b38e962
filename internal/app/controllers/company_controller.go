package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/services"
	"github.com/benhmida/formatech/internal/middleware"
	"github.com/benhmida/formatech/internal/pkg/helpers"
)

// CompanyController handles company profile operations
type CompanyController struct {
	companyService services.CompanyService
}

// NewCompanyController creates a new CompanyController
func NewCompanyController(companyService services.CompanyService) *CompanyController {
	return &CompanyController{companyService: companyService}
}

// GetAllCompanies handles listing companies
// @Summary List companies
// @Tags companies
// @Produce json
// @Param city query string false "Filter by city"
// @Param search query string false "Search by name"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.CompanyListResponse} "Companies retrieved successfully"
// @Router /companies [get]
func (c *CompanyController) GetAllCompanies(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	var city, search *string
	if v := ctx.Query("city"); v != "" {
		city = &v
	}
	if v := ctx.Query("search"); v != "" {
		search = &v
	}

	response, err := c.companyService.GetAllCompanies(ctx, city, search, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetCompanyByID handles retrieving a single company
// @Summary Get company by ID
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse} "Company retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Router /companies/{id} [get]
func (c *CompanyController) GetCompanyByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.companyService.GetCompanyByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// CreateCompany handles company creation
// @Summary Create a company
// @Description Creates a company. Company representatives become the representative of the new company; admins may designate one.
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCompanyRequest true "Create company request"
// @Success 201 {object} dto.APIResponse{data=dto.CompanyResponse} "Company created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /companies [post]
func (c *CompanyController) CreateCompany(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateCompanyRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.companyService.CreateCompany(ctx, p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// UpdateCompany handles company updates
// @Summary Update a company
// @Description Updates a company. Only its representative and admins may update it; the representative link itself is immutable.
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param request body dto.UpdateCompanyRequest true "Update company request"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse} "Company updated successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Router /companies/{id} [put]
func (c *CompanyController) UpdateCompany(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.companyService.UpdateCompany(ctx, p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DeleteCompany handles company deletion
// @Summary Delete a company
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Company deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Router /companies/{id} [delete]
func (c *CompanyController) DeleteCompany(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.companyService.DeleteCompany(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "company deleted"}))
}
