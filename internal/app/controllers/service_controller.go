package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/services"
	"github.com/benhmida/formatech/internal/middleware"
	"github.com/benhmida/formatech/internal/pkg/helpers"
)

// ServiceController handles company service catalog operations
type ServiceController struct {
	catalogService services.ServiceCatalogService
}

// NewServiceController creates a new ServiceController
func NewServiceController(catalogService services.ServiceCatalogService) *ServiceController {
	return &ServiceController{catalogService: catalogService}
}

// GetAllServices handles listing catalog entries
// @Summary List services
// @Tags services
// @Produce json
// @Param companyId query int false "Filter by company ID"
// @Param category query string false "Filter by category"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.ServiceListResponse} "Services retrieved successfully"
// @Router /services [get]
func (c *ServiceController) GetAllServices(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	var companyID *int64
	if v := ctx.Query("companyId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid companyId filter")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		companyID = &id
	}

	var category *string
	if v := ctx.Query("category"); v != "" {
		category = &v
	}

	response, err := c.catalogService.GetAllServices(ctx, companyID, category, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetServiceByID handles retrieving a single catalog entry
// @Summary Get service by ID
// @Tags services
// @Produce json
// @Param id path int true "Service ID"
// @Success 200 {object} dto.APIResponse{data=dto.ServiceResponse} "Service retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Service not found"
// @Router /services/{id} [get]
func (c *ServiceController) GetServiceByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.catalogService.GetServiceByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// CreateService handles creating a catalog entry
// @Summary Create a service
// @Description Creates a service under a company. Only the company's representative and admins may do this.
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateServiceRequest true "Create service request"
// @Success 201 {object} dto.APIResponse{data=dto.ServiceResponse} "Service created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Router /services [post]
func (c *ServiceController) CreateService(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateServiceRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.catalogService.CreateService(ctx, p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// UpdateService handles updating a catalog entry
// @Summary Update a service
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Service ID"
// @Param request body dto.UpdateServiceRequest true "Update service request"
// @Success 200 {object} dto.APIResponse{data=dto.ServiceResponse} "Service updated successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Service not found"
// @Router /services/{id} [put]
func (c *ServiceController) UpdateService(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateServiceRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.catalogService.UpdateService(ctx, p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DeleteService handles deleting a catalog entry
// @Summary Delete a service
// @Tags services
// @Produce json
// @Security BearerAuth
// @Param id path int true "Service ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Service deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Service not found"
// @Router /services/{id} [delete]
func (c *ServiceController) DeleteService(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteService(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "service deleted"}))
}
