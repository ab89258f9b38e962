package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/services"
	"github.com/benhmida/formatech/internal/middleware"
)

// ModuleController handles course module operations
type ModuleController struct {
	moduleService services.ModuleService
}

// NewModuleController creates a new ModuleController
func NewModuleController(moduleService services.ModuleService) *ModuleController {
	return &ModuleController{moduleService: moduleService}
}

// GetModulesByCourse handles listing a course's modules
// @Summary List a course's modules
// @Tags modules
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ModuleResponse} "Modules retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/modules [get]
func (c *ModuleController) GetModulesByCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.moduleService.GetModulesByCourse(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetModuleByID handles retrieving a single module
// @Summary Get module by ID
// @Tags modules
// @Produce json
// @Param id path int true "Module ID"
// @Success 200 {object} dto.APIResponse{data=dto.ModuleResponse} "Module retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Router /modules/{id} [get]
func (c *ModuleController) GetModuleByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.moduleService.GetModuleByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// CreateModule handles adding a module to a course
// @Summary Create a module
// @Description Adds a module to a course. Only the course's instructors and admins may do this.
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.CreateModuleRequest true "Create module request"
// @Success 201 {object} dto.APIResponse{data=dto.ModuleResponse} "Module created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/modules [post]
func (c *ModuleController) CreateModule(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateModuleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.moduleService.CreateModule(ctx, p, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// UpdateModule handles module updates
// @Summary Update a module
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Param request body dto.UpdateModuleRequest true "Update module request"
// @Success 200 {object} dto.APIResponse{data=dto.ModuleResponse} "Module updated successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Router /modules/{id} [put]
func (c *ModuleController) UpdateModule(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateModuleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.moduleService.UpdateModule(ctx, p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DeleteModule handles module deletion
// @Summary Delete a module
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Module deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Router /modules/{id} [delete]
func (c *ModuleController) DeleteModule(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.moduleService.DeleteModule(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "module deleted"}))
}

// AttachFile handles uploading a module's content file
// @Summary Attach a content file to a module
// @Description Uploads a PDF or video file for the module, replacing any previous one
// @Tags modules
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Param file formData file true "Module content file (PDF or video)"
// @Success 200 {object} dto.APIResponse{data=dto.ModuleResponse} "File attached successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing or unsupported file"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Router /modules/{id}/file [post]
func (c *ModuleController) AttachFile(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required")
		errorDetail = errorDetail.WithDetails("Provide the content file in the 'file' form field")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	response, err := c.moduleService.AttachFile(ctx, p, id, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DetachFile handles removing a module's content file
// @Summary Detach a module's content file
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "File detached successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Module or file not found"
// @Router /modules/{id}/file [delete]
func (c *ModuleController) DetachFile(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.moduleService.DetachFile(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "file detached"}))
}
