package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/services"
	"github.com/benhmida/formatech/internal/middleware"
	"github.com/benhmida/formatech/internal/pkg/helpers"
)

// InstructorController handles instructor profile operations
type InstructorController struct {
	instructorService services.InstructorService
}

// NewInstructorController creates a new InstructorController
func NewInstructorController(instructorService services.InstructorService) *InstructorController {
	return &InstructorController{instructorService: instructorService}
}

// GetAllInstructors handles listing instructors
// @Summary List instructors
// @Tags instructors
// @Produce json
// @Param expertise query string false "Filter by expertise"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.InstructorListResponse} "Instructors retrieved successfully"
// @Router /instructors [get]
func (c *InstructorController) GetAllInstructors(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	var expertise *string
	if e := ctx.Query("expertise"); e != "" {
		expertise = &e
	}

	response, err := c.instructorService.GetAllInstructors(ctx, expertise, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetInstructorByID handles retrieving a single instructor
// @Summary Get instructor by ID
// @Tags instructors
// @Produce json
// @Param id path int true "Instructor ID"
// @Success 200 {object} dto.APIResponse{data=dto.InstructorResponse} "Instructor retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id} [get]
func (c *InstructorController) GetInstructorByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.instructorService.GetInstructorByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetInstructorCourses handles listing an instructor's courses
// @Summary List an instructor's courses
// @Tags instructors
// @Produce json
// @Param id path int true "Instructor ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse} "Courses retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id}/courses [get]
func (c *InstructorController) GetInstructorCourses(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.instructorService.GetInstructorCourses(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// CreateInstructor handles creating an instructor profile
// @Summary Create an instructor profile
// @Description Creates an instructor profile for an existing user and promotes the user to the INSTRUCTOR role. Admin only.
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateInstructorRequest true "Create instructor request"
// @Success 201 {object} dto.APIResponse{data=dto.InstructorResponse} "Instructor created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "User already has an instructor profile"
// @Router /instructors [post]
func (c *InstructorController) CreateInstructor(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateInstructorRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.instructorService.CreateInstructor(ctx, p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// UpdateInstructor handles updating an instructor profile
// @Summary Update an instructor profile
// @Description Updates an instructor profile. Admins may update anyone, instructors only their own profile.
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Param request body dto.UpdateInstructorRequest true "Update instructor request"
// @Success 200 {object} dto.APIResponse{data=dto.InstructorResponse} "Instructor updated successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id} [put]
func (c *InstructorController) UpdateInstructor(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateInstructorRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.instructorService.UpdateInstructor(ctx, p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DeleteInstructor handles deleting an instructor profile
// @Summary Delete an instructor profile
// @Description Deletes an instructor profile and detaches it from every course. Admin only.
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Instructor deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id} [delete]
func (c *InstructorController) DeleteInstructor(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.instructorService.DeleteInstructor(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "instructor deleted"}))
}
