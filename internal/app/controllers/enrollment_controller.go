package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/services"
	"github.com/benhmida/formatech/internal/middleware"
	"github.com/benhmida/formatech/internal/pkg/helpers"
)

// EnrollmentController handles course enrollment operations
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// Enroll handles enrolling the authenticated user in a course
// @Summary Enroll in a course
// @Description Enrolls the authenticated user. Free courses activate immediately; paid courses stay pending until payment completes.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEnrollmentRequest true "Enrollment request"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrolled successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled in this course"
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateEnrollmentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.enrollmentService.Enroll(ctx, p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// GetEnrollmentByID handles retrieving a single enrollment
// @Summary Get enrollment by ID
// @Description Retrieves an enrollment. Restricted to its owner, the course's instructors and admins.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrollment retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [get]
func (c *EnrollmentController) GetEnrollmentByID(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.enrollmentService.GetEnrollmentByID(ctx, p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetMyEnrollments handles listing the authenticated user's enrollments
// @Summary List own enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentListResponse} "Enrollments retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /enrollments/me [get]
func (c *EnrollmentController) GetMyEnrollments(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)

	response, err := c.enrollmentService.GetMyEnrollments(ctx, p, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetCourseEnrollments handles listing a course's enrollments
// @Summary List a course's enrollments
// @Description Retrieves the enrollments of a course. Restricted to the course's instructors and admins.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentListResponse} "Enrollments retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/enrollments [get]
func (c *EnrollmentController) GetCourseEnrollments(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)

	response, err := c.enrollmentService.GetCourseEnrollments(ctx, p, courseID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// UpdateStatus handles changing an enrollment's status
// @Summary Update an enrollment's status
// @Description Changes an enrollment's status. Completion is reserved for the course's instructors and admins; owners may cancel their own enrollment.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param request body dto.UpdateEnrollmentStatusRequest true "Status update request"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Status updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id}/status [put]
func (c *EnrollmentController) UpdateStatus(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEnrollmentStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.enrollmentService.UpdateEnrollmentStatus(ctx, p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Cancel handles cancelling an enrollment
// @Summary Cancel an enrollment
// @Description Cancels an enrollment. Allowed for its owner and admins.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Enrollment cancelled"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) Cancel(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.CancelEnrollment(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "enrollment cancelled"}))
}
