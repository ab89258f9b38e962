package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/services"
	"github.com/benhmida/formatech/internal/middleware"
)

// CourseController handles course catalog and instructor assignment
// operations
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// GetAllCourses handles listing the course catalog
// @Summary List courses
// @Description Retrieves courses with optional filtering by category, mode, price range, instructor and free-text search
// @Tags courses
// @Produce json
// @Param category query string false "Filter by category"
// @Param mode query string false "Filter by delivery mode" Enums(ONLINE, IN_PERSON, HYBRID)
// @Param search query string false "Search in title and description"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param instructorId query int false "Filter by instructor ID"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse} "Courses retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter parameters"
// @Router /courses [get]
func (c *CourseController) GetAllCourses(ctx *gin.Context) {
	var filter dto.CourseFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	response, err := c.courseService.GetAllCourses(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetCourseByID handles retrieving a single course
// @Summary Get course by ID
// @Description Retrieves a course with its instructors and modules
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Course retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.courseService.GetCourseByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// CreateCourse handles course creation
// @Summary Create a course
// @Description Creates a course. Instructors are assigned to the new course automatically; admins create unassigned courses.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Create course request"
// @Success 201 {object} dto.APIResponse{data=dto.CourseResponse} "Course created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.courseService.CreateCourse(ctx, p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// UpdateCourse handles course updates
// @Summary Update a course
// @Description Updates a course. Only its assigned instructors and admins may update it.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Update course request"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Course updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.courseService.UpdateCourse(ctx, p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DeleteCourse handles course deletion
// @Summary Delete a course
// @Description Deletes a course and detaches its instructors
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Course deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "course deleted"}))
}

// AddInstructor handles assigning an instructor to a course
// @Summary Assign an instructor to a course
// @Description Adds an instructor to the course's instructor set. Adding an already assigned instructor is a no-op.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param instructorId path int true "Instructor ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Instructor assigned successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Course or instructor not found"
// @Router /courses/{id}/instructors/{instructorId} [post]
func (c *CourseController) AddInstructor(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	instructorID, ok := parseIDParam(ctx, "instructorId")
	if !ok {
		return
	}

	response, err := c.courseService.AddInstructorToCourse(ctx, p, courseID, instructorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// RemoveInstructor handles unassigning an instructor from a course
// @Summary Remove an instructor from a course
// @Description Removes an instructor from the course's instructor set. Removing the last instructor is rejected unless performed by an admin.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param instructorId path int true "Instructor ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Instructor removed successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Course not found or instructor not assigned"
// @Failure 409 {object} dto.ErrorResponse "Course must keep at least one instructor"
// @Router /courses/{id}/instructors/{instructorId} [delete]
func (c *CourseController) RemoveInstructor(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	instructorID, ok := parseIDParam(ctx, "instructorId")
	if !ok {
		return
	}

	response, err := c.courseService.RemoveInstructorFromCourse(ctx, p, courseID, instructorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// SetInstructors handles replacing a course's instructor set
// @Summary Replace a course's instructors
// @Description Replaces the full instructor set of a course. Admin only; unknown instructor IDs are skipped.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.SetInstructorsRequest true "Instructor IDs"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Instructor set replaced successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/instructors [put]
func (c *CourseController) SetInstructors(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SetInstructorsRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.courseService.SetCourseInstructors(ctx, p, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
