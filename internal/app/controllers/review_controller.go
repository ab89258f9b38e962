package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/services"
	"github.com/benhmida/formatech/internal/middleware"
	"github.com/benhmida/formatech/internal/pkg/helpers"
)

// ReviewController handles course review operations
type ReviewController struct {
	reviewService services.ReviewService
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviewService services.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// GetCourseReviews handles listing a course's reviews
// @Summary List a course's reviews
// @Tags reviews
// @Produce json
// @Param id path int true "Course ID"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.ReviewListResponse} "Reviews retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/reviews [get]
func (c *ReviewController) GetCourseReviews(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)

	response, err := c.reviewService.GetCourseReviews(ctx, courseID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// CreateReview handles posting a review
// @Summary Review a course
// @Description Posts a review for a course and refreshes the ratings of its instructors. Instructors cannot review courses; one review per user and course.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateReviewRequest true "Create review request"
// @Success 201 {object} dto.APIResponse{data=dto.ReviewResponse} "Review created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course already reviewed by this user"
// @Router /reviews [post]
func (c *ReviewController) CreateReview(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.reviewService.CreateReview(ctx, p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// UpdateReview handles editing a review
// @Summary Update a review
// @Description Updates a review and refreshes instructor ratings. Allowed for its author and admins.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Param request body dto.UpdateReviewRequest true "Update review request"
// @Success 200 {object} dto.APIResponse{data=dto.ReviewResponse} "Review updated successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Router /reviews/{id} [put]
func (c *ReviewController) UpdateReview(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.reviewService.UpdateReview(ctx, p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DeleteReview handles deleting a review
// @Summary Delete a review
// @Description Deletes a review and refreshes instructor ratings. Allowed for its author and admins.
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Review deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Router /reviews/{id} [delete]
func (c *ReviewController) DeleteReview(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.reviewService.DeleteReview(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "review deleted"}))
}
