package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/services"
	"github.com/benhmida/formatech/internal/middleware"
)

// PracticalSessionController handles hands-on session scheduling
type PracticalSessionController struct {
	sessionService services.PracticalSessionService
}

// NewPracticalSessionController creates a new PracticalSessionController
func NewPracticalSessionController(sessionService services.PracticalSessionService) *PracticalSessionController {
	return &PracticalSessionController{sessionService: sessionService}
}

// GetSessionsByCourse handles listing a course's practical sessions
// @Summary List a course's practical sessions
// @Tags practical-sessions
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.PracticalSessionResponse} "Sessions retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/sessions [get]
func (c *PracticalSessionController) GetSessionsByCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.sessionService.GetSessionsByCourse(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetSessionByID handles retrieving a single practical session
// @Summary Get practical session by ID
// @Tags practical-sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.PracticalSessionResponse} "Session retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id} [get]
func (c *PracticalSessionController) GetSessionByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.sessionService.GetSessionByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// CreateSession handles scheduling a practical session
// @Summary Schedule a practical session
// @Description Schedules a hands-on session for a course. The conducting instructor must be assigned to the course.
// @Tags practical-sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePracticalSessionRequest true "Create session request"
// @Success 201 {object} dto.APIResponse{data=dto.PracticalSessionResponse} "Session scheduled successfully"
// @Failure 400 {object} dto.ErrorResponse "Conducting instructor not assigned to the course"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /sessions [post]
func (c *PracticalSessionController) CreateSession(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreatePracticalSessionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.sessionService.CreateSession(ctx, p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// UpdateSession handles updating a practical session
// @Summary Update a practical session
// @Description Updates a session. Reassigning the conductor revalidates course membership.
// @Tags practical-sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body dto.UpdatePracticalSessionRequest true "Update session request"
// @Success 200 {object} dto.APIResponse{data=dto.PracticalSessionResponse} "Session updated successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id} [put]
func (c *PracticalSessionController) UpdateSession(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdatePracticalSessionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.sessionService.UpdateSession(ctx, p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DeleteSession handles deleting a practical session
// @Summary Delete a practical session
// @Tags practical-sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Session deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id} [delete]
func (c *PracticalSessionController) DeleteSession(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.sessionService.DeleteSession(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "session deleted"}))
}
