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

// EventController handles event and registration operations
type EventController struct {
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// GetAllEvents handles listing events
// @Summary List events
// @Tags events
// @Produce json
// @Param companyId query int false "Filter by organizing company ID"
// @Param upcoming query bool false "Only events that have not started yet"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse} "Events retrieved successfully"
// @Router /events [get]
func (c *EventController) GetAllEvents(ctx *gin.Context) {
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

	upcomingOnly := ctx.Query("upcoming") == "true"

	response, err := c.eventService.GetAllEvents(ctx, companyID, upcomingOnly, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetEventByID handles retrieving a single event
// @Summary Get event by ID
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) GetEventByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.eventService.GetEventByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// CreateEvent handles event creation
// @Summary Create an event
// @Description Creates an event under a company. Only the company's representative and admins may do this.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Create event request"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse} "Event created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.eventService.CreateEvent(ctx, p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// UpdateEvent handles event updates
// @Summary Update an event
// @Description Updates an event. Lowering the participant limit below the current registration count is rejected.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.UpdateEventRequest true "Update event request"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event updated successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Participant limit below current registrations"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.eventService.UpdateEvent(ctx, p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DeleteEvent handles event deletion
// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Event deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.eventService.DeleteEvent(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "event deleted"}))
}

// Register handles registering the authenticated user for an event
// @Summary Register for an event
// @Description Registers the authenticated user. Rejected when the event is full, its registration deadline has passed, or the user is already registered.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 201 {object} dto.APIResponse{data=dto.EventRegistrationResponse} "Registered successfully"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Event full, registration closed or already registered"
// @Router /events/{id}/register [post]
func (c *EventController) Register(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.eventService.RegisterForEvent(ctx, p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// CancelRegistration handles cancelling the user's event registration
// @Summary Cancel an event registration
// @Description Cancels the authenticated user's registration and frees the seat
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Registration cancelled"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /events/{id}/register [delete]
func (c *EventController) CancelRegistration(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.eventService.CancelRegistration(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "registration cancelled"}))
}

// GetRegistrations handles listing an event's registrations
// @Summary List an event's registrations
// @Description Retrieves the registrations of an event. Restricted to the organizing company's representative and admins.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.EventRegistrationResponse} "Registrations retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/registrations [get]
func (c *EventController) GetRegistrations(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.eventService.GetEventRegistrations(ctx, p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
