package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/services"
	"github.com/benhmida/formatech/internal/middleware"
	"github.com/benhmida/formatech/internal/pkg/helpers"
)

// UserController handles user profile and administration operations
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetProfile handles retrieving the authenticated user's profile
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users/me [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	response, err := c.userService.GetProfile(ctx, p.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// UpdateProfile handles updating the authenticated user's profile
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile update request"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users/me [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.userService.UpdateProfile(ctx, p.UserID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetAllUsers handles listing users
// @Summary List users
// @Description Retrieves users with optional role and search filters. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role" Enums(LEARNER, INSTRUCTOR, COMPANY_REP, ADMIN)
// @Param search query string false "Search by name or email"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse} "Users retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /users [get]
func (c *UserController) GetAllUsers(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)

	var role *models.Role
	if roleStr := ctx.Query("role"); roleStr != "" {
		r := models.Role(roleStr)
		if !r.Valid() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid role filter")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		role = &r
	}

	var search *string
	if s := ctx.Query("search"); s != "" {
		search = &s
	}

	response, err := c.userService.GetAllUsers(ctx, p, role, search, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetUserByID handles retrieving a user by ID
// @Summary Get user by ID
// @Description Retrieves a user. Admins may read anyone, other users only themselves.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (c *UserController) GetUserByID(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.userService.GetUserByID(ctx, p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// UpdateUserRole handles changing a user's role
// @Summary Change a user's role
// @Description Changes a user's role. Admin only; the new role takes effect on the user's next authentication.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateRoleRequest true "Role update request"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Role updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid role"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id}/role [put]
func (c *UserController) UpdateUserRole(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.userService.UpdateUserRole(ctx, p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// SetUserActive handles enabling or disabling an account
// @Summary Enable or disable a user account
// @Description Enables or disables an account. Admin only; disabling revokes every refresh token of the user.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.SetActiveRequest true "Activation request"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Account state updated"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id}/active [put]
func (c *UserController) SetUserActive(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SetActiveRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.userService.SetUserActive(ctx, p, id, *req.Active); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "account state updated"}))
}

// DeleteUser handles deleting a user account
// @Summary Delete a user
// @Description Deletes a user account. Admin only; admins cannot delete their own account.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "User deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Admins cannot delete their own account"
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "user deleted"}))
}
