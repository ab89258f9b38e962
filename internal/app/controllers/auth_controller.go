package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/services"
	"github.com/benhmida/formatech/internal/middleware"
)

// AuthController handles registration, login and token lifecycle
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register handles new user registration
// @Summary Register a new user
// @Description Creates a new account with the LEARNER role and returns a token pair. Elevated roles are granted by administrators afterwards.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "User registered successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.authService.Register(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// Login handles user authentication
// @Summary Log in
// @Description Authenticates a user by email and password and returns a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Authenticated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials or disabled account"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.authService.Login(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// RefreshToken handles access token renewal
// @Summary Refresh tokens
// @Description Exchanges a valid refresh token for a fresh token pair. The used refresh token is revoked.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token request"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Tokens refreshed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Refresh token invalid, expired or revoked"
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.authService.RefreshToken(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Logout revokes a single refresh token
// @Summary Log out
// @Description Revokes the given refresh token. The access token stays valid until it expires.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RefreshTokenRequest true "Refresh token to revoke"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Logged out successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.authService.Logout(ctx, req.RefreshToken); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "logged out"}))
}

// LogoutAll revokes every refresh token of the authenticated user
// @Summary Log out everywhere
// @Description Revokes all refresh tokens belonging to the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "All sessions revoked"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/logout-all [post]
func (c *AuthController) LogoutAll(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	if err := c.authService.LogoutAll(ctx, p.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "all sessions revoked"}))
}
