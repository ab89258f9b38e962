package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appauth "github.com/benhmida/formatech/internal/app/auth"
	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/auth"
)

// principalKey is the gin context key the authenticated principal lives
// under for the duration of a request.
const principalKey = "principal"

// AuthMiddleware builds the request principal from JWT claims
type AuthMiddleware struct {
	jwtService *auth.JWTService
	resolver   appauth.LinkResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, resolver appauth.LinkResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		resolver:   resolver,
	}
}

// JWTAuth validates the bearer token and installs a principal on the
// context. The principal carries the role the token was issued with; role
// changes only apply to tokens issued afterwards.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
			errorDetail = errorDetail.WithDetails(errorDetails)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		role := models.Role(claims.Role)
		if !role.Valid() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed")
			errorDetail = errorDetail.WithDetails("Unknown role in token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(principalKey, appauth.NewPrincipal(claims.UserID, role, m.resolver))
		c.Next()
	}
}

// RoleRequired rejects requests whose principal does not hold one of the
// given roles. Must run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		for _, role := range roles {
			if p.HasRole(role) {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}

// GetPrincipal returns the request principal installed by JWTAuth
func GetPrincipal(c *gin.Context) (*appauth.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	p, ok := value.(*appauth.Principal)
	return p, ok
}
