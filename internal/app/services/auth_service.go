package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/repositories"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/auth"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID int64) error
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   repositories.IUserRepository
	tokenRepo  repositories.ITokenRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a new user account. New accounts always start with the
// LEARNER role; elevation is an admin operation.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user := &models.User{
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      models.RoleLearner,
		IsActive:  true,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.logger.Info().Int64("userId", id).Str("email", user.Email).Msg("User registered")
	return s.issueTokens(ctx, user)
}

// Login authenticates a user by email and password
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Do not reveal whether the account exists.
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Int64("userId", user.ID).Msg("Login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to record last login")
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken rotates a refresh token: the presented token is revoked and
// a fresh pair is issued, so a stolen token works at most once.
func (s *authServiceImpl) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	userID, err := s.tokenRepo.GetTokenUser(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.RevokeToken(ctx, req.RefreshToken); err != nil {
		return nil, err
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &resp.Token, nil
}

// Logout revokes a single refresh token
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.RevokeToken(ctx, refreshToken)
}

// LogoutAll revokes every refresh token of a user
func (s *authServiceImpl) LogoutAll(ctx context.Context, userID int64) error {
	return s.tokenRepo.RevokeAllUserTokens(ctx, userID)
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("userId", user.ID).Msg("Failed to generate token pair")
		return nil, err
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		User: dto.NewUserResponse(user),
		Token: dto.TokenResponse{
			AccessToken:      accessToken,
			RefreshToken:     refreshToken,
			ExpiresIn:        expiresIn,
			RefreshExpiresIn: refreshExpiresIn,
			TokenType:        "Bearer",
		},
	}, nil
}
