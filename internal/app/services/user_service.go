package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/benhmida/formatech/internal/app/auth"
	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/repositories"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/helpers"
)

// UserService defines the interface for user account operations
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)

	GetAllUsers(ctx context.Context, p *auth.Principal, role *models.Role, search *string, page, pageSize int) (*dto.UserListResponse, error)
	GetUserByID(ctx context.Context, p *auth.Principal, id int64) (*dto.UserResponse, error)
	UpdateUserRole(ctx context.Context, p *auth.Principal, userID int64, req *dto.UpdateRoleRequest) (*dto.UserResponse, error)
	SetUserActive(ctx context.Context, p *auth.Principal, userID int64, active bool) error
	DeleteUser(ctx context.Context, p *auth.Principal, userID int64) error
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo  repositories.IUserRepository
	tokenRepo repositories.ITokenRepository
	logger    zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

// GetProfile returns the authenticated user's own profile
func (s *userServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateProfile updates the authenticated user's own profile fields.
// Email and role are not reachable from here.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// GetAllUsers lists user accounts. Admin only.
func (s *userServiceImpl) GetAllUsers(ctx context.Context, p *auth.Principal, role *models.Role, search *string, page, pageSize int) (*dto.UserListResponse, error) {
	if !p.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}
	page, pageSize = helpers.NormalizePagination(page, pageSize)

	users, total, err := s.userRepo.GetAll(ctx, role, search, page, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		return nil, err
	}

	resp := &dto.UserListResponse{
		Users:          make([]dto.UserResponse, 0, len(users)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, pageSize),
	}
	for _, u := range users {
		resp.Users = append(resp.Users, dto.NewUserResponse(u))
	}
	return resp, nil
}

// GetUserByID returns a user account. Admins may read any account; other
// principals only their own.
func (s *userServiceImpl) GetUserByID(ctx context.Context, p *auth.Principal, id int64) (*dto.UserResponse, error) {
	if !p.IsAdmin() && p.UserID != id {
		return nil, apperrors.ErrPermissionDenied
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateUserRole changes a user's role. Admin only. The change takes
// effect on the user's next authentication; existing principals keep the
// role they were built with.
func (s *userServiceImpl) UpdateUserRole(ctx context.Context, p *auth.Principal, userID int64, req *dto.UpdateRoleRequest) (*dto.UserResponse, error) {
	if !p.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, apperrors.ErrValidationFailed
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", userID).Str("role", string(role)).Int64("adminId", p.UserID).Msg("User role changed")

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// SetUserActive enables or disables a user account. Admin only. Disabling
// also revokes the user's refresh tokens so the account cannot mint new
// access tokens.
func (s *userServiceImpl) SetUserActive(ctx context.Context, p *auth.Principal, userID int64, active bool) error {
	if !p.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}

	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return err
	}
	if !active {
		if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Int64("userId", userID).Msg("Failed to revoke tokens of disabled user")
		}
	}

	s.logger.Info().Int64("userId", userID).Bool("active", active).Msg("User active flag changed")
	return nil
}

// DeleteUser removes a user account. Admin only.
func (s *userServiceImpl) DeleteUser(ctx context.Context, p *auth.Principal, userID int64) error {
	if !p.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}
	if p.UserID == userID {
		return apperrors.NewCustomError(apperrors.ErrStructuralConflict, "admins cannot delete their own account")
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Int64("userId", userID).Int64("adminId", p.UserID).Msg("User deleted")
	return nil
}
