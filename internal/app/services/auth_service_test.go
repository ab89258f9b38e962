package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	pkgauth "github.com/benhmida/formatech/internal/pkg/auth"
)

func newAuthServiceForTest(t *testing.T) (AuthService, *fakeUserRepo, *fakeTokenRepo) {
	t.Helper()

	hashed, err := pkgauth.HashPassword("s3cret-pass")
	require.NoError(t, err)

	userRepo := newFakeUserRepo(
		&models.User{ID: 20, Email: "amine@formatech.tn", Password: hashed, Role: models.RoleLearner, IsActive: true},
		&models.User{ID: 21, Email: "closed@formatech.tn", Password: hashed, Role: models.RoleLearner, IsActive: false},
	)
	tokenRepo := newFakeTokenRepo()

	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "formatech-test",
	})

	return NewAuthService(userRepo, tokenRepo, jwtService, testLogger()), userRepo, tokenRepo
}

func TestRegisterCreatesLearnerAndIssuesTokens(t *testing.T) {
	svc, userRepo, tokenRepo := newAuthServiceForTest(t)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "nour@formatech.tn",
		Password:  "s3cret-pass",
		FirstName: "Nour",
		LastName:  "Gharbi",
	})
	require.NoError(t, err)

	assert.Equal(t, string(models.RoleLearner), resp.User.Role)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotEmpty(t, resp.Token.RefreshToken)
	assert.Equal(t, "Bearer", resp.Token.TokenType)

	created, err := userRepo.GetByEmail(context.Background(), "nour@formatech.tn")
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	userID, err := tokenRepo.GetTokenUser(context.Background(), resp.Token.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "amine@formatech.tn",
		Password:  "s3cret-pass",
		FirstName: "Amine",
		LastName:  "Trabelsi",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	assert.True(t, apperrors.IsStructuralConflict(err))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "amine@formatech.tn",
		Password: "wrong-pass",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginHidesUnknownAccounts(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@formatech.tn",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "closed@formatech.tn",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestRefreshTokenRotates(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "amine@formatech.tn",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.Token.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.Token.RefreshToken, refreshed.RefreshToken)

	// The presented token was revoked, so replaying it must fail.
	_, err = svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.Token.RefreshToken,
	})
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestLogoutRevokesSingleToken(t *testing.T) {
	svc, _, tokenRepo := newAuthServiceForTest(t)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "amine@formatech.tn",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.Token.RefreshToken))

	_, err = tokenRepo.GetTokenUser(context.Background(), login.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	svc, _, tokenRepo := newAuthServiceForTest(t)

	first, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "amine@formatech.tn",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "amine@formatech.tn",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(context.Background(), 20))

	_, err = tokenRepo.GetTokenUser(context.Background(), first.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	_, err = tokenRepo.GetTokenUser(context.Background(), second.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}
