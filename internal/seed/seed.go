package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/benhmida/formatech/internal/app/models"
	appRepos "github.com/benhmida/formatech/internal/app/repositories"
)

const defaultAdminEmail = "admin@formatech.tn"

// CreateDefaultData creates the default admin account if it doesn't exist.
// Failures are collected and reported together so a partial seed never
// blocks startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	exists, err := userRepo.EmailExists(ctx, defaultAdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		lgr.Info().Msg("Creating default admin user...")

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), bcrypt.DefaultCost)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, err)
		} else {
			admin := &models.User{
				Email:     defaultAdminEmail,
				Password:  string(hashedPassword),
				FirstName: "Formatech",
				LastName:  "Admin",
				Role:      models.RoleAdmin,
				IsActive:  true,
			}
			if _, err := userRepo.Create(ctx, admin); err != nil {
				lgr.Error().Err(err).Msg("Error creating default admin user")
				finalErr = errors.Join(finalErr, err)
			} else {
				lgr.Info().Str("email", defaultAdminEmail).Msg("Default admin user created")
			}
		}
	}

	return finalErr
}
