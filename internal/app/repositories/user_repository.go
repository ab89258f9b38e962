package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/dberrors"
	"github.com/benhmida/formatech/internal/pkg/logger"
)

// IUserRepository defines the interface for user database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetAll(ctx context.Context, role *models.Role, search *string, page, pageSize int) ([]*models.User, int64, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, userID int64, role models.Role) error
	SetActive(ctx context.Context, userID int64, active bool) error
	UpdateLastLogin(ctx context.Context, userID int64) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const userColumns = "id, email, password, first_name, last_name, phone, role, is_active, created_at, updated_at"

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
		&user.Phone, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create creates a new user and returns its ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password, first_name, last_name, phone, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		user.Email, user.Password, user.FirstName, user.LastName, user.Phone, user.Role, user.IsActive).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.Structural(apperrors.ErrEmailAlreadyExists)
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return id, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrUserNotFound)
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrUserNotFound)
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetAll retrieves users with optional role filter and name/email search
func (r *UserRepository) GetAll(ctx context.Context, role *models.Role, search *string, page, pageSize int) ([]*models.User, int64, error) {
	query := r.sb.Select(userColumns, "COUNT(*) OVER() AS total_count").From("users")

	if role != nil {
		query = query.Where(squirrel.Eq{"role": *role})
	}
	if search != nil && *search != "" {
		pattern := "%" + *search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
		})
	}

	offset := uint64((page - 1) * pageSize)
	sql, args, err := query.OrderBy("id").Limit(uint64(pageSize)).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build user list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	var total int64
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
			&user.Phone, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
			&total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, total, nil
}

// EmailExists checks if an email is already taken
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// Update updates a user's profile fields
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, phone = $4, updated_at = NOW()
		WHERE id = $5`,
		user.Email, user.FirstName, user.LastName, user.Phone, user.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.Structural(apperrors.ErrEmailAlreadyExists)
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrUserNotFound)
	}
	return nil
}

// UpdateRole changes a user's role
func (r *UserRepository) UpdateRole(ctx context.Context, userID int64, role models.Role) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`,
		role, userID)
	if err != nil {
		return fmt.Errorf("error updating user role: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrUserNotFound)
	}
	return nil
}

// SetActive enables or disables a user account
func (r *UserRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`,
		active, userID)
	if err != nil {
		return fmt.Errorf("error updating user active flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrUserNotFound)
	}
	return nil
}

// UpdateLastLogin records a successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update last login time: %w", err)
	}
	return nil
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrUserNotFound)
	}
	logger.Info().Int64("userID", id).Msg("User deleted")
	return nil
}
