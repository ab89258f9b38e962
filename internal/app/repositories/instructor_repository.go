package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/dberrors"
)

// IInstructorRepository defines the interface for instructor database operations
type IInstructorRepository interface {
	Create(ctx context.Context, instructor *models.Instructor) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Instructor, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Instructor, error)
	GetAll(ctx context.Context, expertise *string, page, pageSize int) ([]*models.Instructor, int64, error)
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	Update(ctx context.Context, instructor *models.Instructor) error
	UpdateRating(ctx context.Context, tx pgx.Tx, instructorID int64, rating *float64) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
}

// InstructorRepository handles instructor database operations
type InstructorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInstructorRepository creates a new InstructorRepository
func NewInstructorRepository(db *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create creates a new instructor profile. A user can hold at most one.
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO instructors (user_id, bio, expertise)
		VALUES ($1, $2, $3)
		RETURNING id`,
		instructor.UserID, instructor.Bio, instructor.Expertise).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "instructors_user_id_key") {
			return 0, apperrors.Structural(apperrors.ErrAlreadyInstructor)
		}
		return 0, fmt.Errorf("error creating instructor: %w", err)
	}
	return id, nil
}

// GetByID retrieves an instructor with its user relation populated
func (r *InstructorRepository) GetByID(ctx context.Context, id int64) (*models.Instructor, error) {
	return r.getOne(ctx, "i.id = $1", id)
}

// GetByUserID retrieves the instructor profile linked to a user
func (r *InstructorRepository) GetByUserID(ctx context.Context, userID int64) (*models.Instructor, error) {
	return r.getOne(ctx, "i.user_id = $1", userID)
}

func (r *InstructorRepository) getOne(ctx context.Context, where string, arg any) (*models.Instructor, error) {
	ins := &models.Instructor{User: &models.User{}}
	err := r.db.QueryRow(ctx, `
		SELECT i.id, i.user_id, i.bio, i.expertise, i.rating, i.created_at,
		       u.id, u.email, u.first_name, u.last_name, u.phone, u.role, u.is_active, u.created_at, u.updated_at
		FROM instructors i
		JOIN users u ON u.id = i.user_id
		WHERE `+where, arg).Scan(
		&ins.ID, &ins.UserID, &ins.Bio, &ins.Expertise, &ins.Rating, &ins.CreatedAt,
		&ins.User.ID, &ins.User.Email, &ins.User.FirstName, &ins.User.LastName,
		&ins.User.Phone, &ins.User.Role, &ins.User.IsActive, &ins.User.CreatedAt, &ins.User.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrInstructorNotFound)
		}
		return nil, fmt.Errorf("error retrieving instructor: %w", err)
	}
	return ins, nil
}

// GetAll retrieves instructors with optional expertise search
func (r *InstructorRepository) GetAll(ctx context.Context, expertise *string, page, pageSize int) ([]*models.Instructor, int64, error) {
	query := r.sb.Select(
		"i.id", "i.user_id", "i.bio", "i.expertise", "i.rating", "i.created_at",
		"u.id", "u.email", "u.first_name", "u.last_name", "u.phone", "u.role", "u.is_active", "u.created_at", "u.updated_at",
		"COUNT(*) OVER() AS total_count",
	).From("instructors i").Join("users u ON u.id = i.user_id")

	if expertise != nil && *expertise != "" {
		query = query.Where(squirrel.ILike{"i.expertise": "%" + *expertise + "%"})
	}

	offset := uint64((page - 1) * pageSize)
	sql, args, err := query.OrderBy("i.id").Limit(uint64(pageSize)).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build instructor list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing instructors: %w", err)
	}
	defer rows.Close()

	instructors := []*models.Instructor{}
	var total int64
	for rows.Next() {
		ins := &models.Instructor{User: &models.User{}}
		err := rows.Scan(
			&ins.ID, &ins.UserID, &ins.Bio, &ins.Expertise, &ins.Rating, &ins.CreatedAt,
			&ins.User.ID, &ins.User.Email, &ins.User.FirstName, &ins.User.LastName,
			&ins.User.Phone, &ins.User.Role, &ins.User.IsActive, &ins.User.CreatedAt, &ins.User.UpdatedAt,
			&total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning instructor row: %w", err)
		}
		instructors = append(instructors, ins)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating instructor rows: %w", err)
	}

	return instructors, total, nil
}

// ExistingIDs reports which of the given instructor IDs exist.
func (r *InstructorRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id FROM instructors WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("error checking instructor ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning instructor id: %w", err)
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instructor ids: %w", err)
	}

	return existing, nil
}

// Update updates an instructor's profile fields
func (r *InstructorRepository) Update(ctx context.Context, instructor *models.Instructor) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE instructors SET bio = $1, expertise = $2 WHERE id = $3`,
		instructor.Bio, instructor.Expertise, instructor.ID)
	if err != nil {
		return fmt.Errorf("error updating instructor: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrInstructorNotFound)
	}
	return nil
}

// UpdateRating sets the instructor's aggregate review rating. A nil rating
// clears it (no reviews left).
func (r *InstructorRepository) UpdateRating(ctx context.Context, tx pgx.Tx, instructorID int64, rating *float64) error {
	q := querier(r.db, tx)
	cmdTag, err := q.Exec(ctx, `UPDATE instructors SET rating = $1 WHERE id = $2`, rating, instructorID)
	if err != nil {
		return fmt.Errorf("error updating instructor rating: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrInstructorNotFound)
	}
	return nil
}

// Delete removes an instructor profile. The caller is responsible for
// detaching the instructor from its courses in the same transaction.
func (r *InstructorRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	q := querier(r.db, tx)
	cmdTag, err := q.Exec(ctx, `DELETE FROM instructors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting instructor: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrInstructorNotFound)
	}
	return nil
}
