package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
)

// IModuleRepository defines the interface for course module database operations
type IModuleRepository interface {
	Create(ctx context.Context, module *models.Module) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Module, error)
	GetByCourseID(ctx context.Context, courseID int64) ([]*models.Module, error)
	Update(ctx context.Context, module *models.Module) error
	SetFile(ctx context.Context, moduleID int64, fileID *int64) error
	Delete(ctx context.Context, id int64) error
}

// ModuleRepository handles course module database operations
type ModuleRepository struct {
	db *pgxpool.Pool
}

// NewModuleRepository creates a new ModuleRepository
func NewModuleRepository(db *pgxpool.Pool) *ModuleRepository {
	return &ModuleRepository{db: db}
}

// Create inserts a new module and returns its ID
func (r *ModuleRepository) Create(ctx context.Context, module *models.Module) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO modules (course_id, title, description, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		module.CourseID, module.Title, module.Description, module.Position).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating module: %w", err)
	}
	return id, nil
}

// GetByID retrieves a module by ID
func (r *ModuleRepository) GetByID(ctx context.Context, id int64) (*models.Module, error) {
	module := &models.Module{}
	err := r.db.QueryRow(ctx, `
		SELECT id, course_id, title, description, position, file_id, created_at
		FROM modules
		WHERE id = $1`, id).Scan(
		&module.ID, &module.CourseID, &module.Title, &module.Description,
		&module.Position, &module.FileID, &module.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrModuleNotFound)
		}
		return nil, fmt.Errorf("error retrieving module: %w", err)
	}
	return module, nil
}

// GetByCourseID retrieves a course's modules ordered by position
func (r *ModuleRepository) GetByCourseID(ctx context.Context, courseID int64) ([]*models.Module, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, course_id, title, description, position, file_id, created_at
		FROM modules
		WHERE course_id = $1
		ORDER BY position, id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing modules: %w", err)
	}
	defer rows.Close()

	modules := []*models.Module{}
	for rows.Next() {
		module := &models.Module{}
		err := rows.Scan(
			&module.ID, &module.CourseID, &module.Title, &module.Description,
			&module.Position, &module.FileID, &module.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning module row: %w", err)
		}
		modules = append(modules, module)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating module rows: %w", err)
	}

	return modules, nil
}

// Update updates a module's fields
func (r *ModuleRepository) Update(ctx context.Context, module *models.Module) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE modules
		SET title = $1, description = $2, position = $3
		WHERE id = $4`,
		module.Title, module.Description, module.Position, module.ID)
	if err != nil {
		return fmt.Errorf("error updating module: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrModuleNotFound)
	}
	return nil
}

// SetFile attaches or detaches the module's content file
func (r *ModuleRepository) SetFile(ctx context.Context, moduleID int64, fileID *int64) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE modules SET file_id = $1 WHERE id = $2`, fileID, moduleID)
	if err != nil {
		return fmt.Errorf("error setting module file: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrModuleNotFound)
	}
	return nil
}

// Delete removes a module
func (r *ModuleRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM modules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting module: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrModuleNotFound)
	}
	return nil
}
