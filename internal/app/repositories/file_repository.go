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

// IFileRepository defines the interface for file metadata database operations
type IFileRepository interface {
	Create(ctx context.Context, file *models.File) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.File, error)
	GetByResource(ctx context.Context, resourceType models.ResourceType, resourceID int64) ([]*models.File, error)
	Delete(ctx context.Context, id int64) error
}

// FileRepository handles file metadata database operations
type FileRepository struct {
	db *pgxpool.Pool
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{db: db}
}

const fileColumns = "id, file_name, file_path, file_url, file_size, file_type, resource_type, resource_id, uploaded_by, created_at"

// Create inserts a new file record and returns its ID
func (r *FileRepository) Create(ctx context.Context, file *models.File) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO files (file_name, file_path, file_url, file_size, file_type, resource_type, resource_id, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		file.FileName, file.FilePath, file.FileURL, file.FileSize, file.FileType,
		file.ResourceType, file.ResourceID, file.UploadedBy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating file record: %w", err)
	}
	return id, nil
}

// GetByID retrieves a file record by ID
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	file := &models.File{}
	err := r.db.QueryRow(ctx, `SELECT `+fileColumns+` FROM files WHERE id = $1`, id).Scan(
		&file.ID, &file.FileName, &file.FilePath, &file.FileURL, &file.FileSize,
		&file.FileType, &file.ResourceType, &file.ResourceID, &file.UploadedBy, &file.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrFileNotFound)
		}
		return nil, fmt.Errorf("error retrieving file record: %w", err)
	}
	return file, nil
}

// GetByResource retrieves the files attached to a given entity
func (r *FileRepository) GetByResource(ctx context.Context, resourceType models.ResourceType, resourceID int64) ([]*models.File, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+fileColumns+` FROM files
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY id`, resourceType, resourceID)
	if err != nil {
		return nil, fmt.Errorf("error listing file records: %w", err)
	}
	defer rows.Close()

	files := []*models.File{}
	for rows.Next() {
		file := &models.File{}
		err := rows.Scan(
			&file.ID, &file.FileName, &file.FilePath, &file.FileURL, &file.FileSize,
			&file.FileType, &file.ResourceType, &file.ResourceID, &file.UploadedBy, &file.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning file row: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file rows: %w", err)
	}

	return files, nil
}

// Delete removes a file record
func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting file record: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrFileNotFound)
	}
	return nil
}
