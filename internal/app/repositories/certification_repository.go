package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/dberrors"
	"github.com/benhmida/formatech/internal/pkg/logger"
)

// ICertificationRepository defines the interface for certification database operations
type ICertificationRepository interface {
	Create(ctx context.Context, cert *models.Certification) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Certification, error)
	GetByCode(ctx context.Context, code string) (*models.Certification, error)
	GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Certification, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Certification, error)
	UpdateStatus(ctx context.Context, id int64, status models.CertificationStatus) error
	Renew(ctx context.Context, id int64, expiryDate time.Time) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// CertificationRepository handles certification database operations
type CertificationRepository struct {
	db *pgxpool.Pool
}

// NewCertificationRepository creates a new CertificationRepository
func NewCertificationRepository(db *pgxpool.Pool) *CertificationRepository {
	return &CertificationRepository{db: db}
}

const certificationColumns = "id, user_id, course_id, code, issue_date, expiry_date, status, created_at"

func scanCertification(row pgx.Row) (*models.Certification, error) {
	c := &models.Certification{}
	err := row.Scan(&c.ID, &c.UserID, &c.CourseID, &c.Code, &c.IssueDate, &c.ExpiryDate, &c.Status, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new certification. One certification per user and course.
func (r *CertificationRepository) Create(ctx context.Context, cert *models.Certification) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO certifications (user_id, course_id, code, issue_date, expiry_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		cert.UserID, cert.CourseID, cert.Code, cert.IssueDate, cert.ExpiryDate, cert.Status).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.Structural(apperrors.ErrAlreadyCertified)
		}
		return 0, fmt.Errorf("error creating certification: %w", err)
	}
	return id, nil
}

// GetByID retrieves a certification by ID
func (r *CertificationRepository) GetByID(ctx context.Context, id int64) (*models.Certification, error) {
	c, err := scanCertification(r.db.QueryRow(ctx, `
		SELECT `+certificationColumns+` FROM certifications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrCertificationNotFound)
		}
		return nil, fmt.Errorf("error retrieving certification: %w", err)
	}
	return c, nil
}

// GetByCode retrieves a certification by its public verification code
func (r *CertificationRepository) GetByCode(ctx context.Context, code string) (*models.Certification, error) {
	c, err := scanCertification(r.db.QueryRow(ctx, `
		SELECT `+certificationColumns+` FROM certifications WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrCertificationNotFound)
		}
		return nil, fmt.Errorf("error retrieving certification: %w", err)
	}
	return c, nil
}

// GetByUserAndCourse retrieves a user's certification for a course
func (r *CertificationRepository) GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Certification, error) {
	c, err := scanCertification(r.db.QueryRow(ctx, `
		SELECT `+certificationColumns+` FROM certifications WHERE user_id = $1 AND course_id = $2`,
		userID, courseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrCertificationNotFound)
		}
		return nil, fmt.Errorf("error retrieving certification: %w", err)
	}
	return c, nil
}

// GetByUserID retrieves all of a user's certifications
func (r *CertificationRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Certification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+certificationColumns+` FROM certifications WHERE user_id = $1 ORDER BY issue_date DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("error listing certifications: %w", err)
	}
	defer rows.Close()

	certs := []*models.Certification{}
	for rows.Next() {
		c := &models.Certification{}
		err := rows.Scan(&c.ID, &c.UserID, &c.CourseID, &c.Code, &c.IssueDate, &c.ExpiryDate, &c.Status, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning certification row: %w", err)
		}
		certs = append(certs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating certification rows: %w", err)
	}

	return certs, nil
}

// UpdateStatus changes a certification's status
func (r *CertificationRepository) UpdateStatus(ctx context.Context, id int64, status models.CertificationStatus) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE certifications SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating certification status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrCertificationNotFound)
	}
	return nil
}

// Renew extends a certification's validity and reactivates it
func (r *CertificationRepository) Renew(ctx context.Context, id int64, expiryDate time.Time) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE certifications SET expiry_date = $1, status = $2 WHERE id = $3`,
		expiryDate, models.CertificationActive, id)
	if err != nil {
		return fmt.Errorf("error renewing certification: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrCertificationNotFound)
	}
	return nil
}

// ExpireOverdue marks active certifications past their expiry date as
// expired and returns how many were flipped. Run periodically by the
// certification sweeper.
func (r *CertificationRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE certifications
		SET status = $1
		WHERE status = $2 AND expiry_date IS NOT NULL AND expiry_date < $3`,
		models.CertificationExpired, models.CertificationActive, now)
	if err != nil {
		return 0, fmt.Errorf("error expiring certifications: %w", err)
	}

	expired := cmdTag.RowsAffected()
	if expired > 0 {
		logger.Info().Int64("expiredCount", expired).Msg("Marked overdue certifications as expired")
	}
	return expired, nil
}
