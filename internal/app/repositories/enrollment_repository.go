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
)

// IEnrollmentRepository defines the interface for enrollment database operations
type IEnrollmentRepository interface {
	Create(ctx context.Context, tx pgx.Tx, enrollment *models.Enrollment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
	GetByUserID(ctx context.Context, userID int64, page, pageSize int) ([]*models.Enrollment, int64, error)
	GetByCourseID(ctx context.Context, courseID int64, page, pageSize int) ([]*models.Enrollment, int64, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status models.EnrollmentStatus, completionDate *time.Time) error
	SetPayment(ctx context.Context, tx pgx.Tx, id, paymentID int64) error
	Delete(ctx context.Context, id int64) error
}

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentColumns = "id, user_id, course_id, payment_id, status, enrollment_date, completion_date"

func scanEnrollment(row pgx.Row, extra ...any) (*models.Enrollment, error) {
	e := &models.Enrollment{}
	dest := []any{&e.ID, &e.UserID, &e.CourseID, &e.PaymentID, &e.Status, &e.EnrollmentDate, &e.CompletionDate}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new enrollment. The unique (user_id, course_id) pair
// turns a duplicate enrollment into a structural conflict.
func (r *EnrollmentRepository) Create(ctx context.Context, tx pgx.Tx, enrollment *models.Enrollment) (int64, error) {
	q := querier(r.db, tx)
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO enrollments (user_id, course_id, payment_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		enrollment.UserID, enrollment.CourseID, enrollment.PaymentID, enrollment.Status).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.Structural(apperrors.ErrAlreadyEnrolled)
		}
		return 0, fmt.Errorf("error creating enrollment: %w", err)
	}
	return id, nil
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	e, err := scanEnrollment(r.db.QueryRow(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrEnrollmentNotFound)
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}
	return e, nil
}

// GetByUserAndCourse retrieves a user's enrollment for a course
func (r *EnrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	e, err := scanEnrollment(r.db.QueryRow(ctx, `
		SELECT `+enrollmentColumns+` FROM enrollments WHERE user_id = $1 AND course_id = $2`,
		userID, courseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrEnrollmentNotFound)
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}
	return e, nil
}

// GetByUserID retrieves a user's enrollments with pagination
func (r *EnrollmentRepository) GetByUserID(ctx context.Context, userID int64, page, pageSize int) ([]*models.Enrollment, int64, error) {
	return r.list(ctx, "user_id = $1", userID, page, pageSize)
}

// GetByCourseID retrieves a course's enrollments with pagination
func (r *EnrollmentRepository) GetByCourseID(ctx context.Context, courseID int64, page, pageSize int) ([]*models.Enrollment, int64, error) {
	return r.list(ctx, "course_id = $1", courseID, page, pageSize)
}

func (r *EnrollmentRepository) list(ctx context.Context, where string, arg any, page, pageSize int) ([]*models.Enrollment, int64, error) {
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(ctx, `
		SELECT `+enrollmentColumns+`, COUNT(*) OVER() AS total_count
		FROM enrollments
		WHERE `+where+`
		ORDER BY enrollment_date DESC
		LIMIT $2 OFFSET $3`, arg, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []*models.Enrollment{}
	var total int64
	for rows.Next() {
		e := &models.Enrollment{}
		err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.PaymentID, &e.Status,
			&e.EnrollmentDate, &e.CompletionDate, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return enrollments, total, nil
}

// UpdateStatus updates an enrollment's lifecycle status, optionally setting
// the completion date
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status models.EnrollmentStatus, completionDate *time.Time) error {
	q := querier(r.db, tx)
	cmdTag, err := q.Exec(ctx, `
		UPDATE enrollments SET status = $1, completion_date = $2 WHERE id = $3`,
		status, completionDate, id)
	if err != nil {
		return fmt.Errorf("error updating enrollment status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrEnrollmentNotFound)
	}
	return nil
}

// SetPayment links a payment to an enrollment
func (r *EnrollmentRepository) SetPayment(ctx context.Context, tx pgx.Tx, id, paymentID int64) error {
	q := querier(r.db, tx)
	cmdTag, err := q.Exec(ctx, `UPDATE enrollments SET payment_id = $1 WHERE id = $2`, paymentID, id)
	if err != nil {
		return fmt.Errorf("error linking payment to enrollment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrEnrollmentNotFound)
	}
	return nil
}

// Delete removes an enrollment
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrEnrollmentNotFound)
	}
	return nil
}
