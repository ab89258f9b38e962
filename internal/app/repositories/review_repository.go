package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/dberrors"
)

// IReviewRepository defines the interface for review database operations
type IReviewRepository interface {
	Create(ctx context.Context, tx pgx.Tx, review *models.Review) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	GetByCourseID(ctx context.Context, courseID int64, page, pageSize int) ([]*models.Review, int64, error)
	Update(ctx context.Context, tx pgx.Tx, review *models.Review) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
	AvgRatingForInstructor(ctx context.Context, tx pgx.Tx, instructorID int64) (*float64, error)
}

// ReviewRepository handles review database operations
type ReviewRepository struct {
	db *pgxpool.Pool
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review. The unique (user_id, course_id) pair turns
// a second review by the same author into a structural conflict.
func (r *ReviewRepository) Create(ctx context.Context, tx pgx.Tx, review *models.Review) (int64, error) {
	q := querier(r.db, tx)
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO reviews (user_id, course_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		review.UserID, review.CourseID, review.Rating, review.Comment).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.Structural(apperrors.ErrAlreadyReviewed)
		}
		return 0, fmt.Errorf("error creating review: %w", err)
	}
	return id, nil
}

// GetByID retrieves a review by ID
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	review := &models.Review{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, course_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE id = $1`, id).Scan(
		&review.ID, &review.UserID, &review.CourseID, &review.Rating,
		&review.Comment, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrReviewNotFound)
		}
		return nil, fmt.Errorf("error retrieving review: %w", err)
	}
	return review, nil
}

// GetByCourseID retrieves a course's reviews with the author populated
func (r *ReviewRepository) GetByCourseID(ctx context.Context, courseID int64, page, pageSize int) ([]*models.Review, int64, error) {
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(ctx, `
		SELECT rv.id, rv.user_id, rv.course_id, rv.rating, rv.comment, rv.created_at, rv.updated_at,
		       u.id, u.email, u.first_name, u.last_name, u.phone, u.role, u.is_active, u.created_at, u.updated_at,
		       COUNT(*) OVER() AS total_count
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.course_id = $1
		ORDER BY rv.created_at DESC
		LIMIT $2 OFFSET $3`, courseID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*models.Review{}
	var total int64
	for rows.Next() {
		review := &models.Review{User: &models.User{}}
		err := rows.Scan(
			&review.ID, &review.UserID, &review.CourseID, &review.Rating,
			&review.Comment, &review.CreatedAt, &review.UpdatedAt,
			&review.User.ID, &review.User.Email, &review.User.FirstName, &review.User.LastName,
			&review.User.Phone, &review.User.Role, &review.User.IsActive,
			&review.User.CreatedAt, &review.User.UpdatedAt,
			&total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning review row: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating review rows: %w", err)
	}

	return reviews, total, nil
}

// Update updates a review's rating and comment
func (r *ReviewRepository) Update(ctx context.Context, tx pgx.Tx, review *models.Review) error {
	q := querier(r.db, tx)
	cmdTag, err := q.Exec(ctx, `
		UPDATE reviews SET rating = $1, comment = $2, updated_at = NOW() WHERE id = $3`,
		review.Rating, review.Comment, review.ID)
	if err != nil {
		return fmt.Errorf("error updating review: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrReviewNotFound)
	}
	return nil
}

// Delete removes a review
func (r *ReviewRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	q := querier(r.db, tx)
	cmdTag, err := q.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting review: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrReviewNotFound)
	}
	return nil
}

// AvgRatingForInstructor computes the average review rating across all
// courses the instructor is assigned to. Returns nil when no reviews exist.
func (r *ReviewRepository) AvgRatingForInstructor(ctx context.Context, tx pgx.Tx, instructorID int64) (*float64, error) {
	q := querier(r.db, tx)
	var avg *float64
	err := q.QueryRow(ctx, `
		SELECT AVG(rv.rating)
		FROM reviews rv
		JOIN course_instructors ci ON ci.course_id = rv.course_id
		WHERE ci.instructor_id = $1`, instructorID).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("error computing instructor rating: %w", err)
	}
	return avg, nil
}
