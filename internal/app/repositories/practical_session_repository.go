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

// IPracticalSessionRepository defines the interface for practical session database operations
type IPracticalSessionRepository interface {
	Create(ctx context.Context, session *models.PracticalSession) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.PracticalSession, error)
	GetByCourseID(ctx context.Context, courseID int64) ([]*models.PracticalSession, error)
	Update(ctx context.Context, session *models.PracticalSession) error
	Delete(ctx context.Context, id int64) error
}

// PracticalSessionRepository handles practical session database operations
type PracticalSessionRepository struct {
	db *pgxpool.Pool
}

// NewPracticalSessionRepository creates a new PracticalSessionRepository
func NewPracticalSessionRepository(db *pgxpool.Pool) *PracticalSessionRepository {
	return &PracticalSessionRepository{db: db}
}

const practicalSessionColumns = "id, course_id, instructor_id, title, location, session_date, duration_minutes, capacity, created_at"

// Create inserts a new practical session and returns its ID
func (r *PracticalSessionRepository) Create(ctx context.Context, session *models.PracticalSession) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO practical_sessions (course_id, instructor_id, title, location, session_date, duration_minutes, capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		session.CourseID, session.InstructorID, session.Title, session.Location,
		session.SessionDate, session.DurationMinutes, session.Capacity).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating practical session: %w", err)
	}
	return id, nil
}

// GetByID retrieves a practical session by ID
func (r *PracticalSessionRepository) GetByID(ctx context.Context, id int64) (*models.PracticalSession, error) {
	s := &models.PracticalSession{}
	err := r.db.QueryRow(ctx, `
		SELECT `+practicalSessionColumns+` FROM practical_sessions WHERE id = $1`, id).Scan(
		&s.ID, &s.CourseID, &s.InstructorID, &s.Title, &s.Location,
		&s.SessionDate, &s.DurationMinutes, &s.Capacity, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrPracticalSessionNotFound)
		}
		return nil, fmt.Errorf("error retrieving practical session: %w", err)
	}
	return s, nil
}

// GetByCourseID retrieves a course's practical sessions in date order
func (r *PracticalSessionRepository) GetByCourseID(ctx context.Context, courseID int64) ([]*models.PracticalSession, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+practicalSessionColumns+` FROM practical_sessions
		WHERE course_id = $1
		ORDER BY session_date`, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing practical sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.PracticalSession{}
	for rows.Next() {
		s := &models.PracticalSession{}
		err := rows.Scan(
			&s.ID, &s.CourseID, &s.InstructorID, &s.Title, &s.Location,
			&s.SessionDate, &s.DurationMinutes, &s.Capacity, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning practical session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating practical session rows: %w", err)
	}

	return sessions, nil
}

// Update updates a practical session's fields
func (r *PracticalSessionRepository) Update(ctx context.Context, session *models.PracticalSession) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE practical_sessions
		SET instructor_id = $1, title = $2, location = $3, session_date = $4,
		    duration_minutes = $5, capacity = $6
		WHERE id = $7`,
		session.InstructorID, session.Title, session.Location, session.SessionDate,
		session.DurationMinutes, session.Capacity, session.ID)
	if err != nil {
		return fmt.Errorf("error updating practical session: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrPracticalSessionNotFound)
	}
	return nil
}

// Delete removes a practical session
func (r *PracticalSessionRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM practical_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting practical session: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrPracticalSessionNotFound)
	}
	return nil
}
