package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
)

// ICourseRepository defines the interface for course database operations.
// Methods taking a pgx.Tx join the caller's transaction; the course and
// course_instructors tables must only diverge inside one.
type ICourseRepository interface {
	Create(ctx context.Context, tx pgx.Tx, course *models.Course) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetAll(ctx context.Context, filter dto.CourseFilterRequest, page, pageSize int) ([]*models.Course, int64, error)
	Update(ctx context.Context, tx pgx.Tx, course *models.Course) error
	UpdateImage(ctx context.Context, courseID int64, fileID *int64) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error

	AddInstructor(ctx context.Context, tx pgx.Tx, courseID, instructorID int64) error
	RemoveInstructor(ctx context.Context, tx pgx.Tx, courseID, instructorID int64) error
	RemoveInstructorKeepingOne(ctx context.Context, tx pgx.Tx, courseID, instructorID int64) error
	ReplaceInstructors(ctx context.Context, tx pgx.Tx, courseID int64, instructorIDs []int64) error
	DetachInstructorFromAll(ctx context.Context, tx pgx.Tx, instructorID int64) error
	GetCoursesByInstructorID(ctx context.Context, instructorID int64) ([]*models.Course, error)
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const courseColumns = "id, title, description, category, price, duration_hours, mode, certification_eligible, image_file_id, created_at, updated_at"

func scanCourse(row pgx.Row, extra ...any) (*models.Course, error) {
	course := &models.Course{}
	dest := []any{
		&course.ID, &course.Title, &course.Description, &course.Category, &course.Price,
		&course.DurationHours, &course.Mode, &course.CertificationEligible, &course.ImageFileID,
		&course.CreatedAt, &course.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return course, nil
}

// Create inserts a new course and returns its ID
func (r *CourseRepository) Create(ctx context.Context, tx pgx.Tx, course *models.Course) (int64, error) {
	q := querier(r.db, tx)
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO courses (title, description, category, price, duration_hours, mode, certification_eligible)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		course.Title, course.Description, course.Category, course.Price,
		course.DurationHours, course.Mode, course.CertificationEligible).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating course: %w", err)
	}
	return id, nil
}

// GetByID retrieves a course with its instructor set populated. Mutation
// paths rely on the instructor set being present.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrCourseNotFound)
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	instructors, err := r.getInstructors(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Instructors = instructors

	return course, nil
}

func (r *CourseRepository) getInstructors(ctx context.Context, courseID int64) ([]*models.Instructor, error) {
	rows, err := r.db.Query(ctx, `
		SELECT i.id, i.user_id, i.bio, i.expertise, i.rating, i.created_at,
		       u.id, u.email, u.first_name, u.last_name, u.phone, u.role, u.is_active, u.created_at, u.updated_at
		FROM instructors i
		JOIN users u ON u.id = i.user_id
		JOIN course_instructors ci ON ci.instructor_id = i.id
		WHERE ci.course_id = $1
		ORDER BY i.id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course instructors: %w", err)
	}
	defer rows.Close()

	instructors := []*models.Instructor{}
	for rows.Next() {
		ins := &models.Instructor{User: &models.User{}}
		err := rows.Scan(
			&ins.ID, &ins.UserID, &ins.Bio, &ins.Expertise, &ins.Rating, &ins.CreatedAt,
			&ins.User.ID, &ins.User.Email, &ins.User.FirstName, &ins.User.LastName,
			&ins.User.Phone, &ins.User.Role, &ins.User.IsActive, &ins.User.CreatedAt, &ins.User.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning course instructor row: %w", err)
		}
		instructors = append(instructors, ins)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course instructor rows: %w", err)
	}

	return instructors, nil
}

// GetAll retrieves courses with filtering and pagination. The instructor
// set is not loaded in list view.
func (r *CourseRepository) GetAll(ctx context.Context, filter dto.CourseFilterRequest, page, pageSize int) ([]*models.Course, int64, error) {
	query := r.sb.Select(courseColumns, "COUNT(*) OVER() AS total_count").From("courses")

	if filter.Category != nil && *filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": *filter.Category})
	}
	if filter.Mode != nil && *filter.Mode != "" {
		query = query.Where(squirrel.Eq{"mode": *filter.Mode})
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"description": pattern},
		})
	}
	if filter.MinPrice != nil {
		query = query.Where(squirrel.GtOrEq{"price": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		query = query.Where(squirrel.LtOrEq{"price": *filter.MaxPrice})
	}
	if filter.InstructorID != nil {
		query = query.Where("id IN (SELECT course_id FROM course_instructors WHERE instructor_id = ?)", *filter.InstructorID)
	}

	offset := uint64((page - 1) * pageSize)
	sql, args, err := query.OrderBy("id").Limit(uint64(pageSize)).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build course list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	var total int64
	for rows.Next() {
		course := &models.Course{}
		err := rows.Scan(
			&course.ID, &course.Title, &course.Description, &course.Category, &course.Price,
			&course.DurationHours, &course.Mode, &course.CertificationEligible, &course.ImageFileID,
			&course.CreatedAt, &course.UpdatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, total, nil
}

// Update updates a course's own fields (not its instructor set)
func (r *CourseRepository) Update(ctx context.Context, tx pgx.Tx, course *models.Course) error {
	q := querier(r.db, tx)
	cmdTag, err := q.Exec(ctx, `
		UPDATE courses
		SET title = $1, description = $2, category = $3, price = $4,
		    duration_hours = $5, mode = $6, certification_eligible = $7, updated_at = NOW()
		WHERE id = $8`,
		course.Title, course.Description, course.Category, course.Price,
		course.DurationHours, course.Mode, course.CertificationEligible, course.ID)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrCourseNotFound)
	}
	return nil
}

// UpdateImage sets or clears the course image file
func (r *CourseRepository) UpdateImage(ctx context.Context, courseID int64, fileID *int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE courses SET image_file_id = $1, updated_at = NOW() WHERE id = $2`,
		fileID, courseID)
	if err != nil {
		return fmt.Errorf("error updating course image: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrCourseNotFound)
	}
	return nil
}

// Delete removes a course. Instructor links, modules, enrollments and
// reviews cascade at the schema level; the caller detaches instructors
// explicitly first so both sides of the relation are updated in one
// transaction.
func (r *CourseRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	q := querier(r.db, tx)
	cmdTag, err := q.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrCourseNotFound)
	}
	return nil
}

// AddInstructor links an instructor to a course. Adding an existing link
// is a no-op.
func (r *CourseRepository) AddInstructor(ctx context.Context, tx pgx.Tx, courseID, instructorID int64) error {
	q := querier(r.db, tx)
	_, err := q.Exec(ctx, `
		INSERT INTO course_instructors (course_id, instructor_id)
		VALUES ($1, $2)
		ON CONFLICT (course_id, instructor_id) DO NOTHING`,
		courseID, instructorID)
	if err != nil {
		return fmt.Errorf("error adding instructor to course: %w", err)
	}
	return nil
}

// RemoveInstructor unlinks an instructor from a course
func (r *CourseRepository) RemoveInstructor(ctx context.Context, tx pgx.Tx, courseID, instructorID int64) error {
	q := querier(r.db, tx)
	_, err := q.Exec(ctx, `
		DELETE FROM course_instructors WHERE course_id = $1 AND instructor_id = $2`,
		courseID, instructorID)
	if err != nil {
		return fmt.Errorf("error removing instructor from course: %w", err)
	}
	return nil
}

// RemoveInstructorKeepingOne unlinks an instructor only while another
// instructor stays assigned. The membership count runs in the same
// statement as the delete, so concurrent removals serialize on the
// membership rows instead of both passing a stale pre-check.
func (r *CourseRepository) RemoveInstructorKeepingOne(ctx context.Context, tx pgx.Tx, courseID, instructorID int64) error {
	q := querier(r.db, tx)
	cmdTag, err := q.Exec(ctx, `
		DELETE FROM course_instructors
		WHERE course_id = $1 AND instructor_id = $2
		  AND (SELECT COUNT(*) FROM course_instructors WHERE course_id = $1) > 1`,
		courseID, instructorID)
	if err != nil {
		return fmt.Errorf("error removing instructor from course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		var assigned bool
		err := q.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM course_instructors WHERE course_id = $1 AND instructor_id = $2
			)`, courseID, instructorID).Scan(&assigned)
		if err != nil {
			return fmt.Errorf("error checking course membership: %w", err)
		}
		if assigned {
			return apperrors.Structural(apperrors.ErrLastInstructor)
		}
		return apperrors.NotFound(apperrors.ErrInstructorNotFound)
	}
	return nil
}

// ReplaceInstructors replaces a course's entire instructor set
func (r *CourseRepository) ReplaceInstructors(ctx context.Context, tx pgx.Tx, courseID int64, instructorIDs []int64) error {
	q := querier(r.db, tx)

	if _, err := q.Exec(ctx, `DELETE FROM course_instructors WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("error clearing course instructors: %w", err)
	}

	for _, instructorID := range instructorIDs {
		_, err := q.Exec(ctx, `
			INSERT INTO course_instructors (course_id, instructor_id)
			VALUES ($1, $2)
			ON CONFLICT (course_id, instructor_id) DO NOTHING`,
			courseID, instructorID)
		if err != nil {
			return fmt.Errorf("error assigning instructor %d to course: %w", instructorID, err)
		}
	}

	return nil
}

// DetachInstructorFromAll removes an instructor from every course it is
// assigned to. Used when an instructor profile is deleted.
func (r *CourseRepository) DetachInstructorFromAll(ctx context.Context, tx pgx.Tx, instructorID int64) error {
	q := querier(r.db, tx)
	_, err := q.Exec(ctx, `DELETE FROM course_instructors WHERE instructor_id = $1`, instructorID)
	if err != nil {
		return fmt.Errorf("error detaching instructor from courses: %w", err)
	}
	return nil
}

// GetCoursesByInstructorID retrieves the courses an instructor is assigned to
func (r *CourseRepository) GetCoursesByInstructorID(ctx context.Context, instructorID int64) ([]*models.Course, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.title, c.description, c.category, c.price, c.duration_hours,
		       c.mode, c.certification_eligible, c.image_file_id, c.created_at, c.updated_at
		FROM courses c
		JOIN course_instructors ci ON ci.course_id = c.id
		WHERE ci.instructor_id = $1
		ORDER BY c.id`, instructorID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving instructor courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course := &models.Course{}
		err := rows.Scan(
			&course.ID, &course.Title, &course.Description, &course.Category, &course.Price,
			&course.DurationHours, &course.Mode, &course.CertificationEligible, &course.ImageFileID,
			&course.CreatedAt, &course.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}
