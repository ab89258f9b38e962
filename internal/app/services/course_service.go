package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/benhmida/formatech/internal/app/auth"
	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/repositories"
	"github.com/benhmida/formatech/internal/db"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/helpers"
)

// CourseService defines the interface for course operations, including the
// management of each course's instructor set. Membership mutations run in a
// single transaction against the current set, so concurrent requests always
// observe a consistent two-sided relation.
type CourseService interface {
	GetAllCourses(ctx context.Context, filter dto.CourseFilterRequest) (*dto.CourseListResponse, error)
	GetCourseByID(ctx context.Context, id int64) (*dto.CourseResponse, error)
	CreateCourse(ctx context.Context, p *auth.Principal, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	UpdateCourse(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, p *auth.Principal, id int64) error

	AddInstructorToCourse(ctx context.Context, p *auth.Principal, courseID, instructorID int64) (*dto.CourseResponse, error)
	RemoveInstructorFromCourse(ctx context.Context, p *auth.Principal, courseID, instructorID int64) (*dto.CourseResponse, error)
	SetCourseInstructors(ctx context.Context, p *auth.Principal, courseID int64, req *dto.SetInstructorsRequest) (*dto.CourseResponse, error)
}

// courseServiceImpl implements CourseService
type courseServiceImpl struct {
	courseRepo     repositories.ICourseRepository
	instructorRepo repositories.IInstructorRepository
	moduleRepo     repositories.IModuleRepository
	txRunner       db.TxRunner
	guard          *auth.MutationGuard
	logger         zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo repositories.ICourseRepository,
	instructorRepo repositories.IInstructorRepository,
	moduleRepo repositories.IModuleRepository,
	txRunner db.TxRunner,
	guard *auth.MutationGuard,
	logger zerolog.Logger,
) CourseService {
	return &courseServiceImpl{
		courseRepo:     courseRepo,
		instructorRepo: instructorRepo,
		moduleRepo:     moduleRepo,
		txRunner:       txRunner,
		guard:          guard,
		logger:         logger,
	}
}

// GetAllCourses returns a filtered, paginated course catalog
func (s *courseServiceImpl) GetAllCourses(ctx context.Context, filter dto.CourseFilterRequest) (*dto.CourseListResponse, error) {
	page, pageSize := helpers.NormalizePagination(filter.Page, filter.PageSize)

	courses, total, err := s.courseRepo.GetAll(ctx, filter, page, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list courses")
		return nil, err
	}

	resp := &dto.CourseListResponse{
		Courses:        make([]dto.CourseResponse, 0, len(courses)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, pageSize),
	}
	for _, c := range courses {
		resp.Courses = append(resp.Courses, dto.NewCourseResponse(c))
	}
	return resp, nil
}

// GetCourseByID returns a single course with its instructor set and modules
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	modules, err := s.moduleRepo.GetByCourseID(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Modules = modules

	resp := dto.NewCourseResponse(course)
	return &resp, nil
}

// CreateCourse creates a course. An instructor principal is self-assigned
// to the new course in the same transaction, so a course created by an
// instructor never starts without an owner.
func (s *courseServiceImpl) CreateCourse(ctx context.Context, p *auth.Principal, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if err := s.guard.AuthorizeCourseCreate(ctx, p); err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:                 req.Title,
		Description:           req.Description,
		Category:              req.Category,
		Price:                 req.Price,
		DurationHours:         req.DurationHours,
		Mode:                  models.CourseMode(req.Mode),
		CertificationEligible: req.CertificationEligible,
	}

	err := s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		id, err := s.courseRepo.Create(ctx, tx, course)
		if err != nil {
			return err
		}
		course.ID = id

		if p.Role == models.RoleInstructor {
			instructorID, linked, err := p.InstructorID(ctx)
			if err != nil {
				return err
			}
			if !linked {
				return apperrors.ErrPermissionDenied
			}
			if err := s.courseRepo.AddInstructor(ctx, tx, id, instructorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("title", req.Title).Msg("Failed to create course")
		return nil, err
	}

	s.logger.Info().Int64("courseId", course.ID).Int64("userId", p.UserID).Msg("Course created")
	return s.GetCourseByID(ctx, course.ID)
}

// UpdateCourse partially updates a course's own fields. Instructor set
// membership is not touched here; it has its own operations.
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCourse(ctx, p, course, auth.ActionUpdate); err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Category != nil {
		course.Category = req.Category
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.DurationHours != nil {
		course.DurationHours = req.DurationHours
	}
	if req.Mode != nil {
		course.Mode = models.CourseMode(*req.Mode)
	}
	if req.CertificationEligible != nil {
		course.CertificationEligible = *req.CertificationEligible
	}

	if err := s.courseRepo.Update(ctx, nil, course); err != nil {
		s.logger.Error().Err(err).Int64("courseId", id).Msg("Failed to update course")
		return nil, err
	}

	return s.GetCourseByID(ctx, id)
}

// DeleteCourse removes a course. The instructor set is detached first and
// the course row deleted in the same transaction; dependent rows
// (modules, enrollments, reviews) go with the course via cascading deletes.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, p *auth.Principal, id int64) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeCourse(ctx, p, course, auth.ActionDelete); err != nil {
		return err
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.courseRepo.ReplaceInstructors(ctx, tx, id, nil); err != nil {
			return err
		}
		return s.courseRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("courseId", id).Msg("Failed to delete course")
		return err
	}

	s.logger.Info().Int64("courseId", id).Int64("userId", p.UserID).Msg("Course deleted")
	return nil
}

// AddInstructorToCourse assigns an instructor to the course. Adding an
// instructor who is already assigned is a no-op, not an error.
func (s *courseServiceImpl) AddInstructorToCourse(ctx context.Context, p *auth.Principal, courseID, instructorID int64) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCourse(ctx, p, course, auth.ActionUpdate); err != nil {
		return nil, err
	}

	if course.HasInstructor(instructorID) {
		resp := dto.NewCourseResponse(course)
		return &resp, nil
	}

	// The instructor must exist before the link is written.
	if _, err := s.instructorRepo.GetByID(ctx, instructorID); err != nil {
		return nil, err
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.courseRepo.AddInstructor(ctx, tx, courseID, instructorID)
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("courseId", courseID).Int64("instructorId", instructorID).Msg("Failed to assign instructor")
		return nil, err
	}

	s.logger.Info().Int64("courseId", courseID).Int64("instructorId", instructorID).Msg("Instructor assigned to course")
	return s.GetCourseByID(ctx, courseID)
}

// RemoveInstructorFromCourse unassigns an instructor from the course.
// Removing the last instructor is a structural conflict unless the
// principal is an admin: a course must not silently lose its only owner.
func (s *courseServiceImpl) RemoveInstructorFromCourse(ctx context.Context, p *auth.Principal, courseID, instructorID int64) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCourse(ctx, p, course, auth.ActionUpdate); err != nil {
		return nil, err
	}

	if !course.HasInstructor(instructorID) {
		return nil, apperrors.NotFound(apperrors.ErrInstructorNotFound)
	}
	if len(course.Instructors) <= 1 && !p.IsAdmin() {
		return nil, apperrors.Structural(apperrors.ErrLastInstructor)
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if p.IsAdmin() {
			return s.courseRepo.RemoveInstructor(ctx, tx, courseID, instructorID)
		}
		// The membership count above was read outside this transaction;
		// the guarded delete re-checks it so two concurrent removals
		// cannot strip the course of its last instructor.
		return s.courseRepo.RemoveInstructorKeepingOne(ctx, tx, courseID, instructorID)
	})
	if err != nil {
		if apperrors.IsStructuralConflict(err) || apperrors.IsNotFound(err) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("courseId", courseID).Int64("instructorId", instructorID).Msg("Failed to unassign instructor")
		return nil, err
	}

	s.logger.Info().Int64("courseId", courseID).Int64("instructorId", instructorID).Msg("Instructor unassigned from course")
	return s.GetCourseByID(ctx, courseID)
}

// SetCourseInstructors replaces the course's whole instructor set in one
// transaction. Admin only. Requested ids without an existing instructor
// profile are skipped with a warning rather than failing the operation;
// an admin may also empty the set entirely.
func (s *courseServiceImpl) SetCourseInstructors(ctx context.Context, p *auth.Principal, courseID int64, req *dto.SetInstructorsRequest) (*dto.CourseResponse, error) {
	if !p.IsAdmin() {
		s.logger.Warn().
			Int64("userId", p.UserID).
			Str("role", string(p.Role)).
			Int64("courseId", courseID).
			Msg("Instructor set replacement denied")
		return nil, apperrors.ErrPermissionDenied
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	existing, err := s.instructorRepo.ExistingIDs(ctx, req.InstructorIDs)
	if err != nil {
		return nil, err
	}

	validated := make([]int64, 0, len(req.InstructorIDs))
	seen := make(map[int64]bool, len(req.InstructorIDs))
	for _, id := range req.InstructorIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !existing[id] {
			s.logger.Warn().Int64("courseId", courseID).Int64("instructorId", id).Msg("Skipping unknown instructor id")
			continue
		}
		validated = append(validated, id)
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.courseRepo.ReplaceInstructors(ctx, tx, course.ID, validated)
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("courseId", courseID).Msg("Failed to replace instructor set")
		return nil, err
	}

	s.logger.Info().Int64("courseId", courseID).Ints64("instructorIds", validated).Msg("Instructor set replaced")
	return s.GetCourseByID(ctx, courseID)
}
