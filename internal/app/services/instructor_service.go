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

// InstructorService defines the interface for instructor profile operations
type InstructorService interface {
	GetAllInstructors(ctx context.Context, expertise *string, page, pageSize int) (*dto.InstructorListResponse, error)
	GetInstructorByID(ctx context.Context, id int64) (*dto.InstructorResponse, error)
	GetInstructorCourses(ctx context.Context, id int64) (*dto.CourseListResponse, error)
	CreateInstructor(ctx context.Context, p *auth.Principal, req *dto.CreateInstructorRequest) (*dto.InstructorResponse, error)
	UpdateInstructor(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateInstructorRequest) (*dto.InstructorResponse, error)
	DeleteInstructor(ctx context.Context, p *auth.Principal, id int64) error
}

// instructorServiceImpl implements InstructorService
type instructorServiceImpl struct {
	instructorRepo repositories.IInstructorRepository
	courseRepo     repositories.ICourseRepository
	userRepo       repositories.IUserRepository
	txRunner       db.TxRunner
	logger         zerolog.Logger
}

// NewInstructorService creates a new InstructorService
func NewInstructorService(
	instructorRepo repositories.IInstructorRepository,
	courseRepo repositories.ICourseRepository,
	userRepo repositories.IUserRepository,
	txRunner db.TxRunner,
	logger zerolog.Logger,
) InstructorService {
	return &instructorServiceImpl{
		instructorRepo: instructorRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		txRunner:       txRunner,
		logger:         logger,
	}
}

// GetAllInstructors lists instructor profiles, optionally filtered by expertise
func (s *instructorServiceImpl) GetAllInstructors(ctx context.Context, expertise *string, page, pageSize int) (*dto.InstructorListResponse, error) {
	page, pageSize = helpers.NormalizePagination(page, pageSize)

	instructors, total, err := s.instructorRepo.GetAll(ctx, expertise, page, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list instructors")
		return nil, err
	}

	resp := &dto.InstructorListResponse{
		Instructors:    make([]dto.InstructorResponse, 0, len(instructors)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, pageSize),
	}
	for _, ins := range instructors {
		resp.Instructors = append(resp.Instructors, dto.NewInstructorResponse(ins))
	}
	return resp, nil
}

// GetInstructorByID returns a single instructor profile
func (s *instructorServiceImpl) GetInstructorByID(ctx context.Context, id int64) (*dto.InstructorResponse, error) {
	instructor, err := s.instructorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewInstructorResponse(instructor)
	return &resp, nil
}

// GetInstructorCourses returns the courses an instructor is assigned to
func (s *instructorServiceImpl) GetInstructorCourses(ctx context.Context, id int64) (*dto.CourseListResponse, error) {
	if _, err := s.instructorRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	courses, err := s.courseRepo.GetCoursesByInstructorID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.CourseListResponse{
		Courses:        make([]dto.CourseResponse, 0, len(courses)),
		PaginationInfo: helpers.NewPaginationInfo(int64(len(courses)), 1, len(courses)),
	}
	for _, c := range courses {
		resp.Courses = append(resp.Courses, dto.NewCourseResponse(c))
	}
	return resp, nil
}

// CreateInstructor links an existing user as an instructor. Admin only.
// The user's role is switched to INSTRUCTOR alongside; a user with an
// existing profile is a structural conflict.
func (s *instructorServiceImpl) CreateInstructor(ctx context.Context, p *auth.Principal, req *dto.CreateInstructorRequest) (*dto.InstructorResponse, error) {
	if !p.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}

	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	instructor := &models.Instructor{
		UserID:    req.UserID,
		Bio:       req.Bio,
		Expertise: req.Expertise,
	}

	id, err := s.instructorRepo.Create(ctx, instructor)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRole(ctx, req.UserID, models.RoleInstructor); err != nil {
		s.logger.Error().Err(err).Int64("userId", req.UserID).Msg("Failed to set instructor role")
		return nil, err
	}

	s.logger.Info().Int64("instructorId", id).Int64("userId", req.UserID).Msg("Instructor profile created")
	return s.GetInstructorByID(ctx, id)
}

// UpdateInstructor updates an instructor's profile fields. Admins may edit
// any profile; an instructor only their own.
func (s *instructorServiceImpl) UpdateInstructor(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateInstructorRequest) (*dto.InstructorResponse, error) {
	instructor, err := s.instructorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && instructor.UserID != p.UserID {
		s.logger.Warn().Int64("userId", p.UserID).Int64("instructorId", id).Msg("Instructor profile update denied")
		return nil, apperrors.ErrPermissionDenied
	}

	if req.Bio != nil {
		instructor.Bio = req.Bio
	}
	if req.Expertise != nil {
		instructor.Expertise = req.Expertise
	}

	if err := s.instructorRepo.Update(ctx, instructor); err != nil {
		return nil, err
	}

	resp := dto.NewInstructorResponse(instructor)
	return &resp, nil
}

// DeleteInstructor removes an instructor profile. Admin only. The profile
// is detached from every course first so no course keeps a dangling
// membership; courses left without instructors stay valid and wait for an
// admin to assign new ones.
func (s *instructorServiceImpl) DeleteInstructor(ctx context.Context, p *auth.Principal, id int64) error {
	if !p.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}

	if _, err := s.instructorRepo.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.courseRepo.DetachInstructorFromAll(ctx, tx, id); err != nil {
			return err
		}
		return s.instructorRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("instructorId", id).Msg("Failed to delete instructor")
		return err
	}

	s.logger.Info().Int64("instructorId", id).Int64("adminId", p.UserID).Msg("Instructor profile deleted")
	return nil
}
