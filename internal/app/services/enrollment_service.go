package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/benhmida/formatech/internal/app/auth"
	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/repositories"
	"github.com/benhmida/formatech/internal/db"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/helpers"
	"github.com/benhmida/formatech/internal/pkg/metrics"
)

// EnrollmentService defines the interface for course enrollment operations
type EnrollmentService interface {
	Enroll(ctx context.Context, p *auth.Principal, req *dto.CreateEnrollmentRequest) (*dto.EnrollmentResponse, error)
	GetEnrollmentByID(ctx context.Context, p *auth.Principal, id int64) (*dto.EnrollmentResponse, error)
	GetMyEnrollments(ctx context.Context, p *auth.Principal, page, pageSize int) (*dto.EnrollmentListResponse, error)
	GetCourseEnrollments(ctx context.Context, p *auth.Principal, courseID int64, page, pageSize int) (*dto.EnrollmentListResponse, error)
	UpdateEnrollmentStatus(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateEnrollmentStatusRequest) (*dto.EnrollmentResponse, error)
	CancelEnrollment(ctx context.Context, p *auth.Principal, id int64) error
}

// enrollmentServiceImpl implements EnrollmentService
type enrollmentServiceImpl struct {
	enrollmentRepo repositories.IEnrollmentRepository
	courseRepo     repositories.ICourseRepository
	txRunner       db.TxRunner
	guard          *auth.MutationGuard
	metrics        *metrics.Metrics
	logger         zerolog.Logger
	now            func() time.Time
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	enrollmentRepo repositories.IEnrollmentRepository,
	courseRepo repositories.ICourseRepository,
	txRunner db.TxRunner,
	guard *auth.MutationGuard,
	m *metrics.Metrics,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		txRunner:       txRunner,
		guard:          guard,
		metrics:        m,
		logger:         logger,
		now:            time.Now,
	}
}

// Enroll enrolls the authenticated user in a course. Free courses activate
// immediately; paid courses stay pending until their payment completes.
// A second enrollment in the same course is a structural conflict.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, p *auth.Principal, req *dto.CreateEnrollmentRequest) (*dto.EnrollmentResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	status := models.EnrollmentPending
	if course.Price == 0 {
		status = models.EnrollmentActive
	}

	enrollment := &models.Enrollment{
		UserID:    p.UserID,
		CourseID:  req.CourseID,
		PaymentID: req.PaymentID,
		Status:    status,
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		id, err := s.enrollmentRepo.Create(ctx, tx, enrollment)
		if err != nil {
			return err
		}
		enrollment.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.EnrollmentsTotal.WithLabelValues(string(status)).Inc()
	s.logger.Info().Int64("enrollmentId", enrollment.ID).Int64("courseId", req.CourseID).Int64("userId", p.UserID).Msg("Enrollment created")

	created, err := s.enrollmentRepo.GetByID(ctx, enrollment.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewEnrollmentResponse(created)
	return &resp, nil
}

// GetEnrollmentByID returns an enrollment. Visible to its owner, admins
// and the course's instructors.
func (s *enrollmentServiceImpl) GetEnrollmentByID(ctx context.Context, p *auth.Principal, id int64) (*dto.EnrollmentResponse, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeEnrollmentAccess(ctx, p, enrollment); err != nil {
		return nil, err
	}

	resp := dto.NewEnrollmentResponse(enrollment)
	return &resp, nil
}

// GetMyEnrollments lists the authenticated user's enrollments
func (s *enrollmentServiceImpl) GetMyEnrollments(ctx context.Context, p *auth.Principal, page, pageSize int) (*dto.EnrollmentListResponse, error) {
	page, pageSize = helpers.NormalizePagination(page, pageSize)

	enrollments, total, err := s.enrollmentRepo.GetByUserID(ctx, p.UserID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return newEnrollmentListResponse(enrollments, total, page, pageSize), nil
}

// GetCourseEnrollments lists a course's enrollments. Restricted to the
// course's instructors and admins.
func (s *enrollmentServiceImpl) GetCourseEnrollments(ctx context.Context, p *auth.Principal, courseID int64, page, pageSize int) (*dto.EnrollmentListResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCourse(ctx, p, course, auth.ActionUpdate); err != nil {
		return nil, err
	}

	page, pageSize = helpers.NormalizePagination(page, pageSize)
	enrollments, total, err := s.enrollmentRepo.GetByCourseID(ctx, courseID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return newEnrollmentListResponse(enrollments, total, page, pageSize), nil
}

// UpdateEnrollmentStatus moves an enrollment through its lifecycle.
// Completion is recorded with its date and is reserved for the course's
// instructors and admins; cancellation also belongs to the owner.
func (s *enrollmentServiceImpl) UpdateEnrollmentStatus(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateEnrollmentStatusRequest) (*dto.EnrollmentResponse, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status := models.EnrollmentStatus(req.Status)
	ownerCancel := status == models.EnrollmentCancelled && enrollment.UserID == p.UserID
	if !ownerCancel {
		course, err := s.courseRepo.GetByID(ctx, enrollment.CourseID)
		if err != nil {
			return nil, err
		}
		if err := s.guard.AuthorizeCourse(ctx, p, course, auth.ActionUpdate); err != nil {
			return nil, err
		}
	}

	var completionDate *time.Time
	if status == models.EnrollmentCompleted {
		now := s.now()
		completionDate = &now
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.enrollmentRepo.UpdateStatus(ctx, tx, id, status, completionDate)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("enrollmentId", id).Str("status", string(status)).Msg("Enrollment status changed")

	updated, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewEnrollmentResponse(updated)
	return &resp, nil
}

// CancelEnrollment cancels an enrollment. Owners cancel their own; admins
// any.
func (s *enrollmentServiceImpl) CancelEnrollment(ctx context.Context, p *auth.Principal, id int64) error {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if enrollment.UserID != p.UserID && !p.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.enrollmentRepo.UpdateStatus(ctx, tx, id, models.EnrollmentCancelled, nil)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("enrollmentId", id).Int64("userId", p.UserID).Msg("Enrollment cancelled")
	return nil
}

// authorizeEnrollmentAccess allows the owner, admins and the course's
// instructors to read an enrollment
func (s *enrollmentServiceImpl) authorizeEnrollmentAccess(ctx context.Context, p *auth.Principal, enrollment *models.Enrollment) error {
	if enrollment.UserID == p.UserID || p.IsAdmin() {
		return nil
	}
	course, err := s.courseRepo.GetByID(ctx, enrollment.CourseID)
	if err != nil {
		return err
	}
	return s.guard.AuthorizeCourse(ctx, p, course, auth.ActionUpdate)
}

func newEnrollmentListResponse(enrollments []*models.Enrollment, total int64, page, pageSize int) *dto.EnrollmentListResponse {
	resp := &dto.EnrollmentListResponse{
		Enrollments:    make([]dto.EnrollmentResponse, 0, len(enrollments)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, pageSize),
	}
	for _, e := range enrollments {
		resp.Enrollments = append(resp.Enrollments, dto.NewEnrollmentResponse(e))
	}
	return resp
}
