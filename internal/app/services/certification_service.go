package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/benhmida/formatech/internal/app/auth"
	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/repositories"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/metrics"
)

// certificationCodePrefix starts every public verification code
const certificationCodePrefix = "CERT-"

// CertificationService defines the interface for certification operations
type CertificationService interface {
	IssueCertification(ctx context.Context, p *auth.Principal, req *dto.IssueCertificationRequest) (*dto.CertificationResponse, error)
	GetCertificationByID(ctx context.Context, id int64) (*dto.CertificationResponse, error)
	GetUserCertifications(ctx context.Context, p *auth.Principal, userID int64) ([]dto.CertificationResponse, error)
	VerifyByCode(ctx context.Context, code string) (*dto.CertificationVerifyResponse, error)
	RenewCertification(ctx context.Context, p *auth.Principal, id int64, req *dto.RenewCertificationRequest) (*dto.CertificationResponse, error)
	RevokeCertification(ctx context.Context, p *auth.Principal, id int64) error
	ExpireOverdue(ctx context.Context) (int64, error)
}

// certificationServiceImpl implements CertificationService
type certificationServiceImpl struct {
	certificationRepo repositories.ICertificationRepository
	courseRepo        repositories.ICourseRepository
	enrollmentRepo    repositories.IEnrollmentRepository
	guard             *auth.MutationGuard
	metrics           *metrics.Metrics
	logger            zerolog.Logger
	now               func() time.Time
}

// NewCertificationService creates a new CertificationService
func NewCertificationService(
	certificationRepo repositories.ICertificationRepository,
	courseRepo repositories.ICourseRepository,
	enrollmentRepo repositories.IEnrollmentRepository,
	guard *auth.MutationGuard,
	m *metrics.Metrics,
	logger zerolog.Logger,
) CertificationService {
	return &certificationServiceImpl{
		certificationRepo: certificationRepo,
		courseRepo:        courseRepo,
		enrollmentRepo:    enrollmentRepo,
		guard:             guard,
		metrics:           m,
		logger:            logger,
		now:               time.Now,
	}
}

// IssueCertification issues a certification to a user for a completed
// course. Reserved for the course's instructors and admins; the course
// must be certification eligible and the user's enrollment completed.
func (s *certificationServiceImpl) IssueCertification(ctx context.Context, p *auth.Principal, req *dto.IssueCertificationRequest) (*dto.CertificationResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCourse(ctx, p, course, auth.ActionUpdate); err != nil {
		return nil, err
	}
	if !course.CertificationEligible {
		return nil, apperrors.Structural(apperrors.ErrNotEligible)
	}

	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, req.UserID, req.CourseID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != models.EnrollmentCompleted {
		return nil, apperrors.NewCustomError(apperrors.ErrStructuralConflict, "certifications require a completed enrollment")
	}

	cert := &models.Certification{
		UserID:     req.UserID,
		CourseID:   req.CourseID,
		Code:       newCertificationCode(),
		IssueDate:  s.now(),
		ExpiryDate: req.ExpiryDate,
		Status:     models.CertificationActive,
	}

	id, err := s.certificationRepo.Create(ctx, cert)
	if err != nil {
		return nil, err
	}

	s.metrics.CertificationsIssued.Inc()
	s.logger.Info().Int64("certificationId", id).Int64("userId", req.UserID).Int64("courseId", req.CourseID).Msg("Certification issued")
	return s.GetCertificationByID(ctx, id)
}

// GetCertificationByID returns a single certification
func (s *certificationServiceImpl) GetCertificationByID(ctx context.Context, id int64) (*dto.CertificationResponse, error) {
	cert, err := s.certificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCertificationResponse(cert)
	return &resp, nil
}

// GetUserCertifications lists a user's certifications. Admins may read
// anyone's; other principals only their own.
func (s *certificationServiceImpl) GetUserCertifications(ctx context.Context, p *auth.Principal, userID int64) ([]dto.CertificationResponse, error) {
	if !p.IsAdmin() && p.UserID != userID {
		return nil, apperrors.ErrPermissionDenied
	}

	certs, err := s.certificationRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.CertificationResponse, 0, len(certs))
	for _, c := range certs {
		resp = append(resp, dto.NewCertificationResponse(c))
	}
	return resp, nil
}

// VerifyByCode checks a certificate code. Public: anyone holding a code
// may confirm it. A certification is valid when active and not past its
// expiry date.
func (s *certificationServiceImpl) VerifyByCode(ctx context.Context, code string) (*dto.CertificationVerifyResponse, error) {
	cert, err := s.certificationRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return &dto.CertificationVerifyResponse{Valid: false}, nil
		}
		return nil, err
	}

	valid := cert.Status == models.CertificationActive &&
		(cert.ExpiryDate == nil || cert.ExpiryDate.After(s.now()))

	resp := dto.NewCertificationResponse(cert)
	return &dto.CertificationVerifyResponse{Valid: valid, Certification: &resp}, nil
}

// RenewCertification extends a certification's validity and reactivates an
// expired one. Admin only. Revoked certifications cannot be renewed.
func (s *certificationServiceImpl) RenewCertification(ctx context.Context, p *auth.Principal, id int64, req *dto.RenewCertificationRequest) (*dto.CertificationResponse, error) {
	if !p.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}

	cert, err := s.certificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert.Status == models.CertificationRevoked {
		return nil, apperrors.Structural(apperrors.ErrCertificationRevoked)
	}
	if !req.ExpiryDate.After(s.now()) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "renewal expiry date must be in the future")
	}

	if err := s.certificationRepo.Renew(ctx, id, req.ExpiryDate); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("certificationId", id).Time("expiryDate", req.ExpiryDate).Msg("Certification renewed")
	return s.GetCertificationByID(ctx, id)
}

// RevokeCertification revokes a certification. Admin only and terminal:
// a revoked certification never verifies and cannot be renewed.
func (s *certificationServiceImpl) RevokeCertification(ctx context.Context, p *auth.Principal, id int64) error {
	if !p.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}

	if _, err := s.certificationRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.certificationRepo.UpdateStatus(ctx, id, models.CertificationRevoked); err != nil {
		return err
	}

	s.logger.Info().Int64("certificationId", id).Int64("adminId", p.UserID).Msg("Certification revoked")
	return nil
}

// ExpireOverdue marks active certifications whose expiry date has passed
// as expired. Run periodically by the scheduler.
func (s *certificationServiceImpl) ExpireOverdue(ctx context.Context) (int64, error) {
	count, err := s.certificationRepo.ExpireOverdue(ctx, s.now())
	if err != nil {
		s.logger.Error().Err(err).Msg("Certification expiry sweep failed")
		return 0, err
	}
	if count > 0 {
		s.metrics.CertificationsExpired.Add(float64(count))
	}
	return count, nil
}

// newCertificationCode builds a public verification code from a UUID
// fragment, e.g. CERT-9f1c2a8b
func newCertificationCode() string {
	return certificationCodePrefix + uuid.New().String()[:8]
}
