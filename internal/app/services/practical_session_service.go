package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/benhmida/formatech/internal/app/auth"
	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/repositories"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
)

// PracticalSessionService defines the interface for hands-on session
// scheduling. The conducting instructor must belong to the course's
// instructor set.
type PracticalSessionService interface {
	GetSessionsByCourse(ctx context.Context, courseID int64) ([]dto.PracticalSessionResponse, error)
	GetSessionByID(ctx context.Context, id int64) (*dto.PracticalSessionResponse, error)
	CreateSession(ctx context.Context, p *auth.Principal, req *dto.CreatePracticalSessionRequest) (*dto.PracticalSessionResponse, error)
	UpdateSession(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdatePracticalSessionRequest) (*dto.PracticalSessionResponse, error)
	DeleteSession(ctx context.Context, p *auth.Principal, id int64) error
}

// practicalSessionServiceImpl implements PracticalSessionService
type practicalSessionServiceImpl struct {
	sessionRepo repositories.IPracticalSessionRepository
	courseRepo  repositories.ICourseRepository
	guard       *auth.MutationGuard
	logger      zerolog.Logger
}

// NewPracticalSessionService creates a new PracticalSessionService
func NewPracticalSessionService(
	sessionRepo repositories.IPracticalSessionRepository,
	courseRepo repositories.ICourseRepository,
	guard *auth.MutationGuard,
	logger zerolog.Logger,
) PracticalSessionService {
	return &practicalSessionServiceImpl{
		sessionRepo: sessionRepo,
		courseRepo:  courseRepo,
		guard:       guard,
		logger:      logger,
	}
}

// GetSessionsByCourse returns a course's sessions ordered by date
func (s *practicalSessionServiceImpl) GetSessionsByCourse(ctx context.Context, courseID int64) ([]dto.PracticalSessionResponse, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.PracticalSessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		resp = append(resp, dto.NewPracticalSessionResponse(sess))
	}
	return resp, nil
}

// GetSessionByID returns a single session
func (s *practicalSessionServiceImpl) GetSessionByID(ctx context.Context, id int64) (*dto.PracticalSessionResponse, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPracticalSessionResponse(session)
	return &resp, nil
}

// CreateSession schedules a session for a course. The conducting
// instructor must already be assigned to the course.
func (s *practicalSessionServiceImpl) CreateSession(ctx context.Context, p *auth.Principal, req *dto.CreatePracticalSessionRequest) (*dto.PracticalSessionResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCourse(ctx, p, course, auth.ActionUpdate); err != nil {
		return nil, err
	}
	if !course.HasInstructor(req.InstructorID) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "conducting instructor is not assigned to this course")
	}

	session := &models.PracticalSession{
		CourseID:        req.CourseID,
		InstructorID:    req.InstructorID,
		Title:           req.Title,
		Location:        req.Location,
		SessionDate:     req.SessionDate,
		DurationMinutes: req.DurationMinutes,
		Capacity:        req.Capacity,
	}

	id, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("sessionId", id).Int64("courseId", req.CourseID).Int64("instructorId", req.InstructorID).Msg("Practical session scheduled")
	return s.GetSessionByID(ctx, id)
}

// UpdateSession partially updates a session. Reassigning the conductor
// revalidates course membership.
func (s *practicalSessionServiceImpl) UpdateSession(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdatePracticalSessionRequest) (*dto.PracticalSessionResponse, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	course, err := s.courseRepo.GetByID(ctx, session.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCourse(ctx, p, course, auth.ActionUpdate); err != nil {
		return nil, err
	}

	if req.InstructorID != nil {
		if !course.HasInstructor(*req.InstructorID) {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "conducting instructor is not assigned to this course")
		}
		session.InstructorID = *req.InstructorID
	}
	if req.Title != nil {
		session.Title = *req.Title
	}
	if req.Location != nil {
		session.Location = req.Location
	}
	if req.SessionDate != nil {
		session.SessionDate = *req.SessionDate
	}
	if req.DurationMinutes != nil {
		session.DurationMinutes = req.DurationMinutes
	}
	if req.Capacity != nil {
		session.Capacity = req.Capacity
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return s.GetSessionByID(ctx, id)
}

// DeleteSession removes a session
func (s *practicalSessionServiceImpl) DeleteSession(ctx context.Context, p *auth.Principal, id int64) error {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	course, err := s.courseRepo.GetByID(ctx, session.CourseID)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeCourse(ctx, p, course, auth.ActionDelete); err != nil {
		return err
	}

	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("sessionId", id).Int64("userId", p.UserID).Msg("Practical session deleted")
	return nil
}
