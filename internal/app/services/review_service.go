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
	"github.com/benhmida/formatech/internal/pkg/helpers"
)

// ReviewService defines the interface for course review operations. Every
// review mutation recomputes the aggregate rating of the course's
// instructors inside the same transaction, so the stored averages never
// drift from the review rows.
type ReviewService interface {
	GetCourseReviews(ctx context.Context, courseID int64, page, pageSize int) (*dto.ReviewListResponse, error)
	CreateReview(ctx context.Context, p *auth.Principal, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	UpdateReview(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	DeleteReview(ctx context.Context, p *auth.Principal, id int64) error
}

// reviewServiceImpl implements ReviewService
type reviewServiceImpl struct {
	reviewRepo     repositories.IReviewRepository
	courseRepo     repositories.ICourseRepository
	instructorRepo repositories.IInstructorRepository
	txRunner       db.TxRunner
	guard          *auth.MutationGuard
	logger         zerolog.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo repositories.IReviewRepository,
	courseRepo repositories.ICourseRepository,
	instructorRepo repositories.IInstructorRepository,
	txRunner db.TxRunner,
	guard *auth.MutationGuard,
	logger zerolog.Logger,
) ReviewService {
	return &reviewServiceImpl{
		reviewRepo:     reviewRepo,
		courseRepo:     courseRepo,
		instructorRepo: instructorRepo,
		txRunner:       txRunner,
		guard:          guard,
		logger:         logger,
	}
}

// GetCourseReviews lists a course's reviews with their authors
func (s *reviewServiceImpl) GetCourseReviews(ctx context.Context, courseID int64, page, pageSize int) (*dto.ReviewListResponse, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	page, pageSize = helpers.NormalizePagination(page, pageSize)
	reviews, total, err := s.reviewRepo.GetByCourseID(ctx, courseID, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReviewListResponse{
		Reviews:        make([]dto.ReviewResponse, 0, len(reviews)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, pageSize),
	}
	for _, r := range reviews {
		resp.Reviews = append(resp.Reviews, dto.NewReviewResponse(r))
	}
	return resp, nil
}

// CreateReview adds the authenticated user's review of a course. One
// review per user and course; a second one is a structural conflict.
func (s *reviewServiceImpl) CreateReview(ctx context.Context, p *auth.Principal, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if err := s.guard.AuthorizeReviewCreate(p); err != nil {
		return nil, err
	}
	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:   p.UserID,
		CourseID: req.CourseID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		id, err := s.reviewRepo.Create(ctx, tx, review)
		if err != nil {
			return err
		}
		review.ID = id
		return s.refreshInstructorRatings(ctx, tx, course)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("reviewId", review.ID).Int64("courseId", req.CourseID).Int64("userId", p.UserID).Msg("Review created")

	created, err := s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewReviewResponse(created)
	return &resp, nil
}

// UpdateReview edits a review. Only its author or an admin may change it.
func (s *reviewServiceImpl) UpdateReview(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeReview(p, review, auth.ActionUpdate); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, review.CourseID)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = req.Comment
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.reviewRepo.Update(ctx, tx, review); err != nil {
			return err
		}
		return s.refreshInstructorRatings(ctx, tx, course)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewReviewResponse(updated)
	return &resp, nil
}

// DeleteReview removes a review. Only its author or an admin may delete it.
func (s *reviewServiceImpl) DeleteReview(ctx context.Context, p *auth.Principal, id int64) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeReview(p, review, auth.ActionDelete); err != nil {
		return err
	}

	course, err := s.courseRepo.GetByID(ctx, review.CourseID)
	if err != nil {
		return err
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.reviewRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.refreshInstructorRatings(ctx, tx, course)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("reviewId", id).Int64("userId", p.UserID).Msg("Review deleted")
	return nil
}

// refreshInstructorRatings recomputes each course instructor's average
// rating across all reviews of all their courses
func (s *reviewServiceImpl) refreshInstructorRatings(ctx context.Context, tx pgx.Tx, course *models.Course) error {
	for _, ins := range course.Instructors {
		avg, err := s.reviewRepo.AvgRatingForInstructor(ctx, tx, ins.ID)
		if err != nil {
			return err
		}
		if err := s.instructorRepo.UpdateRating(ctx, tx, ins.ID, avg); err != nil {
			return err
		}
	}
	return nil
}
