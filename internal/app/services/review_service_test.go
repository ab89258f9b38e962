package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
)

func newReviewServiceForTest() (ReviewService, *fakeReviewRepo, *fakeCourseRepo, *fakeInstructorRepo) {
	instructorRepo := newFakeInstructorRepo(&models.Instructor{ID: 5, UserID: 12})
	courseRepo := newFakeCourseRepo(instructorRepo)
	reviewRepo := newFakeReviewRepo(courseRepo)
	svc := NewReviewService(reviewRepo, courseRepo, instructorRepo, fakeTxRunner{}, newGuard(), testLogger())
	return svc, reviewRepo, courseRepo, instructorRepo
}

func TestCreateReviewRefreshesInstructorRating(t *testing.T) {
	svc, _, courseRepo, instructorRepo := newReviewServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)

	_, err := svc.CreateReview(context.Background(), learnerPrincipal(20), &dto.CreateReviewRequest{
		CourseID: course.ID,
		Rating:   4,
	})
	require.NoError(t, err)

	_, err = svc.CreateReview(context.Background(), learnerPrincipal(21), &dto.CreateReviewRequest{
		CourseID: course.ID,
		Rating:   2,
	})
	require.NoError(t, err)

	require.NotNil(t, instructorRepo.ratings[5])
	assert.InDelta(t, 3.0, *instructorRepo.ratings[5], 0.001)
}

func TestCreateReviewDeniedForInstructor(t *testing.T) {
	svc, _, courseRepo, _ := newReviewServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)

	_, err := svc.CreateReview(context.Background(), instructorPrincipal(12, 5), &dto.CreateReviewRequest{
		CourseID: course.ID,
		Rating:   5,
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDuplicateReviewConflicts(t *testing.T) {
	svc, _, courseRepo, _ := newReviewServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)

	_, err := svc.CreateReview(context.Background(), learnerPrincipal(20), &dto.CreateReviewRequest{CourseID: course.ID, Rating: 4})
	require.NoError(t, err)

	_, err = svc.CreateReview(context.Background(), learnerPrincipal(20), &dto.CreateReviewRequest{CourseID: course.ID, Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyReviewed)
	assert.ErrorIs(t, err, apperrors.ErrStructuralConflict)
}

func TestUpdateReviewAuthorOnly(t *testing.T) {
	svc, _, courseRepo, _ := newReviewServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)

	created, err := svc.CreateReview(context.Background(), learnerPrincipal(20), &dto.CreateReviewRequest{CourseID: course.ID, Rating: 4})
	require.NoError(t, err)

	rating := 1
	_, err = svc.UpdateReview(context.Background(), learnerPrincipal(21), created.ID, &dto.UpdateReviewRequest{Rating: &rating})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// The author and admins may edit.
	updated, err := svc.UpdateReview(context.Background(), learnerPrincipal(20), created.ID, &dto.UpdateReviewRequest{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Rating)

	rating = 3
	_, err = svc.UpdateReview(context.Background(), adminPrincipal(1), created.ID, &dto.UpdateReviewRequest{Rating: &rating})
	assert.NoError(t, err)
}

func TestDeleteReviewAuthorOnly(t *testing.T) {
	svc, reviewRepo, courseRepo, instructorRepo := newReviewServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)

	created, err := svc.CreateReview(context.Background(), learnerPrincipal(20), &dto.CreateReviewRequest{CourseID: course.ID, Rating: 4})
	require.NoError(t, err)

	err = svc.DeleteReview(context.Background(), learnerPrincipal(21), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = svc.DeleteReview(context.Background(), learnerPrincipal(20), created.ID)
	require.NoError(t, err)
	assert.Empty(t, reviewRepo.byID)

	// With its only review gone the instructor's rating resets.
	assert.Nil(t, instructorRepo.ratings[5])
}
