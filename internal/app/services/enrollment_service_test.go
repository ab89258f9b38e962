package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benhmida/formatech/internal/app/auth"
	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/metrics"
)

type enrollmentFixture struct {
	svc            EnrollmentService
	enrollmentRepo *fakeEnrollmentRepo
	courseRepo     *fakeCourseRepo
}

func newEnrollmentFixture() *enrollmentFixture {
	instructorRepo := newFakeInstructorRepo(
		&models.Instructor{ID: 5, UserID: 12},
		&models.Instructor{ID: 6, UserID: 13},
	)
	courseRepo := newFakeCourseRepo(instructorRepo)
	courseRepo.addCourse(&models.Course{ID: 101, Title: "Molding", Price: 450}, 5)
	courseRepo.addCourse(&models.Course{ID: 102, Title: "Open intro", Price: 0}, 6)

	enrollmentRepo := newFakeEnrollmentRepo()
	svc := NewEnrollmentService(enrollmentRepo, courseRepo, &fakeTxRunner{}, newGuard(), metrics.New(), testLogger())
	return &enrollmentFixture{svc: svc, enrollmentRepo: enrollmentRepo, courseRepo: courseRepo}
}

func TestEnrollInPaidCourseStaysPending(t *testing.T) {
	f := newEnrollmentFixture()

	resp, err := f.svc.Enroll(context.Background(), learnerPrincipal(20), &dto.CreateEnrollmentRequest{CourseID: 101})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, int64(20), resp.UserID)
}

func TestEnrollInFreeCourseActivatesImmediately(t *testing.T) {
	f := newEnrollmentFixture()

	resp, err := f.svc.Enroll(context.Background(), learnerPrincipal(20), &dto.CreateEnrollmentRequest{CourseID: 102})
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Status)
}

func TestDuplicateEnrollmentConflicts(t *testing.T) {
	f := newEnrollmentFixture()

	_, err := f.svc.Enroll(context.Background(), learnerPrincipal(20), &dto.CreateEnrollmentRequest{CourseID: 101})
	require.NoError(t, err)

	_, err = f.svc.Enroll(context.Background(), learnerPrincipal(20), &dto.CreateEnrollmentRequest{CourseID: 101})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
	assert.ErrorIs(t, err, apperrors.ErrStructuralConflict)
}

func TestEnrollInUnknownCourseNotFound(t *testing.T) {
	f := newEnrollmentFixture()

	_, err := f.svc.Enroll(context.Background(), learnerPrincipal(20), &dto.CreateEnrollmentRequest{CourseID: 999})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestGetEnrollmentRestrictedToOwnerAndCourseAuthority(t *testing.T) {
	f := newEnrollmentFixture()

	created, err := f.svc.Enroll(context.Background(), learnerPrincipal(20), &dto.CreateEnrollmentRequest{CourseID: 101})
	require.NoError(t, err)

	// Another learner may not read it.
	_, err = f.svc.GetEnrollmentByID(context.Background(), learnerPrincipal(21), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// The owner, the course's instructor and admins may.
	for _, tc := range []struct {
		name string
		p    *auth.Principal
	}{
		{"owner", learnerPrincipal(20)},
		{"course instructor", instructorPrincipal(12, 5)},
		{"admin", adminPrincipal(1)},
	} {
		resp, err := f.svc.GetEnrollmentByID(context.Background(), tc.p, created.ID)
		require.NoError(t, err, tc.name)
		assert.Equal(t, created.ID, resp.ID)
	}

	// An instructor outside the course has no claim either.
	_, err = f.svc.GetEnrollmentByID(context.Background(), instructorPrincipal(13, 6), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCompleteEnrollmentReservedForCourseAuthority(t *testing.T) {
	f := newEnrollmentFixture()

	created, err := f.svc.Enroll(context.Background(), learnerPrincipal(20), &dto.CreateEnrollmentRequest{CourseID: 101})
	require.NoError(t, err)

	complete := &dto.UpdateEnrollmentStatusRequest{Status: "COMPLETED"}

	_, err = f.svc.UpdateEnrollmentStatus(context.Background(), learnerPrincipal(20), created.ID, complete)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied, "owners cannot mark their own enrollment completed")

	resp, err := f.svc.UpdateEnrollmentStatus(context.Background(), instructorPrincipal(12, 5), created.ID, complete)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.NotNil(t, resp.CompletionDate)
}

func TestOwnerMayCancelOwnEnrollment(t *testing.T) {
	f := newEnrollmentFixture()

	created, err := f.svc.Enroll(context.Background(), learnerPrincipal(20), &dto.CreateEnrollmentRequest{CourseID: 101})
	require.NoError(t, err)

	resp, err := f.svc.UpdateEnrollmentStatus(context.Background(), learnerPrincipal(20), created.ID, &dto.UpdateEnrollmentStatusRequest{Status: "CANCELLED"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", resp.Status)
}

func TestCancelEnrollmentOwnerOrAdmin(t *testing.T) {
	f := newEnrollmentFixture()

	created, err := f.svc.Enroll(context.Background(), learnerPrincipal(20), &dto.CreateEnrollmentRequest{CourseID: 101})
	require.NoError(t, err)

	err = f.svc.CancelEnrollment(context.Background(), learnerPrincipal(21), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = f.svc.CancelEnrollment(context.Background(), learnerPrincipal(20), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCancelled, f.enrollmentRepo.byID[created.ID].Status)
}

func TestGetCourseEnrollmentsRequiresCourseAuthority(t *testing.T) {
	f := newEnrollmentFixture()

	_, err := f.svc.Enroll(context.Background(), learnerPrincipal(20), &dto.CreateEnrollmentRequest{CourseID: 101})
	require.NoError(t, err)
	_, err = f.svc.Enroll(context.Background(), learnerPrincipal(21), &dto.CreateEnrollmentRequest{CourseID: 101})
	require.NoError(t, err)

	_, err = f.svc.GetCourseEnrollments(context.Background(), learnerPrincipal(20), 101, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	list, err := f.svc.GetCourseEnrollments(context.Background(), instructorPrincipal(12, 5), 101, 1, 10)
	require.NoError(t, err)
	assert.Len(t, list.Enrollments, 2)
}

func TestGetMyEnrollments(t *testing.T) {
	f := newEnrollmentFixture()

	_, err := f.svc.Enroll(context.Background(), learnerPrincipal(20), &dto.CreateEnrollmentRequest{CourseID: 101})
	require.NoError(t, err)
	_, err = f.svc.Enroll(context.Background(), learnerPrincipal(20), &dto.CreateEnrollmentRequest{CourseID: 102})
	require.NoError(t, err)
	_, err = f.svc.Enroll(context.Background(), learnerPrincipal(21), &dto.CreateEnrollmentRequest{CourseID: 101})
	require.NoError(t, err)

	list, err := f.svc.GetMyEnrollments(context.Background(), learnerPrincipal(20), 1, 10)
	require.NoError(t, err)
	assert.Len(t, list.Enrollments, 2)
	assert.Equal(t, int64(2), list.PaginationInfo.TotalItems)
}
