package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
)

func newPracticalSessionServiceForTest() (PracticalSessionService, *fakePracticalSessionRepo, *fakeCourseRepo) {
	instructorRepo := newFakeInstructorRepo(
		&models.Instructor{ID: 5, UserID: 12},
		&models.Instructor{ID: 6, UserID: 13},
	)
	courseRepo := newFakeCourseRepo(instructorRepo)
	sessionRepo := newFakePracticalSessionRepo()
	svc := NewPracticalSessionService(sessionRepo, courseRepo, newGuard(), testLogger())
	return svc, sessionRepo, courseRepo
}

func TestCreateSessionForAssignedInstructor(t *testing.T) {
	svc, _, courseRepo := newPracticalSessionServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)

	resp, err := svc.CreateSession(context.Background(), instructorPrincipal(12, 5), &dto.CreatePracticalSessionRequest{
		CourseID:     course.ID,
		InstructorID: 5,
		Title:        "Injection press workshop",
		SessionDate:  time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, course.ID, resp.CourseID)
	assert.Equal(t, int64(5), resp.InstructorID)
}

func TestCreateSessionRejectsUnassignedConductor(t *testing.T) {
	svc, sessionRepo, courseRepo := newPracticalSessionServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)

	// Instructor 6 exists but is not assigned to the course.
	_, err := svc.CreateSession(context.Background(), instructorPrincipal(12, 5), &dto.CreatePracticalSessionRequest{
		CourseID:     course.ID,
		InstructorID: 6,
		Title:        "Injection press workshop",
		SessionDate:  time.Now().Add(72 * time.Hour),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, sessionRepo.byID)
}

func TestCreateSessionRequiresCourseAuthority(t *testing.T) {
	svc, _, courseRepo := newPracticalSessionServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)

	// Instructor 6 is not on the course, so it may not schedule for it.
	_, err := svc.CreateSession(context.Background(), instructorPrincipal(13, 6), &dto.CreatePracticalSessionRequest{
		CourseID:     course.ID,
		InstructorID: 5,
		Title:        "Injection press workshop",
		SessionDate:  time.Now().Add(72 * time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestUpdateSessionRevalidatesConductorMembership(t *testing.T) {
	svc, sessionRepo, courseRepo := newPracticalSessionServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)
	sessionRepo.byID[701] = &models.PracticalSession{
		ID:           701,
		CourseID:     course.ID,
		InstructorID: 5,
		Title:        "Injection press workshop",
		SessionDate:  time.Now().Add(72 * time.Hour),
	}

	outsider := int64(6)
	_, err := svc.UpdateSession(context.Background(), instructorPrincipal(12, 5), 701, &dto.UpdatePracticalSessionRequest{
		InstructorID: &outsider,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, int64(5), sessionRepo.byID[701].InstructorID)
}

func TestDeleteSessionReservedForCourseAuthority(t *testing.T) {
	svc, sessionRepo, courseRepo := newPracticalSessionServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)
	sessionRepo.byID[701] = &models.PracticalSession{
		ID:           701,
		CourseID:     course.ID,
		InstructorID: 5,
		Title:        "Injection press workshop",
		SessionDate:  time.Now().Add(72 * time.Hour),
	}

	err := svc.DeleteSession(context.Background(), learnerPrincipal(20), 701)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, svc.DeleteSession(context.Background(), adminPrincipal(1), 701))
	assert.Empty(t, sessionRepo.byID)
}
