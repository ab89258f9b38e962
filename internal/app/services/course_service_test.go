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

func newCourseServiceForTest() (CourseService, *fakeCourseRepo, *fakeInstructorRepo) {
	instructorRepo := newFakeInstructorRepo(
		&models.Instructor{ID: 5, UserID: 12},
		&models.Instructor{ID: 6, UserID: 13},
		&models.Instructor{ID: 7, UserID: 14},
	)
	courseRepo := newFakeCourseRepo(instructorRepo)
	svc := NewCourseService(courseRepo, instructorRepo, newFakeModuleRepo(), fakeTxRunner{}, newGuard(), testLogger())
	return svc, courseRepo, instructorRepo
}

func TestCreateCourseSelfAssignsInstructor(t *testing.T) {
	svc, courseRepo, _ := newCourseServiceForTest()

	resp, err := svc.CreateCourse(context.Background(), instructorPrincipal(12, 5), &dto.CreateCourseRequest{
		Title: "Extrusion Fundamentals",
		Price: 450,
		Mode:  "HYBRID",
	})
	require.NoError(t, err)
	require.Len(t, resp.Instructors, 1)
	assert.Equal(t, int64(5), resp.Instructors[0].ID)
	assert.Equal(t, []int64{5}, courseRepo.members[resp.ID])
}

func TestCreateCourseDeniedForLearner(t *testing.T) {
	svc, _, _ := newCourseServiceForTest()

	_, err := svc.CreateCourse(context.Background(), learnerPrincipal(20), &dto.CreateCourseRequest{
		Title: "Extrusion Fundamentals",
		Mode:  "ONLINE",
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestUpdateCourseDeniedForUnassignedInstructor(t *testing.T) {
	svc, courseRepo, _ := newCourseServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)

	title := "Injection Molding"
	_, err := svc.UpdateCourse(context.Background(), instructorPrincipal(14, 7), course.ID, &dto.UpdateCourseRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// The assigned instructor may update.
	updated, err := svc.UpdateCourse(context.Background(), instructorPrincipal(12, 5), course.ID, &dto.UpdateCourseRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Injection Molding", updated.Title)
}

func TestAddInstructorIsIdempotent(t *testing.T) {
	svc, courseRepo, _ := newCourseServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)

	resp, err := svc.AddInstructorToCourse(context.Background(), adminPrincipal(1), course.ID, 6)
	require.NoError(t, err)
	assert.Len(t, resp.Instructors, 2)

	// A second add of the same instructor changes nothing.
	resp, err = svc.AddInstructorToCourse(context.Background(), adminPrincipal(1), course.ID, 6)
	require.NoError(t, err)
	assert.Len(t, resp.Instructors, 2)
	assert.Equal(t, []int64{5, 6}, courseRepo.members[course.ID])
}

func TestAddUnknownInstructorFails(t *testing.T) {
	svc, courseRepo, _ := newCourseServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)

	_, err := svc.AddInstructorToCourse(context.Background(), adminPrincipal(1), course.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrInstructorNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestRemoveLastInstructorConflicts(t *testing.T) {
	svc, courseRepo, _ := newCourseServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)

	_, err := svc.RemoveInstructorFromCourse(context.Background(), instructorPrincipal(12, 5), course.ID, 5)
	assert.ErrorIs(t, err, apperrors.ErrLastInstructor)
	assert.ErrorIs(t, err, apperrors.ErrStructuralConflict)
	assert.NotErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, []int64{5}, courseRepo.members[course.ID], "membership must be unchanged after the conflict")
}

func TestRemoveInstructorRechecksMembershipInsideTransaction(t *testing.T) {
	svc, courseRepo, _ := newCourseServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5, 6)

	// Another request commits a removal of instructor 5 after this
	// request's read passed the two-member check but before its delete.
	courseRepo.beforeGuardedRemove = func() {
		courseRepo.beforeGuardedRemove = nil
		require.NoError(t, courseRepo.RemoveInstructor(context.Background(), nil, course.ID, 5))
	}

	_, err := svc.RemoveInstructorFromCourse(context.Background(), instructorPrincipal(13, 6), course.ID, 6)
	assert.ErrorIs(t, err, apperrors.ErrLastInstructor)
	assert.ErrorIs(t, err, apperrors.ErrStructuralConflict)
	assert.Equal(t, []int64{6}, courseRepo.members[course.ID], "the course must keep its remaining instructor")
}

func TestAdminMayRemoveLastInstructor(t *testing.T) {
	svc, courseRepo, _ := newCourseServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)

	resp, err := svc.RemoveInstructorFromCourse(context.Background(), adminPrincipal(1), course.ID, 5)
	require.NoError(t, err)
	assert.Empty(t, resp.Instructors)
	assert.Empty(t, courseRepo.members[course.ID])
}

func TestRemoveInstructorKeepsRemainingMembers(t *testing.T) {
	svc, courseRepo, _ := newCourseServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5, 6)

	resp, err := svc.RemoveInstructorFromCourse(context.Background(), instructorPrincipal(12, 5), course.ID, 6)
	require.NoError(t, err)
	require.Len(t, resp.Instructors, 1)
	assert.Equal(t, int64(5), resp.Instructors[0].ID)
}

func TestRemoveUnassignedInstructorNotFound(t *testing.T) {
	svc, courseRepo, _ := newCourseServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5, 6)

	_, err := svc.RemoveInstructorFromCourse(context.Background(), adminPrincipal(1), course.ID, 7)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestSetCourseInstructorsSkipsUnknownIDs(t *testing.T) {
	svc, courseRepo, _ := newCourseServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 7)

	resp, err := svc.SetCourseInstructors(context.Background(), adminPrincipal(1), course.ID, &dto.SetInstructorsRequest{
		InstructorIDs: []int64{5, 6, 999},
	})
	require.NoError(t, err)
	require.Len(t, resp.Instructors, 2)
	assert.Equal(t, []int64{5, 6}, courseRepo.members[course.ID])
}

func TestSetCourseInstructorsAdminOnly(t *testing.T) {
	svc, courseRepo, _ := newCourseServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5)

	_, err := svc.SetCourseInstructors(context.Background(), instructorPrincipal(12, 5), course.ID, &dto.SetInstructorsRequest{
		InstructorIDs: []int64{5, 6},
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, []int64{5}, courseRepo.members[course.ID])
}

func TestSetCourseInstructorsMayEmptyTheSet(t *testing.T) {
	svc, courseRepo, _ := newCourseServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5, 6)

	resp, err := svc.SetCourseInstructors(context.Background(), adminPrincipal(1), course.ID, &dto.SetInstructorsRequest{
		InstructorIDs: []int64{},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Instructors)
}

func TestDeleteCourseDetachesInstructors(t *testing.T) {
	svc, courseRepo, _ := newCourseServiceForTest()
	course := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5, 6)

	err := svc.DeleteCourse(context.Background(), adminPrincipal(1), course.ID)
	require.NoError(t, err)

	_, err = svc.GetCourseByID(context.Background(), course.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.Empty(t, courseRepo.members[course.ID])
}

func TestInstructorDeletionDetachesFromAllCourses(t *testing.T) {
	instructorRepo := newFakeInstructorRepo(
		&models.Instructor{ID: 5, UserID: 12},
		&models.Instructor{ID: 6, UserID: 13},
	)
	courseRepo := newFakeCourseRepo(instructorRepo)
	a := courseRepo.addCourse(&models.Course{Title: "Molding"}, 5, 6)
	b := courseRepo.addCourse(&models.Course{Title: "Extrusion"}, 5)

	svc := NewInstructorService(instructorRepo, courseRepo, newFakeUserRepo(), fakeTxRunner{}, testLogger())
	err := svc.DeleteInstructor(context.Background(), adminPrincipal(1), 5)
	require.NoError(t, err)

	assert.Equal(t, []int64{6}, courseRepo.members[a.ID])
	assert.Empty(t, courseRepo.members[b.ID])
}
