package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/metrics"
)

type certificationFixture struct {
	svc            CertificationService
	certRepo       *fakeCertificationRepo
	courseRepo     *fakeCourseRepo
	enrollmentRepo *fakeEnrollmentRepo
}

func newCertificationFixture(certs ...*models.Certification) *certificationFixture {
	instructorRepo := newFakeInstructorRepo(&models.Instructor{ID: 5, UserID: 12})
	courseRepo := newFakeCourseRepo(instructorRepo)
	courseRepo.addCourse(&models.Course{ID: 101, Title: "Molding", CertificationEligible: true}, 5)
	courseRepo.addCourse(&models.Course{ID: 102, Title: "Intro", CertificationEligible: false}, 5)

	enrollmentRepo := newFakeEnrollmentRepo(
		&models.Enrollment{ID: 301, UserID: 20, CourseID: 101, Status: models.EnrollmentCompleted},
		&models.Enrollment{ID: 302, UserID: 21, CourseID: 101, Status: models.EnrollmentActive},
		&models.Enrollment{ID: 303, UserID: 20, CourseID: 102, Status: models.EnrollmentCompleted},
	)
	certRepo := newFakeCertificationRepo(certs...)
	svc := NewCertificationService(certRepo, courseRepo, enrollmentRepo, newGuard(), metrics.New(), testLogger())
	return &certificationFixture{svc: svc, certRepo: certRepo, courseRepo: courseRepo, enrollmentRepo: enrollmentRepo}
}

func TestIssueCertification(t *testing.T) {
	f := newCertificationFixture()

	resp, err := f.svc.IssueCertification(context.Background(), instructorPrincipal(12, 5), &dto.IssueCertificationRequest{
		UserID:   20,
		CourseID: 101,
	})
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.True(t, strings.HasPrefix(resp.Code, "CERT-"))
	assert.Len(t, resp.Code, len("CERT-")+8)
}

func TestIssueCertificationRequiresEligibleCourse(t *testing.T) {
	f := newCertificationFixture()

	_, err := f.svc.IssueCertification(context.Background(), adminPrincipal(1), &dto.IssueCertificationRequest{
		UserID:   20,
		CourseID: 102,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotEligible)
	assert.ErrorIs(t, err, apperrors.ErrStructuralConflict)
}

func TestIssueCertificationRequiresCompletedEnrollment(t *testing.T) {
	f := newCertificationFixture()

	_, err := f.svc.IssueCertification(context.Background(), adminPrincipal(1), &dto.IssueCertificationRequest{
		UserID:   21,
		CourseID: 101,
	})
	assert.ErrorIs(t, err, apperrors.ErrStructuralConflict)
}

func TestIssueCertificationDeniedForLearner(t *testing.T) {
	f := newCertificationFixture()

	_, err := f.svc.IssueCertification(context.Background(), learnerPrincipal(20), &dto.IssueCertificationRequest{
		UserID:   20,
		CourseID: 101,
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDuplicateCertificationConflicts(t *testing.T) {
	f := newCertificationFixture()

	_, err := f.svc.IssueCertification(context.Background(), adminPrincipal(1), &dto.IssueCertificationRequest{UserID: 20, CourseID: 101})
	require.NoError(t, err)

	_, err = f.svc.IssueCertification(context.Background(), adminPrincipal(1), &dto.IssueCertificationRequest{UserID: 20, CourseID: 101})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyCertified)
}

func TestVerifyByCode(t *testing.T) {
	future := time.Now().Add(365 * 24 * time.Hour)
	f := newCertificationFixture(&models.Certification{
		ID: 601, UserID: 20, CourseID: 101, Code: "CERT-9f1c2a8b",
		Status: models.CertificationActive, ExpiryDate: &future,
	})

	resp, err := f.svc.VerifyByCode(context.Background(), "CERT-9f1c2a8b")
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	require.NotNil(t, resp.Certification)
	assert.Equal(t, int64(601), resp.Certification.ID)

	// Unknown codes verify as invalid without an error.
	resp, err = f.svc.VerifyByCode(context.Background(), "CERT-00000000")
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Nil(t, resp.Certification)
}

func TestVerifyRevokedCodeInvalid(t *testing.T) {
	f := newCertificationFixture(&models.Certification{
		ID: 601, UserID: 20, CourseID: 101, Code: "CERT-9f1c2a8b",
		Status: models.CertificationRevoked,
	})

	resp, err := f.svc.VerifyByCode(context.Background(), "CERT-9f1c2a8b")
	require.NoError(t, err)
	assert.False(t, resp.Valid)
}

func TestRenewRevokedCertificationConflicts(t *testing.T) {
	f := newCertificationFixture(&models.Certification{
		ID: 601, UserID: 20, CourseID: 101, Code: "CERT-9f1c2a8b",
		Status: models.CertificationRevoked,
	})

	_, err := f.svc.RenewCertification(context.Background(), adminPrincipal(1), 601, &dto.RenewCertificationRequest{
		ExpiryDate: time.Now().Add(365 * 24 * time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrCertificationRevoked)
	assert.ErrorIs(t, err, apperrors.ErrStructuralConflict)
}

func TestRenewReactivatesExpiredCertification(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	f := newCertificationFixture(&models.Certification{
		ID: 601, UserID: 20, CourseID: 101, Code: "CERT-9f1c2a8b",
		Status: models.CertificationExpired, ExpiryDate: &past,
	})

	resp, err := f.svc.RenewCertification(context.Background(), adminPrincipal(1), 601, &dto.RenewCertificationRequest{
		ExpiryDate: time.Now().Add(365 * 24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Status)
}

func TestExpireOverdueSweep(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	f := newCertificationFixture(
		&models.Certification{ID: 601, UserID: 20, CourseID: 101, Code: "CERT-aaaaaaaa", Status: models.CertificationActive, ExpiryDate: &past},
		&models.Certification{ID: 602, UserID: 21, CourseID: 101, Code: "CERT-bbbbbbbb", Status: models.CertificationActive, ExpiryDate: &future},
		&models.Certification{ID: 603, UserID: 22, CourseID: 101, Code: "CERT-cccccccc", Status: models.CertificationActive},
	)

	count, err := f.svc.ExpireOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, models.CertificationExpired, f.certRepo.byID[601].Status)
	assert.Equal(t, models.CertificationActive, f.certRepo.byID[602].Status)
	assert.Equal(t, models.CertificationActive, f.certRepo.byID[603].Status, "certifications without expiry never lapse")
}

func TestRevokeCertificationAdminOnly(t *testing.T) {
	f := newCertificationFixture(&models.Certification{
		ID: 601, UserID: 20, CourseID: 101, Code: "CERT-9f1c2a8b",
		Status: models.CertificationActive,
	})

	err := f.svc.RevokeCertification(context.Background(), instructorPrincipal(12, 5), 601)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = f.svc.RevokeCertification(context.Background(), adminPrincipal(1), 601)
	require.NoError(t, err)
	assert.Equal(t, models.CertificationRevoked, f.certRepo.byID[601].Status)
}
