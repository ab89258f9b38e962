package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/clictopay"
	"github.com/benhmida/formatech/internal/pkg/metrics"
)

type paymentFixture struct {
	svc            PaymentService
	paymentRepo    *fakePaymentRepo
	enrollmentRepo *fakeEnrollmentRepo
	courseRepo     *fakeCourseRepo
	gateway        *fakeGateway
}

func newPaymentFixture(gateway *fakeGateway) *paymentFixture {
	instructorRepo := newFakeInstructorRepo(&models.Instructor{ID: 5, UserID: 12})
	courseRepo := newFakeCourseRepo(instructorRepo)
	courseRepo.addCourse(&models.Course{ID: 101, Title: "Molding", Price: 450}, 5)

	enrollmentRepo := newFakeEnrollmentRepo(&models.Enrollment{
		ID: 301, UserID: 20, CourseID: 101, Status: models.EnrollmentPending,
	})
	paymentRepo := newFakePaymentRepo()
	eventRepo := newFakeEventRepo(&models.Event{ID: 31, CompanyID: 10, Title: "Open day", Price: 30})

	svc := NewPaymentService(paymentRepo, enrollmentRepo, courseRepo, eventRepo, gateway, fakeTxRunner{}, metrics.New(), testLogger())
	return &paymentFixture{
		svc:            svc,
		paymentRepo:    paymentRepo,
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		gateway:        gateway,
	}
}

func TestInitiatePaymentRequiresSingleTarget(t *testing.T) {
	f := newPaymentFixture(&fakeGateway{})
	courseID, eventID := int64(101), int64(31)

	_, err := f.svc.InitiatePayment(context.Background(), learnerPrincipal(20), &dto.InitiatePaymentRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.InitiatePayment(context.Background(), learnerPrincipal(20), &dto.InitiatePaymentRequest{
		CourseID: &courseID,
		EventID:  &eventID,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Zero(t, f.gateway.initiateCalls)
}

func TestInitiateCoursePayment(t *testing.T) {
	f := newPaymentFixture(&fakeGateway{})
	courseID := int64(101)

	resp, err := f.svc.InitiatePayment(context.Background(), learnerPrincipal(20), &dto.InitiatePaymentRequest{CourseID: &courseID})
	require.NoError(t, err)

	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, 450.0, resp.Amount)
	assert.Equal(t, clictopay.Currency, resp.Currency)
	assert.Contains(t, resp.TransactionReference, "PT-")
	assert.Equal(t, 450.0, f.gateway.lastAmount)
}

func TestInitiateCoursePaymentWithoutEnrollment(t *testing.T) {
	f := newPaymentFixture(&fakeGateway{})
	courseID := int64(101)

	// User 21 never enrolled.
	_, err := f.svc.InitiatePayment(context.Background(), learnerPrincipal(21), &dto.InitiatePaymentRequest{CourseID: &courseID})
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
	assert.Zero(t, f.gateway.initiateCalls)
}

func TestVerifyCompletedPaymentActivatesEnrollment(t *testing.T) {
	f := newPaymentFixture(&fakeGateway{verifyStatus: clictopay.StatusCompleted})
	courseID := int64(101)

	initiated, err := f.svc.InitiatePayment(context.Background(), learnerPrincipal(20), &dto.InitiatePaymentRequest{CourseID: &courseID})
	require.NoError(t, err)

	verified, err := f.svc.VerifyPayment(context.Background(), learnerPrincipal(20), initiated.ID)
	require.NoError(t, err)
	assert.True(t, verified.Completed)

	payment := f.paymentRepo.byID[initiated.ID]
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.NotNil(t, payment.PaymentDate)

	enrollment := f.enrollmentRepo.byID[301]
	assert.Equal(t, models.EnrollmentActive, enrollment.Status)
	require.NotNil(t, enrollment.PaymentID)
	assert.Equal(t, initiated.ID, *enrollment.PaymentID)
}

func TestVerifyFailedPayment(t *testing.T) {
	f := newPaymentFixture(&fakeGateway{verifyStatus: clictopay.StatusFailed})
	courseID := int64(101)

	initiated, err := f.svc.InitiatePayment(context.Background(), learnerPrincipal(20), &dto.InitiatePaymentRequest{CourseID: &courseID})
	require.NoError(t, err)

	verified, err := f.svc.VerifyPayment(context.Background(), learnerPrincipal(20), initiated.ID)
	require.NoError(t, err)
	assert.False(t, verified.Completed)
	assert.Equal(t, models.PaymentFailed, f.paymentRepo.byID[initiated.ID].Status)

	// The pending enrollment stays pending.
	assert.Equal(t, models.EnrollmentPending, f.enrollmentRepo.byID[301].Status)
}

func TestVerifyPaymentOwnerOnly(t *testing.T) {
	f := newPaymentFixture(&fakeGateway{verifyStatus: clictopay.StatusCompleted})
	courseID := int64(101)

	initiated, err := f.svc.InitiatePayment(context.Background(), learnerPrincipal(20), &dto.InitiatePaymentRequest{CourseID: &courseID})
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment(context.Background(), learnerPrincipal(21), initiated.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestRefundRequiresCompletedPayment(t *testing.T) {
	f := newPaymentFixture(&fakeGateway{})
	courseID := int64(101)

	initiated, err := f.svc.InitiatePayment(context.Background(), learnerPrincipal(20), &dto.InitiatePaymentRequest{CourseID: &courseID})
	require.NoError(t, err)

	_, err = f.svc.RefundPayment(context.Background(), adminPrincipal(1), initiated.ID)
	assert.ErrorIs(t, err, apperrors.ErrPaymentNotRefundable)
	assert.ErrorIs(t, err, apperrors.ErrStructuralConflict)
	assert.Zero(t, f.gateway.refundCalls)
}

func TestRefundCompletedPayment(t *testing.T) {
	f := newPaymentFixture(&fakeGateway{verifyStatus: clictopay.StatusCompleted})
	courseID := int64(101)

	initiated, err := f.svc.InitiatePayment(context.Background(), learnerPrincipal(20), &dto.InitiatePaymentRequest{CourseID: &courseID})
	require.NoError(t, err)
	_, err = f.svc.VerifyPayment(context.Background(), learnerPrincipal(20), initiated.ID)
	require.NoError(t, err)

	_, err = f.svc.RefundPayment(context.Background(), learnerPrincipal(20), initiated.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	refunded, err := f.svc.RefundPayment(context.Background(), adminPrincipal(1), initiated.ID)
	require.NoError(t, err)
	assert.Equal(t, "REFUNDED", refunded.Status)
	assert.Equal(t, 1, f.gateway.refundCalls)
	assert.Equal(t, initiated.TransactionReference, f.gateway.lastReference)
}
