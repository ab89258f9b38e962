package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/benhmida/formatech/internal/app/auth"
	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/repositories"
	"github.com/benhmida/formatech/internal/db"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
	"github.com/benhmida/formatech/internal/pkg/clictopay"
	"github.com/benhmida/formatech/internal/pkg/helpers"
	"github.com/benhmida/formatech/internal/pkg/metrics"
)

// PaymentService defines the interface for gateway payment operations.
// A payment targets exactly one of a course or an event; completing a
// course payment activates its enrollment in the same transaction.
type PaymentService interface {
	InitiatePayment(ctx context.Context, p *auth.Principal, req *dto.InitiatePaymentRequest) (*dto.PaymentResponse, error)
	VerifyPayment(ctx context.Context, p *auth.Principal, paymentID int64) (*dto.VerifyPaymentResponse, error)
	RefundPayment(ctx context.Context, p *auth.Principal, paymentID int64) (*dto.PaymentResponse, error)
	GetPaymentByID(ctx context.Context, p *auth.Principal, id int64) (*dto.PaymentResponse, error)
	GetMyPayments(ctx context.Context, p *auth.Principal, page, pageSize int) (*dto.PaymentListResponse, error)
}

// paymentServiceImpl implements PaymentService
type paymentServiceImpl struct {
	paymentRepo    repositories.IPaymentRepository
	enrollmentRepo repositories.IEnrollmentRepository
	courseRepo     repositories.ICourseRepository
	eventRepo      repositories.IEventRepository
	gateway        clictopay.Gateway
	txRunner       db.TxRunner
	metrics        *metrics.Metrics
	logger         zerolog.Logger
	now            func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo repositories.IPaymentRepository,
	enrollmentRepo repositories.IEnrollmentRepository,
	courseRepo repositories.ICourseRepository,
	eventRepo repositories.IEventRepository,
	gateway clictopay.Gateway,
	txRunner db.TxRunner,
	m *metrics.Metrics,
	logger zerolog.Logger,
) PaymentService {
	return &paymentServiceImpl{
		paymentRepo:    paymentRepo,
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		eventRepo:      eventRepo,
		gateway:        gateway,
		txRunner:       txRunner,
		metrics:        m,
		logger:         logger,
		now:            time.Now,
	}
}

// InitiatePayment opens a gateway payment for a course or an event. Course
// payments require an existing enrollment so the completion step always
// has an enrollment to activate.
func (s *paymentServiceImpl) InitiatePayment(ctx context.Context, p *auth.Principal, req *dto.InitiatePaymentRequest) (*dto.PaymentResponse, error) {
	if (req.CourseID == nil) == (req.EventID == nil) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "a payment targets exactly one of a course or an event")
	}

	var amount float64
	var description string
	switch {
	case req.CourseID != nil:
		course, err := s.courseRepo.GetByID(ctx, *req.CourseID)
		if err != nil {
			return nil, err
		}
		if _, err := s.enrollmentRepo.GetByUserAndCourse(ctx, p.UserID, *req.CourseID); err != nil {
			return nil, err
		}
		amount = course.Price
		description = "Course enrollment: " + course.Title
	case req.EventID != nil:
		event, err := s.eventRepo.GetByID(ctx, *req.EventID)
		if err != nil {
			return nil, err
		}
		amount = event.Price
		description = "Event registration: " + event.Title
	}

	reference := clictopay.NewTransactionReference(s.now())

	timer := prometheus.NewTimer(s.metrics.GatewayRequestDuration.WithLabelValues("initiate"))
	token, err := s.gateway.InitiatePayment(ctx, amount, description, reference)
	timer.ObserveDuration()
	if err != nil {
		s.logger.Error().Err(err).Str("reference", reference).Msg("Gateway initiation failed")
		return nil, err
	}

	payment := &models.Payment{
		UserID:               p.UserID,
		CourseID:             req.CourseID,
		EventID:              req.EventID,
		Amount:               amount,
		Currency:             clictopay.Currency,
		Status:               models.PaymentPending,
		GatewayToken:         &token,
		TransactionReference: reference,
	}

	id, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		return nil, err
	}
	payment.ID = id

	s.metrics.PaymentsTotal.WithLabelValues(string(models.PaymentPending)).Inc()
	s.logger.Info().Int64("paymentId", id).Str("reference", reference).Float64("amount", amount).Msg("Payment initiated")

	resp := dto.NewPaymentResponse(payment)
	return &resp, nil
}

// VerifyPayment asks the gateway for a pending payment's state and applies
// the outcome. A completed course payment activates the enrollment and
// links the payment to it in one transaction.
func (s *paymentServiceImpl) VerifyPayment(ctx context.Context, p *auth.Principal, paymentID int64) (*dto.VerifyPaymentResponse, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != p.UserID && !p.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}
	if payment.Status != models.PaymentPending {
		return &dto.VerifyPaymentResponse{
			Status:    string(payment.Status),
			Completed: payment.Status == models.PaymentCompleted,
		}, nil
	}
	if payment.GatewayToken == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrStructuralConflict, "payment has no gateway token")
	}

	timer := prometheus.NewTimer(s.metrics.GatewayRequestDuration.WithLabelValues("verify"))
	gatewayStatus, err := s.gateway.VerifyPayment(ctx, *payment.GatewayToken)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}

	switch gatewayStatus {
	case clictopay.StatusCompleted:
		if err := s.completePayment(ctx, payment); err != nil {
			return nil, err
		}
		s.metrics.PaymentsTotal.WithLabelValues(string(models.PaymentCompleted)).Inc()
		return &dto.VerifyPaymentResponse{Status: string(models.PaymentCompleted), Completed: true}, nil

	case clictopay.StatusFailed:
		err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			return s.paymentRepo.UpdateStatus(ctx, tx, payment.ID, models.PaymentFailed, nil)
		})
		if err != nil {
			return nil, err
		}
		s.metrics.PaymentsTotal.WithLabelValues(string(models.PaymentFailed)).Inc()
		return &dto.VerifyPaymentResponse{Status: string(models.PaymentFailed), Completed: false}, nil
	}

	return &dto.VerifyPaymentResponse{Status: string(models.PaymentPending), Completed: false}, nil
}

// RefundPayment refunds a completed payment through the gateway. Admin
// only; refunding anything but a completed payment is a structural
// conflict.
func (s *paymentServiceImpl) RefundPayment(ctx context.Context, p *auth.Principal, paymentID int64) (*dto.PaymentResponse, error) {
	if !p.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentCompleted {
		return nil, apperrors.Structural(apperrors.ErrPaymentNotRefundable)
	}

	timer := prometheus.NewTimer(s.metrics.GatewayRequestDuration.WithLabelValues("refund"))
	err = s.gateway.RefundPayment(ctx, payment.TransactionReference, payment.Amount)
	timer.ObserveDuration()
	if err != nil {
		s.logger.Error().Err(err).Int64("paymentId", paymentID).Msg("Gateway refund failed")
		return nil, err
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.paymentRepo.UpdateStatus(ctx, tx, payment.ID, models.PaymentRefunded, nil)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PaymentsTotal.WithLabelValues(string(models.PaymentRefunded)).Inc()
	s.logger.Info().Int64("paymentId", paymentID).Int64("adminId", p.UserID).Msg("Payment refunded")

	refunded, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPaymentResponse(refunded)
	return &resp, nil
}

// GetPaymentByID returns a payment. Visible to its owner and admins.
func (s *paymentServiceImpl) GetPaymentByID(ctx context.Context, p *auth.Principal, id int64) (*dto.PaymentResponse, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.UserID != p.UserID && !p.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}

	resp := dto.NewPaymentResponse(payment)
	return &resp, nil
}

// GetMyPayments lists the authenticated user's payments
func (s *paymentServiceImpl) GetMyPayments(ctx context.Context, p *auth.Principal, page, pageSize int) (*dto.PaymentListResponse, error) {
	page, pageSize = helpers.NormalizePagination(page, pageSize)

	payments, total, err := s.paymentRepo.GetByUserID(ctx, p.UserID, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := &dto.PaymentListResponse{
		Payments:       make([]dto.PaymentResponse, 0, len(payments)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, pageSize),
	}
	for _, pay := range payments {
		resp.Payments = append(resp.Payments, dto.NewPaymentResponse(pay))
	}
	return resp, nil
}

// completePayment marks the payment completed and, for course payments,
// activates the enrollment and links the payment to it, all in one
// transaction
func (s *paymentServiceImpl) completePayment(ctx context.Context, payment *models.Payment) error {
	now := s.now()
	return s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.paymentRepo.UpdateStatus(ctx, tx, payment.ID, models.PaymentCompleted, &now); err != nil {
			return err
		}
		if payment.CourseID == nil {
			return nil
		}

		enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, payment.UserID, *payment.CourseID)
		if err != nil {
			return err
		}
		if err := s.enrollmentRepo.UpdateStatus(ctx, tx, enrollment.ID, models.EnrollmentActive, nil); err != nil {
			return err
		}
		return s.enrollmentRepo.SetPayment(ctx, tx, enrollment.ID, payment.ID)
	})
}
