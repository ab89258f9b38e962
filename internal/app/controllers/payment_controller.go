package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/services"
	"github.com/benhmida/formatech/internal/middleware"
	"github.com/benhmida/formatech/internal/pkg/helpers"
)

// PaymentController handles payment lifecycle operations
type PaymentController struct {
	paymentService services.PaymentService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// Initiate handles starting a payment
// @Summary Initiate a payment
// @Description Starts a payment for a course enrollment or an event registration through the payment gateway. Targets exactly one of courseId or eventId.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InitiatePaymentRequest true "Payment request"
// @Success 201 {object} dto.APIResponse{data=dto.PaymentResponse} "Payment initiated"
// @Failure 400 {object} dto.ErrorResponse "Invalid payment target"
// @Failure 404 {object} dto.ErrorResponse "Course, event or enrollment not found"
// @Router /payments [post]
func (c *PaymentController) Initiate(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.InitiatePaymentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.paymentService.InitiatePayment(ctx, p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// Verify handles confirming a payment's gateway status
// @Summary Verify a payment
// @Description Asks the gateway for the payment's outcome. A completed course payment activates its enrollment in the same transaction.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.APIResponse{data=dto.VerifyPaymentResponse} "Payment state resolved"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Router /payments/{id}/verify [post]
func (c *PaymentController) Verify(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.paymentService.VerifyPayment(ctx, p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Refund handles refunding a completed payment
// @Summary Refund a payment
// @Description Refunds a completed payment through the gateway. Admin only.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentResponse} "Payment refunded"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 409 {object} dto.ErrorResponse "Only completed payments can be refunded"
// @Router /payments/{id}/refund [post]
func (c *PaymentController) Refund(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.paymentService.RefundPayment(ctx, p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetPaymentByID handles retrieving a single payment
// @Summary Get payment by ID
// @Description Retrieves a payment. Restricted to its owner and admins.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentResponse} "Payment retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Router /payments/{id} [get]
func (c *PaymentController) GetPaymentByID(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.paymentService.GetPaymentByID(ctx, p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetMyPayments handles listing the authenticated user's payments
// @Summary List own payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.PaymentListResponse} "Payments retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /payments/me [get]
func (c *PaymentController) GetMyPayments(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)

	response, err := c.paymentService.GetMyPayments(ctx, p, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
