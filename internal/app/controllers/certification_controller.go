package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/services"
	"github.com/benhmida/formatech/internal/middleware"
)

// CertificationController handles certification lifecycle operations
type CertificationController struct {
	certificationService services.CertificationService
}

// NewCertificationController creates a new CertificationController
func NewCertificationController(certificationService services.CertificationService) *CertificationController {
	return &CertificationController{certificationService: certificationService}
}

// Issue handles issuing a certification
// @Summary Issue a certification
// @Description Issues a certification for a completed enrollment in a certification-eligible course. Restricted to the course's instructors and admins.
// @Tags certifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.IssueCertificationRequest true "Issue certification request"
// @Success 201 {object} dto.APIResponse{data=dto.CertificationResponse} "Certification issued"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Course or enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Course not eligible, enrollment not completed or already certified"
// @Router /certifications [post]
func (c *CertificationController) Issue(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.IssueCertificationRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.certificationService.IssueCertification(ctx, p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// GetCertificationByID handles retrieving a single certification
// @Summary Get certification by ID
// @Tags certifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Certification ID"
// @Success 200 {object} dto.APIResponse{data=dto.CertificationResponse} "Certification retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Certification not found"
// @Router /certifications/{id} [get]
func (c *CertificationController) GetCertificationByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.certificationService.GetCertificationByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetUserCertifications handles listing a user's certifications
// @Summary List a user's certifications
// @Description Retrieves the certifications of a user. Admins may read anyone's, other users only their own.
// @Tags certifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CertificationResponse} "Certifications retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /users/{id}/certifications [get]
func (c *CertificationController) GetUserCertifications(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.certificationService.GetUserCertifications(ctx, p, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// VerifyByCode handles public certificate verification
// @Summary Verify a certificate code
// @Description Checks whether a certificate code belongs to a currently valid certification. Public endpoint; unknown codes verify as invalid.
// @Tags certifications
// @Produce json
// @Param code path string true "Certificate code"
// @Success 200 {object} dto.APIResponse{data=dto.CertificationVerifyResponse} "Verification result"
// @Router /certifications/verify/{code} [get]
func (c *CertificationController) VerifyByCode(ctx *gin.Context) {
	code := ctx.Param("code")

	response, err := c.certificationService.VerifyByCode(ctx, code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Renew handles extending a certification's validity
// @Summary Renew a certification
// @Description Extends a certification's validity and reactivates it if expired. Admin only; revoked certifications cannot be renewed.
// @Tags certifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Certification ID"
// @Param request body dto.RenewCertificationRequest true "Renewal request"
// @Success 200 {object} dto.APIResponse{data=dto.CertificationResponse} "Certification renewed"
// @Failure 400 {object} dto.ErrorResponse "Expiry date not in the future"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Certification not found"
// @Failure 409 {object} dto.ErrorResponse "Certification is revoked"
// @Router /certifications/{id}/renew [post]
func (c *CertificationController) Renew(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RenewCertificationRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.certificationService.RenewCertification(ctx, p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Revoke handles revoking a certification
// @Summary Revoke a certification
// @Description Revokes a certification. Admin only and terminal.
// @Tags certifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Certification ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Certification revoked"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Certification not found"
// @Router /certifications/{id}/revoke [post]
func (c *CertificationController) Revoke(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.certificationService.RevokeCertification(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "certification revoked"}))
}
