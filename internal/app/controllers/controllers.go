// Package controllers contains the HTTP handlers binding the REST surface
// to the service layer.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/benhmida/formatech/internal/app/auth"
	"github.com/benhmida/formatech/internal/app/models/dto"
	"github.com/benhmida/formatech/internal/app/services"
	"github.com/benhmida/formatech/internal/middleware"
)

// Controllers bundles every controller for route registration
type Controllers struct {
	Auth             *AuthController
	User             *UserController
	Course           *CourseController
	Instructor       *InstructorController
	Module           *ModuleController
	Company          *CompanyController
	Service          *ServiceController
	Event            *EventController
	Enrollment       *EnrollmentController
	Payment          *PaymentController
	Review           *ReviewController
	Certification    *CertificationController
	PracticalSession *PracticalSessionController
}

// NewControllers wires every controller against the service container
func NewControllers(s *services.Services) *Controllers {
	return &Controllers{
		Auth:             NewAuthController(s.AuthService),
		User:             NewUserController(s.UserService),
		Course:           NewCourseController(s.CourseService),
		Instructor:       NewInstructorController(s.InstructorService),
		Module:           NewModuleController(s.ModuleService),
		Company:          NewCompanyController(s.CompanyService),
		Service:          NewServiceController(s.ServiceCatalogService),
		Event:            NewEventController(s.EventService),
		Enrollment:       NewEnrollmentController(s.EnrollmentService),
		Payment:          NewPaymentController(s.PaymentService),
		Review:           NewReviewController(s.ReviewService),
		Certification:    NewCertificationController(s.CertificationService),
		PracticalSession: NewPracticalSessionController(s.PracticalSessionService),
	}
}

// parseIDParam reads a positive int64 path parameter. On failure it writes
// the 400 response itself and reports false.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		errorDetail = errorDetail.WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// requirePrincipal fetches the authenticated principal. On a missing
// principal it writes the 401 response itself and reports false; routes
// behind JWTAuth should never hit that path.
func requirePrincipal(ctx *gin.Context) (*auth.Principal, bool) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return p, true
}

// bindJSON binds and validates a JSON body, writing the 400 response on
// failure.
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}
