package services

import (
	"github.com/rs/zerolog"

	"github.com/benhmida/formatech/internal/app/auth"
	"github.com/benhmida/formatech/internal/app/repositories"
	"github.com/benhmida/formatech/internal/db"
	pkgauth "github.com/benhmida/formatech/internal/pkg/auth"
	"github.com/benhmida/formatech/internal/pkg/clictopay"
	"github.com/benhmida/formatech/internal/pkg/filestorage"
	"github.com/benhmida/formatech/internal/pkg/logger"
	"github.com/benhmida/formatech/internal/pkg/metrics"
)

// Services holds all the service instances
type Services struct {
	AuthService             AuthService
	UserService             UserService
	InstructorService       InstructorService
	CourseService           CourseService
	ModuleService           ModuleService
	CompanyService          CompanyService
	ServiceCatalogService   ServiceCatalogService
	EventService            EventService
	EnrollmentService       EnrollmentService
	PaymentService          PaymentService
	ReviewService           ReviewService
	CertificationService    CertificationService
	PracticalSessionService PracticalSessionService
}

// NewServices wires all services over the shared repositories, guard and
// infrastructure
func NewServices(
	repos *repositories.Repositories,
	txRunner db.TxRunner,
	jwtService *pkgauth.JWTService,
	gateway clictopay.Gateway,
	fileStorage filestorage.FileStorage,
	guard *auth.MutationGuard,
	m *metrics.Metrics,
) *Services {
	log := func(component string) zerolog.Logger {
		return logger.WithFields(map[string]interface{}{"component": component})
	}

	return &Services{
		AuthService:             NewAuthService(repos.UserRepository, repos.TokenRepository, jwtService, log("auth_service")),
		UserService:             NewUserService(repos.UserRepository, repos.TokenRepository, log("user_service")),
		InstructorService:       NewInstructorService(repos.InstructorRepository, repos.CourseRepository, repos.UserRepository, txRunner, log("instructor_service")),
		CourseService:           NewCourseService(repos.CourseRepository, repos.InstructorRepository, repos.ModuleRepository, txRunner, guard, log("course_service")),
		ModuleService:           NewModuleService(repos.ModuleRepository, repos.CourseRepository, repos.FileRepository, fileStorage, guard, log("module_service")),
		CompanyService:          NewCompanyService(repos.CompanyRepository, guard, log("company_service")),
		ServiceCatalogService:   NewServiceCatalogService(repos.ServiceRepository, repos.CompanyRepository, guard, log("service_catalog_service")),
		EventService:            NewEventService(repos.EventRepository, repos.CompanyRepository, txRunner, guard, log("event_service")),
		EnrollmentService:       NewEnrollmentService(repos.EnrollmentRepository, repos.CourseRepository, txRunner, guard, m, log("enrollment_service")),
		PaymentService:          NewPaymentService(repos.PaymentRepository, repos.EnrollmentRepository, repos.CourseRepository, repos.EventRepository, gateway, txRunner, m, log("payment_service")),
		ReviewService:           NewReviewService(repos.ReviewRepository, repos.CourseRepository, repos.InstructorRepository, txRunner, guard, log("review_service")),
		CertificationService:    NewCertificationService(repos.CertificationRepository, repos.CourseRepository, repos.EnrollmentRepository, guard, m, log("certification_service")),
		PracticalSessionService: NewPracticalSessionService(repos.PracticalSessionRepository, repos.CourseRepository, guard, log("practical_session_service")),
	}
}
