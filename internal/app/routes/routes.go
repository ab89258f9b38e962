// Package routes wires the HTTP surface onto the gin engine.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/benhmida/formatech/internal/app/controllers"
	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/middleware"
)

// SetupRouter configures all application routes. Reads on the catalog
// (courses, instructors, companies, services, events) are public; every
// mutation goes through JWTAuth and the service-layer ownership checks.
func SetupRouter(
	router *gin.Engine,
	c *controllers.Controllers,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
	}

	// --- Public catalog reads ---
	v1.GET("/courses", c.Course.GetAllCourses)
	v1.GET("/courses/:id", c.Course.GetCourseByID)
	v1.GET("/courses/:id/modules", c.Module.GetModulesByCourse)
	v1.GET("/courses/:id/reviews", c.Review.GetCourseReviews)
	v1.GET("/courses/:id/sessions", c.PracticalSession.GetSessionsByCourse)
	v1.GET("/modules/:id", c.Module.GetModuleByID)
	v1.GET("/sessions/:id", c.PracticalSession.GetSessionByID)

	v1.GET("/instructors", c.Instructor.GetAllInstructors)
	v1.GET("/instructors/:id", c.Instructor.GetInstructorByID)
	v1.GET("/instructors/:id/courses", c.Instructor.GetInstructorCourses)

	v1.GET("/companies", c.Company.GetAllCompanies)
	v1.GET("/companies/:id", c.Company.GetCompanyByID)
	v1.GET("/services", c.Service.GetAllServices)
	v1.GET("/services/:id", c.Service.GetServiceByID)
	v1.GET("/events", c.Event.GetAllEvents)
	v1.GET("/events/:id", c.Event.GetEventByID)

	// Certificate verification is public: anyone holding a code may check it.
	v1.GET("/certifications/verify/:code", c.Certification.VerifyByCode)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", c.Auth.Logout)
		authenticated.POST("/auth/logout-all", c.Auth.LogoutAll)

		// Own profile
		authenticated.GET("/users/me", c.User.GetProfile)
		authenticated.PUT("/users/me", c.User.UpdateProfile)

		// Courses and their instructor sets. Authorization is ownership
		// based and enforced in the service layer, not by role gates.
		authenticated.POST("/courses", c.Course.CreateCourse)
		authenticated.PUT("/courses/:id", c.Course.UpdateCourse)
		authenticated.DELETE("/courses/:id", c.Course.DeleteCourse)
		authenticated.POST("/courses/:id/instructors/:instructorId", c.Course.AddInstructor)
		authenticated.DELETE("/courses/:id/instructors/:instructorId", c.Course.RemoveInstructor)
		authenticated.PUT("/courses/:id/instructors", c.Course.SetInstructors)

		// Modules
		authenticated.POST("/courses/:id/modules", c.Module.CreateModule)
		authenticated.PUT("/modules/:id", c.Module.UpdateModule)
		authenticated.DELETE("/modules/:id", c.Module.DeleteModule)
		authenticated.POST("/modules/:id/file", c.Module.AttachFile)
		authenticated.DELETE("/modules/:id/file", c.Module.DetachFile)

		// Practical sessions
		authenticated.POST("/sessions", c.PracticalSession.CreateSession)
		authenticated.PUT("/sessions/:id", c.PracticalSession.UpdateSession)
		authenticated.DELETE("/sessions/:id", c.PracticalSession.DeleteSession)

		// Companies, services, events
		authenticated.POST("/companies", c.Company.CreateCompany)
		authenticated.PUT("/companies/:id", c.Company.UpdateCompany)
		authenticated.DELETE("/companies/:id", c.Company.DeleteCompany)
		authenticated.POST("/services", c.Service.CreateService)
		authenticated.PUT("/services/:id", c.Service.UpdateService)
		authenticated.DELETE("/services/:id", c.Service.DeleteService)
		authenticated.POST("/events", c.Event.CreateEvent)
		authenticated.PUT("/events/:id", c.Event.UpdateEvent)
		authenticated.DELETE("/events/:id", c.Event.DeleteEvent)
		authenticated.POST("/events/:id/register", c.Event.Register)
		authenticated.DELETE("/events/:id/register", c.Event.CancelRegistration)
		authenticated.GET("/events/:id/registrations", c.Event.GetRegistrations)

		// Enrollments
		authenticated.POST("/enrollments", c.Enrollment.Enroll)
		authenticated.GET("/enrollments/me", c.Enrollment.GetMyEnrollments)
		authenticated.GET("/enrollments/:id", c.Enrollment.GetEnrollmentByID)
		authenticated.PUT("/enrollments/:id/status", c.Enrollment.UpdateStatus)
		authenticated.DELETE("/enrollments/:id", c.Enrollment.Cancel)
		authenticated.GET("/courses/:id/enrollments", c.Enrollment.GetCourseEnrollments)

		// Payments
		authenticated.POST("/payments", c.Payment.Initiate)
		authenticated.GET("/payments/me", c.Payment.GetMyPayments)
		authenticated.GET("/payments/:id", c.Payment.GetPaymentByID)
		authenticated.POST("/payments/:id/verify", c.Payment.Verify)

		// Reviews
		authenticated.POST("/reviews", c.Review.CreateReview)
		authenticated.PUT("/reviews/:id", c.Review.UpdateReview)
		authenticated.DELETE("/reviews/:id", c.Review.DeleteReview)

		// Certifications
		authenticated.POST("/certifications", c.Certification.Issue)
		authenticated.GET("/certifications/:id", c.Certification.GetCertificationByID)
		authenticated.GET("/users/:id/certifications", c.Certification.GetUserCertifications)

		// Instructor profiles
		authenticated.PUT("/instructors/:id", c.Instructor.UpdateInstructor)

		// --- Admin routes ---
		admin := authenticated.Group("")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.GET("/users", c.User.GetAllUsers)
			admin.GET("/users/:id", c.User.GetUserByID)
			admin.PUT("/users/:id/role", c.User.UpdateUserRole)
			admin.PUT("/users/:id/active", c.User.SetUserActive)
			admin.DELETE("/users/:id", c.User.DeleteUser)

			admin.POST("/instructors", c.Instructor.CreateInstructor)
			admin.DELETE("/instructors/:id", c.Instructor.DeleteInstructor)

			admin.POST("/payments/:id/refund", c.Payment.Refund)
			admin.POST("/certifications/:id/renew", c.Certification.Renew)
			admin.POST("/certifications/:id/revoke", c.Certification.Revoke)
		}
	}
}
