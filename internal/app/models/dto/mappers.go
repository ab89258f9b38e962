package dto

import (
	"github.com/benhmida/formatech/internal/app/models"
)

// The functions below are the only place persisted records are turned into
// external response shapes. Services never hand raw models to controllers.

// NewUserResponse maps a user record to its external shape
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// NewInstructorResponse maps an instructor record to its external shape
func NewInstructorResponse(ins *models.Instructor) InstructorResponse {
	resp := InstructorResponse{
		ID:        ins.ID,
		UserID:    ins.UserID,
		Bio:       ins.Bio,
		Expertise: ins.Expertise,
		Rating:    ins.Rating,
		CreatedAt: ins.CreatedAt,
	}
	if ins.User != nil {
		user := NewUserResponse(ins.User)
		resp.User = &user
	}
	return resp
}

// NewCourseResponse maps a course record, including any populated
// instructor and module relations, to its external shape
func NewCourseResponse(c *models.Course) CourseResponse {
	resp := CourseResponse{
		ID:                    c.ID,
		Title:                 c.Title,
		Description:           c.Description,
		Category:              c.Category,
		Price:                 c.Price,
		DurationHours:         c.DurationHours,
		Mode:                  string(c.Mode),
		CertificationEligible: c.CertificationEligible,
		ImageFileID:           c.ImageFileID,
		CreatedAt:             c.CreatedAt,
	}
	for _, ins := range c.Instructors {
		resp.Instructors = append(resp.Instructors, NewInstructorResponse(ins))
	}
	for _, m := range c.Modules {
		resp.Modules = append(resp.Modules, NewModuleResponse(m))
	}
	return resp
}

// NewCompanyResponse maps a company record to its external shape
func NewCompanyResponse(co *models.Company) CompanyResponse {
	resp := CompanyResponse{
		ID:          co.ID,
		Name:        co.Name,
		Description: co.Description,
		Address:     co.Address,
		City:        co.City,
		Phone:       co.Phone,
		Email:       co.Email,
		Website:     co.Website,
		CreatedAt:   co.CreatedAt,
	}
	if co.Representative != nil {
		rep := NewUserResponse(co.Representative)
		resp.Representative = &rep
	}
	return resp
}

// NewEventResponse maps an event record to its external shape
func NewEventResponse(e *models.Event) EventResponse {
	return EventResponse{
		ID:                   e.ID,
		CompanyID:            e.CompanyID,
		Title:                e.Title,
		Description:          e.Description,
		Location:             e.Location,
		EventDate:            e.EventDate,
		RegistrationDeadline: e.RegistrationDeadline,
		Price:                e.Price,
		MaxParticipants:      e.MaxParticipants,
		CurrentParticipants:  e.CurrentParticipants,
		CreatedAt:            e.CreatedAt,
	}
}

// NewEventRegistrationResponse maps an event registration to its external shape
func NewEventRegistrationResponse(r *models.EventRegistration) EventRegistrationResponse {
	return EventRegistrationResponse{
		ID:           r.ID,
		EventID:      r.EventID,
		UserID:       r.UserID,
		PaymentID:    r.PaymentID,
		RegisteredAt: r.RegisteredAt,
	}
}

// NewServiceResponse maps a service record to its external shape
func NewServiceResponse(s *models.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		CompanyID:   s.CompanyID,
		Name:        s.Name,
		Description: s.Description,
		Category:    s.Category,
		PriceRange:  s.PriceRange,
		CreatedAt:   s.CreatedAt,
	}
}

// NewModuleResponse maps a module record to its external shape
func NewModuleResponse(m *models.Module) ModuleResponse {
	resp := ModuleResponse{
		ID:          m.ID,
		CourseID:    m.CourseID,
		Title:       m.Title,
		Description: m.Description,
		Position:    m.Position,
		FileID:      m.FileID,
		CreatedAt:   m.CreatedAt,
	}
	if m.File != nil {
		resp.FileURL = &m.File.FileURL
	}
	return resp
}

// NewEnrollmentResponse maps an enrollment record to its external shape
func NewEnrollmentResponse(e *models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		CourseID:       e.CourseID,
		PaymentID:      e.PaymentID,
		Status:         string(e.Status),
		EnrollmentDate: e.EnrollmentDate,
		CompletionDate: e.CompletionDate,
	}
}

// NewPaymentResponse maps a payment record to its external shape.
// The gateway token stays internal.
func NewPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                   p.ID,
		UserID:               p.UserID,
		CourseID:             p.CourseID,
		EventID:              p.EventID,
		Amount:               p.Amount,
		Currency:             p.Currency,
		Status:               string(p.Status),
		TransactionReference: p.TransactionReference,
		PaymentDate:          p.PaymentDate,
		CreatedAt:            p.CreatedAt,
	}
}

// NewReviewResponse maps a review record to its external shape
func NewReviewResponse(r *models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		CourseID:  r.CourseID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User != nil {
		user := NewUserResponse(r.User)
		resp.User = &user
	}
	return resp
}

// NewCertificationResponse maps a certification record to its external shape
func NewCertificationResponse(c *models.Certification) CertificationResponse {
	return CertificationResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		CourseID:   c.CourseID,
		Code:       c.Code,
		IssueDate:  c.IssueDate,
		ExpiryDate: c.ExpiryDate,
		Status:     string(c.Status),
	}
}

// NewPracticalSessionResponse maps a practical session record to its
// external shape
func NewPracticalSessionResponse(s *models.PracticalSession) PracticalSessionResponse {
	return PracticalSessionResponse{
		ID:              s.ID,
		CourseID:        s.CourseID,
		InstructorID:    s.InstructorID,
		Title:           s.Title,
		Location:        s.Location,
		SessionDate:     s.SessionDate,
		DurationMinutes: s.DurationMinutes,
		Capacity:        s.Capacity,
		CreatedAt:       s.CreatedAt,
	}
}
