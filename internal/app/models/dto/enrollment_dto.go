package dto

import "time"

// CreateEnrollmentRequest enrolls the authenticated user in a course
type CreateEnrollmentRequest struct {
	CourseID  int64  `json:"courseId" binding:"required,gt=0" example:"101"`
	PaymentID *int64 `json:"paymentId,omitempty" binding:"omitempty,gt=0"`
}

// UpdateEnrollmentStatusRequest changes an enrollment's status
type UpdateEnrollmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING ACTIVE COMPLETED CANCELLED" example:"COMPLETED"`
}

// EnrollmentResponse is the external shape of an enrollment
type EnrollmentResponse struct {
	ID             int64      `json:"id" example:"301"`
	UserID         int64      `json:"userId" example:"12"`
	CourseID       int64      `json:"courseId" example:"101"`
	PaymentID      *int64     `json:"paymentId,omitempty"`
	Status         string     `json:"status" example:"ACTIVE"`
	EnrollmentDate time.Time  `json:"enrollmentDate"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
}

// EnrollmentListResponse is a paginated list of enrollments
type EnrollmentListResponse struct {
	Enrollments    []EnrollmentResponse `json:"enrollments"`
	PaginationInfo PaginationInfo       `json:"pagination"`
}
