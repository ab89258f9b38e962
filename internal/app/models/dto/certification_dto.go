package dto

import "time"

// IssueCertificationRequest issues a certification to a user for a course
type IssueCertificationRequest struct {
	UserID     int64      `json:"userId" binding:"required,gt=0" example:"12"`
	CourseID   int64      `json:"courseId" binding:"required,gt=0" example:"101"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
}

// RenewCertificationRequest extends a certification's validity
type RenewCertificationRequest struct {
	ExpiryDate time.Time `json:"expiryDate" binding:"required"`
}

// CertificationResponse is the external shape of a certification
type CertificationResponse struct {
	ID         int64      `json:"id" example:"601"`
	UserID     int64      `json:"userId" example:"12"`
	CourseID   int64      `json:"courseId" example:"101"`
	Code       string     `json:"code" example:"CERT-9f1c2a8b"`
	IssueDate  time.Time  `json:"issueDate"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	Status     string     `json:"status" example:"ACTIVE"`
}

// CertificationVerifyResponse reports whether a certificate code is valid
type CertificationVerifyResponse struct {
	Valid         bool                   `json:"valid" example:"true"`
	Certification *CertificationResponse `json:"certification,omitempty"`
}

// CertificationListResponse is a paginated list of certifications
type CertificationListResponse struct {
	Certifications []CertificationResponse `json:"certifications"`
	PaginationInfo PaginationInfo          `json:"pagination"`
}
