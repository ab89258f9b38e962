package models

import "time"

// CertificationStatus tracks a certification's validity
type CertificationStatus string

const (
	CertificationActive  CertificationStatus = "ACTIVE"
	CertificationExpired CertificationStatus = "EXPIRED"
	CertificationRevoked CertificationStatus = "REVOKED"
)

// Valid reports whether s is a known certification status.
func (s CertificationStatus) Valid() bool {
	switch s {
	case CertificationActive, CertificationExpired, CertificationRevoked:
		return true
	}
	return false
}

// Certification defines the certification model based on the
// 'certifications' table. One certification per user and course.
type Certification struct {
	ID         int64               `json:"id" db:"id" example:"601"`
	UserID     int64               `json:"userId" db:"user_id" example:"12"`
	CourseID   int64               `json:"courseId" db:"course_id" example:"101"`
	Code       string              `json:"code" db:"code" example:"CERT-9f1c2a8b"`
	IssueDate  time.Time           `json:"issueDate" db:"issue_date"`
	ExpiryDate *time.Time          `json:"expiryDate,omitempty" db:"expiry_date"`
	Status     CertificationStatus `json:"status" db:"status" example:"ACTIVE"`
	CreatedAt  time.Time           `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	User   *User   `json:"user,omitempty"`
	Course *Course `json:"course,omitempty"`
}
