package models

import "time"

// EnrollmentStatus tracks an enrollment's lifecycle
type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "PENDING"
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentCancelled EnrollmentStatus = "CANCELLED"
)

// Enrollment links a user to a course, based on the 'enrollments' table.
// A user may hold at most one enrollment per course.
type Enrollment struct {
	ID             int64            `json:"id" db:"id" example:"301"`
	UserID         int64            `json:"userId" db:"user_id" example:"12"`
	CourseID       int64            `json:"courseId" db:"course_id" example:"101"`
	PaymentID      *int64           `json:"paymentId,omitempty" db:"payment_id"`
	Status         EnrollmentStatus `json:"status" db:"status" example:"ACTIVE"`
	EnrollmentDate time.Time        `json:"enrollmentDate" db:"enrollment_date"`
	CompletionDate *time.Time       `json:"completionDate,omitempty" db:"completion_date"`

	// Relations (populated when needed)
	User   *User   `json:"user,omitempty"`
	Course *Course `json:"course,omitempty"`
}
