package apperrors

import "errors"

// The four error categories the core surfaces. Every service error wraps one
// of these so the HTTP boundary can pick a status without reading message
// text: ErrResourceNotFound -> 404, ErrPermissionDenied -> 403,
// ErrStructuralConflict -> 409, ErrValidationFailed -> 400.
var (
	ErrResourceNotFound   = errors.New("resource not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrStructuralConflict = errors.New("structural conflict")
	ErrValidationFailed   = errors.New("validation failed")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// Entity not-found errors. Wrapped with NotFound so they match the
// ErrResourceNotFound category as well.
var (
	ErrUserNotFound             = errors.New("user not found")
	ErrEmailAlreadyExists       = errors.New("email already exists")
	ErrInstructorNotFound       = errors.New("instructor not found")
	ErrCourseNotFound           = errors.New("course not found")
	ErrCompanyNotFound          = errors.New("company not found")
	ErrEventNotFound            = errors.New("event not found")
	ErrServiceNotFound          = errors.New("service not found")
	ErrModuleNotFound           = errors.New("module not found")
	ErrEnrollmentNotFound       = errors.New("enrollment not found")
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrReviewNotFound           = errors.New("review not found")
	ErrCertificationNotFound    = errors.New("certification not found")
	ErrPracticalSessionNotFound = errors.New("practical session not found")
	ErrFileNotFound             = errors.New("file not found")
)

// Structural conflicts: the caller was authorized but the requested state
// transition violates a domain invariant. Wrapped with Structural so they
// also match ErrStructuralConflict.
var (
	ErrLastInstructor       = errors.New("course must keep at least one instructor")
	ErrAlreadyEnrolled      = errors.New("user is already enrolled in this course")
	ErrAlreadyRegistered    = errors.New("user is already registered for this event")
	ErrAlreadyReviewed      = errors.New("user has already reviewed this course")
	ErrAlreadyCertified     = errors.New("user already holds a certification for this course")
	ErrEventFull            = errors.New("event has reached its participant limit")
	ErrRegistrationClosed   = errors.New("event registration is closed")
	ErrNotEligible          = errors.New("course is not eligible for certification")
	ErrCertificationRevoked = errors.New("certification is revoked")
	ErrPaymentNotRefundable = errors.New("only completed payments can be refunded")
	ErrAlreadyInstructor    = errors.New("user already has an instructor profile")
)

// categorized ties a specific sentinel to its category sentinel so that
// errors.Is matches both, e.g. both ErrLastInstructor and
// ErrStructuralConflict hold for a last-instructor rejection.
type categorized struct {
	err      error
	category error
}

func (c categorized) Error() string   { return c.err.Error() }
func (c categorized) Unwrap() []error { return []error{c.err, c.category} }

// Structural wraps a conflict sentinel into the StructuralConflict category.
func Structural(err error) error {
	return categorized{err: err, category: ErrStructuralConflict}
}

// NotFound wraps an entity sentinel into the NotFound category.
func NotFound(err error) error {
	return categorized{err: err, category: ErrResourceNotFound}
}

// Denied wraps a reason into the PermissionDenied category.
func Denied(err error) error {
	return categorized{err: err, category: ErrPermissionDenied}
}

// IsNotFound reports whether err belongs to the NotFound category.
func IsNotFound(err error) bool { return errors.Is(err, ErrResourceNotFound) }

// IsPermissionDenied reports whether err belongs to the PermissionDenied category.
func IsPermissionDenied(err error) bool { return errors.Is(err, ErrPermissionDenied) }

// IsStructuralConflict reports whether err belongs to the StructuralConflict category.
func IsStructuralConflict(err error) bool { return errors.Is(err, ErrStructuralConflict) }

// IsValidation reports whether err belongs to the ValidationError category.
func IsValidation(err error) bool { return errors.Is(err, ErrValidationFailed) }

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with an underlying sentinel
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
