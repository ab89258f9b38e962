package models

import (
	"time"
)

// Role defines the single role a user holds. The set is closed: every
// authorization decision in the system derives from one of these four values.
type Role string

const (
	RoleLearner    Role = "LEARNER"
	RoleInstructor Role = "INSTRUCTOR"
	RoleCompanyRep Role = "COMPANY_REP"
	RoleAdmin      Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleLearner, RoleInstructor, RoleCompanyRep, RoleAdmin:
		return true
	}
	return false
}

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Email     string    `json:"email" db:"email" example:"user@formatech.tn"`             // User's email address
	Password  string    `json:"-" db:"password"`                                          // User's hashed password (excluded from JSON)
	FirstName string    `json:"firstName" db:"first_name" example:"Amine"`                // User's first name
	LastName  string    `json:"lastName" db:"last_name" example:"Trabelsi"`               // User's last name
	Phone     *string   `json:"phone,omitempty" db:"phone" example:"+216 20 123 456"`     // Phone number (nullable)
	Role      Role      `json:"role" db:"role" example:"LEARNER"`                         // User's single role
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`                   // Whether the user account is active
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the user was created
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"` // Timestamp when the user was last updated
}
