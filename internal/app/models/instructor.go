package models

import "time"

// Instructor defines the instructor model based on the 'instructors' table.
// An instructor is a linking entity: it connects a User to authority over
// the courses it is assigned to.
type Instructor struct {
	ID        int64     `json:"id" db:"id" example:"5"`
	UserID    int64     `json:"userId" db:"user_id" example:"12"`
	Bio       *string   `json:"bio,omitempty" db:"bio"`
	Expertise *string   `json:"expertise,omitempty" db:"expertise" example:"Injection molding"`
	Rating    *float64  `json:"rating,omitempty" db:"rating" example:"4.5"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	User    *User     `json:"user,omitempty"`
	Courses []*Course `json:"courses,omitempty"`
}
