package models

import "time"

// Review defines the review model based on the 'reviews' table.
// Only the author or an admin may change a review after creation.
type Review struct {
	ID        int64     `json:"id" db:"id" example:"501"`
	UserID    int64     `json:"userId" db:"user_id" example:"12"`
	CourseID  int64     `json:"courseId" db:"course_id" example:"101"`
	Rating    int       `json:"rating" db:"rating" example:"4"`
	Comment   *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	User *User `json:"user,omitempty"`
}
