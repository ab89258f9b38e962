package dto

import "time"

// CreateInstructorRequest links an existing user as an instructor (admin only)
type CreateInstructorRequest struct {
	UserID    int64   `json:"userId" binding:"required,gt=0" example:"12"`
	Bio       *string `json:"bio,omitempty"`
	Expertise *string `json:"expertise,omitempty" example:"Injection molding"`
}

// UpdateInstructorRequest updates an instructor's profile fields
type UpdateInstructorRequest struct {
	Bio       *string `json:"bio,omitempty"`
	Expertise *string `json:"expertise,omitempty"`
}

// InstructorResponse is the external shape of an instructor
type InstructorResponse struct {
	ID        int64         `json:"id" example:"5"`
	UserID    int64         `json:"userId" example:"12"`
	Bio       *string       `json:"bio,omitempty"`
	Expertise *string       `json:"expertise,omitempty"`
	Rating    *float64      `json:"rating,omitempty" example:"4.5"`
	CreatedAt time.Time     `json:"createdAt"`
	User      *UserResponse `json:"user,omitempty"`
}

// InstructorListResponse is a paginated list of instructors
type InstructorListResponse struct {
	Instructors    []InstructorResponse `json:"instructors"`
	PaginationInfo PaginationInfo       `json:"pagination"`
}
