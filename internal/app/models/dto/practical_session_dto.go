package dto

import "time"

// CreatePracticalSessionRequest schedules a hands-on session for a course.
// The conducting instructor must belong to the course's instructor set.
type CreatePracticalSessionRequest struct {
	CourseID        int64     `json:"courseId" binding:"required,gt=0" example:"101"`
	InstructorID    int64     `json:"instructorId" binding:"required,gt=0" example:"5"`
	Title           string    `json:"title" binding:"required,min=3,max=200" example:"Injection press workshop"`
	Location        *string   `json:"location,omitempty"`
	SessionDate     time.Time `json:"sessionDate" binding:"required"`
	DurationMinutes *int      `json:"durationMinutes,omitempty" binding:"omitempty,gt=0"`
	Capacity        *int      `json:"capacity,omitempty" binding:"omitempty,gt=0"`
}

// UpdatePracticalSessionRequest is the payload for partially updating a session
type UpdatePracticalSessionRequest struct {
	InstructorID    *int64     `json:"instructorId,omitempty" binding:"omitempty,gt=0"`
	Title           *string    `json:"title,omitempty" binding:"omitempty,min=3,max=200"`
	Location        *string    `json:"location,omitempty"`
	SessionDate     *time.Time `json:"sessionDate,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty" binding:"omitempty,gt=0"`
	Capacity        *int       `json:"capacity,omitempty" binding:"omitempty,gt=0"`
}

// PracticalSessionResponse is the external shape of a practical session
type PracticalSessionResponse struct {
	ID              int64     `json:"id" example:"701"`
	CourseID        int64     `json:"courseId" example:"101"`
	InstructorID    int64     `json:"instructorId" example:"5"`
	Title           string    `json:"title"`
	Location        *string   `json:"location,omitempty"`
	SessionDate     time.Time `json:"sessionDate"`
	DurationMinutes *int      `json:"durationMinutes,omitempty"`
	Capacity        *int      `json:"capacity,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
