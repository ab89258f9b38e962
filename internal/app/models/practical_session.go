package models

import "time"

// PracticalSession defines a scheduled hands-on session of a course, based
// on the 'practical_sessions' table. The conducting instructor must be one
// of the course's assigned instructors.
type PracticalSession struct {
	ID              int64     `json:"id" db:"id" example:"701"`
	CourseID        int64     `json:"courseId" db:"course_id" example:"101"`
	InstructorID    int64     `json:"instructorId" db:"instructor_id" example:"5"`
	Title           string    `json:"title" db:"title" example:"Injection press workshop"`
	Location        *string   `json:"location,omitempty" db:"location"`
	SessionDate     time.Time `json:"sessionDate" db:"session_date"`
	DurationMinutes *int      `json:"durationMinutes,omitempty" db:"duration_minutes" example:"180"`
	Capacity        *int      `json:"capacity,omitempty" db:"capacity" example:"15"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Instructor *Instructor `json:"instructor,omitempty"`
}
