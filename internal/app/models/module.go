package models

import "time"

// Module defines a course content unit based on the 'modules' table.
// A module may carry one attachment (PDF or video) stored as a File row.
type Module struct {
	ID          int64     `json:"id" db:"id" example:"201"`
	CourseID    int64     `json:"courseId" db:"course_id" example:"101"`
	Title       string    `json:"title" db:"title" example:"Polymer basics"`
	Description *string   `json:"description,omitempty" db:"description"`
	Position    int       `json:"position" db:"position" example:"1"`
	FileID      *int64    `json:"fileId,omitempty" db:"file_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	File *File `json:"file,omitempty"`
}
