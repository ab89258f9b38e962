package models

import "time"

// CourseMode defines how a course is delivered
type CourseMode string

const (
	ModeOnline   CourseMode = "ONLINE"
	ModeInPerson CourseMode = "IN_PERSON"
	ModeHybrid   CourseMode = "HYBRID"
)

// Valid reports whether m is a known delivery mode.
func (m CourseMode) Valid() bool {
	switch m {
	case ModeOnline, ModeInPerson, ModeHybrid:
		return true
	}
	return false
}

// Course defines the course model based on the 'courses' table.
//
// The load contract for mutation paths is that Instructors is always
// populated: the ownership checks and the last-instructor rule both read
// the current membership set, so a course fetched for mutation must carry it.
type Course struct {
	ID                    int64      `json:"id" db:"id" example:"101"`
	Title                 string     `json:"title" db:"title" example:"Extrusion Fundamentals"`
	Description           *string    `json:"description,omitempty" db:"description"`
	Category              *string    `json:"category,omitempty" db:"category" example:"plastics"`
	Price                 float64    `json:"price" db:"price" example:"450.0"`
	DurationHours         *int       `json:"durationHours,omitempty" db:"duration_hours" example:"24"`
	Mode                  CourseMode `json:"mode" db:"mode" example:"HYBRID"`
	CertificationEligible bool       `json:"certificationEligible" db:"certification_eligible" example:"true"`
	ImageFileID           *int64     `json:"imageFileId,omitempty" db:"image_file_id"`
	CreatedAt             time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time  `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Instructors []*Instructor `json:"instructors,omitempty"`
	Modules     []*Module     `json:"modules,omitempty"`
}

// HasInstructor reports whether the instructor with the given ID is a member
// of the course's instructor set.
func (c *Course) HasInstructor(instructorID int64) bool {
	for _, ins := range c.Instructors {
		if ins.ID == instructorID {
			return true
		}
	}
	return false
}
