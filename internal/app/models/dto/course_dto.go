package dto

import "time"

// CreateCourseRequest is the payload for creating a course
type CreateCourseRequest struct {
	Title                 string  `json:"title" binding:"required,min=3,max=200" example:"Extrusion Fundamentals"`
	Description           *string `json:"description,omitempty"`
	Category              *string `json:"category,omitempty" example:"plastics"`
	Price                 float64 `json:"price" binding:"gte=0" example:"450.0"`
	DurationHours         *int    `json:"durationHours,omitempty" binding:"omitempty,gt=0" example:"24"`
	Mode                  string  `json:"mode" binding:"required,oneof=ONLINE IN_PERSON HYBRID" example:"HYBRID"`
	CertificationEligible bool    `json:"certificationEligible" example:"true"`
}

// UpdateCourseRequest is the payload for partially updating a course
type UpdateCourseRequest struct {
	Title                 *string  `json:"title,omitempty" binding:"omitempty,min=3,max=200"`
	Description           *string  `json:"description,omitempty"`
	Category              *string  `json:"category,omitempty"`
	Price                 *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	DurationHours         *int     `json:"durationHours,omitempty" binding:"omitempty,gt=0"`
	Mode                  *string  `json:"mode,omitempty" binding:"omitempty,oneof=ONLINE IN_PERSON HYBRID"`
	CertificationEligible *bool    `json:"certificationEligible,omitempty"`
}

// SetInstructorsRequest replaces a course's instructor set (admin only)
type SetInstructorsRequest struct {
	InstructorIDs []int64 `json:"instructorIds" binding:"required"`
}

// CourseFilterRequest carries list filters for courses
type CourseFilterRequest struct {
	Category     *string  `form:"category"`
	Mode         *string  `form:"mode" binding:"omitempty,oneof=ONLINE IN_PERSON HYBRID"`
	Search       *string  `form:"search"`
	MinPrice     *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice     *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	InstructorID *int64   `form:"instructorId" binding:"omitempty,gt=0"`
	Page         int      `form:"page,default=1"`
	PageSize     int      `form:"size,default=10"`
}

// CourseResponse is the external shape of a course
type CourseResponse struct {
	ID                    int64                `json:"id" example:"101"`
	Title                 string               `json:"title" example:"Extrusion Fundamentals"`
	Description           *string              `json:"description,omitempty"`
	Category              *string              `json:"category,omitempty"`
	Price                 float64              `json:"price" example:"450.0"`
	DurationHours         *int                 `json:"durationHours,omitempty"`
	Mode                  string               `json:"mode" example:"HYBRID"`
	CertificationEligible bool                 `json:"certificationEligible"`
	ImageFileID           *int64               `json:"imageFileId,omitempty"`
	CreatedAt             time.Time            `json:"createdAt"`
	Instructors           []InstructorResponse `json:"instructors,omitempty"`
	Modules               []ModuleResponse     `json:"modules,omitempty"`
}

// CourseListResponse is a paginated list of courses
type CourseListResponse struct {
	Courses        []CourseResponse `json:"courses"`
	PaginationInfo PaginationInfo   `json:"pagination"`
}
