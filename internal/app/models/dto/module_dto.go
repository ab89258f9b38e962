package dto

import "time"

// CreateModuleRequest adds a content module to a course
type CreateModuleRequest struct {
	Title       string  `json:"title" binding:"required,min=2,max=200" example:"Polymer basics"`
	Description *string `json:"description,omitempty"`
	Position    int     `json:"position" binding:"gte=0" example:"1"`
}

// UpdateModuleRequest is the payload for partially updating a module
type UpdateModuleRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,min=2,max=200"`
	Description *string `json:"description,omitempty"`
	Position    *int    `json:"position,omitempty" binding:"omitempty,gte=0"`
}

// ModuleResponse is the external shape of a course module
type ModuleResponse struct {
	ID          int64     `json:"id" example:"201"`
	CourseID    int64     `json:"courseId" example:"101"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Position    int       `json:"position" example:"1"`
	FileID      *int64    `json:"fileId,omitempty"`
	FileURL     *string   `json:"fileUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
