package dto

import "time"

// CreateReviewRequest is the payload for reviewing a course
type CreateReviewRequest struct {
	CourseID int64   `json:"courseId" binding:"required,gt=0" example:"101"`
	Rating   int     `json:"rating" binding:"required,gte=1,lte=5" example:"4"`
	Comment  *string `json:"comment,omitempty"`
}

// UpdateReviewRequest is the payload for editing a review
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" binding:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment,omitempty"`
}

// ReviewResponse is the external shape of a review
type ReviewResponse struct {
	ID        int64         `json:"id" example:"501"`
	UserID    int64         `json:"userId" example:"12"`
	CourseID  int64         `json:"courseId" example:"101"`
	Rating    int           `json:"rating" example:"4"`
	Comment   *string       `json:"comment,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	User      *UserResponse `json:"user,omitempty"`
}

// ReviewListResponse is a paginated list of reviews
type ReviewListResponse struct {
	Reviews        []ReviewResponse `json:"reviews"`
	PaginationInfo PaginationInfo   `json:"pagination"`
}
