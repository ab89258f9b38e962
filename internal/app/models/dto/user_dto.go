package dto

import "time"

// UserResponse is the external shape of a user
type UserResponse struct {
	ID        int64     `json:"id" example:"1"`
	Email     string    `json:"email" example:"amine@formatech.tn"`
	FirstName string    `json:"firstName" example:"Amine"`
	LastName  string    `json:"lastName" example:"Trabelsi"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role" example:"LEARNER"`
	IsActive  bool      `json:"isActive" example:"true"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateProfileRequest is the payload for profile updates. Identity fields
// (email, role) are not part of it.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" binding:"omitempty,min=2,max=100"`
	LastName  *string `json:"lastName,omitempty" binding:"omitempty,min=2,max=100"`
	Phone     *string `json:"phone,omitempty"`
}

// UpdateRoleRequest is the admin-only payload for changing a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=LEARNER INSTRUCTOR COMPANY_REP ADMIN" example:"INSTRUCTOR"`
}

// SetActiveRequest is the admin-only payload for enabling or disabling an
// account. A pointer keeps "false" distinguishable from an absent field.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// UserListResponse is a paginated list of users
type UserListResponse struct {
	Users          []UserResponse `json:"users"`
	PaginationInfo PaginationInfo `json:"pagination"`
}
