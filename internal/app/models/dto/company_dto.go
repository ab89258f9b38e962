package dto

import "time"

// CreateCompanyRequest is the payload for creating a company.
// RepresentativeID is only honored for admins; company reps always become
// the representative of the company they create.
type CreateCompanyRequest struct {
	Name             string  `json:"name" binding:"required,min=2,max=200" example:"PlastiTech SARL"`
	Description      *string `json:"description,omitempty"`
	Address          *string `json:"address,omitempty"`
	City             *string `json:"city,omitempty" example:"Sfax"`
	Phone            *string `json:"phone,omitempty"`
	Email            *string `json:"email,omitempty" binding:"omitempty,email"`
	Website          *string `json:"website,omitempty"`
	RepresentativeID *int64  `json:"representativeId,omitempty" binding:"omitempty,gt=0"`
}

// UpdateCompanyRequest is the payload for partially updating a company
type UpdateCompanyRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=2,max=200"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	Website     *string `json:"website,omitempty"`
}

// CompanyResponse is the external shape of a company
type CompanyResponse struct {
	ID             int64         `json:"id" example:"10"`
	Name           string        `json:"name" example:"PlastiTech SARL"`
	Description    *string       `json:"description,omitempty"`
	Address        *string       `json:"address,omitempty"`
	City           *string       `json:"city,omitempty"`
	Phone          *string       `json:"phone,omitempty"`
	Email          *string       `json:"email,omitempty"`
	Website        *string       `json:"website,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	Representative *UserResponse `json:"representative,omitempty"`
}

// CompanyListResponse is a paginated list of companies
type CompanyListResponse struct {
	Companies      []CompanyResponse `json:"companies"`
	PaginationInfo PaginationInfo    `json:"pagination"`
}
