package dto

import "time"

// CreateServiceRequest is the payload for creating a company service entry
type CreateServiceRequest struct {
	CompanyID   int64   `json:"companyId" binding:"required,gt=0" example:"10"`
	Name        string  `json:"name" binding:"required,min=2,max=200" example:"Mold maintenance"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty" example:"maintenance"`
	PriceRange  *string `json:"priceRange,omitempty" example:"500-2000 TND"`
}

// UpdateServiceRequest is the payload for partially updating a service entry
type UpdateServiceRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=2,max=200"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	PriceRange  *string `json:"priceRange,omitempty"`
}

// ServiceResponse is the external shape of a company service entry
type ServiceResponse struct {
	ID          int64     `json:"id" example:"21"`
	CompanyID   int64     `json:"companyId" example:"10"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	PriceRange  *string   `json:"priceRange,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ServiceListResponse is a paginated list of services
type ServiceListResponse struct {
	Services       []ServiceResponse `json:"services"`
	PaginationInfo PaginationInfo    `json:"pagination"`
}
