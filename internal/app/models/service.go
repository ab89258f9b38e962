package models

import "time"

// Service defines a company's service catalog entry based on the
// 'services' table. Authority over a service derives from its company.
type Service struct {
	ID          int64     `json:"id" db:"id" example:"21"`
	CompanyID   int64     `json:"companyId" db:"company_id" example:"10"`
	Name        string    `json:"name" db:"name" example:"Mold maintenance"`
	Description *string   `json:"description,omitempty" db:"description"`
	Category    *string   `json:"category,omitempty" db:"category" example:"maintenance"`
	PriceRange  *string   `json:"priceRange,omitempty" db:"price_range" example:"500-2000 TND"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Company *Company `json:"company,omitempty"`
}
