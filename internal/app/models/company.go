package models

import "time"

// Company defines the company model based on the 'companies' table.
// Exactly one user represents a company; mutation authority over the
// company and everything it owns (services, events) belongs to that
// representative or to an admin.
//
// Load contract: RepresentativeID is always present on a loaded company;
// the Representative relation is populated by GetByID.
type Company struct {
	ID               int64     `json:"id" db:"id" example:"10"`
	Name             string    `json:"name" db:"name" example:"PlastiTech SARL"`
	Description      *string   `json:"description,omitempty" db:"description"`
	Address          *string   `json:"address,omitempty" db:"address"`
	City             *string   `json:"city,omitempty" db:"city" example:"Sfax"`
	Phone            *string   `json:"phone,omitempty" db:"phone"`
	Email            *string   `json:"email,omitempty" db:"email"`
	Website          *string   `json:"website,omitempty" db:"website"`
	RepresentativeID int64     `json:"representativeId" db:"representative_user_id" example:"7"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Representative *User      `json:"representative,omitempty"`
	Services       []*Service `json:"services,omitempty"`
}
