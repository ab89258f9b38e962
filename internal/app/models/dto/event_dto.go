package dto

import "time"

// CreateEventRequest is the payload for creating an event under a company
type CreateEventRequest struct {
	CompanyID            int64      `json:"companyId" binding:"required,gt=0" example:"10"`
	Title                string     `json:"title" binding:"required,min=3,max=200" example:"Open factory day"`
	Description          *string    `json:"description,omitempty"`
	Location             *string    `json:"location,omitempty" example:"Sousse"`
	EventDate            time.Time  `json:"eventDate" binding:"required"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty"`
	Price                float64    `json:"price" binding:"gte=0" example:"30.0"`
	MaxParticipants      *int       `json:"maxParticipants,omitempty" binding:"omitempty,gt=0"`
}

// UpdateEventRequest is the payload for partially updating an event
type UpdateEventRequest struct {
	Title                *string    `json:"title,omitempty" binding:"omitempty,min=3,max=200"`
	Description          *string    `json:"description,omitempty"`
	Location             *string    `json:"location,omitempty"`
	EventDate            *time.Time `json:"eventDate,omitempty"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty"`
	Price                *float64   `json:"price,omitempty" binding:"omitempty,gte=0"`
	MaxParticipants      *int       `json:"maxParticipants,omitempty" binding:"omitempty,gt=0"`
}

// EventResponse is the external shape of an event
type EventResponse struct {
	ID                   int64      `json:"id" example:"31"`
	CompanyID            int64      `json:"companyId" example:"10"`
	Title                string     `json:"title"`
	Description          *string    `json:"description,omitempty"`
	Location             *string    `json:"location,omitempty"`
	EventDate            time.Time  `json:"eventDate"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty"`
	Price                float64    `json:"price"`
	MaxParticipants      *int       `json:"maxParticipants,omitempty"`
	CurrentParticipants  int        `json:"currentParticipants"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// EventListResponse is a paginated list of events
type EventListResponse struct {
	Events         []EventResponse `json:"events"`
	PaginationInfo PaginationInfo  `json:"pagination"`
}

// EventRegistrationResponse is the external shape of an event registration
type EventRegistrationResponse struct {
	ID           int64     `json:"id"`
	EventID      int64     `json:"eventId"`
	UserID       int64     `json:"userId"`
	PaymentID    *int64    `json:"paymentId,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
}
