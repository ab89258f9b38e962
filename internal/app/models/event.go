package models

import "time"

// Event defines the event model based on the 'events' table.
// An event belongs to one company; mutation authority derives from the
// company's representative.
type Event struct {
	ID                   int64      `json:"id" db:"id" example:"31"`
	CompanyID            int64      `json:"companyId" db:"company_id" example:"10"`
	Title                string     `json:"title" db:"title" example:"Open factory day"`
	Description          *string    `json:"description,omitempty" db:"description"`
	Location             *string    `json:"location,omitempty" db:"location" example:"Sousse"`
	EventDate            time.Time  `json:"eventDate" db:"event_date"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty" db:"registration_deadline"`
	Price                float64    `json:"price" db:"price" example:"30.0"`
	MaxParticipants      *int       `json:"maxParticipants,omitempty" db:"max_participants" example:"50"`
	CurrentParticipants  int        `json:"currentParticipants" db:"current_participants" example:"12"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Company *Company `json:"company,omitempty"`
}

// IsFull reports whether the event has reached its participant limit.
// Events without a limit are never full.
func (e *Event) IsFull() bool {
	return e.MaxParticipants != nil && e.CurrentParticipants >= *e.MaxParticipants
}

// RegistrationClosed reports whether the registration deadline has passed
// at the given instant. Events without a deadline stay open until the event date.
func (e *Event) RegistrationClosed(now time.Time) bool {
	if e.RegistrationDeadline != nil {
		return now.After(*e.RegistrationDeadline)
	}
	return now.After(e.EventDate)
}

// EventRegistration links a user to an event, based on the
// 'event_registrations' table.
type EventRegistration struct {
	ID           int64     `json:"id" db:"id"`
	EventID      int64     `json:"eventId" db:"event_id"`
	UserID       int64     `json:"userId" db:"user_id"`
	PaymentID    *int64    `json:"paymentId,omitempty" db:"payment_id"`
	RegisteredAt time.Time `json:"registeredAt" db:"registered_at"`
}
