package models

import "time"

// PaymentStatus mirrors the gateway's payment states
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Payment defines the payment model based on the 'payments' table.
// A payment targets exactly one of a course or an event.
type Payment struct {
	ID                   int64         `json:"id" db:"id" example:"401"`
	UserID               int64         `json:"userId" db:"user_id" example:"12"`
	CourseID             *int64        `json:"courseId,omitempty" db:"course_id"`
	EventID              *int64        `json:"eventId,omitempty" db:"event_id"`
	Amount               float64       `json:"amount" db:"amount" example:"450.0"`
	Currency             string        `json:"currency" db:"currency" example:"TND"`
	Status               PaymentStatus `json:"status" db:"status" example:"PENDING"`
	GatewayToken         *string       `json:"-" db:"gateway_token"`
	TransactionReference string        `json:"transactionReference" db:"transaction_reference" example:"PT-1714643782113"`
	PaymentDate          *time.Time    `json:"paymentDate,omitempty" db:"payment_date"`
	CreatedAt            time.Time     `json:"createdAt" db:"created_at"`
}
