package dto

import "time"

// InitiatePaymentRequest starts a payment against exactly one of a course
// or an event.
type InitiatePaymentRequest struct {
	CourseID *int64 `json:"courseId,omitempty" binding:"omitempty,gt=0" example:"101"`
	EventID  *int64 `json:"eventId,omitempty" binding:"omitempty,gt=0"`
}

// VerifyPaymentRequest asks the gateway for the state of a pending payment
type VerifyPaymentRequest struct {
	Token string `json:"token" binding:"required"`
}

// PaymentResponse is the external shape of a payment
type PaymentResponse struct {
	ID                   int64      `json:"id" example:"401"`
	UserID               int64      `json:"userId" example:"12"`
	CourseID             *int64     `json:"courseId,omitempty"`
	EventID              *int64     `json:"eventId,omitempty"`
	Amount               float64    `json:"amount" example:"450.0"`
	Currency             string     `json:"currency" example:"TND"`
	Status               string     `json:"status" example:"PENDING"`
	TransactionReference string     `json:"transactionReference" example:"PT-1714643782113"`
	PaymentDate          *time.Time `json:"paymentDate,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// PaymentListResponse is a paginated list of payments
type PaymentListResponse struct {
	Payments       []PaymentResponse `json:"payments"`
	PaginationInfo PaginationInfo    `json:"pagination"`
}

// VerifyPaymentResponse reports the verified gateway state
type VerifyPaymentResponse struct {
	Status    string `json:"status" example:"COMPLETED"`
	Completed bool   `json:"completed" example:"true"`
}
