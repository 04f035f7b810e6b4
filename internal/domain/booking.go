package domain

import "time"

type PaymentType string

const (
	PaymentTypeFull    PaymentType = "full"
	PaymentTypePartial PaymentType = "partial"
)

type Booking struct {
	ID            int64
	TicketID      int64
	PassengerName string
	PassportNo    string
	AgentName     string
	AgentPhone    string
	PriceCents    int64
	PaymentType   PaymentType
	Comments      string
	CreatedBy     int64
	CreatedAt     time.Time
	ConfirmedAt   *time.Time
	ExpiresAt     time.Time
}

func ValidPaymentType(s string) bool {
	return PaymentType(s) == PaymentTypeFull || PaymentType(s) == PaymentTypePartial
}
