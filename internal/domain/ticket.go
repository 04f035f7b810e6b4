package domain

import "time"

type TicketStatus string

const (
	TicketStatusAvailable TicketStatus = "available"
	TicketStatusLocked    TicketStatus = "locked"
	TicketStatusBooked    TicketStatus = "booked"
	TicketStatusSold      TicketStatus = "sold"
	TicketStatusCancelled TicketStatus = "cancelled"
)

type Ticket struct {
	ID            int64
	BatchID       int64
	Status        TicketStatus
	PriceCents    int64
	PassengerName string
	PassportNo    string
	LockedBy      *int64
	LockedUntil   *time.Time
	BookingID     *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanTransition reports whether moving a ticket from its current status to
// next is a legal lifecycle step. Cancellation is administrative and allowed
// from any non-cancelled state.
func (t *Ticket) CanTransition(next TicketStatus) bool {
	if next == TicketStatusCancelled {
		return t.Status != TicketStatusCancelled
	}
	switch t.Status {
	case TicketStatusAvailable:
		return next == TicketStatusLocked || next == TicketStatusBooked
	case TicketStatusLocked:
		return next == TicketStatusAvailable || next == TicketStatusBooked
	case TicketStatusBooked:
		return next == TicketStatusSold || next == TicketStatusAvailable
	default:
		return false
	}
}

func ValidTicketStatus(s string) bool {
	switch TicketStatus(s) {
	case TicketStatusAvailable, TicketStatusLocked, TicketStatusBooked, TicketStatusSold, TicketStatusCancelled:
		return true
	}
	return false
}
