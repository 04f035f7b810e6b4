package bookings

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/skyfare/ticketdesk/internal/kafka"
	"github.com/skyfare/ticketdesk/internal/repository"
)

const defaultExpiry = 72 * time.Hour

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, id, userID int64) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	TicketID      int64
	PassengerName string
	PassportNo    string
	AgentName     string
	AgentPhone    string
	PriceCents    int64
	PaymentType   string
	Comments      string
	ExpiresAt     time.Time
	CreatedBy     int64
}

type BookingService struct {
	bookings repository.BookingRepository
	producer Producer
	topic    string
}

func NewBookingService(bookings repository.BookingRepository, producer Producer, topic string) *BookingService {
	return &BookingService{bookings: bookings, producer: producer, topic: topic}
}

// CreateBooking converts an available ticket, or one locked by the caller,
// into a booked ticket with a booking row. The ticket claim and the booking
// insert commit together.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.TicketID <= 0 {
		return nil, fmt.Errorf("ticket id is required: %w", domain.ErrValidation)
	}
	if input.PassengerName == "" {
		return nil, fmt.Errorf("passenger name is required: %w", domain.ErrValidation)
	}
	if input.PriceCents < 0 {
		return nil, fmt.Errorf("price must not be negative: %w", domain.ErrValidation)
	}
	if !domain.ValidPaymentType(input.PaymentType) {
		return nil, fmt.Errorf("payment type must be full or partial: %w", domain.ErrValidation)
	}
	expiresAt := input.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(defaultExpiry)
	}

	booking := &domain.Booking{
		TicketID:      input.TicketID,
		PassengerName: input.PassengerName,
		PassportNo:    input.PassportNo,
		AgentName:     input.AgentName,
		AgentPhone:    input.AgentPhone,
		PriceCents:    input.PriceCents,
		PaymentType:   domain.PaymentType(input.PaymentType),
		Comments:      input.Comments,
		CreatedBy:     input.CreatedBy,
		ExpiresAt:     expiresAt,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking, input.CreatedBy)
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// ConfirmBooking records payment confirmation and moves the underlying
// ticket from booked to sold.
func (s *BookingService) ConfirmBooking(ctx context.Context, id, userID int64) (*domain.Booking, error) {
	booking, err := s.bookings.Confirm(ctx, id, userID, time.Now())
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_confirmed", booking, userID)
	return booking, nil
}

// CancelBooking deletes the booking and releases the ticket back to
// available so it can be sold again.
func (s *BookingService) CancelBooking(ctx context.Context, id int64) error {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bookings.Cancel(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, "booking_cancelled", booking, 0)
	return nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking, userID int64) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.TicketEvent{
		Type:      eventType,
		TicketID:  b.TicketID,
		BookingID: b.ID,
		UserID:    userID,
		At:        time.Now(),
	}
	if err := s.producer.Publish(ctx, s.topic, fmt.Sprintf("booking-%d", b.ID), event); err != nil {
		log.Printf("publish %s for booking %d: %v", eventType, b.ID, err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
