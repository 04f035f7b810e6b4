package bookings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Confirm(ctx context.Context, id, userID int64, at time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, id, userID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		TicketID:      11,
		PassengerName: "Ahmed Karim",
		PassportNo:    "BN0112233",
		PriceCents:    11000,
		PaymentType:   "full",
		CreatedBy:     7,
	}
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockRepo, mockProducer, "ticket-events")

	ctx := context.Background()
	input := validInput()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "ticket-events", mock.Anything, mock.Anything).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, input.TicketID, booking.TicketID)
	assert.Equal(t, domain.PaymentTypeFull, booking.PaymentType)
	assert.False(t, booking.ExpiresAt.IsZero())
	mockRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_ValidationErrors(t *testing.T) {
	service := NewBookingService(&MockBookingRepository{}, nil, "")
	ctx := context.Background()

	testCases := []struct {
		name   string
		mutate func(*CreateBookingInput)
	}{
		{"missing ticket id", func(in *CreateBookingInput) { in.TicketID = 0 }},
		{"missing passenger", func(in *CreateBookingInput) { in.PassengerName = "" }},
		{"negative price", func(in *CreateBookingInput) { in.PriceCents = -5 }},
		{"bad payment type", func(in *CreateBookingInput) { in.PaymentType = "credit" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			booking, err := service.CreateBooking(ctx, input)

			assert.Nil(t, booking)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestBookingService_CreateBooking_TicketConflict(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, "")

	ctx := context.Background()
	conflict := fmt.Errorf("book ticket 11 in status sold: %w", domain.ErrConflict)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(conflict).Once()

	booking, err := service.CreateBooking(ctx, validInput())

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrConflict)
	mockRepo.AssertExpectations(t)
}

func TestBookingService_ConfirmBooking(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockRepo, mockProducer, "ticket-events")

	ctx := context.Background()
	now := time.Now()
	confirmed := &domain.Booking{ID: 5, TicketID: 11, ConfirmedAt: &now}

	mockRepo.On("Confirm", ctx, int64(5), int64(7), mock.AnythingOfType("time.Time")).Return(confirmed, nil).Once()
	mockProducer.On("Publish", ctx, "ticket-events", "booking-5", mock.Anything).Return(nil).Once()

	booking, err := service.ConfirmBooking(ctx, 5, 7)

	assert.NoError(t, err)
	assert.NotNil(t, booking.ConfirmedAt)
	mockRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_ConfirmBooking_NotFound(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, "")

	ctx := context.Background()
	notFound := fmt.Errorf("booking 5: %w", domain.ErrNotFound)
	mockRepo.On("Confirm", ctx, int64(5), int64(7), mock.AnythingOfType("time.Time")).Return(nil, notFound).Once()

	booking, err := service.ConfirmBooking(ctx, 5, 7)

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingService_CancelBooking(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockRepo, mockProducer, "ticket-events")

	ctx := context.Background()
	existing := &domain.Booking{ID: 5, TicketID: 11}

	mockRepo.On("GetByID", ctx, int64(5)).Return(existing, nil).Once()
	mockRepo.On("Cancel", ctx, int64(5)).Return(nil).Once()
	mockProducer.On("Publish", ctx, "ticket-events", "booking-5", mock.Anything).Return(nil).Once()

	err := service.CancelBooking(ctx, 5)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_CancelBooking_NotFound(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, "")

	ctx := context.Background()
	notFound := fmt.Errorf("booking 5: %w", domain.ErrNotFound)
	mockRepo.On("GetByID", ctx, int64(5)).Return(nil, notFound).Once()

	err := service.CancelBooking(ctx, 5)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockRepo.AssertNotCalled(t, "Cancel")
}
