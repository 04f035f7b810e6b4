package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/skyfare/ticketdesk/internal/repository"
	"github.com/skyfare/ticketdesk/internal/service/batches"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBatchUseCase struct {
	mock.Mock
}

func (m *MockBatchUseCase) IssueBatch(ctx context.Context, input batches.IssueBatchInput) (*domain.TicketBatch, []domain.Ticket, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.TicketBatch), args.Get(1).([]domain.Ticket), args.Error(2)
}

func (m *MockBatchUseCase) GetBatch(ctx context.Context, id int64) (*domain.TicketBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketBatch), args.Error(1)
}

func (m *MockBatchUseCase) ListBatches(ctx context.Context, filter repository.BatchFilter) ([]domain.TicketBatch, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.TicketBatch), args.Error(1)
}

func managerUser() *domain.User {
	return &domain.User{ID: 2, Email: "manager@example.com", Role: domain.UserRoleManager, Status: domain.UserStatusActive}
}

func TestBatchHandler_create(t *testing.T) {
	mockService := &MockBatchUseCase{}
	handler := NewBatchHandler(mockService)

	c, w := testContext(t, managerUser())
	req := createBatchRequest{
		Country:          "SA",
		AirlineID:        1,
		FlightDate:       "2026-10-01",
		FlightTime:       "14:30",
		BuyingPriceCents: 10000,
		Quantity:         5,
	}
	body, _ := json.Marshal(req)
	c.Request = httptest.NewRequest("POST", "/batches", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	batch := &domain.TicketBatch{
		ID:               1,
		CountryCode:      "SA",
		AirlineID:        1,
		FlightDate:       time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		BuyingPriceCents: 10000,
		Quantity:         5,
		PackageType:      domain.PackageTypeRegular,
		CreatedBy:        2,
	}
	tickets := make([]domain.Ticket, 5)
	for i := range tickets {
		tickets[i] = domain.Ticket{ID: int64(i + 1), BatchID: 1, Status: domain.TicketStatusAvailable, PriceCents: 11000}
	}

	mockService.On("IssueBatch", c.Request.Context(), mock.MatchedBy(func(in batches.IssueBatchInput) bool {
		return in.Quantity == 5 && in.CreatedBy == 2 && in.CountryCode == "SA"
	})).Return(batch, tickets, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response createBatchResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 5, response.Batch.Quantity)
	assert.Len(t, response.Tickets, 5)
	for _, ticket := range response.Tickets {
		assert.Equal(t, "available", ticket.Status)
		assert.Equal(t, int64(11000), ticket.PriceCents)
	}
	mockService.AssertExpectations(t)
}

func TestBatchHandler_create_BadFlightDate(t *testing.T) {
	handler := NewBatchHandler(&MockBatchUseCase{})

	c, w := testContext(t, managerUser())
	body, _ := json.Marshal(createBatchRequest{Country: "SA", AirlineID: 1, FlightDate: "01/10/2026", Quantity: 5})
	c.Request = httptest.NewRequest("POST", "/batches", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchHandler_create_ValidationError(t *testing.T) {
	mockService := &MockBatchUseCase{}
	handler := NewBatchHandler(mockService)

	c, w := testContext(t, managerUser())
	body, _ := json.Marshal(createBatchRequest{Country: "SA", AirlineID: 1, FlightDate: "2026-10-01", Quantity: 0})
	c.Request = httptest.NewRequest("POST", "/batches", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	invalid := fmt.Errorf("quantity must be at least 1: %w", domain.ErrValidation)
	mockService.On("IssueBatch", c.Request.Context(), mock.Anything).Return(nil, nil, invalid)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchHandler_list(t *testing.T) {
	mockService := &MockBatchUseCase{}
	handler := NewBatchHandler(mockService)

	c, w := testContext(t, staffUser())
	c.Request = httptest.NewRequest("GET", "/batches?country=SA&limit=10&offset=20", nil)

	mockService.On("ListBatches", c.Request.Context(), repository.BatchFilter{
		CountryCode: "SA",
		Limit:       10,
		Offset:      20,
	}).Return([]domain.TicketBatch{{ID: 1, CountryCode: "SA", Quantity: 5}}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"batches"`)
	mockService.AssertExpectations(t)
}
