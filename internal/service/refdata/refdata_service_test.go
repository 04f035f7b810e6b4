package refdata

import (
	"context"
	"errors"
	"testing"

	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRefDataRepository struct {
	mock.Mock
}

func (m *MockRefDataRepository) ListCountries(ctx context.Context) ([]domain.Country, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Country), args.Error(1)
}

func (m *MockRefDataRepository) ListAirlines(ctx context.Context) ([]domain.Airline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Airline), args.Error(1)
}

func (m *MockRefDataRepository) CountryExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRefDataRepository) AirlineExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetCountries(ctx context.Context) ([]domain.Country, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Country), args.Error(1)
}

func (m *MockCache) SetCountries(ctx context.Context, countries []domain.Country) error {
	args := m.Called(ctx, countries)
	return args.Error(0)
}

func (m *MockCache) GetAirlines(ctx context.Context) ([]domain.Airline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Airline), args.Error(1)
}

func (m *MockCache) SetAirlines(ctx context.Context, airlines []domain.Airline) error {
	args := m.Called(ctx, airlines)
	return args.Error(0)
}

func TestRefDataService_ListCountries_CacheHit(t *testing.T) {
	mockRepo := &MockRefDataRepository{}
	mockCache := &MockCache{}
	service := NewRefDataService(mockRepo, mockCache)

	ctx := context.Background()
	cached := []domain.Country{{Code: "SA", Name: "Saudi Arabia"}}
	mockCache.On("GetCountries", ctx).Return(cached, nil).Once()

	countries, err := service.ListCountries(ctx)

	assert.NoError(t, err)
	assert.Equal(t, cached, countries)
	mockRepo.AssertNotCalled(t, "ListCountries")
}

func TestRefDataService_ListCountries_CacheMiss(t *testing.T) {
	mockRepo := &MockRefDataRepository{}
	mockCache := &MockCache{}
	service := NewRefDataService(mockRepo, mockCache)

	ctx := context.Background()
	fromDB := []domain.Country{{Code: "SA", Name: "Saudi Arabia"}, {Code: "AE", Name: "United Arab Emirates"}}
	mockCache.On("GetCountries", ctx).Return(nil, nil).Once()
	mockRepo.On("ListCountries", ctx).Return(fromDB, nil).Once()
	mockCache.On("SetCountries", ctx, fromDB).Return(nil).Once()

	countries, err := service.ListCountries(ctx)

	assert.NoError(t, err)
	assert.Len(t, countries, 2)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestRefDataService_ListAirlines_RepoError(t *testing.T) {
	mockRepo := &MockRefDataRepository{}
	service := NewRefDataService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("ListAirlines", ctx).Return(nil, errors.New("db down")).Once()

	airlines, err := service.ListAirlines(ctx)

	assert.Nil(t, airlines)
	assert.Error(t, err)
}
