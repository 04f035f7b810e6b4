package refdata

import (
	"context"

	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/skyfare/ticketdesk/internal/repository"
)

type RefDataUseCase interface {
	ListCountries(ctx context.Context) ([]domain.Country, error)
	ListAirlines(ctx context.Context) ([]domain.Airline, error)
}

type Cache interface {
	GetCountries(ctx context.Context) ([]domain.Country, error)
	SetCountries(ctx context.Context, countries []domain.Country) error
	GetAirlines(ctx context.Context) ([]domain.Airline, error)
	SetAirlines(ctx context.Context, airlines []domain.Airline) error
}

// RefDataService serves the countries and airlines lists, read-through
// cached. Reference data changes rarely, so a stale window the size of the
// cache TTL is acceptable.
type RefDataService struct {
	repo  repository.RefDataRepository
	cache Cache
}

func NewRefDataService(repo repository.RefDataRepository, cache Cache) *RefDataService {
	return &RefDataService{repo: repo, cache: cache}
}

func (s *RefDataService) ListCountries(ctx context.Context) ([]domain.Country, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCountries(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}
	countries, err := s.repo.ListCountries(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetCountries(ctx, countries)
	}
	return countries, nil
}

func (s *RefDataService) ListAirlines(ctx context.Context) ([]domain.Airline, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAirlines(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}
	airlines, err := s.repo.ListAirlines(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetAirlines(ctx, airlines)
	}
	return airlines, nil
}

var _ RefDataUseCase = (*RefDataService)(nil)
