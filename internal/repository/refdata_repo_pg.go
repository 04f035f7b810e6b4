package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyfare/ticketdesk/internal/domain"
)

type RefDataRepository interface {
	ListCountries(ctx context.Context) ([]domain.Country, error)
	ListAirlines(ctx context.Context) ([]domain.Airline, error)
	CountryExists(ctx context.Context, code string) (bool, error)
	AirlineExists(ctx context.Context, id int64) (bool, error)
}

type PGRefDataRepository struct {
	db *pgxpool.Pool
}

func NewRefDataRepository(db *pgxpool.Pool) RefDataRepository {
	return &PGRefDataRepository{db: db}
}

func (r *PGRefDataRepository) ListCountries(ctx context.Context) ([]domain.Country, error) {
	rows, err := r.db.Query(ctx, `SELECT code, name FROM countries ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	countries := make([]domain.Country, 0)
	for rows.Next() {
		var c domain.Country
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			return nil, err
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

func (r *PGRefDataRepository) ListAirlines(ctx context.Context) ([]domain.Airline, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name FROM airlines ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airlines := make([]domain.Airline, 0)
	for rows.Next() {
		var a domain.Airline
		if err := rows.Scan(&a.ID, &a.Code, &a.Name); err != nil {
			return nil, err
		}
		airlines = append(airlines, a)
	}
	return airlines, rows.Err()
}

func (r *PGRefDataRepository) CountryExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM countries WHERE code=$1)`, code).Scan(&exists)
	return exists, err
}

func (r *PGRefDataRepository) AirlineExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM airlines WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}

var _ RefDataRepository = (*PGRefDataRepository)(nil)
