package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyfare/ticketdesk/internal/domain"
)

type BatchFilter struct {
	CountryCode string
	PackageType string
	Limit       int
	Offset      int
}

type BatchRepository interface {
	CreateWithTickets(ctx context.Context, batch *domain.TicketBatch, ticketPriceCents int64) ([]domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.TicketBatch, error)
	List(ctx context.Context, filter BatchFilter) ([]domain.TicketBatch, error)
}

type PGBatchRepository struct {
	db *pgxpool.Pool
}

func NewBatchRepository(db *pgxpool.Pool) BatchRepository {
	return &PGBatchRepository{db: db}
}

const batchColumns = `id, country_code, airline_id, flight_date, flight_time, buying_price_cents, quantity, package_type, group_size, agent_name, agent_phone, created_by, created_at`

// CreateWithTickets inserts the batch row and fans out Quantity ticket rows
// inside one transaction. Either the batch and its full ticket set commit
// together or nothing is visible.
func (r *PGBatchRepository) CreateWithTickets(ctx context.Context, batch *domain.TicketBatch, ticketPriceCents int64) ([]domain.Ticket, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO ticket_batches
		(country_code, airline_id, flight_date, flight_time, buying_price_cents, quantity, package_type, group_size, agent_name, agent_phone, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`,
		batch.CountryCode, batch.AirlineID, batch.FlightDate, batch.FlightTime, batch.BuyingPriceCents,
		batch.Quantity, batch.PackageType, batch.GroupSize, batch.AgentName, batch.AgentPhone, batch.CreatedBy).
		Scan(&batch.ID, &batch.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}

	tickets := make([]domain.Ticket, 0, batch.Quantity)
	for i := 0; i < batch.Quantity; i++ {
		row := tx.QueryRow(ctx, `INSERT INTO tickets (batch_id, status, price_cents)
			VALUES ($1, $2, $3)
			RETURNING `+ticketColumns, batch.ID, domain.TicketStatusAvailable, ticketPriceCents)
		t, err := scanTicket(row)
		if err != nil {
			return nil, fmt.Errorf("insert ticket %d/%d: %w", i+1, batch.Quantity, err)
		}
		tickets = append(tickets, *t)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *PGBatchRepository) GetByID(ctx context.Context, id int64) (*domain.TicketBatch, error) {
	row := r.db.QueryRow(ctx, `SELECT `+batchColumns+` FROM ticket_batches WHERE id=$1`, id)
	b, err := scanBatch(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("batch %d: %w", id, domain.ErrNotFound)
	}
	return b, err
}

func (r *PGBatchRepository) List(ctx context.Context, filter BatchFilter) ([]domain.TicketBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM ticket_batches`
	var args []interface{}
	if filter.CountryCode != "" {
		args = append(args, filter.CountryCode)
		query += fmt.Sprintf(" WHERE country_code = $%d", len(args))
	}
	if filter.PackageType != "" {
		args = append(args, filter.PackageType)
		if len(args) == 1 {
			query += fmt.Sprintf(" WHERE package_type = $%d", len(args))
		} else {
			query += fmt.Sprintf(" AND package_type = $%d", len(args))
		}
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := make([]domain.TicketBatch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, *b)
	}
	return batches, rows.Err()
}

func scanBatch(row pgx.Row) (*domain.TicketBatch, error) {
	var b domain.TicketBatch
	if err := row.Scan(&b.ID, &b.CountryCode, &b.AirlineID, &b.FlightDate, &b.FlightTime, &b.BuyingPriceCents, &b.Quantity, &b.PackageType, &b.GroupSize, &b.AgentName, &b.AgentPhone, &b.CreatedBy, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BatchRepository = (*PGBatchRepository)(nil)
