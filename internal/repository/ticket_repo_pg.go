package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyfare/ticketdesk/internal/domain"
)

const ticketColumns = `id, batch_id, status, price_cents, passenger_name, passport_no, locked_by, locked_until, booking_id, created_at, updated_at`

type TicketFilter struct {
	Status      string
	CountryCode string
	PackageType string
	BatchID     int64
	Limit       int
	Offset      int
}

type TicketRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Lock(ctx context.Context, id, userID int64, until time.Time) (*domain.Ticket, error)
	Unlock(ctx context.Context, id, userID int64) (*domain.Ticket, error)
	ReclaimExpired(ctx context.Context, now time.Time) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error)
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(&t.ID, &t.BatchID, &t.Status, &t.PriceCents, &t.PassengerName, &t.PassportNo, &t.LockedBy, &t.LockedUntil, &t.BookingID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PGTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
	t, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ticket %d: %w", id, domain.ErrNotFound)
	}
	return t, err
}

func (r *PGTicketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumnsAliased("t") + ` FROM tickets t JOIN ticket_batches b ON b.id = t.batch_id`
	var (
		where []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if filter.CountryCode != "" {
		args = append(args, filter.CountryCode)
		where = append(where, fmt.Sprintf("b.country_code = $%d", len(args)))
	}
	if filter.PackageType != "" {
		args = append(args, filter.PackageType)
		where = append(where, fmt.Sprintf("b.package_type = $%d", len(args)))
	}
	if filter.BatchID != 0 {
		args = append(args, filter.BatchID)
		where = append(where, fmt.Sprintf("t.batch_id = $%d", len(args)))
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY t.id"
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

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

// Lock flips an available ticket to locked in a single conditional update so
// that exactly one of two concurrent callers can win the row.
func (r *PGTicketRepository) Lock(ctx context.Context, id, userID int64, until time.Time) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `UPDATE tickets
		SET status=$1, locked_by=$2, locked_until=$3, updated_at=now()
		WHERE id=$4 AND status=$5
		RETURNING `+ticketColumns, domain.TicketStatusLocked, userID, until, id, domain.TicketStatusAvailable)
	t, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.conflictOrNotFound(ctx, id, "lock")
	}
	return t, err
}

func (r *PGTicketRepository) Unlock(ctx context.Context, id, userID int64) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `UPDATE tickets
		SET status=$1, locked_by=NULL, locked_until=NULL, updated_at=now()
		WHERE id=$2 AND status=$3 AND locked_by=$4
		RETURNING `+ticketColumns, domain.TicketStatusAvailable, id, domain.TicketStatusLocked, userID)
	t, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.conflictOrNotFound(ctx, id, "unlock")
	}
	return t, err
}

// ReclaimExpired returns every locked ticket whose lock has passed its
// deadline to available in one statement. Because the predicate and the
// update are a single atomic operation, a ticket being booked concurrently
// cannot be reclaimed after the booking commits.
func (r *PGTicketRepository) ReclaimExpired(ctx context.Context, now time.Time) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `UPDATE tickets
		SET status=$1, locked_by=NULL, locked_until=NULL, updated_at=now()
		WHERE status=$2 AND locked_until <= $3
		RETURNING `+ticketColumns, domain.TicketStatusAvailable, domain.TicketStatusLocked, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reclaimed []domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		reclaimed = append(reclaimed, *t)
	}
	return reclaimed, rows.Err()
}

func (r *PGTicketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.CanTransition(status) {
		return nil, fmt.Errorf("ticket %d: %s -> %s: %w", id, current.Status, status, domain.ErrConflict)
	}
	// Guard on the previously observed status so a concurrent transition
	// loses cleanly instead of being overwritten.
	row := r.db.QueryRow(ctx, `UPDATE tickets
		SET status=$1, locked_by=NULL, locked_until=NULL, updated_at=now()
		WHERE id=$2 AND status=$3
		RETURNING `+ticketColumns, status, id, current.Status)
	t, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ticket %d changed concurrently: %w", id, domain.ErrConflict)
	}
	return t, err
}

func (r *PGTicketRepository) conflictOrNotFound(ctx context.Context, id int64, op string) error {
	var status domain.TicketStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM tickets WHERE id=$1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ticket %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%s ticket %d in status %s: %w", op, id, status, domain.ErrConflict)
}

func ticketColumnsAliased(alias string) string {
	return alias + ".id, " + alias + ".batch_id, " + alias + ".status, " + alias + ".price_cents, " + alias + ".passenger_name, " + alias + ".passport_no, " + alias + ".locked_by, " + alias + ".locked_until, " + alias + ".booking_id, " + alias + ".created_at, " + alias + ".updated_at"
}

var _ TicketRepository = (*PGTicketRepository)(nil)
