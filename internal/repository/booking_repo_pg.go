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

const bookingColumns = `id, ticket_id, passenger_name, passport_no, agent_name, agent_phone, price_cents, payment_type, comments, created_by, created_at, confirmed_at, expires_at`

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Confirm(ctx context.Context, id, userID int64, at time.Time) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// Create claims the ticket and inserts the booking in one transaction. The
// claim is a conditional update: the ticket must be available, or locked by
// the booking creator. Losing the condition means another caller already
// took the ticket.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE tickets
		SET status=$1, locked_by=NULL, locked_until=NULL, passenger_name=$2, passport_no=$3, updated_at=now()
		WHERE id=$4 AND (status=$5 OR (status=$6 AND locked_by=$7)) AND booking_id IS NULL`,
		domain.TicketStatusBooked, booking.PassengerName, booking.PassportNo,
		booking.TicketID, domain.TicketStatusAvailable, domain.TicketStatusLocked, booking.CreatedBy)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.ticketConflict(ctx, booking.TicketID)
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings
		(ticket_id, passenger_name, passport_no, agent_name, agent_phone, price_cents, payment_type, comments, created_by, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		booking.TicketID, booking.PassengerName, booking.PassportNo, booking.AgentName, booking.AgentPhone,
		booking.PriceCents, booking.PaymentType, booking.Comments, booking.CreatedBy, booking.ExpiresAt).
		Scan(&booking.ID, &booking.CreatedAt); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	// The booking reference on the ticket is write-once.
	if _, err := tx.Exec(ctx, `UPDATE tickets SET booking_id=$1 WHERE id=$2`, booking.ID, booking.TicketID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	return b, err
}

// Confirm stamps the confirmation time and moves the ticket from booked to
// sold in the same transaction.
func (r *PGBookingRepository) Confirm(ctx context.Context, id, userID int64, at time.Time) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE bookings SET confirmed_at=$1 WHERE id=$2 AND confirmed_at IS NULL RETURNING `+bookingColumns, at, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("booking %d already confirmed: %w", id, domain.ErrConflict)
	}
	if err != nil {
		return nil, err
	}

	cmd, err := tx.Exec(ctx, `UPDATE tickets SET status=$1, updated_at=now() WHERE id=$2 AND status=$3`,
		domain.TicketStatusSold, b.TicketID, domain.TicketStatusBooked)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, fmt.Errorf("confirm booking %d: ticket %d not in booked state: %w", id, b.TicketID, domain.ErrConflict)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Cancel removes the booking and returns its ticket to available, clearing
// the booking reference and any lock fields. Without the reset the ticket
// would stay permanently unbookable.
func (r *PGBookingRepository) Cancel(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var ticketID int64
	err = tx.QueryRow(ctx, `DELETE FROM bookings WHERE id=$1 RETURNING ticket_id`, id).Scan(&ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE tickets
		SET status=$1, booking_id=NULL, locked_by=NULL, locked_until=NULL, passenger_name='', passport_no='', updated_at=now()
		WHERE id=$2 AND status IN ($3, $4)`,
		domain.TicketStatusAvailable, ticketID, domain.TicketStatusBooked, domain.TicketStatusSold); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) ticketConflict(ctx context.Context, ticketID int64) error {
	var status domain.TicketStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM tickets WHERE id=$1`, ticketID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ticket %d: %w", ticketID, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("book ticket %d in status %s: %w", ticketID, status, domain.ErrConflict)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.TicketID, &b.PassengerName, &b.PassportNo, &b.AgentName, &b.AgentPhone, &b.PriceCents, &b.PaymentType, &b.Comments, &b.CreatedBy, &b.CreatedAt, &b.ConfirmedAt, &b.ExpiresAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
