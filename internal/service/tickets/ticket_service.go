package tickets

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/skyfare/ticketdesk/internal/kafka"
	"github.com/skyfare/ticketdesk/internal/repository"
)

const (
	defaultLockDuration = 15 * time.Minute
	maxLockDuration     = 24 * time.Hour
)

type TicketUseCase interface {
	GetTicket(ctx context.Context, id int64) (*domain.Ticket, error)
	ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error)
	LockTicket(ctx context.Context, id, userID int64, duration time.Duration) (*domain.Ticket, error)
	UnlockTicket(ctx context.Context, id, userID int64) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Ticket, error)
	ReclaimExpiredLocks(ctx context.Context) ([]domain.Ticket, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type TicketService struct {
	tickets     repository.TicketRepository
	producer    Producer
	topic       string
	defaultLock time.Duration
}

type TicketServiceOption func(*TicketService)

// WithDefaultLockTTL overrides the lock duration applied when the caller
// does not supply one.
func WithDefaultLockTTL(d time.Duration) TicketServiceOption {
	return func(s *TicketService) {
		if d > 0 {
			s.defaultLock = d
		}
	}
}

func NewTicketService(tickets repository.TicketRepository, producer Producer, topic string, opts ...TicketServiceOption) *TicketService {
	service := &TicketService{tickets: tickets, producer: producer, topic: topic, defaultLock: defaultLockDuration}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if filter.Status != "" && !domain.ValidTicketStatus(filter.Status) {
		return nil, fmt.Errorf("unknown status %q: %w", filter.Status, domain.ErrValidation)
	}
	return s.tickets.List(ctx, filter)
}

// LockTicket places a time-boxed exclusive claim on an available ticket. The
// repository performs the status check and the update as one conditional
// statement, so of two concurrent callers exactly one wins.
func (s *TicketService) LockTicket(ctx context.Context, id, userID int64, duration time.Duration) (*domain.Ticket, error) {
	if duration <= 0 {
		duration = s.defaultLock
	}
	if duration > maxLockDuration {
		return nil, fmt.Errorf("lock duration %s exceeds maximum: %w", duration, domain.ErrValidation)
	}

	t, err := s.tickets.Lock(ctx, id, userID, time.Now().Add(duration))
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "ticket_locked", t, userID)
	return t, nil
}

func (s *TicketService) UnlockTicket(ctx context.Context, id, userID int64) (*domain.Ticket, error) {
	t, err := s.tickets.Unlock(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "ticket_unlocked", t, userID)
	return t, nil
}

// UpdateStatus is the administrative transition endpoint, used mainly to
// cancel tickets. Lifecycle legality is enforced by the repository against
// the ticket's current status.
func (s *TicketService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Ticket, error) {
	if !domain.ValidTicketStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrValidation)
	}
	t, err := s.tickets.UpdateStatus(ctx, id, domain.TicketStatus(status))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "ticket_status_changed", t, 0)
	return t, nil
}

// ReclaimExpiredLocks returns every ticket whose lock deadline has passed to
// available. Run periodically by the worker.
func (s *TicketService) ReclaimExpiredLocks(ctx context.Context) ([]domain.Ticket, error) {
	reclaimed, err := s.tickets.ReclaimExpired(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	for i := range reclaimed {
		s.publish(ctx, "lock_expired", &reclaimed[i], 0)
	}
	return reclaimed, nil
}

func (s *TicketService) publish(ctx context.Context, eventType string, t *domain.Ticket, userID int64) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.TicketEvent{
		Type:     eventType,
		TicketID: t.ID,
		BatchID:  t.BatchID,
		UserID:   userID,
		Status:   string(t.Status),
		At:       time.Now(),
	}
	if err := s.producer.Publish(ctx, s.topic, fmt.Sprintf("ticket-%d", t.ID), event); err != nil {
		log.Printf("publish %s for ticket %d: %v", eventType, t.ID, err)
	}
}

var _ TicketUseCase = (*TicketService)(nil)
