package batches

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/skyfare/ticketdesk/internal/kafka"
	"github.com/skyfare/ticketdesk/internal/repository"
)

// Default markup applied to the buying price when the caller does not supply
// one: selling price is buying price plus ten percent.
const defaultMarkup = 1.10

type BatchUseCase interface {
	IssueBatch(ctx context.Context, input IssueBatchInput) (*domain.TicketBatch, []domain.Ticket, error)
	GetBatch(ctx context.Context, id int64) (*domain.TicketBatch, error)
	ListBatches(ctx context.Context, filter repository.BatchFilter) ([]domain.TicketBatch, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type IssueBatchInput struct {
	CountryCode      string
	AirlineID        int64
	FlightDate       time.Time
	FlightTime       string
	BuyingPriceCents int64
	Quantity         int
	Markup           float64
	PackageType      string
	GroupSize        int
	AgentName        string
	AgentPhone       string
	CreatedBy        int64
}

type BatchService struct {
	batches  repository.BatchRepository
	refdata  repository.RefDataRepository
	producer Producer
	topic    string
}

func NewBatchService(batches repository.BatchRepository, refdata repository.RefDataRepository, producer Producer, topic string) *BatchService {
	return &BatchService{batches: batches, refdata: refdata, producer: producer, topic: topic}
}

// IssueBatch persists the batch and fans out Quantity available tickets, all
// in one transaction so the batch is never observed partially created.
func (s *BatchService) IssueBatch(ctx context.Context, input IssueBatchInput) (*domain.TicketBatch, []domain.Ticket, error) {
	if input.Quantity < 1 {
		return nil, nil, fmt.Errorf("quantity must be at least 1: %w", domain.ErrValidation)
	}
	if input.BuyingPriceCents < 0 {
		return nil, nil, fmt.Errorf("buying price must not be negative: %w", domain.ErrValidation)
	}
	if input.FlightDate.IsZero() {
		return nil, nil, fmt.Errorf("flight date is required: %w", domain.ErrValidation)
	}
	packageType := domain.PackageType(input.PackageType)
	if packageType == "" {
		packageType = domain.PackageTypeRegular
	}
	if packageType != domain.PackageTypeRegular && packageType != domain.PackageTypeUmrah {
		return nil, nil, fmt.Errorf("unknown package type %q: %w", input.PackageType, domain.ErrValidation)
	}
	if packageType == domain.PackageTypeUmrah && input.GroupSize < 1 {
		return nil, nil, fmt.Errorf("umrah batch requires a group size: %w", domain.ErrValidation)
	}

	ok, err := s.refdata.CountryExists(ctx, input.CountryCode)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, fmt.Errorf("country %q: %w", input.CountryCode, domain.ErrValidation)
	}
	ok, err = s.refdata.AirlineExists(ctx, input.AirlineID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, fmt.Errorf("airline %d: %w", input.AirlineID, domain.ErrValidation)
	}

	markup := input.Markup
	if markup == 0 {
		markup = defaultMarkup
	}
	if markup < 1 {
		return nil, nil, fmt.Errorf("markup must not sell below cost: %w", domain.ErrValidation)
	}
	priceCents := int64(math.Round(float64(input.BuyingPriceCents) * markup))

	batch := &domain.TicketBatch{
		CountryCode:      input.CountryCode,
		AirlineID:        input.AirlineID,
		FlightDate:       input.FlightDate,
		FlightTime:       input.FlightTime,
		BuyingPriceCents: input.BuyingPriceCents,
		Quantity:         input.Quantity,
		PackageType:      packageType,
		GroupSize:        input.GroupSize,
		AgentName:        input.AgentName,
		AgentPhone:       input.AgentPhone,
		CreatedBy:        input.CreatedBy,
	}

	tickets, err := s.batches.CreateWithTickets(ctx, batch, priceCents)
	if err != nil {
		return nil, nil, err
	}

	if s.producer != nil && s.topic != "" {
		event := kafka.TicketEvent{
			Type:    "batch_issued",
			BatchID: batch.ID,
			UserID:  batch.CreatedBy,
			At:      batch.CreatedAt,
		}
		if err := s.producer.Publish(ctx, s.topic, fmt.Sprintf("batch-%d", batch.ID), event); err != nil {
			log.Printf("publish batch_issued for batch %d: %v", batch.ID, err)
		}
	}

	return batch, tickets, nil
}

func (s *BatchService) GetBatch(ctx context.Context, id int64) (*domain.TicketBatch, error) {
	return s.batches.GetByID(ctx, id)
}

func (s *BatchService) ListBatches(ctx context.Context, filter repository.BatchFilter) ([]domain.TicketBatch, error) {
	return s.batches.List(ctx, filter)
}

var _ BatchUseCase = (*BatchService)(nil)
