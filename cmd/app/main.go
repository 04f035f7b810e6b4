package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyfare/ticketdesk/config"
	"github.com/skyfare/ticketdesk/internal/bootstrap"
	"github.com/skyfare/ticketdesk/internal/cache"
	"github.com/skyfare/ticketdesk/internal/database"
	"github.com/skyfare/ticketdesk/internal/kafka"
	"github.com/skyfare/ticketdesk/internal/repository"
	"github.com/skyfare/ticketdesk/internal/service/auth"
	"github.com/skyfare/ticketdesk/internal/service/batches"
	"github.com/skyfare/ticketdesk/internal/service/bookings"
	"github.com/skyfare/ticketdesk/internal/service/refdata"
	"github.com/skyfare/ticketdesk/internal/service/tickets"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.MigrateUp(cfg.Database.URL()); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Tickets.RefDataCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	userRepo := repository.NewUserRepository(pool)
	batchRepo := repository.NewBatchRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	refdataRepo := repository.NewRefDataRepository(pool)

	svc := bootstrap.Services{
		Auth:    auth.NewAuthService(userRepo, redisCache, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute),
		Batches: batches.NewBatchService(batchRepo, refdataRepo, producer, cfg.Kafka.TicketEventsTopic),
		Tickets: tickets.NewTicketService(ticketRepo, producer, cfg.Kafka.TicketEventsTopic,
			tickets.WithDefaultLockTTL(time.Duration(cfg.Tickets.LockTTLMinutes)*time.Minute)),
		Bookings: bookings.NewBookingService(bookingRepo, producer, cfg.Kafka.TicketEventsTopic),
		RefData:  refdata.NewRefDataService(refdataRepo, redisCache),
	}

	log.Printf("ticketdesk API listening on %s", cfg.HTTP.Address)
	if err := bootstrap.Run(ctx, cfg, svc); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
