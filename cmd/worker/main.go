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
	"github.com/skyfare/ticketdesk/internal/email"
	"github.com/skyfare/ticketdesk/internal/kafka"
	"github.com/skyfare/ticketdesk/internal/repository"
	"github.com/skyfare/ticketdesk/internal/service/tickets"
)

// The worker owns the two background concerns: the expired-lock reclamation
// sweep and the notifications consumer.
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

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	ticketRepo := repository.NewTicketRepository(pool)
	ticketService := tickets.NewTicketService(ticketRepo, producer, cfg.Kafka.TicketEventsTopic)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	notifier := email.NewNotifier()

	go func() {
		if err := consumer.Consume(ctx, notifier.Notify); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepInterval := time.Duration(cfg.Worker.LockSweepSeconds) * time.Second
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	log.Printf("lock sweep every %s", sweepInterval)
	for {
		select {
		case <-ticker.C:
			reclaimed, err := ticketService.ReclaimExpiredLocks(ctx)
			if err != nil {
				log.Printf("reclaim expired locks: %v", err)
				continue
			}
			if len(reclaimed) > 0 {
				log.Printf("reclaimed %d expired locks", len(reclaimed))
			}
		case <-ctx.Done():
			log.Println("shutting down")
			return
		}
	}
}
