package email

import (
	"context"
	"log"

	"github.com/skyfare/ticketdesk/internal/kafka"
)

// Notifier turns ticket lifecycle events into operator notifications. The
// delivery channel is a stub; the worker wires it to the notifications
// topic.
type Notifier struct{}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Notify(ctx context.Context, event kafka.TicketEvent) error {
	log.Printf("notify: %s ticket=%d booking=%d status=%s", event.Type, event.TicketID, event.BookingID, event.Status)
	return nil
}
