package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/BruksfildServices01/restaurant-app/internal/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data any) error
	Close() error
}

// Subjects
const (
	OrderCreated      = "order.created"
	OrderCompleted    = "order.completed"
	OrderDeleted      = "order.deleted"
	PrivateRoomBooked = "private_room.booked"
	EventReserved     = "event.reserved"
)

// ================================
// Payloads
// ================================

type OrderCreatedEvent struct {
	OrderID    uint      `json:"order_id"`
	CustomerID uint      `json:"customer_id"`
	Total      float64   `json:"total"`
	Method     string    `json:"method"`
	Items      int       `json:"items"`
	CreatedAt  time.Time `json:"created_at"`
}

type OrderStatusEvent struct {
	OrderID uint      `json:"order_id"`
	ActorID uint      `json:"actor_id"`
	At      time.Time `json:"at"`
}

type BookingEvent struct {
	BookingID  uint      `json:"booking_id"`
	CustomerID uint      `json:"customer_id"`
	Kind       string    `json:"kind"`
	Date       string    `json:"date"`
	Guests     int       `json:"guests,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ================================
// NATS
// ================================

type NATSPublisher struct {
	conn *nats.Conn
	log  *slog.Logger
}

func NewNATSPublisher(url string, log *slog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("restaurant-app"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn, log: log}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.WithContext(ctx, n.log).Debug("publishing event", slog.String("subject", subject))
	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) Close() error {
	return n.conn.Drain()
}

// ================================
// No-op
// ================================

// Nop is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                              { return nil }

// ================================
// Recorder
// ================================

type Published struct {
	Subject string
	Data    any
}

// Recorder keeps published events in memory; tests use it to assert on
// side effects.
type Recorder struct {
	mu     sync.Mutex
	Events []Published
	Err    error
}

func (r *Recorder) Publish(_ context.Context, subject string, data any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Published{Subject: subject, Data: data})
	return r.Err
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Subject)
	}
	return out
}

var (
	_ Publisher = (*NATSPublisher)(nil)
	_ Publisher = Nop{}
	_ Publisher = (*Recorder)(nil)
)
