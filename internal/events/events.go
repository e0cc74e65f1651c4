// Package events carries domain events between the services that produce them
// and the notification consumer, either over RabbitMQ or in process.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"care4pets/pkg/rabbitmq"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	OrderCreated             = "order.created"
	OrderStatusChanged       = "order.status_changed"
	PaymentTransferReported  = "payment.transfer_reported"
	PaymentConfirmed         = "payment.confirmed"
	AppointmentCreated       = "appointment.created"
	AppointmentStatusChanged = "appointment.status_changed"

	DefaultExchange   = "care4pets.events"
	NotificationQueue = "care4pets.notifications"
)

// AllTypes lists every event type published by the service.
var AllTypes = []string{
	OrderCreated, OrderStatusChanged, PaymentTransferReported, PaymentConfirmed,
	AppointmentCreated, AppointmentStatusChanged,
}

// Event is a domain event. SubjectID is the order or appointment id and
// Reference its human-facing number when it has one.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	SubjectID  string    `json:"subjectId"`
	Reference  string    `json:"reference,omitempty"`
	Status     string    `json:"status,omitempty"`
	Note       string    `json:"note,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers events to whoever consumes them.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Handler processes one event.
type Handler func(ctx context.Context, event Event) error

// InProcessPublisher calls subscribed handlers synchronously. It is used when
// no broker is configured and in tests.
type InProcessPublisher struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewInProcessPublisher() *InProcessPublisher {
	return &InProcessPublisher{}
}

func (p *InProcessPublisher) Subscribe(h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

func (p *InProcessPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.RLock()
	handlers := append([]Handler(nil), p.handlers...)
	p.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			return fmt.Errorf("handler for %s failed: %w", event.Type, err)
		}
	}
	return nil
}

// AMQPPublisher publishes events as JSON onto the RabbitMQ exchange, using the
// event type as routing key.
type AMQPPublisher struct {
	client *rabbitmq.Client
}

func NewAMQPPublisher(client *rabbitmq.Client) *AMQPPublisher {
	return &AMQPPublisher{client: client}
}

func (p *AMQPPublisher) Publish(_ context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}
	return p.client.Publish(p.client.Exchange(), event.Type, body)
}

// DeliveryHandler adapts an event Handler to raw AMQP deliveries.
func DeliveryHandler(h Handler) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var event Event
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("failed to decode event: %w", err)
		}
		return h(context.Background(), event)
	}
}

// Emit publishes event and logs a failure instead of returning it. A lost
// notification must never fail the request that produced it.
func Emit(ctx context.Context, p Publisher, log *zap.Logger, event Event) {
	if p == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if err := p.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish event",
			zap.String("type", event.Type),
			zap.String("subject_id", event.SubjectID),
			zap.Error(err))
	}
}
