package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/storefront/internal/orders/domain"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderPlaced        = "order_placed"
	EventOrderCancelled     = "order_cancelled"
	EventOrderStatusChanged = "order_status_changed"
)

// OrderEvent is the JSON payload written to the order topic.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventBus publishes order lifecycle events to Kafka, keyed by order id so
// events for one order stay in partition order.
type EventBus struct {
	writer  *kafka.Writer
	metrics *Metrics
}

// NewEventBus constructs an EventBus writing to the given topic. A nil
// metrics disables instrumentation.
func NewEventBus(brokers []string, topic string, metrics *Metrics) *EventBus {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &EventBus{writer: writer, metrics: metrics}
}

func (b *EventBus) PublishOrderPlaced(ctx context.Context, orderID string) error {
	return b.publish(ctx, OrderEvent{Type: EventOrderPlaced, OrderID: orderID, OccurredAt: time.Now().UTC()})
}

func (b *EventBus) PublishOrderCancelled(ctx context.Context, orderID string) error {
	return b.publish(ctx, OrderEvent{Type: EventOrderCancelled, OrderID: orderID, OccurredAt: time.Now().UTC()})
}

func (b *EventBus) PublishOrderStatusChanged(ctx context.Context, orderID string, status domain.OrderStatus) error {
	return b.publish(ctx, OrderEvent{
		Type:       EventOrderStatusChanged,
		OrderID:    orderID,
		Status:     string(status),
		OccurredAt: time.Now().UTC(),
	})
}

func (b *EventBus) publish(ctx context.Context, event OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	start := time.Now()
	err = b.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  event.OccurredAt,
	})
	if b.metrics != nil {
		b.metrics.RecordPublish(ctx, event.Type, time.Since(start).Seconds(), err == nil)
	}
	return err
}

func (b *EventBus) Close() error {
	return b.writer.Close()
}
