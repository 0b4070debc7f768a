package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/costing"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// EventSupplierOrderReceived is published once an order's goods are received
const EventSupplierOrderReceived = "supplier_order.received"

// LineCostEvent carries the landed cost of one received line
type LineCostEvent struct {
	LineID        uuid.UUID           `json:"line_id"`
	ProductName   string              `json:"product_name"`
	ProductSKU    *string             `json:"product_sku,omitempty"`
	Quantity      int                 `json:"quantity"`
	UnitCostPrice costing.LocalAmount `json:"unit_cost_price"`
}

// SupplierOrderEvent is the payload of supplier order events
type SupplierOrderEvent struct {
	Type          string              `json:"type"`
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNo       string              `json:"order_no"`
	LocalCurrency string              `json:"local_currency"`
	TotalCost     costing.LocalAmount `json:"total_cost_price_local"`
	ExchangeRate  decimal.NullDecimal `json:"exchange_rate"`
	Lines         []LineCostEvent     `json:"lines"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

// EventPublisher delivers supplier order events to downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, event *SupplierOrderEvent) error
	Close() error
}

// MessageWriter is the part of *kafka.Writer the publisher uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ MessageWriter = (*kafka.Writer)(nil)

type kafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaWriter builds the writer used for supplier order events
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaPublisher publishes events through w
func NewKafkaPublisher(w MessageWriter) EventPublisher {
	return &kafkaPublisher{writer: w}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event *SupplierOrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("supplier-order-%s-%s", event.Type, event.OrderID)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops every event
func NewNopPublisher() EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, *SupplierOrderEvent) error { return nil }

func (nopPublisher) Close() error { return nil }
