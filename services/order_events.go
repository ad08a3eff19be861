package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/firegrill/ordering-backend/models"
)

// KafkaOrderPublisher emits order.created events so downstream consumers
// (kitchen display, notifications) can react without polling the orders
// table. It implements OrderPublisher; publishing is best effort and the
// checkout flow only logs failures.
type KafkaOrderPublisher struct {
	writer *kafka.Writer
}

func NewKafkaOrderPublisher(brokers []string, topic string) *KafkaOrderPublisher {
	return &KafkaOrderPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

type orderCreatedEvent struct {
	EventID       string    `json:"event_id"`
	OrderID       uint      `json:"order_id"`
	UserID        *uint     `json:"user_id,omitempty"`
	OrderType     string    `json:"order_type"`
	PaymentStatus string    `json:"payment_status"`
	OrderTotal    float64   `json:"order_total"`
	CreatedAt     time.Time `json:"created_at"`
}

func (p *KafkaOrderPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	event := orderCreatedEvent{
		EventID:       uuid.NewString(),
		OrderID:       order.ID,
		UserID:        order.UserID,
		OrderType:     order.OrderType,
		PaymentStatus: order.PaymentStatus,
		OrderTotal:    order.OrderTotal,
		CreatedAt:     order.CreatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", order.ID)),
		Value: data,
	})
}

func (p *KafkaOrderPublisher) Close() error {
	return p.writer.Close()
}
