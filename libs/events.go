package libs

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"

	"food-order/models"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// OrderEvent is the payload published for each placed order.
type OrderEvent struct {
	Type       string       `json:"type"`
	UserID     int          `json:"user_id"`
	Email      string       `json:"email,omitempty"`
	Order      models.Order `json:"order"`
	OccurredAt time.Time    `json:"occurred_at"`
}

const orderPlacedEvent = "order.placed"

// OrderEventPublisher writes order.placed events for fulfillment consumers.
type OrderEventPublisher struct {
	writer *kafka.Writer
}

func NewOrderEventPublisher(brokers []string, topic string, logger zerolog.Logger) (*OrderEventPublisher, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, fmt.Errorf("kafka brokers and topic are required")
	}

	kafkaLog := logger.With().Str("component", "kafka_writer").Logger()
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            3,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Transport: &kafka.Transport{
			Dial: (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			kafkaLog.Error().Msgf(msg, args...)
		}),
	}
	return &OrderEventPublisher{writer: writer}, nil
}

func (p *OrderEventPublisher) OrderPlaced(ctx context.Context, customer models.Identity, order models.Order) error {
	payload, err := json.Marshal(OrderEvent{
		Type:       orderPlacedEvent,
		UserID:     order.UserID,
		Email:      customer.Email,
		Order:      order,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	// Keyed by user so one customer's orders stay in partition order.
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(order.UserID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(orderPlacedEvent)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}
