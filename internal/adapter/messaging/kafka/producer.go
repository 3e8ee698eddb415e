package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/srgjo27/ticket_inventory/internal/core/ports"
	"github.com/srgjo27/ticket_inventory/internal/platform/logger"
)

const breakerTripAfter = 5

func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Partitioner = sarama.NewHashPartitioner

	p, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("error creating producer: %w", err)
	}

	return p, nil
}

// OrderEventPublisher writes order events keyed by order id, so every event
// of one order lands on the same partition. A circuit breaker stops a dead
// broker from slowing down order creation.
type OrderEventPublisher struct {
	producer sarama.SyncProducer
	topic    string
	cb       *gobreaker.CircuitBreaker
	logger   *zap.Logger
}

func NewOrderEventPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *OrderEventPublisher {
	settings := gobreaker.Settings{
		Name:        "OrderEventPublisher",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripAfter
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn(
				"Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &OrderEventPublisher{
		producer: producer,
		topic:    topic,
		cb:       gobreaker.NewCircuitBreaker(settings),
		logger:   log,
	}
}

func (p *OrderEventPublisher) Publish(ctx context.Context, event ports.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := make([]sarama.RecordHeader, 0, len(carrier))
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder(event.OrderID),
		Value:   sarama.ByteEncoder(payload),
		Headers: headers,
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		partition, offset, err := p.producer.SendMessage(msg)
		if err != nil {
			return nil, err
		}

		logger.Debug(ctx, p.logger, "Order event sent",
			zap.String("order_id", string(event.OrderID)),
			zap.Int32("partition", partition),
			zap.Int64("offset", offset),
		)
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("error sending order event %s: %w", event.OrderID, err)
	}

	return nil
}

func (p *OrderEventPublisher) Close() error {
	return p.producer.Close()
}
