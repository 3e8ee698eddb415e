package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/srgjo27/ticket_inventory/internal/core/ports"
	"github.com/srgjo27/ticket_inventory/internal/platform/logger"
)

type OrderEventProcessor interface {
	ProcessOrderEvent(ctx context.Context, event ports.OrderEvent) error
}

// OrderEventConsumer feeds order events to the processor. Messages that can
// never succeed (bad payloads, orders gone or already past the step) are
// committed after logging; transient failures leave the offset unmarked.
type OrderEventConsumer struct {
	brokers   []string
	groupID   string
	topic     string
	processor OrderEventProcessor
	logger    *zap.Logger
}

func NewOrderEventConsumer(brokers []string, groupID, topic string, processor OrderEventProcessor, log *zap.Logger) *OrderEventConsumer {
	return &OrderEventConsumer{
		brokers:   brokers,
		groupID:   groupID,
		topic:     topic,
		processor: processor,
		logger:    log,
	}
}

// Run blocks until ctx is cancelled.
func (c *OrderEventConsumer) Run(ctx context.Context) error {
	config := sarama.NewConfig()
	config.Version = sarama.V3_0_0_0
	config.Consumer.Return.Errors = true
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.BalanceStrategyRoundRobin}

	group, err := sarama.NewConsumerGroup(c.brokers, c.groupID, config)
	if err != nil {
		return fmt.Errorf("error creating consumer group: %w", err)
	}

	defer func() {
		if err := group.Close(); err != nil {
			logger.Error(ctx, c.logger, "Error closing consumer group", zap.Error(err))
		}
	}()

	go func() {
		for err := range group.Errors() {
			logger.Error(ctx, c.logger, "Consumer group error", zap.Error(err))
		}
	}()

	for {
		if err := group.Consume(ctx, []string{c.topic}, c); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			logger.Error(ctx, c.logger, "Error consuming in consumer loop", zap.Error(err))
		}

		if ctx.Err() != nil {
			logger.Info(ctx, c.logger, "Context cancelled, shutting down consumer")
			return nil
		}
	}
}

func (c *OrderEventConsumer) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (c *OrderEventConsumer) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (c *OrderEventConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		if c.HandleMessage(session.Context(), msg) {
			session.MarkMessage(msg, "")
		}
	}

	return nil
}

// HandleMessage processes one message and reports whether its offset may be
// committed.
func (c *OrderEventConsumer) HandleMessage(ctx context.Context, msg *sarama.ConsumerMessage) bool {
	ctx, span := c.extractTracing(ctx, msg)
	defer span.End()

	fields := []zap.Field{
		zap.String("topic", msg.Topic),
		zap.Int32("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	}

	var event ports.OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil || event.OrderID == "" {
		logger.Error(ctx, c.logger, "Dropping malformed order event", append(fields, zap.Error(err))...)
		return true
	}

	fields = append(fields, zap.String("order_id", string(event.OrderID)))

	err := c.processor.ProcessOrderEvent(ctx, event)
	switch {
	case err == nil:
		return true
	case isPermanent(err):
		logger.Warn(ctx, c.logger, "Order event cannot be applied", append(fields, zap.Error(err))...)
		return true
	default:
		span.RecordError(err)
		logger.Error(ctx, c.logger, "Failed to process order event", append(fields, zap.Error(err))...)
		return false
	}
}

func isPermanent(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrReservationExpired) ||
		errors.Is(err, domain.ErrInvalidStateTransition) ||
		errors.Is(err, domain.ErrInvalidArgument)
}

func (c *OrderEventConsumer) extractTracing(ctx context.Context, msg *sarama.ConsumerMessage) (context.Context, trace.Span) {
	carrier := propagation.MapCarrier{}
	for _, header := range msg.Headers {
		if header == nil {
			continue
		}
		carrier[string(header.Key)] = string(header.Value)
	}

	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	return otel.Tracer("adapter/kafka/consumer").Start(ctx, "order_event_process",
		trace.WithSpanKind(trace.SpanKindConsumer),
	)
}
