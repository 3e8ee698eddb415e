package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/srgjo27/ticket_inventory/internal/adapter/messaging/kafka"
	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/srgjo27/ticket_inventory/internal/core/ports"
)

func sampleEvent() ports.OrderEvent {
	return ports.OrderEvent{
		OrderID:    "order-1",
		EventID:    "event-1",
		CustomerID: "customer-1",
		TicketType: "VIP",
		Quantity:   2,
		Timestamp:  time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
	}
}

func TestOrderEventPublisher_KeysByOrder(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "order_events" {
			return fmt.Errorf("unexpected topic %s", msg.Topic)
		}

		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}

		if string(key) != "order-1" {
			return fmt.Errorf("unexpected key %s", key)
		}

		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}

		var decoded ports.OrderEvent
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}

		if decoded.Quantity != 2 || decoded.TicketType != "VIP" {
			return fmt.Errorf("unexpected payload %s", value)
		}

		return nil
	})

	publisher := kafka.NewOrderEventPublisher(producer, "order_events", zap.NewNop())

	require.NoError(t, publisher.Publish(context.Background(), sampleEvent()))
	require.NoError(t, publisher.Close())
}

func TestOrderEventPublisher_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	for i := 0; i < 5; i++ {
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	}

	publisher := kafka.NewOrderEventPublisher(producer, "order_events", zap.NewNop())

	for i := 0; i < 5; i++ {
		err := publisher.Publish(context.Background(), sampleEvent())
		assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	}

	err := publisher.Publish(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.NoError(t, publisher.Close())
}

type processorFunc func(ctx context.Context, event ports.OrderEvent) error

func (f processorFunc) ProcessOrderEvent(ctx context.Context, event ports.OrderEvent) error {
	return f(ctx, event)
}

func message(t *testing.T, event ports.OrderEvent) *sarama.ConsumerMessage {
	t.Helper()

	value, err := json.Marshal(event)
	require.NoError(t, err)

	return &sarama.ConsumerMessage{Topic: "order_events", Partition: 0, Offset: 42, Value: value}
}

func TestOrderEventConsumer_HandleMessage(t *testing.T) {
	tests := []struct {
		name       string
		processErr error
		wantCommit bool
	}{
		{name: "processed", processErr: nil, wantCommit: true},
		{name: "reservation expired", processErr: fmt.Errorf("advance: %w", domain.ErrReservationExpired), wantCommit: true},
		{name: "order gone", processErr: domain.ErrNotFound, wantCommit: true},
		{name: "version conflict", processErr: domain.ErrConcurrentModification, wantCommit: false},
		{name: "database down", processErr: errors.New("connection reset"), wantCommit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ports.OrderEvent
			consumer := kafka.NewOrderEventConsumer(nil, "group", "order_events",
				processorFunc(func(_ context.Context, event ports.OrderEvent) error {
					got = event
					return tt.processErr
				}), zap.NewNop())

			commit := consumer.HandleMessage(context.Background(), message(t, sampleEvent()))

			assert.Equal(t, tt.wantCommit, commit)
			assert.Equal(t, domain.OrderID("order-1"), got.OrderID)
			assert.Equal(t, 2, got.Quantity)
		})
	}
}

func TestOrderEventConsumer_MalformedPayloadIsDropped(t *testing.T) {
	called := false
	consumer := kafka.NewOrderEventConsumer(nil, "group", "order_events",
		processorFunc(func(context.Context, ports.OrderEvent) error {
			called = true
			return nil
		}), zap.NewNop())

	commit := consumer.HandleMessage(context.Background(), &sarama.ConsumerMessage{Value: []byte("{oops")})

	assert.True(t, commit)
	assert.False(t, called)
}

type fakeSession struct {
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Claims() map[string][]int32                        { return nil }
func (s *fakeSession) MemberID() string                                  { return "member" }
func (s *fakeSession) GenerationID() int32                               { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string)           {}
func (s *fakeSession) Commit()                                           {}
func (s *fakeSession) ResetOffset(string, int32, int64, string)          {}
func (s *fakeSession) Context() context.Context                          { return s.ctx }
func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) { s.marked = append(s.marked, msg.Offset) }

type fakeClaim struct {
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Topic() string                            { return "order_events" }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestOrderEventConsumer_ConsumeClaimMarksOnlyCommittable(t *testing.T) {
	consumer := kafka.NewOrderEventConsumer(nil, "group", "order_events",
		processorFunc(func(_ context.Context, event ports.OrderEvent) error {
			if event.OrderID == "order-2" {
				return errors.New("connection reset")
			}
			return nil
		}), zap.NewNop())

	first := message(t, sampleEvent())
	first.Offset = 1

	failing := sampleEvent()
	failing.OrderID = "order-2"
	second := message(t, failing)
	second.Offset = 2

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 2)}
	claim.messages <- first
	claim.messages <- second
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}

	require.NoError(t, consumer.ConsumeClaim(session, claim))
	assert.Equal(t, []int64{1}, session.marked)
}
