package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/enums"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/logger"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox/payloads"
)

type stubHandler struct {
	events []payloads.OrderChangedEvent
	err    error
}

func (s *stubHandler) HandleOrderChange(_ context.Context, event payloads.OrderChangedEvent) error {
	s.events = append(s.events, event)
	return s.err
}

type stubGuard struct {
	already  bool
	checkErr error
	marked   []uuid.UUID
	deleted  []uuid.UUID
}

func (s *stubGuard) CheckAndMarkProcessed(_ context.Context, _ string, eventID uuid.UUID) (bool, error) {
	if s.checkErr != nil {
		return false, s.checkErr
	}
	if s.already {
		return true, nil
	}
	s.marked = append(s.marked, eventID)
	return false, nil
}

func (s *stubGuard) Delete(_ context.Context, _ string, eventID uuid.UUID) error {
	s.deleted = append(s.deleted, eventID)
	return nil
}

func newTestConsumer(t *testing.T, handler *stubHandler, guard idempotencyGuard) *Consumer {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	consumer, err := NewConsumer(handler, guard, &pubsub.Subscriber{}, logg)
	if err != nil {
		t.Fatalf("NewConsumer: %v", err)
	}
	return consumer
}

func buildOrderMessage(t *testing.T, eventType enums.OutboxEventType, event payloads.OrderChangedEvent) *pubsub.Message {
	t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return &pubsub.Message{
		Attributes: map[string]string{"event_type": string(eventType)},
		Data:       payload,
	}
}

func TestConsumerProcessesOrderCreated(t *testing.T) {
	handler := &stubHandler{}
	guard := &stubGuard{}
	consumer := newTestConsumer(t, handler, guard)

	event := createEvent(payloads.OrderLine{DrinkID: uuid.New(), Quantity: 2})
	result := consumer.process(context.Background(), buildOrderMessage(t, enums.EventOrderCreated, event))

	if !result.ack || result.nack {
		t.Fatalf("expected ack, got %+v", result)
	}
	if len(handler.events) != 1 {
		t.Fatalf("expected handler invoked once, got %d", len(handler.events))
	}
	if len(guard.marked) != 1 {
		t.Fatalf("expected event marked processed")
	}
}

func TestConsumerSkipsNonOrderEvents(t *testing.T) {
	handler := &stubHandler{}
	consumer := newTestConsumer(t, handler, &stubGuard{})

	msg := &pubsub.Message{
		Attributes: map[string]string{"event_type": string(enums.EventDrinkCreated)},
		Data:       []byte(`{}`),
	}
	result := consumer.process(context.Background(), msg)
	if !result.ack {
		t.Fatalf("expected ack for non-order event")
	}
	if len(handler.events) != 0 {
		t.Fatalf("handler should not run for non-order events")
	}
}

func TestConsumerAcksPoisonEnvelope(t *testing.T) {
	handler := &stubHandler{}
	consumer := newTestConsumer(t, handler, &stubGuard{})

	msg := &pubsub.Message{
		Attributes: map[string]string{"event_type": string(enums.EventOrderCreated)},
		Data:       []byte(`{not json`),
	}
	result := consumer.process(context.Background(), msg)
	if !result.ack || result.nack {
		t.Fatalf("poison messages must be acked, got %+v", result)
	}
	if len(handler.events) != 0 {
		t.Fatalf("handler should not run for poison messages")
	}
}

func TestConsumerSkipsAlreadyProcessed(t *testing.T) {
	handler := &stubHandler{}
	guard := &stubGuard{already: true}
	consumer := newTestConsumer(t, handler, guard)

	event := createEvent(payloads.OrderLine{DrinkID: uuid.New(), Quantity: 1})
	result := consumer.process(context.Background(), buildOrderMessage(t, enums.EventOrderCreated, event))

	if !result.ack {
		t.Fatalf("expected ack for duplicate event")
	}
	if len(handler.events) != 0 {
		t.Fatalf("duplicate events must not reprice")
	}
}

func TestConsumerNacksOnTransientHandlerError(t *testing.T) {
	handler := &stubHandler{err: context.DeadlineExceeded}
	guard := &stubGuard{}
	consumer := newTestConsumer(t, handler, guard)

	event := createEvent(payloads.OrderLine{DrinkID: uuid.New(), Quantity: 1})
	result := consumer.process(context.Background(), buildOrderMessage(t, enums.EventOrderCreated, event))

	if !result.nack {
		t.Fatalf("expected nack for transient error")
	}
	if len(guard.deleted) != 1 {
		t.Fatalf("expected idempotency key released before redelivery")
	}
}

func TestConsumerAcksOnPermanentHandlerError(t *testing.T) {
	handler := &stubHandler{err: errors.New("constraint violation")}
	consumer := newTestConsumer(t, handler, &stubGuard{})

	event := createEvent(payloads.OrderLine{DrinkID: uuid.New(), Quantity: 1})
	result := consumer.process(context.Background(), buildOrderMessage(t, enums.EventOrderCreated, event))

	if !result.ack || result.nack {
		t.Fatalf("permanent failures are not replayed, got %+v", result)
	}
}
