package ingest

import (
	"context"
	"encoding/json"
	"errors"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/enums"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/logger"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox/payloads"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox/registry"
)

// ConsumerName scopes idempotency keys for this worker.
const ConsumerName = "pricing-worker"

type changeHandler interface {
	HandleOrderChange(ctx context.Context, event payloads.OrderChangedEvent) error
}

type idempotencyGuard interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Consumer feeds order change events from Pub/Sub into the pricing handler.
type Consumer struct {
	handler      changeHandler
	guard        idempotencyGuard
	subscription *pubsub.Subscriber
	decoders     *registry.DecoderRegistry
	logg         *logger.Logger
}

// NewConsumer constructs a consumer that watches the orders subscription.
func NewConsumer(handler changeHandler, guard idempotencyGuard, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if handler == nil {
		return nil, errors.New("order change handler is required")
	}
	if subscription == nil {
		return nil, errors.New("orders subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}

	decoders := registry.NewDecoderRegistry()
	decodeOrderChange := func(payload json.RawMessage) (interface{}, error) {
		var event payloads.OrderChangedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, err
		}
		return event, nil
	}
	decoders.Register(enums.EventOrderCreated, 1, decodeOrderChange)
	decoders.Register(enums.EventOrderCanceled, 1, decodeOrderChange)

	return &Consumer{
		handler:      handler,
		guard:        guard,
		subscription: subscription,
		decoders:     decoders,
		logg:         logg,
	}, nil
}

// Run processes messages until the context is canceled or the subscription errors.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	if eventType != enums.EventOrderCreated && eventType != enums.EventOrderCanceled {
		c.logg.Info(logCtx, "skipping non-order event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode event envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "envelope missing a valid event id", err)
		return processResult{ack: true}
	}
	fields["event_id"] = envelope.EventID
	logCtx = c.logg.WithFields(ctx, fields)

	if c.guard != nil {
		already, err := c.guard.CheckAndMarkProcessed(ctx, ConsumerName, eventID)
		if err != nil {
			c.logg.Error(logCtx, "idempotency check failed", err)
			return processResult{nack: true}
		}
		if already {
			c.logg.Info(logCtx, "event already processed")
			return processResult{ack: true}
		}
	}

	decoded, err := c.decoders.Decode(eventType, envelope.Version, envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to decode order change payload", err)
		return processResult{ack: true}
	}
	event, ok := decoded.(payloads.OrderChangedEvent)
	if !ok {
		c.logg.Error(logCtx, "unexpected decoded payload type", errors.New("type mismatch"))
		return processResult{ack: true}
	}

	if err := c.handler.HandleOrderChange(logCtx, event); err != nil {
		if isTransientError(err) {
			c.releaseGuard(ctx, logCtx, eventID)
			return processResult{nack: true}
		}
		// Failed items stay skipped; the order is never replayed.
		c.logg.Error(logCtx, "order change processing failed", err)
		return processResult{ack: true}
	}

	return processResult{ack: true}
}

func (c *Consumer) releaseGuard(ctx context.Context, logCtx context.Context, eventID uuid.UUID) {
	if c.guard == nil {
		return
	}
	if err := c.guard.Delete(ctx, ConsumerName, eventID); err != nil {
		c.logg.Error(logCtx, "failed to release idempotency key before redelivery", err)
	}
}

func isTransientError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
