package ingest

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ChemistryHero11/BarExchange-Pro/internal/ledger"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/pricing"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/logger"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/metrics"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox/payloads"
)

const (
	skipReasonMissingDrink    = "missing_drink"
	skipReasonInvalidQuantity = "invalid_quantity"
	skipReasonLookupError     = "lookup_error"
)

// Handler applies the surge rule to the price ledger for each created order.
type Handler struct {
	ledger  ledger.Repository
	rules   pricing.Rules
	metrics *metrics.PricingMetrics
	logg    *logger.Logger
}

// HandlerParams collects the handler dependencies.
type HandlerParams struct {
	Ledger  ledger.Repository
	Rules   pricing.Rules
	Metrics *metrics.PricingMetrics
	Logger  *logger.Logger
}

// NewHandler validates dependencies and builds the order ingestion handler.
func NewHandler(params HandlerParams) (*Handler, error) {
	if params.Ledger == nil {
		return nil, errors.New("ledger repository is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Handler{
		ledger:  params.Ledger,
		rules:   params.Rules,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

// HandleOrderChange reprices the drinks referenced by a created order.
// Updates, cancellations and deletions are ignored. Each line item is
// processed in isolation: a bad item is skipped, the rest of the order
// still reprices, and the surviving updates land in one atomic commit.
func (h *Handler) HandleOrderChange(ctx context.Context, event payloads.OrderChangedEvent) error {
	if !event.IsCreate() {
		h.logg.Info(ctx, "ignoring non-create order change")
		return nil
	}
	order := event.After

	logCtx := h.logg.WithOrderID(ctx, order.OrderID.String())
	logCtx = h.logg.WithBarID(logCtx, order.BarID.String())
	h.metrics.IncOrdersProcessed()

	updates := make([]ledger.RowUpdate, 0, len(order.Items))
	seen := make(map[uuid.UUID]int)

	for _, item := range order.Items {
		itemCtx := h.logg.WithDrinkID(logCtx, item.DrinkID.String())

		if item.Quantity <= 0 {
			h.logg.Warn(itemCtx, "skipping line item with non-positive quantity")
			h.metrics.IncItemsSkipped(skipReasonInvalidQuantity)
			continue
		}

		row, err := h.ledger.GetRow(itemCtx, item.DrinkID)
		if err != nil {
			h.logg.Error(itemCtx, "ledger lookup failed for line item", err)
			h.metrics.IncItemsSkipped(skipReasonLookupError)
			continue
		}
		if row == nil {
			h.logg.Warn(itemCtx, "drink not found in ledger, skipping line item")
			h.metrics.IncItemsSkipped(skipReasonMissingDrink)
			continue
		}

		previous := row.CurrentPrice
		update := ledger.RowUpdate{
			DrinkID:       item.DrinkID,
			NewPrice:      h.rules.IncreaseOnSale(row.CurrentPrice, item.Quantity),
			PreviousPrice: &previous,
			SoldDelta:     int64(item.Quantity),
		}

		// A duplicate drink in the same order overwrites the earlier
		// entry; the batch carries one row per drink.
		if idx, ok := seen[item.DrinkID]; ok {
			updates[idx] = update
			continue
		}
		seen[item.DrinkID] = len(updates)
		updates = append(updates, update)
		h.metrics.IncItemsRepriced()
	}

	if len(updates) == 0 {
		h.logg.Info(logCtx, "order produced no price updates")
		return nil
	}

	if err := h.ledger.CommitBatch(ctx, updates); err != nil {
		h.metrics.IncBatchCommit("error")
		h.logg.Error(logCtx, "ledger batch commit failed", err)
		return err
	}

	h.metrics.IncBatchCommit("success")
	h.logg.Info(h.logg.WithField(logCtx, "updated_drinks", len(updates)), "order repriced")
	return nil
}
