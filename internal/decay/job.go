package decay

import (
	"context"
	"errors"

	"github.com/ChemistryHero11/BarExchange-Pro/internal/ledger"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/pricing"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/logger"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/metrics"
)

// JobName identifies the decay job in logs and metrics.
const JobName = "price-decay"

// Job walks the whole price ledger and pulls every drifted price a step
// back toward its base price. Drinks already at base are left untouched,
// and a tick that moves nothing commits nothing.
type Job struct {
	ledger  ledger.Repository
	rules   pricing.Rules
	metrics *metrics.PricingMetrics
	logg    *logger.Logger
}

// JobParams collects the decay job dependencies.
type JobParams struct {
	Ledger  ledger.Repository
	Rules   pricing.Rules
	Metrics *metrics.PricingMetrics
	Logger  *logger.Logger
}

// NewJob validates dependencies and builds the decay job.
func NewJob(params JobParams) (*Job, error) {
	if params.Ledger == nil {
		return nil, errors.New("ledger repository is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Job{
		ledger:  params.Ledger,
		rules:   params.Rules,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

// Name implements cron.Job.
func (j *Job) Name() string {
	return JobName
}

// Run implements cron.Job.
func (j *Job) Run(ctx context.Context) error {
	rows, err := j.ledger.ListAll(ctx)
	if err != nil {
		return err
	}

	updates := make([]ledger.RowUpdate, 0, len(rows))
	for _, row := range rows {
		next := j.rules.DecayStep(row.CurrentPrice, row.BasePrice)
		if next.Equal(row.CurrentPrice) {
			continue
		}
		previous := row.CurrentPrice
		updates = append(updates, ledger.RowUpdate{
			DrinkID:       row.ID,
			NewPrice:      next,
			PreviousPrice: &previous,
		})
	}

	fields := map[string]any{
		"scanned": len(rows),
		"moved":   len(updates),
	}
	logCtx := j.logg.WithFields(ctx, fields)

	if len(updates) == 0 {
		j.logg.Info(logCtx, "decay tick moved no prices")
		return nil
	}

	if err := j.ledger.CommitBatch(ctx, updates); err != nil {
		j.metrics.IncBatchCommit("error")
		return err
	}

	j.metrics.IncBatchCommit("success")
	j.metrics.AddDecayUpdated(len(updates))
	j.logg.Info(logCtx, "decay tick committed")
	return nil
}
