// Package assistant wires resolution, market data, indicators, the
// analysis pipeline and the plan store into the operations exposed to the
// front end.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"tinkoff-assistant/internal/agents"
	"tinkoff-assistant/internal/indicators"
	"tinkoff-assistant/internal/logging"
	"tinkoff-assistant/internal/market"
	"tinkoff-assistant/internal/models"
	"tinkoff-assistant/internal/store"
)

// User-facing reply fragments, preserved from the original bot.
const (
	msgTickerNotFound = "тикер не найден"
	msgNoData         = "нет данных"
	msgPlanHeader     = "План для"
)

// Assistant implements the plan-generation and plan-lifecycle pipeline.
type Assistant struct {
	resolver    *market.Resolver
	fetcher     *market.Fetcher
	pipeline    *agents.Pipeline
	plans       store.PlanStore
	tailRows    int
	concurrency int
	logger      zerolog.Logger
}

// Options holds tunable assistant parameters.
type Options struct {
	// TailRows is how many trailing indicator rows feed the LLM stages.
	TailRows int
	// Concurrency bounds how many tickers are processed at once.
	Concurrency int
}

// DefaultOptions returns the default assistant options.
func DefaultOptions() Options {
	return Options{
		TailRows:    40,
		Concurrency: 4,
	}
}

// New creates an assistant over the given collaborators.
func New(resolver *market.Resolver, fetcher *market.Fetcher, pipeline *agents.Pipeline,
	plans store.PlanStore, opts Options, logger zerolog.Logger) *Assistant {
	if opts.TailRows <= 0 {
		opts.TailRows = DefaultOptions().TailRows
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultOptions().Concurrency
	}
	return &Assistant{
		resolver:    resolver,
		fetcher:     fetcher,
		pipeline:    pipeline,
		plans:       plans,
		tailRows:    opts.TailRows,
		concurrency: opts.Concurrency,
		logger:      logger,
	}
}

// CreatePlans runs the full pipeline for each ticker and returns the
// per-ticker result lines separated by blank lines. Per-ticker failures
// (unknown ticker, empty candle series, LLM degradation) produce a status
// line and never abort the rest of the batch. Tickers are processed with
// bounded concurrency; output order follows input order.
func (a *Assistant) CreatePlans(ctx context.Context, tickers []string) (string, error) {
	results := make([]string, len(tickers))

	var wg sync.WaitGroup
	sem := make(chan struct{}, a.concurrency)

	for i, ticker := range tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = a.createPlan(ctx, strings.ToUpper(strings.TrimSpace(ticker)))
		}(i, ticker)
	}
	wg.Wait()

	return strings.Join(results, "\n\n"), nil
}

// createPlan runs the pipeline for a single ticker and renders its result line.
func (a *Assistant) createPlan(ctx context.Context, ticker string) string {
	logger := logging.WithTicker(a.logger, ticker)

	figi, err := a.resolver.Resolve(ctx, ticker)
	if err != nil {
		return fmt.Sprintf("%s: %s", ticker, msgTickerNotFound)
	}

	candles := a.fetcher.Candles(ctx, figi)
	if len(candles) == 0 {
		return fmt.Sprintf("%s: %s", ticker, msgNoData)
	}

	rows := indicators.Augment(candles)
	tabular := indicators.TabularText(indicators.Tail(rows, a.tailRows))

	planText, err := a.pipeline.GeneratePlan(ctx, tabular)
	if err != nil {
		logger.Warn().Err(err).Msg("Plan synthesis degraded")
	}

	id, err := a.plans.AddPlan(ctx, ticker, planText, models.PlanActive)
	if err != nil {
		// Persistence failures must surface, not silently drop the plan.
		logger.Error().Err(err).Msg("Failed to persist plan")
		return fmt.Sprintf("%s: %s", ticker, msgNoData)
	}
	logging.LogPlan(logger, ticker, id, len(planText))

	return fmt.Sprintf("%s %s\n%s", msgPlanHeader, ticker, planText)
}

// Status returns one line per ticker with the last price (two decimal
// places) and the latest plan status when present.
func (a *Assistant) Status(ctx context.Context, tickers []string) (string, error) {
	lines := make([]string, 0, len(tickers))

	for _, raw := range tickers {
		ticker := strings.ToUpper(strings.TrimSpace(raw))
		var b strings.Builder
		b.WriteString(ticker)
		b.WriteString(": ")

		// Price and latest plan are independent lookups; either may be absent.
		var (
			wg    sync.WaitGroup
			price float64
			ok    bool
			rec   *models.PlanRecord
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			figi, err := a.resolver.Resolve(ctx, ticker)
			if err != nil {
				return
			}
			p, err := a.fetcher.LastPrice(ctx, figi)
			if err != nil {
				return
			}
			price, ok = p, true
		}()
		go func() {
			defer wg.Done()
			r, err := a.plans.LatestPlan(ctx, ticker)
			if err != nil {
				a.logger.Error().Err(err).Str("ticker", ticker).Msg("Failed to load latest plan")
				return
			}
			rec = r
		}()
		wg.Wait()

		if ok {
			b.WriteString(fmt.Sprintf("%.2f", price))
		}
		if rec != nil {
			b.WriteString(" | ")
			b.WriteString(string(rec.Status))
		}
		lines = append(lines, b.String())
	}

	return strings.Join(lines, "\n"), nil
}
