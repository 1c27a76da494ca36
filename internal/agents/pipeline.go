package agents

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Pipeline runs the three analysis stages for one ticker: trend and volume
// commentary over the same indicator table, then plan synthesis over their
// joined output.
type Pipeline struct {
	trend   *Stage
	volume  *Stage
	planner *Stage
	logger  zerolog.Logger
}

// NewPipeline creates the standard three-stage pipeline over one LLM client.
func NewPipeline(client LLMClient, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		trend:   NewStage("trend", TrendRole, client, logger),
		volume:  NewStage("volume", VolumeRole, client, logger),
		planner: NewStage("planner", PlannerRole, client, logger),
		logger:  logger,
	}
}

// GeneratePlan produces a trading plan from serialized indicator data.
// Trend and volume stages run concurrently; their outputs are joined in a
// fixed order (trend first, then volume) before planning. A failed stage
// contributes an empty string; planning runs even when both analyses are
// empty, yielding a low-information plan rather than aborting.
func (p *Pipeline) GeneratePlan(ctx context.Context, tabular string) (string, error) {
	var (
		wg         sync.WaitGroup
		trendText  string
		volumeText string
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		trendText, _ = p.trend.Run(ctx, tabular)
	}()
	go func() {
		defer wg.Done()
		volumeText, _ = p.volume.Run(ctx, tabular)
	}()
	wg.Wait()

	if trendText == "" && volumeText == "" {
		p.logger.Warn().Msg("Both analysis stages returned empty output")
	}

	// Join order is fixed regardless of stage completion order.
	return p.planner.Run(ctx, trendText+"\n"+volumeText)
}
