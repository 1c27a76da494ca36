package agents

import (
	"context"

	"github.com/rs/zerolog"

	apperrors "tinkoff-assistant/internal/errors"
)

// Fixed system roles for the three pipeline stages. Stages differ only by
// this configuration, not by behavior.
const (
	TrendRole = "You are AgentTrend. Analyse OHLCV data and indicators to " +
		"identify trend and key levels."
	VolumeRole = "You are AgentVolume. Interpret volume metrics and signal " +
		"strength of buyers and sellers."
	PlannerRole = "You are AgentPlanner. Using analysis from other agents, " +
		"compose a concise trading plan in Russian."
)

// Stage is one step of the analysis pipeline: a fixed system role applied
// to caller-provided content through the LLM capability.
type Stage struct {
	name   string
	role   string
	client LLMClient
	logger zerolog.Logger
}

// NewStage creates a pipeline stage with a fixed system role.
func NewStage(name, role string, client LLMClient, logger zerolog.Logger) *Stage {
	return &Stage{
		name:   name,
		role:   role,
		client: client,
		logger: logger,
	}
}

// Name returns the stage name.
func (s *Stage) Name() string {
	return s.name
}

// Run invokes the LLM with the stage's role. Generation failures degrade
// to an empty string so the pipeline can continue; the error is returned
// for logging but carries no text.
func (s *Stage) Run(ctx context.Context, content string) (string, error) {
	text, err := s.client.Generate(ctx, s.role, content)
	if err != nil {
		s.logger.Warn().Err(err).Str("stage", s.name).Msg("Stage generation failed, degrading to empty output")
		return "", apperrors.NewAgentError(s.name, err)
	}
	return text, nil
}
