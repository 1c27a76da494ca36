package assistant

import (
	"context"
	"fmt"
	"strings"

	apperrors "tinkoff-assistant/internal/errors"
	"tinkoff-assistant/internal/models"
)

// Tracking reply fragments, preserved from the original bot.
const (
	msgNoPlanToTrack = "Нет плана для слежения"
	msgTrackingOn    = "Включено"
	msgTrackingOff   = "Выключено"
)

// Track toggles tracking for the ticker's most recent plan. Only the
// latest record changes state; earlier records keep whatever status they
// already had. Re-applying the current state is a successful no-op.
func (a *Assistant) Track(ctx context.Context, ticker string, enabled bool) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	rec, err := a.plans.LatestPlan(ctx, ticker)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return msgNoPlanToTrack, apperrors.ErrNoPlan
	}

	status := models.PlanActive
	if enabled {
		status = models.PlanTracking
	}
	if err := a.plans.UpdateStatus(ctx, rec.ID, status); err != nil {
		return "", err
	}

	verb := msgTrackingOff
	if enabled {
		verb = msgTrackingOn
	}
	a.logger.Info().Str("ticker", ticker).Int64("plan_id", rec.ID).
		Str("status", string(status)).Msg("Tracking toggled")

	return fmt.Sprintf("%s слежение для %s", verb, ticker), nil
}
