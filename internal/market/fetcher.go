package market

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	apperrors "tinkoff-assistant/internal/errors"
	"tinkoff-assistant/internal/models"
	"tinkoff-assistant/pkg/utils"
)

// DefaultCandleDays is the default trailing window for candle history.
const DefaultCandleDays = 5

// Fetcher retrieves candle history and last prices for resolved
// instruments. Provider failures degrade: Candles returns an empty series
// and LastPrice returns ErrPriceUnavailable; both are logged and never
// abort the caller's batch.
type Fetcher struct {
	provider Provider
	days     int
	retry    utils.RetryConfig
	logger   zerolog.Logger
}

// NewFetcher creates a fetcher with the given trailing window in days.
func NewFetcher(provider Provider, days int, logger zerolog.Logger) *Fetcher {
	if days <= 0 {
		days = DefaultCandleDays
	}
	return &Fetcher{
		provider: provider,
		days:     days,
		retry:    utils.DefaultRetryConfig(),
		logger:   logger,
	}
}

// Candles fetches the trailing candle window for the instrument. Provider
// ordering is preserved; errors yield an empty series.
func (f *Fetcher) Candles(ctx context.Context, figi string) []models.Candle {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -f.days)

	candles, err := utils.RetryWithResult(ctx, f.retry, func() ([]models.Candle, error) {
		return f.provider.Candles(ctx, figi, from, now)
	})
	if err != nil {
		f.logger.Error().Err(err).Str("figi", figi).Msg("Failed to fetch candles")
		return nil
	}

	f.logger.Debug().Str("figi", figi).Int("candles", len(candles)).Msg("Fetched candles")
	return candles
}

// LastPrice fetches the latest traded price for the instrument.
func (f *Fetcher) LastPrice(ctx context.Context, figi string) (float64, error) {
	price, err := utils.RetryWithResult(ctx, f.retry, func() (float64, error) {
		return f.provider.LastPrice(ctx, figi)
	})
	if err != nil {
		f.logger.Error().Err(err).Str("figi", figi).Msg("Failed to fetch last price")
		return 0, apperrors.ErrPriceUnavailable
	}
	return price, nil
}
