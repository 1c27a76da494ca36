// Package market provides market-data access: instrument resolution,
// historical candles and last traded prices.
package market

import (
	"context"
	"time"

	"tinkoff-assistant/internal/models"
)

// Provider defines the capability consumed from the market-data collaborator.
// Implementations perform one network call per method invocation.
type Provider interface {
	// Shares returns the provider's share catalogue.
	Shares(ctx context.Context) ([]models.Instrument, error)
	// Candles returns 15-minute candles for the instrument in [from, to],
	// in the provider's order (assumed ascending by timestamp).
	Candles(ctx context.Context, figi string, from, to time.Time) ([]models.Candle, error)
	// LastPrice returns the latest traded price for the instrument.
	LastPrice(ctx context.Context, figi string) (float64, error)
}
