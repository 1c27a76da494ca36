package market

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	apperrors "tinkoff-assistant/internal/errors"
)

// Resolver maps ticker symbols to provider FIGI identifiers with a
// process-lifetime cache. Entries are written once and never evicted.
// Failed lookups are not cached, so the next call retries the catalogue.
type Resolver struct {
	provider Provider
	logger   zerolog.Logger

	mu    sync.RWMutex
	cache map[string]string
}

// NewResolver creates a resolver backed by the given provider.
func NewResolver(provider Provider, logger zerolog.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		logger:   logger,
		cache:    make(map[string]string),
	}
}

// Resolve returns the FIGI for the ticker. A cache hit never touches the
// network; a miss performs exactly one catalogue scan. Returns
// ErrTickerNotFound when the catalogue has no match or the provider call
// fails.
func (r *Resolver) Resolve(ctx context.Context, ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	r.mu.RLock()
	figi, ok := r.cache[ticker]
	r.mu.RUnlock()
	if ok {
		return figi, nil
	}

	instruments, err := r.provider.Shares(ctx)
	if err != nil {
		r.logger.Error().Err(err).Str("ticker", ticker).Msg("Failed to resolve FIGI")
		return "", apperrors.NewDataError("shares", ticker, "catalogue fetch failed",
			apperrors.ErrTickerNotFound)
	}

	for _, inst := range instruments {
		if strings.EqualFold(inst.Ticker, ticker) {
			// Concurrent misses for the same ticker may both reach here;
			// values are identical, last write wins.
			r.mu.Lock()
			r.cache[ticker] = inst.FIGI
			r.mu.Unlock()
			r.logger.Debug().Str("ticker", ticker).Str("figi", inst.FIGI).Msg("Resolved FIGI")
			return inst.FIGI, nil
		}
	}

	r.logger.Warn().Str("ticker", ticker).Msg("Ticker not found in share catalogue")
	return "", apperrors.ErrTickerNotFound
}

// CachedCount returns the number of cached resolutions.
func (r *Resolver) CachedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
