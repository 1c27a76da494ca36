package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tinkoff-assistant/internal/models"
)

// Property: for any batch of concurrent adds, assigned ids are unique and
// the latest record per ticker carries the maximum id.
func TestProperty_ConcurrentAddsAssignUniqueIDs(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)

	tickersGen := gen.SliceOfN(8, gen.OneConstOf("SBER", "LKOH", "GAZP"))

	properties.Property("concurrent adds never share an id", prop.ForAll(
		func(tickers []string) bool {
			path := filepath.Join(t.TempDir(), "plans.db")
			s, err := NewSQLiteStore(path)
			if err != nil {
				return false
			}
			defer s.Close()

			ctx := context.Background()
			ids := make([]int64, len(tickers))
			errs := make([]error, len(tickers))

			var wg sync.WaitGroup
			for i, ticker := range tickers {
				wg.Add(1)
				go func(i int, ticker string) {
					defer wg.Done()
					ids[i], errs[i] = s.AddPlan(ctx, ticker, "plan", models.PlanActive)
				}(i, ticker)
			}
			wg.Wait()

			seen := make(map[int64]bool, len(ids))
			var maxID int64
			for i := range ids {
				if errs[i] != nil {
					return false
				}
				if seen[ids[i]] {
					return false
				}
				seen[ids[i]] = true
				if ids[i] > maxID {
					maxID = ids[i]
				}
			}

			// The latest record of each ticker carries that ticker's max id.
			perTickerMax := make(map[string]int64)
			for i, ticker := range tickers {
				if ids[i] > perTickerMax[ticker] {
					perTickerMax[ticker] = ids[i]
				}
			}
			for ticker, want := range perTickerMax {
				rec, err := s.LatestPlan(ctx, ticker)
				if err != nil || rec == nil || rec.ID != want {
					return false
				}
			}
			return true
		},
		tickersGen,
	))

	properties.TestingRun(t)
}
