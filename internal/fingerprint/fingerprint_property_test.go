package fingerprint

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/valeriluca/earnings-calendar/internal/model"
)

// Property: the fingerprint is a function of the (symbol, date, time) set,
// not of fetch order. Any permutation of the same events must produce an
// identical fingerprint.
func TestProperty_FingerprintIsOrderIndependent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	symbols := []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA"}
	dates := []string{"2025-12-08", "2025-12-09", "2025-12-10", "2025-12-11", "2025-12-12"}
	times := []model.EarningsTime{
		model.TimeBeforeOpen, model.TimeAfterClose, model.TimeDuringMarket, model.TimeUnknown,
	}

	eventGen := gopter.CombineGens(
		gen.IntRange(0, len(symbols)-1),
		gen.IntRange(0, len(dates)-1),
		gen.IntRange(0, len(times)-1),
	).Map(func(vals []interface{}) model.EarningsEvent {
		return model.EarningsEvent{
			Symbol: symbols[vals[0].(int)],
			Date:   dates[vals[1].(int)],
			Time:   times[vals[2].(int)],
		}
	})

	properties.Property("permutations fingerprint identically", prop.ForAll(
		func(events []model.EarningsEvent, seed int64) bool {
			shuffled := make([]model.EarningsEvent, len(events))
			copy(shuffled, events)
			// Deterministic Fisher-Yates driven by the generated seed.
			s := seed
			for i := len(shuffled) - 1; i > 0; i-- {
				s = s*6364136223846793005 + 1442695040888963407
				j := int((s%int64(i+1) + int64(i+1)) % int64(i+1))
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			}
			return Compute(events) == Compute(shuffled)
		},
		gen.SliceOf(eventGen),
		gen.Int64(),
	))

	properties.Property("duplicate events do not change the fingerprint of their own order", prop.ForAll(
		func(events []model.EarningsEvent) bool {
			doubled := append(append([]model.EarningsEvent{}, events...), events...)
			reversed := make([]model.EarningsEvent, len(doubled))
			for i, e := range doubled {
				reversed[len(doubled)-1-i] = e
			}
			return Compute(doubled) == Compute(reversed)
		},
		gen.SliceOf(eventGen),
	))

	properties.TestingRun(t)
}
