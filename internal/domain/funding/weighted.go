package funding

import "math"

// ForecastAggregate is the notional-weighted view of the forecast (next)
// funding rates across the open book. Recomputed from scratch on every
// position snapshot: forecast rates are a property of the current book,
// never cumulative state.
type ForecastAggregate struct {
	// HourlyRate is Σ(rate_i/period_i * |notional_i|) / Σ|notional_i|.
	HourlyRate float64
	// GrossNotional is Σ|notional_i| over open positions.
	GrossNotional float64
	// NextFee is the expected cash flow of each instrument's next
	// settlement, summed regardless of differing settlement times.
	NextFee float64
	// HourlyFee is the expected cash flow normalized to one hour, which
	// makes 1h/4h/8h instruments comparable.
	HourlyFee float64
}

// AggregateForecast folds the open positions into a single weighted
// forecast. Closed (zero-quantity) and unpriced entries are skipped.
// An empty or flat book yields defined zeroes.
func AggregateForecast(positions []Position) ForecastAggregate {
	var agg ForecastAggregate
	var weighted float64

	for _, p := range positions {
		if p.Quantity == 0 || p.Instrument.MarkPrice == 0 {
			continue
		}
		hourly := HourlyRate(p.Instrument.FundingRate, p.Instrument.PeriodHours)
		abs := math.Abs(p.Notional)

		agg.NextFee += p.Notional * p.Instrument.FundingRate
		agg.HourlyFee += p.Notional * hourly
		agg.GrossNotional += abs
		weighted += hourly * abs
	}

	if agg.GrossNotional > 0 {
		agg.HourlyRate = weighted / agg.GrossNotional
	}
	return agg
}
