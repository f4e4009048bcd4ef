package funding

import (
	"math"
	"testing"
)

func TestAggregateForecastMixedPeriods(t *testing.T) {
	positions := []Position{
		{
			Instrument: Instrument{Symbol: "BTCUSDT", PeriodHours: 8, FundingRate: 0.0006, MarkPrice: 60000},
			Quantity:   0.05,
			Notional:   3000,
		},
		{
			Instrument: Instrument{Symbol: "ALTUSDT", PeriodHours: 1, FundingRate: 0.0003, MarkPrice: 2},
			Quantity:   -500,
			Notional:   -1000,
		},
	}

	agg := AggregateForecast(positions)

	if agg.GrossNotional != 4000 {
		t.Fatalf("gross notional = %v, want 4000", agg.GrossNotional)
	}
	// (0.0006/8*3000 + 0.0003/1*1000) / 4000 = 0.00013125
	want := (0.000075*3000 + 0.0003*1000) / 4000
	if math.Abs(agg.HourlyRate-want) > 1e-12 {
		t.Fatalf("weighted hourly rate = %v, want %v", agg.HourlyRate, want)
	}
}

func TestAggregateForecastEmptyBook(t *testing.T) {
	agg := AggregateForecast(nil)
	if agg.HourlyRate != 0 || agg.GrossNotional != 0 {
		t.Fatalf("empty book must yield zeroes, got %+v", agg)
	}
}

func TestAggregateForecastSkipsClosedPositions(t *testing.T) {
	positions := []Position{
		{Instrument: Instrument{Symbol: "BTCUSDT", PeriodHours: 8, FundingRate: 0.01, MarkPrice: 60000}},
		{Instrument: Instrument{Symbol: "ETHUSDT", PeriodHours: 8, FundingRate: 0.0004, MarkPrice: 0}, Quantity: 1},
	}
	agg := AggregateForecast(positions)
	if agg.GrossNotional != 0 {
		t.Fatalf("closed/unpriced positions must be skipped, got gross %v", agg.GrossNotional)
	}
}

func TestAggregateForecastHourlyFee(t *testing.T) {
	positions := []Position{
		{
			Instrument: Instrument{Symbol: "BTCUSDT", PeriodHours: 8, FundingRate: 0.0008, MarkPrice: 50000},
			Quantity:   0.1,
			Notional:   5000,
		},
	}
	agg := AggregateForecast(positions)
	if math.Abs(agg.NextFee-4.0) > 1e-12 {
		t.Fatalf("next fee = %v, want 4.0", agg.NextFee)
	}
	if math.Abs(agg.HourlyFee-0.5) > 1e-12 {
		t.Fatalf("hourly fee = %v, want 0.5", agg.HourlyFee)
	}
}
