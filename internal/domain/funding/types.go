package funding

import (
	"encoding/json"
	"time"
)

// Instrument is a perpetual contract as seen on the last position poll.
type Instrument struct {
	Symbol      string
	PeriodHours int     // settlement period, one of 1/4/8
	FundingRate float64 // forecast rate for the next settlement period
	MarkPrice   float64
}

// Position is one leg of the account's book. Notional is signed
// (quantity * mark price); shorts are negative.
type Position struct {
	Instrument    Instrument
	Quantity      float64
	Notional      float64
	UnrealizedPnL float64
}

// Event is a settled funding cash flow. Amount is signed: positive means
// the account received funding. ID is the exchange-assigned identifier and
// is the authority on event identity; Time is the settlement timestamp.
type Event struct {
	Symbol string
	Time   time.Time
	ID     string
	Amount float64
}

// RateQuote is a forecast funding rate scoped to its settlement period.
type RateQuote struct {
	Rate        float64
	PeriodHours int
}

// Metric carries a derived value that may be undefined (zero denominator).
// Callers must check Defined; an undefined Metric marshals to JSON null so
// it never leaks as 0, Inf or NaN.
type Metric struct {
	Value   float64
	Defined bool
}

func DefinedMetric(v float64) Metric { return Metric{Value: v, Defined: true} }

func Undefined() Metric { return Metric{} }

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Metric{}
		return nil
	}
	m.Defined = true
	return json.Unmarshal(b, &m.Value)
}

// Sample is one accepted observation in the durable output stream.
// Immutable once created; exactly one is written per accepted tick.
type Sample struct {
	Time          time.Time
	Equity        float64
	GrossNotional float64
	Leverage      Metric
	Received      float64
	Paid          float64
	Net           float64
	DailyNet      float64
	MonthlyNet    float64
	AnnualNet     float64
	DailyYield    Metric
	MonthlyYield  Metric
	AnnualYield   Metric
}
