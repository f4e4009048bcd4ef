package demo

import (
	"context"
	"fmt"
	"math"
	"time"

	"fundtrack/internal/application/port"
	"fundtrack/internal/domain/funding"
)

// instrumentSpec is one synthetic contract in the demo book.
type instrumentSpec struct {
	symbol      string
	periodHours int
	basePrice   float64
	baseRate    float64
	quantity    float64
}

var demoBook = []instrumentSpec{
	{symbol: "BTCUSDT", periodHours: 8, basePrice: 64000, baseRate: 0.0001, quantity: 0.5},
	{symbol: "ETHUSDT", periodHours: 8, basePrice: 3200, baseRate: -0.00005, quantity: -6},
	{symbol: "SOLUSDT", periodHours: 4, basePrice: 180, baseRate: 0.0003, quantity: 150},
	{symbol: "DOGEUSDT", periodHours: 1, basePrice: 0.12, baseRate: 0.0008, quantity: -40000},
}

const demoEquity = 25000.0

// Client serves a synthetic account so the tracker can run without
// API keys. Prices and rates are pure functions of wall time, and
// settlement events fall on the period grid, so every poll over the
// same span replays the same data. The replay is deliberate; it
// exercises the same dedup path a live income query does.
type Client struct {
	now func() time.Time
}

func NewClient() *Client {
	return &Client{now: time.Now}
}

// NewClientAt fixes the clock, for tests.
func NewClientAt(now func() time.Time) *Client {
	return &Client{now: now}
}

func (c *Client) markPrice(spec instrumentSpec, at time.Time) float64 {
	// slow +-0.5% wobble with a per-symbol phase
	phase := float64(len(spec.symbol))
	wobble := 0.005 * math.Sin(float64(at.Unix())/3600.0+phase)
	return spec.basePrice * (1 + wobble)
}

func (c *Client) rate(spec instrumentSpec, at time.Time) float64 {
	phase := float64(len(spec.symbol)) * 2
	wobble := 0.3 * math.Sin(float64(at.Unix())/7200.0+phase)
	return spec.baseRate * (1 + wobble)
}

func (c *Client) Positions(ctx context.Context) ([]funding.Position, error) {
	at := c.now()
	positions := make([]funding.Position, 0, len(demoBook))
	for _, spec := range demoBook {
		mark := c.markPrice(spec, at)
		positions = append(positions, funding.Position{
			Instrument: funding.Instrument{
				Symbol:      spec.symbol,
				PeriodHours: spec.periodHours,
				FundingRate: c.rate(spec, at),
				MarkPrice:   mark,
			},
			Quantity: spec.quantity,
			Notional: spec.quantity * mark,
		})
	}
	return positions, nil
}

func (c *Client) Equity(ctx context.Context) (float64, error) {
	at := c.now()
	return demoEquity * (1 + 0.002*math.Sin(float64(at.Unix())/1800.0)), nil
}

func (c *Client) FundingRates(ctx context.Context) (map[string]funding.RateQuote, error) {
	at := c.now()
	quotes := make(map[string]funding.RateQuote, len(demoBook))
	for _, spec := range demoBook {
		quotes[spec.symbol] = funding.RateQuote{
			Rate:        c.rate(spec, at),
			PeriodHours: spec.periodHours,
		}
	}
	return quotes, nil
}

// FundingEvents emits one settlement per symbol at every period
// boundary in [since, now]. The inclusive boundary re-delivers the
// settlement at exactly since, as the live income query does, so the
// caller's dedup path gets exercised. Fees are the position's notional
// times the rate at the boundary, negated: a positive rate charges longs.
func (c *Client) FundingEvents(ctx context.Context, since time.Time) ([]funding.Event, error) {
	end := c.now()
	var events []funding.Event
	for _, spec := range demoBook {
		step := time.Duration(spec.periodHours) * time.Hour
		at := since.UTC().Truncate(step)
		if at.Before(since) {
			at = at.Add(step)
		}
		for !at.After(end) {
			notional := spec.quantity * c.markPrice(spec, at)
			amount := -c.rate(spec, at) * notional
			events = append(events, funding.Event{
				Symbol: spec.symbol,
				Time:   at,
				ID:     fmt.Sprintf("demo-%s-%d", spec.symbol, at.Unix()),
				Amount: amount,
			})
			at = at.Add(step)
		}
	}
	return events, nil
}

var _ port.AccountClient = (*Client)(nil)
