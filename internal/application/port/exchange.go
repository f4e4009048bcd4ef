package port

import (
	"context"
	"time"

	"fundtrack/internal/domain/funding"
)

// AccountClient is the exchange collaborator the sampling loop polls.
// Implementations translate untyped exchange payloads into the fixed
// domain shapes at this boundary; the core never sees raw data.
type AccountClient interface {
	// Positions returns the open book with mark prices filled in.
	// Forecast rates and settlement periods are merged in separately via
	// FundingRates.
	Positions(ctx context.Context) ([]funding.Position, error)

	// Equity returns the account's margin balance.
	Equity(ctx context.Context) (float64, error)

	// FundingEvents returns settled funding cash flows at or after since.
	// The boundary may re-deliver already-seen events; dedup is the
	// caller's job, not the client's.
	FundingEvents(ctx context.Context, since time.Time) ([]funding.Event, error)

	// FundingRates returns the forecast next-period rate and settlement
	// period per symbol.
	FundingRates(ctx context.Context) (map[string]funding.RateQuote, error)
}
