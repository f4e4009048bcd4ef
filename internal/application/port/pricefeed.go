package port

import "context"

type MarkTick struct {
	Symbol string
	Price  float64
	Ts     int64 // unix ms
}

// MarkFeed streams mark-price updates between polls. Optional: when
// absent, notional only refreshes on the polling cadence.
type MarkFeed interface {
	Name() string
	Subscribe(ctx context.Context) (<-chan MarkTick, error)
}
