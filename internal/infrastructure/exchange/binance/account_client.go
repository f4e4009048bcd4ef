package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"fundtrack/internal/domain/funding"
)

// AccountClient queries the account side of the USD-M futures API:
// open positions and margin balance.
type AccountClient struct {
	*APIClient
}

func NewAccountClient(client *APIClient) *AccountClient {
	return &AccountClient{APIClient: client}
}

type positionRiskEntry struct {
	Symbol           string `json:"symbol"`
	PositionAmt      string `json:"positionAmt"`
	MarkPrice        string `json:"markPrice"`
	UnRealizedProfit string `json:"unRealizedProfit"`
}

// Positions returns the open book. Forecast rates and settlement periods
// are left zero here; the sampler merges them in from FundingRates so
// the two polls stay independent.
func (c *AccountClient) Positions(ctx context.Context) ([]funding.Position, error) {
	body, err := c.signedRequest(ctx, "GET", "/fapi/v2/positionRisk", nil)
	if err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}

	var entries []positionRiskEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal positions: %w", err)
	}

	positions := make([]funding.Position, 0, len(entries))
	for _, e := range entries {
		qty, err := strconv.ParseFloat(e.PositionAmt, 64)
		if err != nil || qty == 0 {
			continue
		}
		mark, err := strconv.ParseFloat(e.MarkPrice, 64)
		if err != nil || mark == 0 {
			continue
		}
		upnl, _ := strconv.ParseFloat(e.UnRealizedProfit, 64)

		positions = append(positions, funding.Position{
			Instrument: funding.Instrument{
				Symbol:      e.Symbol,
				PeriodHours: funding.DefaultPeriodHours,
				MarkPrice:   mark,
			},
			Quantity:      qty,
			Notional:      qty * mark,
			UnrealizedPnL: upnl,
		})
	}
	return positions, nil
}

type accountResponse struct {
	TotalMarginBalance string `json:"totalMarginBalance"`
}

// Equity returns the account's total margin balance (wallet balance
// plus unrealized PnL).
func (c *AccountClient) Equity(ctx context.Context) (float64, error) {
	body, err := c.signedRequest(ctx, "GET", "/fapi/v2/account", nil)
	if err != nil {
		return 0, fmt.Errorf("get account: %w", err)
	}

	var resp accountResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("unmarshal account: %w", err)
	}

	equity, err := strconv.ParseFloat(resp.TotalMarginBalance, 64)
	if err != nil {
		return 0, fmt.Errorf("parse margin balance %q: %w", resp.TotalMarginBalance, err)
	}
	return equity, nil
}
