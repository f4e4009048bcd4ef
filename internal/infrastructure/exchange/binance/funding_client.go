package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"fundtrack/internal/domain/funding"
)

const incomePageLimit = 1000

// FundingClient queries the funding side of the USD-M futures API:
// forecast rates, settlement intervals and settled funding income.
type FundingClient struct {
	*APIClient
}

func NewFundingClient(client *APIClient) *FundingClient {
	return &FundingClient{APIClient: client}
}

type premiumIndexEntry struct {
	Symbol          string `json:"symbol"`
	LastFundingRate string `json:"lastFundingRate"`
}

type fundingInfoEntry struct {
	Symbol               string `json:"symbol"`
	FundingIntervalHours int    `json:"fundingIntervalHours"`
}

// FundingRates returns the forecast next-period rate and the settlement
// period per symbol. Symbols absent from /fundingInfo settle on the
// exchange default and resolve to 8h.
func (c *FundingClient) FundingRates(ctx context.Context) (map[string]funding.RateQuote, error) {
	body, err := c.publicRequest(ctx, "/fapi/v1/premiumIndex", nil)
	if err != nil {
		return nil, fmt.Errorf("get premium index: %w", err)
	}

	var entries []premiumIndexEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		// a single-symbol response is an object, not an array
		var one premiumIndexEntry
		if err2 := json.Unmarshal(body, &one); err2 != nil {
			return nil, fmt.Errorf("unmarshal premium index: %w", err)
		}
		entries = []premiumIndexEntry{one}
	}

	intervals, err := c.fundingIntervals(ctx)
	if err != nil {
		return nil, err
	}

	quotes := make(map[string]funding.RateQuote, len(entries))
	for _, e := range entries {
		if e.Symbol == "" {
			continue
		}
		rate, err := strconv.ParseFloat(e.LastFundingRate, 64)
		if err != nil {
			continue
		}
		quotes[e.Symbol] = funding.RateQuote{
			Rate:        rate,
			PeriodHours: funding.ResolvePeriod(intervals[e.Symbol]),
		}
	}
	return quotes, nil
}

func (c *FundingClient) fundingIntervals(ctx context.Context) (map[string]int, error) {
	body, err := c.publicRequest(ctx, "/fapi/v1/fundingInfo", nil)
	if err != nil {
		return nil, fmt.Errorf("get funding info: %w", err)
	}

	var entries []fundingInfoEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal funding info: %w", err)
	}

	intervals := make(map[string]int, len(entries))
	for _, e := range entries {
		if e.Symbol != "" && e.FundingIntervalHours > 0 {
			intervals[e.Symbol] = e.FundingIntervalHours
		}
	}
	return intervals, nil
}

type incomeEntry struct {
	Symbol     string `json:"symbol"`
	IncomeType string `json:"incomeType"`
	Income     string `json:"income"`
	Time       int64  `json:"time"`
	TranID     int64  `json:"tranId"`
}

// FundingEvents pages through the FUNDING_FEE income history from since
// to now. The boundary page can re-deliver events the caller already
// counted; deduplication is the caller's responsibility.
func (c *FundingClient) FundingEvents(ctx context.Context, since time.Time) ([]funding.Event, error) {
	end := c.clock.Now().UnixMilli()
	pageStart := since.UnixMilli()
	if pageStart < 0 {
		pageStart = 0
	}

	var events []funding.Event
	for pageStart <= end {
		params := url.Values{}
		params.Set("incomeType", "FUNDING_FEE")
		params.Set("startTime", strconv.FormatInt(pageStart, 10))
		params.Set("endTime", strconv.FormatInt(end, 10))
		params.Set("limit", strconv.Itoa(incomePageLimit))

		body, err := c.signedRequest(ctx, "GET", "/fapi/v1/income", params)
		if err != nil {
			return nil, fmt.Errorf("get income history: %w", err)
		}

		var entries []incomeEntry
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, fmt.Errorf("unmarshal income history: %w", err)
		}
		if len(entries) == 0 {
			break
		}

		lastTime := pageStart
		for _, e := range entries {
			amount, err := strconv.ParseFloat(e.Income, 64)
			if err != nil {
				continue
			}
			if e.Time > lastTime {
				lastTime = e.Time
			}
			events = append(events, funding.Event{
				Symbol: e.Symbol,
				Time:   time.UnixMilli(e.Time).UTC(),
				ID:     strconv.FormatInt(e.TranID, 10),
				Amount: amount,
			})
		}

		if len(entries) < incomePageLimit {
			break
		}
		pageStart = lastTime + 1
	}
	return events, nil
}
