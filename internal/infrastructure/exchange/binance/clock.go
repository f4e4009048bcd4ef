package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Clock tracks the offset between the local clock and the exchange's
// server time. Signed requests stamp themselves with the corrected time;
// a fresh Sync is the remedy for a recvWindow (-1021) rejection.
type Clock struct {
	mu         sync.Mutex
	offset     time.Duration
	baseURL    string
	httpClient *http.Client
}

func NewClock(baseURL string, httpClient *http.Client) *Clock {
	return &Clock{baseURL: baseURL, httpClient: httpClient}
}

// Now returns the local time shifted by the last measured offset.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().Add(c.offset)
}

// Sync measures the offset against /fapi/v1/time.
func (c *Clock) Sync(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/fapi/v1/time", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("time sync request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("time sync http %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		ServerTime int64 `json:"serverTime"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("time sync decode: %w", err)
	}

	offset := time.UnixMilli(payload.ServerTime).Sub(time.Now())

	c.mu.Lock()
	c.offset = offset
	c.mu.Unlock()

	log.Debug().Dur("offset", offset).Msg("binance clock synced")
	return nil
}
