package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ErrClockSkew marks a request rejected for a timestamp outside the
// recvWindow (Binance code -1021).
var ErrClockSkew = errors.New("binance clock skew (-1021)")

const codeClockSkew = -1021

// signedRequest is the shared helper for signed REST calls. A -1021
// rejection triggers exactly one clock resync and retry; a second
// failure is returned to the caller as a plain request error.
func (c *APIClient) signedRequest(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	body, err := c.signedRequestOnce(ctx, method, path, params)
	if !errors.Is(err, ErrClockSkew) {
		return body, err
	}

	if syncErr := c.clock.Sync(ctx); syncErr != nil {
		return nil, fmt.Errorf("resync after clock skew: %w", syncErr)
	}
	return c.signedRequestOnce(ctx, method, path, params)
}

func (c *APIClient) signedRequestOnce(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("timestamp", strconv.FormatInt(c.clock.Now().UnixMilli(), 10))
	if q.Get("recvWindow") == "" {
		q.Set("recvWindow", c.recvWindow)
	}

	query := q.Encode()
	signature := c.credentials.Sign(query)
	endpoint := fmt.Sprintf("%s%s?%s&signature=%s", strings.TrimRight(c.baseURL, "/"), path, query, signature)

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-MBX-APIKEY", c.credentials.APIKey())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		if apiCode(body) == codeClockSkew {
			return nil, ErrClockSkew
		}
		return nil, fmt.Errorf("binance http %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// publicRequest fetches an unsigned endpoint.
func (c *APIClient) publicRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := strings.TrimRight(c.baseURL, "/") + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance http %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func apiCode(body []byte) int {
	var payload struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0
	}
	return payload.Code
}
