package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"
)

// ===== Credentials =====

// Credentials holds the API key pair and signs request payloads.
type Credentials struct {
	apiKey    string
	apiSecret string
}

func NewCredentials(apiKey, apiSecret string) *Credentials {
	return &Credentials{
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

// Sign generates the HMAC-SHA256 signature over the query string.
func (c *Credentials) Sign(data string) string {
	h := hmac.New(sha256.New, []byte(c.apiSecret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Credentials) APIKey() string {
	return c.apiKey
}

// APIClient is the shared signed/public REST transport for the USD-M
// futures API. One instance backs all the typed clients.
type APIClient struct {
	credentials *Credentials
	httpClient  *http.Client
	baseURL     string
	recvWindow  string
	clock       *Clock
}

func NewAPIClient(apiKey, apiSecret, baseURL string, recvWindowMs int) *APIClient {
	if baseURL == "" {
		baseURL = "https://fapi.binance.com"
	}
	if recvWindowMs <= 0 {
		recvWindowMs = 5000
	}
	httpClient := &http.Client{Timeout: 10 * time.Second}
	return &APIClient{
		credentials: NewCredentials(apiKey, apiSecret),
		httpClient:  httpClient,
		baseURL:     baseURL,
		recvWindow:  strconv.Itoa(recvWindowMs),
		clock:       NewClock(baseURL, httpClient),
	}
}

// Clock exposes the offset-corrected clock for callers that need
// exchange-aligned timestamps.
func (c *APIClient) Clock() *Clock { return c.clock }

// AccountManager bundles the typed clients over one transport.
type AccountManager struct {
	Account *AccountClient
	Funding *FundingClient
}

func NewAccountManager(apiKey, apiSecret, baseURL string, recvWindowMs int) *AccountManager {
	apiClient := NewAPIClient(apiKey, apiSecret, baseURL, recvWindowMs)
	return &AccountManager{
		Account: NewAccountClient(apiClient),
		Funding: NewFundingClient(apiClient),
	}
}
