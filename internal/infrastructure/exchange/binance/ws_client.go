package binance

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"fundtrack/internal/application/port"
	"fundtrack/internal/infrastructure/websocket"
)

// MarkPriceFeed streams mark-price updates for all USD-M symbols over
// the !markPrice@arr stream. The sampler filters to its open book;
// subscribing to everything avoids resubscribing as positions change.
type MarkPriceFeed struct {
	wsURL string // e.g. wss://fstream.binance.com
}

func NewMarkPriceFeed(wsURL string) *MarkPriceFeed {
	return &MarkPriceFeed{wsURL: strings.TrimSpace(wsURL)}
}

func (f *MarkPriceFeed) Name() string { return "BINANCE" }

type markPriceMsg struct {
	Symbol    string `json:"s"`
	MarkPrice string `json:"p"`
	EventTime int64  `json:"E"`
}

func (f *MarkPriceFeed) Subscribe(ctx context.Context) (<-chan port.MarkTick, error) {
	wsURL, err := buildStreamURL(f.wsURL)
	if err != nil {
		return nil, err
	}

	out := make(chan port.MarkTick, 1024)
	go f.run(ctx, wsURL, out)
	return out, nil
}

func buildStreamURL(base string) (string, error) {
	if base == "" {
		return "", errors.New("binance ws url empty")
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.Path = "/ws/!markPrice@arr"
	return u.String(), nil
}

func (f *MarkPriceFeed) run(ctx context.Context, wsURL string, out chan<- port.MarkTick) {
	defer close(out)

	backoff := websocket.NewBackoff(websocket.DefaultRetryConfig)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, err := websocket.Dial(ctx, wsURL)
		if err != nil {
			log.Warn().Err(err).Str("url", wsURL).Msg("binance ws dial failed")
			if !websocket.Wait(ctx, backoff.Next()) {
				return
			}
			continue
		}

		log.Info().Str("feed", f.Name()).Msg("mark price stream connected")
		backoff.Reset()

		if err := f.read(ctx, conn, out); err != nil {
			log.Warn().Err(err).Msg("binance ws read failed, reconnecting")
		}
		_ = conn.Close()
	}
}

func (f *MarkPriceFeed) read(ctx context.Context, conn *gorilla.Conn, out chan<- port.MarkTick) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var batch []markPriceMsg
		if err := json.Unmarshal(data, &batch); err != nil {
			continue
		}
		for _, msg := range batch {
			price, err := strconv.ParseFloat(msg.MarkPrice, 64)
			if err != nil || msg.Symbol == "" {
				continue
			}
			tick := port.MarkTick{Symbol: msg.Symbol, Price: price, Ts: msg.EventTime}
			select {
			case out <- tick:
			default:
				// drop on backpressure; the next update supersedes it
			}
		}
	}
}

var _ port.MarkFeed = (*MarkPriceFeed)(nil)
