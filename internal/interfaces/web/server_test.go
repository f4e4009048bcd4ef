package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fundtrack/internal/application/usecase/track"
	"fundtrack/internal/domain/funding"
)

func get(t *testing.T, srv *Server, path string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.http.Handler.ServeHTTP(rec, req)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json from %s: %v", path, err)
	}
	return rec.Code, body
}

func TestSnapshotBeforeFirstTick(t *testing.T) {
	srv := NewServer(":0", track.NewState(10))

	code, body := get(t, srv, "/api/snapshot")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["initialized"] != false {
		t.Fatalf("expected initialized=false, got %v", body["initialized"])
	}
	if _, present := body["snapshot"]; present {
		t.Fatal("expected no snapshot payload before first tick")
	}
}

func TestSnapshotAfterPublish(t *testing.T) {
	state := track.NewState(10)
	state.Publish(track.Snapshot{
		Time:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Equity: 10000,
		Stats:  funding.Stats{Net: 4.5, DailyYield: funding.Undefined()},
	})
	srv := NewServer(":0", state)

	code, body := get(t, srv, "/api/snapshot")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["initialized"] != true {
		t.Fatalf("expected initialized=true, got %v", body["initialized"])
	}
	snap, ok := body["snapshot"].(map[string]any)
	if !ok {
		t.Fatalf("expected snapshot object, got %T", body["snapshot"])
	}
	if snap["equity"] != 10000.0 {
		t.Fatalf("expected equity 10000, got %v", snap["equity"])
	}

	stats, _ := snap["stats"].(map[string]any)
	if stats["DailyYield"] != nil {
		t.Fatalf("expected undefined yield to serialize as null, got %v", stats["DailyYield"])
	}
}

func TestChartEndpoint(t *testing.T) {
	state := track.NewState(10)
	state.Publish(track.Snapshot{Time: time.Now(), Stats: funding.Stats{Net: 1}})
	state.Publish(track.Snapshot{Time: time.Now(), Stats: funding.Stats{Net: 2}})
	srv := NewServer(":0", state)

	code, body := get(t, srv, "/api/chart")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	points, ok := body["points"].([]any)
	if !ok {
		t.Fatalf("expected points array, got %T", body["points"])
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
}

func TestHealthz(t *testing.T) {
	srv := NewServer(":0", track.NewState(10))
	code, body := get(t, srv, "/healthz")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected health response: %d %v", code, body)
	}
}
