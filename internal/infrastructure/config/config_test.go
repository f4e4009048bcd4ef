package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "[app]\ndemo = true\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.App.Demo {
		t.Error("demo flag lost")
	}
	if cfg.Sampling.IntervalSec != 300 {
		t.Errorf("interval default = %d, want 300", cfg.Sampling.IntervalSec)
	}
	if cfg.Sampling.RealizedWindowHours != 24 {
		t.Errorf("window default = %v, want 24", cfg.Sampling.RealizedWindowHours)
	}
	if cfg.Sampling.ChartPoints != 120 {
		t.Errorf("chart points default = %d, want 120", cfg.Sampling.ChartPoints)
	}
	if cfg.HourAligned() {
		t.Error("hour alignment must be off when hour_offset_sec is absent")
	}
}

func TestLoadHourAlignment(t *testing.T) {
	path := writeConfig(t, "[sampling]\nhour_offset_sec = 0\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.HourAligned() {
		t.Error("hour_offset_sec = 0 must enable alignment at the top of the hour")
	}

	path = writeConfig(t, "[sampling]\nhour_offset_sec = 4000\n")
	if _, err := Load(path); err == nil {
		t.Error("offset >= 3600 must be rejected")
	}
}

func TestLoadRedisValidation(t *testing.T) {
	path := writeConfig(t, "[storage.redis]\nenabled = true\n")
	if _, err := Load(path); err == nil {
		t.Error("enabled redis without addr must fail")
	}
}
