package config

import (
	"errors"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App struct {
		Demo          bool `toml:"demo"`
		Resume        bool `toml:"resume"`
		Debug         bool `toml:"debug"`
		PrintEveryMin int  `toml:"print_every_min"`
	} `toml:"app"`

	Sampling struct {
		IntervalSec         int     `toml:"interval_sec"`
		HourOffsetSec       int     `toml:"hour_offset_sec"` // >=0 aligns ticks to each clock hour + offset
		RealizedWindowHours float64 `toml:"realized_window_hours"`
		ChartPoints         int     `toml:"chart_points"`
	} `toml:"sampling"`

	Exchange struct {
		Binance struct {
			RestURL      string `toml:"rest_url"`
			WsURL        string `toml:"ws_url"`
			WsEnabled    bool   `toml:"ws_enabled"`
			RecvWindowMs int    `toml:"recv_window_ms"`
		} `toml:"binance"`
	} `toml:"exchange"`

	Storage struct {
		RecordFile  string `toml:"record_file"`
		SqlitePath  string `toml:"sqlite_path"`
		PostgresDSN string `toml:"postgres_dsn"`

		Redis struct {
			Enabled bool   `toml:"enabled"`
			Addr    string `toml:"addr"`
			Prefix  string `toml:"prefix"`
			TTLSec  int    `toml:"ttl_sec"`
		} `toml:"redis"`
	} `toml:"storage"`

	Web struct {
		Enabled bool   `toml:"enabled"`
		Addr    string `toml:"addr"`
	} `toml:"web"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	// pre-set so a zero in the file still means "aligned to the top of
	// the hour" while an absent key means disabled
	cfg.Sampling.HourOffsetSec = -1
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.PrintEveryMin <= 0 {
		cfg.App.PrintEveryMin = 5
	}
	if cfg.Sampling.IntervalSec <= 0 {
		cfg.Sampling.IntervalSec = 300
	}
	if cfg.Sampling.RealizedWindowHours <= 0 {
		cfg.Sampling.RealizedWindowHours = 24
	}
	if cfg.Sampling.ChartPoints <= 0 {
		cfg.Sampling.ChartPoints = 120
	}
	if cfg.Exchange.Binance.RestURL == "" {
		cfg.Exchange.Binance.RestURL = "https://fapi.binance.com"
	}
	if cfg.Exchange.Binance.WsURL == "" {
		cfg.Exchange.Binance.WsURL = "wss://fstream.binance.com"
	}
	if cfg.Exchange.Binance.RecvWindowMs <= 0 {
		cfg.Exchange.Binance.RecvWindowMs = 5000
	}
	if cfg.Storage.RecordFile == "" {
		cfg.Storage.RecordFile = "output/funding_records.csv"
	}
	if cfg.Storage.SqlitePath == "" {
		cfg.Storage.SqlitePath = "output/fundtrack.db"
	}
	if cfg.Storage.Redis.Prefix == "" {
		cfg.Storage.Redis.Prefix = "fundtrack"
	}
	if cfg.Web.Addr == "" {
		cfg.Web.Addr = ":8081"
	}
}

func validate(cfg *Config) error {
	if cfg.Sampling.HourOffsetSec >= 3600 {
		return errors.New("sampling.hour_offset_sec must be below 3600")
	}
	if cfg.Storage.Redis.Enabled && strings.TrimSpace(cfg.Storage.Redis.Addr) == "" {
		return errors.New("storage.redis.addr empty but enabled")
	}
	if cfg.Web.Enabled && strings.TrimSpace(cfg.Web.Addr) == "" {
		return errors.New("web.addr empty but enabled")
	}
	return nil
}

// HourAligned reports whether sampling should align to a fixed offset
// within each clock hour instead of a plain interval.
func (c *Config) HourAligned() bool {
	return c.Sampling.HourOffsetSec >= 0
}
