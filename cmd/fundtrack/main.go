package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"fundtrack/internal/application/usecase/track"
	"fundtrack/internal/infrastructure/config"
	"fundtrack/internal/infrastructure/logger"
	"fundtrack/internal/infrastructure/svc"
	"fundtrack/internal/interfaces/web"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	reset := flag.Bool("reset", false, "discard the record file and event log, start a fresh session")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}
	logger.Setup(cfg.App.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resume := cfg.App.Resume && !*reset

	sc, err := svc.New(ctx, cfg, resume)
	if err != nil {
		log.Fatal().Err(err).Msg("initialization failed")
	}
	defer sc.Close()

	if cfg.Web.Enabled {
		srv := web.NewServer(cfg.Web.Addr, sc.State)
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Error().Err(err).Msg("web server exited")
			}
		}()
	}

	service := track.NewService(sc.BuildTrackServiceDeps())

	log.Info().
		Str("config", *configPath).
		Bool("demo", cfg.App.Demo).
		Bool("resume", resume).
		Int("interval_sec", cfg.Sampling.IntervalSec).
		Bool("hour_aligned", cfg.HourAligned()).
		Float64("window_hours", cfg.Sampling.RealizedWindowHours).
		Msg("fundtrack started")

	if err := service.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("tracking service exited")
	}
}
