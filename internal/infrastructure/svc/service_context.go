package svc

import (
	"context"
	"fmt"
	"os"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"fundtrack/internal/application/port"
	"fundtrack/internal/application/usecase/track"
	"fundtrack/internal/domain/funding"
	"fundtrack/internal/infrastructure/config"
	"fundtrack/internal/infrastructure/exchange/binance"
	"fundtrack/internal/infrastructure/exchange/demo"
	"fundtrack/internal/infrastructure/storage/composite"
	"fundtrack/internal/infrastructure/storage/csvlog"
	"fundtrack/internal/infrastructure/storage/postgres"
	redisrepo "fundtrack/internal/infrastructure/storage/redis"
	sqliterepo "fundtrack/internal/infrastructure/storage/sqlite"
	"fundtrack/internal/interfaces/console"
)

// ServiceContext 应用启动的唯一装配入口：存储、交易所客户端、会话状态
// 都在这里按依赖顺序初始化，退出时按相反顺序关闭
type ServiceContext struct {
	Config *config.Config
	Resume bool

	Samples *csvlog.Store
	Repo    port.Repository
	Session *funding.Session
	State   *track.State
	Client  port.AccountClient
	Feed    port.MarkFeed
	Sink    port.Sink

	resumeInfo  *csvlog.Resume
	closerChain []func() error
}

func New(ctx context.Context, cfg *config.Config, resume bool) (*ServiceContext, error) {
	sc := &ServiceContext{
		Config: cfg,
		Resume: resume,
		Sink:   console.NewSink(),
		State:  track.NewState(cfg.Sampling.ChartPoints),
	}

	if err := sc.initializeStorage(ctx); err != nil {
		_ = sc.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageInitFailed, err)
	}
	if err := sc.initializeSession(ctx); err != nil {
		_ = sc.Close()
		return nil, err
	}
	if err := sc.initializeClient(ctx); err != nil {
		_ = sc.Close()
		return nil, err
	}
	return sc, nil
}

// initializeStorage 初始化记录文件与事件日志（sqlite 必选，postgres/redis 可选镜像）
func (sc *ServiceContext) initializeStorage(ctx context.Context) error {
	samples, res, err := csvlog.Open(sc.Config.Storage.RecordFile, sc.Resume)
	if err != nil {
		return fmt.Errorf("open record file: %w", err)
	}
	sc.Samples = samples
	sc.resumeInfo = res
	sc.closerChain = append(sc.closerChain, samples.Close)

	sq, err := sqliterepo.New(sc.Config.Storage.SqlitePath)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	repos := []port.Repository{sq}
	sc.closerChain = append(sc.closerChain, sq.Close)
	log.Info().Str("path", sc.Config.Storage.SqlitePath).Msg("event log ready")

	if dsn := sc.Config.Storage.PostgresDSN; dsn != "" {
		pg, err := postgres.New(dsn)
		if err != nil {
			log.Warn().Err(err).Msg("postgres mirror unavailable, continuing without it")
		} else {
			repos = append(repos, pg)
			sc.closerChain = append(sc.closerChain, pg.Close)
		}
	}

	if sc.Config.Storage.Redis.Enabled {
		rdb := redisclient.NewClient(&redisclient.Options{Addr: sc.Config.Storage.Redis.Addr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", sc.Config.Storage.Redis.Addr).Msg("redis unavailable, continuing without it")
			_ = rdb.Close()
		} else {
			ttl := time.Duration(sc.Config.Storage.Redis.TTLSec) * time.Second
			rr := redisrepo.New(rdb, sc.Config.Storage.Redis.Prefix, ttl)
			repos = append(repos, rr)
			sc.closerChain = append(sc.closerChain, rr.Close)
			log.Info().Str("addr", sc.Config.Storage.Redis.Addr).Msg("redis mirror ready")
		}
	}

	if len(repos) == 1 {
		sc.Repo = repos[0]
	} else {
		sc.Repo = composite.New(repos...)
	}
	return nil
}

// initializeSession 恢复或新建会话：计数器来自记录文件，
// 水位线和滚动窗口从事件日志回放重建
func (sc *ServiceContext) initializeSession(ctx context.Context) error {
	now := time.Now().UTC()
	start := now
	res := sc.resumeInfo
	if sc.Resume && res != nil && !res.SessionStart.IsZero() {
		start = res.SessionStart
	}

	sc.Session = funding.NewSession(start, sc.Config.Sampling.RealizedWindowHours)

	if sc.Resume && res != nil && res.Records > 0 {
		sc.Session.Received = res.Received
		sc.Session.Paid = res.Paid

		events, err := sc.Repo.EventsSince(ctx, start)
		if err != nil {
			return fmt.Errorf("event log replay: %w", err)
		}
		n := sc.Session.Rehydrate(events, now)
		log.Info().
			Time("session_start", start).
			Int("records", res.Records).
			Int("events_replayed", n).
			Float64("received", sc.Session.Received).
			Float64("paid", sc.Session.Paid).
			Msg("session resumed")
		return nil
	}

	if err := sc.Repo.Reset(ctx); err != nil {
		log.Warn().Err(err).Msg("event log reset failed")
	}
	log.Info().Time("session_start", start).Msg("fresh session started")
	return nil
}

// initializeClient 选择账户数据源：demo 模式或带签名的 Binance 客户端
func (sc *ServiceContext) initializeClient(ctx context.Context) error {
	if sc.Config.App.Demo {
		log.Info().Msg("demo mode: serving a synthetic account")
		sc.Client = demo.NewClient()
		return nil
	}

	apiKey := os.Getenv("BINANCE_API_KEY")
	apiSecret := os.Getenv("BINANCE_API_SECRET")
	if apiKey == "" || apiSecret == "" {
		return fmt.Errorf("%w: BINANCE_API_KEY / BINANCE_API_SECRET not set and app.demo disabled", ErrNoAccountClient)
	}

	bcfg := sc.Config.Exchange.Binance
	client := binance.NewClient(apiKey, apiSecret, bcfg.RestURL, bcfg.RecvWindowMs)
	if err := client.SyncClock(ctx); err != nil {
		log.Warn().Err(err).Msg("initial clock sync failed, signing with local time")
	}
	sc.Client = client

	if bcfg.WsEnabled {
		sc.Feed = binance.NewMarkPriceFeed(bcfg.WsURL)
	}
	return nil
}

// BuildTrackServiceDeps 构建采样服务所需的全部依赖
func (sc *ServiceContext) BuildTrackServiceDeps() track.ServiceDeps {
	return track.ServiceDeps{
		Client:        sc.Client,
		Feed:          sc.Feed,
		Repo:          sc.Repo,
		Samples:       sc.Samples,
		Sink:          sc.Sink,
		Session:       sc.Session,
		State:         sc.State,
		IntervalSec:   sc.Config.Sampling.IntervalSec,
		HourOffsetSec: sc.Config.Sampling.HourOffsetSec,
		PrintEveryMin: sc.Config.App.PrintEveryMin,
	}
}

// Close 按相反顺序释放所有资源
func (sc *ServiceContext) Close() error {
	for i := len(sc.closerChain) - 1; i >= 0; i-- {
		if err := sc.closerChain[i](); err != nil {
			log.Error().Err(err).Msg("error closing resource")
		}
	}
	return nil
}
