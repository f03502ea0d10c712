package app

import (
	"context"
	"fmt"

	"github.com/NasaVasa/carewatch/internal/config"
	"github.com/NasaVasa/carewatch/internal/delivery/telegram"
	"github.com/NasaVasa/carewatch/internal/delivery/ws"
	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/NasaVasa/carewatch/internal/infra/db"
	"github.com/NasaVasa/carewatch/internal/infra/diary"
	"github.com/NasaVasa/carewatch/internal/infra/log"
	"github.com/NasaVasa/carewatch/internal/infra/metrics"
	"github.com/NasaVasa/carewatch/internal/infra/redis"
	"github.com/NasaVasa/carewatch/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// Core wires the alert engine and its stores. The service and the admin
// CLI share it; only the service starts the network surfaces.
type Core struct {
	Config   config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Users   *db.UserRepository
	Alerts  *db.AlertRepository
	Records *db.RecordRepository
	Inbox   *redis.AdvisoryInbox
	Hub     *ws.Hub

	TelegramAPI *tgbotapi.BotAPI

	Engine   *usecase.AlertEngine
	RecordUC *usecase.RecordUsecase
	AlertUC  *usecase.AlertUsecase
	UserUC   *usecase.UserUsecase
	Sweeper  *usecase.Sweeper

	cleanup []func() error
}

var (
	openDB         = db.Open
	newTelegramAPI = telegram.NewAPI
)

// NewCore releases everything it already opened when a later step fails.
func NewCore(ctx context.Context, cfg config.Config) (*Core, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	core := &Core{Config: cfg, Logger: logger}
	if err := core.wire(ctx); err != nil {
		core.Close()
		return nil, err
	}
	return core, nil
}

func (c *Core) wire(ctx context.Context) error {
	cfg, logger := c.Config, c.Logger

	dbConn, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	c.cleanup = append(c.cleanup, func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c.Metrics = metrics.New(c.Registry)

	c.Users = db.NewUserRepository(dbConn)
	c.Alerts = db.NewAlertRepository(dbConn)
	c.Records = db.NewRecordRepository(dbConn)

	redisClient := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	c.cleanup = append(c.cleanup, redisClient.Close)
	c.Inbox = redis.NewAdvisoryInbox(redisClient, cfg.AdvisoryTTL, cfg.AdvisoryMax)
	if err := c.Inbox.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, advisories will be dropped until it recovers", zap.Error(err))
	}
	c.Hub = ws.NewHub(logger)

	var channel usecase.Channel
	if cfg.TelegramEnabled() {
		api, err := newTelegramAPI(cfg.TelegramBotToken)
		if err != nil {
			return fmt.Errorf("telegram api: %w", err)
		}
		c.TelegramAPI = api
		channel = telegram.NewChannel(api, c.Users, cfg.TelegramRatePerSec, logger)
	} else {
		logger.Info("telegram disabled, notifications go to in-app advisories")
	}
	dispatcher := usecase.NewDispatcher(channel, logger, c.Inbox, c.Hub)

	var source domain.RecordSource = c.Records
	if cfg.DiaryBaseURL != "" {
		source = diary.NewClient(cfg.DiaryBaseURL, cfg.DiaryTimeout, logger)
		logger.Info("reading records from diary service", zap.String("base_url", cfg.DiaryBaseURL))
	}

	loc := cfg.Location()
	c.Engine = usecase.NewAlertEngine(
		usecase.NewMetricAggregator(source, loc),
		usecase.NewRuleEvaluator(cfg.Thresholds()),
		c.Alerts,
		dispatcher,
		logger,
		usecase.WithPruneStale(cfg.AlertPruneStale),
		usecase.WithEngineMetrics(c.Metrics),
		usecase.WithLinkBase(cfg.AlertLinkBase),
	)
	c.RecordUC = usecase.NewRecordUsecase(c.Records, c.Engine, loc, logger)
	c.AlertUC = usecase.NewAlertUsecase(c.Alerts)
	c.UserUC = usecase.NewUserUsecase(c.Users)
	c.Sweeper = usecase.NewSweeper(c.Users, c.Engine, loc, cfg.SweepInterval, cfg.SweepConcurrency, logger)
	return nil
}

func (c *Core) Close() {
	for i := len(c.cleanup) - 1; i >= 0; i-- {
		if err := c.cleanup[i](); err != nil {
			c.Logger.Warn("cleanup failed", zap.Error(err))
		}
	}
	_ = c.Logger.Sync()
}
