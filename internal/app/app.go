package app

import (
	"context"

	"github.com/NasaVasa/carewatch/internal/config"
	"github.com/NasaVasa/carewatch/internal/delivery/httpapi"
	"github.com/NasaVasa/carewatch/internal/delivery/telegram"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	core   *Core
	http   *httpapi.Server
	bot    *telegram.Bot
	logger *zap.Logger
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	core, err := NewCore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	server := httpapi.NewServer(cfg.HTTPAddr, httpapi.Deps{
		Records:    core.RecordUC,
		Alerts:     core.AlertUC,
		Engine:     core.Engine,
		Advisories: core.Inbox,
		Users:      core.UserUC,
		Sockets:    core.Hub,
		Metrics:    core.Metrics,
		Gatherer:   core.Registry,
		Location:   cfg.Location(),
		Logger:     core.Logger,
	})

	var bot *telegram.Bot
	if core.TelegramAPI != nil {
		handlers := telegram.NewHandlers(core.UserUC, core.AlertUC, cfg.Location(), core.Logger)
		bot = telegram.NewBot(core.TelegramAPI, handlers, cfg.TelegramPollTimeout)
	}

	return &App{core: core, http: server, bot: bot, logger: core.Logger}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("carewatch service starting")

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return a.core.Hub.Run(ctx) })
	group.Go(func() error { return a.http.Run(ctx) })
	group.Go(func() error { return a.core.Sweeper.Run(ctx) })
	if a.bot != nil {
		group.Go(func() error { return a.bot.Start(ctx) })
	}

	a.logger.Info("carewatch service started")
	return group.Wait()
}

func (a *App) Shutdown() {
	a.logger.Info("carewatch service shutting down")
	a.core.Close()
}
