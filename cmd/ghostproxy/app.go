package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/m3rciful/ghostproxy/core/bootstrap"
	"github.com/m3rciful/ghostproxy/core/cmd"
	"github.com/m3rciful/ghostproxy/core/config"
	"github.com/m3rciful/ghostproxy/core/httpserver"
	"github.com/m3rciful/ghostproxy/core/logger"
	"github.com/m3rciful/ghostproxy/core/metrics"
	"github.com/m3rciful/ghostproxy/core/storefront"
	tg "github.com/m3rciful/ghostproxy/core/telegram"
	"github.com/m3rciful/ghostproxy/core/telegram/router"
	"github.com/m3rciful/ghostproxy/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

type app struct {
	cfg   *config.Config
	boot  *bootstrap.Result
	redis *redis.Client
	bot   *tele.Bot
	reg   *tg.Registry
	ops   *httpserver.Server
}

func newApp(ctx context.Context, cfg *config.Config) (cmd.TelegramApp, error) {
	boot, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:  cfg,
		Modules: bootstrap.Modules{Seeders: []bootstrap.Seeder{bootstrap.DefaultCatalog()}},
	})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, boot: boot}

	tracker, err := a.newTracker(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	bot, err := tg.NewBot(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.bot = bot

	engine := storefront.New(boot.Store, tracker, tg.NewMessenger(bot), storefront.Options{
		Brand:         cfg.Storefront.Brand,
		StartImageURL: cfg.Storefront.StartImageURL,
		InfoText:      cfg.Storefront.InfoText,
		FAQText:       cfg.Storefront.FAQText,
		AdminUsername: cfg.Telegram.AdminUsername,
	})
	a.reg = tg.NewRegistry()
	if err := engine.Register(a.reg); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("storefront: register: %w", err)
	}

	metrics.MustRegister()
	if cfg.HTTP.Listen != "" {
		a.ops = httpserver.New(cfg.HTTP.Listen, httpserver.NewRouter(boot.Store, prometheus.DefaultGatherer))
	}
	return a, nil
}

func (a *app) newTracker(ctx context.Context) (state.Tracker, error) {
	s := a.cfg.Session
	if s.Backend != config.SessionRedis {
		return state.NewMemoryTracker(), nil
	}
	client, err := state.NewRedisClient(ctx, s.RedisAddr, s.RedisPassword, s.RedisDB)
	if err != nil {
		return nil, err
	}
	a.redis = client
	logger.Info(ctx, "session", "session.backend",
		slog.String("status", "ok"),
		slog.String("mode", s.Backend),
	)
	return state.NewRedisTracker(client, time.Duration(s.TTLMinutes)*time.Minute), nil
}

func (a *app) TelegramRunOptions() (tg.RunOptions, error) {
	routes := router.CommandRoutes(a.reg, router.CommandRouteOptions{Admin: tg.AdminOptions(a.cfg)})
	routes = append(routes, router.TextRoutes(a.reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(a.reg, router.CallbackOptions{}))

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.reg,
		Bot:         a.bot,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(context.Context, tg.Runtime) error {
			if a.ops == nil {
				return nil
			}
			return a.ops.Start()
		},
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			if a.ops == nil {
				return nil
			}
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return a.ops.Shutdown(ctx)
		},
	}, nil
}

func (a *app) Close() error {
	var redisErr error
	if a.redis != nil {
		redisErr = a.redis.Close()
	}
	if err := a.boot.Close(); err != nil {
		return err
	}
	return redisErr
}
