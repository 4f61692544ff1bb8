package telegram

import (
	"strings"
	"time"

	coreconfig "github.com/m3rciful/ghostproxy/core/config"
	"github.com/m3rciful/ghostproxy/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares builds the global chain: recover, logging context, counters, rate limit.
// The rate limiter runs last so dropped updates are still logged and counted.
func DefaultMiddlewares(cfg *coreconfig.Config, onLimited func(tele.Context) error) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	}

	if cfg == nil {
		return mws
	}
	interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond
	if interval <= 0 {
		return mws
	}
	ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
	for _, t := range cfg.RateLimit.ExcludeUpdates {
		ex[strings.ToLower(t)] = struct{}{}
	}
	return append(mws, Middleware{
		Name: "rate_limit",
		Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
			Interval:  interval,
			Exclude:   ex,
			OnLimited: onLimited,
		}),
	})
}

// AdminOptions derives the privileged identity check from configuration.
func AdminOptions(cfg *coreconfig.Config) middleware.AdminOptions {
	if cfg == nil {
		return middleware.AdminOptions{}
	}
	return middleware.AdminOptions{
		AdminID:       cfg.Telegram.AdminID,
		AdminUsername: cfg.Telegram.AdminUsername,
	}
}
