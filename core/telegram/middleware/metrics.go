package middleware

import (
	"context"
	"sync/atomic"

	"github.com/m3rciful/ghostproxy/core/metrics"
	tghelpers "github.com/m3rciful/ghostproxy/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

type counters struct {
	messages atomic.Int32
	kb       atomic.Bool
}

type countersKey struct{}

// CountMessage records one outbound message for the update carried by ctx.
func CountMessage(ctx context.Context, hasKB bool) {
	if ctx == nil {
		return
	}
	cnt, ok := ctx.Value(countersKey{}).(*counters)
	if !ok {
		return
	}
	cnt.messages.Add(1)
	if hasKB {
		cnt.kb.Store(true)
	}
}

// UpdateKind classifies an update for rate limiting and metrics.
func UpdateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	case upd.Query != nil:
		return "inline_query"
	}
	return "other"
}

// MessageMetricsMiddleware counts the update and attaches per-update message counters.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		metrics.IncUpdate(UpdateKind(c.Update()))
		ctx := tghelpers.BuildContext(c)
		if _, ok := ctx.Value(countersKey{}).(*counters); !ok {
			tghelpers.StoreContext(c, context.WithValue(ctx, countersKey{}, &counters{}))
		}
		return next(c)
	}
}

// GetCounters reads message count and keyboard presence for the current update.
func GetCounters(c tele.Context) (int, bool) {
	ctx, ok := tghelpers.ContextFrom(c)
	if !ok {
		return 0, false
	}
	cnt, ok := ctx.Value(countersKey{}).(*counters)
	if !ok {
		return 0, false
	}
	return int(cnt.messages.Load()), cnt.kb.Load()
}
