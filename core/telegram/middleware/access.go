package middleware

import (
	"log/slog"
	"strings"

	"github.com/m3rciful/ghostproxy/core/logger"
	tghelpers "github.com/m3rciful/ghostproxy/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions identifies the single privileged caller.
// AdminID wins when set; otherwise AdminUsername is compared case-insensitively.
type AdminOptions struct {
	AdminID       int64
	AdminUsername string
	OnReject      tele.HandlerFunc
}

// Allows reports whether u is the configured privileged identity.
func (o AdminOptions) Allows(u *tele.User) bool {
	if u == nil {
		return false
	}
	if o.AdminID != 0 {
		return u.ID == o.AdminID
	}
	want := NormalizeUsername(o.AdminUsername)
	return want != "" && NormalizeUsername(u.Username) == want
}

// NormalizeUsername lowercases a handle and strips a leading "@".
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "@"))
}

// AdminOnlyMiddleware ensures that only the admin user can invoke downstream handlers.
// Rejected callers get OnReject, or nothing at all.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !opts.Allows(c.Sender()) {
				ctx := tghelpers.BuildContext(c)
				logger.LogEvent(ctx, logger.TG, slog.LevelDebug, "admin.reject",
					slog.String("status", "skip"),
				)
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
