// Package storefront is the conversation engine of the shop bot. Every screen a
// user sees is a view; showing a view replaces the previous one in the chat.
package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/ghostproxy/core/logger"
	"github.com/m3rciful/ghostproxy/core/metrics"
	"github.com/m3rciful/ghostproxy/core/store"
	tg "github.com/m3rciful/ghostproxy/core/telegram"
	"github.com/m3rciful/ghostproxy/core/telegram/state"
)

// Messenger is the chat platform as seen by the engine.
type Messenger interface {
	Send(ctx context.Context, chatID int64, msg tg.Message) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, msg tg.Message) error
	Delete(ctx context.Context, chatID int64, messageID int) error
	Answer(ctx context.Context, callbackID, text string, alert bool) error
}

// Store is the subset of the catalog/user store the engine reads and writes.
type Store interface {
	UpsertUser(ctx context.Context, id int64, displayName string) (bool, error)
	GetUserInfo(ctx context.Context, id int64) (*store.UserInfo, error)
	SetPurchases(ctx context.Context, id int64, count int) (bool, error)
	AddOffering(ctx context.Context, in store.OfferingInput) (int64, error)
	DeleteOffering(ctx context.Context, id int64) (bool, error)
	ListOfferings(ctx context.Context) ([]store.Offering, error)
	GetOffering(ctx context.Context, id int64) (*store.Offering, error)
}

var _ Store = (*store.Store)(nil)

// Event is one inbound message from a user.
type Event struct {
	UserID    int64
	ChatID    int64
	Username  string
	FirstName string
	Text      string
	// Payload is the text after a command name.
	Payload string
}

// CallbackEvent is an inline button activation.
type CallbackEvent struct {
	Event
	ID        string
	Data      string
	MessageID int
}

// Options carries the configuration values the engine needs. Empty texts use defaults.
type Options struct {
	Brand         string
	StartImageURL string
	InfoText      string
	FAQText       string
	// AdminUsername is the contact the payment link opens a chat with.
	AdminUsername string
}

// ViewID names a screen.
type ViewID string

const (
	ViewRoot    ViewID = "root"
	ViewCabinet ViewID = "cabinet"
	ViewCatalog ViewID = "catalog"
	ViewInfo    ViewID = "info"
	ViewFAQ     ViewID = "faq"
)

type renderer func(ctx context.Context, ev Event) (tg.Message, error)

// Engine routes events to views and enforces that each user has one live view message.
type Engine struct {
	store   Store
	tracker state.Tracker
	msgr    Messenger
	opts    Options

	views map[ViewID]renderer
	menu  map[string]ViewID
}

// New wires an engine. opts is copied.
func New(st Store, tracker state.Tracker, msgr Messenger, opts Options) *Engine {
	if strings.TrimSpace(opts.Brand) == "" {
		opts.Brand = defaultBrand
	}
	if strings.TrimSpace(opts.InfoText) == "" {
		opts.InfoText = defaultInfoText
	}
	if strings.TrimSpace(opts.FAQText) == "" {
		opts.FAQText = defaultFAQText
	}
	opts.AdminUsername = strings.TrimPrefix(strings.TrimSpace(opts.AdminUsername), "@")

	e := &Engine{store: st, tracker: tracker, msgr: msgr, opts: opts}
	e.views = map[ViewID]renderer{
		ViewRoot:    e.renderRoot,
		ViewCabinet: e.renderCabinet,
		ViewCatalog: e.renderCatalog,
		ViewInfo:    e.renderInfo,
		ViewFAQ:     e.renderFAQ,
	}
	e.menu = map[string]ViewID{
		LabelCabinet: ViewCabinet,
		LabelProxies: ViewCatalog,
		LabelInfo:    ViewInfo,
		LabelFAQ:     ViewFAQ,
		LabelBack:    ViewRoot,
	}
	return e
}

// Start shows the root view.
func (e *Engine) Start(ctx context.Context, ev Event) error {
	return e.Render(ctx, ev, ViewRoot)
}

// HandleText renders the view bound to a menu label and reports whether text was one.
// Any other text is ignored.
func (e *Engine) HandleText(ctx context.Context, ev Event) (bool, error) {
	view, ok := e.menu[strings.TrimSpace(ev.Text)]
	if !ok {
		logger.LogEvent(ctx, logger.Shop, slog.LevelDebug, "text.ignored",
			slog.String("status", "skip"),
		)
		return false, nil
	}
	return true, e.Render(ctx, ev, view)
}

// Render builds view for ev and shows it in place of the user's previous live message.
func (e *Engine) Render(ctx context.Context, ev Event, view ViewID) error {
	build, ok := e.views[view]
	if !ok {
		return fmt.Errorf("storefront: unknown view %q", view)
	}
	msg, err := build(ctx, ev)
	if err != nil {
		return err
	}
	id, err := e.replace(ctx, ev, msg)
	if err != nil {
		return err
	}
	metrics.IncViewRendered(string(view))
	logger.LogEvent(ctx, logger.Shop, slog.LevelDebug, "view.rendered",
		slog.String("view", string(view)),
		slog.Int("message_id", id),
	)
	return nil
}

// replace deletes the tracked message (best effort), sends msg and tracks the new id.
// Only the send can fail the call.
func (e *Engine) replace(ctx context.Context, ev Event, msg tg.Message) (int, error) {
	prev, ok, err := e.tracker.Get(ctx, ev.UserID)
	if err != nil {
		logger.LogEvent(ctx, logger.Shop, slog.LevelWarn, "session.get",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}
	if ok {
		derr := e.msgr.Delete(ctx, ev.ChatID, prev)
		metrics.IncStaleDelete(derr == nil)
		if derr != nil {
			logger.LogEvent(ctx, logger.Shop, slog.LevelDebug, "view.delete_stale",
				slog.String("status", "skip"),
				slog.Int("prev_message_id", prev),
				slog.String("err", logger.SanitizeLimit(derr.Error(), 256)),
			)
		}
	}

	id, err := e.msgr.Send(ctx, ev.ChatID, msg)
	if err != nil {
		return 0, fmt.Errorf("storefront: send view: %w", err)
	}

	if err := e.tracker.Set(ctx, ev.UserID, id); err != nil {
		logger.LogEvent(ctx, logger.Shop, slog.LevelWarn, "session.set",
			slog.String("status", "fail"),
			slog.Int("message_id", id),
			slog.String("err", err.Error()),
		)
	}
	return id, nil
}

// reply sends an untracked message, used for admin command output.
func (e *Engine) reply(ctx context.Context, ev Event, text string) error {
	if _, err := e.msgr.Send(ctx, ev.ChatID, tg.Message{Text: text}); err != nil {
		return fmt.Errorf("storefront: reply: %w", err)
	}
	return nil
}
