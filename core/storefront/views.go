package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/m3rciful/ghostproxy/core/logger"
	"github.com/m3rciful/ghostproxy/core/metrics"
	"github.com/m3rciful/ghostproxy/core/store"
	tg "github.com/m3rciful/ghostproxy/core/telegram"
	"github.com/m3rciful/ghostproxy/core/telegram/callbacks"
	"github.com/m3rciful/ghostproxy/core/telegram/format"
	"github.com/m3rciful/ghostproxy/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

func mainMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{LabelCabinet, LabelProxies},
		[]string{LabelInfo},
		[]string{LabelFAQ},
	)
}

func backMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{LabelBack})
}

func (e *Engine) renderRoot(ctx context.Context, ev Event) (tg.Message, error) {
	created, err := e.store.UpsertUser(ctx, ev.UserID, ev.Username)
	if err != nil {
		return tg.Message{}, err
	}
	if created {
		metrics.IncUsersRegistered()
	}
	return tg.Message{
		Text:     fmt.Sprintf(welcomeFormat, format.Escape(e.opts.Brand), format.Escape(ev.FirstName)),
		PhotoURL: e.opts.StartImageURL,
		Markup:   mainMenu(),
	}, nil
}

func (e *Engine) renderCabinet(ctx context.Context, ev Event) (tg.Message, error) {
	info, err := e.store.GetUserInfo(ctx, ev.UserID)
	if err != nil {
		return tg.Message{}, err
	}
	registered, purchases := unknownDate, 0
	if info != nil {
		registered = info.RegisteredAt.UTC().Format(regDateLayout)
		purchases = info.Purchases
	}
	return tg.Message{
		Text:   fmt.Sprintf(cabinetFormat, format.CodeInt(ev.UserID), registered, purchases),
		Markup: backMenu(),
	}, nil
}

func (e *Engine) renderCatalog(ctx context.Context, _ Event) (tg.Message, error) {
	offerings, err := e.store.ListOfferings(ctx)
	if err != nil {
		return tg.Message{}, err
	}
	if len(offerings) == 0 {
		return tg.Message{Text: catalogEmpty, Markup: backMenu()}, nil
	}
	return tg.Message{Text: catalogTitle, Markup: catalogKeyboard(offerings)}, nil
}

func (e *Engine) renderInfo(context.Context, Event) (tg.Message, error) {
	return tg.Message{Text: e.opts.InfoText, Markup: backMenu()}, nil
}

func (e *Engine) renderFAQ(context.Context, Event) (tg.Message, error) {
	return tg.Message{Text: e.opts.FAQText, Markup: backMenu()}, nil
}

// catalogKeyboard lists one offering per row; each button carries the offering token.
func catalogKeyboard(offerings []store.Offering) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(offerings))
	for _, o := range offerings {
		buttons = append(buttons, keyboard.InlineBtn{
			Text: o.Name + " — " + o.Price,
			Data: callbacks.MustEncode(callbacks.KindOffering, o.ID),
		})
	}
	return keyboard.InlineButtons(buttons)
}

func offeringText(o store.Offering) string {
	return fmt.Sprintf(offeringFormat,
		format.Escape(o.Name), format.CodeInt(o.ID), format.Escape(o.Description), format.Escape(o.Price))
}

func (e *Engine) offeringKeyboard(o store.Offering) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: labelPay, URL: e.payURL(o.ContactMessage)},
		{Text: labelBackToList, Data: callbacks.MustEncode(callbacks.KindBackToList, 0)},
	})
}

// payURL opens a chat with the admin, prefilled with a greeting and the offering's contact message.
func (e *Engine) payURL(contact string) string {
	text := strings.ReplaceAll(url.QueryEscape(payGreeting+contact), "+", "%20")
	return "https://t.me/" + url.PathEscape(e.opts.AdminUsername) + "?text=" + text
}

// HandleCallback serves inline button activations. Undecodable or stale tokens
// get an "unavailable" alert and nothing else.
func (e *Engine) HandleCallback(ctx context.Context, cb CallbackEvent) error {
	tok, err := callbacks.Decode(cb.Data)
	if err != nil {
		metrics.IncCallback("invalid", "unavailable")
		logger.LogEvent(ctx, logger.Shop, slog.LevelDebug, "callback.decode",
			slog.String("status", "skip"),
			slog.String("payload", logger.SanitizeLimit(cb.Data, 64)),
			slog.String("err", err.Error()),
		)
		e.answer(ctx, cb, unavailableText, true)
		return nil
	}
	switch tok.Kind {
	case callbacks.KindOffering:
		return e.showOffering(ctx, cb, tok.ID)
	case callbacks.KindBackToList:
		return e.backToList(ctx, cb)
	}
	e.answer(ctx, cb, unavailableText, true)
	return nil
}

func (e *Engine) showOffering(ctx context.Context, cb CallbackEvent, id int64) error {
	o, err := e.store.GetOffering(ctx, id)
	if err != nil {
		return err
	}
	if o == nil {
		metrics.IncCallback(callbacks.KindOffering.String(), "not_found")
		logger.LogEvent(ctx, logger.Shop, slog.LevelDebug, "offering.unavailable",
			slog.String("outcome", "not_found"),
			slog.Int64("offering_id", id),
		)
		e.answer(ctx, cb, unavailableText, true)
		return nil
	}
	e.answer(ctx, cb, "", false)
	e.editInPlace(ctx, cb, tg.Message{Text: offeringText(*o), Markup: e.offeringKeyboard(*o)})
	metrics.IncCallback(callbacks.KindOffering.String(), "ok")
	return nil
}

func (e *Engine) backToList(ctx context.Context, cb CallbackEvent) error {
	e.answer(ctx, cb, "", false)
	offerings, err := e.store.ListOfferings(ctx)
	if err != nil {
		return err
	}
	msg := tg.Message{Text: catalogEmpty}
	if len(offerings) > 0 {
		msg = tg.Message{Text: catalogTitle, Markup: catalogKeyboard(offerings)}
	}
	e.editInPlace(ctx, cb, msg)
	metrics.IncCallback(callbacks.KindBackToList.String(), "ok")
	return nil
}

// editInPlace rewrites the message that carried the button. Failures are ignored:
// the message may be gone or already show the same content.
func (e *Engine) editInPlace(ctx context.Context, cb CallbackEvent, msg tg.Message) {
	if err := e.msgr.Edit(ctx, cb.ChatID, cb.MessageID, msg); err != nil {
		logger.LogEvent(ctx, logger.Shop, slog.LevelDebug, "view.edit",
			slog.String("status", "skip"),
			slog.Int("message_id", cb.MessageID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}
}

func (e *Engine) answer(ctx context.Context, cb CallbackEvent, text string, alert bool) {
	if err := e.msgr.Answer(ctx, cb.ID, text, alert); err != nil {
		logger.LogEvent(ctx, logger.Shop, slog.LevelDebug, "callback.answer",
			slog.String("status", "skip"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}
}
