package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/m3rciful/ghostproxy/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Message is one outbound view: HTML text, an optional photo and optional controls.
// With PhotoURL set, Text becomes the caption.
type Message struct {
	Text     string
	PhotoURL string
	Markup   *tele.ReplyMarkup
}

// BotMessenger sends, edits and deletes messages through a telebot Bot.
type BotMessenger struct {
	bot *tele.Bot
}

// NewMessenger wraps bot.
func NewMessenger(bot *tele.Bot) *BotMessenger {
	return &BotMessenger{bot: bot}
}

func (m *BotMessenger) options(msg Message) *tele.SendOptions {
	return &tele.SendOptions{ParseMode: tele.ModeHTML, ReplyMarkup: msg.Markup}
}

// Send posts msg to chatID and returns the new message id.
func (m *BotMessenger) Send(ctx context.Context, chatID int64, msg Message) (int, error) {
	var what any = msg.Text
	if msg.PhotoURL != "" {
		what = &tele.Photo{File: tele.FromURL(msg.PhotoURL), Caption: msg.Text}
	}
	sent, err := m.bot.Send(tele.ChatID(chatID), what, m.options(msg))
	if err != nil {
		return 0, fmt.Errorf("telegram: send: %w", err)
	}
	middleware.CountMessage(ctx, msg.Markup != nil)
	return sent.ID, nil
}

// Edit replaces the text and inline controls of an existing message.
func (m *BotMessenger) Edit(ctx context.Context, chatID int64, messageID int, msg Message) error {
	ref := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	if _, err := m.bot.Edit(ref, msg.Text, m.options(msg)); err != nil {
		return fmt.Errorf("telegram: edit %d: %w", messageID, err)
	}
	middleware.CountMessage(ctx, msg.Markup != nil)
	return nil
}

// Delete removes a message.
func (m *BotMessenger) Delete(_ context.Context, chatID int64, messageID int) error {
	ref := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	if err := m.bot.Delete(ref); err != nil {
		return fmt.Errorf("telegram: delete %d: %w", messageID, err)
	}
	return nil
}

// Answer acknowledges a callback query, optionally as an alert.
func (m *BotMessenger) Answer(_ context.Context, callbackID, text string, alert bool) error {
	resp := &tele.CallbackResponse{Text: text, ShowAlert: alert}
	if err := m.bot.Respond(&tele.Callback{ID: callbackID}, resp); err != nil {
		return fmt.Errorf("telegram: answer callback: %w", err)
	}
	return nil
}
