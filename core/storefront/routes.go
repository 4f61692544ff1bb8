package storefront

import (
	tg "github.com/m3rciful/ghostproxy/core/telegram"
	"github.com/m3rciful/ghostproxy/core/telegram/callbacks"
	"github.com/m3rciful/ghostproxy/core/telegram/commands"
	tghelpers "github.com/m3rciful/ghostproxy/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Register binds the engine's commands, menu text and callbacks to reg.
func (e *Engine) Register(reg *tg.Registry) error {
	for _, cmd := range e.Commands() {
		handle := cmd.Handle
		reg.RegisterCommand(cmd.Name, commands.Command{
			Handler: func(c tele.Context) error {
				return handle(tghelpers.BuildContext(c), EventFrom(c))
			},
			Description: cmd.Description,
			AdminOnly:   cmd.Privileged,
			Hidden:      cmd.Privileged,
		})
	}

	reg.SetTextFallback(func(c tele.Context) error {
		_, err := e.HandleText(tghelpers.BuildContext(c), EventFrom(c))
		return err
	})

	onCallback := func(c tele.Context) error {
		return e.HandleCallback(tghelpers.BuildContext(c), CallbackEventFrom(c))
	}
	for _, kind := range []callbacks.Kind{callbacks.KindOffering, callbacks.KindBackToList} {
		if err := reg.RegisterCallback(kind.String(), onCallback); err != nil {
			return err
		}
	}
	reg.SetCallbackNotFound(onCallback)
	return nil
}

// EventFrom extracts the engine's view of an inbound update.
func EventFrom(c tele.Context) Event {
	var ev Event
	if u := c.Sender(); u != nil {
		ev.UserID = u.ID
		ev.Username = u.Username
		ev.FirstName = u.FirstName
	}
	ev.ChatID = ev.UserID
	if ch := c.Chat(); ch != nil {
		ev.ChatID = ch.ID
	}
	if m := c.Message(); m != nil {
		ev.Text = m.Text
		ev.Payload = m.Payload
	}
	return ev
}

// CallbackEventFrom extracts an inline button activation. Telebot's unique framing
// is restored so the token decodes the same way it was encoded.
func CallbackEventFrom(c tele.Context) CallbackEvent {
	ev := CallbackEvent{Event: EventFrom(c)}
	ev.Text, ev.Payload = "", ""
	cb := c.Callback()
	if cb == nil {
		return ev
	}
	ev.ID = cb.ID
	ev.Data = cb.Data
	if cb.Unique != "" {
		ev.Data = "\f" + cb.Unique + "|" + cb.Data
	}
	if cb.Message != nil {
		ev.MessageID = cb.Message.ID
		if cb.Message.Chat != nil {
			ev.ChatID = cb.Message.Chat.ID
		}
	}
	return ev
}
