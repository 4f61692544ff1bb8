package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/m3rciful/ghostproxy/core/logger"
	"github.com/m3rciful/ghostproxy/core/metrics"
	"github.com/m3rciful/ghostproxy/core/store"
	"github.com/m3rciful/ghostproxy/core/telegram/format"
)

// Command is a slash command served by the engine. Privileged commands must only
// be reachable by the configured admin; the transport enforces that.
type Command struct {
	Name        string
	Description string
	Privileged  bool
	Handle      func(ctx context.Context, ev Event) error
}

// Commands lists every command the engine serves.
func (e *Engine) Commands() []Command {
	return []Command{
		{Name: "/start", Description: "Главное меню", Handle: e.Start},
		{Name: "/add_proxy", Description: "Добавить прокси", Privileged: true, Handle: e.AddOffering},
		{Name: "/list_proxies", Description: "Список прокси", Privileged: true, Handle: e.ListOfferings},
		{Name: "/delete_proxy", Description: "Удалить прокси", Privileged: true, Handle: e.DeleteOffering},
		{Name: "/update_bd", Description: "Установить число покупок", Privileged: true, Handle: e.UpdatePurchases},
	}
}

// UsageError reports malformed command arguments. Nothing is mutated when it is returned.
type UsageError struct {
	Command string
	Reason  string
}

func (e *UsageError) Error() string { return e.Command + ": " + e.Reason }

// Code classifies the failure for handler summary logs.
func (e *UsageError) Code() string { return "USAGE" }

// errIgnored marks input that gets no response at all.
var errIgnored = errors.New("ignored")

func parseAddOffering(payload string) (store.OfferingInput, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return store.OfferingInput{}, &UsageError{Command: "add_proxy", Reason: "missing arguments"}
	}
	fields := strings.Split(payload, ":")
	if len(fields) != 4 {
		return store.OfferingInput{}, &UsageError{Command: "add_proxy", Reason: fmt.Sprintf("want 4 fields, got %d", len(fields))}
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return store.OfferingInput{
		Name:           fields[0],
		Description:    fields[1],
		Price:          fields[2],
		ContactMessage: fields[3],
	}, nil
}

func parseDeleteOffering(payload string) (int64, error) {
	args := strings.Fields(payload)
	if len(args) != 1 {
		return 0, &UsageError{Command: "delete_proxy", Reason: fmt.Sprintf("want 1 argument, got %d", len(args))}
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, errIgnored
	}
	return id, nil
}

func parseUpdatePurchases(payload string) (int64, int, error) {
	args := strings.Fields(payload)
	if len(args) != 2 {
		return 0, 0, &UsageError{Command: "update_bd", Reason: fmt.Sprintf("want 2 arguments, got %d", len(args))}
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, &UsageError{Command: "update_bd", Reason: "user id is not an integer"}
	}
	count, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, &UsageError{Command: "update_bd", Reason: "purchases is not an integer"}
	}
	if count < 0 {
		return 0, 0, &UsageError{Command: "update_bd", Reason: "purchases must be >= 0"}
	}
	return userID, count, nil
}

// AddOffering handles /add_proxy name:desc:price:msg.
func (e *Engine) AddOffering(ctx context.Context, ev Event) error {
	in, err := parseAddOffering(ev.Payload)
	if err != nil {
		hint := addUsage
		if strings.TrimSpace(ev.Payload) != "" {
			hint = addFieldCount + addUsage
		}
		return e.usage(ctx, ev, "add_proxy", err, hint)
	}
	id, err := e.store.AddOffering(ctx, in)
	if err != nil {
		metrics.IncAdminCommand("add_proxy", "fail")
		return err
	}
	metrics.IncAdminCommand("add_proxy", "ok")
	return e.reply(ctx, ev, fmt.Sprintf(addedFormat, format.Bold(in.Name), format.CodeInt(id)))
}

// ListOfferings handles /list_proxies.
func (e *Engine) ListOfferings(ctx context.Context, ev Event) error {
	offerings, err := e.store.ListOfferings(ctx)
	if err != nil {
		metrics.IncAdminCommand("list_proxies", "fail")
		return err
	}
	metrics.IncAdminCommand("list_proxies", "ok")
	if len(offerings) == 0 {
		return e.reply(ctx, ev, listEmpty)
	}
	var b strings.Builder
	b.WriteString(listHeader)
	for _, o := range offerings {
		fmt.Fprintf(&b, listRowFormat, format.CodeInt(o.ID), format.Escape(o.Name), format.Escape(o.Price))
	}
	b.WriteString(listFooter)
	return e.reply(ctx, ev, b.String())
}

// DeleteOffering handles /delete_proxy <id>. A non-integer id gets no response.
func (e *Engine) DeleteOffering(ctx context.Context, ev Event) error {
	id, err := parseDeleteOffering(ev.Payload)
	if errors.Is(err, errIgnored) {
		metrics.IncAdminCommand("delete_proxy", "skip")
		logger.LogEvent(ctx, logger.Shop, slog.LevelDebug, "admin.delete_proxy",
			slog.String("status", "skip"),
			slog.String("payload", logger.SanitizeLimit(ev.Payload, 64)),
		)
		return nil
	}
	if err != nil {
		return e.usage(ctx, ev, "delete_proxy", err, deleteUsage)
	}
	found, err := e.store.DeleteOffering(ctx, id)
	if err != nil {
		metrics.IncAdminCommand("delete_proxy", "fail")
		return err
	}
	if !found {
		metrics.IncAdminCommand("delete_proxy", "not_found")
		return e.reply(ctx, ev, fmt.Sprintf(notFoundFormat, format.CodeInt(id)))
	}
	metrics.IncAdminCommand("delete_proxy", "ok")
	return e.reply(ctx, ev, fmt.Sprintf(deletedFormat, format.CodeInt(id)))
}

// UpdatePurchases handles /update_bd <user_id> <purchases>.
func (e *Engine) UpdatePurchases(ctx context.Context, ev Event) error {
	userID, count, err := parseUpdatePurchases(ev.Payload)
	if err != nil {
		return e.usage(ctx, ev, "update_bd", err, updateUsage)
	}
	found, err := e.store.SetPurchases(ctx, userID, count)
	if err != nil {
		metrics.IncAdminCommand("update_bd", "fail")
		return err
	}
	if !found {
		metrics.IncAdminCommand("update_bd", "not_found")
		return e.reply(ctx, ev, fmt.Sprintf(noUserFormat, format.CodeInt(userID)))
	}
	metrics.IncAdminCommand("update_bd", "ok")
	return e.reply(ctx, ev, fmt.Sprintf(updatedFormat, format.CodeInt(userID), count))
}

func (e *Engine) usage(ctx context.Context, ev Event, command string, cause error, hint string) error {
	metrics.IncAdminCommand(command, "usage")
	logger.LogEvent(ctx, logger.Shop, slog.LevelDebug, "admin."+command,
		slog.String("status", "skip"),
		slog.String("outcome", "usage"),
		slog.String("err", cause.Error()),
	)
	return e.reply(ctx, ev, hint)
}
