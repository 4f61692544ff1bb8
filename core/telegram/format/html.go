// Package format builds Telegram HTML-mode fragments.
package format

import (
	"html"
	"strconv"
)

// Escape makes arbitrary text safe inside an HTML-mode message.
func Escape(text string) string {
	return html.EscapeString(text)
}

// Bold wraps escaped text in <b>.
func Bold(text string) string {
	return "<b>" + Escape(text) + "</b>"
}

// Code wraps escaped text in <code>.
func Code(text string) string {
	return "<code>" + Escape(text) + "</code>"
}

// CodeInt renders an integer in monospace.
func CodeInt(n int64) string {
	return "<code>" + strconv.FormatInt(n, 10) + "</code>"
}
