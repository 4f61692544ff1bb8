// Package callbacks encodes structured references into inline button callback data.
package callbacks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxTokenLen is Telegram's limit for callback_data, in bytes.
const MaxTokenLen = 64

// Kind identifies the interactive action a token triggers.
type Kind int

const (
	// KindOffering opens the detail view of one offering; carries its id.
	KindOffering Kind = iota + 1
	// KindBackToList returns from a detail view to the catalog; carries no id.
	KindBackToList
)

const (
	offeringTag   = "proxy"
	backToListTag = "back_to_list"
	delimiter     = ":"
)

// String returns the wire tag of the kind.
func (k Kind) String() string {
	switch k {
	case KindOffering:
		return offeringTag
	case KindBackToList:
		return backToListTag
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Token is the decoded form of callback data.
type Token struct {
	Kind Kind
	ID   int64
}

// ErrInvalidToken matches every decode or encode failure.
var ErrInvalidToken = errors.New("invalid callback token")

// ParseError describes why a token could not be decoded.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("callback token %q: %s", e.Token, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidToken.
func (e *ParseError) Unwrap() error { return ErrInvalidToken }

// Code classifies the failure for handler summary logs.
func (e *ParseError) Code() string { return "TOKEN_DECODE" }

// Encode renders kind and id as `<tag>:<id>`, or the bare sentinel for KindBackToList.
func Encode(kind Kind, id int64) (string, error) {
	switch kind {
	case KindBackToList:
		return backToListTag, nil
	case KindOffering:
		if id < 0 {
			return "", &ParseError{Token: strconv.FormatInt(id, 10), Reason: "negative id"}
		}
		token := offeringTag + delimiter + strconv.FormatInt(id, 10)
		if len(token) > MaxTokenLen {
			return "", &ParseError{Token: token, Reason: "exceeds callback data limit"}
		}
		return token, nil
	}
	return "", &ParseError{Token: kind.String(), Reason: "unknown kind"}
}

// MustEncode is Encode for callers that only pass known kinds and non-negative ids.
func MustEncode(kind Kind, id int64) string {
	token, err := Encode(kind, id)
	if err != nil {
		panic(err)
	}
	return token
}

// Decode parses raw callback data. Telebot's "\f<unique>|<data>" framing is stripped first.
func Decode(raw string) (Token, error) {
	data := Unframe(raw)
	if len(data) > MaxTokenLen {
		return Token{}, &ParseError{Token: data, Reason: "exceeds callback data limit"}
	}
	if data == backToListTag {
		return Token{Kind: KindBackToList}, nil
	}
	tag, rest, ok := strings.Cut(data, delimiter)
	if !ok {
		return Token{}, &ParseError{Token: data, Reason: "missing delimiter"}
	}
	if tag != offeringTag {
		return Token{}, &ParseError{Token: data, Reason: "unknown tag"}
	}
	if rest == "" || strings.TrimLeft(rest, "0123456789") != "" {
		return Token{}, &ParseError{Token: data, Reason: "id is not a non-negative integer"}
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return Token{}, &ParseError{Token: data, Reason: "id out of range"}
	}
	return Token{Kind: KindOffering, ID: id}, nil
}

// Unframe removes telebot's "\f<unique>|" prefix when present.
func Unframe(raw string) string {
	if !strings.HasPrefix(raw, "\f") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "\f")
	if unique, payload, ok := strings.Cut(raw, "|"); ok {
		if payload == "" {
			return unique
		}
		return payload
	}
	return raw
}

// Tag returns the kind tag of raw callback data, used as a routing key.
func Tag(raw string) string {
	data := Unframe(raw)
	tag, _, _ := strings.Cut(data, delimiter)
	return strings.TrimSpace(tag)
}
