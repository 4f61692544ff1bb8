package callbacks_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ghostproxy/core/telegram/callbacks"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, id := range []int64{0, 1, 7, 1 << 40} {
		token, err := callbacks.Encode(callbacks.KindOffering, id)
		require.NoError(t, err)
		got, err := callbacks.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, callbacks.Token{Kind: callbacks.KindOffering, ID: id}, got)
	}

	token := callbacks.MustEncode(callbacks.KindBackToList, 0)
	assert.Equal(t, "back_to_list", token)
	got, err := callbacks.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, callbacks.KindBackToList, got.Kind)
}

func TestEncodeWireFormat(t *testing.T) {
	assert.Equal(t, "proxy:7", callbacks.MustEncode(callbacks.KindOffering, 7))
}

func TestEncodeRejects(t *testing.T) {
	_, err := callbacks.Encode(callbacks.KindOffering, -1)
	assert.ErrorIs(t, err, callbacks.ErrInvalidToken)

	_, err = callbacks.Encode(callbacks.Kind(99), 1)
	assert.ErrorIs(t, err, callbacks.ErrInvalidToken)

	assert.Panics(t, func() { callbacks.MustEncode(callbacks.Kind(99), 1) })
}

func TestDecodeInvalid(t *testing.T) {
	cases := []struct {
		name   string
		token  string
		reason string
	}{
		{"empty", "", "missing delimiter"},
		{"unknown tag", "vpn:7", "unknown tag"},
		{"non numeric", "proxy:abc", "id is not a non-negative integer"},
		{"negative", "proxy:-3", "id is not a non-negative integer"},
		{"empty id", "proxy:", "id is not a non-negative integer"},
		{"no delimiter", "proxy7", "missing delimiter"},
		{"overflow", "proxy:99999999999999999999", "id out of range"},
		{"too long", "proxy:" + strings.Repeat("1", 64), "exceeds callback data limit"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := callbacks.Decode(tc.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, callbacks.ErrInvalidToken)

			var perr *callbacks.ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tc.reason, perr.Reason)
			assert.Equal(t, "TOKEN_DECODE", perr.Code())
		})
	}
}

func TestDecodeStripsTelebotFraming(t *testing.T) {
	got, err := callbacks.Decode("\fproxy|proxy:12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.ID)

	got, err = callbacks.Decode("\fback_to_list")
	require.NoError(t, err)
	assert.Equal(t, callbacks.KindBackToList, got.Kind)
}

func TestUnframe(t *testing.T) {
	assert.Equal(t, "proxy:1", callbacks.Unframe("proxy:1"))
	assert.Equal(t, "proxy:1", callbacks.Unframe("\fu|proxy:1"))
	assert.Equal(t, "u", callbacks.Unframe("\fu|"))
	assert.Equal(t, "u", callbacks.Unframe("\fu"))
}

func TestTag(t *testing.T) {
	assert.Equal(t, "proxy", callbacks.Tag("proxy:12"))
	assert.Equal(t, "back_to_list", callbacks.Tag("back_to_list"))
	assert.Equal(t, "proxy", callbacks.Tag("\fx|proxy:3"))
	assert.Equal(t, "", callbacks.Tag(""))
}
