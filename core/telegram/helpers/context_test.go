package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/ghostproxy/core/logger"
)

type stubContext struct {
	tele.Context
	store map[string]any
}

func (s *stubContext) Sender() *tele.User { return &tele.User{ID: 42} }
func (s *stubContext) Chat() *tele.Chat { return &tele.Chat{ID: 42} }
func (s *stubContext) Update() tele.Update { return tele.Update{ID: 7} }
func (s *stubContext) Get(key string) any { return s.store[key] }
func (s *stubContext) Set(key string, v any) { s.store[key] = v }

func TestBuildContextIsCached(t *testing.T) {
	c := &stubContext{store: map[string]any{RIDKey: "rid-1"}}

	_, ok := ContextFrom(c)
	require.False(t, ok)

	ctx := BuildContext(c)
	assert.Equal(t, "rid-1", logger.RIDFrom(ctx))
	assert.Equal(t, int64(42), logger.UserIDFrom(ctx))
	assert.Equal(t, 7, logger.UpdateIDFrom(ctx))

	cached, ok := ContextFrom(c)
	require.True(t, ok)
	assert.Equal(t, ctx, cached)
	assert.Equal(t, ctx, BuildContext(c))
}

func TestWithHandler(t *testing.T) {
	c := &stubContext{store: map[string]any{}}
	ctx := WithHandler(c, "start")
	assert.Equal(t, "start", logger.HandlerFrom(ctx))
	assert.NotEmpty(t, logger.RIDFrom(ctx), "rid is derived when the middleware did not set one")
	assert.Equal(t, ctx, WithHandler(c, "start"))
	assert.Equal(t, ctx, WithHandler(c, ""))
}
