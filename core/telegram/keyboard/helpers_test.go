package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyButtonsRows(t *testing.T) {
	m := ReplyButtons([]string{"a", "b"}, []string{"c"})
	require.NotNil(t, m)
	assert.True(t, m.ResizeKeyboard)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, Labels(m))
}

func TestInlineButtonsKeepRawData(t *testing.T) {
	m := InlineButtons([]InlineBtn{
		{Text: "one", Data: "proxy:1"},
		{Text: "pay", URL: "https://t.me/x"},
	})
	require.Len(t, m.InlineKeyboard, 2)
	assert.Equal(t, "proxy:1", m.InlineKeyboard[0][0].Data)
	assert.Empty(t, m.InlineKeyboard[0][0].Unique)
	assert.Equal(t, "https://t.me/x", m.InlineKeyboard[1][0].URL)
}

func TestInlineButtonsNPerRow(t *testing.T) {
	btns := []InlineBtn{{Text: "1"}, {Text: "2"}, {Text: "3"}}
	m := InlineButtonsNPerRow(btns, 2)
	require.Len(t, m.InlineKeyboard, 2)
	assert.Len(t, m.InlineKeyboard[0], 2)
	assert.Len(t, m.InlineKeyboard[1], 1)

	assert.Len(t, InlineButtonsNPerRow(btns, 1).InlineKeyboard, 3)
}

func TestLabelsNil(t *testing.T) {
	assert.Nil(t, Labels(nil))
}
