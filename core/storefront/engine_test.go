package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ghostproxy/core/database"
	"github.com/m3rciful/ghostproxy/core/store"
	tg "github.com/m3rciful/ghostproxy/core/telegram"
	"github.com/m3rciful/ghostproxy/core/telegram/callbacks"
	"github.com/m3rciful/ghostproxy/core/telegram/keyboard"
	"github.com/m3rciful/ghostproxy/core/telegram/state"
)

type op struct {
	kind      string
	chatID    int64
	messageID int
	msg       tg.Message
	text      string
	alert     bool
}

// fakeMessenger records platform calls and hands out increasing message ids.
type fakeMessenger struct {
	mu     sync.Mutex
	nextID int
	ops    []op

	sendErr   error
	deleteErr error
	editErr   error
	answerErr error
}

func (f *fakeMessenger) Send(_ context.Context, chatID int64, msg tg.Message) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.nextID++
	f.ops = append(f.ops, op{kind: "send", chatID: chatID, messageID: f.nextID, msg: msg})
	return f.nextID, nil
}

func (f *fakeMessenger) Edit(_ context.Context, chatID int64, messageID int, msg tg.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op{kind: "edit", chatID: chatID, messageID: messageID, msg: msg})
	return f.editErr
}

func (f *fakeMessenger) Delete(_ context.Context, chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op{kind: "delete", chatID: chatID, messageID: messageID})
	return f.deleteErr
}

func (f *fakeMessenger) Answer(_ context.Context, _ string, text string, alert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op{kind: "answer", text: text, alert: alert})
	return f.answerErr
}

func (f *fakeMessenger) recorded() []op {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]op(nil), f.ops...)
}

func (f *fakeMessenger) kinds() []string {
	var out []string
	for _, o := range f.recorded() {
		out = append(out, o.kind)
	}
	return out
}

func (f *fakeMessenger) last() op {
	ops := f.recorded()
	if len(ops) == 0 {
		return op{}
	}
	return ops[len(ops)-1]
}

func (f *fakeMessenger) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = nil
}

type failingTracker struct{ err error }

func (t failingTracker) Get(context.Context, int64) (int, bool, error) { return 0, false, t.err }
func (t failingTracker) Set(context.Context, int64, int) error { return t.err }

type fixture struct {
	engine  *Engine
	msgr    *fakeMessenger
	store   *store.Store
	tracker state.Tracker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := database.Config{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "shop.db")}
	require.NoError(t, database.RunMigrations(cfg))
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	st := store.New(db)
	t.Cleanup(func() { _ = st.Close() })

	f := &fixture{msgr: &fakeMessenger{}, store: st, tracker: state.NewMemoryTracker()}
	f.engine = New(st, f.tracker, f.msgr, Options{
		StartImageURL: "https://example.org/start.jpg",
		AdminUsername: "@GhostAdmin",
	})
	return f
}

func userEvent(id int64) Event {
	return Event{UserID: id, ChatID: id, Username: fmt.Sprintf("user%d", id), FirstName: "Ann"}
}

func (f *fixture) tracked(t *testing.T, userID int64) int {
	t.Helper()
	id, ok, err := f.tracker.Get(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, ok, "user %d has no tracked message", userID)
	return id
}

func (f *fixture) addOffering(t *testing.T, name, price string) int64 {
	t.Helper()
	id, err := f.store.AddOffering(context.Background(), store.OfferingInput{
		Name: name, Description: "SOCKS5 IPv4", Price: price, ContactMessage: "за покупкой " + name,
	})
	require.NoError(t, err)
	return id
}

func TestStartRegistersUserAndShowsMainMenu(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.engine.Start(ctx, userEvent(42)))

	u, err := f.store.GetUser(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, 0, u.Purchases)
	assert.Equal(t, "user42", u.DisplayName.String)

	require.Equal(t, []string{"send"}, f.msgr.kinds())
	sent := f.msgr.last()
	assert.Equal(t, int64(42), sent.chatID)
	assert.Contains(t, sent.msg.Text, "Ghost Proxy")
	assert.Contains(t, sent.msg.Text, "Ann")
	assert.Equal(t, "https://example.org/start.jpg", sent.msg.PhotoURL)
	assert.Equal(t, [][]string{{LabelCabinet, LabelProxies}, {LabelInfo}, {LabelFAQ}}, keyboard.Labels(sent.msg.Markup))
	assert.Equal(t, sent.messageID, f.tracked(t, 42))
}

func TestStartEscapesUserName(t *testing.T) {
	f := newFixture(t)
	ev := userEvent(1)
	ev.FirstName = "<script>"

	require.NoError(t, f.engine.Start(context.Background(), ev))
	assert.Contains(t, f.msgr.last().msg.Text, "&lt;script&gt;")
}

func TestRenderReplacesPreviousMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.engine.Start(ctx, userEvent(42)))
	first := f.tracked(t, 42)
	handled, err := f.engine.HandleText(ctx, Event{UserID: 42, ChatID: 42, Text: LabelInfo})
	require.NoError(t, err)
	require.True(t, handled)

	ops := f.msgr.recorded()
	require.Len(t, ops, 3)
	assert.Equal(t, "delete", ops[1].kind)
	assert.Equal(t, first, ops[1].messageID)
	assert.Equal(t, "send", ops[2].kind)
	assert.Equal(t, ops[2].messageID, f.tracked(t, 42))
	assert.Equal(t, defaultInfoText, ops[2].msg.Text)
}

func TestDeleteFailureIsTolerated(t *testing.T) {
	f := newFixture(t)
	f.msgr.deleteErr = errors.New("message to delete not found")
	ctx := context.Background()

	require.NoError(t, f.engine.Start(ctx, userEvent(42)))
	require.NoError(t, f.engine.Start(ctx, userEvent(42)))

	assert.Equal(t, []string{"send", "delete", "send"}, f.msgr.kinds())
	assert.Equal(t, f.msgr.last().messageID, f.tracked(t, 42))
}

func TestSendFailurePropagates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tracker.Set(ctx, 42, 5))

	boom := errors.New("bot was blocked by the user")
	f.msgr.sendErr = boom
	err := f.engine.Start(ctx, userEvent(42))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 5, f.tracked(t, 42), "failed send must not update the tracked id")
}

func TestTrackerFailuresAreNotFatal(t *testing.T) {
	f := newFixture(t)
	f.engine.tracker = failingTracker{err: errors.New("redis down")}

	require.NoError(t, f.engine.Start(context.Background(), userEvent(9)))
	assert.Equal(t, []string{"send"}, f.msgr.kinds())
}

func TestStoreFailurePropagates(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Close())

	err := f.engine.Start(context.Background(), userEvent(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrStore)
	assert.Empty(t, f.msgr.recorded())
}

func TestCabinet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	handled, err := f.engine.HandleText(ctx, Event{UserID: 7, ChatID: 7, Text: LabelCabinet})
	require.NoError(t, err)
	require.True(t, handled)
	text := f.msgr.last().msg.Text
	assert.Contains(t, text, "<code>7</code>")
	assert.Contains(t, text, unknownDate)
	assert.Contains(t, text, "Покупок ::</b> 0")
	assert.Equal(t, [][]string{{LabelBack}}, keyboard.Labels(f.msgr.last().msg.Markup))

	_, err = f.store.UpsertUser(ctx, 7, "seven")
	require.NoError(t, err)
	_, err = f.store.SetPurchases(ctx, 7, 3)
	require.NoError(t, err)

	_, err = f.engine.HandleText(ctx, Event{UserID: 7, ChatID: 7, Text: LabelCabinet})
	require.NoError(t, err)
	text = f.msgr.last().msg.Text
	assert.NotContains(t, text, unknownDate)
	assert.Contains(t, text, "Покупок ::</b> 3")
}

func TestCatalogListsOfferings(t *testing.T) {
	f := newFixture(t)
	us := f.addOffering(t, "🇺🇸 США", "39₽")
	de := f.addOffering(t, "🇩🇪 Германия", "36₽")

	handled, err := f.engine.HandleText(context.Background(), Event{UserID: 1, ChatID: 1, Text: LabelProxies})
	require.NoError(t, err)
	require.True(t, handled)

	msg := f.msgr.last().msg
	assert.Equal(t, catalogTitle, msg.Text)
	require.NotNil(t, msg.Markup)
	rows := msg.Markup.InlineKeyboard
	require.Len(t, rows, 2)
	assert.Equal(t, "🇺🇸 США — 39₽", rows[0][0].Text)
	assert.Equal(t, fmt.Sprintf("proxy:%d", us), rows[0][0].Data)
	assert.Equal(t, fmt.Sprintf("proxy:%d", de), rows[1][0].Data)
}

func TestCatalogEmpty(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.HandleText(context.Background(), Event{UserID: 1, ChatID: 1, Text: LabelProxies})
	require.NoError(t, err)
	msg := f.msgr.last().msg
	assert.Equal(t, catalogEmpty, msg.Text)
	assert.Equal(t, [][]string{{LabelBack}}, keyboard.Labels(msg.Markup))
}

func TestHandleTextMenu(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	handled, err := f.engine.HandleText(ctx, Event{UserID: 1, ChatID: 1, Text: "hello"})
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Empty(t, f.msgr.recorded())

	handled, err = f.engine.HandleText(ctx, Event{UserID: 1, ChatID: 1, Text: " " + LabelFAQ + " "})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, defaultFAQText, f.msgr.last().msg.Text)

	handled, err = f.engine.HandleText(ctx, Event{UserID: 1, ChatID: 1, Text: LabelBack, FirstName: "Bo"})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Contains(t, f.msgr.last().msg.Text, "Bo")
	assert.Len(t, keyboard.Labels(f.msgr.last().msg.Markup), 3)
}

func TestRenderUnknownView(t *testing.T) {
	f := newFixture(t)
	require.Error(t, f.engine.Render(context.Background(), userEvent(1), ViewID("cart")))
	assert.Empty(t, f.msgr.recorded())
}

func TestConcurrentRendersForDistinctUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const users = 24
	var wg sync.WaitGroup
	errs := make(chan error, users)
	for i := int64(1); i <= users; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := f.engine.Start(ctx, userEvent(id)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	sentTo := map[int64]int{}
	for _, o := range f.msgr.recorded() {
		if o.kind == "send" {
			sentTo[o.chatID] = o.messageID
		}
	}
	require.Len(t, sentTo, users)
	for id, msgID := range sentTo {
		assert.Equal(t, msgID, f.tracked(t, id))
	}
}

func offeringCallback(id int64) CallbackEvent {
	return CallbackEvent{
		Event:     Event{UserID: 42, ChatID: 42},
		ID:        "cb-1",
		Data:      callbacks.MustEncode(callbacks.KindOffering, id),
		MessageID: 77,
	}
}

func TestOfferingDetailEditsInPlace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.addOffering(t, "🇫🇷 Франция", "39₽")
	require.NoError(t, f.tracker.Set(ctx, 42, 77))

	require.NoError(t, f.engine.HandleCallback(ctx, offeringCallback(id)))

	ops := f.msgr.recorded()
	require.Len(t, ops, 2)
	assert.Equal(t, op{kind: "answer"}, ops[0])
	edit := ops[1]
	assert.Equal(t, "edit", edit.kind)
	assert.Equal(t, 77, edit.messageID)
	assert.Contains(t, edit.msg.Text, "🇫🇷 Франция")
	assert.Contains(t, edit.msg.Text, fmt.Sprintf("<code>%d</code>", id))

	rows := edit.msg.Markup.InlineKeyboard
	require.Len(t, rows, 2)
	assert.Equal(t, f.engine.payURL("за покупкой 🇫🇷 Франция"), rows[0][0].URL)
	assert.Empty(t, rows[0][0].Data)
	assert.Equal(t, callbacks.MustEncode(callbacks.KindBackToList, 0), rows[1][0].Data)
	assert.Equal(t, 77, f.tracked(t, 42), "in-place edit keeps the tracked id")
}

func TestStaleOfferingAlerts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.addOffering(t, "🇵🇱 Польша", "36₽")
	_, err := f.store.DeleteOffering(ctx, id)
	require.NoError(t, err)

	require.NoError(t, f.engine.HandleCallback(ctx, offeringCallback(id)))
	assert.Equal(t, []op{{kind: "answer", text: unavailableText, alert: true}}, f.msgr.recorded())
}

func TestInvalidTokenAlerts(t *testing.T) {
	for _, data := range []string{"", "garbage", "proxy:abc", "proxy:-1", "shop:1", "proxy"} {
		t.Run(data, func(t *testing.T) {
			f := newFixture(t)
			cb := offeringCallback(0)
			cb.Data = data
			require.NoError(t, f.engine.HandleCallback(context.Background(), cb))
			assert.Equal(t, []op{{kind: "answer", text: unavailableText, alert: true}}, f.msgr.recorded())
		})
	}
}

func TestBackToList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cb := offeringCallback(0)
	cb.Data = callbacks.MustEncode(callbacks.KindBackToList, 0)

	require.NoError(t, f.engine.HandleCallback(ctx, cb))
	require.Equal(t, []string{"answer", "edit"}, f.msgr.kinds())
	empty := f.msgr.last()
	assert.Equal(t, catalogEmpty, empty.msg.Text)
	assert.Nil(t, empty.msg.Markup)

	f.msgr.reset()
	id := f.addOffering(t, "🇰🇿 Казахстан", "30₽")
	require.NoError(t, f.engine.HandleCallback(ctx, cb))
	edit := f.msgr.last()
	assert.Equal(t, "edit", edit.kind)
	assert.Equal(t, 77, edit.messageID)
	assert.Equal(t, catalogTitle, edit.msg.Text)
	require.Len(t, edit.msg.Markup.InlineKeyboard, 1)
	assert.Equal(t, fmt.Sprintf("proxy:%d", id), edit.msg.Markup.InlineKeyboard[0][0].Data)
}

func TestEditAndAnswerFailuresAreSwallowed(t *testing.T) {
	f := newFixture(t)
	f.msgr.editErr = errors.New("message is not modified")
	f.msgr.answerErr = errors.New("query is too old")
	id := f.addOffering(t, "🇬🇧 Великобритания", "36₽")

	require.NoError(t, f.engine.HandleCallback(context.Background(), offeringCallback(id)))
	assert.Equal(t, []string{"answer", "edit"}, f.msgr.kinds())
}

func TestPayURL(t *testing.T) {
	f := newFixture(t)
	u := f.engine.payURL("за покупкой 🇫🇷 SOCKS5")

	require.True(t, strings.HasPrefix(u, "https://t.me/GhostAdmin?text="), u)
	assert.NotContains(t, u, "+")
	assert.NotContains(t, u, " ")
	assert.Contains(t, u, "%20")

	parsed, err := url.Parse(u)
	require.NoError(t, err)
	assert.Equal(t, payGreeting+"за покупкой 🇫🇷 SOCKS5", parsed.Query().Get("text"))
}
