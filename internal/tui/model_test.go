package tui

import (
	"context"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/longkey1/zenx/internal/credential"
	"github.com/longkey1/zenx/internal/zenx"
	"github.com/longkey1/zenx/internal/zenx/conversation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(context.Context, string, []zenx.ChatMessage) (string, error) {
	s.calls++
	return s.reply, s.err
}

func newTestModel(t *testing.T, key string, completer zenx.Completer) (Model, *credential.MemoryStore, *zenx.ChanNotifier, *conversation.Session) {
	t.Helper()
	store := credential.NewMemoryStore(key)
	notifier := zenx.NewChanNotifier(16)
	sess := conversation.New(completer, store, conversation.WithNotifier(notifier))
	m := New(context.Background(), sess, store, notifier)
	return m, store, notifier, sess
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// collect runs cmd and any batched children, returning the produced messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findReply(t *testing.T, msgs []tea.Msg) replyMsg {
	t.Helper()
	for _, msg := range msgs {
		if r, ok := msg.(replyMsg); ok {
			return r
		}
	}
	t.Fatal("no reply message produced")
	return replyMsg{}
}

func drain(n *zenx.ChanNotifier) []zenx.Notification {
	var out []zenx.Notification
	for {
		select {
		case note := <-n.C():
			out = append(out, note)
		default:
			return out
		}
	}
}

func TestSendRoundTrip(t *testing.T) {
	completer := &stubCompleter{reply: "Hi there"}
	m, _, _, sess := newTestModel(t, "k1", completer)

	m = typeText(t, m, "Hello")
	assert.True(t, m.canSend())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.busy())
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "Thinking...")

	reply := findReply(t, collect(cmd))
	require.NoError(t, reply.err)

	m, _ = press(t, m, reply)
	assert.False(t, m.busy())

	history := sess.Messages()
	require.Len(t, history, 2)
	assert.Equal(t, "Hello", history[0].Content)
	assert.Equal(t, "Hi there", history[1].Content)
	assert.Contains(t, m.viewport.View(), "Hi there")
}

func TestEnterWithBlankInputDoesNothing(t *testing.T) {
	completer := &stubCompleter{reply: "ok"}
	m, _, _, sess := newTestModel(t, "k1", completer)

	m = typeText(t, m, "   ")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, m.busy())
	assert.Zero(t, sess.MessageCount())
	assert.Zero(t, completer.calls)
}

func TestEnterWithoutCredentialNotifies(t *testing.T) {
	completer := &stubCompleter{reply: "ok"}
	m, _, notifier, sess := newTestModel(t, "", completer)

	assert.Contains(t, m.View(), "Please add your OpenRouter API key")

	m = typeText(t, m, "Hello")
	assert.False(t, m.canSend())
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	reply := findReply(t, collect(cmd))
	assert.ErrorIs(t, reply.err, conversation.ErrMissingCredential)
	assert.Equal(t, "Hello", m.input.Value())
	assert.Zero(t, sess.MessageCount())
	assert.Zero(t, completer.calls)

	notes := drain(notifier)
	require.Len(t, notes, 1)
	assert.Equal(t, zenx.NotifyError, notes[0].Kind)
}

func TestNewChatClears(t *testing.T) {
	m, _, _, sess := newTestModel(t, "k1", &stubCompleter{reply: "ok"})
	_, err := sess.Send(context.Background(), "Hello")
	require.NoError(t, err)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

	assert.Zero(t, sess.MessageCount())
	assert.Contains(t, m.viewport.View(), "How can I help you today?")
}

func TestSettingsSaveMaskedKey(t *testing.T) {
	m, store, notifier, _ := newTestModel(t, "", &stubCompleter{reply: "ok"})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.True(t, m.settings.open)
	assert.Equal(t, textinput.EchoPassword, m.settings.input.EchoMode)

	m = typeText(t, m, "sk-or-secret")
	assert.NotContains(t, m.View(), "sk-or-secret")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, textinput.EchoNormal, m.settings.input.EchoMode)
	assert.Contains(t, m.View(), "sk-or-secret")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, textinput.EchoPassword, m.settings.input.EchoMode)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.settings.open)

	v, _ := store.Get()
	assert.Equal(t, "sk-or-secret", v)

	notes := drain(notifier)
	require.Len(t, notes, 1)
	assert.Equal(t, "API key saved successfully!", notes[0].Description)
}

func TestSettingsRejectsBlank(t *testing.T) {
	m, store, notifier, _ := newTestModel(t, "", &stubCompleter{reply: "ok"})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.settings.open)
	assert.False(t, credential.Present(store))
	notes := drain(notifier)
	require.Len(t, notes, 1)
	assert.Equal(t, "Please enter a valid API key", notes[0].Description)
}

func TestSettingsClearKey(t *testing.T) {
	m, store, notifier, _ := newTestModel(t, "k1-existing", &stubCompleter{reply: "ok"})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, "k1-existing", m.settings.input.Value())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Empty(t, m.settings.input.Value())
	assert.False(t, credential.Present(store))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.settings.open)

	notes := drain(notifier)
	require.Len(t, notes, 1)
	assert.Equal(t, "Cleared", notes[0].Title)
}

func TestNotificationToasts(t *testing.T) {
	m, _, _, _ := newTestModel(t, "k1", &stubCompleter{reply: "ok"})

	m, _ = press(t, m, notificationMsg{Kind: zenx.NotifyError, Title: "Error", Description: "boom"})
	require.Len(t, m.toasts, 1)
	assert.Contains(t, m.View(), "boom")

	m, _ = press(t, m, toastExpiredMsg{id: m.toasts[0].id})
	assert.Empty(t, m.toasts)
	assert.NotContains(t, m.View(), "boom")
}

func TestToastLimit(t *testing.T) {
	m, _, _, _ := newTestModel(t, "k1", &stubCompleter{reply: "ok"})

	for i := 0; i < maxToasts+2; i++ {
		m, _ = press(t, m, notificationMsg{Kind: zenx.NotifyInfo, Title: "Info", Description: "note"})
	}
	assert.Len(t, m.toasts, maxToasts)
}

func TestWindowResize(t *testing.T) {
	m, _, _, _ := newTestModel(t, "k1", &stubCompleter{reply: "ok"})

	m, _ = press(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.viewport.Width)
	assert.Equal(t, 40-chromeHeight, m.viewport.Height)
}

func TestCtrlCQuits(t *testing.T) {
	m, _, _, _ := newTestModel(t, "k1", &stubCompleter{reply: "ok"})

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
