package repl

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/longkey1/zenx/internal/credential"
	"github.com/longkey1/zenx/internal/zenx"
	"github.com/longkey1/zenx/internal/zenx/conversation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader replays fixed lines and then reports EOF
type scriptedReader struct {
	lines     []string
	passwords []string
	history   []string
}

func (s *scriptedReader) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedReader) PasswordPrompt(string) (string, error) {
	if len(s.passwords) == 0 {
		return "", io.EOF
	}
	p := s.passwords[0]
	s.passwords = s.passwords[1:]
	return p, nil
}

func (s *scriptedReader) AppendHistory(item string) {
	s.history = append(s.history, item)
}

type echoCompleter struct{}

func (echoCompleter) Complete(_ context.Context, _ string, messages []zenx.ChatMessage) (string, error) {
	return "echo: " + messages[len(messages)-1].Content, nil
}

func newTestREPL(t *testing.T, store credential.Store, reader *scriptedReader) (*REPL, *conversation.Session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	notifier := NewNotifier(&errOut)
	sess := conversation.New(echoCompleter{}, store, conversation.WithNotifier(notifier))
	r := New(sess, store, notifier, &out, &errOut, WithLineReader(reader), WithSpinner(false))
	return r, sess, &out, &errOut
}

func TestRunConversation(t *testing.T) {
	reader := &scriptedReader{lines: []string{"Hello", "  ", "How are you?"}}
	r, sess, out, errOut := newTestREPL(t, credential.NewMemoryStore("k1"), reader)

	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, out.String(), "Assistant> echo: Hello")
	assert.Contains(t, out.String(), "Assistant> echo: How are you?")
	assert.Contains(t, errOut.String(), "Goodbye!")
	assert.Equal(t, 4, sess.MessageCount())
	assert.Equal(t, []string{"Hello", "How are you?"}, reader.history)
}

func TestRunWithoutCredential(t *testing.T) {
	reader := &scriptedReader{lines: []string{"Hello"}}
	r, sess, out, errOut := newTestREPL(t, credential.NewMemoryStore(""), reader)

	require.NoError(t, r.Run(context.Background()))

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "No API key configured")
	assert.Contains(t, errOut.String(), "Error: Please add your OpenRouter API key in settings")
	assert.Zero(t, sess.MessageCount())
}

func TestKeyCommands(t *testing.T) {
	store := credential.NewMemoryStore("")
	reader := &scriptedReader{
		lines:     []string{"/key", "/key show", "Hello", "/key clear", "/exit", "never read"},
		passwords: []string{"sk-or-v1-0123456789"},
	}
	r, sess, out, errOut := newTestREPL(t, store, reader)

	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, errOut.String(), "Success: API key saved successfully!")
	assert.Contains(t, errOut.String(), "API key: sk-o...6789")
	assert.Contains(t, out.String(), "Assistant> echo: Hello")
	assert.Contains(t, errOut.String(), "Cleared: API key removed from storage")
	assert.False(t, credential.Present(store))
	assert.Equal(t, 2, sess.MessageCount())
	assert.Equal(t, []string{"never read"}, reader.lines)
}

func TestKeyBlankRejected(t *testing.T) {
	store := credential.NewMemoryStore("")
	reader := &scriptedReader{lines: []string{"/key"}, passwords: []string{"   "}}
	r, _, _, errOut := newTestREPL(t, store, reader)

	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, errOut.String(), "Error: Please enter a valid API key")
	assert.False(t, credential.Present(store))
}

func TestNewCommandClears(t *testing.T) {
	reader := &scriptedReader{lines: []string{"Hello", "/new", "/info"}}
	r, sess, _, errOut := newTestREPL(t, credential.NewMemoryStore("k1"), reader)

	require.NoError(t, r.Run(context.Background()))

	assert.Zero(t, sess.MessageCount())
	assert.Contains(t, errOut.String(), "Started a new chat.")
	assert.Contains(t, errOut.String(), "Messages: 0")
}

func TestUnknownCommand(t *testing.T) {
	reader := &scriptedReader{lines: []string{"/bogus"}}
	r, _, _, errOut := newTestREPL(t, credential.NewMemoryStore("k1"), reader)

	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, errOut.String(), "Unknown command: /bogus")
}

func TestRenderer(t *testing.T) {
	var out, errOut bytes.Buffer
	store := credential.NewMemoryStore("k1")
	sess := conversation.New(echoCompleter{}, store)
	r := New(sess, store, zenx.NopNotifier, &out, &errOut,
		WithLineReader(&scriptedReader{lines: []string{"hi"}}),
		WithSpinner(false),
		WithRenderer(func(s string) string { return "[" + s + "]" }),
	)

	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, out.String(), "Assistant> [echo: hi]")
}
