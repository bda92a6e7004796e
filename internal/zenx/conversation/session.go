// Package conversation holds the in-memory message history of one chat and
// mediates the round trip to the completion endpoint.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/longkey1/zenx/internal/credential"
	"github.com/longkey1/zenx/internal/zenx"
	"github.com/rs/zerolog"
)

var (
	// ErrEmptyMessage is returned when the text is blank after trimming.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMissingCredential is returned when no API key is stored.
	ErrMissingCredential = errors.New("API key is not configured")

	// ErrBusy is returned while another send is waiting for its reply.
	ErrBusy = errors.New("a reply is already pending")

	// ErrDiscarded is returned when the conversation was cleared while the
	// reply was in flight. The reply is dropped.
	ErrDiscarded = errors.New("conversation was cleared before the reply arrived")
)

// Notification texts raised by Send.
const (
	missingCredentialText = "Please add your OpenRouter API key in settings"
	sendFailedText        = "Failed to send message. Please check your API key and try again."
)

// Session represents one conversation
type Session struct {
	mu         sync.Mutex
	messages   []zenx.Message
	inFlight   bool
	generation uint64

	completer    zenx.Completer
	creds        credential.Getter
	notifier     zenx.Notifier
	systemPrompt string
	logger       zerolog.Logger
	now          func() time.Time
	newID        func() string
}

// Option configures a Session
type Option func(*Session)

// WithNotifier sets where user-visible notifications go
func WithNotifier(n zenx.Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithSystemPrompt sets the instruction sent ahead of the history
func WithSystemPrompt(prompt string) Option {
	return func(s *Session) { s.systemPrompt = prompt }
}

// WithLogger sets the session logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDGenerator overrides the message id generator
func WithIDGenerator(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// New creates an empty session. The credential is read from creds on every send.
func New(completer zenx.Completer, creds credential.Getter, opts ...Option) *Session {
	s := &Session{
		messages:  []zenx.Message{},
		completer: completer,
		creds:     creds,
		notifier:  zenx.NopNotifier,
		logger:    zerolog.Nop(),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send appends text as a user message, sends the conversation to the
// completion endpoint and appends the reply as an assistant message.
//
// On endpoint failure the user message stays in the history, no assistant
// message is added, and an error notification is raised.
func (s *Session) Send(ctx context.Context, text string) (*zenx.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	token, err := s.creds.Get()
	if err != nil || token == "" {
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to read credential")
		}
		s.notify(zenx.NotifyError, "Error", missingCredentialText)
		return nil, ErrMissingCredential
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrBusy
	}

	userMsg := zenx.Message{
		ID:        s.newID(),
		Role:      zenx.RoleUser,
		Content:   text,
		Timestamp: s.now(),
	}

	payload := make([]zenx.ChatMessage, 0, len(s.messages)+2)
	payload = append(payload, zenx.NewSystemMessage(s.systemPrompt))
	for _, m := range s.messages {
		payload = append(payload, m.ChatMessage())
	}
	payload = append(payload, userMsg.ChatMessage())

	s.messages = append(s.messages, userMsg)
	s.inFlight = true
	gen := s.generation
	s.mu.Unlock()

	s.logger.Debug().
		Str("message_id", userMsg.ID).
		Int("history", len(payload)-2).
		Msg("sending message")

	reply, err := s.completer.Complete(ctx, token, payload)

	if err != nil {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()

		s.logger.Error().Err(err).Str("message_id", userMsg.ID).Msg("error sending message")
		s.notify(zenx.NotifyError, "Error", sendFailedText)
		return nil, fmt.Errorf("chat request failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if gen != s.generation {
		s.logger.Debug().Str("message_id", userMsg.ID).Msg("discarding reply for cleared conversation")
		return nil, ErrDiscarded
	}

	ts := s.now()
	if ts.Before(userMsg.Timestamp) {
		ts = userMsg.Timestamp
	}
	assistantMsg := zenx.Message{
		ID:        s.newID(),
		Role:      zenx.RoleAssistant,
		Content:   reply,
		Timestamp: ts,
	}
	s.messages = append(s.messages, assistantMsg)

	return &assistantMsg, nil
}

// Clear discards all messages. A reply still in flight will be dropped.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = []zenx.Message{}
	s.generation++
}

// CredentialPresent reports whether a non-empty credential is stored.
// The store is read on every call.
func (s *Session) CredentialPresent() bool {
	return credential.Present(s.creds)
}

// Busy reports whether a send is waiting for its reply
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Messages returns a copy of the history in chronological order
func (s *Session) Messages() []zenx.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]zenx.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// MessageCount returns the number of messages in the session
func (s *Session) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *Session) notify(kind zenx.NotificationKind, title, description string) {
	s.notifier.Notify(zenx.Notification{Kind: kind, Title: title, Description: description})
}
