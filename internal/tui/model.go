// Package tui implements the full-screen chat interface.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/longkey1/zenx/internal/credential"
	"github.com/longkey1/zenx/internal/zenx"
	"github.com/longkey1/zenx/internal/zenx/conversation"
	"github.com/rs/zerolog"
)

const (
	toastDuration      = 4 * time.Second
	errorToastDuration = 8 * time.Second
	maxToasts          = 3

	// Rows taken by everything except the thread viewport.
	chromeHeight = 8
)

type replyMsg struct {
	message *zenx.Message
	err     error
}

type notificationMsg zenx.Notification

type toastExpiredMsg struct{ id int }

type toast struct {
	id   int
	note zenx.Notification
}

// Model is the bubbletea model for the chat screen
type Model struct {
	ctx      context.Context
	session  *conversation.Session
	store    credential.Store
	notifier *zenx.ChanNotifier
	logger   zerolog.Logger

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	settings settings

	renderer *glamour.TermRenderer
	rendered map[string]string // assistant message id -> rendered markdown

	toasts      []toast
	nextToastID int
	pending     bool
	width       int
	height      int
}

// Option configures a Model
type Option func(*Model)

// WithRenderer sets the markdown renderer for assistant replies. nil disables rendering.
func WithRenderer(r *glamour.TermRenderer) Option {
	return func(m *Model) { m.renderer = r }
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// New creates the chat screen. notifier must be the one the session reports to.
func New(ctx context.Context, sess *conversation.Session, store credential.Store, notifier *zenx.ChanNotifier, opts ...Option) Model {
	in := textinput.New()
	in.Placeholder = "Message ZenxAI..."
	in.Prompt = "> "
	in.CharLimit = 8192
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		session:  sess,
		store:    store,
		notifier: notifier,
		logger:   zerolog.Nop(),
		input:    in,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		settings: newSettings(),
		rendered: make(map[string]string),
		width:    80,
		height:   20 + chromeHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// NewRenderer returns the markdown renderer used for assistant replies
func NewRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
}

// Run starts the program and blocks until the user quits or ctx is done
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForNotification())
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.settings.open {
			var cmd tea.Cmd
			m.settings, cmd = m.settings.update(msg, m.store, m.notifier)
			if !m.settings.open {
				cmd = tea.Batch(cmd, m.input.Focus())
				m.refresh()
			}
			return m, cmd
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case replyMsg:
		m.pending = false
		if msg.err != nil && !errors.Is(msg.err, conversation.ErrDiscarded) {
			m.logger.Debug().Err(msg.err).Msg("send failed")
		}
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case notificationMsg:
		id := m.nextToastID
		m.nextToastID++
		m.toasts = append(m.toasts, toast{id: id, note: zenx.Notification(msg)})
		if len(m.toasts) > maxToasts {
			m.toasts = m.toasts[len(m.toasts)-maxToasts:]
		}
		d := toastDuration
		if msg.Kind == zenx.NotifyError {
			d = errorToastDuration
		}
		expire := tea.Tick(d, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
		return m, tea.Batch(expire, m.waitForNotification())

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.id == msg.id {
				m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.input.Blur()
		return m, m.settings.show(m.store)

	case "ctrl+n":
		m.session.Clear()
		m.rendered = make(map[string]string)
		m.refresh()
		return m, nil

	case "pgup":
		m.viewport.ViewUp()
		return m, nil

	case "pgdown":
		m.viewport.ViewDown()
		return m, nil

	case "enter":
		text := m.input.Value()
		if strings.TrimSpace(text) == "" || m.busy() {
			return m, nil
		}
		if !m.session.CredentialPresent() {
			// Let the session raise the missing-key notification; keep the draft.
			return m, m.sendCmd(text)
		}
		m.input.Reset()
		m.pending = true
		return m, tea.Batch(m.spinner.Tick, m.sendCmd(text))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) sendCmd(text string) tea.Cmd {
	ctx, sess := m.ctx, m.session
	return func() tea.Msg {
		reply, err := sess.Send(ctx, text)
		return replyMsg{message: reply, err: err}
	}
}

func (m Model) waitForNotification() tea.Cmd {
	ch := m.notifier.C()
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}

// busy is true from the moment a send is dispatched until its reply is handled.
func (m Model) busy() bool {
	return m.pending || m.session.Busy()
}

// canSend mirrors the enabled state of the send control.
func (m Model) canSend() bool {
	return strings.TrimSpace(m.input.Value()) != "" && !m.busy() && m.session.CredentialPresent()
}

func (m *Model) resize(width, height int) {
	if width != m.width && m.renderer != nil {
		if r, err := NewRenderer(max(width-6, 20)); err == nil {
			m.renderer = r
			m.rendered = make(map[string]string)
		}
	}
	m.width, m.height = width, height
	m.viewport.Width = width
	m.viewport.Height = max(height-chromeHeight, 3)
	m.input.Width = max(width-8, 10)
	m.settings.input.Width = max(min(width-12, 60), 10)
	m.refresh()
}

func (m *Model) refresh() {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.threadView())
	if atBottom {
		m.viewport.GotoBottom()
	}
}
