// Package repl runs a line-oriented chat loop for terminals where the full
// screen interface is unavailable or unwanted.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/longkey1/zenx/internal/credential"
	"github.com/longkey1/zenx/internal/zenx"
	"github.com/longkey1/zenx/internal/zenx/conversation"
	"github.com/peterh/liner"
	"github.com/rs/zerolog"
)

// LineReader is the subset of *liner.State used by the loop
type LineReader interface {
	Prompt(prompt string) (string, error)
	PasswordPrompt(prompt string) (string, error)
	AppendHistory(item string)
}

// REPL is an interactive prompt bound to one conversation
type REPL struct {
	session  *conversation.Session
	store    credential.Store
	notifier zenx.Notifier
	line     LineReader
	out      io.Writer
	errOut   io.Writer
	render   func(string) string
	spinner  bool
	logger   zerolog.Logger
}

// Option configures a REPL
type Option func(*REPL)

// WithRenderer sets how assistant replies are formatted before printing
func WithRenderer(render func(string) string) Option {
	return func(r *REPL) { r.render = render }
}

// WithLineReader replaces the liner-backed reader
func WithLineReader(line LineReader) Option {
	return func(r *REPL) { r.line = line }
}

// WithSpinner toggles the waiting animation on errOut
func WithSpinner(enabled bool) Option {
	return func(r *REPL) { r.spinner = enabled }
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(r *REPL) { r.logger = logger }
}

// New creates a REPL. notifier is used for settings notifications and
// should be the same one the session reports to.
func New(sess *conversation.Session, store credential.Store, notifier zenx.Notifier, out, errOut io.Writer, opts ...Option) *REPL {
	r := &REPL{
		session:  sess,
		store:    store,
		notifier: notifier,
		out:      out,
		errOut:   errOut,
		render:   func(s string) string { return s },
		spinner:  true,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewNotifier returns a notifier that prints to w
func NewNotifier(w io.Writer) zenx.Notifier {
	return zenx.NotifierFunc(func(n zenx.Notification) {
		fmt.Fprintf(w, "%s: %s\n", n.Title, n.Description)
	})
}

// Run reads input until EOF, /exit, or ctx is done
func (r *REPL) Run(ctx context.Context) error {
	if r.line == nil {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		defer state.Close()
		r.line = state
	}

	r.printHeader()

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := r.line.Prompt("You> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(r.errOut, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if r.handleCommand(input) {
				continue
			}
			return nil
		}

		r.send(ctx, input)
	}
}

func (r *REPL) printHeader() {
	fmt.Fprintf(r.errOut, "\n=== ZenxAI ===\n")
	if !r.session.CredentialPresent() {
		fmt.Fprintf(r.errOut, "No API key configured. Use '/key' to add your OpenRouter API key.\n")
	}
	fmt.Fprintf(r.errOut, "Type '/help' for commands, '/exit' or 'Ctrl+D' to quit\n")
	fmt.Fprintf(r.errOut, "==============\n\n")
}

func (r *REPL) send(ctx context.Context, input string) {
	var done chan struct{}
	var stopped chan struct{}
	if r.spinner {
		done = make(chan struct{})
		stopped = make(chan struct{})
		go func() {
			showSpinner(r.errOut, done)
			close(stopped)
		}()
	}

	reply, err := r.session.Send(ctx, input)

	if r.spinner {
		close(done)
		<-stopped
	}

	if err != nil {
		// The session has already notified for anything user-visible.
		r.logger.Debug().Err(err).Msg("send failed")
		return
	}

	fmt.Fprintf(r.out, "\nAssistant> %s\n\n", r.render(reply.Content))
}

// showSpinner displays a spinner animation while waiting for response
func showSpinner(w io.Writer, done <-chan struct{}) {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i = (i + 1) % len(frames) {
		fmt.Fprintf(w, "\r%s Waiting for response...", frames[i])
		select {
		case <-done:
			fmt.Fprint(w, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// handleCommand processes slash commands
// Returns true to continue the loop, false to exit
func (r *REPL) handleCommand(command string) bool {
	fields := strings.Fields(strings.ToLower(command))
	name := fields[0]

	switch name {
	case "/help", "/h":
		fmt.Fprintln(r.errOut, "\nAvailable commands:")
		fmt.Fprintln(r.errOut, "  /help, /h       - Show this help message")
		fmt.Fprintln(r.errOut, "  /new, /n        - Discard the conversation and start over")
		fmt.Fprintln(r.errOut, "  /key            - Set the OpenRouter API key")
		fmt.Fprintln(r.errOut, "  /key show       - Show the stored API key (masked)")
		fmt.Fprintln(r.errOut, "  /key clear      - Remove the stored API key")
		fmt.Fprintln(r.errOut, "  /info, /i       - Show conversation information")
		fmt.Fprintln(r.errOut, "  /exit, /quit    - Exit")
		fmt.Fprintln(r.errOut, "  Ctrl+D          - Exit")
		fmt.Fprintln(r.errOut, "")
		return true

	case "/new", "/n":
		r.session.Clear()
		fmt.Fprintln(r.errOut, "Started a new chat.")
		return true

	case "/key":
		r.handleKey(fields[1:])
		return true

	case "/info", "/i":
		fmt.Fprintln(r.errOut, "\nConversation Information:")
		fmt.Fprintf(r.errOut, "  Messages: %d\n", r.session.MessageCount())
		fmt.Fprintf(r.errOut, "  API key: %v\n", r.session.CredentialPresent())
		fmt.Fprintln(r.errOut, "")
		return true

	case "/exit", "/quit", "/q":
		fmt.Fprintln(r.errOut, "Goodbye!")
		return false

	default:
		fmt.Fprintf(r.errOut, "Unknown command: %s (type '/help' for available commands)\n", name)
		return true
	}
}

func (r *REPL) handleKey(args []string) {
	if len(args) > 0 {
		switch args[0] {
		case "show":
			v, err := r.store.Get()
			if err != nil {
				fmt.Fprintf(r.errOut, "Error: %v\n", err)
				return
			}
			fmt.Fprintf(r.errOut, "API key: %s\n", credential.Mask(v))
		case "clear":
			_ = credential.Remove(r.store, r.notifier)
		default:
			fmt.Fprintf(r.errOut, "Unknown key command: %s (use '/key', '/key show' or '/key clear')\n", args[0])
		}
		return
	}

	value, err := r.line.PasswordPrompt("OpenRouter API key: ")
	if err != nil {
		fmt.Fprintln(r.errOut, "Cancelled.")
		return
	}
	_ = credential.Save(r.store, r.notifier, value)
}
