/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/longkey1/zenx/internal/repl"
	"github.com/longkey1/zenx/internal/tui"
	"github.com/longkey1/zenx/internal/zenx"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	apiKey string
	plain  bool
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat",
	Long: `Start an interactive chat with the configured model.

The full-screen interface is used when stdin and stdout are terminals.
Otherwise, or with --plain, a line-oriented prompt is used instead.

Keys in the full-screen interface:
  enter   send the message
  ctrl+n  start a new chat
  ctrl+s  open settings (API key)
  ctrl+c  quit

Commands in the line prompt:
  /help  /new  /key  /info  /exit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if plain || !isTerminal() {
			return runPlainChat(ctx)
		}
		return runScreenChat(ctx)
	},
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runScreenChat(ctx context.Context) error {
	// Logs would corrupt the screen; only a configured log file receives them
	a, err := newApp(apiKey, nil)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	defer a.close()

	notifier := zenx.NewChanNotifier(16)
	sess := a.newSession(notifier)

	opts := []tui.Option{tui.WithLogger(a.logger)}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	if r, err := tui.NewRenderer(max(width-6, 20)); err == nil {
		opts = append(opts, tui.WithRenderer(r))
	} else {
		a.logger.Warn().Err(err).Msg("markdown rendering disabled")
	}

	a.logger.Info().Str("model", a.config.Model).Msg("starting chat screen")
	return tui.Run(ctx, tui.New(ctx, sess, a.store, notifier, opts...))
}

func runPlainChat(ctx context.Context) error {
	a, err := newApp(apiKey, os.Stderr)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	defer a.close()

	notifier := repl.NewNotifier(os.Stderr)
	sess := a.newSession(notifier)

	opts := []repl.Option{repl.WithLogger(a.logger)}
	if isTerminal() {
		if render, err := newMarkdownRenderer(); err == nil {
			opts = append(opts, repl.WithRenderer(render))
		}
	} else {
		opts = append(opts, repl.WithSpinner(false))
	}

	return repl.New(sess, a.store, notifier, os.Stdout, os.Stderr, opts...).Run(ctx)
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVar(&plain, "plain", false, "Use the line prompt instead of the full-screen interface")
	chatCmd.Flags().StringVar(&apiKey, "key", "", "API key for this run only (not stored)")
}
