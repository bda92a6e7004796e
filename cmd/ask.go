package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/longkey1/zenx/internal/repl"
	"github.com/spf13/cobra"
)

var (
	raw    bool
	askKey string
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send a single message and print the reply",
	Long: `Send a single message in a fresh conversation and print the reply.
If no message is provided as an argument, it reads from stdin.

The reply is rendered as markdown unless --raw is set.

Examples:
  zenx ask "What is a goroutine?"
  git diff | zenx ask --raw`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var message string
		if len(args) > 0 {
			message = strings.Join(args, " ")
		} else {
			input, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			message = string(input)
		}
		if strings.TrimSpace(message) == "" {
			return errors.New("message is empty")
		}

		a, err := newApp(askKey, os.Stderr)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		defer a.close()

		sess := a.newSession(repl.NewNotifier(os.Stderr))
		reply, err := sess.Send(cmd.Context(), message)
		if err != nil {
			return err
		}

		out := reply.Content
		if !raw {
			if render, err := newMarkdownRenderer(); err == nil {
				out = render(out)
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
		return nil
	},
}

// newMarkdownRenderer returns a function that renders markdown for the terminal,
// falling back to the input on render errors.
func newMarkdownRenderer() (func(string) string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, err
	}
	return func(s string) string {
		out, err := r.Render(s)
		if err != nil {
			return s
		}
		return out
	}, nil
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().BoolVar(&raw, "raw", false, "Print the reply without markdown rendering")
	askCmd.Flags().StringVar(&askKey, "key", "", "API key for this run only (not stored)")
}
