package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/longkey1/zenx/internal/credential"
	"github.com/longkey1/zenx/internal/repl"
	"github.com/longkey1/zenx/internal/zenx/config"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

var reveal bool

// keyCmd represents the key command
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored OpenRouter API key",
	Long: `Manage the OpenRouter API key stored on this machine.
The key is kept in the credentials file (credentials_file in the config)
and is only ever sent to the configured endpoint.`,
}

var keySetCmd = &cobra.Command{
	Use:   "set [value]",
	Short: "Store the API key",
	Long: `Store the API key. When no value is given, it is read with masked input.
Use "-" to read it from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := fileStore()
		if err != nil {
			return err
		}

		var value string
		switch {
		case len(args) == 1 && args[0] == "-":
			var line string
			if _, err := fmt.Fscanln(cmd.InOrStdin(), &line); err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			value = line
		case len(args) == 1:
			value = args[0]
		default:
			if value, err = promptKey(); err != nil {
				return err
			}
		}

		return credential.Save(store, repl.NewNotifier(cmd.ErrOrStderr()), value)
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored API key (masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := fileStore()
		if err != nil {
			return err
		}
		value, err := store.Get()
		if err != nil {
			return err
		}
		if reveal && value != "" {
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), credential.Mask(value))
		return nil
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := fileStore()
		if err != nil {
			return err
		}
		return credential.Remove(store, repl.NewNotifier(cmd.ErrOrStderr()))
	},
}

func fileStore() (*credential.FileStore, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.CredentialsFile == "" {
		return nil, errors.New("credentials_file is not configured")
	}
	return credential.NewFileStore(cfg.CredentialsFile), nil
}

func promptKey() (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	value, err := line.PasswordPrompt("OpenRouter API key: ")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", errors.New("aborted")
		}
		return "", fmt.Errorf("reading API key: %w", err)
	}
	return strings.TrimSpace(value), nil
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keySetCmd, keyShowCmd, keyClearCmd)

	keyShowCmd.Flags().BoolVar(&reveal, "reveal", false, "Print the full key")
}
