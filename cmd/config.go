package cmd

import (
	"fmt"
	"strings"

	"github.com/longkey1/zenx/internal/credential"
	"github.com/longkey1/zenx/internal/zenx/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, model, base_url, referer, title, system_prompt, credentials_file, log_file, log_level, api_key"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  zenx config             # Show all configuration
  zenx config model       # Show only model
  zenx config api_key     # Show the stored API key, masked`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		out := cmd.OutOrStdout()

		storedKey := func() string {
			v, err := credential.NewFileStore(cfg.CredentialsFile).Get()
			if err != nil {
				return fmt.Sprintf("[error: %v]", err)
			}
			return credential.Mask(v)
		}

		if len(args) > 0 {
			var value string
			switch strings.ToLower(args[0]) {
			case "configfile":
				value = viper.ConfigFileUsed()
			case "model":
				value = cfg.Model
			case "base_url", "baseurl":
				value = cfg.BaseURL
			case "referer":
				value = cfg.Referer
			case "title":
				value = cfg.Title
			case "system_prompt", "systemprompt":
				value = cfg.SystemPrompt
			case "credentials_file", "credentialsfile":
				value = cfg.CredentialsFile
			case "log_file", "logfile":
				value = cfg.LogFile
			case "log_level", "loglevel":
				value = cfg.LogLevel
			case "api_key", "apikey":
				value = storedKey()
			default:
				return fmt.Errorf("unknown field: %s (available fields: %s)", args[0], configFields)
			}
			fmt.Fprintln(out, value)
			return nil
		}

		fmt.Fprintf(out, "ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Fprintf(out, "Model: %s\n", cfg.Model)
		fmt.Fprintf(out, "BaseURL: %s\n", cfg.BaseURL)
		fmt.Fprintf(out, "Referer: %s\n", cfg.Referer)
		fmt.Fprintf(out, "Title: %s\n", cfg.Title)
		fmt.Fprintf(out, "SystemPrompt: %s\n", cfg.SystemPrompt)
		fmt.Fprintf(out, "CredentialsFile: %s\n", cfg.CredentialsFile)
		fmt.Fprintf(out, "APIKey: %s\n", storedKey())
		fmt.Fprintf(out, "LogFile: %s\n", cfg.LogFile)
		fmt.Fprintf(out, "LogLevel: %s\n", cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
