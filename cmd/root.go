/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/longkey1/zenx/internal/zenx/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zenx",
	Short: "A terminal chat client for OpenRouter",
	Long: `zenx is a terminal chat client that talks to models hosted on OpenRouter.
Conversations live in memory only; the API key is stored locally.
You can configure the tool using a TOML configuration file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/zenx/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	// A missing .env is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	viper.SetEnvPrefix("ZENX")
	viper.AutomaticEnv()

	userConfigDir, err := config.UserConfigDir()
	cobra.CheckErr(err)

	defaultConfig := config.NewDefaultConfig(filepath.Join(userConfigDir, "credentials.toml"))

	viper.SetDefault("model", defaultConfig.Model)
	viper.SetDefault("base_url", defaultConfig.BaseURL)
	viper.SetDefault("referer", defaultConfig.Referer)
	viper.SetDefault("title", defaultConfig.Title)
	viper.SetDefault("system_prompt", defaultConfig.SystemPrompt)
	viper.SetDefault("credentials_file", defaultConfig.CredentialsFile)
	viper.SetDefault("log_file", defaultConfig.LogFile)
	viper.SetDefault("log_level", defaultConfig.LogLevel)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	} else {
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		// System-wide config first (lower priority)
		systemConfigLoaded := false
		for _, path := range []string{"/etc/zenx", "/usr/local/etc/zenx"} {
			viper.AddConfigPath(path)
		}
		if err := viper.ReadInConfig(); err == nil {
			systemConfigLoaded = true
			if verbose {
				fmt.Fprintln(os.Stderr, "Loaded system-wide config:", viper.ConfigFileUsed())
			}
		}

		// User config on top
		userConfig := filepath.Join(userConfigDir, "config.toml")
		if _, err := os.Stat(userConfig); err == nil {
			viper.SetConfigFile(userConfig)
			read := viper.ReadInConfig
			if systemConfigLoaded {
				read = viper.MergeInConfig
			}
			if err := read(); err != nil {
				fmt.Fprintf(os.Stderr, "Error reading user config file: %v\n", err)
			} else if verbose {
				fmt.Fprintln(os.Stderr, "Merged user config:", userConfig)
			}
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "Environment variables:")
		fmt.Fprintln(os.Stderr, "  ZENX_MODEL:", viper.GetString("model"))
		fmt.Fprintln(os.Stderr, "  ZENX_BASE_URL:", viper.GetString("base_url"))
		fmt.Fprintln(os.Stderr, "  ZENX_CREDENTIALS_FILE:", viper.GetString("credentials_file"))
	}
}
