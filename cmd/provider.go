package cmd

import (
	"io"

	"github.com/longkey1/zenx/internal/credential"
	"github.com/longkey1/zenx/internal/logging"
	"github.com/longkey1/zenx/internal/openrouter"
	"github.com/longkey1/zenx/internal/zenx"
	"github.com/longkey1/zenx/internal/zenx/config"
	"github.com/longkey1/zenx/internal/zenx/conversation"
	"github.com/rs/zerolog"
)

// app bundles everything a chat command needs
type app struct {
	config *config.Config
	store  credential.Store
	client *openrouter.Client
	logger zerolog.Logger
	close  func() error
}

// newApp loads configuration and builds the client, credential store and logger.
// console receives logs when no log file is configured; nil discards them.
func newApp(apiKey string, console io.Writer) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Verbose: verbose,
		File:    cfg.LogFile,
		Console: console,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		config: cfg,
		store:  newStore(cfg, apiKey),
		client: openrouter.NewClient(cfg, openrouter.WithLogger(logger)),
		logger: logger,
		close:  closeLog,
	}, nil
}

// newStore returns the credential store; a key given on the command line is held in memory only
func newStore(cfg *config.Config, apiKey string) credential.Store {
	if apiKey != "" {
		return credential.NewMemoryStore(apiKey)
	}
	return credential.NewFileStore(cfg.CredentialsFile)
}

func (a *app) newSession(n zenx.Notifier) *conversation.Session {
	return conversation.New(a.client, a.store,
		conversation.WithNotifier(n),
		conversation.WithSystemPrompt(a.config.SystemPrompt),
		conversation.WithLogger(a.logger),
	)
}
