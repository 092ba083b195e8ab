// Command arcana is a terminal tarot companion. Readings are generated
// by a configurable AI backend and persisted either to the user's
// Google Drive (a spreadsheet per user) or to a local SQLite database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/arcana-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/arcana-cli/internal/adapters/driven/reading/anthropic"
	"github.com/custodia-labs/arcana-cli/internal/adapters/driven/reading/ollama"
	"github.com/custodia-labs/arcana-cli/internal/adapters/driven/reading/openai"
	sessionfile "github.com/custodia-labs/arcana-cli/internal/adapters/driven/session/file"
	"github.com/custodia-labs/arcana-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/arcana-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/arcana-cli/internal/connectors/google"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arcana-cli/internal/core/services"
	"github.com/custodia-labs/arcana-cli/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("init config store: %w", err)
	}
	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("init prompt store: %w", err)
	}
	sessionStore, err := sessionfile.NewSessionStore("")
	if err != nil {
		return fmt.Errorf("init session store: %w", err)
	}

	// The session service does not exist yet when the Google clients
	// are built, so each API call reads the token through this closure.
	var sessionSvc *services.SessionService
	tokenFn := google.TokenFunc(func() string {
		if sessionSvc == nil {
			return ""
		}
		if s := sessionSvc.Session(); s != nil {
			return s.AccessToken
		}
		return ""
	})

	identity := google.NewIdentityProvider(google.IdentityConfig{
		ClientID:     configStore.GetString("google.client_id"),
		ClientSecret: configStore.GetString("google.client_secret"),
		OnAuthURL: func(url string) {
			fmt.Printf("Open this URL in your browser to sign in:\n\n  %s\n\n", url)
		},
	})

	store, cleanup, err := buildTabularStore(ctx, configStore, tokenFn)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	sessionSvc = services.NewSessionService(identity, store, sessionStore)
	sessionSvc.Restore(ctx)

	provider, err := buildReadingProvider(configStore, promptStore)
	if err != nil {
		return err
	}
	readingSvc := services.NewReadingService(provider)

	cli.SetVersion(version)
	cli.SetServices(sessionSvc, readingSvc, configStore, promptStore)
	return cli.Execute()
}

// buildTabularStore selects the persistence backend from storage.mode.
// "google" (the default) stores readings in a Drive spreadsheet,
// "local" in a SQLite database under the arcana data directory.
func buildTabularStore(ctx context.Context, cfg driven.ConfigStore, tokenFn google.TokenFunc) (driven.TabularStore, func(), error) {
	mode := cfg.GetString("storage.mode")
	switch mode {
	case "", "google":
		store, err := google.NewTabularStore(ctx, google.NewTokenSource(tokenFn))
		if err != nil {
			return nil, nil, fmt.Errorf("init google storage: %w", err)
		}
		return store, nil, nil
	case "local":
		store, err := sqlite.NewStore(cfg.GetString("storage.data_dir"))
		if err != nil {
			return nil, nil, fmt.Errorf("init local storage: %w", err)
		}
		cleanup := func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing local storage: %v", err)
			}
		}
		return store.TabularStore(), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage.mode %q (expected google or local)", mode)
	}
}

// buildReadingProvider selects the AI backend from provider.backend.
// Without a configured backend the provider is nil and generation is
// disabled; saving and browsing readings keep working.
func buildReadingProvider(cfg driven.ConfigStore, prompts driven.PromptStore) (driven.ReadingProvider, error) {
	backend := cfg.GetString("provider.backend")
	switch backend {
	case "":
		logger.Debug("no provider.backend configured, reading generation disabled")
		return nil, nil
	case "anthropic":
		p, err := anthropic.NewProvider(anthropic.Config{
			APIKey:  cfg.GetString("provider.api_key"),
			BaseURL: cfg.GetString("provider.base_url"),
			Model:   cfg.GetString("provider.model"),
		})
		if err != nil {
			return nil, fmt.Errorf("init anthropic provider: %w", err)
		}
		p.SetPromptStore(prompts)
		return p, nil
	case "openai":
		p, err := openai.NewProvider(openai.Config{
			APIKey:  cfg.GetString("provider.api_key"),
			BaseURL: cfg.GetString("provider.base_url"),
			Model:   cfg.GetString("provider.model"),
		})
		if err != nil {
			return nil, fmt.Errorf("init openai provider: %w", err)
		}
		p.SetPromptStore(prompts)
		return p, nil
	case "ollama":
		p := ollama.NewProvider(ollama.Config{
			BaseURL: cfg.GetString("provider.base_url"),
			Model:   cfg.GetString("provider.model"),
		})
		p.SetPromptStore(prompts)
		return p, nil
	default:
		return nil, fmt.Errorf("unknown provider.backend %q (expected anthropic, openai or ollama)", backend)
	}
}
