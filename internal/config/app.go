package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/tastybot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"TASTY_RUNTIME_PATH" envDefault:".tastybot"`

	// Transport flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"true"`
	EnableHTTP     bool `env:"ENABLE_HTTP" envDefault:"false"`

	// Context management
	ContextWindowSize  int `env:"CONTEXT_WINDOW_SIZE" envDefault:"30"`
	HistoryTokenBudget int `env:"HISTORY_TOKEN_BUDGET" envDefault:"2000"`

	// Search
	TopK int `env:"SEARCH_TOP_K" envDefault:"3"`

	// Per-step deadline for collaborator calls
	StepTimeout time.Duration `env:"STEP_TIMEOUT" envDefault:"45s"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "tastybot.db")
}
