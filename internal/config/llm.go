package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/tastybot/pkg/log"
)

type LLMConfig struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"openai"`
	Model    string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL    string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey     string `env:"OLLAMA_API_KEY"`

	CustomBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}
