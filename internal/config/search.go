package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/tastybot/pkg/log"
)

type SearchConfig struct {
	// Vector index endpoint holding the recipe corpus.
	IndexURL    string `env:"RECIPE_INDEX_URL,required,notEmpty"`
	IndexAPIKey string `env:"RECIPE_INDEX_API_KEY"`

	// Embedding endpoint settings; defaults match the OpenAI embeddings API.
	EmbeddingBaseURL string `env:"EMBEDDING_BASE_URL" envDefault:"https://api.openai.com"`
	EmbeddingAPIKey  string `env:"EMBEDDING_API_KEY"`
	EmbeddingModel   string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
}

func NewSearchConfig(ctx context.Context) *SearchConfig {
	c := &SearchConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Search config")
	}
	return c
}
