package llm

import (
	"github.com/sandevgo/tastybot/internal/core"
)

// OpenAI provider is implemented using OpenAICompatible.
type OpenAI struct {
	*OpenAICompatible
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    "https://api.openai.com",
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}),
	}
}

type OpenRouter struct {
	*OpenAICompatible
}

func NewOpenRouter(apiKey, model string) *OpenRouter {
	return &OpenRouter{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    "https://openrouter.ai/api",
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
			ExtraHeaders: map[string]string{
				"HTTP-Referer": core.TastyRepositoryURL,
				"X-Title":      core.TastyName,
			},
		}),
	}
}

type Ollama struct {
	*OpenAICompatible
}

func NewOllama(baseURL, apiKey, model string) *Ollama {
	return &Ollama{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    baseURL,
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}),
	}
}

type CustomOpenAI struct {
	*OpenAICompatible
}

func NewCustomOpenAI(baseURL, apiKey, model string) *CustomOpenAI {
	return &CustomOpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    baseURL,
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}),
	}
}
