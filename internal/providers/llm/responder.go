package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/tastybot/internal/core"
)

// Responder generates the assistant's reply text. The prompt context is
// assembled by the response step; this adapter only adds the persona and the
// language constraint.
type Responder struct {
	ai core.ChatProvider
}

func NewResponder(ai core.ChatProvider) *Responder {
	return &Responder{ai: ai}
}

func (r *Responder) Generate(ctx context.Context, intent core.Intent, language string, promptContext string) (string, error) {
	resp, err := r.ai.Chat(ctx, []core.Message{
		{Role: core.RoleSystem, Content: responderSystemPrompt(intent, language)},
		{Role: core.RoleUser, Content: promptContext},
	})
	if err != nil {
		return "", fmt.Errorf("llm chat: %w", err)
	}
	if resp.Content == "" {
		return "", fmt.Errorf("empty response content")
	}
	return resp.Content, nil
}

func responderSystemPrompt(intent core.Intent, language string) string {
	base := fmt.Sprintf(`You are %s, a multilingual, friendly, food-loving chef.
Always respond in this language: %s.
Sound like a passionate home cook talking naturally to a friend. Be warm and concise.`, core.TastyName, language)

	switch intent {
	case core.IntentNewSearch:
		return base + `
Present the recipe options briefly by title. Do NOT include full ingredients or directions; invite the user to pick one for the full recipe.`
	case core.IntentComparison:
		return base + `
Compare the recipes using the step and ingredient counts provided. Answer the user's specific question first, then add context if helpful. Do not list all recipes again.`
	default:
		return base + `
Answer the user's question based on the recipe data provided. Acknowledge when you are estimating.`
	}
}
