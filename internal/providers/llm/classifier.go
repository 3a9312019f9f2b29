package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/tastybot/internal/core"
)

// ErrOutOfDomain reports a classifier verdict outside the closed intent set.
var ErrOutOfDomain = errors.New("intent outside closed domain")

// Classifier asks the model which of the four intents the latest user
// message carries. Callers own the fallback to general.
type Classifier struct {
	ai core.ChatProvider
}

func NewClassifier(ai core.ChatProvider) *Classifier {
	return &Classifier{ai: ai}
}

func (c *Classifier) Classify(ctx context.Context, input string, history []core.Message) (core.Intent, error) {
	resp, err := c.ai.Chat(ctx, []core.Message{
		{Role: core.RoleSystem, Content: "You are an intent classification expert. Respond only with valid JSON."},
		{Role: core.RoleUser, Content: buildClassifierPrompt(input, history)},
	})
	if err != nil {
		return core.IntentGeneral, fmt.Errorf("llm chat: %w", err)
	}

	jsonStr := extractJSONObject(resp.Content)
	if jsonStr == "" {
		return core.IntentGeneral, fmt.Errorf("no JSON object in classifier response")
	}

	var verdict struct {
		Intent string `json:"intent"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &verdict); err != nil {
		return core.IntentGeneral, fmt.Errorf("unmarshal verdict: %w", err)
	}

	intent, ok := core.ParseIntent(verdict.Intent)
	if !ok {
		return core.IntentGeneral, fmt.Errorf("%w: %q", ErrOutOfDomain, verdict.Intent)
	}
	return intent, nil
}

func buildClassifierPrompt(input string, history []core.Message) string {
	var b strings.Builder

	b.WriteString("Analyze the user's latest message and classify their intent.\n\n")
	b.WriteString("Conversation context:\n")
	b.WriteString(formatHistory(history))
	b.WriteString(fmt.Sprintf("\nUser's latest message: %q\n\n", input))

	recipesShown := false
	for _, m := range history {
		if m.Role == core.RoleAssistant {
			recipesShown = true
			break
		}
	}
	b.WriteString(fmt.Sprintf("Recipes have been shown in this conversation: %v\n\n", recipesShown))

	b.WriteString(`Classify the intent into ONE of these categories:

1. "new_search" - the user wants to search for new recipes (new cuisine, new dish, different meal).
2. "comparison" - the user is comparing previously shown recipes ("which one is quicker?"). Only valid after recipes were shown.
3. "recipe_request" - the user wants the full recipe for a dish that was already shown ("give me the first one"). Only valid after recipes were shown.
4. "general" - general questions or conversation ("thanks", "is that healthy?").

If no recipes have been shown yet, the intent is "new_search" even when the user asks to prepare a specific dish.

Respond with ONLY a JSON object: {"intent": "new_search" | "comparison" | "recipe_request" | "general"}`)

	return b.String()
}

func formatHistory(history []core.Message) string {
	var b strings.Builder
	for _, m := range history {
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteByte('\n')
	}
	return b.String()
}
