package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/tastybot/internal/core"
)

// Analyzer classifies what a recipe-request turn is aiming at: a specific
// recipe already shown, a dish type already shown, or an entirely new dish.
type Analyzer struct {
	ai core.ChatProvider
}

func NewAnalyzer(ai core.ChatProvider) *Analyzer {
	return &Analyzer{ai: ai}
}

func (a *Analyzer) Analyze(ctx context.Context, input string, shownTitles []string, history []core.Message) (core.RequestTarget, error) {
	resp, err := a.ai.Chat(ctx, []core.Message{
		{Role: core.RoleSystem, Content: "You are an expert at analyzing recipe requests. Respond only with valid JSON."},
		{Role: core.RoleUser, Content: buildAnalyzerPrompt(input, shownTitles, history)},
	})
	if err != nil {
		return core.RequestTarget{}, fmt.Errorf("llm chat: %w", err)
	}

	jsonStr := extractJSONObject(resp.Content)
	if jsonStr == "" {
		return core.RequestTarget{}, fmt.Errorf("no JSON object in analyzer response")
	}

	var verdict struct {
		Type     string `json:"type"`
		Matched  string `json:"matched_recipe_title"`
		DishName string `json:"dish_name"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &verdict); err != nil {
		return core.RequestTarget{}, fmt.Errorf("unmarshal verdict: %w", err)
	}

	switch core.RequestKind(strings.TrimSpace(verdict.Type)) {
	case core.RequestSpecific:
		return core.RequestTarget{Kind: core.RequestSpecific, Title: strings.TrimSpace(verdict.Matched)}, nil
	case core.RequestDishType:
		return core.RequestTarget{Kind: core.RequestDishType, Dish: strings.TrimSpace(verdict.DishName)}, nil
	case core.RequestNewDish:
		return core.RequestTarget{Kind: core.RequestNewDish, Dish: strings.TrimSpace(verdict.DishName)}, nil
	default:
		return core.RequestTarget{}, fmt.Errorf("unknown request type: %q", verdict.Type)
	}
}

func buildAnalyzerPrompt(input string, shownTitles []string, history []core.Message) string {
	var b strings.Builder

	b.WriteString("Determine what the user is requesting.\n\n")
	b.WriteString("Conversation context:\n")
	b.WriteString(formatHistory(history))

	b.WriteString("\nRecipes shown to the user, in order:\n")
	if len(shownTitles) == 0 {
		b.WriteString("None\n")
	}
	for i, title := range shownTitles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
	}

	fmt.Fprintf(&b, "\nUser's latest message: %q\n\n", input)

	b.WriteString(`Classify the request:

1. "specific" - a specific recipe from the list above, referenced by name or position ("the first one" means recipe 1). Set matched_recipe_title to the EXACT title from the list.
2. "dish_type" - a dish type the user was already shown recipes for ("actually I want the pies again"). Set dish_name.
3. "new_dish" - a dish nothing was shown for yet; requires a new search. Set dish_name.

Respond with ONLY a JSON object:
{"type": "specific" | "dish_type" | "new_dish", "matched_recipe_title": "...or null", "dish_name": "...or null"}`)

	return b.String()
}
