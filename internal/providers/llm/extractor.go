package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sandevgo/tastybot/internal/core"
)

// Extractor turns free text into a structured preference record. The raw
// model output is decoded but not trusted; the preference step validates it.
type Extractor struct {
	ai core.ChatProvider
}

func NewExtractor(ai core.ChatProvider) *Extractor {
	return &Extractor{ai: ai}
}

const extractorSystemPrompt = `You extract meal preferences from natural language. Always return a JSON object with these fields:
- language: detected language of the user's message as an English name (e.g. "English", "Spanish")
- cuisine: requested cuisine, or omit
- dietary_restrictions: list of dietary constraints (e.g. "vegetarian", "low-carb"), or omit
- specific_dish: a concrete dish the user named, or omit
- desired_ingredients: list of ingredients the user wants used, or omit
- allergies: list of allergies mentioned, or omit
- meal_type: breakfast/lunch/dinner/dessert/snack, or omit
- max_cooking_time: maximum cooking time in whole minutes as an integer, or omit

Respond with valid JSON only, no explanation.

Example:
Input: "Hola, quiero una cena italiana baja en carbohidratos en menos de 30 minutos"
Output: {"language": "Spanish", "cuisine": "italian", "dietary_restrictions": ["low-carb"], "meal_type": "dinner", "max_cooking_time": 30}`

func (e *Extractor) Extract(ctx context.Context, input string, history []core.Message) (core.Preferences, error) {
	prompt := fmt.Sprintf("Conversation so far:\n%s\nExtract the preferences from the user's latest message: %q", formatHistory(history), input)

	resp, err := e.ai.Chat(ctx, []core.Message{
		{Role: core.RoleSystem, Content: extractorSystemPrompt},
		{Role: core.RoleUser, Content: prompt},
	})
	if err != nil {
		return core.Preferences{}, fmt.Errorf("llm chat: %w", err)
	}

	jsonStr := extractJSONObject(resp.Content)
	if jsonStr == "" {
		return core.Preferences{}, fmt.Errorf("no JSON object in extractor response")
	}

	var prefs core.Preferences
	if err := json.Unmarshal([]byte(jsonStr), &prefs); err != nil {
		return core.Preferences{}, fmt.Errorf("unmarshal preferences: %w", err)
	}
	return prefs, nil
}
