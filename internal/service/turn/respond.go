package turn

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/tastybot/internal/core"
	"github.com/sandevgo/tastybot/pkg/log"
)

// ResponseStep builds the assistant's reply. A resolved recipe is rendered
// deterministically; every other branch delegates the wording to the
// generator with a prompt context assembled here.
type ResponseStep struct {
	generator core.ResponseGenerator
}

func NewResponseStep(generator core.ResponseGenerator) *ResponseStep {
	return &ResponseStep{generator: generator}
}

func (s *ResponseStep) Run(ctx context.Context, tc *Context) string {
	var response string

	switch {
	case tc.Intent == core.IntentRecipeRequest && tc.Resolved != nil:
		response = RenderFullRecipe(*tc.Resolved)
	case tc.Intent == core.IntentComparison:
		response = s.generate(ctx, tc, comparisonContext(tc), "")
	case tc.Intent == core.IntentGeneral:
		response = s.generate(ctx, tc, generalContext(tc), "")
	default:
		// new_search, and recipe requests that fell through to a search.
		// The teaser list doubles as a deterministic fallback when the
		// generator is down.
		response = s.generate(ctx, tc, searchResultsContext(tc), RenderTeaserList(tc.Current))
	}

	tc.Response = response
	return response
}

func (s *ResponseStep) generate(ctx context.Context, tc *Context, promptContext, fallback string) string {
	response, err := s.generator.Generate(ctx, tc.Intent, tc.Lang(), promptContext)
	if err == nil {
		return response
	}

	log.FromCtx(ctx).Warn().Err(err).Str("intent", string(tc.Intent)).
		Msg("response generation failed, using static fallback")
	if fallback != "" {
		return fallback
	}
	return Apology(tc.Lang())
}

// searchResultsContext presents titles only. Full ingredients and directions
// are withheld until the user picks a recipe.
func searchResultsContext(tc *Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "User request: %s\n\n", tc.Input)

	if len(tc.Current) == 0 {
		b.WriteString("No recipes were found for this request. Apologize briefly and suggest the user rephrase or relax a constraint.\n")
		return b.String()
	}

	if tc.Intent == core.IntentRecipeRequest {
		b.WriteString("The requested recipe was not among those already shown, so a new search ran. Frame the reply as answering the specific request.\n\n")
	}

	b.WriteString("Recipes found, best match first:\n")
	for i, title := range tc.Current.Titles() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
	}
	return b.String()
}

func comparisonContext(tc *Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "User question: %s\n\n", tc.Input)
	b.WriteString("Current recipes:\n")
	b.WriteString(summarizeSet(tc.Current))
	b.WriteString("\nPrevious recipes:\n")
	b.WriteString(summarizeSet(tc.Previous))
	return b.String()
}

func generalContext(tc *Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "User message: %s\n", tc.Input)

	results := tc.Current
	if len(results) == 0 {
		results = tc.Previous
	}
	if len(results) > 0 {
		b.WriteString("\nRecipes in the conversation:\n")
		b.WriteString(summarizeSet(results))
	}
	return b.String()
}

func summarizeSet(rs core.ResultSet) string {
	if len(rs) == 0 {
		return "None\n"
	}
	var b strings.Builder
	for i, m := range rs {
		fmt.Fprintf(&b, "%d. %s (%d ingredients, %d steps)\n", i+1, m.Title, len(m.Ingredients), len(m.Directions))
	}
	return b.String()
}

// RenderTeaserList lists titles with a short ingredient teaser, full details
// withheld until the user picks one. Returns "" for an empty set so callers
// fall back to an apology instead.
func RenderTeaserList(rs core.ResultSet) string {
	if len(rs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Here is what I found:\n\n")
	for i, m := range rs {
		fmt.Fprintf(&b, "%d. **%s**", i+1, m.Title)
		if teaser := ingredientTeaser(m.Ingredients); teaser != "" {
			fmt.Fprintf(&b, " — made with %s", teaser)
		}
		b.WriteByte('\n')
	}
	b.WriteString("\nTell me which one you would like the full recipe for!")
	return b.String()
}

func ingredientTeaser(ingredients []string) string {
	if len(ingredients) == 0 {
		return ""
	}
	if len(ingredients) > 3 {
		return strings.Join(ingredients[:3], ", ") + "..."
	}
	return strings.Join(ingredients, ", ")
}

// RenderFullRecipe produces the full markdown card for a single recipe.
// Deterministic so the same match always renders the same way.
func RenderFullRecipe(m core.RecipeMatch) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", m.Title)

	b.WriteString("**Ingredients:**\n")
	for _, ing := range m.Ingredients {
		fmt.Fprintf(&b, "- %s\n", ing)
	}

	b.WriteString("\n**Directions:**\n")
	for i, step := range m.Directions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}

	if m.Source != "" {
		fmt.Fprintf(&b, "\n*Source: %s*\n", m.Source)
	}
	if m.Link != "" {
		fmt.Fprintf(&b, "%s\n", m.Link)
	}
	return b.String()
}

var apologies = map[string]string{
	"english":    "Sorry, something went wrong on my end. Could you try that again?",
	"spanish":    "Lo siento, algo salió mal. ¿Podrías intentarlo de nuevo?",
	"french":     "Désolé, quelque chose s'est mal passé. Pouvez-vous réessayer ?",
	"german":     "Entschuldigung, etwas ist schiefgelaufen. Kannst du es noch einmal versuchen?",
	"italian":    "Mi dispiace, qualcosa è andato storto. Puoi riprovare?",
	"portuguese": "Desculpe, algo deu errado. Pode tentar novamente?",
}

// Apology returns a static in-language apology for when the generator itself
// is down.
func Apology(language string) string {
	if msg, ok := apologies[strings.ToLower(strings.TrimSpace(language))]; ok {
		return msg
	}
	return apologies["english"]
}
