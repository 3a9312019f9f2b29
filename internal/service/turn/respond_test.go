package turn

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sandevgo/tastybot/internal/core"
)

func TestRespondResolvedRecipeRenderedInFull(t *testing.T) {
	generator := &stubGenerator{response: "should not be used"}
	step := NewResponseStep(generator)

	match := sampleResults()[0]
	tc := &Context{
		Intent:   core.IntentRecipeRequest,
		Resolved: &match,
		Language: "English",
	}

	got := step.Run(context.Background(), tc)

	assert.Contains(t, got, "## Pasta Carbonara")
	assert.Contains(t, got, "- spaghetti")
	assert.Contains(t, got, "1. Boil pasta.")
	assert.Contains(t, got, "Source: Gathered")
	assert.Equal(t, got, tc.Response)
	// deterministic branch, no collaborator call
	assert.Empty(t, generator.lastContext)
}

func TestRespondNewSearchPresentsTitlesOnly(t *testing.T) {
	generator := &stubGenerator{response: "here are your options"}
	step := NewResponseStep(generator)
	tc := &Context{
		Intent:   core.IntentNewSearch,
		Input:    "italian dinner",
		Language: "English",
		Current:  sampleResults(),
	}

	got := step.Run(context.Background(), tc)

	assert.Equal(t, "here are your options", got)
	assert.Contains(t, generator.lastContext, "1. Pasta Carbonara")
	assert.Contains(t, generator.lastContext, "3. Caprese Salad")
	assert.NotContains(t, generator.lastContext, "spaghetti")
	assert.Equal(t, "English", generator.lastLang)
}

func TestRespondNewSearchEmptyResults(t *testing.T) {
	generator := &stubGenerator{response: "sorry, nothing found"}
	step := NewResponseStep(generator)
	tc := &Context{Intent: core.IntentNewSearch, Input: "unicorn stew", Language: "English"}

	step.Run(context.Background(), tc)

	assert.Contains(t, generator.lastContext, "No recipes were found")
}

func TestRespondComparisonIncludesBothResultSets(t *testing.T) {
	generator := &stubGenerator{response: "the salad is faster"}
	step := NewResponseStep(generator)
	tc := &Context{
		Intent:   core.IntentComparison,
		Input:    "which is faster?",
		Language: "English",
		Current:  core.ResultSet{{Title: "Pad Thai", Ingredients: []string{"noodles"}, Directions: []string{"cook"}}},
		Previous: sampleResults(),
	}

	step.Run(context.Background(), tc)

	assert.Contains(t, generator.lastContext, "Pad Thai")
	assert.Contains(t, generator.lastContext, "Pasta Carbonara")
	assert.Equal(t, core.IntentComparison, generator.lastIntent)
}

func TestRespondGeneralUsesNonEmptySet(t *testing.T) {
	generator := &stubGenerator{response: "about 20 minutes"}
	step := NewResponseStep(generator)
	tc := &Context{
		Intent:   core.IntentGeneral,
		Input:    "how long does it take?",
		Language: "English",
		Previous: sampleResults(),
	}

	step.Run(context.Background(), tc)

	assert.Contains(t, generator.lastContext, "Pasta Carbonara")
}

func TestRespondNewSearchGeneratorFailureFallsBackToTeaserList(t *testing.T) {
	step := NewResponseStep(&stubGenerator{err: errCollaboratorDown})
	tc := &Context{
		Intent:   core.IntentNewSearch,
		Input:    "italian dinner",
		Language: "English",
		Current:  sampleResults(),
	}

	got := step.Run(context.Background(), tc)

	assert.Contains(t, got, "1. **Pasta Carbonara**")
	assert.Contains(t, got, "made with spaghetti, eggs, pecorino...")
	assert.NotContains(t, got, "Boil pasta")
}

func TestRenderTeaserListEmptySet(t *testing.T) {
	assert.Empty(t, RenderTeaserList(nil))
}

func TestRespondGeneratorFailureYieldsApology(t *testing.T) {
	step := NewResponseStep(&stubGenerator{err: errCollaboratorDown})
	tc := &Context{Intent: core.IntentGeneral, Input: "hi", Language: "Spanish"}

	got := step.Run(context.Background(), tc)

	assert.Equal(t, Apology("Spanish"), got)
	assert.True(t, strings.HasPrefix(got, "Lo siento"))
}

func TestApologyUnknownLanguageFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, apologies["english"], Apology("Klingon"))
	assert.Equal(t, apologies["english"], Apology(""))
	assert.Equal(t, apologies["french"], Apology(" French "))
}

func TestRenderFullRecipeOmitsEmptySourceAndLink(t *testing.T) {
	got := RenderFullRecipe(core.RecipeMatch{
		Title:       "Toast",
		Ingredients: []string{"bread"},
		Directions:  []string{"Toast the bread."},
	})

	assert.NotContains(t, got, "Source:")
	assert.Contains(t, got, "## Toast")
}
