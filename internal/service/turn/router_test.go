package turn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sandevgo/tastybot/internal/core"
)

func TestRouteSetsIntent(t *testing.T) {
	classifier := &stubClassifier{intent: core.IntentComparison}
	router := NewRouter(classifier)
	tc := &Context{Input: "which one is faster?", Current: sampleResults()}

	got := router.Route(context.Background(), tc)

	assert.Equal(t, core.IntentComparison, got)
	assert.Equal(t, core.IntentComparison, tc.Intent)
	assert.Equal(t, 1, classifier.calls)
}

func TestRouteClassifierErrorDefaultsToGeneral(t *testing.T) {
	router := NewRouter(&stubClassifier{intent: core.IntentNewSearch, err: errCollaboratorDown})
	tc := &Context{Input: "anything"}

	got := router.Route(context.Background(), tc)

	assert.Equal(t, core.IntentGeneral, got)
}

func TestRouteRecipeRequestWithNothingShownBecomesNewSearch(t *testing.T) {
	router := NewRouter(&stubClassifier{intent: core.IntentRecipeRequest})
	tc := &Context{Input: "give me a lasagna recipe"}

	got := router.Route(context.Background(), tc)

	assert.Equal(t, core.IntentNewSearch, got)
}

func TestRouteRecipeRequestWithKnownResultsStays(t *testing.T) {
	router := NewRouter(&stubClassifier{intent: core.IntentRecipeRequest})
	tc := &Context{Input: "the first one", Current: sampleResults()}

	got := router.Route(context.Background(), tc)

	assert.Equal(t, core.IntentRecipeRequest, got)
}

func TestRouteRecipeRequestWithShownTitlesInHistoryStays(t *testing.T) {
	// Result sets may be lost while the assistant message still lists
	// recipes; the extracted titles keep the request routable.
	router := NewRouter(&stubClassifier{intent: core.IntentRecipeRequest})
	tc := &Context{
		Input: "the first one",
		History: []core.Message{
			{Role: core.RoleAssistant, Content: "1. **Pasta Carbonara**\n2. **Margherita Pizza**"},
		},
	}

	got := router.Route(context.Background(), tc)

	assert.Equal(t, core.IntentRecipeRequest, got)
}
