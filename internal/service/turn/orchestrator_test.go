package turn

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/tastybot/internal/config"
	"github.com/sandevgo/tastybot/internal/core"
)

type orchestratorFixture struct {
	classifier *stubClassifier
	extractor  *stubExtractor
	searcher   *stubSearcher
	analyzer   *stubAnalyzer
	generator  *stubGenerator
	messages   *memMessages
	states     *memStates
	orch       *Orchestrator
}

func newFixture() *orchestratorFixture {
	f := &orchestratorFixture{
		classifier: &stubClassifier{intent: core.IntentGeneral},
		extractor:  &stubExtractor{prefs: core.Preferences{Language: "English"}},
		searcher:   &stubSearcher{},
		analyzer:   &stubAnalyzer{},
		generator:  &stubGenerator{response: "ok"},
		messages:   newMemMessages(),
		states:     newMemStates(),
	}

	appCfg := &config.AppConfig{
		ContextWindowSize:  30,
		HistoryTokenBudget: 2000,
		TopK:               3,
		StepTimeout:        time.Second,
	}

	f.orch = NewOrchestrator(
		appCfg,
		NewRouter(f.classifier),
		NewPrefsStep(f.extractor),
		NewSearchStep(f.searcher, appCfg.TopK),
		NewRequestStep(f.analyzer),
		NewResponseStep(f.generator),
		f.messages,
		f.states,
	)
	return f
}

func TestHandleTurnNewSearchPersistsResults(t *testing.T) {
	f := newFixture()
	f.classifier.intent = core.IntentNewSearch
	f.extractor.prefs = core.Preferences{Language: "English", Cuisine: "italian", MaxCookingTime: 30}
	f.searcher.results = sampleResults()

	response, err := f.orch.HandleTurn(context.Background(), "conv-1", "quick italian dinner")
	require.NoError(t, err)
	assert.Equal(t, "ok", response)

	msgs := f.messages.msgs["conv-1"]
	require.Len(t, msgs, 2)
	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, "quick italian dinner", msgs[0].Content)
	assert.Equal(t, core.RoleAssistant, msgs[1].Role)

	state := f.states.states["conv-1"]
	assert.Equal(t, sampleResults(), state.Current)
	assert.Empty(t, state.Previous)
	assert.Equal(t, "English", state.Language)
	assert.Equal(t, "italian", state.Preferences.Cuisine)

	assert.Equal(t, "italian under 30 minutes", f.searcher.lastQuery)
	assert.Equal(t, 1, f.searcher.calls)
}

func TestHandleTurnThreeTurnScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Turn 1: new search for italian food under 30 minutes.
	f.classifier.intent = core.IntentNewSearch
	f.extractor.prefs = core.Preferences{Language: "English", Cuisine: "italian", MaxCookingTime: 30}
	f.searcher.results = sampleResults()
	f.generator.response = "Options:\n1. **Pasta Carbonara**\n2. **Margherita Pizza**\n3. **Caprese Salad**"

	_, err := f.orch.HandleTurn(ctx, "conv-1", "italian, max 30 minutes")
	require.NoError(t, err)
	assert.Equal(t, 1, f.searcher.calls)

	// Turn 2: "the first one" resolves by ordinal, no search.
	f.classifier.intent = core.IntentRecipeRequest
	f.analyzer.target = core.RequestTarget{Kind: core.RequestSpecific}

	response, err := f.orch.HandleTurn(ctx, "conv-1", "the first one")
	require.NoError(t, err)
	assert.Contains(t, response, "## Pasta Carbonara")
	assert.Contains(t, response, "- spaghetti")
	assert.Equal(t, 1, f.searcher.calls)

	// Turn 3: comparison sees both recipes, still no search.
	f.classifier.intent = core.IntentComparison
	f.generator.response = "The pizza bakes faster."

	response, err = f.orch.HandleTurn(ctx, "conv-1", "how does that compare to the pizza")
	require.NoError(t, err)
	assert.Equal(t, "The pizza bakes faster.", response)
	assert.Contains(t, f.generator.lastContext, "Pasta Carbonara")
	assert.Contains(t, f.generator.lastContext, "Margherita Pizza")
	assert.Equal(t, 1, f.searcher.calls)

	// Results survived two searchless turns unchanged.
	state := f.states.states["conv-1"]
	assert.Equal(t, sampleResults(), state.Current)
	assert.Empty(t, state.Previous)
}

func TestHandleTurnSearchRotatesPreviousResults(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.classifier.intent = core.IntentNewSearch

	f.searcher.results = sampleResults()
	_, err := f.orch.HandleTurn(ctx, "conv-1", "italian food")
	require.NoError(t, err)

	newResults := core.ResultSet{{Title: "Pad Thai"}}
	f.searcher.results = newResults
	_, err = f.orch.HandleTurn(ctx, "conv-1", "thai food instead")
	require.NoError(t, err)

	state := f.states.states["conv-1"]
	assert.Equal(t, newResults, state.Current)
	assert.Equal(t, sampleResults(), state.Previous)
}

func TestHandleTurnComparisonAndGeneralNeverSearch(t *testing.T) {
	for _, intent := range []core.Intent{core.IntentComparison, core.IntentGeneral} {
		t.Run(string(intent), func(t *testing.T) {
			f := newFixture()
			f.classifier.intent = intent
			f.states.states["conv-1"] = core.ConversationState{Current: sampleResults()}

			_, err := f.orch.HandleTurn(context.Background(), "conv-1", "tell me more")
			require.NoError(t, err)
			assert.Equal(t, 0, f.searcher.calls)
			assert.Equal(t, 0, f.extractor.calls)
		})
	}
}

func TestHandleTurnRecipeRequestFallsThroughToSearch(t *testing.T) {
	f := newFixture()
	f.classifier.intent = core.IntentRecipeRequest
	f.analyzer.target = core.RequestTarget{Kind: core.RequestNewDish, Dish: "sushi"}
	f.states.states["conv-1"] = core.ConversationState{Current: sampleResults(), Language: "English"}
	f.searcher.results = core.ResultSet{{Title: "California Roll"}}

	_, err := f.orch.HandleTurn(context.Background(), "conv-1", "actually I want sushi")
	require.NoError(t, err)

	assert.Equal(t, 1, f.searcher.calls)
	assert.Equal(t, "sushi", f.searcher.lastQuery)

	state := f.states.states["conv-1"]
	assert.Equal(t, "California Roll", state.Current[0].Title)
	assert.Equal(t, sampleResults(), state.Previous)
}

func TestHandleTurnExtractorFailureStillPersists(t *testing.T) {
	f := newFixture()
	f.classifier.intent = core.IntentNewSearch
	f.extractor.err = errCollaboratorDown
	f.searcher.results = core.ResultSet{}

	response, err := f.orch.HandleTurn(context.Background(), "conv-1", "anything tasty")
	require.NoError(t, err)
	assert.NotEmpty(t, response)

	// Degraded record still produced a search with the fallback query.
	assert.Equal(t, fallbackQuery, f.searcher.lastQuery)
	require.Len(t, f.messages.msgs["conv-1"], 2)
}

func TestHandleTurnPersistFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.messages.failAdd = true

	_, err := f.orch.HandleTurn(context.Background(), "conv-1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save user message")
}

func TestLockForIsPerConversation(t *testing.T) {
	f := newFixture()

	a := f.orch.lockFor("conv-a")
	b := f.orch.lockFor("conv-b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, f.orch.lockFor("conv-a"))
}
