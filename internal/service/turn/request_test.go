package turn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/tastybot/internal/core"
)

func TestRequestServeExistingByTitle(t *testing.T) {
	analyzer := &stubAnalyzer{target: core.RequestTarget{Kind: core.RequestSpecific, Title: "Margherita Pizza"}}
	step := NewRequestStep(analyzer)
	tc := &Context{Input: "the pizza please", Current: sampleResults()}

	outcome := step.Run(context.Background(), tc)

	assert.Equal(t, ActionServeExisting, outcome.Action)
	assert.Equal(t, "Margherita Pizza", outcome.Match.Title)
	require.NotNil(t, tc.Resolved)
	assert.Equal(t, "Margherita Pizza", tc.Resolved.Title)
}

func TestRequestResolvesAgainstPreviousResults(t *testing.T) {
	analyzer := &stubAnalyzer{target: core.RequestTarget{Kind: core.RequestSpecific, Title: "Caprese Salad"}}
	step := NewRequestStep(analyzer)
	tc := &Context{
		Input:    "actually the caprese from before",
		Current:  core.ResultSet{{Title: "Pad Thai"}},
		Previous: sampleResults(),
	}

	outcome := step.Run(context.Background(), tc)

	assert.Equal(t, ActionServeExisting, outcome.Action)
	assert.Equal(t, "Caprese Salad", outcome.Match.Title)
}

func TestRequestUnknownTitleFallsThroughToSearch(t *testing.T) {
	analyzer := &stubAnalyzer{target: core.RequestTarget{Kind: core.RequestSpecific, Title: "Beef Bourguignon", Dish: "beef bourguignon"}}
	step := NewRequestStep(analyzer)
	tc := &Context{Input: "the beef bourguignon", Current: sampleResults()}

	outcome := step.Run(context.Background(), tc)

	assert.Equal(t, ActionSearchNew, outcome.Action)
	assert.Equal(t, "beef bourguignon", outcome.Dish)
	assert.Nil(t, tc.Resolved)
}

func TestRequestNewDish(t *testing.T) {
	analyzer := &stubAnalyzer{target: core.RequestTarget{Kind: core.RequestNewDish, Dish: "sushi"}}
	step := NewRequestStep(analyzer)
	tc := &Context{Input: "actually I want sushi", Current: sampleResults()}

	outcome := step.Run(context.Background(), tc)

	assert.Equal(t, ActionSearchNew, outcome.Action)
	assert.Equal(t, "sushi", outcome.Dish)
}

func TestRequestAnalyzerErrorFallsBackToSearch(t *testing.T) {
	step := NewRequestStep(&stubAnalyzer{err: errCollaboratorDown})
	tc := &Context{Input: "the first one", Current: sampleResults()}

	outcome := step.Run(context.Background(), tc)

	assert.Equal(t, ActionSearchNew, outcome.Action)
}

func TestRequestAnalyzerSeesExtractedTitles(t *testing.T) {
	analyzer := &stubAnalyzer{target: core.RequestTarget{Kind: core.RequestNewDish, Dish: "tacos"}}
	step := NewRequestStep(analyzer)
	tc := &Context{
		Input: "tacos instead",
		History: []core.Message{
			{Role: core.RoleUser, Content: "show me italian food"},
			{Role: core.RoleAssistant, Content: "1. **Pasta Carbonara**\n2. **Margherita Pizza**"},
		},
	}

	step.Run(context.Background(), tc)

	assert.Equal(t, []string{"Pasta Carbonara", "Margherita Pizza"}, analyzer.lastShown)
}

func TestRequestAnalyzerFallsBackToKnownTitles(t *testing.T) {
	analyzer := &stubAnalyzer{target: core.RequestTarget{Kind: core.RequestNewDish, Dish: "tacos"}}
	step := NewRequestStep(analyzer)
	tc := &Context{Input: "tacos instead", Current: sampleResults()}

	step.Run(context.Background(), tc)

	assert.Equal(t, sampleResults().Titles(), analyzer.lastShown)
}
