package turn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/tastybot/internal/core"
)

func TestResolveOrdinal(t *testing.T) {
	candidates := sampleResults()

	tests := []struct {
		name      string
		reference string
		wantTitle string
	}{
		{"the first one", "the first one", "Pasta Carbonara"},
		{"second option", "the second option", "Margherita Pizza"},
		{"third", "third", "Caprese Salad"},
		{"digit suffix", "the 2nd one", "Margherita Pizza"},
		{"number n", "number 3", "Caprese Salad"},
		{"option n", "option 1", "Pasta Carbonara"},
		{"bare digit", "2", "Margherita Pizza"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(tt.reference, candidates)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, res.Match.Title)
			assert.Equal(t, MatchOrdinal, res.Rule)
			assert.False(t, res.LowConfidence)
		})
	}
}

func TestResolveOrdinalOutOfRange(t *testing.T) {
	candidates := sampleResults()

	for _, ref := range []string{"the fifth one", "number 9", "the 4th"} {
		t.Run(ref, func(t *testing.T) {
			_, err := Resolve(ref, candidates)
			assert.ErrorIs(t, err, ErrNoMatch)
		})
	}
}

func TestResolveExactTitle(t *testing.T) {
	candidates := sampleResults()

	res, err := Resolve("  margherita PIZZA ", candidates)
	require.NoError(t, err)
	assert.Equal(t, "Margherita Pizza", res.Match.Title)
	assert.Equal(t, MatchExact, res.Rule)
}

func TestResolveExactDuplicateTitlesEarliestWins(t *testing.T) {
	candidates := core.ResultSet{
		{Title: "Apple Pie", Source: "first"},
		{Title: "apple pie", Source: "second"},
	}

	res, err := Resolve("Apple Pie", candidates)
	require.NoError(t, err)
	assert.Equal(t, "first", res.Match.Source)
}

func TestResolveSubstring(t *testing.T) {
	candidates := sampleResults()

	tests := []struct {
		name      string
		reference string
		wantTitle string
	}{
		{"partial title", "carbonara", "Pasta Carbonara"},
		{"title inside reference", "give me the caprese salad recipe please", "Caprese Salad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(tt.reference, candidates)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, res.Match.Title)
			assert.Equal(t, MatchSubstring, res.Rule)
		})
	}
}

func TestResolveSubstringLongestOverlapWins(t *testing.T) {
	candidates := core.ResultSet{
		{Title: "Chicken Soup"},
		{Title: "Chicken Noodle Soup"},
	}

	res, err := Resolve("chicken noodle", candidates)
	require.NoError(t, err)
	assert.Equal(t, "Chicken Noodle Soup", res.Match.Title)
}

func TestResolveFuzzyWordOverlap(t *testing.T) {
	candidates := sampleResults()

	res, err := Resolve("that pizza margherita thing you mentioned", candidates)
	require.NoError(t, err)
	assert.Equal(t, "Margherita Pizza", res.Match.Title)
	assert.Equal(t, MatchFuzzy, res.Rule)
}

func TestResolveFallbackLowConfidence(t *testing.T) {
	candidates := sampleResults()

	res, err := Resolve("something completely unrelated", candidates)
	require.NoError(t, err)
	assert.Equal(t, "Pasta Carbonara", res.Match.Title)
	assert.Equal(t, MatchFallback, res.Rule)
	assert.True(t, res.LowConfidence)
}

func TestResolveEmptyCandidates(t *testing.T) {
	_, err := Resolve("the first one", core.ResultSet{})
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = Resolve("anything at all", nil)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestResolveEmptyReference(t *testing.T) {
	_, err := Resolve("   ", sampleResults())
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestResolveDeterministic(t *testing.T) {
	candidates := sampleResults()

	first, err := Resolve("the pasta one", candidates)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Resolve("the pasta one", candidates)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
