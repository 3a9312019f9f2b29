package turn

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/tastybot/internal/core"
	"github.com/sandevgo/tastybot/pkg/log"
)

// fallbackQuery keeps the index call meaningful when extraction produced
// nothing usable.
const fallbackQuery = "healthy dinner"

// SearchStep turns a preference record into a ranked result set. The query
// string is built here, deterministically, so the same preferences always
// hit the index the same way.
type SearchStep struct {
	searcher core.Searcher
	topK     int
}

func NewSearchStep(searcher core.Searcher, topK int) *SearchStep {
	if topK <= 0 {
		topK = core.DefaultTopK
	}
	return &SearchStep{searcher: searcher, topK: topK}
}

// Run executes the search and rotates the context's result sets: the old
// current results become previous, the new ones become current. A searcher
// failure yields an empty set, not a turn failure.
func (s *SearchStep) Run(ctx context.Context, tc *Context, prefs core.Preferences) core.ResultSet {
	logger := log.FromCtx(ctx)

	query := BuildQuery(prefs)
	results, err := s.searcher.Search(ctx, query, s.topK)
	if err != nil {
		logger.Warn().Err(err).Str("query", query).Msg("recipe search failed, continuing with empty results")
		results = core.ResultSet{}
	}
	if len(results) > s.topK {
		results = results[:s.topK]
	}

	tc.Previous = tc.Current
	tc.Current = results
	tc.Searched = true

	logger.Info().Str("query", query).Int("results", len(results)).Msg("search step completed")
	return results
}

// BuildQuery flattens a preference record into one search string. Field
// order is fixed: cuisine, dietary restrictions, dish, ingredients, meal
// type, cooking time.
func BuildQuery(p core.Preferences) string {
	var parts []string

	if p.Cuisine != "" {
		parts = append(parts, p.Cuisine)
	}
	parts = append(parts, p.Dietary...)
	if p.Dish != "" {
		parts = append(parts, p.Dish)
	}
	if len(p.Ingredients) > 0 {
		parts = append(parts, "with "+strings.Join(p.Ingredients, ", "))
	}
	if p.MealType != "" {
		parts = append(parts, p.MealType)
	}
	if p.MaxCookingTime > 0 {
		parts = append(parts, fmt.Sprintf("under %d minutes", p.MaxCookingTime))
	}

	if len(parts) == 0 {
		return fallbackQuery
	}
	return strings.Join(parts, " ")
}
