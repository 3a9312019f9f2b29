package turn

import (
	"context"
	"errors"

	"github.com/sandevgo/tastybot/internal/core"
	"github.com/sandevgo/tastybot/pkg/log"
)

// RequestAction is the recipe request step's verdict.
type RequestAction string

const (
	// ActionServeExisting means the referenced recipe is already known and
	// can be served without a search.
	ActionServeExisting RequestAction = "serve_existing"
	// ActionSearchNew means the turn must run a fresh search for the dish.
	ActionSearchNew RequestAction = "search_new"
)

// RequestOutcome carries the action plus its payload: the resolved match
// for serve_existing, the dish to search for otherwise.
type RequestOutcome struct {
	Action RequestAction
	Match  core.RecipeMatch
	Dish   string
}

// RequestStep decides whether a recipe request targets something the user
// was already shown or needs a new search. Cheap deterministic title
// extraction runs before the collaborator call, so the analyzer sees a
// bounded, reconstructed list rather than raw state.
type RequestStep struct {
	analyzer core.RequestAnalyzer
}

func NewRequestStep(analyzer core.RequestAnalyzer) *RequestStep {
	return &RequestStep{analyzer: analyzer}
}

func (s *RequestStep) Run(ctx context.Context, tc *Context) RequestOutcome {
	logger := log.FromCtx(ctx)

	shown := ExtractShownTitles(tc.LastAssistantMessage())
	if len(shown) == 0 {
		shown = tc.Known().Titles()
	}

	target, err := s.analyzer.Analyze(ctx, tc.Input, shown, tc.History)
	if err != nil {
		logger.Warn().Err(err).Msg("request analysis failed, falling back to new search")
		target = core.RequestTarget{Kind: core.RequestNewDish}
	}

	switch target.Kind {
	case core.RequestSpecific, core.RequestDishType:
		reference := target.Title
		if reference == "" {
			reference = target.Dish
		}
		if reference == "" {
			reference = tc.Input
		}

		resolution, err := Resolve(reference, tc.Known())
		switch {
		case errors.Is(err, ErrNoMatch):
			logger.Debug().Str("reference", reference).Msg("reference not resolvable, searching instead")
		case resolution.LowConfidence:
			// Serving the top-ranked guess here would hand the user a
			// recipe they did not ask for. Search for it instead.
			logger.Debug().Str("reference", reference).Msg("only low-confidence match, searching instead")
		default:
			logger.Info().Str("title", resolution.Match.Title).Str("rule", string(resolution.Rule)).
				Msg("resolved recipe reference")
			tc.Resolved = &resolution.Match
			return RequestOutcome{Action: ActionServeExisting, Match: resolution.Match}
		}

		return RequestOutcome{Action: ActionSearchNew, Dish: searchDish(target, reference)}

	default:
		return RequestOutcome{Action: ActionSearchNew, Dish: target.Dish}
	}
}

func searchDish(target core.RequestTarget, reference string) string {
	if target.Dish != "" {
		return target.Dish
	}
	return reference
}
