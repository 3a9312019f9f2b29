package turn

import (
	"context"

	"github.com/sandevgo/tastybot/internal/core"
	"github.com/sandevgo/tastybot/pkg/log"
)

// Router assigns exactly one intent to the turn. Classification is delegated
// to the collaborator; the router owns the closed output domain and the
// structural overrides the classifier cannot be trusted with.
type Router struct {
	classifier core.Classifier
}

func NewRouter(classifier core.Classifier) *Router {
	return &Router{classifier: classifier}
}

// Route writes the turn's intent into the context. A classifier failure or
// an answer outside the closed set degrades to general, never fails the turn.
func (r *Router) Route(ctx context.Context, tc *Context) core.Intent {
	logger := log.FromCtx(ctx)

	intent, err := r.classifier.Classify(ctx, tc.Input, tc.History)
	if err != nil {
		logger.Warn().Err(err).Msg("intent classification failed, defaulting to general")
		intent = core.IntentGeneral
	}

	// Asking for a recipe when nothing was ever shown can only mean a new
	// search; without this the request step has nothing to resolve against.
	if intent == core.IntentRecipeRequest && len(tc.Known()) == 0 &&
		len(ExtractShownTitles(tc.LastAssistantMessage())) == 0 {
		logger.Debug().Msg("recipe request with no shown recipes, rerouting to new search")
		intent = core.IntentNewSearch
	}

	tc.Intent = intent
	logger.Info().Str("intent", string(intent)).Msg("turn classified")
	return intent
}
