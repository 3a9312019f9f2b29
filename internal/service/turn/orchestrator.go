package turn

import (
	"context"
	"fmt"
	"sync"

	"github.com/sandevgo/tastybot/internal/config"
	"github.com/sandevgo/tastybot/internal/core"
	"github.com/sandevgo/tastybot/pkg/log"
	"github.com/sandevgo/tastybot/pkg/tokens"
)

// State names a position in the turn state machine. Recorded for logging;
// the transitions themselves are plain control flow below.
type State string

const (
	StateStart           State = "start"
	StateClassified      State = "classified"
	StatePrefsExtracted  State = "prefs_extracted"
	StateSearched        State = "searched"
	StateRequestAnalyzed State = "request_analyzed"
	StateRoutedDirect    State = "routed_direct"
	StateResponded       State = "responded"
	StatePersisted       State = "persisted"
)

// Orchestrator drives a full conversation turn: classify, branch, respond,
// persist. Turns in different conversations run concurrently; turns within
// one conversation are serialized so each reads the state its predecessor
// wrote.
type Orchestrator struct {
	appCfg   *config.AppConfig
	router   *Router
	prefs    *PrefsStep
	search   *SearchStep
	request  *RequestStep
	respond  *ResponseStep
	messages core.MessagesRepository
	states   core.StateRepository
	counter  *tokens.Counter

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewOrchestrator(
	appCfg *config.AppConfig,
	router *Router,
	prefs *PrefsStep,
	search *SearchStep,
	request *RequestStep,
	respond *ResponseStep,
	messages core.MessagesRepository,
	states core.StateRepository,
) *Orchestrator {
	return &Orchestrator{
		appCfg:   appCfg,
		router:   router,
		prefs:    prefs,
		search:   search,
		request:  request,
		respond:  respond,
		messages: messages,
		states:   states,
		counter:  tokens.NewCounter(),
		locks:    make(map[string]*sync.Mutex),
	}
}

// HandleTurn processes one user message and returns the assistant's reply.
// Collaborator failures degrade inside their steps; only persistence
// failures surface as errors, since dropping history would silently break
// context continuity for every later turn.
func (o *Orchestrator) HandleTurn(ctx context.Context, conversationID, input string) (string, error) {
	lock := o.lockFor(conversationID)
	lock.Lock()
	defer lock.Unlock()

	logger := log.FromCtx(ctx).With().Str("conversation_id", conversationID).Logger()
	ctx = logger.WithContext(ctx)

	if err := o.messages.AddMessage(ctx, conversationID, core.Message{Role: core.RoleUser, Content: input}); err != nil {
		return "", fmt.Errorf("failed to save user message: %w", err)
	}

	tc := o.buildContext(ctx, conversationID, input)

	o.runPipeline(ctx, tc)

	if err := o.messages.AddMessage(ctx, conversationID, core.Message{Role: core.RoleAssistant, Content: tc.Response}); err != nil {
		return "", fmt.Errorf("failed to save assistant message: %w", err)
	}
	if err := o.states.SaveState(ctx, conversationID, core.ConversationState{
		Language:    tc.Language,
		Preferences: tc.Preferences,
		Current:     tc.Current,
		Previous:    tc.Previous,
	}); err != nil {
		return "", fmt.Errorf("failed to save conversation state: %w", err)
	}

	logger.Info().Str("state", string(StatePersisted)).Msg("turn completed")
	return tc.Response, nil
}

// buildContext loads whatever survives between turns. Read failures degrade
// to an empty context; only writes are allowed to fail the turn.
func (o *Orchestrator) buildContext(ctx context.Context, conversationID, input string) *Context {
	logger := log.FromCtx(ctx)

	state, err := o.states.GetState(ctx, conversationID)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load conversation state, starting fresh")
		state = core.ConversationState{}
	}

	history, err := o.messages.GetMessages(ctx, conversationID, o.appCfg.ContextWindowSize)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load history, continuing without it")
		history = nil
	}
	history = o.trimToBudget(history)

	return &Context{
		ConversationID: conversationID,
		Input:          input,
		History:        history,
		Language:       state.Language,
		Preferences:    state.Preferences,
		Current:        state.Current,
		Previous:       state.Previous,
	}
}

func (o *Orchestrator) runPipeline(ctx context.Context, tc *Context) {
	logger := log.FromCtx(ctx)

	o.step(ctx, func(sctx context.Context) { o.router.Route(sctx, tc) })
	logger.Debug().Str("state", string(StateClassified)).Msg("pipeline state")

	switch tc.Intent {
	case core.IntentNewSearch:
		var prefs core.Preferences
		o.step(ctx, func(sctx context.Context) { prefs = o.prefs.Extract(sctx, tc) })
		logger.Debug().Str("state", string(StatePrefsExtracted)).Msg("pipeline state")

		o.step(ctx, func(sctx context.Context) { o.search.Run(sctx, tc, prefs) })
		logger.Debug().Str("state", string(StateSearched)).Msg("pipeline state")

	case core.IntentRecipeRequest:
		var outcome RequestOutcome
		o.step(ctx, func(sctx context.Context) { outcome = o.request.Run(sctx, tc) })
		logger.Debug().Str("state", string(StateRequestAnalyzed)).Msg("pipeline state")

		if outcome.Action == ActionSearchNew {
			var prefs core.Preferences
			o.step(ctx, func(sctx context.Context) { prefs = o.prefs.Extract(sctx, tc) })
			if prefs.Dish == "" && outcome.Dish != "" {
				prefs.Dish = outcome.Dish
				tc.Preferences = prefs
			}
			o.step(ctx, func(sctx context.Context) { o.search.Run(sctx, tc, prefs) })
			logger.Debug().Str("state", string(StateSearched)).Msg("pipeline state")
		}

	default:
		// comparison and general reuse existing results, zero search calls.
		logger.Debug().Str("state", string(StateRoutedDirect)).Msg("pipeline state")
	}

	o.step(ctx, func(sctx context.Context) { o.respond.Run(sctx, tc) })
	logger.Debug().Str("state", string(StateResponded)).Msg("pipeline state")

	if tc.Response == "" {
		tc.Response = Apology(tc.Lang())
	}
}

// step runs one pipeline stage under its own deadline. The stages degrade
// internally on failure, so step only scopes the timeout.
func (o *Orchestrator) step(ctx context.Context, fn func(context.Context)) {
	sctx, cancel := context.WithTimeout(ctx, o.appCfg.StepTimeout)
	defer cancel()
	fn(sctx)
}

// trimToBudget drops the oldest messages until the history fits the token
// budget, keeping at least the most recent one.
func (o *Orchestrator) trimToBudget(history []core.Message) []core.Message {
	if len(history) == 0 {
		return history
	}
	texts := make([]string, len(history))
	for i, msg := range history {
		texts[i] = msg.Content
	}
	return history[o.counter.TailStart(texts, o.appCfg.HistoryTokenBudget):]
}

func (o *Orchestrator) lockFor(conversationID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()

	lock, ok := o.locks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[conversationID] = lock
	}
	return lock
}
