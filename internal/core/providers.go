package core

import "context"

// ChatProvider is the raw LLM chat surface every language-understanding
// collaborator is built on.
type ChatProvider interface {
	Chat(ctx context.Context, history []Message) (Message, error)
}

// Embedder turns query text into a vector for the recipe index.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Classifier assigns one of the four closed intents to the latest user
// message given recent history.
type Classifier interface {
	Classify(ctx context.Context, input string, history []Message) (Intent, error)
}

// Extractor parses free text into a Preferences record. Callers must treat
// the result as untrusted and validate the shape.
type Extractor interface {
	Extract(ctx context.Context, input string, history []Message) (Preferences, error)
}

// Searcher returns up to k ranked recipe candidates for a query. An empty
// result set is a valid answer, not an error.
type Searcher interface {
	Search(ctx context.Context, query string, k int) (ResultSet, error)
}

// RequestAnalyzer decides whether a recipe-request turn targets a specific
// shown recipe, a dish type already shown, or an entirely new dish.
type RequestAnalyzer interface {
	Analyze(ctx context.Context, input string, shownTitles []string, history []Message) (RequestTarget, error)
}

// ResponseGenerator produces the assistant's reply text for a turn. The
// prompt context is built by the response step; language is always passed.
type ResponseGenerator interface {
	Generate(ctx context.Context, intent Intent, language string, promptContext string) (string, error)
}
