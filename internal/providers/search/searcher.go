package search

import (
	"context"
	"fmt"

	"github.com/sandevgo/tastybot/internal/core"
	"github.com/sandevgo/tastybot/pkg/log"
	"github.com/sandevgo/tastybot/pkg/retry"
)

// Searcher implements core.Searcher by embedding the query text and running
// a nearest-neighbor lookup against the recipe index. Both calls are retried
// with backoff; the turn pipeline treats a final failure as an empty result.
type Searcher struct {
	embedder core.Embedder
	index    *IndexClient
	retrier  *retry.Retrier
}

func NewSearcher(embedder core.Embedder, index *IndexClient) *Searcher {
	return &Searcher{
		embedder: embedder,
		index:    index,
		retrier:  retry.NewCollaboratorRetrier(),
	}
}

func (s *Searcher) Search(ctx context.Context, query string, k int) (core.ResultSet, error) {
	var vector []float32
	err := s.retrier.Do(ctx, func() error {
		var embedErr error
		vector, embedErr = s.embedder.Embed(ctx, query)
		return embedErr
	})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var matches core.ResultSet
	err = s.retrier.Do(ctx, func() error {
		var queryErr error
		matches, queryErr = s.index.Query(ctx, vector, k)
		return queryErr
	})
	if err != nil {
		return nil, fmt.Errorf("index query: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("query", query).Int("matches", len(matches)).Msg("recipe search completed")
	return matches, nil
}
