package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/tastybot/internal/core"
)

// IndexClient queries the vector index holding the recipe corpus. The index
// speaks the usual nearest-neighbor contract: a vector in, ranked matches
// with metadata out.
type IndexClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewIndexClient(baseURL, apiKey string) *IndexClient {
	return &IndexClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		Score    float64        `json:"score"`
		Metadata recipeMetadata `json:"metadata"`
	} `json:"matches"`
}

type recipeMetadata struct {
	Title       string          `json:"title"`
	Link        string          `json:"link"`
	Ingredients json.RawMessage `json:"ingredients"`
	Directions  json.RawMessage `json:"directions"`
	Source      string          `json:"source"`
}

func (c *IndexClient) Query(ctx context.Context, vector []float32, topK int) (core.ResultSet, error) {
	body, err := json.Marshal(queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", core.TastyUserAgent)
	if c.apiKey != "" {
		req.Header.Set("Api-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result queryResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	matches := make(core.ResultSet, 0, len(result.Matches))
	for _, m := range result.Matches {
		matches = append(matches, core.RecipeMatch{
			Title:       m.Metadata.Title,
			Link:        m.Metadata.Link,
			Ingredients: decodeStringList(m.Metadata.Ingredients),
			Directions:  decodeStringList(m.Metadata.Directions),
			Source:      m.Metadata.Source,
			Score:       m.Score,
		})
	}
	return matches, nil
}

// decodeStringList handles the index storing list metadata either as a JSON
// array or as a JSON-encoded string containing one.
func decodeStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(s), &list); err == nil {
		return list
	}
	if s != "" {
		return []string{s}
	}
	return nil
}
