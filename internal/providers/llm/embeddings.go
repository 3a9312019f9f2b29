package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// EmbeddingClient turns query text into a vector via the provider's
// /v1/embeddings endpoint.
type EmbeddingClient struct {
	baseProvider
}

func NewEmbeddingClient(baseURL, apiKey, model string) *EmbeddingClient {
	return &EmbeddingClient{
		baseProvider: newBaseProvider(baseURL, apiKey, model),
	}
}

func (e *EmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := map[string]any{
		"model": e.model,
		"input": text,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + e.apiKey,
	}

	resp, err := e.doRequest(ctx, http.MethodPost, "/v1/embeddings", payload, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("empty embedding data")
	}
	return result.Data[0].Embedding, nil
}
