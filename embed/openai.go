package embed

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Provider computes embeddings for a batch of texts in one call.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// OpenAIProvider computes embeddings through the OpenAI embeddings API.
type OpenAIProvider struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIProvider creates a provider for the given model
// (e.g. text-embedding-3-small).
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  openai.EmbeddingModel(model),
	}
}

// NewOpenAIProviderWithClient creates a provider using an existing client.
func NewOpenAIProviderWithClient(client *openai.Client, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: client,
		model:  openai.EmbeddingModel(model),
	}
}

// Embed computes embeddings for texts in a single API request.
func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: p.model,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
