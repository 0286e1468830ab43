package answer

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// LLM is the text completion boundary.
type LLM interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest carries one prompt and its sampling parameters.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// OpenAILLM calls the OpenAI chat completions API.
type OpenAILLM struct {
	client *openai.Client
	model  string
}

// NewOpenAILLM creates an LLM client for the given chat model.
func NewOpenAILLM(apiKey, model string) *OpenAILLM {
	return &OpenAILLM{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewOpenAILLMWithClient creates an LLM using an existing client.
func NewOpenAILLMWithClient(client *openai.Client, model string) *OpenAILLM {
	return &OpenAILLM{client: client, model: model}
}

// Complete sends the prompt and returns the raw completion text.
func (l *OpenAILLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
