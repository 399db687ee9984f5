package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/Oinktech2024/Techie-AI/internal/model/chat"
)

// OpenAIClient calls an OpenAI-compatible chat completions endpoint
// with a fixed model selector and a bearer credential.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds the upstream client. baseURL may point at any
// OpenAI-compatible relay.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete sends [system] + history + [user] upstream and returns the
// first completion's text. No retry: the caller resubmits if needed.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt string, history []chat.Turn, userText string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, turn := range history {
		if turn.Role == chat.RoleSystem {
			// System turns are synthesized per request, never replayed.
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		log.Printf("[upstream] completion request failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		log.Printf("[upstream] completion response missing content (choices=%d)", len(resp.Choices))
		return "", ErrMalformedReply
	}

	return resp.Choices[0].Message.Content, nil
}
