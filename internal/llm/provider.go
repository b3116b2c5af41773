package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the minimal interface needed by core logic to call a chat model.
// It mirrors the CreateChatCompletion method used throughout the codebase so
// that any OpenAI-compatible or local backend can be adapted.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Moderator is an optional capability for content moderation checks. Callers
// that receive a nil Moderator skip moderation entirely.
type Moderator interface {
	Moderations(ctx context.Context, request openai.ModerationRequest) (openai.ModerationResponse, error)
}

// OpenAIProvider adapts *openai.Client to the Client/Moderator interfaces.
type OpenAIProvider struct {
	Inner *openai.Client
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return p.Inner.CreateChatCompletion(ctx, request)
}

func (p *OpenAIProvider) Moderations(ctx context.Context, request openai.ModerationRequest) (openai.ModerationResponse, error) {
	return p.Inner.Moderations(ctx, request)
}

// FirstContent returns the content of the first choice, or empty when the
// model returned no choices.
func FirstContent(resp openai.ChatCompletionResponse) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Message.Content
}
