package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider is the production Provider, backed by the Anthropic API.
type AnthropicProvider struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropicProvider creates a provider using apiKey and model, defaulting
// maxTokens to 1024 when unset.
func NewAnthropicProvider(apiKey string, model anthropic.Model, maxTokens int64) *AnthropicProvider {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &AnthropicProvider{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Generate sends one message turn and returns the concatenated text blocks.
func (p *AnthropicProvider) Generate(ctx context.Context, systemPrompt, userPrompt, format string) (string, map[string]string, error) {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", nil, fmt.Errorf("anthropic generate: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	meta := map[string]string{
		"provider": p.ProviderName(),
		"model":    p.ModelName(),
		"stop":     string(msg.StopReason),
	}
	return text, meta, nil
}

func (p *AnthropicProvider) ProviderName() string { return "anthropic" }
func (p *AnthropicProvider) ModelName() string     { return string(p.model) }
