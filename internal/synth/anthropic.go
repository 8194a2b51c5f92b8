package synth

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicCaller struct {
	client *anthropic.Client
	model  anthropic.Model
}

func newAnthropicProvider(apiKey, model string) Synthesizer {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	m := anthropic.ModelClaudeHaiku4_5
	if model != "" {
		m = anthropic.Model(model)
	}
	return gateway{c: &anthropicCaller{client: &client, model: m}}
}

func (c *anthropicCaller) call(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}
	return strings.TrimSpace(resp.Content[0].Text), nil
}
