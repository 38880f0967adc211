package utils

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicTextClient struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicTextClient(apiKey, model string) (*AnthropicTextClient, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	if model == "" {
		model = "claude-haiku-4-5-20251001"
	}

	client := anthropic.NewClient(anthropicoption.WithAPIKey(apiKey))
	return &AnthropicTextClient{
		client: &client,
		model:  model,
	}, nil
}

func (c *AnthropicTextClient) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(req.Prompt),
				},
			},
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(req.Temperature))
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", &ProviderError{Provider: "anthropic", Err: err}
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", &ProviderError{Provider: "anthropic", Err: errors.New("no text content in response")}
	}
	return b.String(), nil
}

func (c *AnthropicTextClient) ModelID() string {
	return c.model
}
