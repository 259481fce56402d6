package providers

import (
	"context"
	"strings"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
)

const (
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4000
)

type AnthropicClient struct {
	HTTPTransport
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int64 `json:"input_tokens"`
		OutputTokens int64 `json:"output_tokens"`
	} `json:"usage"`
}

func (c AnthropicClient) Complete(ctx context.Context, creds ports.Credentials, req domain.CompletionRequest) (domain.Completion, error) {
	if err := requireKey(req.Provider, creds); err != nil {
		return domain.Completion{}, err
	}

	endpoint, err := buildAPIURL(creds.BaseURL, "v1/messages")
	if err != nil {
		return domain.Completion{}, err
	}

	system, turns := splitSystem(req.Messages)
	images := lastUser(turns)
	messages := make([]anthropicMessage, 0, len(turns))
	for i, turn := range turns {
		var content []anthropicContent
		if i == images {
			for _, image := range req.Images {
				content = append(content, anthropicContent{
					Type:   "image",
					Source: &anthropicSource{Type: "base64", MediaType: image.MediaType, Data: image.Base64Data},
				})
			}
		}
		content = append(content, anthropicContent{Type: "text", Text: turn.Content})
		messages = append(messages, anthropicMessage{Role: string(turn.Role), Content: content})
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicMaxTokens
	}

	var payload anthropicResponse
	err = c.postJSON(ctx, req.Provider, endpoint, map[string]string{
		"x-api-key":         creds.APIKey,
		"anthropic-version": anthropicVersion,
	}, anthropicRequest{
		Model:       req.Model,
		System:      system,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	}, &payload)
	if err != nil {
		return domain.Completion{}, err
	}

	var text strings.Builder
	for _, block := range payload.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return domain.Completion{}, emptyResponse(req.Provider)
	}

	return domain.Completion{
		Text:         text.String(),
		InputTokens:  payload.Usage.InputTokens,
		OutputTokens: payload.Usage.OutputTokens,
	}, nil
}
