package providers

import (
	"context"
	"strings"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
)

// OpenAIClient speaks the chat completions API used by OpenAI and xAI.
type OpenAIClient struct {
	HTTPTransport
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role string `json:"role"`
	// Content is a string, or a list of parts when images are attached.
	Content any `json:"content"`
}

type openAIPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
}

func (c OpenAIClient) Complete(ctx context.Context, creds ports.Credentials, req domain.CompletionRequest) (domain.Completion, error) {
	if err := requireKey(req.Provider, creds); err != nil {
		return domain.Completion{}, err
	}

	endpoint, err := buildAPIURL(creds.BaseURL, "chat/completions")
	if err != nil {
		return domain.Completion{}, err
	}

	images := lastUser(req.Messages)
	messages := make([]openAIMessage, 0, len(req.Messages))
	for i, message := range req.Messages {
		if i != images || len(req.Images) == 0 {
			messages = append(messages, openAIMessage{Role: string(message.Role), Content: message.Content})
			continue
		}

		parts := []openAIPart{{Type: "text", Text: message.Content}}
		for _, image := range req.Images {
			parts = append(parts, openAIPart{
				Type:     "image_url",
				ImageURL: &openAIImageURL{URL: "data:" + image.MediaType + ";base64," + image.Base64Data},
			})
		}
		messages = append(messages, openAIMessage{Role: string(message.Role), Content: parts})
	}

	var payload openAIResponse
	err = c.postJSON(ctx, req.Provider, endpoint, map[string]string{
		"Authorization": "Bearer " + creds.APIKey,
	}, openAIRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, &payload)
	if err != nil {
		return domain.Completion{}, err
	}

	if len(payload.Choices) == 0 || strings.TrimSpace(payload.Choices[0].Message.Content) == "" {
		return domain.Completion{}, emptyResponse(req.Provider)
	}

	return domain.Completion{
		Text:         payload.Choices[0].Message.Content,
		InputTokens:  payload.Usage.PromptTokens,
		OutputTokens: payload.Usage.CompletionTokens,
	}, nil
}
