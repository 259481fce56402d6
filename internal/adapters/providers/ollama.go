package providers

import (
	"context"
	"strings"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
)

// OllamaClient calls a local Ollama server. No API key is sent.
type OllamaClient struct {
	HTTPTransport
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	PromptEvalCount int64 `json:"prompt_eval_count"`
	EvalCount       int64 `json:"eval_count"`
}

func (c OllamaClient) Complete(ctx context.Context, creds ports.Credentials, req domain.CompletionRequest) (domain.Completion, error) {
	endpoint, err := buildAPIURL(creds.BaseURL, "api/chat")
	if err != nil {
		return domain.Completion{}, err
	}

	images := lastUser(req.Messages)
	messages := make([]ollamaMessage, 0, len(req.Messages))
	for i, message := range req.Messages {
		msg := ollamaMessage{Role: string(message.Role), Content: message.Content}
		if i == images {
			for _, image := range req.Images {
				msg.Images = append(msg.Images, image.Base64Data)
			}
		}
		messages = append(messages, msg)
	}

	var headers map[string]string
	if creds.APIKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + creds.APIKey}
	}

	var payload ollamaResponse
	if err := c.postJSON(ctx, req.Provider, endpoint, headers, ollamaRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   false,
		Options:  ollamaOptions{Temperature: req.Temperature, NumPredict: req.MaxTokens},
	}, &payload); err != nil {
		return domain.Completion{}, err
	}

	if strings.TrimSpace(payload.Message.Content) == "" {
		return domain.Completion{}, emptyResponse(req.Provider)
	}

	return domain.Completion{
		Text:         payload.Message.Content,
		InputTokens:  payload.PromptEvalCount,
		OutputTokens: payload.EvalCount,
	}, nil
}
