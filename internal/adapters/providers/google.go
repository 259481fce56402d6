package providers

import (
	"context"
	"net/url"
	"strings"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
)

type GoogleClient struct {
	HTTPTransport
}

type googleRequest struct {
	SystemInstruction *googleContent         `json:"systemInstruction,omitempty"`
	Contents          []googleContent        `json:"contents"`
	GenerationConfig  googleGenerationConfig `json:"generationConfig"`
}

type googleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *googleInlineData `json:"inline_data,omitempty"`
}

type googleInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type googleGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type googleResponse struct {
	Candidates []struct {
		Content googleContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int64 `json:"promptTokenCount"`
		CandidatesTokenCount int64 `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

func (c GoogleClient) Complete(ctx context.Context, creds ports.Credentials, req domain.CompletionRequest) (domain.Completion, error) {
	if err := requireKey(req.Provider, creds); err != nil {
		return domain.Completion{}, err
	}

	endpoint, err := buildAPIURL(creds.BaseURL, "v1beta/models/"+url.PathEscape(req.Model)+":generateContent")
	if err != nil {
		return domain.Completion{}, err
	}

	system, turns := splitSystem(req.Messages)
	images := lastUser(turns)
	body := googleRequest{
		Contents: make([]googleContent, 0, len(turns)),
		GenerationConfig: googleGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}
	if system != "" {
		body.SystemInstruction = &googleContent{Parts: []googlePart{{Text: system}}}
	}
	for i, turn := range turns {
		role := "user"
		if turn.Role == domain.RoleAssistant {
			role = "model"
		}
		parts := []googlePart{{Text: turn.Content}}
		if i == images {
			for _, image := range req.Images {
				parts = append(parts, googlePart{InlineData: &googleInlineData{MimeType: image.MediaType, Data: image.Base64Data}})
			}
		}
		body.Contents = append(body.Contents, googleContent{Role: role, Parts: parts})
	}

	var payload googleResponse
	if err := c.postJSON(ctx, req.Provider, endpoint, map[string]string{
		"x-goog-api-key": creds.APIKey,
	}, body, &payload); err != nil {
		return domain.Completion{}, err
	}

	var text strings.Builder
	if len(payload.Candidates) > 0 {
		for _, part := range payload.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return domain.Completion{}, emptyResponse(req.Provider)
	}

	return domain.Completion{
		Text:         text.String(),
		InputTokens:  payload.UsageMetadata.PromptTokenCount,
		OutputTokens: payload.UsageMetadata.CandidatesTokenCount,
	}, nil
}
