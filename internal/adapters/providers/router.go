package providers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
)

// Client talks to one backend API.
type Client interface {
	Complete(ctx context.Context, creds ports.Credentials, req domain.CompletionRequest) (domain.Completion, error)
}

type Router struct {
	creds   ports.CredentialSource
	clients map[domain.Provider]Client
}

var _ ports.ProviderGateway = (*Router)(nil)

func NewRouter(creds ports.CredentialSource, clients map[domain.Provider]Client) *Router {
	return &Router{creds: creds, clients: clients}
}

// DefaultClients wires every known provider to its backend. Grok speaks the
// OpenAI chat completions dialect.
func DefaultClients(httpClient *http.Client, requestTimeout time.Duration) map[domain.Provider]Client {
	transport := HTTPTransport{Client: httpClient, RequestTimeout: requestTimeout}
	return map[domain.Provider]Client{
		domain.ProviderOpenAI:    OpenAIClient{HTTPTransport: transport},
		domain.ProviderGrok:      OpenAIClient{HTTPTransport: transport},
		domain.ProviderAnthropic: AnthropicClient{HTTPTransport: transport},
		domain.ProviderGoogle:    GoogleClient{HTTPTransport: transport},
		domain.ProviderOllama:    OllamaClient{HTTPTransport: transport},
	}
}

func (r *Router) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	client, ok := r.clients[req.Provider]
	if !ok {
		return domain.Completion{}, &domain.ProviderError{
			Kind:     domain.ProviderErrorPermanent,
			Provider: req.Provider,
			Detail:   "no client registered",
			Err:      domain.ErrProviderNotFound,
		}
	}

	creds, err := r.creds.Credentials(ctx, req.Provider)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Completion{}, ctxErr
		}
		return domain.Completion{}, &domain.ProviderError{
			Kind:     domain.ProviderErrorPermanent,
			Provider: req.Provider,
			Detail:   "credentials unavailable",
			Err:      err,
		}
	}

	if !SupportsVision(req.Provider, req.Model) {
		req.Images = nil
	}

	completion, err := client.Complete(ctx, creds, req)
	if err != nil {
		return domain.Completion{}, err
	}
	if completion.InputTokens <= 0 {
		completion.InputTokens = promptTokens(req.Messages)
	}
	if completion.OutputTokens <= 0 {
		completion.OutputTokens = EstimateTokens(completion.Text)
	}
	return completion, nil
}

// EstimateTokens approximates four characters per token, rounding up.
func EstimateTokens(text string) int64 {
	n := int64(len(text))
	return (n + 3) / 4
}

func promptTokens(messages []domain.Message) int64 {
	var total int64
	for _, message := range messages {
		total += EstimateTokens(message.Content)
	}
	return total
}

func SupportsVision(provider domain.Provider, model string) bool {
	model = strings.ToLower(model)
	switch provider {
	case domain.ProviderOpenAI:
		return strings.HasPrefix(model, "gpt-4o") || strings.HasPrefix(model, "gpt-4-turbo")
	case domain.ProviderGrok:
		return strings.HasPrefix(model, "grok-vision")
	case domain.ProviderAnthropic:
		return strings.HasPrefix(model, "claude-")
	case domain.ProviderGoogle:
		return strings.HasPrefix(model, "gemini-")
	case domain.ProviderOllama:
		return strings.HasPrefix(model, "llava") || strings.Contains(model, "-vision") || strings.HasPrefix(model, "moondream")
	default:
		return false
	}
}

// splitSystem separates system messages, which several APIs take as a top-level field.
func splitSystem(messages []domain.Message) (string, []domain.Message) {
	var system []string
	rest := make([]domain.Message, 0, len(messages))
	for _, message := range messages {
		if message.Role == domain.RoleSystem {
			system = append(system, message.Content)
			continue
		}
		rest = append(rest, message)
	}
	return strings.Join(system, "\n\n"), rest
}

// lastUser is the index images attach to, or -1.
func lastUser(messages []domain.Message) int {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return i
		}
	}
	return -1
}

func requireKey(provider domain.Provider, creds ports.Credentials) error {
	if creds.APIKey != "" {
		return nil
	}
	return &domain.ProviderError{
		Kind:     domain.ProviderErrorPermanent,
		Provider: provider,
		Detail:   "api key is missing",
		Err:      domain.ErrProviderNotConfigured,
	}
}

func emptyResponse(provider domain.Provider) error {
	return &domain.ProviderError{Kind: domain.ProviderErrorPermanent, Provider: provider, Detail: "response contained no text"}
}
