package ports

import (
	"context"

	"github.com/bnema/llm-council/internal/domain"
)

// ProviderGateway must be safe for concurrent use.
type ProviderGateway interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error)
}

type CredentialSource interface {
	Credentials(ctx context.Context, provider domain.Provider) (Credentials, error)
}

type Credentials struct {
	APIKey  string
	BaseURL string
}
