package ports

import (
	"context"

	"github.com/bnema/llm-council/internal/domain"
)

type ProviderSettingsRepository interface {
	Get(ctx context.Context, provider domain.Provider) (domain.ProviderSettings, error)
	List(ctx context.Context) ([]domain.ProviderSettings, error)
	Save(ctx context.Context, settings domain.ProviderSettings) error
}
