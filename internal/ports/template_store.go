package ports

import (
	"context"

	"github.com/bnema/llm-council/internal/domain"
)

// TemplateStore keeps saved council lineups. List returns the most recently updated first.
type TemplateStore interface {
	Get(ctx context.Context, id domain.TemplateID) (domain.CouncilTemplate, error)
	Put(ctx context.Context, template domain.CouncilTemplate) error
	Delete(ctx context.Context, id domain.TemplateID) error
	List(ctx context.Context) ([]domain.CouncilTemplate, error)
}
