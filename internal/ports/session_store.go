package ports

import (
	"context"

	"github.com/bnema/llm-council/internal/domain"
)

type SessionStore interface {
	Get(ctx context.Context, id domain.SessionID) (domain.SessionState, error)
	Put(ctx context.Context, state domain.SessionState) error
	Delete(ctx context.Context, id domain.SessionID) error
	List(ctx context.Context) ([]domain.SessionState, error)
}
