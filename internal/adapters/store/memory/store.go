package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]domain.SessionState
}

var _ ports.SessionStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{sessions: map[domain.SessionID]domain.SessionState{}}
}

func (s *Store) Get(ctx context.Context, id domain.SessionID) (domain.SessionState, error) {
	if err := ctx.Err(); err != nil {
		return domain.SessionState{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[id]
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return state.Clone(), nil
}

func (s *Store) Put(ctx context.Context, state domain.SessionState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[state.SessionID] = state.Clone()
	return nil
}

func (s *Store) Delete(ctx context.Context, id domain.SessionID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// List returns sessions newest first.
func (s *Store) List(ctx context.Context) ([]domain.SessionState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make([]domain.SessionState, 0, len(s.sessions))
	for _, state := range s.sessions {
		states = append(states, state.Clone())
	}
	sort.Slice(states, func(i, j int) bool {
		if states[i].CreatedAt.Equal(states[j].CreatedAt) {
			return states[i].SessionID < states[j].SessionID
		}
		return states[i].CreatedAt.After(states[j].CreatedAt)
	})
	return states, nil
}
