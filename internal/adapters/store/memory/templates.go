package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
)

type TemplateStore struct {
	mu        sync.RWMutex
	templates map[domain.TemplateID]domain.CouncilTemplate
}

var _ ports.TemplateStore = (*TemplateStore)(nil)

func NewTemplateStore() *TemplateStore {
	return &TemplateStore{templates: map[domain.TemplateID]domain.CouncilTemplate{}}
}

func (s *TemplateStore) Get(ctx context.Context, id domain.TemplateID) (domain.CouncilTemplate, error) {
	if err := ctx.Err(); err != nil {
		return domain.CouncilTemplate{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	template, ok := s.templates[id]
	if !ok {
		return domain.CouncilTemplate{}, domain.ErrTemplateNotFound
	}
	return template.Clone(), nil
}

func (s *TemplateStore) Put(ctx context.Context, template domain.CouncilTemplate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.templates[template.ID] = template.Clone()
	return nil
}

func (s *TemplateStore) Delete(ctx context.Context, id domain.TemplateID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return domain.ErrTemplateNotFound
	}
	delete(s.templates, id)
	return nil
}

func (s *TemplateStore) List(ctx context.Context) ([]domain.CouncilTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	templates := make([]domain.CouncilTemplate, 0, len(s.templates))
	for _, template := range s.templates {
		templates = append(templates, template.Clone())
	}
	sort.Slice(templates, func(i, j int) bool {
		if templates[i].UpdatedAt.Equal(templates[j].UpdatedAt) {
			return templates[i].ID < templates[j].ID
		}
		return templates[i].UpdatedAt.After(templates[j].UpdatedAt)
	})
	return templates, nil
}
