package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
	"github.com/google/uuid"
)

type TemplateService struct {
	store  ports.TemplateStore
	limits domain.Limits
	clock  ports.Clock
	newID  func() string
}

func NewTemplateService(store ports.TemplateStore, limits domain.Limits, clock ports.Clock) *TemplateService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &TemplateService{
		store:  store,
		limits: limits,
		clock:  clock,
		newID:  uuid.NewString,
	}
}

// TemplateInput is the editable part of a council template.
type TemplateInput struct {
	Name        string
	Description string
	Members     []domain.CouncilMember
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]domain.CouncilTemplate, error) {
	templates, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list council templates: %w", err)
	}
	return templates, nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, id domain.TemplateID) (domain.CouncilTemplate, error) {
	template, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.CouncilTemplate{}, fmt.Errorf("get council template %s: %w", id, err)
	}
	return template, nil
}

func (s *TemplateService) CreateTemplate(ctx context.Context, input TemplateInput) (domain.CouncilTemplate, error) {
	now := s.clock.Now()
	template := input.apply(domain.CouncilTemplate{
		ID:        domain.TemplateID(s.newID()),
		CreatedAt: now,
	}, now)
	if err := template.Validate(s.limits); err != nil {
		return domain.CouncilTemplate{}, err
	}
	if err := s.store.Put(ctx, template); err != nil {
		return domain.CouncilTemplate{}, fmt.Errorf("create council template: %w", err)
	}
	return template, nil
}

// UpdateTemplate replaces name, description and members of an existing template.
func (s *TemplateService) UpdateTemplate(ctx context.Context, id domain.TemplateID, input TemplateInput) (domain.CouncilTemplate, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.CouncilTemplate{}, fmt.Errorf("get council template %s: %w", id, err)
	}
	template := input.apply(existing, s.clock.Now())
	if err := template.Validate(s.limits); err != nil {
		return domain.CouncilTemplate{}, err
	}
	if err := s.store.Put(ctx, template); err != nil {
		return domain.CouncilTemplate{}, fmt.Errorf("update council template %s: %w", id, err)
	}
	return template, nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id domain.TemplateID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete council template %s: %w", id, err)
	}
	return nil
}

func (in TemplateInput) apply(template domain.CouncilTemplate, now time.Time) domain.CouncilTemplate {
	template.Name = strings.TrimSpace(in.Name)
	template.Description = strings.TrimSpace(in.Description)
	template.Members = append([]domain.CouncilMember(nil), in.Members...)
	template.UpdatedAt = now
	return template
}
