package application

import (
	"context"
	"log/slog"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
)

type MergeInput struct {
	Chair        domain.CouncilMember
	Iteration    int
	Prompt       string
	Style        domain.SynthesisStyle
	Responses    []domain.CouncilResponse
	Previous     string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

type MergeStage struct {
	caller caller
}

func NewMergeStage(gateway ports.ProviderGateway, costs *CostAccountant, retry RetryPolicy, logger *slog.Logger, newID func() string) *MergeStage {
	return &MergeStage{caller: newCaller(gateway, costs, retry, logger, newID)}
}

// Merge asks the chair for one synthesis of the round. There is no fallback chair.
func (s *MergeStage) Merge(ctx context.Context, in MergeInput) (domain.CouncilResponse, error) {
	messages := make([]domain.Message, 0, 2)
	if in.SystemPrompt != "" {
		messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: in.SystemPrompt})
	}
	messages = append(messages, domain.Message{Role: domain.RoleUser, Content: MergePrompt(in)})

	return s.caller.call(ctx, in.Chair, domain.KindMerge, in.Iteration, domain.CompletionRequest{
		Provider:    in.Chair.Provider,
		Model:       in.Chair.Model,
		Messages:    messages,
		Temperature: in.Temperature,
		MaxTokens:   in.MaxTokens,
	})
}
