package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
)

// caller turns one provider completion into a CouncilResponse.
type caller struct {
	gateway ports.ProviderGateway
	costs   *CostAccountant
	retry   RetryPolicy
	logger  *slog.Logger
	newID   func() string
}

func (c caller) call(ctx context.Context, member domain.CouncilMember, kind domain.ResponseKind, iteration int, req domain.CompletionRequest) (domain.CouncilResponse, error) {
	var completion domain.Completion
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		completion, err = c.gateway.Complete(ctx, req)
		return err
	}, func(attempt int, err error) {
		c.logger.Warn("retrying provider call",
			"member_id", member.ID,
			"provider", member.Provider,
			"iteration", iteration,
			"attempt", attempt,
			"error", err,
		)
	})
	if err != nil {
		return domain.CouncilResponse{}, fmt.Errorf("complete %s for member %s: %w", kind, member.ID, err)
	}

	return domain.CouncilResponse{
		ID:        c.newID(),
		Provider:  member.Provider,
		Model:     member.Model,
		Content:   completion.Text,
		Iteration: iteration,
		Kind:      kind,
		Tokens: domain.TokenUsage{
			Input:  completion.InputTokens,
			Output: completion.OutputTokens,
		},
		Cost:       c.costs.Estimate(member.Provider, member.Model, completion.InputTokens, completion.OutputTokens),
		MemberID:   member.ID,
		MemberRole: member.DisplayRole(),
	}, nil
}

type Round struct {
	Kind      domain.ResponseKind
	Iteration int
	Members   []domain.CouncilMember
	Request   func(domain.CouncilMember) domain.CompletionRequest
}

// MemberOutcome carries either a response or the error that removed the member from the round.
type MemberOutcome struct {
	Member   domain.CouncilMember
	Response domain.CouncilResponse
	Err      error
}

type RoundEngine struct {
	caller caller
}

func NewRoundEngine(gateway ports.ProviderGateway, costs *CostAccountant, retry RetryPolicy, logger *slog.Logger, newID func() string) *RoundEngine {
	return &RoundEngine{caller: newCaller(gateway, costs, retry, logger, newID)}
}

func newCaller(gateway ports.ProviderGateway, costs *CostAccountant, retry RetryPolicy, logger *slog.Logger, newID func() string) caller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if newID == nil {
		newID = newResponseID
	}
	return caller{gateway: gateway, costs: costs, retry: retry, logger: logger, newID: newID}
}

// Run calls every member concurrently and yields outcomes in completion order.
// The channel is unbuffered and closed once every member has reported or ctx is done.
func (e *RoundEngine) Run(ctx context.Context, round Round) <-chan MemberOutcome {
	out := make(chan MemberOutcome)

	var wg sync.WaitGroup
	for _, member := range round.Members {
		wg.Add(1)
		go func(member domain.CouncilMember) {
			defer wg.Done()

			resp, err := e.caller.call(ctx, member, round.Kind, round.Iteration, round.Request(member))
			select {
			case out <- MemberOutcome{Member: member, Response: resp, Err: err}:
			case <-ctx.Done():
			}
		}(member)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
