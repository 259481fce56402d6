package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bnema/llm-council/internal/domain"
)

// sessionRun owns one session's state for the lifetime of a stream.
type sessionRun struct {
	o        *Orchestrator
	ctx      context.Context
	consumer context.Context
	state    domain.SessionState
	out      chan<- Event
	logger   *slog.Logger
}

func (r *sessionRun) execute(resumed bool) {
	cfg := r.state.Config
	next := r.state.CurrentIteration + 1

	r.state.Status = domain.StatusRunning
	r.state.Error = ""
	r.state.Message = "session started"
	if resumed {
		r.state.Message = fmt.Sprintf("session resumed at iteration %d", min(next, r.state.TotalIterations))
	}
	r.save()
	r.logger.Info(r.state.Message, "iteration", next, "total_iterations", r.state.TotalIterations)

	// session_created opens every stream, even one paused before its first read.
	r.emitFinal(SessionCreatedEvent{Session: r.state.SessionID, Message: r.state.Message, Resumed: resumed})
	if r.ctx.Err() != nil {
		r.finish(context.Cause(r.ctx))
		return
	}

	for iteration := next; iteration <= cfg.Iterations; iteration++ {
		r.state.CurrentIteration = iteration
		if err := r.iterate(iteration); err != nil {
			r.finish(err)
			return
		}
	}

	r.state.Status = domain.StatusCompleted
	r.state.Message = fmt.Sprintf("council completed %d iterations", r.state.TotalIterations)
	r.save()
	r.logger.Info("session completed", "total_cost", r.state.TotalCost, "total_tokens", r.state.TotalTokens.Total())

	_ = r.emit(CompleteEvent{
		Session:     r.state.SessionID,
		Message:     r.state.Message,
		Iterations:  r.state.TotalIterations,
		TotalCost:   r.state.TotalCost,
		TotalTokens: r.state.TotalTokens,
	})
}

func (r *sessionRun) iterate(iteration int) error {
	cfg := r.state.Config
	chair, _ := domain.Chair(cfg.Members)
	previous, _ := r.state.LastMerge()

	round := r.round(iteration, previous.Content)
	if len(round.Members) == 0 {
		if err := r.status(iteration, fmt.Sprintf("Iteration %d/%d: no council members besides the chair, skipping feedback", iteration, cfg.Iterations)); err != nil {
			return err
		}
	} else {
		if err := r.status(iteration, fmt.Sprintf("Iteration %d/%d: waiting for %d council members", iteration, cfg.Iterations, len(round.Members))); err != nil {
			return err
		}
	}

	collected, err := r.collect(round)
	if err != nil {
		return err
	}
	if iteration == 1 && len(collected) == 0 {
		return domain.ErrNoResponses
	}

	if err := r.status(iteration, fmt.Sprintf("Iteration %d/%d: %s is synthesizing %d responses", iteration, cfg.Iterations, chair.DisplayRole(), len(collected))); err != nil {
		return err
	}

	merged, err := r.o.merges.Merge(r.ctx, MergeInput{
		Chair:        chair,
		Iteration:    iteration,
		Prompt:       cfg.Prompt,
		Style:        cfg.SynthesisStyle,
		Responses:    collected,
		Previous:     previous.Content,
		SystemPrompt: r.o.archetypes.SystemPrompt(chair.Archetype, chair.CustomPersonality),
		Temperature:  cfg.Preset.Temperature(),
		MaxTokens:    r.o.maxTokens,
	})
	if err != nil {
		if r.ctx.Err() != nil {
			return context.Cause(r.ctx)
		}
		r.logger.Error("chair merge failed", "iteration", iteration, "member_id", chair.ID, "provider", chair.Provider, "error", err)
		return fmt.Errorf("merge iteration %d: %w", iteration, err)
	}

	return r.record(merged)
}

func (r *sessionRun) round(iteration int, previous string) Round {
	cfg := r.state.Config
	temperature := cfg.Preset.Temperature()
	if iteration == 1 {
		prompt := InitialPrompt(cfg)
		var images []domain.Image
		if image, ok := FirstImage(cfg.Files); ok {
			images = []domain.Image{image}
		}
		return Round{
			Kind:      domain.KindInitialResponse,
			Iteration: iteration,
			Members:   cfg.Members,
			Request: func(member domain.CouncilMember) domain.CompletionRequest {
				return r.memberRequest(member, prompt, temperature, images)
			},
		}
	}

	prompt := FeedbackPrompt(cfg.Prompt, iteration, previous)
	return Round{
		Kind:      domain.KindFeedback,
		Iteration: iteration,
		Members:   domain.NonChair(cfg.Members),
		Request: func(member domain.CouncilMember) domain.CompletionRequest {
			return r.memberRequest(member, prompt, temperature, nil)
		},
	}
}

// memberRequest runs on round goroutines and must not touch r.state.
func (r *sessionRun) memberRequest(member domain.CouncilMember, prompt string, temperature float64, images []domain.Image) domain.CompletionRequest {
	return domain.CompletionRequest{
		Provider: member.Provider,
		Model:    member.Model,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: r.o.archetypes.SystemPrompt(member.Archetype, member.CustomPersonality)},
			{Role: domain.RoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   r.o.maxTokens,
		Images:      images,
	}
}

// collect streams round responses as they arrive. Failed members are reported and skipped.
func (r *sessionRun) collect(round Round) ([]domain.CouncilResponse, error) {
	if len(round.Members) == 0 {
		return nil, nil
	}

	collected := make([]domain.CouncilResponse, 0, len(round.Members))
	for outcome := range r.o.rounds.Run(r.ctx, round) {
		if r.ctx.Err() != nil {
			return nil, context.Cause(r.ctx)
		}
		if outcome.Err != nil {
			r.logger.Warn("council member failed",
				"iteration", round.Iteration,
				"member_id", outcome.Member.ID,
				"provider", outcome.Member.Provider,
				"transient", domain.IsTransient(outcome.Err),
				"error", outcome.Err,
			)
			msg := fmt.Sprintf("%s (%s) did not respond: %v", outcome.Member.DisplayRole(), outcome.Member.Provider, outcome.Err)
			if err := r.status(round.Iteration, msg); err != nil {
				return nil, err
			}
			continue
		}

		if err := r.record(outcome.Response); err != nil {
			return nil, err
		}
		collected = append(collected, outcome.Response)
	}

	if r.ctx.Err() != nil {
		return nil, context.Cause(r.ctx)
	}
	return collected, nil
}

func (r *sessionRun) record(resp domain.CouncilResponse) error {
	r.state.Record(resp)
	r.save()
	return r.emit(responseEvent(r.state.SessionID, resp))
}

func (r *sessionRun) status(iteration int, message string) error {
	r.state.Message = message
	return r.emit(StatusEvent{Session: r.state.SessionID, Iteration: iteration, Message: message})
}

// emit blocks until the consumer takes ev, which keeps a slow reader in control of the pace.
func (r *sessionRun) emit(ev Event) error {
	select {
	case r.out <- ev:
		return nil
	case <-r.ctx.Done():
		return context.Cause(r.ctx)
	}
}

// emitFinal delivers a terminal event after the run context is gone, as long as the consumer still listens.
func (r *sessionRun) emitFinal(ev Event) {
	select {
	case r.out <- ev:
	case <-r.consumer.Done():
	}
}

func (r *sessionRun) finish(err error) {
	switch {
	case errors.Is(err, domain.ErrPauseRequested):
		r.state.Status = domain.StatusPaused
		r.state.Message = messagePaused
		r.save()
		r.logger.Info("session paused", "iteration", r.state.CurrentIteration)
		r.emitFinal(StatusEvent{Session: r.state.SessionID, Iteration: r.state.CurrentIteration, Message: messagePaused})
	case errors.Is(err, domain.ErrSessionCancelled):
		r.state.Status = domain.StatusFailed
		r.state.Message = messageCancelled
		r.state.Error = messageCancelled
		r.save()
		r.logger.Info("session cancelled", "iteration", r.state.CurrentIteration)
		r.emitFinal(ErrorEvent{Session: r.state.SessionID, Message: messageCancelled, Err: err})
	case r.consumer.Err() != nil:
		r.state.Status = domain.StatusPaused
		r.state.Message = messageInterrupted
		r.save()
		r.logger.Info("stream interrupted, session paused", "iteration", r.state.CurrentIteration)
	default:
		r.state.Status = domain.StatusFailed
		r.state.Error = err.Error()
		r.state.Message = "session failed"
		r.save()
		r.logger.Error("session failed", "iteration", r.state.CurrentIteration, "error", err)
		r.emitFinal(ErrorEvent{Session: r.state.SessionID, Message: err.Error(), Err: err})
	}
}

// save persists a snapshot even when the stream context is already cancelled.
func (r *sessionRun) save() {
	r.state.UpdatedAt = r.o.clock.Now()
	if err := r.o.store.Put(context.WithoutCancel(r.consumer), r.state.Clone()); err != nil {
		r.logger.Error("save session state", "error", err)
	}
}
