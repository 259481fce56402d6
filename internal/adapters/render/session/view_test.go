package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/bnema/llm-council/internal/application"
	"github.com/bnema/llm-council/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedState() domain.SessionState {
	cfg := domain.SessionConfig{Prompt: "Plan a launch", Iterations: 1}
	state := domain.NewSessionState("s-42", cfg, time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC))
	state.Status = domain.StatusCompleted
	state.CurrentIteration = 1
	state.Message = "session completed"
	state.Record(domain.CouncilResponse{ID: "r1", Provider: domain.ProviderOpenAI, Model: "gpt-4o", Content: "Ship on Monday.", Iteration: 1, Kind: domain.KindInitialResponse, Tokens: domain.TokenUsage{Input: 10, Output: 20}, Cost: 0.00025, MemberID: "a", MemberRole: "Strategist"})
	state.Record(domain.CouncilResponse{ID: "r2", Provider: domain.ProviderOllama, Model: "llama3.2", Content: "Ship on Friday.", Iteration: 1, Kind: domain.KindInitialResponse, Tokens: domain.TokenUsage{Input: 10, Output: 22}, MemberID: "b", MemberRole: "Critic"})
	state.Record(domain.CouncilResponse{ID: "m1", Provider: domain.ProviderOpenAI, Model: "gpt-4o", Content: "Ship on Wednesday.", Iteration: 1, Kind: domain.KindMerge, Tokens: domain.TokenUsage{Input: 50, Output: 30}, Cost: 0.00043, MemberID: "a", MemberRole: "Strategist"})
	return state
}

func TestRenderTranscript(t *testing.T) {
	t.Parallel()

	output, err := Render(completedState(), RenderOptions{})
	require.NoError(t, err)

	assert.Contains(t, output, "Council Session s-42")
	assert.Contains(t, output, "status: completed")
	assert.Contains(t, output, "iteration 1/1")
	assert.Contains(t, output, "tokens 142")
	assert.Contains(t, output, "Iteration 1")
	assert.Contains(t, output, "Ship on Monday.")
	assert.Contains(t, output, "Ship on Friday.")
	assert.Contains(t, output, "Ship on Wednesday.")
	assert.Contains(t, output, "[merge] openai/gpt-4o")
	assert.Contains(t, output, "[initial] ollama/llama3.2")
	assert.Contains(t, output, "free")
	assert.Contains(t, output, "$0.0007")
}

func TestRenderTranscriptMergesOnly(t *testing.T) {
	t.Parallel()

	output, err := Render(completedState(), RenderOptions{MergesOnly: true})
	require.NoError(t, err)

	assert.Contains(t, output, "Ship on Wednesday.")
	assert.NotContains(t, output, "Ship on Monday.")
	assert.NotContains(t, output, "Ship on Friday.")
}

func TestRenderTranscriptWithoutResponses(t *testing.T) {
	t.Parallel()

	state := domain.NewSessionState("s-0", domain.SessionConfig{Iterations: 2}, time.Time{})
	state.Status = domain.StatusFailed
	state.Error = "no council member produced a response"

	output, err := Render(state, RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "No responses recorded.")
	assert.Contains(t, output, "error: no council member produced a response")
}

func TestWatchModelTracksProgress(t *testing.T) {
	t.Parallel()

	m := newWatchModel(nil, RenderOptions{})
	assert.Contains(t, m.View(), "Starting council session...")

	m = m.apply(application.StatusEvent{Session: "s-1", Iteration: 1, Message: "Iteration 1: gathering responses"})
	assert.Contains(t, m.View(), "Iteration 1: gathering responses")

	m = m.apply(application.InitialResponseEvent{Session: "s-1", Response: domain.CouncilResponse{Iteration: 1}})
	m = m.apply(application.InitialResponseEvent{Session: "s-1", Response: domain.CouncilResponse{Iteration: 1}})
	assert.Contains(t, m.View(), "2 responses received...")

	m = m.apply(application.MergeEvent{Session: "s-1", Response: domain.CouncilResponse{Iteration: 1, Kind: domain.KindMerge}})
	assert.Contains(t, m.View(), "Iteration 1 merged")

	m = m.apply(application.CompleteEvent{Session: "s-1", Message: "session completed", Iterations: 1})
	require.NotNil(t, m.result.Complete)
	assert.Equal(t, domain.SessionID("s-1"), m.result.SessionID)

	next, _ := m.Update(streamClosedMsg{})
	closed := next.(watchModel)
	assert.Empty(t, closed.View())
	assert.NoError(t, closed.result.Err)
}

func TestWatchModelKeepsErrorCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("chair failed")
	m := newWatchModel(nil, RenderOptions{}).apply(application.ErrorEvent{Session: "s-1", Message: "merge failed", Err: cause})
	assert.ErrorIs(t, m.result.Err, cause)

	m = newWatchModel(nil, RenderOptions{}).apply(application.ErrorEvent{Session: "s-1", Message: "merge failed"})
	assert.EqualError(t, m.result.Err, "merge failed")
}

func TestWatchReportsCompletion(t *testing.T) {
	t.Parallel()

	state := completedState()
	events := make(chan application.Event, 6)
	events <- application.SessionCreatedEvent{Session: "s-42", Message: "session created"}
	events <- application.InitialResponseEvent{Session: "s-42", Response: state.Responses[0]}
	events <- application.InitialResponseEvent{Session: "s-42", Response: state.Responses[1]}
	events <- application.MergeEvent{Session: "s-42", Response: state.MergedResponses[0]}
	events <- application.CompleteEvent{Session: "s-42", Message: "session completed", Iterations: 1, TotalCost: state.TotalCost, TotalTokens: state.TotalTokens}
	close(events)

	result, err := Watch(context.Background(), io.Discard, events, RenderOptions{})
	require.NoError(t, err)
	require.NotNil(t, result.Complete)
	assert.Equal(t, domain.SessionID("s-42"), result.SessionID)
	assert.Equal(t, 1, result.Complete.Iterations)
	assert.NoError(t, result.Err)
}

func TestWatchReportsTruncatedStream(t *testing.T) {
	t.Parallel()

	events := make(chan application.Event, 1)
	events <- application.SessionCreatedEvent{Session: "s-1"}
	close(events)

	result, err := Watch(context.Background(), io.Discard, events, RenderOptions{})
	require.NoError(t, err)
	assert.ErrorIs(t, result.Err, ErrStreamEnded)
}

func TestRenderEventSkipsMemberResponsesWhenMergesOnly(t *testing.T) {
	t.Parallel()

	s := newStyles()
	_, ok := renderEvent(application.InitialResponseEvent{Response: domain.CouncilResponse{Content: "x"}}, RenderOptions{MergesOnly: true}, s)
	assert.False(t, ok)

	line, ok := renderEvent(application.CompleteEvent{Message: "session completed", Iterations: 2, TotalCost: 0.5, TotalTokens: domain.TokenUsage{Input: 3, Output: 4}}, RenderOptions{}, s)
	require.True(t, ok)
	assert.Contains(t, line, "session completed: 2 iterations, $0.5000, 7 tokens")
}

func TestRenderShortensLargeTokenTotals(t *testing.T) {
	t.Parallel()

	s := newStyles()
	line, ok := renderEvent(application.CompleteEvent{Message: "session completed", Iterations: 3, TotalTokens: domain.TokenUsage{Input: 1_500, Output: 500}}, RenderOptions{}, s)
	require.True(t, ok)
	assert.Contains(t, line, "2.0k tokens")

	state := completedState()
	state.TotalTokens = domain.TokenUsage{Input: 1_200_000}
	assert.Contains(t, sessionSummary(state), "tokens 1.2M")
}
