package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleState(id domain.SessionID, created time.Time) domain.SessionState {
	cfg := domain.SessionConfig{
		Prompt:         "Explain X",
		Iterations:     2,
		SynthesisStyle: domain.StyleTechnical,
		Preset:         domain.PresetPrecise,
		Members: []domain.CouncilMember{
			{ID: "a", Provider: domain.ProviderOpenAI, Model: "gpt-4o", Role: "Chair", Archetype: "synthesizer", IsChair: true},
			{ID: "b", Provider: domain.ProviderOllama, Model: "llama3.2", Role: "Critic", CustomPersonality: "be terse"},
		},
		Files: []domain.Attachment{{Filename: "notes.txt", ContentType: "text/plain", Size: 5, ExtractedText: "hello"}},
	}

	state := domain.NewSessionState(id, cfg, created)
	state.Status = domain.StatusPaused
	state.CurrentIteration = 1
	state.Message = "session paused"
	state.UpdatedAt = created.Add(time.Minute)
	state.Record(domain.CouncilResponse{ID: "r1", Provider: domain.ProviderOpenAI, Model: "gpt-4o", Content: "one", Iteration: 1, Kind: domain.KindInitialResponse, Tokens: domain.TokenUsage{Input: 10, Output: 20}, Cost: 0.000225, MemberID: "a", MemberRole: "Chair"})
	state.Record(domain.CouncilResponse{ID: "r2", Provider: domain.ProviderOllama, Model: "llama3.2", Content: "two", Iteration: 1, Kind: domain.KindInitialResponse, Tokens: domain.TokenUsage{Input: 11, Output: 21}, MemberID: "b", MemberRole: "Critic"})
	state.Record(domain.CouncilResponse{ID: "m1", Provider: domain.ProviderOpenAI, Model: "gpt-4o", Content: "merged", Iteration: 1, Kind: domain.KindMerge, Tokens: domain.TokenUsage{Input: 40, Output: 30}, Cost: 0.0004, MemberID: "a", MemberRole: "Chair"})
	return state
}

func TestStorePutGetRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	state := sampleState("s-1", time.Date(2026, 3, 1, 10, 0, 0, 123, time.UTC))

	require.NoError(t, store.Put(ctx, state))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestStorePutReplacesResponses(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	state := sampleState("s-1", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, store.Put(ctx, state))

	state.Responses = state.Responses[:1]
	state.MergedResponses = nil
	state.Status = domain.StatusRunning
	state.CreatedAt = state.CreatedAt.Add(time.Hour)
	require.NoError(t, store.Put(ctx, state))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, got.Status)
	assert.Len(t, got.Responses, 1)
	assert.Empty(t, got.MergedResponses)
	// created_at is kept from the first write.
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), got.CreatedAt)
}

func TestStoreGetAndDeleteMissing(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	require.ErrorIs(t, store.Delete(ctx, "missing"), domain.ErrSessionNotFound)
}

func TestStoreDeleteRemovesResponses(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, sampleState("s-1", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))))

	require.NoError(t, store.Delete(ctx, "s-1"))

	_, err := store.Get(ctx, "s-1")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	var count int
	require.NoError(t, store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM session_responses`).Scan(&count))
	assert.Zero(t, count)
}

func TestStoreListNewestFirst(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Put(ctx, sampleState("old", base)))
	require.NoError(t, store.Put(ctx, sampleState("new", base.Add(500*time.Millisecond))))
	require.NoError(t, store.Put(ctx, sampleState("newest", base.Add(2*time.Second))))

	states, err := store.List(ctx)
	require.NoError(t, err)

	ids := make([]domain.SessionID, 0, len(states))
	for _, state := range states {
		ids = append(ids, state.SessionID)
		assert.Len(t, state.Responses, 2)
	}
	assert.Equal(t, []domain.SessionID{"newest", "new", "old"}, ids)
}

func TestStoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	first, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, sampleState("s-1", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))))
	require.NoError(t, first.Close())

	second, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	got, err := second.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaused, got.Status)
	assert.InDelta(t, 0.000625, got.TotalCost, 1e-9)
}
