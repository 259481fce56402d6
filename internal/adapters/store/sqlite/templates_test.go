package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTemplate(id domain.TemplateID, updated time.Time) domain.CouncilTemplate {
	return domain.CouncilTemplate{
		ID:          id,
		Name:        "Review board",
		Description: "Two reviewers and a chair",
		Members: []domain.CouncilMember{
			{ID: "m1", Provider: domain.ProviderAnthropic, Model: "claude-sonnet-4-20250514", Role: "Chair", Archetype: "synthesizer", IsChair: true},
			{ID: "m2", Provider: domain.ProviderOllama, Model: "llama3.2", Role: "Skeptic", CustomPersonality: "doubt everything"},
		},
		CreatedAt: updated.Add(-time.Hour),
		UpdatedAt: updated,
	}
}

func TestTemplateStoreRoundTrip(t *testing.T) {
	t.Parallel()

	templates := openTestStore(t).Templates()
	ctx := context.Background()
	want := sampleTemplate("t-1", time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC))

	require.NoError(t, templates.Put(ctx, want))

	got, err := templates.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTemplateStorePutUpdatesAndKeepsCreatedAt(t *testing.T) {
	t.Parallel()

	templates := openTestStore(t).Templates()
	ctx := context.Background()
	original := sampleTemplate("t-1", time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, templates.Put(ctx, original))

	updated := original
	updated.Name = "Renamed board"
	updated.Members = updated.Members[:1]
	updated.CreatedAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	updated.UpdatedAt = original.UpdatedAt.Add(time.Hour)
	require.NoError(t, templates.Put(ctx, updated))

	got, err := templates.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed board", got.Name)
	assert.Len(t, got.Members, 1)
	assert.True(t, original.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, updated.UpdatedAt.Equal(got.UpdatedAt))
}

func TestTemplateStoreListsMostRecentlyUpdatedFirst(t *testing.T) {
	t.Parallel()

	templates := openTestStore(t).Templates()
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, templates.Put(ctx, sampleTemplate("old", base)))
	require.NoError(t, templates.Put(ctx, sampleTemplate("new", base.Add(2*time.Hour))))
	require.NoError(t, templates.Put(ctx, sampleTemplate("mid", base.Add(time.Hour))))

	list, err := templates.List(ctx)
	require.NoError(t, err)
	ids := make([]domain.TemplateID, 0, len(list))
	for _, template := range list {
		ids = append(ids, template.ID)
	}
	assert.Equal(t, []domain.TemplateID{"new", "mid", "old"}, ids)
}

func TestTemplateStoreMissingTemplate(t *testing.T) {
	t.Parallel()

	templates := openTestStore(t).Templates()

	_, err := templates.Get(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrTemplateNotFound)
	require.ErrorIs(t, templates.Delete(context.Background(), "nope"), domain.ErrTemplateNotFound)
}

func TestTemplateStoreDelete(t *testing.T) {
	t.Parallel()

	templates := openTestStore(t).Templates()
	ctx := context.Background()
	require.NoError(t, templates.Put(ctx, sampleTemplate("t-1", time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC))))

	require.NoError(t, templates.Delete(ctx, "t-1"))
	_, err := templates.Get(ctx, "t-1")
	require.ErrorIs(t, err, domain.ErrTemplateNotFound)
}
