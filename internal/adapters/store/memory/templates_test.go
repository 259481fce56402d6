package memory

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateStoreReturnsIndependentCopies(t *testing.T) {
	t.Parallel()

	store := NewTemplateStore()
	template := domain.CouncilTemplate{
		ID:      "t-1",
		Name:    "Pair",
		Members: []domain.CouncilMember{{ID: "m1", Provider: domain.ProviderOpenAI, Model: "gpt-4o", IsChair: true}},
	}
	require.NoError(t, store.Put(context.Background(), template))
	template.Members[0].Model = "mutated"

	got, err := store.Get(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", got.Members[0].Model)
}

func TestTemplateStoreListDeleteAndMissing(t *testing.T) {
	t.Parallel()

	store := NewTemplateStore()
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Put(ctx, domain.CouncilTemplate{ID: "old", UpdatedAt: base}))
	require.NoError(t, store.Put(ctx, domain.CouncilTemplate{ID: "new", UpdatedAt: base.Add(time.Hour)}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.TemplateID("new"), list[0].ID)

	require.NoError(t, store.Delete(ctx, "old"))
	require.ErrorIs(t, store.Delete(ctx, "old"), domain.ErrTemplateNotFound)
	_, err = store.Get(ctx, "old")
	require.ErrorIs(t, err, domain.ErrTemplateNotFound)
}
