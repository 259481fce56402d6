package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, path string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set("providers.path", path)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "providers.toml"))

	openai := domain.ProviderSettings{
		Provider:     domain.ProviderOpenAI,
		BaseURL:      "https://proxy.example/v1",
		DefaultModel: "gpt-4o",
		Models:       []string{"gpt-4o", "gpt-4o-mini"},
		SecretRef:    domain.ProviderOpenAI.SecretRef(),
	}
	ollama := domain.ProviderSettings{
		Provider: domain.ProviderOllama,
		BaseURL:  "http://gpu-box:11434",
		Disabled: true,
	}

	require.NoError(t, repo.Save(context.Background(), openai))
	require.NoError(t, repo.Save(context.Background(), ollama))

	got, err := repo.Get(context.Background(), domain.ProviderOpenAI)
	require.NoError(t, err)
	assert.Equal(t, openai, got)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.ProviderSettings{openai, ollama}, all)
}

func TestRepositorySaveReplacesExistingEntry(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "providers.toml"))

	require.NoError(t, repo.Save(context.Background(), domain.ProviderSettings{Provider: domain.ProviderAnthropic, SecretRef: "legacy/anthropic"}))
	require.NoError(t, repo.Save(context.Background(), domain.ProviderSettings{Provider: domain.ProviderAnthropic, SecretRef: domain.ProviderAnthropic.SecretRef()}))

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "council/anthropic/api_key", all[0].SecretRef)
}

func TestRepositoryReadsHandWrittenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "providers.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"[[providers]]",
		"name = \"google\"",
		"default_model = \"gemini-1.5-pro\"",
		"enabled = true",
		"",
		"[[providers]]",
		"name = \"grok\"",
		"enabled = false",
		"",
	}, "\n")), 0o600))

	repo := newTestRepository(t, path)

	google, err := repo.Get(context.Background(), domain.ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", google.DefaultModel)
	assert.False(t, google.Disabled)

	grok, err := repo.Get(context.Background(), domain.ProviderGrok)
	require.NoError(t, err)
	assert.True(t, grok.Disabled)
}

func TestRepositorySaveCreatesDefaultPathAndEnforcesPermissions(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	repo, err := NewRepository(viper.New())
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), domain.ProviderSettings{Provider: domain.ProviderOpenAI}))

	path := filepath.Join(homeDir, ".council", "providers.toml")
	assert.Equal(t, path, repo.Path())
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRepositoryMissingFileBehaviors(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing", "providers.toml"))

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = repo.Get(context.Background(), domain.ProviderOpenAI)
	require.ErrorIs(t, err, domain.ErrProviderNotFound)
}

func TestRepositorySaveRejectsUnknownProvider(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "providers.toml")
	repo := newTestRepository(t, path)

	err := repo.Save(context.Background(), domain.ProviderSettings{Provider: "mistral"})
	require.ErrorIs(t, err, domain.ErrProviderNotFound)

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestRepositoryListMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "providers.toml")
	require.NoError(t, os.WriteFile(path, []byte("providers = ["), 0o600))

	repo := newTestRepository(t, path)

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode providers file")
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "providers.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Save(ctx, domain.ProviderSettings{Provider: domain.ProviderOpenAI})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRepositoryConcurrentSavesAcrossInstancesPreserveAllProviders(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "providers.toml")
	repoA := newTestRepository(t, path)
	repoB := newTestRepository(t, path)

	const rounds = 20
	start := make(chan struct{})
	errCh := make(chan error, rounds*len(domain.Providers()))
	var wg sync.WaitGroup

	for i, provider := range domain.Providers() {
		repo := repoA
		if i%2 == 1 {
			repo = repoB
		}
		wg.Add(1)
		go func(repo *Repository, provider domain.Provider) {
			defer wg.Done()
			<-start
			for n := 0; n < rounds; n++ {
				errCh <- repo.Save(context.Background(), domain.ProviderSettings{
					Provider:     provider,
					DefaultModel: "model-" + strconv.Itoa(n),
				})
			}
		}(repo, provider)
	}

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	all, err := repoA.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, len(domain.Providers()))
	for _, settings := range all {
		assert.Equal(t, "model-"+strconv.Itoa(rounds-1), settings.DefaultModel)
	}
}

func TestRepositorySaveSerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "providers.toml")
	repo := newTestRepository(t, path)

	require.NoError(t, repo.Save(context.Background(), domain.ProviderSettings{Provider: domain.ProviderOpenAI}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "[[providers]]")
	assert.NotContains(t, string(data), "enabled")
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "providers.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 999\n\nproviders = []\n"), 0o600))

	repo := newTestRepository(t, path)

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported providers schema version")
}
