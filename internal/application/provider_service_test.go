package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
	"github.com/bnema/llm-council/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestProviderService(t *testing.T, env map[string]string) (*ProviderService, *mocks.MockProviderSettingsRepository, *mocks.MockSecretStore) {
	t.Helper()

	repo := mocks.NewMockProviderSettingsRepository(t)
	store := mocks.NewMockSecretStore(t)
	svc := NewProviderService(repo, store, nil)
	svc.lookupEnv = func(name string) (string, bool) {
		value, ok := env[name]
		return value, ok
	}
	return svc, repo, store
}

func TestProviderServiceSettingsMergesStoredOverrides(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestProviderService(t, nil)
	repo.EXPECT().Get(mockAnyContext(), domain.ProviderOllama).Return(domain.ProviderSettings{
		Provider:     domain.ProviderOllama,
		BaseURL:      "http://gpu-box:11434",
		DefaultModel: "qwen2.5",
		Models:       []string{"qwen2.5", "mistral"},
	}, nil)

	settings, err := svc.Settings(context.Background(), domain.ProviderOllama)
	require.NoError(t, err)

	assert.Equal(t, "http://gpu-box:11434", settings.BaseURL)
	assert.Equal(t, "qwen2.5", settings.DefaultModel)
	assert.Equal(t, []string{"phi3:mini", "llama3.2", "mistral", "llava", "qwen2.5"}, settings.Models)
	assert.Equal(t, []string{"phi3:mini", "llama3.2", "mistral", "llava"}, builtinProviders[domain.ProviderOllama].Models)
}

func TestProviderServiceSettingsRejectsUnknownProvider(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestProviderService(t, nil)

	_, err := svc.Settings(context.Background(), domain.Provider("mistral"))
	require.ErrorIs(t, err, domain.ErrProviderNotFound)
}

func TestProviderServiceListProvidersReportsConfiguration(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestProviderService(t, map[string]string{"GEMINI_API_KEY": "g-key", "XAI_API_KEY": "   "})
	repo.EXPECT().Get(mockAnyContext(), domain.ProviderOpenAI).Return(domain.ProviderSettings{Provider: domain.ProviderOpenAI, SecretRef: "council/openai/api_key"}, nil)
	repo.EXPECT().Get(mockAnyContext(), domain.ProviderAnthropic).Return(domain.ProviderSettings{Provider: domain.ProviderAnthropic, SecretRef: "council/anthropic/api_key", Disabled: true}, nil)
	repo.EXPECT().Get(mockAnyContext(), domain.ProviderGoogle).Return(domain.ProviderSettings{}, domain.ErrProviderNotFound)
	repo.EXPECT().Get(mockAnyContext(), domain.ProviderGrok).Return(domain.ProviderSettings{}, domain.ErrProviderNotFound)
	repo.EXPECT().Get(mockAnyContext(), domain.ProviderOllama).Return(domain.ProviderSettings{}, domain.ErrProviderNotFound)

	infos, err := svc.ListProviders(context.Background())
	require.NoError(t, err)

	configured := map[domain.Provider]bool{}
	for _, info := range infos {
		configured[info.Name] = info.Configured
	}
	assert.Equal(t, map[domain.Provider]bool{
		domain.ProviderOpenAI:    true,
		domain.ProviderAnthropic: false,
		domain.ProviderGoogle:    true,
		domain.ProviderGrok:      false,
		domain.ProviderOllama:    true,
	}, configured)
	assert.Equal(t, domain.ProviderOpenAI, infos[0].Name)
	assert.Equal(t, "gpt-4o", infos[0].DefaultModel)
}

func TestProviderServiceValidateMember(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestProviderService(t, map[string]string{"OPENAI_API_KEY": "sk-env"})
	repo.EXPECT().Get(mockAnyContext(), domain.ProviderOpenAI).Return(domain.ProviderSettings{}, domain.ErrProviderNotFound)
	repo.EXPECT().Get(mockAnyContext(), domain.ProviderAnthropic).Return(domain.ProviderSettings{}, domain.ErrProviderNotFound)

	require.NoError(t, svc.ValidateMember(context.Background(), domain.CouncilMember{ID: "a", Provider: domain.ProviderOpenAI, Model: "gpt-4.1-preview"}))

	err := svc.ValidateMember(context.Background(), domain.CouncilMember{ID: "b", Provider: domain.ProviderAnthropic, Model: "claude-sonnet-4-20250514"})
	require.ErrorIs(t, err, domain.ErrProviderNotConfigured)
}

func TestProviderServiceCredentials(t *testing.T) {
	t.Parallel()

	t.Run("stored key wins over env", func(t *testing.T) {
		t.Parallel()

		svc, repo, store := newTestProviderService(t, map[string]string{"ANTHROPIC_API_KEY": "env-key"})
		repo.EXPECT().Get(mockAnyContext(), domain.ProviderAnthropic).Return(domain.ProviderSettings{Provider: domain.ProviderAnthropic, SecretRef: "council/anthropic/api_key"}, nil)
		store.EXPECT().Get(mockAnyContext(), "council/anthropic/api_key").Return(" stored-key\n", nil)

		creds, err := svc.Credentials(context.Background(), domain.ProviderAnthropic)
		require.NoError(t, err)
		assert.Equal(t, ports.Credentials{APIKey: "stored-key", BaseURL: "https://api.anthropic.com"}, creds)
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Parallel()

		svc, repo, _ := newTestProviderService(t, map[string]string{"GROK_API_KEY": "xai-key"})
		repo.EXPECT().Get(mockAnyContext(), domain.ProviderGrok).Return(domain.ProviderSettings{}, domain.ErrProviderNotFound)

		creds, err := svc.Credentials(context.Background(), domain.ProviderGrok)
		require.NoError(t, err)
		assert.Equal(t, ports.Credentials{APIKey: "xai-key", BaseURL: "https://api.x.ai/v1"}, creds)
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		t.Parallel()

		svc, repo, _ := newTestProviderService(t, nil)
		repo.EXPECT().Get(mockAnyContext(), domain.ProviderOllama).Return(domain.ProviderSettings{}, domain.ErrProviderNotFound)

		creds, err := svc.Credentials(context.Background(), domain.ProviderOllama)
		require.NoError(t, err)
		assert.Equal(t, ports.Credentials{BaseURL: "http://localhost:11434"}, creds)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		svc, repo, _ := newTestProviderService(t, nil)
		repo.EXPECT().Get(mockAnyContext(), domain.ProviderOpenAI).Return(domain.ProviderSettings{}, domain.ErrProviderNotFound)

		_, err := svc.Credentials(context.Background(), domain.ProviderOpenAI)
		require.ErrorIs(t, err, domain.ErrProviderNotConfigured)
	})

	t.Run("secret store failure", func(t *testing.T) {
		t.Parallel()

		svc, repo, store := newTestProviderService(t, nil)
		repo.EXPECT().Get(mockAnyContext(), domain.ProviderOpenAI).Return(domain.ProviderSettings{Provider: domain.ProviderOpenAI, SecretRef: "council/openai/api_key"}, nil)
		store.EXPECT().Get(mockAnyContext(), "council/openai/api_key").Return("", domain.ErrSecretNotFound)

		_, err := svc.Credentials(context.Background(), domain.ProviderOpenAI)
		require.ErrorIs(t, err, domain.ErrSecretNotFound)
	})
}

func TestProviderServiceSetAPIKeyStoresSecretAndSavesSettings(t *testing.T) {
	t.Parallel()

	svc, repo, store := newTestProviderService(t, nil)
	repo.EXPECT().Get(mockAnyContext(), domain.ProviderOpenAI).Return(domain.ProviderSettings{}, domain.ErrProviderNotFound)
	store.EXPECT().Put(mockAnyContext(), "council/openai/api_key", "sk-new").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), domain.ProviderSettings{Provider: domain.ProviderOpenAI, SecretRef: "council/openai/api_key"}).Return(nil)

	require.NoError(t, svc.SetAPIKey(context.Background(), domain.ProviderOpenAI, "  sk-new  "))
}

func TestProviderServiceSetAPIKeyRollsBackSecretWhenSaveFails(t *testing.T) {
	t.Parallel()

	svc, repo, store := newTestProviderService(t, nil)
	saveErr := errors.New("disk full")
	repo.EXPECT().Get(mockAnyContext(), domain.ProviderGoogle).Return(domain.ProviderSettings{Provider: domain.ProviderGoogle, BaseURL: "https://proxy"}, nil)
	store.EXPECT().Put(mockAnyContext(), "council/google/api_key", "g-key").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), mock.Anything).Return(saveErr)
	store.EXPECT().Delete(mockAnyContext(), "council/google/api_key").Return(nil)

	err := svc.SetAPIKey(context.Background(), domain.ProviderGoogle, "g-key")
	require.ErrorIs(t, err, saveErr)
	assert.Contains(t, err.Error(), "save provider settings")
}

func TestProviderServiceSetAPIKeyReplacesLegacySecretRef(t *testing.T) {
	t.Parallel()

	svc, repo, store := newTestProviderService(t, nil)
	repo.EXPECT().Get(mockAnyContext(), domain.ProviderGrok).Return(domain.ProviderSettings{Provider: domain.ProviderGrok, SecretRef: "legacy/grok"}, nil)
	store.EXPECT().Put(mockAnyContext(), "council/grok/api_key", "xai").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), domain.ProviderSettings{Provider: domain.ProviderGrok, SecretRef: "council/grok/api_key"}).Return(nil)
	store.EXPECT().Delete(mockAnyContext(), "legacy/grok").Return(nil)

	require.NoError(t, svc.SetAPIKey(context.Background(), domain.ProviderGrok, "xai"))
}

func TestProviderServiceSetAPIKeyValidatesInput(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestProviderService(t, nil)

	require.ErrorIs(t, svc.SetAPIKey(context.Background(), domain.Provider("nope"), "k"), domain.ErrProviderNotFound)
	require.EqualError(t, svc.SetAPIKey(context.Background(), domain.ProviderOllama, "k"), "ollama does not use an api key")
	require.EqualError(t, svc.SetAPIKey(context.Background(), domain.ProviderOpenAI, "   "), "api key is empty")
}

func TestProviderServiceRemoveAPIKey(t *testing.T) {
	t.Parallel()

	t.Run("deletes stored key", func(t *testing.T) {
		t.Parallel()

		svc, repo, store := newTestProviderService(t, nil)
		repo.EXPECT().Get(mockAnyContext(), domain.ProviderOpenAI).Return(domain.ProviderSettings{Provider: domain.ProviderOpenAI, SecretRef: "council/openai/api_key"}, nil)
		repo.EXPECT().Save(mockAnyContext(), domain.ProviderSettings{Provider: domain.ProviderOpenAI}).Return(nil)
		store.EXPECT().Delete(mockAnyContext(), "council/openai/api_key").Return(nil)

		require.NoError(t, svc.RemoveAPIKey(context.Background(), domain.ProviderOpenAI))
	})

	t.Run("restores settings when delete fails", func(t *testing.T) {
		t.Parallel()

		svc, repo, store := newTestProviderService(t, nil)
		stored := domain.ProviderSettings{Provider: domain.ProviderOpenAI, SecretRef: "council/openai/api_key"}
		deleteErr := errors.New("pass exited 1")
		repo.EXPECT().Get(mockAnyContext(), domain.ProviderOpenAI).Return(stored, nil)
		repo.EXPECT().Save(mockAnyContext(), domain.ProviderSettings{Provider: domain.ProviderOpenAI}).Return(nil).Once()
		store.EXPECT().Delete(mockAnyContext(), "council/openai/api_key").Return(deleteErr)
		repo.EXPECT().Save(mockAnyContext(), stored).Return(nil).Once()

		err := svc.RemoveAPIKey(context.Background(), domain.ProviderOpenAI)
		require.ErrorIs(t, err, deleteErr)
	})

	t.Run("nothing stored", func(t *testing.T) {
		t.Parallel()

		svc, repo, _ := newTestProviderService(t, nil)
		repo.EXPECT().Get(mockAnyContext(), domain.ProviderAnthropic).Return(domain.ProviderSettings{}, domain.ErrProviderNotFound)

		require.ErrorIs(t, svc.RemoveAPIKey(context.Background(), domain.ProviderAnthropic), domain.ErrProviderNotConfigured)
	})
}

func mockAnyContext() interface{} {
	return mock.Anything
}
