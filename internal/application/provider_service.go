package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
)

var builtinProviders = map[domain.Provider]domain.ProviderSettings{
	domain.ProviderOpenAI: {
		Provider:     domain.ProviderOpenAI,
		BaseURL:      "https://api.openai.com/v1",
		DefaultModel: "gpt-4o",
		Models:       []string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo", "gpt-3.5-turbo"},
	},
	domain.ProviderAnthropic: {
		Provider:     domain.ProviderAnthropic,
		BaseURL:      "https://api.anthropic.com",
		DefaultModel: "claude-sonnet-4-20250514",
		Models:       []string{"claude-sonnet-4-20250514", "claude-opus-4-20250514", "claude-haiku-3-5-20241022"},
	},
	domain.ProviderGoogle: {
		Provider:     domain.ProviderGoogle,
		BaseURL:      "https://generativelanguage.googleapis.com",
		DefaultModel: "gemini-2.0-flash-exp",
		Models:       []string{"gemini-2.0-flash-exp", "gemini-1.5-pro", "gemini-1.5-flash"},
	},
	domain.ProviderGrok: {
		Provider:     domain.ProviderGrok,
		BaseURL:      "https://api.x.ai/v1",
		DefaultModel: "grok-beta",
		Models:       []string{"grok-beta", "grok-vision-beta"},
	},
	domain.ProviderOllama: {
		Provider:     domain.ProviderOllama,
		BaseURL:      "http://localhost:11434",
		DefaultModel: "phi3:mini",
		Models:       []string{"phi3:mini", "llama3.2", "mistral", "llava"},
	},
}

var apiKeyEnv = map[domain.Provider][]string{
	domain.ProviderOpenAI:    {"OPENAI_API_KEY"},
	domain.ProviderAnthropic: {"ANTHROPIC_API_KEY"},
	domain.ProviderGoogle:    {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	domain.ProviderGrok:      {"XAI_API_KEY", "GROK_API_KEY"},
}

type ProviderInfo struct {
	Name            domain.Provider
	Configured      bool
	DefaultModel    string
	AvailableModels []string
	BaseURL         string
}

type ProviderService struct {
	repo      ports.ProviderSettingsRepository
	store     ports.SecretStore
	logger    *slog.Logger
	lookupEnv func(string) (string, bool)
}

var (
	_ ports.CredentialSource = (*ProviderService)(nil)
	_ MemberValidator        = (*ProviderService)(nil)
)

func NewProviderService(repo ports.ProviderSettingsRepository, store ports.SecretStore, logger *slog.Logger) *ProviderService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &ProviderService{
		repo:      repo,
		store:     store,
		logger:    logger,
		lookupEnv: os.LookupEnv,
	}
}

// Settings merges stored overrides over the built-in definition.
func (s *ProviderService) Settings(ctx context.Context, provider domain.Provider) (domain.ProviderSettings, error) {
	builtin, ok := builtinProviders[provider]
	if !ok {
		return domain.ProviderSettings{}, fmt.Errorf("%w: %q", domain.ErrProviderNotFound, provider)
	}

	stored, err := s.repo.Get(ctx, provider)
	if err != nil {
		if errors.Is(err, domain.ErrProviderNotFound) {
			return cloneSettings(builtin), nil
		}
		return domain.ProviderSettings{}, fmt.Errorf("get provider settings: %w", err)
	}

	return mergeSettings(builtin, stored), nil
}

func (s *ProviderService) ListProviders(ctx context.Context) ([]ProviderInfo, error) {
	infos := make([]ProviderInfo, 0, len(builtinProviders))
	for _, provider := range domain.Providers() {
		settings, err := s.Settings(ctx, provider)
		if err != nil {
			return nil, err
		}

		infos = append(infos, ProviderInfo{
			Name:            provider,
			Configured:      s.configured(settings),
			DefaultModel:    settings.DefaultModel,
			AvailableModels: settings.Models,
			BaseURL:         settings.BaseURL,
		})
	}
	return infos, nil
}

func (s *ProviderService) ValidateMember(ctx context.Context, member domain.CouncilMember) error {
	settings, err := s.Settings(ctx, member.Provider)
	if err != nil {
		return err
	}
	if !s.configured(settings) {
		return fmt.Errorf("%w: %s", domain.ErrProviderNotConfigured, member.Provider)
	}
	if strings.TrimSpace(member.Model) == "" {
		return errors.New("model is required")
	}
	if !slices.Contains(settings.Models, member.Model) {
		s.logger.Debug("model not in provider catalog", "provider", member.Provider, "model", member.Model)
	}
	return nil
}

func (s *ProviderService) Credentials(ctx context.Context, provider domain.Provider) (ports.Credentials, error) {
	settings, err := s.Settings(ctx, provider)
	if err != nil {
		return ports.Credentials{}, err
	}
	if settings.Disabled {
		return ports.Credentials{}, fmt.Errorf("%w: %s is disabled", domain.ErrProviderNotConfigured, provider)
	}

	creds := ports.Credentials{BaseURL: settings.BaseURL}
	if !provider.RequiresAPIKey() {
		return creds, nil
	}

	if settings.SecretRef != "" {
		key, err := s.store.Get(ctx, settings.SecretRef)
		if err != nil {
			return ports.Credentials{}, fmt.Errorf("read %s api key: %w", provider, err)
		}
		creds.APIKey = strings.TrimSpace(key)
		return creds, nil
	}

	if key, ok := s.envKey(provider); ok {
		creds.APIKey = key
		return creds, nil
	}

	return ports.Credentials{}, fmt.Errorf("%w: %s has no api key", domain.ErrProviderNotConfigured, provider)
}

func (s *ProviderService) SetAPIKey(ctx context.Context, provider domain.Provider, apiKey string) error {
	if !provider.Known() {
		return fmt.Errorf("%w: %q", domain.ErrProviderNotFound, provider)
	}
	if !provider.RequiresAPIKey() {
		return fmt.Errorf("%s does not use an api key", provider)
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("api key is empty")
	}

	settings, err := s.repo.Get(ctx, provider)
	if err != nil {
		if !errors.Is(err, domain.ErrProviderNotFound) {
			return fmt.Errorf("get provider settings: %w", err)
		}
		settings = domain.ProviderSettings{Provider: provider}
	}
	original := settings
	previousRef := settings.SecretRef
	secretRef := provider.SecretRef()

	if err := s.store.Put(ctx, secretRef, apiKey); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}

	settings.SecretRef = secretRef
	if err := s.repo.Save(ctx, settings); err != nil {
		if rollbackErr := s.store.Delete(ctx, secretRef); rollbackErr != nil {
			return fmt.Errorf("save provider settings and rollback stored key: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save provider settings: %w", err)
	}

	if previousRef == "" || previousRef == secretRef {
		return nil
	}
	if err := s.store.Delete(ctx, previousRef); err != nil {
		var rollbackErr error
		if restoreErr := s.repo.Save(ctx, original); restoreErr != nil {
			rollbackErr = errors.Join(rollbackErr, restoreErr)
		}
		if newKeyDeleteErr := s.store.Delete(ctx, secretRef); newKeyDeleteErr != nil {
			rollbackErr = errors.Join(rollbackErr, newKeyDeleteErr)
		}
		if rollbackErr != nil {
			return fmt.Errorf("delete previous api key and rollback update: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("delete previous api key: %w", err)
	}

	return nil
}

func (s *ProviderService) RemoveAPIKey(ctx context.Context, provider domain.Provider) error {
	settings, err := s.repo.Get(ctx, provider)
	if err != nil {
		if errors.Is(err, domain.ErrProviderNotFound) {
			return fmt.Errorf("%w: %s has no stored api key", domain.ErrProviderNotConfigured, provider)
		}
		return fmt.Errorf("get provider settings: %w", err)
	}
	if settings.SecretRef == "" {
		return fmt.Errorf("%w: %s has no stored api key", domain.ErrProviderNotConfigured, provider)
	}
	original := settings

	settings.SecretRef = ""
	if err := s.repo.Save(ctx, settings); err != nil {
		return fmt.Errorf("save provider settings: %w", err)
	}

	if err := s.store.Delete(ctx, original.SecretRef); err != nil {
		if restoreErr := s.repo.Save(ctx, original); restoreErr != nil {
			return fmt.Errorf("delete api key and restore settings: %w", errors.Join(err, restoreErr))
		}
		return fmt.Errorf("delete api key: %w", err)
	}

	return nil
}

func (s *ProviderService) configured(settings domain.ProviderSettings) bool {
	if settings.Disabled {
		return false
	}
	if !settings.Provider.RequiresAPIKey() {
		return true
	}
	if settings.SecretRef != "" {
		return true
	}
	_, ok := s.envKey(settings.Provider)
	return ok
}

func (s *ProviderService) envKey(provider domain.Provider) (string, bool) {
	for _, name := range apiKeyEnv[provider] {
		if value, ok := s.lookupEnv(name); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

func mergeSettings(builtin, stored domain.ProviderSettings) domain.ProviderSettings {
	merged := cloneSettings(builtin)
	if stored.BaseURL != "" {
		merged.BaseURL = stored.BaseURL
	}
	if stored.DefaultModel != "" {
		merged.DefaultModel = stored.DefaultModel
	}
	for _, model := range stored.Models {
		if !slices.Contains(merged.Models, model) {
			merged.Models = append(merged.Models, model)
		}
	}
	merged.SecretRef = stored.SecretRef
	merged.Disabled = stored.Disabled
	return merged
}

func cloneSettings(settings domain.ProviderSettings) domain.ProviderSettings {
	settings.Models = append([]string(nil), settings.Models...)
	return settings
}
