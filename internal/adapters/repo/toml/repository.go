package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	providersPathKey    = "providers.path"
	providersFileMode   = 0o600
	providersDirMode    = 0o700
	providersConfigDir  = ".council"
	providersConfigFile = "providers.toml"
	tempFilePattern     = ".providers-*.toml.tmp"
)

type Repository struct {
	providersPath string
	mu            *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.ProviderSettingsRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	providersPath := cfg.GetString(providersPathKey)
	if providersPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		providersPath = filepath.Join(homeDir, providersConfigDir, providersConfigFile)
	}

	providersPath, err := normalizePath(providersPath)
	if err != nil {
		return nil, err
	}

	return &Repository{providersPath: providersPath, mu: lockForPath(providersPath)}, nil
}

func (r *Repository) Path() string {
	return r.providersPath
}

func (r *Repository) Save(ctx context.Context, settings domain.ProviderSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(settings)
	idx := slices.IndexFunc(file.Providers, func(entry providerSchema) bool {
		return entry.Name == encoded.Name
	})
	if idx >= 0 {
		file.Providers[idx] = encoded
	} else {
		file.Providers = append(file.Providers, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) Get(ctx context.Context, provider domain.Provider) (domain.ProviderSettings, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProviderSettings{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.ProviderSettings{}, err
	}

	for _, entry := range file.Providers {
		if entry.Name == string(provider) {
			return fromSchema(entry), nil
		}
	}

	return domain.ProviderSettings{}, fmt.Errorf("%w: %q", domain.ErrProviderNotFound, provider)
}

func (r *Repository) List(ctx context.Context) ([]domain.ProviderSettings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	settings := make([]domain.ProviderSettings, 0, len(file.Providers))
	for _, entry := range file.Providers {
		settings = append(settings, fromSchema(entry))
	}

	return settings, nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.providersPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read providers file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode providers file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve providers path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	dir := filepath.Dir(r.providersPath)
	if err := os.MkdirAll(dir, providersDirMode); err != nil {
		return fmt.Errorf("create providers directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode providers file: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp providers file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp providers file: %w", err)
	}
	if err := tempFile.Chmod(providersFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp providers file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp providers file: %w", err)
	}

	if err := os.Rename(tempName, r.providersPath); err != nil {
		return fmt.Errorf("replace providers file: %w", err)
	}
	cleanup = false

	return nil
}

func toSchema(settings domain.ProviderSettings) providerSchema {
	entry := providerSchema{
		Name:         string(settings.Provider),
		BaseURL:      settings.BaseURL,
		DefaultModel: settings.DefaultModel,
		Models:       slices.Clone(settings.Models),
		SecretRef:    settings.SecretRef,
	}
	if settings.Disabled {
		enabled := false
		entry.Enabled = &enabled
	}
	return entry
}

func fromSchema(entry providerSchema) domain.ProviderSettings {
	return domain.ProviderSettings{
		Provider:     domain.Provider(entry.Name),
		BaseURL:      entry.BaseURL,
		DefaultModel: entry.DefaultModel,
		Models:       slices.Clone(entry.Models),
		SecretRef:    entry.SecretRef,
		Disabled:     entry.Enabled != nil && !*entry.Enabled,
	}
}
