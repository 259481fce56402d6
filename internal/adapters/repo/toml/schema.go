package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int              `toml:"version"`
	Providers []providerSchema `toml:"providers"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported providers schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type providerSchema struct {
	Name         string   `toml:"name"`
	BaseURL      string   `toml:"base_url,omitempty"`
	DefaultModel string   `toml:"default_model,omitempty"`
	Models       []string `toml:"models,omitempty"`
	SecretRef    string   `toml:"secret_ref,omitempty"`
	Enabled      *bool    `toml:"enabled,omitempty"`
}
