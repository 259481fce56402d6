package domain

import (
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
	ProviderGrok      Provider = "grok"
	ProviderOllama    Provider = "ollama"
)

func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderGrok, ProviderOllama}
}

func ParseProvider(raw string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Known() {
		return "", fmt.Errorf("%w: %q", ErrProviderNotFound, raw)
	}
	return p, nil
}

func (p Provider) Known() bool {
	for _, known := range Providers() {
		if p == known {
			return true
		}
	}
	return false
}

// RequiresAPIKey is false for local backends.
func (p Provider) RequiresAPIKey() bool {
	return p != ProviderOllama
}

// SecretRef is the secret-store key holding the provider API key.
func (p Provider) SecretRef() string {
	return "council/" + string(p) + "/api_key"
}

type ProviderSettings struct {
	Provider     Provider
	BaseURL      string
	DefaultModel string
	Models       []string
	SecretRef    string
	Disabled     bool
}

func (s ProviderSettings) Validate() error {
	if !s.Provider.Known() {
		return fmt.Errorf("%w: %q", ErrProviderNotFound, s.Provider)
	}
	return nil
}
