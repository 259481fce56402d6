package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bnema/llm-council/internal/application"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path string, lines ...string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(envConfig, "")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8765", cfg.Server.Listen)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, filepath.Join(home, ".council", "sessions.db"), cfg.Store.SQLitePath)
	assert.Equal(t, filepath.Join(home, ".council", "providers.toml"), cfg.Providers.Path)
	assert.Equal(t, "chain", cfg.Secrets.Backend)
	assert.Equal(t, filepath.Join(home, ".council", "secrets"), cfg.Secrets.Dir)
	assert.Equal(t, filepath.Join(home, ".council", "archetypes"), cfg.Archetypes.Dir)
	assert.Equal(t, 4000, cfg.Engine.MaxTokens)
	assert.Equal(t, 120*time.Second, cfg.Engine.RequestTimeout)
	assert.Equal(t, application.DefaultRetryPolicy(), cfg.Engine.Retry)
	assert.Equal(t, 50000, cfg.Limits.MaxPromptLength)
	assert.Equal(t, 10, cfg.Limits.MaxIterations)
	assert.Equal(t, 10, cfg.Limits.MaxMembers)
	assert.Empty(t, cfg.Pricing)
	assert.Equal(t, LogConfig{Level: "info", Format: LogText}, cfg.Log)
}

func TestLoadReadsConfigFileAndEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(envConfig, "")
	t.Setenv("COUNCIL_LOG_LEVEL", "debug")
	t.Setenv("COUNCIL_ENGINE_RETRY_ATTEMPTS", "5")

	writeConfig(t, filepath.Join(home, ".council", "config.toml"),
		"[server]",
		`listen = "0.0.0.0:9000"`,
		"",
		"[store]",
		`driver = "memory"`,
		`sqlite_path = "/var/lib/council/sessions.db"`,
		"",
		"[log]",
		`level = "warn"`,
		`format = "json"`,
		"",
		"[pricing]",
		`"openai:gpt-4o" = [3.0, 12]`,
		`"ollama:llama3.2" = [0, 0]`,
	)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Listen)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "/var/lib/council/sessions.db", cfg.Store.SQLitePath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, LogJSON, cfg.Log.Format)
	assert.Equal(t, 5, cfg.Engine.Retry.Attempts)
	assert.Equal(t, map[string]application.Price{
		"openai:gpt-4o":   {Input: 3.0, Output: 12},
		"ollama:llama3.2": {Input: 0, Output: 0},
	}, cfg.Pricing)
}

func TestLoadExplicitConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "council.toml")
	writeConfig(t, path, "[archetypes]", `dir = "/etc/council/archetypes"`)
	t.Setenv(envConfig, path)

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "/etc/council/archetypes", cfg.Archetypes.Dir)
}

func TestLoadMissingExplicitConfigFileFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(envConfig, filepath.Join(t.TempDir(), "absent.toml"))

	_, err := Load(viper.New())
	require.Error(t, err)
	assert.ErrorContains(t, err, "read config file")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "store driver", env: map[string]string{"COUNCIL_STORE_DRIVER": "postgres"}, wantErr: `unknown store driver "postgres"`},
		{name: "secrets backend", env: map[string]string{"COUNCIL_SECRETS_BACKEND": "vault"}, wantErr: `unknown secrets backend "vault"`},
		{name: "log format", env: map[string]string{"COUNCIL_LOG_FORMAT": "xml"}, wantErr: `unknown log format "xml"`},
		{name: "limits", env: map[string]string{"COUNCIL_LIMITS_MAX_MEMBERS": "0"}, wantErr: "limits.max_members must be positive"},
		{name: "max tokens", env: map[string]string{"COUNCIL_ENGINE_MAX_TOKENS": "-1"}, wantErr: "engine.max_tokens must be positive"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			t.Setenv(envConfig, "")
			for key, value := range tc.env {
				t.Setenv(key, value)
			}

			_, err := Load(viper.New())
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestDecodePricingRejectsMalformedEntries(t *testing.T) {
	t.Parallel()

	_, err := decodePricing(map[string]any{"openai:gpt-4o": "cheap"})
	require.ErrorContains(t, err, "want [input_per_1k, output_per_1k]")

	_, err = decodePricing(map[string]any{"openai:gpt-4o": []any{1.0, "x"}})
	require.ErrorContains(t, err, `pricing "openai:gpt-4o" output`)

	_, err = decodePricing(map[string]any{"openai:gpt-4o": []any{-1.0, 2.0}})
	require.ErrorContains(t, err, "must not be negative")
}
