package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bnema/llm-council/internal/adapters/secrets"
	"github.com/bnema/llm-council/internal/application"
	"github.com/bnema/llm-council/internal/domain"
	"github.com/spf13/viper"
)

const (
	configDir  = ".council"
	configName = "config"
	configType = "toml"
	envPrefix  = "COUNCIL"
	envConfig  = "COUNCIL_CONFIG"

	StoreMemory = "memory"
	StoreSQLite = "sqlite"

	LogText = "text"
	LogJSON = "json"
)

type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Providers  ProvidersConfig
	Secrets    SecretsConfig
	Archetypes ArchetypesConfig
	Engine     EngineConfig
	Limits     domain.Limits
	Pricing    map[string]application.Price
	Log        LogConfig
}

type ServerConfig struct {
	Listen            string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

type StoreConfig struct {
	Driver     string
	SQLitePath string
}

type ProvidersConfig struct {
	Path string
}

type SecretsConfig struct {
	Backend string
	Dir     string
}

type ArchetypesConfig struct {
	Dir string
}

type EngineConfig struct {
	MaxTokens      int
	RequestTimeout time.Duration
	Retry          application.RetryPolicy
}

type LogConfig struct {
	Level  string
	Format string
}

// SetDefaults registers every key so env overrides resolve without a file.
func SetDefaults(v *viper.Viper, home string) {
	base := filepath.Join(home, configDir)
	limits := domain.DefaultLimits()
	retry := application.DefaultRetryPolicy()

	v.SetDefault("server.listen", "127.0.0.1:8765")
	v.SetDefault("server.read_header_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("store.driver", StoreSQLite)
	v.SetDefault("store.sqlite_path", filepath.Join(base, "sessions.db"))
	v.SetDefault("providers.path", filepath.Join(base, "providers.toml"))
	v.SetDefault("secrets.backend", secrets.BackendChain)
	v.SetDefault("secrets.dir", filepath.Join(base, "secrets"))
	v.SetDefault("archetypes.dir", filepath.Join(base, "archetypes"))
	v.SetDefault("engine.max_tokens", application.DefaultMaxTokens)
	v.SetDefault("engine.request_timeout", "120s")
	v.SetDefault("engine.retry.attempts", retry.Attempts)
	v.SetDefault("engine.retry.base_delay", retry.BaseDelay.String())
	v.SetDefault("engine.retry.max_delay", retry.MaxDelay.String())
	v.SetDefault("limits.max_prompt_length", limits.MaxPromptLength)
	v.SetDefault("limits.max_iterations", limits.MaxIterations)
	v.SetDefault("limits.max_members", limits.MaxMembers)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", LogText)
}

// Load reads config.toml from ~/.council, or the file named by COUNCIL_CONFIG,
// then applies COUNCIL_* environment overrides. A missing default file is fine.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	SetDefaults(v, home)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if explicit := strings.TrimSpace(os.Getenv(envConfig)); explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(filepath.Join(home, configDir))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (Config, error) {
	pricing, err := decodePricing(v.GetStringMap("pricing"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		Server: ServerConfig{
			Listen:            v.GetString("server.listen"),
			ReadHeaderTimeout: v.GetDuration("server.read_header_timeout"),
			ShutdownTimeout:   v.GetDuration("server.shutdown_timeout"),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
			SQLitePath: v.GetString("store.sqlite_path"),
		},
		Providers:  ProvidersConfig{Path: v.GetString("providers.path")},
		Secrets:    SecretsConfig{Backend: strings.ToLower(strings.TrimSpace(v.GetString("secrets.backend"))), Dir: v.GetString("secrets.dir")},
		Archetypes: ArchetypesConfig{Dir: v.GetString("archetypes.dir")},
		Engine: EngineConfig{
			MaxTokens:      v.GetInt("engine.max_tokens"),
			RequestTimeout: v.GetDuration("engine.request_timeout"),
			Retry: application.RetryPolicy{
				Attempts:  v.GetInt("engine.retry.attempts"),
				BaseDelay: v.GetDuration("engine.retry.base_delay"),
				MaxDelay:  v.GetDuration("engine.retry.max_delay"),
			},
		},
		Limits: domain.Limits{
			MaxPromptLength: v.GetInt("limits.max_prompt_length"),
			MaxIterations:   v.GetInt("limits.max_iterations"),
			MaxMembers:      v.GetInt("limits.max_members"),
		},
		Pricing: pricing,
		Log: LogConfig{
			Level:  strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
			Format: strings.ToLower(strings.TrimSpace(v.GetString("log.format"))),
		},
	}, nil
}

// decodePricing accepts `"provider:model" = [input_per_1k, output_per_1k]`.
func decodePricing(raw map[string]any) (map[string]application.Price, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	prices := make(map[string]application.Price, len(raw))
	for key, value := range raw {
		pair, ok := value.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("pricing %q: want [input_per_1k, output_per_1k]", key)
		}
		input, err := toFloat(pair[0])
		if err != nil {
			return nil, fmt.Errorf("pricing %q input: %w", key, err)
		}
		output, err := toFloat(pair[1])
		if err != nil {
			return nil, fmt.Errorf("pricing %q output: %w", key, err)
		}
		if input < 0 || output < 0 {
			return nil, fmt.Errorf("pricing %q: prices must not be negative", key)
		}
		prices[key] = application.Price{Input: input, Output: output}
	}
	return prices, nil
}

func toFloat(value any) (float64, error) {
	switch n := value.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("not a number: %v", value)
	}
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			return errors.New("store.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if !validBackend(c.Secrets.Backend) {
		return fmt.Errorf("unknown secrets backend %q", c.Secrets.Backend)
	}

	switch c.Log.Format {
	case LogText, LogJSON:
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	if strings.TrimSpace(c.Server.Listen) == "" {
		return errors.New("server.listen is empty")
	}

	checks := []struct {
		key   string
		value int64
	}{
		{key: "engine.max_tokens", value: int64(c.Engine.MaxTokens)},
		{key: "engine.request_timeout", value: int64(c.Engine.RequestTimeout)},
		{key: "engine.retry.attempts", value: int64(c.Engine.Retry.Attempts)},
		{key: "limits.max_prompt_length", value: int64(c.Limits.MaxPromptLength)},
		{key: "limits.max_iterations", value: int64(c.Limits.MaxIterations)},
		{key: "limits.max_members", value: int64(c.Limits.MaxMembers)},
		{key: "server.read_header_timeout", value: int64(c.Server.ReadHeaderTimeout)},
	}
	for _, check := range checks {
		if check.value <= 0 {
			return fmt.Errorf("%s must be positive", check.key)
		}
	}

	return nil
}

func validBackend(name string) bool {
	return slices.Contains(secrets.Backends(), name)
}
