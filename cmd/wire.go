package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	yamlcatalog "github.com/bnema/llm-council/internal/adapters/catalog/yaml"
	"github.com/bnema/llm-council/internal/adapters/files"
	"github.com/bnema/llm-council/internal/adapters/providers"
	sessionrender "github.com/bnema/llm-council/internal/adapters/render/session"
	tomlrepo "github.com/bnema/llm-council/internal/adapters/repo/toml"
	"github.com/bnema/llm-council/internal/adapters/secrets"
	memstore "github.com/bnema/llm-council/internal/adapters/store/memory"
	sqlitestore "github.com/bnema/llm-council/internal/adapters/store/sqlite"
	"github.com/bnema/llm-council/internal/application"
	"github.com/bnema/llm-council/internal/config"
	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/logging"
	"github.com/bnema/llm-council/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	config       config.Config
	logger       *slog.Logger
	providers    *application.ProviderService
	archetypes   *application.ArchetypeCatalog
	templates    *application.TemplateService
	orchestrator *application.Orchestrator
	files        files.Ingestor
	renderer     func(domain.SessionState, sessionrender.RenderOptions) (string, error)
	closers      []func() error
}

func wireApp() (*app, error) {
	v := viper.New()
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	repo, err := tomlrepo.NewRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire provider repository: %w", err)
	}

	secretStore, err := secrets.Open(cfg.Secrets.Backend, cfg.Secrets.Dir)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	extras, err := yamlcatalog.LoadDir(cfg.Archetypes.Dir)
	if err != nil {
		return nil, fmt.Errorf("wire archetype catalog: %w", err)
	}
	archetypes := application.NewArchetypeCatalog(extras...)

	store, templateStore, closeStore, err := openStores(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}

	providerService := application.NewProviderService(repo, secretStore, logger)
	gateway := providers.NewRouter(providerService, providers.DefaultClients(http.DefaultClient, cfg.Engine.RequestTimeout))

	orchestrator := application.NewOrchestrator(gateway, store,
		application.WithCostAccountant(application.NewCostAccountant(cfg.Pricing)),
		application.WithRetryPolicy(cfg.Engine.Retry),
		application.WithLogger(logger),
		application.WithArchetypes(archetypes),
		application.WithMemberValidator(providerService),
		application.WithLimits(cfg.Limits),
		application.WithMaxTokens(cfg.Engine.MaxTokens),
	)

	return &app{
		config:       cfg,
		logger:       logger,
		providers:    providerService,
		archetypes:   archetypes,
		templates:    application.NewTemplateService(templateStore, cfg.Limits, nil),
		orchestrator: orchestrator,
		files:        files.Ingestor{},
		renderer:     sessionrender.Render,
		closers:      []func() error{closeStore},
	}, nil
}

// openStores returns the session and template stores for cfg. Both share
// one database under the sqlite driver.
func openStores(cfg config.StoreConfig) (ports.SessionStore, ports.TemplateStore, func() error, error) {
	switch cfg.Driver {
	case config.StoreSQLite:
		store, err := sqlitestore.Open(context.Background(), cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store.Templates(), store.Close, nil
	default:
		return memstore.NewStore(), memstore.NewTemplateStore(), func() error { return nil }, nil
	}
}

func (a *app) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func renderOptions(mergesOnly bool) sessionrender.RenderOptions {
	return sessionrender.RenderOptions{Width: 100, MergesOnly: mergesOnly}
}
