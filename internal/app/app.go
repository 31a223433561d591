package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vcscsvcscs/vitals-tracker/internal/audit"
	"github.com/vcscsvcscs/vitals-tracker/internal/azure"
	"github.com/vcscsvcscs/vitals-tracker/internal/config"
	"github.com/vcscsvcscs/vitals-tracker/internal/gemini"
	"github.com/vcscsvcscs/vitals-tracker/internal/pdf"
	"github.com/vcscsvcscs/vitals-tracker/internal/repository"
	"github.com/vcscsvcscs/vitals-tracker/internal/service"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// NewLogger builds the production JSON logger in production and the
// development console logger otherwise.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Server.Environment == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	if cfg.Logging.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid logging.level: %w", err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zcfg.Build()
}

// App holds the wired components shared by the server and the CLI
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     service.VitalsStore
	Pool      *pgxpool.Pool
	Audit     *audit.Logger
	Vitals    *service.VitalsService
	Dashboard *service.DashboardService
	Options   []service.Option
	// ReportStorage overrides the blob storage built from the configuration
	ReportStorage azure.ReportStorage

	closers []func()
}

// New opens the document store and builds the services that need only the store
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.ValidateStore(); err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Options: []service.Option{service.WithLocation(loc)},
	}
	if cfg.AI.RatePerMinute > 0 {
		burst := cfg.AI.Burst
		if burst < 1 {
			burst = 1
		}
		a.Options = append(a.Options, service.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.AI.RatePerMinute/60), burst)))
	}

	var sink audit.Sink
	switch cfg.Store.Backend {
	case config.StorePostgres:
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid database.url: %w", err)
		}
		if cfg.Database.MaxConns > 0 {
			poolCfg.MaxConns = cfg.Database.MaxConns
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			logger.Error("failed to connect to database", zap.Error(err))
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.Pool = pool
		a.closers = append(a.closers, pool.Close)

		store := repository.NewPostgresStore(pool, cfg.Database.Table, logger)
		if err := store.Migrate(ctx); err != nil {
			a.Close()
			return nil, err
		}
		auditSink := audit.NewPostgresSink(pool, cfg.Database.AuditTable)
		if err := auditSink.Migrate(ctx); err != nil {
			a.Close()
			return nil, err
		}
		a.Store = store
		sink = auditSink
	default:
		a.Store = repository.NewRESTStore(cfg.Store.URL, &http.Client{Timeout: cfg.Store.Timeout}, logger)
	}

	a.Audit = audit.NewLogger(sink, logger)
	a.Vitals = service.NewVitalsService(a.Store, logger, a.Options...)
	a.Dashboard = service.NewDashboardService(a.Store, logger, a.Options...)

	logger.Info("document store ready", zap.String("backend", cfg.Store.Backend))
	return a, nil
}

// Generator builds the configured generative model client
func (a *App) Generator(ctx context.Context) (service.Generator, error) {
	cfg := a.Config
	if err := cfg.ValidateAI(); err != nil {
		return nil, err
	}

	switch cfg.AI.Provider {
	case config.ProviderAzure:
		client, err := azure.NewOpenAIClient(azure.OpenAIConfig{
			Endpoint:    cfg.Azure.OpenAI.Endpoint,
			APIKey:      cfg.Azure.OpenAI.APIKey,
			Deployment:  cfg.Azure.OpenAI.Deployment,
			APIVersion:  cfg.Azure.OpenAI.APIVersion,
			MaxAttempts: cfg.AI.MaxAttempts,
			BaseDelay:   cfg.AI.RetryDelay,
		}, a.Logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:      cfg.Gemini.APIKey,
			Model:       cfg.Gemini.Model,
			BaseURL:     cfg.Gemini.BaseURL,
			MaxAttempts: cfg.AI.MaxAttempts,
			BaseDelay:   cfg.AI.RetryDelay,
		}, a.Logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Assistant builds the assistant service on top of the configured model
func (a *App) Assistant(ctx context.Context) (*service.AssistantService, service.Generator, error) {
	ai, err := a.Generator(ctx)
	if err != nil {
		return nil, nil, err
	}
	return service.NewAssistantService(a.Store, ai, a.Logger, a.Options...), ai, nil
}

// Reports builds the report service. Without storage credentials reports are disabled.
func (a *App) Reports() (*service.ReportService, error) {
	storage := a.ReportStorage
	if storage == nil && a.Config.ReportsEnabled() {
		st := a.Config.Azure.Storage
		client, err := azure.NewBlobStorageClient(azure.BlobConfig{
			AccountName: st.AccountName,
			AccountKey:  st.AccountKey,
			Container:   st.Container,
			ServiceURL:  st.ServiceURL,
		}, a.Logger)
		if err != nil {
			return nil, err
		}
		storage = client
	}
	return service.NewReportService(a.Store, storage, pdf.NewPDFGenerator(a.Logger), a.Logger, a.Options...), nil
}

// Close releases the store connections
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
