// Package bootstrap wires configuration, infrastructure and use cases into
// one application object shared by the api, worker and mcp entrypoints.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/legitima/aiact-agent/internal/config"
	"github.com/legitima/aiact-agent/internal/core/ports"
	"github.com/legitima/aiact-agent/internal/core/usecase"
	"github.com/legitima/aiact-agent/internal/infrastructure/classification"
	"github.com/legitima/aiact-agent/internal/infrastructure/extraction"
	"github.com/legitima/aiact-agent/internal/infrastructure/llm/ollama"
	"github.com/legitima/aiact-agent/internal/infrastructure/queue/nats"
	"github.com/legitima/aiact-agent/internal/infrastructure/report/excel"
	"github.com/legitima/aiact-agent/internal/infrastructure/resilience"
	"github.com/legitima/aiact-agent/internal/infrastructure/search/tavily"
	"github.com/legitima/aiact-agent/internal/infrastructure/storage/localfs"
	"github.com/legitima/aiact-agent/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Organizations ports.OrganizationDiscoverer
	Systems       ports.SystemDiscoverer
	Assessor      ports.ComplianceAssessor

	Reports  ports.ReportStorage
	Exporter *excel.Exporter
	Queue    ports.AssessmentQueue

	HTTPMetrics   *metrics.HTTPServerMetrics
	WorkerMetrics *metrics.WorkerMetrics

	closeFn func()
}

// Options selects the per-process pieces. The queue is optional for the mcp
// entrypoint; metrics registries are built per process name.
type Options struct {
	Service   string
	Logger    *slog.Logger
	WithQueue bool
}

func New(cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	taxonomy, err := classification.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}
	classifier := classification.NewClassifier(taxonomy, logger)
	gaps := classification.NewGapGenerator()

	httpMetrics := metrics.NewHTTPServerMetrics(opts.Service)
	workerMetrics := metrics.NewWorkerMetrics(opts.Service)

	extractor := extraction.NewEngine(httpMetrics.NewProbeCounter(opts.Service))
	resolver := extraction.NewResolver(
		extraction.WithBrandDomains(taxonomy.BrandDomains),
		extraction.WithNoiseHosts(taxonomy.NoiseHosts),
	)

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: cfg.RetryMaxAttempts,
		BreakerEnabled:   cfg.BreakerEnabled,
	})

	search := tavily.New(cfg.TavilyAPIKey, executor,
		tavily.WithRateLimit(cfg.TavilyRateLimitRPS, cfg.TavilyRateLimitBurst),
	)
	generator := ollama.NewGenerator(ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, executor))

	reports, err := localfs.New(cfg.ReportDir)
	if err != nil {
		return nil, fmt.Errorf("init report storage: %w", err)
	}

	app := &App{
		Config: cfg,
		Logger: logger,

		Organizations: usecase.NewOrganizationDiscoveryUseCase(search, extractor, resolver, cfg.TavilyMaxResults, logger),
		Systems:       usecase.NewSystemDiscoveryUseCase(search, classifier, gaps, cfg.TavilyMaxResults, logger),
		Assessor:      usecase.NewComplianceAssessmentUseCase(generator, classifier, gaps, logger),

		Reports:  reports,
		Exporter: excel.NewExporter(),

		HTTPMetrics:   httpMetrics,
		WorkerMetrics: workerMetrics,
	}

	if opts.WithQueue {
		queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSRequestedSubject, cfg.NATSCompletedSubject, nats.Options{
			ResilienceExecutor: executor,
			Logger:             logger,
		})
		if err != nil {
			return nil, fmt.Errorf("init assessment queue: %w", err)
		}
		app.Queue = queue
		app.closeFn = queue.Close
	}

	return app, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
