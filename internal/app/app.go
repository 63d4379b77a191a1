package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"VergeDigest/internal/config"
	"VergeDigest/internal/extractor"
	"VergeDigest/internal/infrastructure/httpapi"
	"VergeDigest/internal/infrastructure/llm"
	"VergeDigest/internal/infrastructure/newsapi"
	"VergeDigest/internal/infrastructure/parser"
	"VergeDigest/internal/infrastructure/scheduler"
	"VergeDigest/internal/logging"
	"VergeDigest/internal/ports"
	"VergeDigest/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	Digest *usecase.Digest
}

// New builds the digest with its news, extraction and summarization adapters.
// A missing summarizer key is not fatal: headlines still work.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	headlines, err := newsapi.NewClient(cfg.NewsAPI, nil, baseLogger.With("component", "newsapi"))
	if err != nil {
		return nil, err
	}

	fetcher, err := NewExtractor(cfg.Extractor, baseLogger)
	if err != nil {
		return nil, err
	}

	var generator ports.TextGenerator
	if cfg.Summarizer.APIKey != "" {
		generator, err = llm.New(cfg.Summarizer, nil)
		if err != nil {
			return nil, err
		}
	} else {
		baseLogger.Warn("summarizer api key missing, summaries disabled", "provider", cfg.Summarizer.Provider)
	}

	digest := usecase.NewDigest(usecase.DigestDeps{
		Headlines: headlines,
		Extractor: fetcher,
		Generator: generator,
		Prompt:    cfg.Summarizer.Prompt,
		CacheTTL:  cfg.Cache.TTLDuration(),
		Logger:    baseLogger.With("component", "digest"),
	})

	return &Application{cfg: cfg, logger: baseLogger, Digest: digest}, nil
}

// Serve runs the HTTP API and the headline refresher until ctx is canceled.
func (a *Application) Serve(ctx context.Context) error {
	refresher := usecase.NewScheduler(
		scheduler.NewTickerScheduler(a.Digest.RefreshInterval(), true),
		a.Digest,
	)
	if err := refresher.Start(ctx); err != nil {
		return fmt.Errorf("start refresher: %w", err)
	}
	defer func() {
		if err := refresher.Stop(context.Background()); err != nil {
			a.logger.Warn("stop refresher", "error", err)
		}
	}()

	router := httpapi.NewRouter(a.Digest, a.logger.With("component", "http"))
	return httpapi.NewServer(a.cfg.Server.Addr, router, a.logger).Run(ctx)
}

// NewExtractor builds the article fetcher with the configured strategy.
func NewExtractor(cfg config.ExtractorConfig, logger *slog.Logger) (*parser.Fetcher, error) {
	strategy, err := newStrategy(cfg)
	if err != nil {
		return nil, err
	}
	return parser.NewFetcher(
		&http.Client{Timeout: cfg.RequestTimeout()},
		strategy,
		cfg.UserAgent,
		logger.With("component", "extractor"),
	), nil
}

func newStrategy(cfg config.ExtractorConfig) (extractor.Strategy, error) {
	paragraphs := parser.NewParagraphStrategy()
	if cfg.LeadInParagraphs != nil {
		paragraphs.LeadInParagraphs = *cfg.LeadInParagraphs
	}
	if cfg.BoilerplateMarker != "" {
		paragraphs.BoilerplateMarker = cfg.BoilerplateMarker
	}

	registry := extractor.NewRegistry()
	registry.Register(paragraphs)
	registry.Register(parser.ReadabilityStrategy{})

	name := cfg.Strategy
	if name == "" {
		name = parser.ParagraphsStrategyName
	}
	return registry.Resolve(name)
}
