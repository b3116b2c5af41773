// Package app wires the deal-finding pipeline together: the Tavily search and
// extract clients, the OpenAI-compatible LLM, the guardrails, the subscription
// store and recheck scheduler, and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/SudhakarGollapinni/DealFinder/internal/classify"
	"github.com/SudhakarGollapinni/DealFinder/internal/extract"
	"github.com/SudhakarGollapinni/DealFinder/internal/guard"
	"github.com/SudhakarGollapinni/DealFinder/internal/llm"
	"github.com/SudhakarGollapinni/DealFinder/internal/notify"
	"github.com/SudhakarGollapinni/DealFinder/internal/recheck"
	"github.com/SudhakarGollapinni/DealFinder/internal/resolve"
	"github.com/SudhakarGollapinni/DealFinder/internal/search"
	"github.com/SudhakarGollapinni/DealFinder/internal/server"
)

const (
	defaultListenAddr = ":8080"
	defaultRateLimit  = 20
	defaultRateWindow = 60 * time.Second
	defaultDBPath     = "data/dealfinder.db"

	shutdownGrace = 10 * time.Second
)

// App owns the long-lived components for one process.
type App struct {
	cfg     Config
	store   *notify.Store
	checker *recheck.Checker
	httpSrv *http.Server
}

// New builds the full component graph from cfg. Callers must Close the
// returned App.
func New(ctx context.Context, cfg Config) (*App, error) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateWindow == 0 {
		cfg.RateWindow = defaultRateWindow
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}

	oaCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		oaCfg.BaseURL = cfg.LLMBaseURL
	}
	oaClient := openai.NewClientWithConfig(oaCfg)
	provider := &llm.OpenAIProvider{Inner: oaClient}

	tavily := &search.Tavily{
		BaseURL: cfg.TavilyBaseURL,
		APIKey:  cfg.TavilyAPIKey,
	}
	extractor := &extract.Tavily{
		BaseURL: cfg.TavilyBaseURL,
		APIKey:  cfg.TavilyAPIKey,
	}

	classifier := &classify.Classifier{Client: provider, Model: cfg.LLMModel}
	resolver := &resolve.Resolver{
		Client:        provider,
		Model:         cfg.LLMModel,
		Extractor:     extractor,
		TargetCount:   cfg.TargetCount,
		MaxCandidates: cfg.MaxCandidates,
	}

	store, err := notify.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open subscription store: %w", err)
	}

	var sender notify.Sender = notify.LogSender{}
	if cfg.SMTPAddr != "" {
		sender = &notify.SMTPSender{
			Addr:     cfg.SMTPAddr,
			From:     cfg.SMTPFrom,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		}
	}

	var checker *recheck.Checker
	if cfg.RecheckEnabled {
		checker = &recheck.Checker{
			Store:    store,
			Provider: tavily,
			Resolver: resolver,
			Sender:   sender,
		}
	}

	srv := &server.Server{
		Provider:       tavily,
		Classifier:     classifier,
		Resolver:       resolver,
		Guard:          &guard.Guard{Moderator: provider},
		Limiter:        guard.NewRateLimiter(cfg.RateLimit, cfg.RateWindow),
		Store:          store,
		Metrics:        server.NewMetrics(prometheus.DefaultRegisterer),
		AllowedOrigins: cfg.AllowedOrigins,
	}

	return &App{
		cfg:   cfg,
		store: store,
		checker: checker,
		httpSrv: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully. The
// recheck scheduler runs for the same lifetime.
func (a *App) Run(ctx context.Context) error {
	if a.checker != nil {
		if err := a.checker.Start(ctx); err != nil {
			return fmt.Errorf("start recheck scheduler: %w", err)
		}
		defer a.checker.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.cfg.ListenAddr).Msg("server listening")
		errCh <- a.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases resources owned by the App.
func (a *App) Close() error {
	return a.store.Close()
}
