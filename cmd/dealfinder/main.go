package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SudhakarGollapinni/DealFinder/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	var (
		configPath    string
		listenAddr    string
		tavilyBase    string
		tavilyKey     string
		llmBaseURL    string
		llmModel      string
		llmKey        string
		targetCount   int
		maxCandidates int
		rateLimit     int
		rateWindow    time.Duration
		dbPath        string
		recheck       bool
		verbose       bool
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	flag.StringVar(&listenAddr, "listen", "", "HTTP listen address, e.g. :8080")
	flag.StringVar(&tavilyBase, "tavily.base", "", "Tavily API base URL")
	flag.StringVar(&tavilyKey, "tavily.key", "", "Tavily API key")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", "", "Model name")
	flag.StringVar(&llmKey, "llm.key", "", "API key for OpenAI-compatible server")
	flag.IntVar(&targetCount, "target", 0, "Stop after this many priced products per request")
	flag.IntVar(&maxCandidates, "max.candidates", 0, "Maximum filtered results to process per request")
	flag.IntVar(&rateLimit, "rate.limit", 0, "Requests allowed per rate window per client")
	flag.DurationVar(&rateWindow, "rate.window", 0, "Rate limit window, e.g. 60s")
	flag.StringVar(&dbPath, "db", "", "Path to the subscription database")
	flag.BoolVar(&recheck, "recheck", false, "Enable the periodic price recheck scheduler")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		ListenAddr:     listenAddr,
		TavilyBaseURL:  tavilyBase,
		TavilyAPIKey:   tavilyKey,
		LLMBaseURL:     llmBaseURL,
		LLMModel:       llmModel,
		LLMAPIKey:      llmKey,
		TargetCount:    targetCount,
		MaxCandidates:  maxCandidates,
		RateLimit:      rateLimit,
		RateWindow:     rateWindow,
		DBPath:         dbPath,
		RecheckEnabled: recheck,
		Verbose:        verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config file")
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)

	if err := app.ValidateConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
