package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/forkful/forkful/internal/ai"
	"github.com/forkful/forkful/internal/cache"
	"github.com/forkful/forkful/internal/categorize"
	"github.com/forkful/forkful/internal/config"
	"github.com/forkful/forkful/internal/fetch"
	"github.com/forkful/forkful/internal/httpapi"
	"github.com/forkful/forkful/internal/ingredient"
	"github.com/forkful/forkful/internal/llm"
	"github.com/forkful/forkful/internal/pipeline"
	"github.com/forkful/forkful/internal/scrape"
	"github.com/forkful/forkful/internal/source"
	"github.com/forkful/forkful/internal/structured"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var verbose bool
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var pageCache *cache.PageCache
	var responseCache *cache.ResponseCache
	if cfg.Cache.Dir != "" {
		pageCache = &cache.PageCache{Dir: cfg.Cache.Dir}
		responseCache = &cache.ResponseCache{Dir: cfg.Cache.Dir}
		if removed, err := cache.PurgePagesByAge(cfg.Cache.Dir, cfg.Cache.MaxAge); err == nil && removed > 0 {
			log.Info().Int("removed", removed).Msg("purged expired page cache entries")
		}
		if removed, err := cache.PurgeResponsesByAge(cfg.Cache.Dir, cfg.Cache.MaxAge); err == nil && removed > 0 {
			log.Info().Int("removed", removed).Msg("purged expired response cache entries")
		}
	}

	aiExtractor := &ai.Extractor{
		Model:            cfg.AI.Model,
		MaxContentLength: cfg.AI.MaxContentLength,
		Temperature:      cfg.AI.Temperature,
		MaxTokens:        cfg.AI.MaxTokens,
		Cache:            responseCache,
	}
	// Keep the interface field nil when no provider exists so Available()
	// reads false; a typed nil provider would defeat that check.
	if provider := llm.New(cfg.AI.BaseURL, cfg.AI.APIKey); provider != nil {
		aiExtractor.Client = provider
	}
	if aiExtractor.Available() {
		log.Info().Str("model", cfg.AI.Model).Msg("AI extraction enabled")
	} else {
		log.Warn().Msg("AI extraction disabled: no API key configured (set FORKFUL_AI_API_KEY)")
	}

	categorizer := &categorize.Categorizer{
		Client:      aiExtractor.Client,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
	}
	if categorizer.Available() {
		log.Info().Str("model", cfg.AI.Model).Msg("AI categorization enabled")
	}

	orchestrator := &pipeline.Orchestrator{
		Fetcher: &fetch.Client{
			UserAgent:   cfg.HTTP.UserAgent,
			Timeout:     cfg.HTTP.Timeout,
			Cache:       pageCache,
			CacheMaxAge: cfg.Cache.MaxAge,
		},
		Site:        &scrape.Extractor{},
		Structured:  &structured.Extractor{},
		AI:          aiExtractor,
		Sources:     source.NewResolver(),
		Structurer:  ingredient.NewStructurer(),
		Categorizer: categorizer,
		AIEnabled:   aiExtractor.Available(),
	}

	handler := httpapi.NewHandler(orchestrator, categorizer, aiExtractor.Available(), cfg.AI.Model)
	router := httpapi.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Str("environment", cfg.Server.Environment).Msg("server listening")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
