package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tiagocrz/deNoise/internal/adapters/driven/config/file"
	geminiembed "github.com/tiagocrz/deNoise/internal/adapters/driven/embedding/gemini"
	geminillm "github.com/tiagocrz/deNoise/internal/adapters/driven/llm/gemini"
	"github.com/tiagocrz/deNoise/internal/adapters/driven/storage/memory"
	"github.com/tiagocrz/deNoise/internal/adapters/driven/storage/sqlite"
	"github.com/tiagocrz/deNoise/internal/adapters/driven/tts/elevenlabs"
	"github.com/tiagocrz/deNoise/internal/adapters/driving/cli"
	"github.com/tiagocrz/deNoise/internal/core/ports/driven"
	"github.com/tiagocrz/deNoise/internal/core/services"
	"github.com/tiagocrz/deNoise/internal/extractors"
	"github.com/tiagocrz/deNoise/internal/extractors/morningbrew"
	"github.com/tiagocrz/deNoise/internal/extractors/startupportugal"
	"github.com/tiagocrz/deNoise/internal/extractors/tldr"
	"github.com/tiagocrz/deNoise/internal/fetchers/gmail"
	"github.com/tiagocrz/deNoise/internal/fetchers/rss"
	"github.com/tiagocrz/deNoise/internal/fetchers/websearch"
	"github.com/tiagocrz/deNoise/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}

	articles, vectors, profiles, closeStores, err := buildStores(cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	svcs := cli.Services{
		Profiles: services.NewProfileService(profiles),
	}

	// Everything past profile management needs the embedding model, so
	// the rest of the graph is only wired when a Gemini key is set.
	if apiKey := cfg.GetString(driven.ConfigGeminiAPIKey); apiKey != "" {
		embedder, err := geminiembed.NewEmbeddingService(geminiembed.Config{
			APIKey:     apiKey,
			Dimensions: cfg.GetInt(driven.ConfigEmbeddingDimensions),
		})
		if err != nil {
			return fmt.Errorf("configure embedding service: %w", err)
		}
		defer embedder.Close()

		retrieval := services.NewRetrievalService(embedder, vectors)
		search := buildSearch(cfg)

		registry := extractors.NewRegistry()
		registry.Register(tldr.New())
		registry.Register(morningbrew.New())
		registry.Register(startupportugal.New())

		senders := cfg.GetStringSlice(driven.ConfigNewsletterSenders)
		if len(senders) == 0 {
			senders = registry.Senders()
		}

		svcs.Ingest = services.NewIngestService(
			buildMailSource(cfg), search, rss.New(), registry,
			articles, vectors, embedder, retrieval, services.IngestConfig{
				NewsletterSenders: senders,
				SearchDomains:     cfg.GetStringSlice(driven.ConfigSearchDomains),
				FeedURLs:          cfg.GetStringSlice(driven.ConfigFeedURLs),
				LookbackDays:      cfg.GetInt(driven.ConfigLookbackDays),
				SundaySkipSenders: []string{morningbrew.Sender},
			})

		svcs.Agents = services.NewAgentService(
			buildLLM(apiKey),
			buildSpeech(cfg),
			retrieval,
			search,
			profiles,
			prompts,
			services.NewSessionStore(cfg.GetInt(driven.ConfigSessionMaxTurns)),
		)
	} else {
		logger.Warn("main: gemini.api_key not set in %s, ingest and generation disabled", cfg.Path())
	}

	cli.SetVersion(version)
	cli.SetServices(svcs)

	return cli.Execute()
}

// buildStores selects the storage backend. The literal ":memory:" data
// dir runs everything in process memory; anything else opens SQLite.
func buildStores(cfg driven.ConfigStore) (driven.ArticleStore, driven.VectorStore, driven.ProfileStore, func(), error) {
	dataDir := cfg.GetString(driven.ConfigDataDir)
	if dataDir == ":memory:" {
		return memory.NewArticleStore(), memory.NewVectorStore(), memory.NewProfileStore(), func() {}, nil
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("open storage: %w", err)
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close storage: %v", err)
		}
	}
	return store.ArticleStore(), store.VectorStore(), store.ProfileStore(), closeStore, nil
}

func buildMailSource(cfg driven.ConfigStore) driven.MailSource {
	clientID := cfg.GetString(driven.ConfigGmailClientID)
	clientSecret := cfg.GetString(driven.ConfigGmailClientSecret)
	refreshToken := cfg.GetString(driven.ConfigGmailRefreshToken)
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		logger.Debug("main: gmail credentials not configured, newsletter ingest disabled")
		return nil
	}

	ctx := context.Background()
	ts := gmail.StaticTokenSource(ctx, clientID, clientSecret, refreshToken)

	var opts []gmail.Option
	if label := cfg.GetString(driven.ConfigGmailLabel); label != "" {
		opts = append(opts, gmail.WithLabel(label))
	}

	fetcher, err := gmail.New(ctx, ts, opts...)
	if err != nil {
		logger.Warn("main: gmail client setup failed, newsletter ingest disabled: %v", err)
		return nil
	}
	return fetcher
}

func buildSearch(cfg driven.ConfigStore) driven.ArticleSearch {
	apiKey := cfg.GetString(driven.ConfigTavilyAPIKey)
	if apiKey == "" {
		logger.Debug("main: tavily key not configured, web search disabled")
		return nil
	}

	client, err := websearch.New(websearch.Config{APIKey: apiKey})
	if err != nil {
		logger.Warn("main: web search setup failed: %v", err)
		return nil
	}
	return client
}

func buildLLM(apiKey string) driven.LLMService {
	llm, err := geminillm.NewLLMService(geminillm.Config{APIKey: apiKey})
	if err != nil {
		logger.Warn("main: LLM setup failed: %v", err)
		return nil
	}
	return llm
}

func buildSpeech(cfg driven.ConfigStore) driven.SpeechService {
	apiKey := cfg.GetString(driven.ConfigElevenLabsAPIKey)
	if apiKey == "" {
		return nil
	}

	speech, err := elevenlabs.NewSpeechService(elevenlabs.Config{APIKey: apiKey})
	if err != nil {
		logger.Warn("main: speech setup failed: %v", err)
		return nil
	}
	return speech
}
