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

	"github.com/EliotAtlani/personal-news/internal/aggregator"
	"github.com/EliotAtlani/personal-news/internal/config"
	"github.com/EliotAtlani/personal-news/internal/domain"
	"github.com/EliotAtlani/personal-news/internal/enrich"
	"github.com/EliotAtlani/personal-news/internal/history"
	"github.com/EliotAtlani/personal-news/internal/logger"
	"github.com/EliotAtlani/personal-news/internal/pipeline"
	"github.com/EliotAtlani/personal-news/internal/relevance"
	"github.com/EliotAtlani/personal-news/internal/summarizer"
	"github.com/EliotAtlani/personal-news/pkg/httpclient"
	"github.com/EliotAtlani/personal-news/pkg/publishers"
	"github.com/EliotAtlani/personal-news/pkg/sources"
)

const enrichDelay = 200 * time.Millisecond

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Missing .env is fine; real deployments inject the environment.
	_ = godotenv.Load()

	switch os.Args[1] {
	case "run":
		os.Exit(runCmd(os.Args[2:]))
	case "validate":
		os.Exit(validateCmd(os.Args[2:]))
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  newsletter run --profile <name> [--config <path>]")
	fmt.Fprintln(os.Stderr, "  newsletter validate [--config <path>]")
}

func runCmd(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	profileName := fs.String("profile", "", "newsletter profile to run")
	configPath := fs.String("config", "config/preferences.yaml", "path to the preferences file")
	fs.Parse(args)

	if *profileName == "" {
		fmt.Fprintln(os.Stderr, "run: --profile is required")
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}

	profile, err := cfg.ProfileByName(*profileName)
	if err != nil {
		log.ErrorObj("unknown profile", "cli_profile_error", map[string]any{
			"profile": *profileName,
			"error":   err.Error(),
		})
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := history.OpenBolt(cfg.History.Path)
	if err != nil {
		log.ErrorObj("open history store", "cli_history_error", map[string]any{
			"path":  cfg.History.Path,
			"error": err.Error(),
		})
		return 1
	}
	defer store.Close()

	handoff, err := buildHandoff(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("build publishers", "cli_publisher_error", map[string]any{
			"error": err.Error(),
		})
		return 1
	}

	client := sources.DefaultHTTPClient()
	registry := sources.DefaultRegistry(client, sources.Credentials{
		NewsAPI:       cfg.APIKeys.NewsAPI,
		Guardian:      cfg.APIKeys.Guardian,
		EventRegistry: cfg.APIKeys.EventRegistry,
	})

	orch := pipeline.New(
		aggregator.New(registry, store, log),
		relevance.NewScorer(relevance.DefaultExpansions()),
		summarizer.NewChain(buildProviders(cfg, client), log, cfg.AI.MaxConcurrent),
		enrich.New(client, log, enrichDelay),
		store,
		handoff,
		log,
	)

	res, err := orch.Run(ctx, profile)
	if err != nil {
		log.ErrorObj("pipeline run failed", "cli_run_failed", map[string]any{
			"profile": profile.Name,
			"state":   string(res.State),
			"error":   err.Error(),
		})
		return 1
	}

	if res.Outcome == pipeline.OutcomeEmpty {
		log.InfoObj("no newsletter this run", "cli_run_empty", map[string]any{
			"profile": profile.Name,
		})
	}
	return 0
}

func validateCmd(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "config/preferences.yaml", "path to the preferences file")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config invalid: %v\n", err)
		return 1
	}

	if cfg.PublishersFile != "" {
		if _, err := publishers.LoadRegistry(cfg.PublishersFile); err != nil {
			fmt.Fprintf(os.Stderr, "publishers invalid: %v\n", err)
			return 1
		}
	}

	fmt.Printf("config ok: %d profile(s)\n", len(cfg.Profiles))
	return 0
}

// buildHandoff constructs all enabled publishers up front so misconfiguration
// fails before any articles are fetched.
func buildHandoff(ctx context.Context, cfg *config.Config, log logger.Logger) (pipeline.HandoffFunc, error) {
	if cfg.PublishersFile == "" {
		log.WarnObj("no publishers configured, digests will be logged only", "cli_no_publishers", nil)
		return func(ctx context.Context, digest domain.Digest) error {
			log.InfoObj("digest ready", "cli_digest_ready", map[string]any{
				"profile":  digest.Profile,
				"articles": len(digest.Articles),
			})
			return nil
		}, nil
	}

	reg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers file: %w", err)
	}

	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), reg.Enabled(), log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	return func(ctx context.Context, digest domain.Digest) error {
		return publishers.PublishAll(ctx, pubs, publishers.NewEvent(digest))
	}, nil
}

// buildProviders assembles the configured AI provider chain in order.
func buildProviders(cfg *config.Config, client httpclient.Client) []summarizer.Provider {
	var provs []summarizer.Provider
	for _, name := range cfg.AI.Providers {
		switch name {
		case "openai":
			if cfg.APIKeys.OpenAI != "" {
				provs = append(provs, summarizer.NewOpenAIProvider(client, cfg.APIKeys.OpenAI, cfg.AI.OpenAIModel))
			}
		case "anthropic":
			if cfg.APIKeys.Anthropic != "" {
				provs = append(provs, summarizer.NewAnthropicProvider(client, cfg.APIKeys.Anthropic, cfg.AI.AnthropicModel))
			}
		case "gemini":
			if cfg.APIKeys.Gemini != "" {
				provs = append(provs, summarizer.NewGeminiProvider(cfg.APIKeys.Gemini, cfg.AI.GeminiModel))
			}
		}
	}
	return provs
}
