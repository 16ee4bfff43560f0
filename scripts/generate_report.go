package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/amityadav/stratreport/internal/ai"
	"github.com/amityadav/stratreport/internal/config"
	"github.com/amityadav/stratreport/internal/core"
	"github.com/amityadav/stratreport/internal/countries"
	"github.com/amityadav/stratreport/internal/history"
	"github.com/amityadav/stratreport/internal/logger"
	"github.com/amityadav/stratreport/internal/search"
	"github.com/amityadav/stratreport/internal/serpapi"
	"github.com/amityadav/stratreport/internal/synth"
	"github.com/joho/godotenv"
)

// Runs one report end to end against the live APIs:
//
//	go run ./scripts -keyword "Acme Corp" -country "United States" -window w
func main() {
	keyword := flag.String("keyword", "", "keyword to report on")
	country := flag.String("country", "United States", "country display name")
	window := flag.String("window", "", "time window: h, d, w, m, y or empty")
	dryRun := flag.Bool("dry-run", false, "print sources and prompt without calling the completion API")
	flag.Parse()

	kw, err := core.NormalizeKeyword(*keyword)
	if err != nil {
		fmt.Fprintln(os.Stderr, core.MsgEmptyKeyword)
		os.Exit(2)
	}

	// 1. Load env
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Info("No .env file found, using environment variables")
	}
	cfg := config.Load()
	if err := logger.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		logger.Log.Fatalf("Failed to init logger: %v", err)
	}

	tw, err := search.ParseTimeWindow(*window)
	if err != nil {
		logger.Log.Fatalf("Invalid -window: %v", err)
	}
	mode, err := search.ParseFilterMode(cfg.FilterMode)
	if err != nil {
		logger.Log.Fatalf("Invalid FILTER_MODE: %v", err)
	}
	table, err := countries.Load()
	if err != nil {
		logger.Log.Fatalf("Failed to load countries: %v", err)
	}

	// 2. Build the pipeline
	fetcher := search.NewFetcher(serpapi.NewClient(cfg.SerpAPIKey), search.NewBlocklist(mode, search.SocialDomains...), 0)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *dryRun {
		q := search.NewQuery(kw, tw, table.CodeOrDefault(*country))
		q.MaxResults = cfg.SearchMaxResults
		urls := fetcher.Fetch(ctx, q)
		fmt.Printf("%d sources\n\n%s\n", len(urls), synth.BuildPrompt(kw, urls, tw))
		return
	}

	provider := ai.NewLLMProvider(cfg.CompletionProvider, ai.ProviderConfig{
		APIKey:     cfg.CompletionAPIKey,
		Model:      cfg.CompletionModel,
		BaseURL:    completionBaseURL(cfg),
		APIVersion: cfg.AzureAPIVersion,
	}, nil)
	reportCore := core.NewReportCore(table, fetcher, synth.NewSynthesizer(provider), nil, cfg.SearchMaxResults)

	// 3. Run
	res, err := reportCore.Generate(ctx, history.NewLog(), core.Request{Keyword: kw, Country: *country, Window: tw})
	if err != nil {
		logger.Log.Fatalf("Report failed: %v", err)
	}
	if !res.Found {
		fmt.Println(res.Message)
		return
	}

	fmt.Printf("%s\n\n## Executive Summary\n\n%s\n\n## Sources\n\n%s\n", res.Message, res.Summary, res.URLBlock)
}

func completionBaseURL(cfg config.Config) string {
	if cfg.CompletionProvider == "azure" {
		return cfg.AzureEndpoint
	}
	return cfg.CompletionBaseURL
}
