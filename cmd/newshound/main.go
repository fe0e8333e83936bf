package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/starkadvisor/newshound/internal/config"
	"github.com/starkadvisor/newshound/internal/dates"
	"github.com/starkadvisor/newshound/internal/fetcher"
	"github.com/starkadvisor/newshound/internal/job"
	"github.com/starkadvisor/newshound/internal/parser"
	"github.com/starkadvisor/newshound/internal/scraper"
	"github.com/starkadvisor/newshound/internal/sentiment"
	"github.com/starkadvisor/newshound/internal/storage"
	"github.com/starkadvisor/newshound/internal/types"
)

var (
	cfgFile     string
	verbose     bool
	topics      string
	maxArticles int
	sortByDate  bool
	fetcherType string
	mongoURI    string
	noSentiment bool
	exportPath  string

	queryCategory string
	querySources  string
	queryFrom     string
	queryTo       string
	queryLimit    int64
)

func main() {
	// A missing .env is not an error; it only matters in dev setups.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "newshound",
		Short: "newshound — financial news scraping pipeline",
		Long: `newshound scrapes financial news from search-engine listings on a
rolling date window, annotates articles with sentiment, and persists
them to MongoDB for downstream analysis.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(queryCmd())
	rootCmd.AddCommand(sourcesCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape all configured topics since the last checkpoint",
		RunE:  runScrape,
	}

	cmd.Flags().StringVarP(&topics, "topics", "t", "", "comma-separated topics (overrides config)")
	cmd.Flags().IntVarP(&maxArticles, "max-articles", "m", 0, "max articles per topic (0 = config default)")
	cmd.Flags().BoolVar(&sortByDate, "sort-by-date", false, "request newest-first result ordering")
	cmd.Flags().StringVar(&fetcherType, "fetcher", "", "dispatcher type: http or browser")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI")
	cmd.Flags().BoolVar(&noSentiment, "no-sentiment", false, "skip sentiment annotation")
	cmd.Flags().StringVarP(&exportPath, "export", "o", "", "also write articles to a JSONL file")

	return cmd
}

// runScrape executes the scrape command.
func runScrape(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewMongoStore(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("connect storage: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("storage close", "error", err)
		}
	}()
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	f, err := fetcher.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	defer f.Close()

	ctrl := scraper.New(
		f,
		parser.NewExtractor(parser.DefaultSelectors(), logger),
		dates.New(logger),
		cfg.Scraper,
		logger,
	)

	var opts []job.Option
	if cfg.Sentiment.Enabled {
		classifier := sentiment.NewHTTPClassifier(cfg.Sentiment, logger)
		opts = append(opts, job.WithAnnotator(
			sentiment.NewAnnotator(classifier, cfg.Sentiment.MaxTextLength, logger)))
	}
	if exportPath != "" {
		w, err := storage.NewJSONLWriter(exportPath, logger)
		if err != nil {
			return fmt.Errorf("create export: %w", err)
		}
		defer w.Close()
		opts = append(opts, job.WithExporter(w))
	}

	runner := job.NewRunner(ctrl, store, cfg.Scraper, logger, opts...)

	start := time.Now()
	sum, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if sum.Skipped {
		fmt.Println("Already up to date, nothing to scrape.")
		return nil
	}

	fmt.Printf("\nScrape complete in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("  Window:   %s .. %s\n",
		sum.Window[0].Format(types.DateLayout), sum.Window[1].Format(types.DateLayout))
	fmt.Printf("  Articles: %d across %d topics (%d topics failed)\n",
		sum.Articles, len(sum.Topics), sum.Failed)
	for _, o := range sum.Topics {
		status := fmt.Sprintf("%d articles", o.Articles)
		if o.Err != nil {
			status = "failed: " + o.Err.Error()
		}
		fmt.Printf("    %-30s %s (attempts: %d)\n", o.Topic, status, o.Attempts)
	}
	return nil
}

// queryCmd creates the "query" subcommand.
func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query stored articles",
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&queryCategory, "category", "", "filter by category/topic")
	cmd.Flags().StringVar(&querySources, "sources", "", "comma-separated source names")
	cmd.Flags().StringVar(&queryFrom, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&queryTo, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().Int64VarP(&queryLimit, "limit", "l", 20, "max articles to return")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI")

	return cmd
}

// runQuery executes the query command.
func runQuery(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)

	q := types.NewsQuery{
		Category: queryCategory,
		Sources:  splitCSV(querySources),
		Limit:    queryLimit,
	}
	if queryFrom != "" {
		if q.StartDate, err = time.Parse(types.DateLayout, queryFrom); err != nil {
			return fmt.Errorf("invalid --from date: %w", err)
		}
	}
	if queryTo != "" {
		if q.EndDate, err = time.Parse(types.DateLayout, queryTo); err != nil {
			return fmt.Errorf("invalid --to date: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewMongoStore(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("connect storage: %w", err)
	}
	defer store.Close(ctx)

	articles, err := store.QueryArticles(ctx, q)
	if err != nil {
		return err
	}

	if len(articles) == 0 {
		fmt.Println("No articles match.")
		return nil
	}
	for _, a := range articles {
		date := "????-??-??"
		if !a.Date.IsZero() {
			date = a.Date.Format(types.DateLayout)
		}
		label := "-"
		if a.Sentiment != nil {
			label = fmt.Sprintf("%s %.2f", a.Sentiment.Label, a.Sentiment.Score)
		}
		fmt.Printf("%s  %-10s  %-20s  %s\n    %s\n", date, label, a.Source, a.Title, a.URL)
	}
	fmt.Printf("\n%d articles\n", len(articles))
	return nil
}

// sourcesCmd creates the "sources" subcommand.
func sourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List distinct article sources in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			applyCLIOverrides(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := storage.NewMongoStore(ctx, cfg.Storage, logger)
			if err != nil {
				return fmt.Errorf("connect storage: %w", err)
			}
			defer store.Close(ctx)

			sources, err := store.UniqueSources(ctx)
			if err != nil {
				return err
			}
			for _, s := range sources {
				fmt.Println(s)
			}
			fmt.Printf("\n%d sources\n", len(sources))
			return nil
		},
	}
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI")
	return cmd
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Scraper:\n")
			fmt.Printf("  Topics:            %d configured\n", len(cfg.Scraper.Topics))
			fmt.Printf("  Domains:           %s\n", strings.Join(cfg.Scraper.Domains, ", "))
			fmt.Printf("  Max Articles:      %d\n", cfg.Scraper.MaxArticles)
			fmt.Printf("  Page Size:         %d\n", cfg.Scraper.PageSize)
			fmt.Printf("  Max Retries:       %d\n", cfg.Scraper.MaxRetries)
			fmt.Printf("  Checkpoint Window: %s\n", cfg.Scraper.CheckpointWindow)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Type:              %s\n", cfg.Fetcher.Type)
			fmt.Printf("  Base URL:          %s\n", cfg.Fetcher.BaseURL)
			fmt.Printf("  Request Timeout:   %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Pacing:            %s .. %s\n", cfg.Fetcher.PacingMin, cfg.Fetcher.PacingMax)
			fmt.Printf("  User Agents:       %d configured\n", len(cfg.Fetcher.UserAgents))
			fmt.Printf("\nProxy:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Proxy.Enabled)
			fmt.Printf("  Count:             %d\n", len(cfg.Proxy.URLs))
			fmt.Printf("\nSentiment:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Sentiment.Enabled)
			fmt.Printf("  Provider:          %s\n", cfg.Sentiment.Provider)
			fmt.Printf("  Endpoint:          %s\n", cfg.Sentiment.Endpoint)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  URI:               %s\n", cfg.Storage.URI)
			fmt.Printf("  Database:          %s\n", cfg.Storage.Database)
			fmt.Printf("  Collections:       %s, %s\n", cfg.Storage.NewsCollection, cfg.Storage.MetadataCollection)
			return nil
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("newshound %s\n", config.Version)
		},
	}
}

// setupLogger creates a structured logger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if topics != "" {
		cfg.Scraper.Topics = splitCSV(topics)
	}
	if maxArticles > 0 {
		cfg.Scraper.MaxArticles = maxArticles
	}
	if sortByDate {
		cfg.Scraper.SortByDate = true
	}
	if fetcherType != "" {
		cfg.Fetcher.Type = strings.ToLower(fetcherType)
	}
	if mongoURI != "" {
		cfg.Storage.URI = mongoURI
	}
	if noSentiment {
		cfg.Sentiment.Enabled = false
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
