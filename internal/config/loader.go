package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults from struct
	setDefaults(v, cfg)

	// Environment variable support
	v.SetEnvPrefix("NEWSHOUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Search default locations
		v.SetConfigName("newshound")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".newshound"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("scraper.topics", cfg.Scraper.Topics)
	v.SetDefault("scraper.domains", cfg.Scraper.Domains)
	v.SetDefault("scraper.max_articles", cfg.Scraper.MaxArticles)
	v.SetDefault("scraper.page_size", cfg.Scraper.PageSize)
	v.SetDefault("scraper.max_retries", cfg.Scraper.MaxRetries)
	v.SetDefault("scraper.retry_pause", cfg.Scraper.RetryPause)
	v.SetDefault("scraper.checkpoint_window", cfg.Scraper.CheckpointWindow)
	v.SetDefault("scraper.language", cfg.Scraper.Language)
	v.SetDefault("scraper.language_code", cfg.Scraper.LanguageCode)
	v.SetDefault("scraper.sort_by_date", cfg.Scraper.SortByDate)

	v.SetDefault("fetcher.type", cfg.Fetcher.Type)
	v.SetDefault("fetcher.base_url", cfg.Fetcher.BaseURL)
	v.SetDefault("fetcher.request_timeout", cfg.Fetcher.RequestTimeout)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.pacing_min", cfg.Fetcher.PacingMin)
	v.SetDefault("fetcher.pacing_max", cfg.Fetcher.PacingMax)
	v.SetDefault("fetcher.user_agents", cfg.Fetcher.UserAgents)
	v.SetDefault("fetcher.accept_language", cfg.Fetcher.AcceptLanguage)

	v.SetDefault("proxy.enabled", cfg.Proxy.Enabled)
	v.SetDefault("proxy.urls", cfg.Proxy.URLs)

	v.SetDefault("sentiment.enabled", cfg.Sentiment.Enabled)
	v.SetDefault("sentiment.provider", cfg.Sentiment.Provider)
	v.SetDefault("sentiment.endpoint", cfg.Sentiment.Endpoint)
	v.SetDefault("sentiment.model", cfg.Sentiment.Model)
	v.SetDefault("sentiment.api_key", cfg.Sentiment.APIKey)
	v.SetDefault("sentiment.max_text_length", cfg.Sentiment.MaxTextLength)

	v.SetDefault("storage.uri", cfg.Storage.URI)
	v.SetDefault("storage.database", cfg.Storage.Database)
	v.SetDefault("storage.news_collection", cfg.Storage.NewsCollection)
	v.SetDefault("storage.metadata_collection", cfg.Storage.MetadataCollection)
	v.SetDefault("storage.connect_timeout", cfg.Storage.ConnectTimeout)
	v.SetDefault("storage.socket_timeout", cfg.Storage.SocketTimeout)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
