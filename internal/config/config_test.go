package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no topics", func(c *Config) { c.Scraper.Topics = nil }},
		{"zero max articles", func(c *Config) { c.Scraper.MaxArticles = 0 }},
		{"zero page size", func(c *Config) { c.Scraper.PageSize = 0 }},
		{"bad fetcher type", func(c *Config) { c.Fetcher.Type = "carrier-pigeon" }},
		{"relative base url", func(c *Config) { c.Fetcher.BaseURL = "/search" }},
		{"inverted pacing window", func(c *Config) {
			c.Fetcher.PacingMin = 5 * time.Second
			c.Fetcher.PacingMax = time.Second
		}},
		{"no user agents", func(c *Config) { c.Fetcher.UserAgents = nil }},
		{"proxy enabled without urls", func(c *Config) { c.Proxy.Enabled = true }},
		{"empty storage uri", func(c *Config) { c.Storage.URI = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newshound.yaml")
	yaml := `
scraper:
  topics: ["Gold"]
  max_articles: 25
fetcher:
  pacing_min: 0s
  pacing_max: 0s
storage:
  database: testdb
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Scraper.Topics) != 1 || cfg.Scraper.Topics[0] != "Gold" {
		t.Errorf("topics = %v", cfg.Scraper.Topics)
	}
	if cfg.Scraper.MaxArticles != 25 {
		t.Errorf("max_articles = %d, want 25", cfg.Scraper.MaxArticles)
	}
	if cfg.Storage.Database != "testdb" {
		t.Errorf("database = %q", cfg.Storage.Database)
	}
	// Untouched keys keep their defaults.
	if cfg.Scraper.PageSize != 100 {
		t.Errorf("page_size = %d, want default 100", cfg.Scraper.PageSize)
	}
	if cfg.Fetcher.Type != "http" {
		t.Errorf("fetcher type = %q, want default http", cfg.Fetcher.Type)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("NEWSHOUND_SCRAPER_MAX_ARTICLES", "7")
	t.Setenv("NEWSHOUND_STORAGE_URI", "mongodb://db:27017")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scraper.MaxArticles != 7 {
		t.Errorf("max_articles = %d, want env override 7", cfg.Scraper.MaxArticles)
	}
	if cfg.Storage.URI != "mongodb://db:27017" {
		t.Errorf("uri = %q, want env override", cfg.Storage.URI)
	}
}
