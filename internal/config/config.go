package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for newshound.
type Config struct {
	Scraper   ScraperConfig   `mapstructure:"scraper"   yaml:"scraper"`
	Fetcher   FetcherConfig   `mapstructure:"fetcher"   yaml:"fetcher"`
	Proxy     ProxyConfig     `mapstructure:"proxy"     yaml:"proxy"`
	Sentiment SentimentConfig `mapstructure:"sentiment" yaml:"sentiment"`
	Storage   StorageConfig   `mapstructure:"storage"   yaml:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// ScraperConfig controls the per-topic scrape loop.
type ScraperConfig struct {
	// Topics is the list of categories the driver iterates.
	Topics []string `mapstructure:"topics" yaml:"topics"`

	// Domains is the allow-list of financial-news sites OR'd into the
	// search query.
	Domains []string `mapstructure:"domains" yaml:"domains"`

	MaxArticles int `mapstructure:"max_articles" yaml:"max_articles"`
	PageSize    int `mapstructure:"page_size"    yaml:"page_size"`

	// MaxRetries bounds dispatcher-level retries for one page, and also
	// the driver's whole-topic retry budget.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`

	// RetryPause is the driver's wait between whole-topic attempts that
	// returned zero articles.
	RetryPause time.Duration `mapstructure:"retry_pause" yaml:"retry_pause"`

	// CheckpointWindow is how far back the first-ever run scrapes when
	// no checkpoint exists yet.
	CheckpointWindow time.Duration `mapstructure:"checkpoint_window" yaml:"checkpoint_window"`

	// Language/region hints sent with every search request.
	Language     string `mapstructure:"language"      yaml:"language"`
	LanguageCode string `mapstructure:"language_code" yaml:"language_code"`

	SortByDate bool `mapstructure:"sort_by_date" yaml:"sort_by_date"`
}

// FetcherConfig controls the request dispatcher.
type FetcherConfig struct {
	// Type selects the dispatcher: "http" or "browser".
	Type string `mapstructure:"type" yaml:"type"`

	BaseURL        string        `mapstructure:"base_url"        yaml:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	MaxBodySize    int64         `mapstructure:"max_body_size"   yaml:"max_body_size"`

	// PacingMin/PacingMax bound the random pre-request delay. Setting
	// both to zero disables pacing (tests, local fixtures).
	PacingMin time.Duration `mapstructure:"pacing_min" yaml:"pacing_min"`
	PacingMax time.Duration `mapstructure:"pacing_max" yaml:"pacing_max"`

	UserAgents     []string `mapstructure:"user_agents"     yaml:"user_agents"`
	AcceptLanguage string   `mapstructure:"accept_language" yaml:"accept_language"`
}

// ProxyConfig controls the optional outbound proxy pool.
type ProxyConfig struct {
	Enabled bool     `mapstructure:"enabled" yaml:"enabled"`
	URLs    []string `mapstructure:"urls"    yaml:"urls"`
}

// SentimentConfig controls the external text-classification capability.
type SentimentConfig struct {
	Enabled  bool   `mapstructure:"enabled"  yaml:"enabled"`
	Provider string `mapstructure:"provider" yaml:"provider"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Model    string `mapstructure:"model"    yaml:"model"`
	APIKey   string `mapstructure:"api_key"  yaml:"api_key"`

	// MaxTextLength truncates descriptions before classification.
	MaxTextLength int `mapstructure:"max_text_length" yaml:"max_text_length"`
}

// StorageConfig controls the document store.
type StorageConfig struct {
	URI                string        `mapstructure:"uri"                 yaml:"uri"`
	Database           string        `mapstructure:"database"            yaml:"database"`
	NewsCollection     string        `mapstructure:"news_collection"     yaml:"news_collection"`
	MetadataCollection string        `mapstructure:"metadata_collection" yaml:"metadata_collection"`
	ConnectTimeout     time.Duration `mapstructure:"connect_timeout"     yaml:"connect_timeout"`
	SocketTimeout      time.Duration `mapstructure:"socket_timeout"      yaml:"socket_timeout"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultTopics is the category list the driver scrapes when the
// config file does not override it.
var DefaultTopics = []string{
	"Stock Market", "Interest Rates", "Federal Reserve Policies", "S&P 500",
	"Banking Sector", "Mutual Funds & ETFs", "Corporate Earnings",
	"US Economy & Inflation", "Budget & Fiscal Policies", "Tech Sector",
	"Energy Sector", "Healthcare & Pharma", "Consumer Goods",
	"Apple", "Microsoft", "Amazon", "Alphabet", "Meta",
	"Tesla", "NVIDIA",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scraper: ScraperConfig{
			Topics: DefaultTopics,
			Domains: []string{
				"economictimes.indiatimes.com",
				"business-standard.com",
			},
			MaxArticles:      100,
			PageSize:         100,
			MaxRetries:       3,
			RetryPause:       7 * time.Second,
			CheckpointWindow: 90 * 24 * time.Hour,
			Language:         "en",
			LanguageCode:     "lang_en",
			SortByDate:       false,
		},
		Fetcher: FetcherConfig{
			Type:           "http",
			BaseURL:        "https://www.google.com/search",
			RequestTimeout: 30 * time.Second,
			MaxBodySize:    10 * 1024 * 1024, // 10MB
			PacingMin:      3 * time.Second,
			PacingMax:      7 * time.Second,
			UserAgents:     defaultUserAgents,
			AcceptLanguage: "en-US,en;q=0.9",
		},
		Proxy: ProxyConfig{
			Enabled: false,
		},
		Sentiment: SentimentConfig{
			Enabled:       true,
			Provider:      "custom",
			Endpoint:      "http://localhost:8085/classify",
			Model:         "distilbert-base-uncased-finetuned-sst-2-english",
			MaxTextLength: 512,
		},
		Storage: StorageConfig{
			URI:                "mongodb://localhost:27017",
			Database:           "starkadvisor",
			NewsCollection:     "news",
			MetadataCollection: "scraping_metadata",
			ConnectTimeout:     4 * time.Second,
			SocketTimeout:      8 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// defaultUserAgents is the pool a dispatcher picks from at random, one
// per request. Mix of desktop and mobile browsers.
var defaultUserAgents = []string{
	// Windows - Chrome / Firefox
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.5993.117 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",

	// Windows - Edge
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.2210.91",

	// macOS - Safari / Chrome
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 11_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.6 Safari/605.1.15",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.6045.199 Safari/537.36",

	// Linux - Chrome / Firefox
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.109 Safari/537.36",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",

	// Android - Chrome Mobile
	"Mozilla/5.0 (Linux; Android 13; Pixel 7 Pro) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.144 Mobile Safari/537.36",
	"Mozilla/5.0 (Linux; Android 12; SM-G991B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.5993.80 Mobile Safari/537.36",
	"Mozilla/5.0 (Linux; Android 11; Mi 11 Lite) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.5938.92 Mobile Safari/537.36",

	// iPhone / iPad - Safari
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (iPad; CPU OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (iPad; CPU OS 16_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Mobile/15E148 Safari/604.1",
}
