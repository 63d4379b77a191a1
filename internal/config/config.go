package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSource is the only news source the digest reads from.
	DefaultSource = "the-verge"
	// DefaultPageSize is how many headlines are requested per fetch.
	DefaultPageSize = 6
	// DefaultSummaryPrompt is prepended to the extracted article text.
	DefaultSummaryPrompt = "You are a news article summarizer. You will be getting the whole article and you are tasked to summarize the entire article in points with at most 150 words. This is the article: "

	defaultCacheTTL       = 2 * time.Hour
	defaultRequestTimeout = 20 * time.Second

	configPathEnv         = "VERGE_DIGEST_CONFIG"
	dotenvPathEnv         = "VERGE_DIGEST_DOTENV"
	newsAPIKeyEnv         = "NEWS_API"
	backupNewsAPIKeyEnv   = "BACKUP_NEWS_KEY"
	googleAPIKeyEnv       = "GOOGLE_API_KEY"
	summarizerAPIKeyEnv   = "SUMMARIZER_API_KEY"
	summarizerProviderEnv = "SUMMARIZER_PROVIDER"
	summarizerModelEnv    = "SUMMARIZER_MODEL"
	logLevelEnv           = "LOG_LEVEL"
	serverAddrEnv         = "VERGE_DIGEST_ADDR"
	pageSizeEnv           = "NEWS_PAGE_SIZE"
)

// ErrMissingNewsKeys is returned by Validate when either news API key is absent.
var ErrMissingNewsKeys = errors.New("config: NEWS_API and BACKUP_NEWS_KEY must both be set")

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	NewsAPI    NewsAPIConfig    `yaml:"newsApi"`
	Cache      CacheConfig      `yaml:"cache"`
	Extractor  ExtractorConfig  `yaml:"extractor"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Server     ServerConfig     `yaml:"server"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// NewsAPIConfig describes the headlines endpoint and its credential pair.
type NewsAPIConfig struct {
	BaseURL      string `yaml:"baseUrl"`
	Source       string `yaml:"source"`
	PageSize     int    `yaml:"pageSize"`
	APIKey       string `yaml:"apiKey"`
	BackupAPIKey string `yaml:"backupApiKey"`
	UserAgent    string `yaml:"userAgent"`
	Timeout      string `yaml:"timeout"`
}

// RequestTimeout parses Timeout, falling back to 20s.
func (n NewsAPIConfig) RequestTimeout() time.Duration {
	return parseDuration(n.Timeout, defaultRequestTimeout)
}

// CacheConfig controls how long a fetched listing stays fresh.
type CacheConfig struct {
	TTL string `yaml:"ttl"`
}

// TTLDuration parses TTL, falling back to two hours.
func (c CacheConfig) TTLDuration() time.Duration {
	return parseDuration(c.TTL, defaultCacheTTL)
}

// ExtractorConfig picks the body extraction strategy and its heuristics.
type ExtractorConfig struct {
	Strategy string `yaml:"strategy"`
	// LeadInParagraphs is a pointer so an explicit 0 can be told apart from "unset".
	LeadInParagraphs  *int   `yaml:"leadInParagraphs"`
	BoilerplateMarker string `yaml:"boilerplateMarker"`
	UserAgent         string `yaml:"userAgent"`
	Timeout           string `yaml:"timeout"`
}

// RequestTimeout parses Timeout, falling back to 20s.
func (e ExtractorConfig) RequestTimeout() time.Duration {
	return parseDuration(e.Timeout, defaultRequestTimeout)
}

// SummarizerConfig defines how to contact the text-generation service.
type SummarizerConfig struct {
	Provider string `yaml:"provider"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
	Prompt   string `yaml:"prompt"`
	Timeout  string `yaml:"timeout"`
}

// RequestTimeout parses Timeout, falling back to 60s since generation is slow.
func (s SummarizerConfig) RequestTimeout() time.Duration {
	return parseDuration(s.Timeout, time.Minute)
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads YAML configuration (if present), the .env file (if present)
// and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	loadDotenv()
	cfg.applyEnvOverrides()

	return cfg
}

// Validate reports configuration that makes the digest unusable.
func (c Config) Validate() error {
	if c.NewsAPI.APIKey == "" || c.NewsAPI.BackupAPIKey == "" {
		return ErrMissingNewsKeys
	}
	return nil
}

// loadDotenv never overrides variables that are already exported.
func loadDotenv() {
	path := os.Getenv(dotenvPathEnv)
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("config: cannot load %s: %v", path, err)
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(newsAPIKeyEnv); v != "" {
		c.NewsAPI.APIKey = v
	}
	if v := os.Getenv(backupNewsAPIKeyEnv); v != "" {
		c.NewsAPI.BackupAPIKey = v
	}
	if v := os.Getenv(pageSizeEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.NewsAPI.PageSize = n
		} else {
			log.Printf("config: ignoring invalid %s=%q", pageSizeEnv, v)
		}
	}

	if v := os.Getenv(summarizerProviderEnv); v != "" {
		c.Summarizer.Provider = v
	}
	if v := os.Getenv(summarizerModelEnv); v != "" {
		c.Summarizer.Model = v
	}
	// GOOGLE_API_KEY only applies to gemini; SUMMARIZER_API_KEY wins for any provider.
	if v := os.Getenv(googleAPIKeyEnv); v != "" && isGeminiProvider(c.Summarizer.Provider) {
		c.Summarizer.APIKey = v
	}
	if v := os.Getenv(summarizerAPIKeyEnv); v != "" {
		c.Summarizer.APIKey = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}
}

// isGeminiProvider mirrors the provider matching done by llm.New, where "" means gemini.
func isGeminiProvider(provider string) bool {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "gemini":
		return true
	}
	return false
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.NewsAPI.BaseURL != "" {
		base.NewsAPI.BaseURL = override.NewsAPI.BaseURL
	}
	if override.NewsAPI.Source != "" {
		base.NewsAPI.Source = override.NewsAPI.Source
	}
	if override.NewsAPI.PageSize > 0 {
		base.NewsAPI.PageSize = override.NewsAPI.PageSize
	}
	if override.NewsAPI.APIKey != "" {
		base.NewsAPI.APIKey = override.NewsAPI.APIKey
	}
	if override.NewsAPI.BackupAPIKey != "" {
		base.NewsAPI.BackupAPIKey = override.NewsAPI.BackupAPIKey
	}
	if override.NewsAPI.UserAgent != "" {
		base.NewsAPI.UserAgent = override.NewsAPI.UserAgent
	}
	if override.NewsAPI.Timeout != "" {
		base.NewsAPI.Timeout = override.NewsAPI.Timeout
	}

	if override.Cache.TTL != "" {
		base.Cache.TTL = override.Cache.TTL
	}

	if override.Extractor.Strategy != "" {
		base.Extractor.Strategy = override.Extractor.Strategy
	}
	if override.Extractor.LeadInParagraphs != nil {
		base.Extractor.LeadInParagraphs = override.Extractor.LeadInParagraphs
	}
	if override.Extractor.BoilerplateMarker != "" {
		base.Extractor.BoilerplateMarker = override.Extractor.BoilerplateMarker
	}
	if override.Extractor.UserAgent != "" {
		base.Extractor.UserAgent = override.Extractor.UserAgent
	}
	if override.Extractor.Timeout != "" {
		base.Extractor.Timeout = override.Extractor.Timeout
	}

	if override.Summarizer.Provider != "" {
		base.Summarizer.Provider = override.Summarizer.Provider
	}
	if override.Summarizer.Endpoint != "" {
		base.Summarizer.Endpoint = override.Summarizer.Endpoint
	}
	if override.Summarizer.Model != "" {
		base.Summarizer.Model = override.Summarizer.Model
	}
	if override.Summarizer.APIKey != "" {
		base.Summarizer.APIKey = override.Summarizer.APIKey
	}
	if override.Summarizer.Prompt != "" {
		base.Summarizer.Prompt = override.Summarizer.Prompt
	}
	if override.Summarizer.Timeout != "" {
		base.Summarizer.Timeout = override.Summarizer.Timeout
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	return base
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		NewsAPI: NewsAPIConfig{
			BaseURL:   "https://newsapi.org",
			Source:    DefaultSource,
			PageSize:  DefaultPageSize,
			UserAgent: "VergeDigest/1.0",
			Timeout:   defaultRequestTimeout.String(),
		},
		Cache: CacheConfig{TTL: defaultCacheTTL.String()},
		Extractor: ExtractorConfig{
			Strategy:  "paragraphs",
			UserAgent: "VergeDigest/1.0",
			Timeout:   defaultRequestTimeout.String(),
		},
		Summarizer: SummarizerConfig{
			Provider: "gemini",
			Prompt:   DefaultSummaryPrompt,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}
