package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the crawler and analyzer.
type Config struct {
	// Weibo endpoint and request identity
	Weibo WeiboConfig `yaml:"weibo" json:"weibo"`

	// Pagination and politeness settings
	Crawl CrawlConfig `yaml:"crawl" json:"crawl"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Output files
	Output OutputConfig `yaml:"output" json:"output"`

	// Analysis settings
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// WeiboConfig holds the endpoint and the injected request identity.
// The cookie is a static credential; it is never hard-coded here.
type WeiboConfig struct {
	BaseURL   string `yaml:"base_url" json:"base_url"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
	Cookie    string `yaml:"cookie" json:"cookie"`
}

// CrawlConfig holds pagination settings.
type CrawlConfig struct {
	MaxPages       int           `yaml:"max_pages" json:"max_pages"`
	PageDelay      time.Duration `yaml:"page_delay" json:"page_delay"`
	MaxEmptyPages  int           `yaml:"max_empty_pages" json:"max_empty_pages"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	MaxRetries     int           `yaml:"max_retries" json:"max_retries"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// OutputConfig holds output file locations. DatabaseFile and ReportFile
// are optional; empty values disable the sqlite archive and the HTML report.
type OutputConfig struct {
	CSVFile      string `yaml:"csv_file" json:"csv_file"`
	DatabaseFile string `yaml:"database_file" json:"database_file"`
	ReportFile   string `yaml:"report_file" json:"report_file"`
}

// AnalysisConfig holds text analysis settings.
type AnalysisConfig struct {
	StopwordsFile  string              `yaml:"stopwords_file" json:"stopwords_file"`
	ExtraStopwords []string            `yaml:"extra_stopwords" json:"extra_stopwords"`
	TopKeywords    int                 `yaml:"top_keywords" json:"top_keywords"`
	TopPosts       int                 `yaml:"top_posts" json:"top_posts"`
	Topics         map[string][]string `yaml:"topics" json:"topics"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Weibo: WeiboConfig{
			BaseURL:   "https://m.weibo.cn",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		},
		Crawl: CrawlConfig{
			MaxPages:       50,
			PageDelay:      2 * time.Second,
			MaxEmptyPages:  3,
			RequestTimeout: 30 * time.Second,
			MaxRetries:     3,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 30,
		},
		Output: OutputConfig{
			CSVFile:    "weibo_data.csv",
			ReportFile: "weibo_analysis.html",
		},
		Analysis: AnalysisConfig{
			StopwordsFile: "stopwords.txt",
			TopKeywords:   50,
			TopPosts:      10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if cookie := os.Getenv("WEIBOSCRAPER_COOKIE"); cookie != "" {
		c.Weibo.Cookie = cookie
	}
	if userAgent := os.Getenv("WEIBOSCRAPER_USER_AGENT"); userAgent != "" {
		c.Weibo.UserAgent = userAgent
	}
	if baseURL := os.Getenv("WEIBOSCRAPER_BASE_URL"); baseURL != "" {
		c.Weibo.BaseURL = baseURL
	}
	if pages := os.Getenv("WEIBOSCRAPER_MAX_PAGES"); pages != "" {
		var val int
		fmt.Sscanf(pages, "%d", &val)
		if val > 0 {
			c.Crawl.MaxPages = val
		}
	}
	if rpm := os.Getenv("WEIBOSCRAPER_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}
	if csvFile := os.Getenv("WEIBOSCRAPER_CSV_FILE"); csvFile != "" {
		c.Output.CSVFile = csvFile
	}
	if logLevel := os.Getenv("WEIBOSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // no config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for a config file in standard locations.
func (c *Config) findConfigFile() string {
	locations := []string{
		".weiboscraper.yaml",
		".weiboscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "weiboscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".weiboscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Weibo.BaseURL == "" {
		errs = append(errs, errors.New("weibo base URL is required"))
	}
	if c.Weibo.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}

	if c.Crawl.MaxPages <= 0 {
		errs = append(errs, errors.New("max pages must be positive"))
	}
	if c.Crawl.PageDelay < 0 {
		errs = append(errs, errors.New("page delay cannot be negative"))
	}
	if c.Crawl.MaxEmptyPages <= 0 {
		errs = append(errs, errors.New("max empty pages must be positive"))
	}
	if c.Crawl.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Crawl.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	if c.Output.CSVFile == "" {
		errs = append(errs, errors.New("csv output file is required"))
	}

	if c.Analysis.TopKeywords <= 0 {
		errs = append(errs, errors.New("top keywords must be positive"))
	}
	if c.Analysis.TopPosts <= 0 {
		errs = append(errs, errors.New("top posts must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if cookie, ok := flags["cookie"].(string); ok && cookie != "" {
		c.Weibo.Cookie = cookie
	}
	if pages, ok := flags["pages"].(int); ok && pages > 0 {
		c.Crawl.MaxPages = pages
	}
	if delay, ok := flags["delay"].(time.Duration); ok && delay >= 0 {
		c.Crawl.PageDelay = delay
	}
	if rpm, ok := flags["rate-limit"].(int); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if csvFile, ok := flags["output"].(string); ok && csvFile != "" {
		c.Output.CSVFile = csvFile
	}
	if dbFile, ok := flags["database"].(string); ok && dbFile != "" {
		c.Output.DatabaseFile = dbFile
	}
	if report, ok := flags["report"].(string); ok && report != "" {
		c.Output.ReportFile = report
	}
	if stopwords, ok := flags["stopwords"].(string); ok && stopwords != "" {
		c.Analysis.StopwordsFile = stopwords
	}
	if topKeywords, ok := flags["top-keywords"].(int); ok && topKeywords > 0 {
		c.Analysis.TopKeywords = topKeywords
	}
	if topPosts, ok := flags["top-posts"].(int); ok && topPosts > 0 {
		c.Analysis.TopPosts = topPosts
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: flags > environment variables > .env file > config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".weiboscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
