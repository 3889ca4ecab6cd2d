package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/hoover/internal/domain"
)

// Config holds the hoover bot configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	NLP      NLPConfig      `yaml:"nlp"`
	Search   SearchConfig   `yaml:"search"`
	Bot      BotConfig      `yaml:"bot"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// CORSConfig holds cross-origin settings for web chat clients.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	TurnTimeoutSec  int `yaml:"turn_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// NLPConfig holds key phrase and entity provider settings.
type NLPConfig struct {
	Provider    string       `yaml:"provider"` // openai, langchain, none (default: openai)
	APIKey      string       `yaml:"api_key"`
	BaseURL     string       `yaml:"base_url"`
	Model       string       `yaml:"model"`
	TimeoutSec  int          `yaml:"timeout_sec"`
	CacheTTLSec int          `yaml:"cache_ttl_sec"` // 0 disables the cache
	Budget      BudgetConfig `yaml:"budget"`
}

// BudgetConfig holds NLP token limits. Zero limits disable enforcement.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"`
	Action            string `yaml:"action"` // warn, reject (default: warn)
}

// Enabled reports whether any limit is set.
func (b BudgetConfig) Enabled() bool {
	return b.DailyTokenLimit > 0 || b.MonthlyTokenLimit > 0
}

// SearchConfig holds document index settings.
type SearchConfig struct {
	Index              string `yaml:"index"`
	MaxResults         int    `yaml:"max_results"`
	ProgressIntervalMs int    `yaml:"progress_interval_ms"`
	SiteURL            string `yaml:"site_url"` // dig deeper base, the query is appended
	ExcerptMaxLength   int    `yaml:"excerpt_max_length"`
	PageBreakMarker    string `yaml:"page_break_marker"`
}

// BotConfig holds conversation settings.
type BotConfig struct {
	CryptonymsFile     string   `yaml:"cryptonyms_file"`
	CryptonymsSource   string   `yaml:"cryptonyms_source"` // file, database (default: file)
	Stopwords          []string `yaml:"stopwords"`
	PossessiveSuffixes []string `yaml:"possessive_suffixes"`
	LowValueSuffixes   []string `yaml:"low_value_suffixes"`
	GreetedStore       string   `yaml:"greeted_store"` // database, memory (default: database)
	GreetedTTLDays     int      `yaml:"greeted_ttl_days"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.TurnTimeoutSec <= 0 {
		c.HTTP.TurnTimeoutSec = 45
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.NLP.Provider == "" {
		c.NLP.Provider = "openai"
	}
	if c.NLP.TimeoutSec <= 0 {
		c.NLP.TimeoutSec = 10
	}
	if c.NLP.Budget.Action == "" {
		c.NLP.Budget.Action = "warn"
	}
	if c.Search.Index == "" {
		c.Search.Index = "hoover-docs"
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 10
	}
	if c.Search.ProgressIntervalMs <= 0 {
		c.Search.ProgressIntervalMs = 2000
	}
	if c.Search.ExcerptMaxLength <= 0 {
		c.Search.ExcerptMaxLength = 200
	}
	if c.Search.PageBreakMarker == "" {
		c.Search.PageBreakMarker = "[image: image1.tif]"
	}
	if c.Bot.CryptonymsSource == "" {
		c.Bot.CryptonymsSource = "file"
	}
	if c.Bot.GreetedStore == "" {
		c.Bot.GreetedStore = "database"
	}
	if c.Bot.GreetedTTLDays <= 0 {
		c.Bot.GreetedTTLDays = 30
	}
	if c.Tracing.SampleRatio <= 0 {
		c.Tracing.SampleRatio = 1
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("%w: database.addrs is required", domain.ErrConfigMissing)
	}
	if c.Search.SiteURL == "" {
		return fmt.Errorf("%w: search.site_url is required", domain.ErrConfigMissing)
	}
	switch c.NLP.Provider {
	case "openai", "langchain":
		if c.NLP.Model == "" {
			return fmt.Errorf("%w: nlp.model is required for provider %q", domain.ErrConfigMissing, c.NLP.Provider)
		}
	case "none":
	default:
		return fmt.Errorf("nlp.provider must be \"openai\", \"langchain\" or \"none\", got %q", c.NLP.Provider)
	}
	switch c.NLP.Budget.Action {
	case "warn", "reject":
	default:
		return fmt.Errorf("nlp.budget.action must be \"warn\" or \"reject\", got %q", c.NLP.Budget.Action)
	}
	if c.NLP.Budget.DailyTokenLimit < 0 || c.NLP.Budget.MonthlyTokenLimit < 0 {
		return fmt.Errorf("nlp.budget limits must not be negative")
	}
	switch c.Bot.CryptonymsSource {
	case "file":
		if c.Bot.CryptonymsFile == "" {
			return fmt.Errorf("%w: bot.cryptonyms_file is required", domain.ErrConfigMissing)
		}
	case "database":
	default:
		return fmt.Errorf("bot.cryptonyms_source must be \"file\" or \"database\", got %q", c.Bot.CryptonymsSource)
	}
	switch c.Bot.GreetedStore {
	case "database", "memory":
	default:
		return fmt.Errorf("bot.greeted_store must be \"database\" or \"memory\", got %q", c.Bot.GreetedStore)
	}
	if c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be in (0, 1], got %v", c.Tracing.SampleRatio)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
