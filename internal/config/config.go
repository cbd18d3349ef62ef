package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName      string `mapstructure:"app_name"`
	Env          string `mapstructure:"app_env"`
	LogLevel     string `mapstructure:"log_level"`
	ErrorLogFile string `mapstructure:"error_log_file"`
	FeedsFile    string `mapstructure:"feeds_file"`

	HistoryStore    string `mapstructure:"history_store"`
	HistoryFile     string `mapstructure:"history_file"`
	BBoltPath       string `mapstructure:"bbolt_path"`
	RetentionDays   int    `mapstructure:"retention_days"`
	MaxPublications int    `mapstructure:"max_publications"`

	GeneratorProvider string  `mapstructure:"generator_provider"`
	OpenAIAPIKey      string  `mapstructure:"openai_api_key" json:"-"`
	OpenAIModel       string  `mapstructure:"openai_model"`
	OpenAIBaseURL     string  `mapstructure:"openai_base_url"`
	GeminiAPIKey      string  `mapstructure:"gemini_api_key" json:"-"`
	GeminiModel       string  `mapstructure:"gemini_model"`
	Temperature       float32 `mapstructure:"temperature"`

	StrapiAPIURL   string `mapstructure:"strapi_api_url"`
	StrapiAPIToken string `mapstructure:"strapi_api_token" json:"-"`
	ArticleAuthor  string `mapstructure:"article_author"`
	PublishersFile string `mapstructure:"publishers_file"`

	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	EnrichMissingSummary  bool          `mapstructure:"enrich_missing_summary"`
}

// Model returns the model identifier of the configured generator provider.
func (c *Config) Model() string {
	if c.GeneratorProvider == ProviderGemini {
		return c.GeminiModel
	}
	return c.OpenAIModel
}

// Load reads configuration from environment variables and optional dotenv files.
// When no files are given, configs/.env and .env are tried in that order.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{"configs/.env", ".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	v := viper.New()

	v.SetDefault("app_name", "finai24-newsbot")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("error_log_file", "errori_log.txt")
	v.SetDefault("feeds_file", "feeds.txt")
	v.SetDefault("history_store", "json")
	v.SetDefault("history_file", "pubblicati.json")
	v.SetDefault("bbolt_path", "./data/history.db")
	v.SetDefault("retention_days", 60)
	v.SetDefault("max_publications", 2)
	v.SetDefault("generator_provider", ProviderOpenAI)
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_model", "gpt-3.5-turbo")
	v.SetDefault("openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-1.5-flash")
	v.SetDefault("temperature", 0.5)
	v.SetDefault("strapi_api_url", "https://finai24-cms.onrender.com/api/articoli")
	v.SetDefault("strapi_api_token", "")
	v.SetDefault("article_author", "FinAI24 Newsbot")
	v.SetDefault("publishers_file", "")
	v.SetDefault("request_timeout_seconds", 60)
	v.SetDefault("enrich_missing_summary", false)

	v.AutomaticEnv()
	// legacy deployments export the model as MODELLO_OPENAI
	if err := v.BindEnv("openai_model", "OPENAI_MODEL", "MODELLO_OPENAI"); err != nil {
		return nil, fmt.Errorf("bind openai_model env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.GeneratorProvider = strings.ToLower(strings.TrimSpace(c.GeneratorProvider))
	c.HistoryStore = strings.ToLower(strings.TrimSpace(c.HistoryStore))

	if c.MaxPublications <= 0 {
		return fmt.Errorf("invalid max_publications (must be positive)")
	}
	if c.RetentionDays <= 0 {
		return fmt.Errorf("invalid retention_days (must be positive)")
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	c.RequestTimeout = time.Duration(c.RequestTimeoutSeconds) * time.Second

	if strings.TrimSpace(c.FeedsFile) == "" {
		return fmt.Errorf("feeds_file is required")
	}
	return nil
}

// Validate checks the settings a pipeline run needs beyond what Load enforces.
// Commands that only inspect the ledger skip it.
func (c *Config) Validate() error {
	switch c.GeneratorProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for generator_provider %q", c.GeneratorProvider)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for generator_provider %q", c.GeneratorProvider)
		}
	default:
		return fmt.Errorf("unsupported generator_provider %q", c.GeneratorProvider)
	}
	if strings.TrimSpace(c.StrapiAPIURL) == "" {
		return fmt.Errorf("strapi_api_url is required")
	}
	if c.StrapiAPIToken == "" {
		return fmt.Errorf("STRAPI_API_TOKEN is required")
	}
	return nil
}
