package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the report generation service
type Config struct {
	General    GeneralConfig    `mapstructure:"general"`
	Server     ServerConfig     `mapstructure:"server"`
	Providers  ProvidersConfig  `mapstructure:"providers"`
	Search     SearchConfig     `mapstructure:"search"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Storage    StorageConfig    `mapstructure:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// ProvidersConfig contains credentials and endpoints for external services.
// A provider with an empty api_key is disabled, never an error.
type ProvidersConfig struct {
	NewsAPI NewsProviderConfig `mapstructure:"newsapi"`
	GNews   NewsProviderConfig `mapstructure:"gnews"`
	OpenAI  OpenAIConfig       `mapstructure:"openai"`
}

// NewsProviderConfig contains a single news-search provider's settings
type NewsProviderConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether the provider has the credentials it needs.
func (n NewsProviderConfig) Enabled() bool {
	return strings.TrimSpace(n.APIKey) != "" && strings.TrimSpace(n.Endpoint) != ""
}

// OpenAIConfig contains the LLM/embedding provider settings
type OpenAIConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	CompletionModel string        `mapstructure:"completion_model"`
	EmbeddingModel  string        `mapstructure:"embedding_model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// SearchConfig contains the retrieval policy knobs. These are tunable
// policy, not behaviour: the escalation controller reads them as-is.
type SearchConfig struct {
	MinResults    int      `mapstructure:"min_results"`
	MaxResults    int      `mapstructure:"max_results"`
	PerDomainCap  int      `mapstructure:"per_domain_cap"`
	PeriodDays    int      `mapstructure:"period_days"`
	MaxPeriodDays int      `mapstructure:"max_period_days"`
	Languages     []string `mapstructure:"languages"`
}

func (s SearchConfig) Validate() error {
	if s.MinResults <= 0 {
		return fmt.Errorf("search.min_results must be > 0")
	}
	if s.MaxResults < s.MinResults {
		return fmt.Errorf("search.max_results must be >= search.min_results")
	}
	if s.PerDomainCap <= 0 {
		return fmt.Errorf("search.per_domain_cap must be > 0")
	}
	if len(s.Languages) == 0 {
		return errors.New("search.languages must not be empty")
	}
	return nil
}

// ProcessingConfig contains deduplication, clustering and worker settings
type ProcessingConfig struct {
	ArticleSimilarityThreshold float64          `mapstructure:"article_similarity_threshold"`
	FactSimilarityThreshold    float64          `mapstructure:"fact_similarity_threshold"`
	MinContentWords            int              `mapstructure:"min_content_words"`
	Workers                    int              `mapstructure:"workers"`
	TopicWriteDelay            time.Duration    `mapstructure:"topic_write_delay"`
	Clustering                 ClusteringConfig `mapstructure:"clustering"`
}

func (p ProcessingConfig) Validate() error {
	if p.ArticleSimilarityThreshold <= 0 || p.ArticleSimilarityThreshold > 1 {
		return fmt.Errorf("processing.article_similarity_threshold must be in (0,1]")
	}
	if p.FactSimilarityThreshold <= 0 || p.FactSimilarityThreshold > 1 {
		return fmt.Errorf("processing.fact_similarity_threshold must be in (0,1]")
	}
	if p.Workers <= 0 {
		return fmt.Errorf("processing.workers must be > 0")
	}
	return nil
}

// ClusteringConfig contains density-clustering parameters
type ClusteringConfig struct {
	MinClusterSize int     `mapstructure:"min_cluster_size"`
	Epsilon        float64 `mapstructure:"epsilon"`
}

// ExtractionConfig selects and tunes the content fetcher
type ExtractionConfig struct {
	Fetcher  string        `mapstructure:"fetcher"` // http or chromedp
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxChars int           `mapstructure:"max_chars"`
}

// StorageConfig contains job store settings
type StorageConfig struct {
	JobStore string      `mapstructure:"job_store"` // memory or redis
	JobQueue int         `mapstructure:"job_queue"` // submission queue depth
	Workers  int         `mapstructure:"workers"`   // concurrent jobs
	Redis    RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
	TTL      time.Duration `mapstructure:"ttl"`
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.address", ":5001")

	viper.SetDefault("providers.newsapi.endpoint", "https://newsapi.org/v2/everything")
	viper.SetDefault("providers.newsapi.timeout", 12*time.Second)
	viper.SetDefault("providers.gnews.endpoint", "https://gnews.io/api/v4/search")
	viper.SetDefault("providers.gnews.timeout", 15*time.Second)
	viper.SetDefault("providers.openai.completion_model", "gpt-4o-mini")
	viper.SetDefault("providers.openai.embedding_model", "text-embedding-3-small")
	viper.SetDefault("providers.openai.temperature", 0.2)
	viper.SetDefault("providers.openai.max_tokens", 4096)
	viper.SetDefault("providers.openai.timeout", 30*time.Second)

	viper.SetDefault("search.min_results", 40)
	viper.SetDefault("search.max_results", 60)
	viper.SetDefault("search.per_domain_cap", 3)
	viper.SetDefault("search.period_days", 14)
	viper.SetDefault("search.max_period_days", 60)
	viper.SetDefault("search.languages", []string{"ar", "en"})

	viper.SetDefault("processing.article_similarity_threshold", 0.95)
	viper.SetDefault("processing.fact_similarity_threshold", 0.90)
	viper.SetDefault("processing.min_content_words", 25)
	viper.SetDefault("processing.workers", 10)
	viper.SetDefault("processing.topic_write_delay", 4*time.Second)
	viper.SetDefault("processing.clustering.min_cluster_size", 2)
	viper.SetDefault("processing.clustering.epsilon", 0.9)

	viper.SetDefault("extraction.fetcher", "http")
	viper.SetDefault("extraction.timeout", 15*time.Second)
	viper.SetDefault("extraction.max_chars", 20000)

	viper.SetDefault("storage.job_store", "memory")
	viper.SetDefault("storage.job_queue", 64)
	viper.SetDefault("storage.workers", 2)
	viper.SetDefault("storage.redis.timeout", 5*time.Second)
	viper.SetDefault("storage.redis.ttl", 24*time.Hour)
}

// LoadConfig loads config from file, falling back to defaults and
// TAQRIR_* environment variables when no file is present.
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	setDefaults()

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("TAQRIR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		// no file is fine; defaults + env carry the service
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.Search.Validate(); err != nil {
		panic(err)
	}
	if err := config.Processing.Validate(); err != nil {
		panic(err)
	}
	if config.Storage.JobStore == "redis" {
		if err := config.Storage.Redis.Validate(); err != nil {
			panic(err)
		}
	}
	return &config
}
