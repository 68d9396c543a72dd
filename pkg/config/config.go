package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Upstream   UpstreamConfig
	Redis      RedisConfig
	SQLite     SQLiteConfig
	LLM        LLMConfig
	Assessment AssessmentConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

// UpstreamConfig points at the assessment API that owns question
// selection, stopping criteria and cognitive analysis.
type UpstreamConfig struct {
	BaseURL    string
	APIToken   string
	TimeoutSec int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type SQLiteConfig struct {
	Path string
}

type LLMConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// AssessmentConfig carries product constants that the sample logic in the
// original dashboard hard-coded. They are configuration, not invariants.
type AssessmentConfig struct {
	BatchSize          int
	ResumeBoostYears   int
	DefaultTargetLevel int
	TopOpportunities   int
	TopResources       int
	SuggestionCacheTTL time.Duration
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/skillmap")

	viper.SetEnvPrefix("SKILLMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("upstream.baseURL", "http://localhost:8081")
	viper.SetDefault("upstream.timeoutSec", 15)

	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("sqlite.path", "./data/skillmap.db")

	viper.SetDefault("llm.model", "gpt-4")
	viper.SetDefault("llm.temperature", 0.4)
	viper.SetDefault("llm.maxTokens", 1024)

	viper.SetDefault("assessment.batchSize", 5)
	viper.SetDefault("assessment.resumeBoostYears", 2)
	viper.SetDefault("assessment.defaultTargetLevel", 4)
	viper.SetDefault("assessment.topOpportunities", 5)
	viper.SetDefault("assessment.topResources", 4)
	viper.SetDefault("assessment.suggestionCacheTTL", 24*time.Hour)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
