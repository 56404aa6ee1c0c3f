// Package config loads server configuration from environment variables
// and an optional YAML file, environment taking precedence.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lcampanari/gamebook-api/internal/errors"
)

const envPrefix = "GAMEBOOK"

// Config is the full server configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Narration NarrationConfig `mapstructure:"narration"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Books     BooksConfig     `mapstructure:"books"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// RedisConfig configures the Redis connection backing sessions, the book
// store and the retrieval cache.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GeminiConfig configures the narration model. An empty APIKey switches
// the server to the canned fallback narrator.
type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

// NarrationConfig bounds narration calls
type NarrationConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig bounds outbound model calls per window
type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// CacheConfig configures the retrieval cache
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// BooksConfig points at the gamebook YAML files for indexing
type BooksConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from the environment and, when path is not
// empty, from a YAML file at that path.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.embedding_model", "text-embedding-004")

	v.SetDefault("narration.timeout", 30*time.Second)

	v.SetDefault("ratelimit.max_requests", 15)
	v.SetDefault("ratelimit.window", time.Minute)

	v.SetDefault("cache.ttl", time.Hour)

	v.SetDefault("books.dir", "books")
}

// Validate checks the loaded values for obvious misconfiguration
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Redis.Address == "" {
		vb.RequiredField("redis.address")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		vb.Field("server.port", "must be between 1 and 65535")
	}
	if c.RateLimit.MaxRequests <= 0 {
		vb.Field("ratelimit.max_requests", "must be positive")
	}
	if c.RateLimit.Window <= 0 {
		vb.Field("ratelimit.window", "must be positive")
	}
	if c.Narration.Timeout <= 0 {
		vb.Field("narration.timeout", "must be positive")
	}
	if c.Cache.TTL <= 0 {
		vb.Field("cache.ttl", "must be positive")
	}

	return vb.Build()
}
