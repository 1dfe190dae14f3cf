package config

import (
	"fmt"
	"time"

	"github.com/andyle182810/jiraclient/cache"
	"github.com/andyle182810/jiraclient/jira"
	"github.com/andyle182810/jiraclient/validator"
	"github.com/caarlos0/env/v11"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	// Application
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	// Jira
	JiraURL                string        `env:"JIRA_URL"`
	JiraUsername           string        `env:"JIRA_USERNAME"`
	JiraPassword           string        `env:"JIRA_PASSWORD,unset"`
	JiraTimeout            time.Duration `env:"JIRA_TIMEOUT"              envDefault:"5s"`
	JiraCacheTTL           time.Duration `env:"JIRA_CACHE_TTL"            envDefault:"60s"`
	JiraInsecureSkipVerify bool          `env:"JIRA_INSECURE_SKIP_VERIFY" envDefault:"false"`

	// Read cache
	CacheBackend string `env:"CACHE_BACKEND" envDefault:"memory" validate:"oneof=memory redis"`

	// Redis, used when CacheBackend is redis
	RedisHost      string `env:"REDIS_HOST"       envDefault:"localhost"`
	RedisPort      int    `env:"REDIS_PORT"       envDefault:"6379"`
	RedisPassword  string `env:"REDIS_PASSWORD,unset"`
	RedisDB        int    `env:"REDIS_DB"         envDefault:"0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"jiraclient:"`
}

func New() (*Config, error) {
	return parse(env.Options{}) //nolint:exhaustruct
}

// FromMap parses cfg from environ instead of the process environment.
func FromMap(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ}) //nolint:exhaustruct
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config

	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Jira() jira.Config {
	return jira.Config{
		InstanceURL:        c.JiraURL,
		Username:           c.JiraUsername,
		Password:           c.JiraPassword,
		Timeout:            c.JiraTimeout,
		CacheTTL:           c.JiraCacheTTL,
		InsecureSkipVerify: c.JiraInsecureSkipVerify,
	}
}

//nolint:exhaustruct
func (c *Config) Redis() *cache.RedisConfig {
	return &cache.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}
