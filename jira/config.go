package jira

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andyle182810/jiraclient/validator"
)

const (
	DefaultTimeout  = 5 * time.Second
	DefaultCacheTTL = 60 * time.Second
)

var ErrInvalidConfig = errors.New("jira: invalid configuration")

type Config struct {
	// InstanceURL is the base URL of the Jira instance. A trailing slash is
	// ignored.
	InstanceURL string        `json:"instanceUrl" validate:"required,http_url"`
	Username    string        `json:"username"    validate:"required"`
	Password    string        `json:"password"    validate:"required"`
	Timeout     time.Duration `json:"timeout"     validate:"gte=0"`
	CacheTTL    time.Duration `json:"cacheTtl"    validate:"gte=0"`

	// InsecureSkipVerify turns off TLS certificate checks for the instance.
	InsecureSkipVerify bool `json:"insecureSkipVerify"`
}

func (cfg Config) WithDefaults() Config {
	cfg.InstanceURL = strings.TrimRight(strings.TrimSpace(cfg.InstanceURL), "/")

	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	return cfg
}

func (cfg Config) Validate() error {
	if err := validator.Validate(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}
