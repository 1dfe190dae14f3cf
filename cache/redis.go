package cache

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
	defaultPingTimeout  = 3 * time.Second
	defaultPoolSize     = 10
	defaultMaxRetries   = 3
	minPort             = 1
	maxPort             = 65535
)

var (
	ErrRedisConfigNil   = errors.New("cache: redis configuration must not be nil")
	ErrRedisInvalidHost = errors.New("cache: redis host is required")
	ErrRedisInvalidPort = errors.New("cache: redis port must be between 1 and 65535")
	ErrRedisInvalidDB   = errors.New("cache: redis database number must be non-negative")
	ErrRedisPing        = errors.New("cache: redis ping failed")
	ErrCAParseFailure   = errors.New("cache: failed to parse CA certificate")
)

type RedisConfig struct {
	Host          string
	Port          int
	Password      string
	DB            int
	DialTimeout   time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	PingTimeout   time.Duration
	PoolSize      int
	MaxRetries    int
	TLSEnabled    bool
	TLSSkipVerify bool
	TLSCAFile     string
}

func (cfg *RedisConfig) Validate() error {
	if cfg.Host == "" {
		return ErrRedisInvalidHost
	}

	if cfg.Port < minPort || cfg.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrRedisInvalidPort, cfg.Port)
	}

	if cfg.DB < 0 {
		return fmt.Errorf("%w: %d", ErrRedisInvalidDB, cfg.DB)
	}

	return nil
}

func (cfg *RedisConfig) WithDefaults() *RedisConfig {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}

	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}

	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	if cfg.PingTimeout == 0 {
		cfg.PingTimeout = defaultPingTimeout
	}

	if cfg.PoolSize == 0 {
		cfg.PoolSize = defaultPoolSize
	}

	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}

	return cfg
}

// NewRedisClient builds a client from cfg and checks it with a PING.
func NewRedisClient(ctx context.Context, cfg *RedisConfig) (*redis.Client, error) {
	if cfg == nil {
		return nil, ErrRedisConfigNil
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	//nolint:exhaustruct
	opt := &redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		MaxRetries:   cfg.MaxRetries,
	}

	if cfg.TLSEnabled {
		tlsConfig, err := buildTLSConfig(cfg)
		if err != nil {
			return nil, err
		}

		opt.TLSConfig = tlsConfig
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("%w: %w", ErrRedisPing, err)
	}

	return client, nil
}

//nolint:gosec,exhaustruct
func buildTLSConfig(cfg *RedisConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.TLSSkipVerify,
		MinVersion:         tls.VersionTLS12,
	}

	if cfg.TLSCAFile != "" {
		caCert, err := os.ReadFile(cfg.TLSCAFile)
		if err != nil {
			return nil, fmt.Errorf("cache: failed to read CA certificate: %w", err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, ErrCAParseFailure
		}

		tlsConfig.RootCAs = pool
	}

	return tlsConfig, nil
}

// RedisStore keeps entries as plain string keys so every entry carries its
// own expiry.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}

		return nil, fmt.Errorf("%w: %w", ErrStoreGet, err)
	}

	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreSet, err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreDelete, err)
	}

	return nil
}
