package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/andyle182810/jiraclient/cache"
	"github.com/andyle182810/jiraclient/httpclient"
	"github.com/andyle182810/jiraclient/internal/config"
	"github.com/andyle182810/jiraclient/jira"
	"github.com/andyle182810/jiraclient/jsondoc"
	"github.com/andyle182810/jiraclient/logutil"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const defaultUserPicker = "/rest/api/latest/user/search"

var (
	errNoCreateMeta   = errors.New("no create metadata for project")
	errCreateRejected = errors.New("jira rejected the issue")
)

// session is the state the commands share once Before has run.
type session struct {
	out    io.Writer
	logger zerolog.Logger
	client *jira.Client
	redis  *redis.Client
}

func newApp(stdout, stderr io.Writer, loadConfig func() (*config.Config, error)) *cli.App {
	s := &session{out: stdout} //nolint:exhaustruct

	//nolint:exhaustruct
	return &cli.App{
		Name:      "jiractl",
		Usage:     "Query and create Jira issues from the command line",
		Writer:    stdout,
		ErrWriter: stderr,
		Before: func(c *cli.Context) error {
			return s.open(c.Context, loadConfig, stderr)
		},
		After: func(*cli.Context) error {
			return s.close()
		},
		Commands: []*cli.Command{
			s.projectsCommand(),
			s.prioritiesCommand(),
			s.versionsCommand(),
			s.usersCommand(),
			s.createMetaCommand(),
			s.issueCommand(),
			s.createCommand(),
			s.urlCommand(),
		},
	}
}

func (s *session) open(ctx context.Context, loadConfig func() (*config.Config, error), stderr io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	s.logger = logutil.New(cfg.LogLevel, cfg.LogPretty, stderr)

	store, err := s.openStore(ctx, cfg)
	if err != nil {
		return err
	}

	client, err := jira.New(cfg.Jira(), jira.WithStore(store), jira.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("failed to create jira client: %w", err)
	}

	s.client = client

	return nil
}

//nolint:ireturn
func (s *session) openStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	if cfg.CacheBackend != config.CacheBackendRedis {
		store, err := cache.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}

		return store, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	s.redis = client

	s.logger.Debug().
		Str("host", cfg.RedisHost).
		Int("port", cfg.RedisPort).
		Msg("Using redis read cache")

	return cache.NewRedisStore(client, cfg.RedisKeyPrefix), nil
}

func (s *session) close() error {
	if s.redis == nil {
		return nil
	}

	if err := s.redis.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}

func (s *session) printResponse(resp *httpclient.Response) error {
	if doc, ok := resp.JSON(); ok {
		return s.printJSON(doc)
	}

	_, err := fmt.Fprintln(s.out, resp.Text())

	return err //nolint:wrapcheck
}

func (s *session) printJSON(v any) error {
	data, err := jsondoc.MarshalIndent(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	_, err = fmt.Fprintln(s.out, string(data))

	return err //nolint:wrapcheck
}

// reportAPIError logs the details Jira attached to a failed call.
func (s *session) reportAPIError(err error) {
	apiErr, ok := httpclient.AsError(err)
	if !ok {
		return
	}

	event := s.logger.Error().Int("status", apiErr.StatusCode())

	if apiErr.Unauthorized() {
		event.Msg("Jira rejected the credentials")

		return
	}

	if apiErr.StatusCode() != http.StatusBadRequest {
		event.Str("error", apiErr.Error()).Msg("Jira request failed")

		return
	}

	fields, errs := apiErr.FieldErrors()
	for _, field := range fields {
		s.logger.Error().Str("field", field).Msg(errs[field])
	}

	for _, msg := range apiErr.ErrorMessages() {
		s.logger.Error().Msg(msg)
	}
}
