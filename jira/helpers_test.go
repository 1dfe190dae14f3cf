package jira_test

import (
	"testing"
	"time"

	"github.com/andyle182810/jiraclient/cache"
	"github.com/andyle182810/jiraclient/jira"
	"github.com/andyle182810/jiraclient/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) *cache.MemoryStore {
	t.Helper()

	store, err := cache.NewMemoryStore(0)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	return store
}

func fakeConfig(fake *testutil.FakeJira) jira.Config {
	return jira.Config{
		InstanceURL:        fake.URL,
		Username:           testutil.FakeJiraUsername,
		Password:           testutil.FakeJiraPassword,
		Timeout:            2 * time.Second,
		CacheTTL:           time.Minute,
		InsecureSkipVerify: false,
	}
}

func newTestClient(t *testing.T, fake *testutil.FakeJira, opts ...jira.Option) *jira.Client {
	t.Helper()

	return newTestClientWithConfig(t, fakeConfig(fake), opts...)
}

func newTestClientWithConfig(t *testing.T, cfg jira.Config, opts ...jira.Option) *jira.Client {
	t.Helper()

	allOpts := append([]jira.Option{
		jira.WithStore(newMemoryStore(t)),
		jira.WithLogger(zerolog.Nop()),
	}, opts...)

	client, err := jira.New(cfg, allOpts...)
	require.NoError(t, err)

	return client
}
