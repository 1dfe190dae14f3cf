package testutil

import (
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultValkeyImage = "valkey/valkey:8-alpine"
	defaultValkeyPort  = "6379/tcp"
	startupTimeout     = 60 * time.Second
)

// ValkeyTestContainer is a throwaway Redis-compatible server for store tests.
type ValkeyTestContainer struct {
	Container testcontainers.Container
	Host      string
	Port      nat.Port
}

func (c *ValkeyTestContainer) Address() string {
	return c.Host + ":" + c.Port.Port()
}

func SetupValkeyContainer(t *testing.T) *ValkeyTestContainer {
	t.Helper()
	SkipIfShort(t)

	ctx := t.Context()

	//nolint:exhaustruct
	req := testcontainers.ContainerRequest{
		Image:        defaultValkeyImage,
		ExposedPorts: []string{defaultValkeyPort},
		WaitingFor:   wait.ForListeningPort(defaultValkeyPort).WithStartupTimeout(startupTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
		ProviderType:     testcontainers.ProviderDocker,
		Logger:           &log.Logger,
		Reuse:            false,
	})

	require.NoError(t, err)

	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return &ValkeyTestContainer{
		Container: container,
		Host:      host,
		Port:      port,
	}
}
