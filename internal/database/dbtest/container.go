//go:build integration

// Package dbtest starts a disposable pgvector database for integration tests.
package dbtest

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const DatabaseName = "pontoface_test"

// Postgres is a running pgvector container.
type Postgres struct {
	container testcontainers.Container
	DSN       string
}

// StartPostgres starts a pgvector/pgvector container and waits until it
// accepts connections.
func StartPostgres(ctx context.Context) (*Postgres, error) {
	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       DatabaseName,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("container port: %w", err)
	}

	return &Postgres{
		container: container,
		DSN:       fmt.Sprintf("postgres://test:test@%s:%s/%s?sslmode=disable", host, port.Port(), DatabaseName),
	}, nil
}

func (p *Postgres) Terminate(ctx context.Context) error {
	return p.container.Terminate(ctx)
}
