package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

// ProfileRepository stores one embedding per enrolled name.
type ProfileRepository interface {
	// Create stores a new profile; domain.ErrProfileExists when the name is taken.
	Create(ctx context.Context, profile *domain.Profile) error
	// Update replaces the embedding of an existing profile; domain.ErrProfileNotFound otherwise.
	Update(ctx context.Context, profile *domain.Profile) error
	// Put creates or overwrites a profile.
	Put(ctx context.Context, profile *domain.Profile) error
	Get(ctx context.Context, name string) (*domain.Profile, error)
	// Delete reports false, without error, when the name was not stored.
	Delete(ctx context.Context, name string) (bool, error)
	// List returns every enrolled name in lexical order.
	List(ctx context.Context) ([]string, error)
	// All loads every embedding; undecodable records fail with domain.ErrCorruptProfile.
	All(ctx context.Context) (map[string]domain.Embedding, error)
	Ping(ctx context.Context) error
}

// PgxPool is the subset of *pgxpool.Pool used by the postgres repository.
// pgxmock.PgxPoolIface satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}
