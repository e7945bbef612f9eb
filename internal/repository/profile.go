package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

// PostgresRepository is the ProfileRepository backed by the profiles table.
type PostgresRepository struct {
	pool PgxPool
}

func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (name, embedding, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	embedding := toVector(profile.Embedding)
	err := r.pool.QueryRow(ctx, query, profile.Name, &embedding).
		Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrProfileExists
		}
		return fmt.Errorf("create profile: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET embedding = $2, updated_at = NOW()
		WHERE name = $1
		RETURNING created_at, updated_at
	`

	embedding := toVector(profile.Embedding)
	err := r.pool.QueryRow(ctx, query, profile.Name, &embedding).
		Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Put(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (name, embedding, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET embedding = EXCLUDED.embedding, updated_at = NOW()
		RETURNING created_at, updated_at
	`

	embedding := toVector(profile.Embedding)
	err := r.pool.QueryRow(ctx, query, profile.Name, &embedding).
		Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("put profile: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, name string) (*domain.Profile, error) {
	query := `
		SELECT name, embedding, created_at, updated_at
		FROM profiles
		WHERE name = $1
	`

	var profile domain.Profile
	var embedding *pgvector.Vector

	err := r.pool.QueryRow(ctx, query, name).Scan(
		&profile.Name,
		&embedding,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if embedding == nil || len(embedding.Slice()) == 0 {
		return nil, corrupt(name, errors.New("empty embedding"))
	}
	profile.Embedding = fromVector(*embedding)

	return &profile, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, name string) (bool, error) {
	query := `
		DELETE FROM profiles
		WHERE name = $1
	`

	result, err := r.pool.Exec(ctx, query, name)
	if err != nil {
		return false, fmt.Errorf("delete profile: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM profiles
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan profile name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return names, nil
}

func (r *PostgresRepository) All(ctx context.Context) (map[string]domain.Embedding, error) {
	query := `
		SELECT name, embedding
		FROM profiles
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	defer rows.Close()

	all := make(map[string]domain.Embedding)
	for rows.Next() {
		var name string
		var embedding *pgvector.Vector
		if err := rows.Scan(&name, &embedding); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		if embedding == nil || len(embedding.Slice()) == 0 {
			return nil, corrupt(name, errors.New("empty embedding"))
		}
		all[name] = fromVector(*embedding)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return all, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database unhealthy: %w", err)
	}
	return nil
}

var _ ProfileRepository = (*PostgresRepository)(nil)
