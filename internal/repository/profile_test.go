package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

func TestPostgresRepository_Create(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful create",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO profiles \(name, embedding, created_at, updated_at\)`).
					WithArgs("alice", pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
			},
		},
		{
			name: "duplicate name",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO profiles`).
					WithArgs("alice", pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "profiles_pkey"})
			},
			wantErr: domain.ErrProfileExists,
		},
		{
			name: "database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO profiles`).
					WithArgs("alice", pgxmock.AnyArg()).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("create profile: connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewPostgresRepository(mock)
			profile := &domain.Profile{Name: "alice", Embedding: domain.Embedding{0.1, 0.2}}
			err = repo.Create(context.Background(), profile)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, domain.ErrProfileExists) {
					assert.ErrorIs(t, err, domain.ErrProfileExists)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, now, profile.CreatedAt)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_Update(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful update",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`UPDATE profiles SET embedding = \$2, updated_at = NOW\(\) WHERE name = \$1`).
					WithArgs("bob", pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
			},
		},
		{
			name: "profile not found",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`UPDATE profiles`).
					WithArgs("bob", pgxmock.AnyArg()).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrProfileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewPostgresRepository(mock)
			err = repo.Update(context.Background(), &domain.Profile{Name: "bob", Embedding: domain.Embedding{1}})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_Put(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO profiles .* ON CONFLICT \(name\) DO UPDATE`).
		WithArgs("carol", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	repo := NewPostgresRepository(mock)
	require.NoError(t, repo.Put(context.Background(), &domain.Profile{Name: "carol", Embedding: domain.Embedding{1}}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Get(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		want      domain.Embedding
		wantErr   error
	}{
		{
			name: "successful retrieval",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				embedding := pgvector.NewVector([]float32{0.1, 0.2, 0.3})
				rows := pgxmock.NewRows([]string{"name", "embedding", "created_at", "updated_at"}).
					AddRow("alice", &embedding, now, now)

				mock.ExpectQuery(`SELECT name, embedding, created_at, updated_at FROM profiles WHERE name = \$1`).
					WithArgs("alice").
					WillReturnRows(rows)
			},
			want: domain.Embedding{0.1, 0.2, 0.3},
		},
		{
			name: "not found",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT name, embedding, created_at, updated_at FROM profiles WHERE name = \$1`).
					WithArgs("alice").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrProfileNotFound,
		},
		{
			name: "null embedding is corrupt",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"name", "embedding", "created_at", "updated_at"}).
					AddRow("alice", nil, now, now)

				mock.ExpectQuery(`SELECT name, embedding`).
					WithArgs("alice").
					WillReturnRows(rows)
			},
			wantErr: domain.ErrCorruptProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewPostgresRepository(mock)
			got, err := repo.Get(context.Background(), "alice")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "alice", got.Name)
				assert.InDeltaSlice(t, []float64(tt.want), []float64(got.Embedding), 1e-6)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_Delete(t *testing.T) {
	tests := []struct {
		name        string
		mockSetup   func(mock pgxmock.PgxPoolIface)
		wantDeleted bool
		wantErr     bool
	}{
		{
			name: "deleted",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM profiles WHERE name = \$1`).
					WithArgs("alice").
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
			wantDeleted: true,
		},
		{
			name: "absent",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM profiles WHERE name = \$1`).
					WithArgs("alice").
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			wantDeleted: false,
		},
		{
			name: "database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM profiles`).
					WithArgs("alice").
					WillReturnError(errors.New("timeout"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewPostgresRepository(mock)
			deleted, err := repo.Delete(context.Background(), "alice")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantDeleted, deleted)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_ListAndAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT name FROM profiles ORDER BY name`).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("alice").AddRow("bob"))

	alice := pgvector.NewVector([]float32{1, 0})
	bob := pgvector.NewVector([]float32{0, 1})
	mock.ExpectQuery(`SELECT name, embedding FROM profiles`).
		WillReturnRows(pgxmock.NewRows([]string{"name", "embedding"}).
			AddRow("alice", &alice).
			AddRow("bob", &bob))

	repo := NewPostgresRepository(mock)

	names, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, names)

	all, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Embedding{1, 0}, all["alice"])
	assert.Equal(t, domain.Embedding{0, 1}, all["bob"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing().WillReturnError(errors.New("down"))

	repo := NewPostgresRepository(mock)
	err = repo.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unhealthy")

	assert.NoError(t, mock.ExpectationsWereMet())
}
