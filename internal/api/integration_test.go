//go:build integration

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/audit"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/database"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/database/dbtest"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/repository"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/service"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/testutil"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	pg, err := dbtest.StartPostgres(ctx)
	if err != nil {
		fmt.Printf("Failed to start container: %v\n", err)
		os.Exit(1)
	}

	if err := database.MigrateUp(pg.DSN, dbtest.DatabaseName); err != nil {
		fmt.Printf("Failed to run migrations: %v\n", err)
		_ = pg.Terminate(ctx)
		os.Exit(1)
	}

	testDB, err = database.NewPool(ctx, database.DefaultPoolConfig(pg.DSN))
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		_ = pg.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testDB.Close()
	if err := pg.Terminate(ctx); err != nil {
		fmt.Printf("Failed to terminate container: %v\n", err)
	}
	os.Exit(code)
}

func newPostgresRouter(t *testing.T) *Router {
	t.Helper()
	_, err := testDB.Exec(context.Background(), `TRUNCATE profiles, clock_events`)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewPostgresRepository(testDB)
	events := audit.NewStoreLogger(repository.NewEventRepository(testDB))

	svc := service.NewFaceService(store, mock.New(), events, logger)
	router := NewRouter(logger, &Dependencies{
		FaceService:       svc,
		Store:             store,
		IdentifyRateLimit: 1000,
	})
	router.Setup()
	return router
}

func postImage(t *testing.T, router *Router, path, name string, image []byte) int {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if name != "" {
		_ = writer.WriteField("name", name)
	}
	part, err := writer.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, _ = part.Write(image)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := router.App().Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestIntegration_ReadyEndpoint(t *testing.T) {
	router := newPostgresRouter(t)

	resp, err := router.App().Test(httptest.NewRequest("GET", "/ready", nil), -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}
}

func TestIntegration_AttendanceWithPostgres(t *testing.T) {
	router := newPostgresRouter(t)
	ctx := context.Background()
	image := testutil.FacePNG(21)

	require.Equal(t, 200, postImage(t, router, "/register-face", "alice", image))
	assert.Equal(t, 409, postImage(t, router, "/register-face", "alice", image))
	assert.Equal(t, 200, postImage(t, router, "/clockin", "", image))
	assert.Equal(t, 200, postImage(t, router, "/clockout", "", image))

	history, err := repository.NewEventRepository(testDB).History(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.ActionClockOut, history[0].Action)
	assert.Equal(t, domain.ActionClockIn, history[1].Action)
	assert.Equal(t, domain.ActionCreated, history[2].Action)

	resp, err := router.App().Test(httptest.NewRequest("GET", "/profiles", nil), -1)
	require.NoError(t, err)
	var out struct {
		Profiles []string `json:"profiles"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, []string{"alice"}, out.Profiles)
}

func TestIntegration_PgvectorExtension(t *testing.T) {
	ctx := context.Background()

	var version string
	err := testDB.QueryRow(ctx, "SELECT extversion FROM pg_extension WHERE extname = 'vector'").Scan(&version)
	if err != nil {
		t.Fatalf("pgvector not available: %v", err)
	}

	t.Logf("pgvector version: %s", version)
}
