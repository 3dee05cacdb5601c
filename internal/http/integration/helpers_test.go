package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/fittrack/internal/auth"
	"github.com/geocoder89/fittrack/internal/db"
	apphttp "github.com/geocoder89/fittrack/internal/http"
	"github.com/geocoder89/fittrack/internal/http/handlers"
	"github.com/geocoder89/fittrack/internal/observability"
	"github.com/geocoder89/fittrack/internal/redisclient"
	"github.com/geocoder89/fittrack/internal/repo/postgres"
	"github.com/geocoder89/fittrack/internal/revocation"
	"github.com/geocoder89/fittrack/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// setupRouter wires the real Postgres repositories, plus Redis when
// TEST_REDIS_ADDR is set. Tests skip without TEST_DB_DSN.
func setupRouter(t *testing.T) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, dsn, 4)
	if err != nil {
		t.Fatalf("Failed to create pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	resetDB(t, pool)

	prom := observability.NewProm(prometheus.NewRegistry())

	deps := apphttp.Deps{
		Log:         slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Env:         "test",
		Users:       postgres.NewUsersRepo(pool, prom),
		Workouts:    postgres.NewWorkoutsRepo(pool, prom),
		Hasher:      security.NewHasher(4),
		JWT:         auth.NewManager("test-secret-key", time.Hour),
		Revocations: revocation.NewMemoryStore(),
		Prom:        prom,
		Checks:      []handlers.Check{{Name: "database", Ping: pool.Ping}},
	}

	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		rdb := redisclient.New(redisclient.Config{Addr: addr})
		t.Cleanup(func() { _ = rdb.Close() })

		if err := rdb.Ping(ctx); err != nil {
			t.Fatalf("redis ping: %v", err)
		}

		deps.Revocations = redisclient.NewTokenDenylist(rdb)
		deps.Checks = append(deps.Checks, handlers.Check{Name: "redis", Ping: rdb.Ping})
	}

	return apphttp.NewRouter(deps), pool
}

func resetDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `TRUNCATE workouts, users CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func doRequest(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

func registerAndLogin(t *testing.T, router http.Handler, email string) string {
	t.Helper()

	body := `{"email":"` + email + `","password":"longpass1"}`

	w := doRequest(router, http.MethodPost, "/auth/register", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register: got %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodPost, "/auth/login", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Access string `json:"access"`
	}
	mustReadJSON(t, w, &resp)

	if resp.Access == "" {
		t.Fatalf("login returned no token")
	}

	return resp.Access
}
