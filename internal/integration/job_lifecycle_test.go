package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"smartats/internal/config"
	"smartats/internal/database"
	"smartats/internal/database/migration"
	dbpostgres "smartats/internal/database/postgres"
	"smartats/internal/delivery/http/handler"
	"smartats/internal/delivery/http/middleware"
	"smartats/internal/delivery/http/routes"
	v1 "smartats/internal/delivery/http/routes/v1"
	"smartats/internal/infrastructure/cache"
	"smartats/internal/pkg/jwt"
	"smartats/internal/repository"
	ucauth "smartats/internal/usecase/auth"
	ucjob "smartats/internal/usecase/job"
	"smartats/migrations"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	app   *fiber.App
	db    database.DB
	redis *miniredis.Miniredis
}

func TestIntegration_JobLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	srv := newTestServer(t, ctx)
	suffix := time.Now().UnixNano()

	owner := registerAndLogin(t, srv, fmt.Sprintf("owner-%d@example.com", suffix))
	other := registerAndLogin(t, srv, fmt.Sprintf("other-%d@example.com", suffix))

	title := fmt.Sprintf("Integration Golang Engineer %d", suffix)
	var id int64
	env := do(t, srv, http.MethodPost, "/api/v1/jobs", owner, map[string]any{
		"title":           title,
		"department":      "Engineering",
		"requirements":    "3 years of Go",
		"required_skills": []string{"Go", "PostgreSQL"},
		"salary_min":      10,
		"salary_max":      20,
	})
	require.Equal(t, http.StatusOK, env.Code)
	require.NoError(t, json.Unmarshal(env.Data, &id))
	t.Cleanup(func() {
		_, _ = srv.db.Exec(context.Background(), `DELETE FROM jobs WHERE id = $1`, id)
	})

	// drafts are invisible to the default listing
	assert.Equal(t, int64(0), listTotal(t, srv, owner, title))

	env = do(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/publish", id), other, nil)
	assert.Equal(t, http.StatusForbidden, env.Code)

	env = do(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/publish", id), owner, nil)
	require.Equal(t, http.StatusOK, env.Code)
	assert.False(t, srv.redis.Exists(fmt.Sprintf("cache:job:%d", id)))

	env = do(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/publish", id), owner, nil)
	assert.Equal(t, http.StatusBadRequest, env.Code)

	assert.Equal(t, int64(1), listTotal(t, srv, owner, "Integration Golang"))

	var detail ucjob.Response
	env = do(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", id), owner, nil)
	require.Equal(t, http.StatusOK, env.Code)
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "10K-20K", detail.SalaryRange)
	assert.Equal(t, "已发布", detail.StatusDesc)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, detail.RequiredSkills)
	assert.True(t, srv.redis.Exists(fmt.Sprintf("cache:job:%d", id)))

	// served from cache; the counter only moves on misses
	env = do(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", id), owner, nil)
	require.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, 1, viewCount(t, ctx, srv.db, id))

	env = do(t, srv, http.MethodDelete, fmt.Sprintf("/api/v1/jobs/%d", id), owner, nil)
	require.Equal(t, http.StatusOK, env.Code)

	env = do(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", id), owner, nil)
	assert.Equal(t, http.StatusNotFound, env.Code)
	assert.Equal(t, int64(0), listTotal(t, srv, owner, title))

	var deleted bool
	require.NoError(t, srv.db.QueryRow(ctx, `SELECT deleted FROM jobs WHERE id = $1`, id).Scan(&deleted))
	assert.True(t, deleted)
}

func newTestServer(t *testing.T, ctx context.Context) *testServer {
	t.Helper()

	db := connectTestDB(t, ctx)
	t.Cleanup(func() { _ = db.Close() })

	runner := migration.Runner{FS: migrations.FS}
	require.NoError(t, runner.Run(ctx, db.SQLDB()))

	mr := miniredis.RunT(t)
	redisCache := cache.NewRedisWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), nil)

	tokens := jwt.NewHMACService(config.JWTConfig{
		AccessSecret:     "integration-access",
		RefreshSecret:    "integration-refresh",
		AccessExpiresIn:  5 * time.Minute,
		RefreshExpiresIn: time.Hour,
	}, "smartats")

	jobUC := ucjob.NewService(repository.NewPostgresJobRepository(db), redisCache, nil, nil)
	authUC := ucauth.NewService(repository.NewPostgresUserRepository(db), tokens, nil)

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	routes.NewRegistry(handler.NewHealthHandler(db, redisCache), nil, v1.Handlers{
		Auth:   handler.NewAuthHandler(authUC),
		Jobs:   handler.NewJobHandler(jobUC),
		AuthMw: middleware.NewAuthMiddleware(tokens),
	}).Register(app)

	return &testServer{app: app, db: db, redis: mr}
}

func registerAndLogin(t *testing.T, srv *testServer, email string) string {
	t.Helper()
	t.Cleanup(func() {
		_, _ = srv.db.Exec(context.Background(), `DELETE FROM users WHERE email = $1`, email)
	})

	creds := map[string]any{"email": email, "password": "password123"}
	env := do(t, srv, http.MethodPost, "/api/v1/auth/register", "", creds)
	require.Equal(t, http.StatusOK, env.Code, env.Message)

	env = do(t, srv, http.MethodPost, "/api/v1/auth/login", "", creds)
	require.Equal(t, http.StatusOK, env.Code, env.Message)

	var res ucauth.Result
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(t, res.Tokens.AccessToken)
	return res.Tokens.AccessToken
}

func listTotal(t *testing.T, srv *testServer, token, keyword string) int64 {
	t.Helper()
	env := do(t, srv, http.MethodGet, "/api/v1/jobs?keyword="+url.QueryEscape(keyword), token, nil)
	require.Equal(t, http.StatusOK, env.Code)

	var page ucjob.Page[ucjob.Response]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	return page.Total
}

func viewCount(t *testing.T, ctx context.Context, db database.DB, id int64) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(ctx, `SELECT view_count FROM jobs WHERE id = $1`, id).Scan(&n))
	return n
}

func do(t *testing.T, srv *testServer, method, path, token string, body any) envelope {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := srv.app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := stringsOrDefault(os.Getenv("SMARTATS_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("SMARTATS_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("SMARTATS_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("SMARTATS_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("SMARTATS_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("SMARTATS_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set SMARTATS_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if ssl == "" {
		ssl = "disable"
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: pass,
		DBSSLMode:  ssl,
	}, nil)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func stringsOrDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
