package integration_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vcscsvcscs/vitals-tracker/internal/app"
	"github.com/vcscsvcscs/vitals-tracker/internal/azure"
	"github.com/vcscsvcscs/vitals-tracker/internal/config"
	"go.uber.org/zap"
)

// documentStore mimics the REST document store: GET returns the keyed
// collection, POST appends and answers with the generated key.
type documentStore struct {
	mu   sync.Mutex
	docs map[string]json.RawMessage
	seq  int
	down bool
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: map[string]json.RawMessage{}}
}

func (s *documentStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.down {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if len(s.docs) == 0 {
			_, _ = io.WriteString(w, "null")
			return
		}
		_ = json.NewEncoder(w).Encode(s.docs)
	case http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.seq++
		key := fmt.Sprintf("-Nit%04d", s.seq)
		s.docs[key] = body
		_ = json.NewEncoder(w).Encode(map[string]string{"name": key})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *documentStore) setDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

// geminiServer answers generateContent calls with a fixed reply and keeps the prompts
type geminiServer struct {
	mu      sync.Mutex
	reply   string
	fail    bool
	prompts []string
}

func (g *geminiServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	g.mu.Lock()
	defer g.mu.Unlock()
	if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
		g.prompts = append(g.prompts, req.Contents[0].Parts[0].Text)
	}

	w.Header().Set("Content-Type", "application/json")
	if g.fail {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"code":500,"message":"model unavailable","status":"INTERNAL"}}`)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": g.reply}},
			},
		}},
	})
}

func (g *geminiServer) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

func (g *geminiServer) setFail(fail bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fail = fail
}

// setupTestDatabase connects to TEST_DATABASE_URL or starts a PostgreSQL container
func setupTestDatabase(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	if dbURL := os.Getenv("TEST_DATABASE_URL"); dbURL != "" {
		t.Logf("Using database from TEST_DATABASE_URL")
		return dbURL, func() {}
	}

	postgresContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("vitals_it"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Should be able to start PostgreSQL container")

	dbURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cleanup := func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return dbURL, cleanup
}

// testEnv is a fully wired API backed by fakes for the external services
type testEnv struct {
	app     *app.App
	router  *gin.Engine
	store   *documentStore
	gemini  *geminiServer
	storage *azure.MockBlobStorageClient
}

type envOption func(*config.Config)

func withPostgres(dbURL string) envOption {
	return func(c *config.Config) {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		c.Store.Backend = config.StorePostgres
		c.Database = config.DatabaseConfig{
			URL:        dbURL,
			Table:      "vitals_it_" + suffix,
			AuditTable: "audit_it_" + suffix,
			MaxConns:   4,
		}
	}
}

func withoutReports() envOption {
	return func(c *config.Config) {
		c.Azure.Storage = config.StorageConfig{}
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger := zap.NewNop()

	store := newDocumentStore()
	storeServer := httptest.NewServer(store)
	t.Cleanup(storeServer.Close)

	gemini := &geminiServer{reply: "Your readings look stable. Keep it up."}
	geminiHTTP := httptest.NewServer(gemini)
	t.Cleanup(geminiHTTP.Close)

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "test", ShutdownTimeout: time.Second},
		Store:  config.StoreConfig{Backend: config.StoreREST, URL: storeServer.URL + "/vital_signs.json", Timeout: 5 * time.Second},
		AI:     config.AIConfig{Provider: config.ProviderGemini, MaxAttempts: 1, RetryDelay: time.Millisecond},
		Gemini: config.GeminiConfig{APIKey: "test-key", Model: "gemini-2.0-flash", BaseURL: geminiHTTP.URL},
		Azure: config.AzureConfig{Storage: config.StorageConfig{
			AccountName: "devstoreaccount1",
			AccountKey:  "test",
			Container:   "vitals-reports",
		}},
		Assistant: config.AssistantConfig{HistorySize: 5},
		Display:   config.DisplayConfig{Timezone: "UTC"},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	require.NoError(t, cfg.Validate())

	a, err := app.New(ctx, cfg, logger)
	require.NoError(t, err, "Should be able to wire the application")
	t.Cleanup(a.Close)

	storage := azure.NewMockBlobStorageClient(logger)
	if cfg.ReportsEnabled() {
		a.ReportStorage = storage
	}

	h, err := a.Handler(ctx)
	require.NoError(t, err)
	router, err := a.NewRouter(h)
	require.NoError(t, err)

	if cfg.Store.Backend == config.StorePostgres {
		t.Cleanup(func() { dropTables(t, a.Pool, cfg.Database.Table, cfg.Database.AuditTable) })
	}

	return &testEnv{app: a, router: router, store: store, gemini: gemini, storage: storage}
}

func dropTables(t *testing.T, pool *pgxpool.Pool, tables ...string) {
	for _, table := range tables {
		if _, err := pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+table); err != nil {
			t.Logf("failed to drop %s: %s", table, err)
		}
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "integration-test")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// backends runs fn against the REST store and, outside short mode, PostgreSQL
func backends(t *testing.T, fn func(t *testing.T, opts ...envOption)) {
	t.Run("rest", func(t *testing.T) {
		fn(t)
	})
	t.Run("postgres", func(t *testing.T) {
		dbURL, cleanup := setupTestDatabase(t, context.Background())
		t.Cleanup(cleanup)
		fn(t, withPostgres(dbURL))
	})
}
