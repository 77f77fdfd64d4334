package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"cashdunia/internal/config"
	"cashdunia/internal/db"
	"cashdunia/internal/economy"
	httpserver "cashdunia/internal/http"
	"cashdunia/internal/migrations"
	"cashdunia/internal/repository"
	"cashdunia/internal/service"
	"cashdunia/internal/ws"

	"github.com/gin-gonic/gin"
)

const testSecret = "integration-secret"

type testServer struct {
	*httptest.Server
	engine *service.Engine
	store  repository.Store
	cfg    *config.Config
}

// newMemoryServer starts the full route table over the in-memory store.
func newMemoryServer(t *testing.T) *testServer {
	t.Helper()
	return newServer(t, repository.NewMemoryStore())
}

// newPostgresServer does the same against DATABASE_URL, skipping when unset.
func newPostgresServer(t *testing.T) *testServer {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool := db.Connect(dsn, 10)
	t.Cleanup(pool.Close)
	if _, err := migrations.Apply(context.Background(), pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return newServer(t, repository.NewPostgresStore(pool))
}

func newServer(t *testing.T, store repository.Store) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service.InitJWT(testSecret, time.Hour)

	cal, err := economy.LoadCalendar(economy.DefaultTimezone)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}

	hub := ws.NewHub()
	engine := service.New(service.Options{
		Store:    store,
		Calendar: cal,
		Notifier: hub,
	})

	cfg := &config.Config{
		Storage:          config.StorageMemory,
		JWTSecret:        testSecret,
		APIRateLimit:     10000,
		APIRateWindow:    time.Minute,
		ActionRateLimit:  10000,
		ActionRateWindow: time.Minute,
	}

	r := gin.New()
	httpserver.RegisterRoutes(r, httpserver.Deps{
		Config:  cfg,
		Engine:  engine,
		Store:   store,
		Hub:     hub,
		Version: "test",
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, engine: engine, store: store, cfg: cfg}
}

// signup creates an account and returns its id and bearer token.
func (s *testServer) signup(t *testing.T, name string) (int64, string) {
	t.Helper()
	u, err := s.engine.Accounts.Register(context.Background(), name, "")
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return u.ID, token
}

// grantAdmin lets userID call the operator endpoints.
func (s *testServer) grantAdmin(userID int64) {
	s.cfg.AdminUserIDs = append(s.cfg.AdminUserIDs, userID)
}

// fund credits userID through the ledger.
func (s *testServer) fund(t *testing.T, userID, amount int64) {
	t.Helper()
	ctx := context.Background()
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		_, err := s.engine.Ledger.Credit(ctx, tx, userID, amount, "test_grant", nil)
		return err
	})
	if err != nil {
		t.Fatalf("fund: %v", err)
	}
}

// do sends a JSON request and decodes the response body into out when non-nil.
func (s *testServer) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return res.StatusCode
}

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
