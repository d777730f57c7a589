package handlers_test

import (
	"Inventaris/internal/config"
	"Inventaris/internal/handlers"
	"Inventaris/internal/lock"
	"Inventaris/internal/middleware"
	"Inventaris/internal/model"
	"Inventaris/internal/repo"
	"Inventaris/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type testEnv struct {
	router http.Handler
	svc    handlers.Services
	items  repo.ItemRepository
	admin  *model.User
	alice  *model.User
	bob    *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvOrigins(t, []string{"*"})
}

// newTestEnvOrigins: то же, но с заданным списком CORS-источников.
func newTestEnvOrigins(t *testing.T, origins []string) *testEnv {
	t.Helper()
	db, err := repo.InitDB(repo.DriverSQLite, filepath.Join(t.TempDir(), "handlers.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	logger := zap.NewNop().Sugar()
	items := repo.NewItemRepository(db)
	borrowings := repo.NewBorrowingRepository(db)
	users := repo.NewUserRepository(db)

	catalog := service.NewCatalog(items, borrowings, lock.NewKeyed(), logger)
	svc := handlers.Services{
		Catalog: catalog,
		Ledger:  service.NewLedger(catalog, borrowings, logger),
		Users:   service.NewUserService(users),
		Auditor: service.NewAuditor(catalog, logger),
	}
	cfg := &config.Config{AuthSecret: testSecret, AllowedOrigins: origins}

	ctx := context.Background()
	root := service.Caller{UserID: -1, Role: model.RoleAdmin}
	admin, err := svc.Users.Create(ctx, root, "admin", "admin123", "Admin", model.RoleAdmin)
	require.NoError(t, err)
	alice, err := svc.Users.Create(ctx, root, "alice", "user123", "Alice", model.RoleUser)
	require.NoError(t, err)
	bob, err := svc.Users.Create(ctx, root, "bob", "user123", "Bob", model.RoleUser)
	require.NoError(t, err)

	return &testEnv{
		router: handlers.NewHandler(svc, logger, cfg).Router,
		svc:    svc,
		items:  items,
		admin:  admin,
		alice:  alice,
		bob:    bob,
	}
}

// do выполняет запрос от имени пользователя (nil: анонимно).
func (e *testEnv) do(t *testing.T, u *model.User, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if u != nil {
		addAuthCookie(t, req, u, testSecret)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func addAuthCookie(t *testing.T, req *http.Request, u *model.User, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_, err := middleware.SetLoginCookie(rr, u, secret)
	require.NoError(t, err)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type errBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

func (e *testEnv) createItem(t *testing.T, name string, stock int) model.Item {
	t.Helper()
	rr := e.do(t, e.admin, http.MethodPost, "/api/items", map[string]any{"name": name, "stock": stock})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[model.Item](t, rr)
}
